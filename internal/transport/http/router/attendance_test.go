package router_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type yearJSON struct {
	ID   string `json:"id"`
	Year int    `json:"year"`
}

type yearViewJSON struct {
	Year    yearJSON `json:"year"`
	Members []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"members"`
	Entries []struct {
		ID           string `json:"id"`
		ScheduleDate string `json:"schedule_date"`
	} `json:"entries"`
	Grid struct {
		Members []struct {
			Name string `json:"name"`
		} `json:"members"`
		Groups []struct {
			ScheduleDate string `json:"schedule_date"`
			RowSpan      int    `json:"row_span"`
			Rows         []struct {
				Kind  string `json:"kind"`
				Label string `json:"label"`
				Cells []struct {
					MemberID string `json:"member_id"`
					Value    string `json:"value"`
				} `json:"cells"`
			} `json:"rows"`
		} `json:"groups"`
	} `json:"grid"`
}

func TestAttendanceFlow(t *testing.T) {
	h := newHarness(t)
	_, token := h.member("minsu")
	base := "/api/v1/attendance/years"

	years := decode[[]yearJSON](t, h.do(h.api, http.MethodPost, base, token, map[string]int{"year": 2024}))
	require.Len(t, years, 1)
	years = decode[[]yearJSON](t, h.do(h.api, http.MethodPost, base, token, map[string]int{"year": 2025}))
	require.Len(t, years, 2)
	assert.Equal(t, 2025, years[0].Year)
	y := years[0]

	env := h.do(h.api, http.MethodPost, base, token, map[string]int{"year": 2025})
	assert.Equal(t, 400, env.Code)
	assert.Equal(t, "이미 존재하는 연도입니다.", env.Msg)
	env = h.do(h.api, http.MethodPost, base, token, map[string]int{"year": 1999})
	assert.Equal(t, 400, env.Code)

	view := decode[yearViewJSON](t, h.do(h.api, http.MethodGet, base+"/"+y.ID, "", nil))
	assert.Equal(t, 2025, view.Year.Year)
	assert.Empty(t, view.Grid.Groups)

	view = decode[yearViewJSON](t, h.do(h.api, http.MethodPost, base+"/"+y.ID+"/members", token, map[string]string{"name": " 민구 "}))
	require.Len(t, view.Members, 1)
	assert.Equal(t, "민구", view.Members[0].Name)
	memberID := view.Members[0].ID

	env = h.do(h.api, http.MethodPost, base+"/"+y.ID+"/members", token, map[string]string{"name": " "})
	assert.Equal(t, 400, env.Code)

	env = h.do(h.api, http.MethodPost, base+"/"+y.ID+"/entries", token, map[string]string{"schedule_date": "1월 11일"})
	assert.Equal(t, 400, env.Code)
	view = decode[yearViewJSON](t, h.do(h.api, http.MethodPost, base+"/"+y.ID+"/entries", token, map[string]string{"schedule_date": "1/11"}))
	require.Len(t, view.Entries, 1)
	entryID := view.Entries[0].ID

	view = decode[yearViewJSON](t, h.do(h.api, http.MethodPut, base+"/"+y.ID+"/records", token, map[string]string{
		"schedule_id": entryID, "member_id": memberID, "attendance": "X", "reason": "출장", "record_date": "1/10",
	}))
	require.Len(t, view.Grid.Groups, 1)
	g := view.Grid.Groups[0]
	assert.Equal(t, "1/11", g.ScheduleDate)
	assert.Equal(t, 3, g.RowSpan)
	require.Len(t, g.Rows, 3)
	assert.Equal(t, "참석", g.Rows[0].Label)
	assert.Equal(t, "X", g.Rows[0].Cells[0].Value)
	assert.Equal(t, "출장", g.Rows[1].Cells[0].Value)
	assert.Equal(t, "1/10", g.Rows[2].Cells[0].Value)

	view = decode[yearViewJSON](t, h.do(h.api, http.MethodPut, base+"/"+y.ID+"/records", token, map[string]string{
		"schedule_id": entryID, "member_id": memberID, "attendance": "O",
	}))
	assert.Equal(t, "O", view.Grid.Groups[0].Rows[0].Cells[0].Value)
	assert.Equal(t, "", view.Grid.Groups[0].Rows[1].Cells[0].Value)

	env = h.do(h.api, http.MethodPut, base+"/"+y.ID+"/records", token, map[string]string{
		"schedule_id": entryID, "member_id": memberID, "attendance": "Y",
	})
	assert.Equal(t, 400, env.Code)

	// 通过其他年份的路径不能改动本年份的成员/日程
	other := years[1].ID
	env = h.do(h.api, http.MethodPut, base+"/"+other+"/records", token, map[string]string{
		"schedule_id": entryID, "member_id": memberID, "attendance": "O",
	})
	assert.Equal(t, 404, env.Code)
	env = h.do(h.api, http.MethodDelete, base+"/"+other+"/members/"+memberID, token, nil)
	assert.Equal(t, 404, env.Code)
	env = h.do(h.api, http.MethodDelete, base+"/"+other+"/entries/"+entryID, token, nil)
	assert.Equal(t, 404, env.Code)

	current := decode[yearViewJSON](t, h.do(h.api, http.MethodGet, "/api/v1/attendance/current", "", nil))
	assert.Equal(t, y.ID, current.Year.ID)

	view = decode[yearViewJSON](t, h.do(h.api, http.MethodDelete, base+"/"+y.ID+"/entries/"+entryID, token, nil))
	assert.Empty(t, view.Entries)
	view = decode[yearViewJSON](t, h.do(h.api, http.MethodDelete, base+"/"+y.ID+"/members/"+memberID, token, nil))
	assert.Empty(t, view.Members)

	type deletedJSON struct {
		Years   []yearJSON    `json:"years"`
		Current *yearViewJSON `json:"current"`
	}
	deleted := decode[deletedJSON](t, h.do(h.api, http.MethodDelete, base+"/"+y.ID, token, nil))
	require.Len(t, deleted.Years, 1)
	require.NotNil(t, deleted.Current)
	assert.Equal(t, 2024, deleted.Current.Year.Year)

	env = h.do(h.api, http.MethodGet, base+"/"+y.ID, "", nil)
	assert.Equal(t, 404, env.Code)
}
