package router_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boardJSON struct {
	Filter string `json:"filter"`
	Groups []struct {
		Author  string `json:"author"`
		Pending []struct {
			Label string `json:"label"`
		} `json:"pending"`
		Completed []struct {
			Label string `json:"label"`
		} `json:"completed"`
	} `json:"groups"`
	EmptyMessage string `json:"empty_message"`
	Topics       []struct {
		ID       string  `json:"id"`
		Topic    string  `json:"topic"`
		Keywords *string `json:"keywords"`
	} `json:"topics"`
}

func TestTopicsBoard(t *testing.T) {
	h := newHarness(t)
	_, token := h.member("minsu")

	empty := decode[boardJSON](t, h.do(h.api, http.MethodGet, "/api/v1/topics", "", nil))
	assert.Equal(t, "all", empty.Filter)
	assert.Empty(t, empty.Groups)
	assert.Equal(t, "등록된 주제가 없습니다.", empty.EmptyMessage)

	for _, in := range []map[string]any{
		{"author": "철수", "topic": "기타 주제"},
		{"author": "동원", "topic": "동원 주제", "keywords": ""},
		{"author": "민구-다흰", "topic": "공동 주제", "keywords": "협업"},
		{"author": "민구", "topic": "끝난 주제", "completed": true, "date": "2024-03-02"},
	} {
		decode[boardJSON](t, h.do(h.api, http.MethodPost, "/api/v1/topics", token, in))
	}

	b := decode[boardJSON](t, h.do(h.api, http.MethodGet, "/api/v1/topics", "", nil))
	require.Len(t, b.Groups, 3)
	assert.Equal(t, "민구", b.Groups[0].Author)
	assert.Equal(t, "동원", b.Groups[1].Author)
	assert.Equal(t, "철수", b.Groups[2].Author)
	require.Len(t, b.Groups[0].Pending, 1)
	assert.Equal(t, "공동 주제 (협업)", b.Groups[0].Pending[0].Label)
	require.Len(t, b.Groups[0].Completed, 1)
	assert.Equal(t, "끝난 주제 (2024년 3월 2일)", b.Groups[0].Completed[0].Label)
	require.Len(t, b.Topics, 4)

	// 联合提出的题目用第二个提出人也能筛到
	f := decode[boardJSON](t, h.do(h.api, http.MethodGet, "/api/v1/topics?author=다흰", "", nil))
	require.Len(t, f.Groups, 1)
	assert.Equal(t, "민구", f.Groups[0].Author)

	none := decode[boardJSON](t, h.do(h.api, http.MethodGet, "/api/v1/topics?author=아름", "", nil))
	assert.Equal(t, "아름님의 제안 주제가 없습니다.", none.EmptyMessage)

	var dongwon string
	for _, tp := range b.Topics {
		if tp.Topic == "동원 주제" {
			dongwon = tp.ID
			assert.Nil(t, tp.Keywords)
		}
	}
	require.NotEmpty(t, dongwon)

	env := h.do(h.api, http.MethodPut, "/api/v1/topics/"+dongwon, token, map[string]any{"author": "동원", "topic": "  "})
	assert.Equal(t, 400, env.Code)

	after := decode[boardJSON](t, h.do(h.api, http.MethodDelete, "/api/v1/topics/"+dongwon, token, nil))
	assert.Len(t, after.Topics, 3)
	assert.Len(t, after.Groups, 2)
}
