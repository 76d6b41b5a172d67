// Package attendance lays out a year's attendance sheet as a member × schedule grid.
package attendance

import "trally-server/internal/domain"

// 일정 하나당 세 줄: 참석 / 사유 / 작성일
const (
	RowAttendance = "attendance"
	RowReason     = "reason"
	RowRecordDate = "record_date"
)

var rowLabels = map[string]string{
	RowAttendance: "참석",
	RowReason:     "사유",
	RowRecordDate: "작성일",
}

var rowKinds = []string{RowAttendance, RowReason, RowRecordDate}

type Column struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
}

type Cell struct {
	MemberID string `json:"member_id"`
	Value    string `json:"value"`
}

type Row struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Cells []Cell `json:"cells"`
}

// RowGroup 첫 줄에서 일정 칸이 rowspan=3 으로 묶인다
type RowGroup struct {
	ScheduleID   string `json:"schedule_id"`
	ScheduleDate string `json:"schedule_date"`
	RowSpan      int    `json:"row_span"`
	Rows         []Row  `json:"rows"`
}

type Grid struct {
	Year    *domain.AttendanceYear `json:"year"`
	Members []Column               `json:"members"`
	Groups  []RowGroup             `json:"groups"`
}

type cellKey struct{ schedule, member string }

// Build members / entries 는 sort_order 순으로 들어온다고 가정
func Build(year *domain.AttendanceYear, members []domain.AttendanceMember, entries []domain.AttendanceScheduleEntry, records []domain.AttendanceRecord) Grid {
	g := Grid{Year: year, Members: make([]Column, 0, len(members)), Groups: make([]RowGroup, 0, len(entries))}
	for _, m := range members {
		g.Members = append(g.Members, Column{MemberID: m.ID, Name: m.Name})
	}

	byCell := make(map[cellKey]domain.AttendanceRecord, len(records))
	for _, r := range records {
		byCell[cellKey{r.ScheduleID, r.MemberID}] = r
	}

	for _, e := range entries {
		rg := RowGroup{ScheduleID: e.ID, ScheduleDate: e.ScheduleDate, RowSpan: len(rowKinds), Rows: make([]Row, 0, len(rowKinds))}
		for _, kind := range rowKinds {
			row := Row{Kind: kind, Label: rowLabels[kind], Cells: make([]Cell, 0, len(members))}
			for _, m := range members {
				rec := byCell[cellKey{e.ID, m.ID}]
				row.Cells = append(row.Cells, Cell{MemberID: m.ID, Value: value(rec, kind)})
			}
			rg.Rows = append(rg.Rows, row)
		}
		g.Groups = append(g.Groups, rg)
	}
	return g
}

func value(r domain.AttendanceRecord, kind string) string {
	switch kind {
	case RowAttendance:
		return r.Attendance
	case RowReason:
		return r.Reason
	default:
		return r.RecordDate
	}
}
