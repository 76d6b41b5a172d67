// Package schedule reads schedule spreadsheets and maps their Korean headers onto schedules.
package schedule

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"trally-server/internal/domain"
)

// Columns 엑셀 헤더 → 필드
var Columns = []struct {
	Header string
	Field  string
}{
	{"회차", "number"},
	{"발제자", "presenter"},
	{"사회자", "moderator"},
	{"날짜", "date"},
	{"주제", "topic"},
	{"장소", "location"},
	{"게스트", "guest"},
	{"비고", "remarks"},
}

var ErrEmptySheet = errors.New("workbook has no data rows")

// Row 헤더명 → 셀 값. 빈 셀은 키 자체가 없다
type Row map[string]string

// ReadWorkbook 첫 번째 시트만 읽는다. 날짜 셀은 원시값(시리얼 숫자)으로 남는다
func ReadWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(raw) < 2 {
		return nil, ErrEmptySheet
	}

	header := raw[0]
	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := Row{}
		for i, v := range cells {
			if i >= len(header) || strings.TrimSpace(v) == "" {
				continue
			}
			row[strings.TrimSpace(header[i])] = v
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

// ToSchedules 헤더 매핑 후 회차가 없는 행은 버린다
func ToSchedules(rows []Row) []domain.Schedule {
	out := make([]domain.Schedule, 0, len(rows))
	for _, row := range rows {
		var s domain.Schedule
		for _, c := range Columns {
			v, ok := row[c.Header]
			if !ok {
				continue
			}
			if c.Field == "number" {
				s.Number = ParseNumber(v)
				continue
			}
			val := v
			*field(&s, c.Field) = &val
		}
		if s.Number != nil {
			out = append(out, s)
		}
	}
	return out
}

func field(s *domain.Schedule, name string) **string {
	switch name {
	case "presenter":
		return &s.Presenter
	case "moderator":
		return &s.Moderator
	case "date":
		return &s.Date
	case "topic":
		return &s.Topic
	case "location":
		return &s.Location
	case "guest":
		return &s.Guest
	default:
		return &s.Remarks
	}
}
