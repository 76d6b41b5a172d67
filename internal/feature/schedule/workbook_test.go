package schedule

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadWorkbook_MapsKoreanHeaders(t *testing.T) {
	buf := workbook(t, [][]any{
		{"회차", "발제자", "사회자", "날짜", "주제", "장소", "게스트", "비고", "무시"},
		{12, "민구", "다흰", 45000, "AI 윤리", "강남", "", "첫 모임", "x"},
		{"", "빈 회차", "", "", "", "", "", "", ""},
		{"13회", "아름"},
	})

	rows, err := ReadWorkbook(buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "45000", rows[0]["날짜"])
	_, hasGuest := rows[0]["게스트"]
	assert.False(t, hasGuest)

	list := ToSchedules(rows)
	require.Len(t, list, 2)
	first := list[0]
	assert.Equal(t, 12, *first.Number)
	assert.Equal(t, "민구", *first.Presenter)
	assert.Equal(t, "다흰", *first.Moderator)
	assert.Equal(t, "45000", *first.Date)
	assert.Equal(t, "AI 윤리", *first.Topic)
	assert.Equal(t, "강남", *first.Location)
	assert.Nil(t, first.Guest)
	assert.Equal(t, "첫 모임", *first.Remarks)

	assert.Equal(t, 13, *list[1].Number)
	assert.Nil(t, list[1].Date)
}

func TestReadWorkbook_Empty(t *testing.T) {
	_, err := ReadWorkbook(workbook(t, [][]any{{"회차", "발제자"}}))
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = ReadWorkbook(bytes.NewReader([]byte("not a zip")))
	assert.Error(t, err)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"12", intp(12)},
		{" 12회", intp(12)},
		{"3.7", intp(3)},
		{"-2", intp(-2)},
		{"0", nil},
		{"", nil},
		{"abc", nil},
		{"회12", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseNumber(tt.in), tt.in)
	}
}

func TestLooseInt(t *testing.T) {
	var in struct {
		A LooseInt `json:"a"`
		B LooseInt `json:"b"`
		C LooseInt `json:"c"`
		D LooseInt `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":7,"b":"8회","c":null,"d":""}`), &in))
	assert.Equal(t, 7, *in.A.V)
	assert.Equal(t, 8, *in.B.V)
	assert.Nil(t, in.C.V)
	assert.Nil(t, in.D.V)

	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":7,"b":8,"c":null,"d":null}`, string(out))
}

func intp(n int) *int { return &n }
