package datefmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDisplay(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"2024-03-05", "2024년 3월 5일"},
		{"2024년 3월 5일", "2024년 3월 5일"},
		{"2024년3월5일 (토)", "2024년3월5일 (토)"},
		{"45000", "2023년 3월 15일"},
		{"45000.5", "2023년 3월 15일"},
		{"2024/12/01", "2024년 12월 1일"},
		{"2024-03-05T19:30:00+09:00", "2024년 3월 5일"},
		{"2025", "2025년 1월 1일"},
		{"10000", "10000"},
		{"100000", "100000"},
		{"다음 주", "다음 주"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDisplay(tt.in))
		})
	}
}

func TestToISO(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"2024-03-05", "2024-03-05"},
		{"2024-13-45", "2024-13-45"},
		{"2024년 3월 5일", "2024-03-05"},
		{"2024년12월25일", "2024-12-25"},
		{"2024년 2월 31일", "2024-02-31"},
		{"45000", "2023-03-15"},
		{"2024/1/7", "2024-01-07"},
		{"Mar 5, 2024", "2024-03-05"},
		{"미정", ""},
		{"9999", "9999-01-01"},
		{"2024-03", "2024-03-01"},
		{"999", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToISO(tt.in))
		})
	}
}

func TestToISO_IdentityOnCanonicalInput(t *testing.T) {
	for _, iso := range []string{"2020-01-01", "2023-03-15", "2099-12-31"} {
		assert.Equal(t, iso, ToISO(iso))
		assert.Equal(t, iso, ToISO(ToDisplay(iso)))
	}
}

func TestFromSerial_Bounds(t *testing.T) {
	_, ok := FromSerial("10000")
	assert.False(t, ok)
	_, ok = FromSerial("10001")
	assert.True(t, ok)
	_, ok = FromSerial("99999")
	assert.True(t, ok)
	_, ok = FromSerial("abc")
	assert.False(t, ok)
}
