// Package datefmt normalizes the date shapes found in club data: ISO dates,
// Korean "YYYY년 M월 D일" text and spreadsheet serial day counts.
package datefmt

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const yearMarker = "년"

var (
	isoRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	koreanRe = regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`)

	// 1899-12-30: the spreadsheet epoch including its 1900 leap-year offset.
	serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

	layouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
		"2006-1-2",
		"2006/1/2",
		"2006.1.2",
		"2006. 1. 2.",
		"2006. 1. 2",
		"1/2/2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"2 Jan 2006",
		"Mon Jan 2 2006",
		time.RFC1123,
		time.RFC1123Z,
		// year-only and year-month inputs resolve to the first day
		"2006-01",
		"2006",
	}
)

// ToDisplay renders v as "{year}년 {month}월 {day}일". Values already carrying
// the year marker are returned untouched; unparseable values come back as-is.
func ToDisplay(v string) string {
	if v == "" {
		return ""
	}
	if strings.Contains(v, yearMarker) {
		return v
	}
	if t, ok := FromSerial(v); ok {
		return display(t)
	}
	if t, ok := parse(v); ok {
		return display(t)
	}
	return v
}

// ToISO returns v as YYYY-MM-DD, or "" when v cannot be read as a date.
// Already-canonical input is returned unchanged.
func ToISO(v string) string {
	if v == "" {
		return ""
	}
	if isoRe.MatchString(v) {
		return v
	}
	if m := koreanRe.FindStringSubmatch(v); m != nil {
		return m[1] + "-" + pad(m[2]) + "-" + pad(m[3])
	}
	if t, ok := FromSerial(v); ok {
		return t.Format("2006-01-02")
	}
	if t, ok := parse(v); ok {
		return t.Format("2006-01-02")
	}
	return ""
}

// FromSerial interprets v as a spreadsheet serial day count. Only values in
// the open range (10000, 100000) qualify.
func FromSerial(v string) (time.Time, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || f <= 10000 || f >= 100000 {
		return time.Time{}, false
	}
	return serialEpoch.Add(time.Duration(f * float64(24*time.Hour))), true
}

func parse(v string) (time.Time, bool) {
	s := strings.TrimSpace(v)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func display(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%d년 %d월 %d일", y, int(m), d)
}

func pad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
