package schedule

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ParseNumber 앞쪽 정수만 읽는다: "12회" → 12, "3.7" → 3. 0 / 빈값 / 숫자 아님 → nil
func ParseNumber(s string) *int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return nil
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n == 0 {
		return nil
	}
	return &n
}

// LooseInt JSON 숫자/문자열/null 모두 받는 회차 입력
type LooseInt struct{ V *int }

func (n *LooseInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		n.V = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n.V = ParseNumber(s)
		return nil
	}
	n.V = ParseNumber(string(b))
	return nil
}

func (n LooseInt) MarshalJSON() ([]byte, error) {
	if n.V == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(*n.V)), nil
}
