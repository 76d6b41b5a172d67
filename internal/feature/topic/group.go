// Package topic builds the grouped topic board shown on the 주제 page.
package topic

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"trally-server/internal/domain"
	"trally-server/pkg/datefmt"
)

const (
	FilterAll   = "all"
	OtherAuthor = "기타"
)

type Item struct {
	ID        string `json:"id"`
	Label     string `json:"label"` // 화면 표시 문자열
	Topic     string `json:"topic"`
	Completed bool   `json:"completed"`
}

type Group struct {
	Author    string `json:"author"`
	Pending   []Item `json:"pending"`
	Completed []Item `json:"completed"`
}

type Board struct {
	Filter       string  `json:"filter"`
	Groups       []Group `json:"groups"`
	EmptyMessage string  `json:"empty_message,omitempty"`
}

// PrimaryAuthor "민구-다흰" → "민구"
func PrimaryAuthor(author string) string {
	if i := strings.IndexAny(author, "-,+"); i >= 0 {
		author = author[:i]
	}
	return strings.TrimSpace(author)
}

func matches(t domain.Topic, filter string) bool {
	return PrimaryAuthor(t.Author) == filter || (t.Author != "" && strings.Contains(t.Author, filter))
}

// Build 필터 → 정렬 → 제안자별 그룹. ranks 에 있는 제안자가 먼저, 나머지는 가나다순
func Build(topics []domain.Topic, filter string, ranks map[string]int) Board {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = FilterAll
	}

	list := make([]domain.Topic, 0, len(topics))
	for _, t := range topics {
		if filter == FilterAll || matches(t, filter) {
			list = append(list, t)
		}
	}

	board := Board{Filter: filter, Groups: []Group{}}
	if len(list) == 0 {
		if filter == FilterAll {
			board.EmptyMessage = "등록된 주제가 없습니다."
		} else {
			board.EmptyMessage = filter + "님의 제안 주제가 없습니다."
		}
		return board
	}

	col := collate.New(language.Korean)
	sort.SliceStable(list, func(i, j int) bool {
		if c := col.CompareString(PrimaryAuthor(list[i].Author), PrimaryAuthor(list[j].Author)); c != 0 {
			return c < 0
		}
		return !list[i].Completed && list[j].Completed
	})

	index := map[string]int{}
	for _, t := range list {
		key := groupKey(t.Author)
		gi, ok := index[key]
		if !ok {
			gi = len(board.Groups)
			index[key] = gi
			board.Groups = append(board.Groups, Group{Author: key, Pending: []Item{}, Completed: []Item{}})
		}
		g := &board.Groups[gi]
		if t.Completed {
			g.Completed = append(g.Completed, completedItem(t))
		} else {
			g.Pending = append(g.Pending, pendingItem(t))
		}
	}

	sort.SliceStable(board.Groups, func(i, j int) bool {
		a, b := board.Groups[i].Author, board.Groups[j].Author
		ra, okA := ranks[a]
		rb, okB := ranks[b]
		switch {
		case okA && okB:
			return ra < rb
		case okA != okB:
			return okA
		default:
			return col.CompareString(a, b) < 0
		}
	})
	return board
}

func groupKey(author string) string {
	if author == "" {
		author = OtherAuthor
	}
	return PrimaryAuthor(author)
}

func pendingItem(t domain.Topic) Item {
	label := t.Topic
	if t.Keywords != nil && *t.Keywords != "" {
		label += " (" + *t.Keywords + ")"
	}
	return Item{ID: t.ID, Label: label, Topic: t.Topic}
}

func completedItem(t domain.Topic) Item {
	label := t.Topic
	if t.Date != nil && *t.Date != "" {
		label += " (" + datefmt.ToDisplay(*t.Date) + ")"
	}
	return Item{ID: t.ID, Label: label, Topic: t.Topic, Completed: true}
}
