package models

import (
	"fmt"
	"slices"
)

// SortPolicy - порядок соседних комментариев.
type SortPolicy string

const (
	SortScoreAsc  SortPolicy = "sa"
	SortScoreDesc SortPolicy = "sd"
	SortTimeAsc   SortPolicy = "ta"
	SortTimeDesc  SortPolicy = "td"
)

// DefaultSort используется, если страница не задала свою политику.
const DefaultSort = SortTimeAsc

// SortPolicies - все политики в порядке показа в панели сортировки.
var SortPolicies = []SortPolicy{SortScoreDesc, SortScoreAsc, SortTimeDesc, SortTimeAsc}

// ParseSortPolicy разбирает код политики.
func ParseSortPolicy(s string) (SortPolicy, error) {
	p := SortPolicy(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown sort policy %q", s)
	}

	return p, nil
}

func (p SortPolicy) Valid() bool {
	return slices.Contains(SortPolicies, p)
}

// Label - подпись кнопки сортировки.
func (p SortPolicy) Label() string {
	switch p {
	case SortScoreAsc:
		return "Least upvoted"
	case SortScoreDesc:
		return "Most upvoted"
	case SortTimeAsc:
		return "Oldest"
	case SortTimeDesc:
		return "Newest"
	default:
		return string(p)
	}
}

// Compare - компаратор политики без учёта закрепления.
// Равный счёт разрешается по времени создания (новые выше).
func (p SortPolicy) Compare(a, b Comment) int {
	switch p {
	case SortScoreAsc:
		if d := a.ScoreValue() - b.ScoreValue(); d != 0 {
			return d
		}
		return b.CreatedTime.Compare(a.CreatedTime)
	case SortScoreDesc:
		if d := b.ScoreValue() - a.ScoreValue(); d != 0 {
			return d
		}
		return b.CreatedTime.Compare(a.CreatedTime)
	case SortTimeDesc:
		return b.CreatedTime.Compare(a.CreatedTime)
	default:
		return a.CreatedTime.Compare(b.CreatedTime)
	}
}

// pinned - закреплённый и не удалённый комментарий.
func pinned(c Comment) bool {
	return c.IsSticky && !c.IsDeleted
}

// SortSiblings возвращает отсортированную копию списка: закреплённые первыми,
// дальше по компаратору политики. Сортировка устойчивая.
func SortSiblings(list []Comment, p SortPolicy) []Comment {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b Comment) int {
		pa, pb := pinned(a), pinned(b)
		switch {
		case pa && !pb:
			return -1
		case pb && !pa:
			return 1
		}
		return p.Compare(a, b)
	})

	return out
}
