package tree

import (
	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/internal/models"
)

// Render строит карточки детей parent (models.RootKey - корень) в порядке rc.Sort.
// Отсутствующий в карте parent даёт пустой список. Глубина рекурсии не ограничена:
// MaxLevel влияет только на класс отображения.
func Render(rc *RenderingContext, parent uuid.UUID, level int) []*Card {
	list := models.SortSiblings(rc.ParentMap.Children(parent), rc.Sort)
	if len(list) == 0 {
		return nil
	}

	cards := make([]*Card, 0, len(list))
	for _, c := range list {
		cards = append(cards, NewCard(rc, c, level))
	}

	return cards
}

// Find ищет карточку по id комментария среди cards и их потомков.
func Find(cards []*Card, id uuid.UUID) (*Card, bool) {
	var found *Card
	for _, c := range cards {
		c.Walk(func(cc *Card) bool {
			if cc.ID() == id {
				found = cc
				return false
			}
			return true
		})
		if found != nil {
			return found, true
		}
	}

	return nil, false
}
