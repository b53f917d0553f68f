package models

import (
	"slices"

	"github.com/google/uuid"
)

// CommentsGroupedByID - дети по ключу родителя (RootKey для корней).
// Каждый комментарий лежит ровно в одном списке - под своим ParentKey().
type CommentsGroupedByID map[uuid.UUID][]Comment

// GroupByParent раскладывает плоский список по родителям. Порядок внутри списка
// совпадает с порядком входа.
func GroupByParent(comments []Comment) CommentsGroupedByID {
	out := make(CommentsGroupedByID)
	for _, c := range comments {
		k := c.ParentKey()
		out[k] = append(out[k], c)
	}

	return out
}

// Children возвращает прямых детей; для неизвестного родителя - nil.
func (g CommentsGroupedByID) Children(parent uuid.UUID) []Comment {
	return g[parent]
}

// Append добавляет комментарий в конец списка его родителя, создавая список при необходимости.
func (g CommentsGroupedByID) Append(c Comment) {
	k := c.ParentKey()
	g[k] = append(g[k], c)
}

// Find ищет комментарий по идентификатору во всех списках.
func (g CommentsGroupedByID) Find(id uuid.UUID) (Comment, bool) {
	for _, list := range g {
		if i := slices.IndexFunc(list, func(c Comment) bool { return c.ID == id }); i >= 0 {
			return list[i], true
		}
	}

	return Comment{}, false
}

// Patch заменяет комментарий id в списке parent результатом apply над его копией.
// Если комментария нет (карта перестроена параллельно), возвращает false и ничего не меняет.
// Родитель комментария сохраняется, даже если apply попытался его поменять.
func (g CommentsGroupedByID) Patch(parent, id uuid.UUID, apply func(*Comment)) (Comment, bool) {
	list := g[parent]
	i := slices.IndexFunc(list, func(c Comment) bool { return c.ID == id })
	if i < 0 {
		return Comment{}, false
	}

	updated := list[i]
	apply(&updated)
	updated.ID = list[i].ID
	updated.ParentID = list[i].ParentID

	list[i] = updated
	return updated, true
}

// Len - общее число комментариев во всех списках.
func (g CommentsGroupedByID) Len() int {
	n := 0
	for _, list := range g {
		n += len(list)
	}

	return n
}
