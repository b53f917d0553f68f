package models

import "github.com/google/uuid"

// Commenter - публичные сведения об авторе комментария.
type Commenter struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	WebsiteURL  string    `json:"websiteUrl,omitempty"`
	ColourIndex int       `json:"colourIndex"`
	IsModerator bool      `json:"isModerator"`
	HasAvatar   bool      `json:"hasAvatar"`
}

// Commenters - авторы по идентификатору.
type Commenters map[uuid.UUID]Commenter

// Merge добавляет или перезаписывает авторов из списка.
func (m Commenters) Merge(list ...Commenter) {
	for _, c := range list {
		m[c.ID] = c
	}
}

// Lookup возвращает автора комментария; ok == false для анонимов и удалённых пользователей.
func (m Commenters) Lookup(c Comment) (Commenter, bool) {
	if c.UserCreated == nil {
		return Commenter{}, false
	}

	cr, ok := m[*c.UserCreated]
	return cr, ok
}
