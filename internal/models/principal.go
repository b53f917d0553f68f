package models

import "github.com/google/uuid"

// AnonymousToken - значение сессионного токена "нет сессии".
const AnonymousToken = "00000000-0000-0000-0000-000000000000"

// DomainUser - роли пользователя в текущем домене.
type DomainUser struct {
	IsOwner     bool `json:"isOwner"`
	IsModerator bool `json:"isModerator"`
	IsCommenter bool `json:"isCommenter"`
	IsReadonly  bool `json:"isReadonly"`
}

// Principal - аутентифицированный зритель. nil *Principal - аноним.
type Principal struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	WebsiteURL  string      `json:"websiteUrl,omitempty"`
	ColourIndex int         `json:"colourIndex"`
	HasAvatar   bool        `json:"hasAvatar"`
	IsSuperuser bool        `json:"isSuperuser"`
	DomainUser  *DomainUser `json:"domainUser,omitempty"`
}

// UserID возвращает идентификатор зрителя или uuid.Nil для анонима.
func (p *Principal) UserID() uuid.UUID {
	if p == nil {
		return uuid.Nil
	}

	return p.ID
}

// CanModerate - суперпользователь, владелец или модератор домена.
func (p *Principal) CanModerate() bool {
	if p == nil {
		return false
	}

	if p.IsSuperuser {
		return true
	}

	return p.DomainUser != nil && (p.DomainUser.IsOwner || p.DomainUser.IsModerator)
}

// IsReadonlyOn - пользователь домена без права писать.
func (p *Principal) IsReadonlyOn() bool {
	return p != nil && !p.CanModerate() && p.DomainUser != nil && p.DomainUser.IsReadonly
}
