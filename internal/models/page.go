package models

import "github.com/google/uuid"

// FederatedIdP - внешний провайдер входа (OAuth).
type FederatedIdP struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// ClientConfig - глобальная конфигурация инстанса.
type ClientConfig struct {
	BaseURL       string         `json:"baseUrl"`
	BaseDocsURL   string         `json:"baseDocsUrl,omitempty"`
	SignupAllowed bool           `json:"signupAllowed"`
	FederatedIdPs []FederatedIdP `json:"federatedIdps,omitempty"`
}

// PageInfo - снимок настроек домена/страницы, перечитывается при каждой перезагрузке.
type PageInfo struct {
	DomainID          uuid.UUID      `json:"domainId"`
	DomainName        string         `json:"domainName"`
	PageID            uuid.UUID      `json:"pageId"`
	AuthAnonymous     bool           `json:"authAnonymous"`
	AuthLocal         bool           `json:"authLocal"`
	AuthSSO           bool           `json:"authSso"`
	SSOURL            string         `json:"ssoUrl,omitempty"`
	SSONonInteractive bool           `json:"ssoNonInteractive"`
	IdPs              []FederatedIdP `json:"idps,omitempty"`
	DefaultSort       SortPolicy     `json:"defaultSort"`
	IsDomainReadonly  bool           `json:"isDomainReadonly"`
	IsPageReadonly    bool           `json:"isPageReadonly"`

	EnableCommentVoting      bool `json:"enableCommentVoting"`
	CommentEditingAuthor     bool `json:"commentEditingAuthor"`
	CommentEditingModerator  bool `json:"commentEditingModerator"`
	CommentDeletionAuthor    bool `json:"commentDeletionAuthor"`
	CommentDeletionModerator bool `json:"commentDeletionModerator"`
}

// IsReadonly - страница закрыта для новых комментариев на уровне домена или страницы.
func (p *PageInfo) IsReadonly() bool {
	return p != nil && (p.IsDomainReadonly || p.IsPageReadonly)
}

// HasAuth сообщает, доступен ли хоть один способ входа.
func (p *PageInfo) HasAuth() bool {
	return p != nil && (p.AuthLocal || p.AuthSSO || len(p.IdPs) > 0)
}
