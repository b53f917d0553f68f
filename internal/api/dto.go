package api

import (
	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/internal/models"
)

// PageRequest - адрес страницы на сайте-хозяине.
type PageRequest struct {
	Host string `json:"host"`
	Path string `json:"path"`
}

// CommentListResponse - данные страницы: настройки, комментарии и их авторы.
type CommentListResponse struct {
	PageInfo   models.PageInfo    `json:"pageInfo"`
	Comments   []models.Comment   `json:"comments"`
	Commenters []models.Commenter `json:"commenters"`
}

// NewCommentRequest - создание комментария. ParentID == nil - корневой.
type NewCommentRequest struct {
	Host      string     `json:"host"`
	Path      string     `json:"path"`
	ParentID  *uuid.UUID `json:"parentId,omitempty"`
	Markdown  string     `json:"markdown"`
	Anonymous bool       `json:"anonymous"`
}

// CommentResponse - созданный комментарий и его автор.
type CommentResponse struct {
	Comment   models.Comment    `json:"comment"`
	Commenter *models.Commenter `json:"commenter,omitempty"`
}

type UpdateCommentRequest struct {
	Markdown string `json:"markdown"`
}

type UpdateCommentResponse struct {
	Comment models.Comment `json:"comment"`
}

type ModerateRequest struct {
	Approve bool `json:"approve"`
}

type VoteRequest struct {
	Direction int8 `json:"direction"`
}

// VoteResponse - итоговый счёт комментария после голоса.
type VoteResponse struct {
	Score int `json:"score"`
}

type StickyRequest struct {
	Sticky bool `json:"sticky"`
}

type PageUpdateRequest struct {
	PageID   uuid.UUID `json:"pageId"`
	Readonly bool      `json:"readonly"`
}

// LoginRequest - локальный вход по email/паролю.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Host     string `json:"host"`
}

// LoginResponse - выданная сессия и текущий пользователь.
type LoginResponse struct {
	SessionToken string           `json:"sessionToken"`
	Principal    models.Principal `json:"principal"`
}

// SignupRequest - регистрация комментатора.
type SignupRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	WebsiteURL string `json:"websiteUrl,omitempty"`
	Host       string `json:"host"`
}

// SignupResponse - IsConfirmed == false означает, что нужно подтвердить email.
type SignupResponse struct {
	IsConfirmed bool `json:"isConfirmed"`
}

// Settings - настройки уведомлений пользователя.
type Settings struct {
	NotifyReplies       bool `json:"notifyReplies"`
	NotifyModerator     bool `json:"notifyModerator"`
	NotifyCommentStatus bool `json:"notifyCommentStatus"`
}

type LoginTokenRequest struct {
	Anonymous bool `json:"anonymous"`
}

type LoginTokenResponse struct {
	Token string `json:"token"`
}

type RedeemTokenRequest struct {
	Token string `json:"token"`
	Host  string `json:"host"`
}
