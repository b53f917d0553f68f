// Package session хранит сессионный токен комментатора: cookie-семантика
// (имя, годовой срок жизни, немедленное истечение при выходе) и хранилища токена.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/pribylovaa/go-comments-widget/internal/models"
)

const (
	// CookieName - имя cookie с сессионным токеном.
	CookieName = "comentario_commenter_session"
	// TTL - срок жизни сохранённой сессии.
	TTL = 365 * 24 * time.Hour
)

// Store - хранилище токена одного виджета.
// Token возвращает models.AnonymousToken, если сессии нет.
type Store interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Close() error
}

// Cookie - cookie с токеном, истекающая через TTL от now.
func Cookie(token string, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(TTL).UTC(),
		MaxAge:   int(TTL / time.Second),
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie - cookie, немедленно удаляющая сессию в браузере.
func ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	}
}

// FromRequest достаёт токен из cookie запроса; без cookie - models.AnonymousToken.
func FromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return models.AnonymousToken
	}

	return c.Value
}
