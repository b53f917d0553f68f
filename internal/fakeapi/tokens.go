package fakeapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/internal/session"
)

const issuer = "comentario-fakeapi"

type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// issueSession подписывает сессионный токен пользователя на срок жизни cookie.
func (s *Server) issueSession(userID uuid.UUID) (string, error) {
	const op = "fakeapi/tokens/issueSession"

	now := s.now()
	claims := sessionClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(session.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// parseSession проверяет подпись, срок и отзыв токена. Возвращает id пользователя и jti.
func (s *Server) parseSession(raw string) (uuid.UUID, string, error) {
	const op = "fakeapi/tokens/parseSession"

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return []byte(s.opts.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithLeeway(5*time.Second),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%s: %w: %w", op, errInvalidSession, err)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, errInvalidSession)
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, errors.Join(errInvalidSession, errors.New("revoked")))
	}

	return uid, claims.ID, nil
}
