package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-comments-widget/internal/models"
)

func TestCookie_OneYearExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := Cookie("tok", now)

	require.Equal(t, CookieName, c.Name)
	require.Equal(t, "comentario_commenter_session", c.Name)
	require.Equal(t, "tok", c.Value)
	require.Equal(t, now.Add(365*24*time.Hour), c.Expires)
	require.Equal(t, 365*24*60*60, c.MaxAge)
	require.Equal(t, "/", c.Path)
}

func TestExpiredCookie(t *testing.T) {
	t.Parallel()

	c := ExpiredCookie()
	require.Equal(t, CookieName, c.Name)
	require.Empty(t, c.Value)
	require.True(t, c.Expires.Before(time.Now()))
	require.Negative(t, c.MaxAge)
}

func TestFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, models.AnonymousToken, FromRequest(r))

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "abc"})
	require.Equal(t, "abc", FromRequest(r))
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(func() time.Time { return now })
	ctx := context.Background()

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, models.AnonymousToken, tok)

	require.NoError(t, s.SetToken(ctx, "sess"))
	tok, _ = s.Token(ctx)
	require.Equal(t, "sess", tok)

	// Срок жизни - ровно год.
	now = now.Add(TTL - time.Second)
	tok, _ = s.Token(ctx)
	require.Equal(t, "sess", tok)

	now = now.Add(time.Second)
	tok, _ = s.Token(ctx)
	require.Equal(t, models.AnonymousToken, tok)

	require.NoError(t, s.SetToken(ctx, "again"))
	require.NoError(t, s.Clear(ctx))
	tok, _ = s.Token(ctx)
	require.Equal(t, models.AnonymousToken, tok)
	require.NoError(t, s.Close())
}
