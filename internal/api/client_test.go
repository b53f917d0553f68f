package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	apierrors "github.com/pribylovaa/go-comments-widget/internal/errors"
	"github.com/pribylovaa/go-comments-widget/internal/models"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

func newTestClient(t *testing.T, h http.HandlerFunc, tok string, opts Options) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", staticToken(tok), opts)
	require.NoError(t, err)
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New("not a url", nil, Options{})
	require.Error(t, err)
}

func TestClient_CommentList(t *testing.T) {
	t.Parallel()

	rootID := uuid.New()
	var mu sync.Mutex
	var gotAuth, gotRID string
	var gotBody PageRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		switch r.Method + " " + r.URL.Path {
		case "POST /api/embed/comments":
			gotAuth = r.Header.Get("Authorization")
			gotRID = r.Header.Get("X-Request-Id")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{
				"pageInfo": {"defaultSort": "sd", "enableCommentVoting": true},
				"comments": [{"id": "`+rootID.String()+`", "markdown": "hi", "score": 3}],
				"commenters": [{"id": "`+uuid.NewString()+`", "name": "Alice"}]
			}`)
		default:
			http.NotFound(w, r)
		}
	}, "sess-1", Options{})

	out, err := c.CommentList(context.Background(), "example.com", "/post")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()

	require.Equal(t, "Bearer sess-1", gotAuth)
	require.NotEmpty(t, gotRID)
	require.Equal(t, PageRequest{Host: "example.com", Path: "/post"}, gotBody)

	require.Equal(t, models.SortScoreDesc, out.PageInfo.DefaultSort)
	require.Len(t, out.Comments, 1)
	require.Equal(t, rootID, out.Comments[0].ID)
	require.Equal(t, 3, out.Comments[0].ScoreValue())
	require.Equal(t, "Alice", out.Commenters[0].Name)
}

func TestClient_AnonymousTokenOmitsAuthorization(t *testing.T) {
	t.Parallel()

	var hasAuth atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hasAuth.Store(r.Header.Get("Authorization") != "")
		_, _ = io.WriteString(w, `{"baseUrl": "https://x"}`)
	}, models.AnonymousToken, Options{})

	cfg, err := c.Config(context.Background())
	require.NoError(t, err)
	require.Equal(t, "https://x", cfg.BaseURL)
	require.False(t, hasAuth.Load())
}

func TestClient_ErrorEnvelope(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "DELETE /api/embed/comments/"+id.String(), r.Method+" "+r.URL.Path)
		apierrors.WriteError(w, r, apierrors.ErrForbidden)
	}, "tok", Options{})

	err := c.CommentDelete(context.Background(), id)
	require.ErrorIs(t, err, ErrForbidden)

	var apiErr *apierrors.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.Status)
	require.NotEmpty(t, apiErr.RequestID)
	require.Contains(t, err.Error(), "api/client/CommentDelete")
}

func TestClient_PrincipalUnauthorized(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "site.test", r.URL.Query().Get("host"))
		w.WriteHeader(http.StatusUnauthorized)
	}, models.AnonymousToken, Options{})

	p, err := c.Principal(context.Background(), "site.test")
	require.Nil(t, p)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_VoteAndMutations(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	var mu sync.Mutex
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		raw, _ := io.ReadAll(r.Body)
		calls = append(calls, r.Method+" "+r.URL.Path+" "+strings.TrimSpace(string(raw)))

		switch r.Method + " " + r.URL.Path {
		case "POST /api/embed/comments/" + id.String() + "/vote":
			_, _ = io.WriteString(w, `{"score": -1}`)
		case "PUT /api/embed/comments/" + id.String():
			_, _ = io.WriteString(w, `{"comment": {"id": "`+id.String()+`", "markdown": "new", "html": "<p>new</p>"}}`)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}, "tok", Options{})

	ctx := context.Background()

	score, err := c.CommentVote(ctx, id, -1)
	require.NoError(t, err)
	require.Equal(t, -1, score)

	upd, err := c.CommentUpdate(ctx, id, "new")
	require.NoError(t, err)
	require.Equal(t, "<p>new</p>", upd.HTML)

	require.NoError(t, c.CommentModerate(ctx, id, true))
	require.NoError(t, c.CommentSticky(ctx, id, true))
	require.NoError(t, c.PageUpdate(ctx, id, true))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{
		"POST /api/embed/comments/" + id.String() + "/vote " + `{"direction":-1}`,
		"PUT /api/embed/comments/" + id.String() + " " + `{"markdown":"new"}`,
		"POST /api/embed/comments/" + id.String() + "/moderate " + `{"approve":true}`,
		"POST /api/embed/comments/" + id.String() + "/sticky " + `{"sticky":true}`,
		"POST /api/embed/page " + `{"pageId":"` + id.String() + `","readonly":true}`,
	}, calls)
}

func TestClient_RateLimiterHonoursContext(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, "tok", Options{RPS: 0.001, Burst: 1})

	require.NoError(t, c.Logout(context.Background()))

	// Второй вызов упирается в лимитер; контекст короче интервала пополнения.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.Error(t, c.Logout(ctx))
}

func TestClient_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/embed/auth/logout" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		apierrors.WriteError(w, r, apierrors.ErrNotFound)
	}, "tok", Options{Metrics: m})

	require.NoError(t, c.Logout(context.Background()))
	_, err := c.Config(context.Background())
	require.ErrorIs(t, err, ErrNotFound)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 1)
	require.Equal(t, "comments_widget_api_request_duration_seconds", mfs[0].GetName())

	seen := map[string]uint64{}
	for _, metric := range mfs[0].GetMetric() {
		labels := map[string]string{}
		for _, lp := range metric.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		seen[labels["op"]+" "+labels["code"]] = metric.GetHistogram().GetSampleCount()
	}

	require.Equal(t, map[string]uint64{
		"api/client/Logout 204": 1,
		"api/client/Config 404": 1,
	}, seen)
}

func TestClient_OAuthURL(t *testing.T) {
	t.Parallel()

	c, err := New("https://comments.example.com/", nil, Options{})
	require.NoError(t, err)
	require.Equal(t, "https://comments.example.com/api/oauth/github?host=blog.test&token=abc",
		c.OAuthURL("github", "abc", "blog.test"))
}
