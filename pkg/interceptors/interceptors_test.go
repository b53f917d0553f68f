package interceptors

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pribylovaa/go-comments-widget/pkg/log"
	"github.com/stretchr/testify/require"
)

// capHandler - минимальный slog.Handler для захвата последней записи и её атрибутов.
type capHandler struct {
	base    []slog.Attr
	lastMsg string
	lastLvl slog.Level
	attrs   map[string]any
	count   map[string]int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, len(h.base)+8)
	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})
	if h.count == nil {
		h.count = make(map[string]int)
	}
	h.count[r.Message]++
	h.lastMsg = r.Message
	h.lastLvl = r.Level
	h.attrs = out
	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.base = append(h.base, attrs...)
	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

// stub - конечный RoundTripper, запоминающий последний запрос.
type stub struct {
	last   *http.Request
	status int
	err    error
}

func (s *stub) RoundTrip(r *http.Request) (*http.Response, error) {
	s.last = r
	if s.err != nil {
		return nil, s.err
	}

	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader("ok")),
		Header:     http.Header{},
		Request:    r,
	}, nil
}

func newReq(ctx context.Context) *http.Request {
	return httptest.NewRequest(http.MethodPost, "http://api.test/api/embed/comments", nil).WithContext(ctx)
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mk := func(name string) Interceptor {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name+"-begin")
				resp, err := next.RoundTrip(r)
				order = append(order, name+"-end")
				return resp, err
			})
		}
	}

	rt := Chain(&stub{status: http.StatusOK}, mk("a"), mk("b"))
	_, err := rt.RoundTrip(newReq(context.Background()))
	require.NoError(t, err)
	require.Equal(t, []string{"a-begin", "b-begin", "b-end", "a-end"}, order)
}

func TestWithMetadata_AppendsHeaders(t *testing.T) {
	t.Parallel()

	const rid = "rid-123"
	const tok = "token-xyz"
	const ua = "comments-widget"

	ctx := WithRequestID(context.Background(), rid)
	ctx = WithAuthToken(ctx, tok)

	s := &stub{status: http.StatusOK}
	orig := newReq(ctx)
	_, err := Chain(s, WithMetadata(ua)).RoundTrip(orig)
	require.NoError(t, err)

	require.Equal(t, rid, s.last.Header.Get("X-Request-Id"))
	require.Equal(t, "Bearer "+tok, s.last.Header.Get("Authorization"))
	require.Equal(t, ua, s.last.Header.Get("User-Agent"))

	// Исходный запрос не тронут.
	require.Empty(t, orig.Header.Get("Authorization"))
}

func TestWithMetadata_GeneratesRequestID_NoToken(t *testing.T) {
	t.Parallel()

	s := &stub{status: http.StatusOK}
	_, err := Chain(s, WithMetadata("")).RoundTrip(newReq(context.Background()))
	require.NoError(t, err)

	require.Len(t, s.last.Header.Get("X-Request-Id"), 36)
	require.Empty(t, s.last.Header.Get("Authorization"))
}

func TestWithTimeout_SetsDeadline_AndReleasesOnClose(t *testing.T) {
	t.Parallel()

	s := &stub{status: http.StatusOK}
	resp, err := Chain(s, WithTimeout(time.Second)).RoundTrip(newReq(context.Background()))
	require.NoError(t, err)

	dl, ok := s.last.Context().Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(time.Second), dl, 200*time.Millisecond)

	require.NoError(t, resp.Body.Close())
	require.ErrorIs(t, s.last.Context().Err(), context.Canceled)
}

func TestWithTimeout_DoesNotOverrideExistingDeadline(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := &stub{status: http.StatusOK}
	_, err := Chain(s, WithTimeout(time.Hour)).RoundTrip(newReq(parent))
	require.NoError(t, err)

	parentDL, _ := parent.Deadline()
	childDL, _ := s.last.Context().Deadline()
	require.Equal(t, parentDL, childDL)
}

func TestWithTimeout_ZeroIsNoop(t *testing.T) {
	t.Parallel()

	s := &stub{status: http.StatusOK}
	_, err := Chain(s, WithTimeout(0)).RoundTrip(newReq(context.Background()))
	require.NoError(t, err)

	_, ok := s.last.Context().Deadline()
	require.False(t, ok)
}

func TestLogging_WritesRecord(t *testing.T) {
	t.Parallel()

	h := &capHandler{}
	s := &stub{status: http.StatusCreated}

	rt := Chain(s, WithMetadata(""), Logging(slog.New(h)))
	_, err := rt.RoundTrip(newReq(WithRequestID(context.Background(), "rid-9")))
	require.NoError(t, err)

	require.Equal(t, "http_client", h.lastMsg)
	require.Equal(t, slog.LevelInfo, h.lastLvl)
	require.Equal(t, "rid-9", h.attrs["request_id"])
	require.Equal(t, http.MethodPost, h.attrs["method"])
	require.Equal(t, "/api/embed/comments", h.attrs["path"])
	require.EqualValues(t, http.StatusCreated, h.attrs["status"])
	_, hasDur := h.attrs["dur"]
	require.True(t, hasDur)
}

func TestLogging_PrefersContextLogger(t *testing.T) {
	t.Parallel()

	base, fromCtx := &capHandler{}, &capHandler{}
	ctx := log.Into(context.Background(), slog.New(fromCtx))

	s := &stub{err: errors.New("dial tcp: refused")}
	_, err := Chain(s, Logging(slog.New(base))).RoundTrip(newReq(ctx))
	require.Error(t, err)

	require.Zero(t, base.count["http_client"])
	require.Equal(t, 1, fromCtx.count["http_client"])
	require.Equal(t, slog.LevelWarn, fromCtx.lastLvl)
	require.Equal(t, "dial tcp: refused", fromCtx.attrs["error"])
}
