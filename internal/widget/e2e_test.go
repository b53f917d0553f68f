package widget_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-comments-widget/internal/api"
	"github.com/pribylovaa/go-comments-widget/internal/auth"
	"github.com/pribylovaa/go-comments-widget/internal/fakeapi"
	"github.com/pribylovaa/go-comments-widget/internal/models"
	"github.com/pribylovaa/go-comments-widget/internal/session"
	"github.com/pribylovaa/go-comments-widget/internal/widget"
)

// credsPrompt - форма входа, которую пользователь всегда заполняет одинаково.
type credsPrompt auth.Credentials

func (p credsPrompt) Credentials(context.Context) (auth.Credentials, error) {
	return auth.Credentials(p), nil
}

type backend struct {
	srv *fakeapi.Server
	url string
}

func newBackend(t *testing.T, d fakeapi.Domain) *backend {
	t.Helper()

	d.Host = testHost
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := fakeapi.New(fakeapi.Options{Domain: d, Logger: quiet})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	_, err := srv.AddUser(fakeapi.User{Email: "alice@example.com", Name: "Alice", Password: "alice-pw", Role: fakeapi.RoleCommenter})
	require.NoError(t, err)

	return &backend{srv: srv, url: ts.URL}
}

// widget - виджет на настоящем клиенте API с отдельной сессией.
func (b *backend) widget(t *testing.T, prompt auth.Prompt) *widget.Widget {
	t.Helper()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewMemoryStore(nil)

	client, err := api.New(b.url, store, api.Options{Timeout: 5 * time.Second, Logger: quiet})
	require.NoError(t, err)

	m := auth.New(client, store, auth.Options{Host: testHost, Prompt: prompt})
	w := widget.New(client, m, widget.Options{Host: testHost, Path: testPath, Logger: quiet})
	require.NoError(t, w.Init(context.Background()))

	return w
}

// waitComment ждёт, пока комментарий id в хранилище виджета не станет want.
func waitComment(t *testing.T, w *widget.Widget, id uuid.UUID, want func(models.Comment) bool) models.Comment {
	t.Helper()

	var last models.Comment
	require.Eventually(t, func() bool {
		c, ok := w.Comment(id)
		last = c
		return ok && want(c)
	}, 5*time.Second, 10*time.Millisecond, "comment %s never reached the expected state", id)

	return last
}

func TestE2E_LiveUpdate(t *testing.T) {
	b := newBackend(t, fakeapi.Domain{
		AuthAnonymous:     true,
		AuthLocal:         true,
		ModerateAnonymous: true,
		Voting:            true,
		DeleteModerator:   true,
	})
	ctx := context.Background()

	_, err := b.srv.AddUser(fakeapi.User{Email: "mod@example.com", Name: "Mod", Password: "mod-pw", Role: fakeapi.RoleModerator})
	require.NoError(t, err)
	ann, err := b.srv.AddUser(fakeapi.User{Email: "ann@example.com", Name: "Ann", Password: "ann-pw", Role: fakeapi.RoleCommenter})
	require.NoError(t, err)

	rootC := b.srv.AddComment(models.Comment{
		Path:        testPath,
		Markdown:    "first",
		HTML:        "<p>first</p>",
		IsApproved:  true,
		IsSticky:    true,
		UserCreated: models.UUIDPtr(ann),
	})

	mod := b.widget(t, credsPrompt{Email: "mod@example.com", Password: "mod-pw"})
	require.NoError(t, mod.Login(ctx, auth.Method{}))
	require.True(t, mod.Principal().CanModerate())

	author := b.widget(t, credsPrompt{Email: "alice@example.com", Password: "alice-pw"})
	require.NoError(t, author.Login(ctx, auth.Method{}))
	anon := b.widget(t, nil)

	r, ok := mod.Comment(rootC.ID)
	require.True(t, ok)
	require.Equal(t, 0, *r.Score)

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		mod.Watch(watchCtx, 20*time.Millisecond)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// Ответ вошедшего пользователя появляется ребёнком корня и не ждёт модерации.
	reply, err := author.AddComment(ctx, &rootC.ID, "a reply", false)
	require.NoError(t, err)

	got := waitComment(t, mod, reply.ID, func(models.Comment) bool { return true })
	require.Equal(t, rootC.ID, *got.ParentID)
	require.False(t, got.IsPending)
	replyBefore := got

	// Удаление корня модератором: заглушка, счёт null, закрепление снято, ребёнок не тронут.
	require.NoError(t, mod.DeleteComment(ctx, rootC.ID))
	r = waitComment(t, mod, rootC.ID, func(c models.Comment) bool { return c.HTML == "(Deleted by moderator)" })
	require.True(t, r.IsDeleted)
	require.Nil(t, r.Score)
	require.False(t, r.IsSticky)

	got = waitComment(t, mod, reply.ID, func(models.Comment) bool { return true })
	require.Equal(t, replyBefore, got)
	require.Len(t, mod.Children(rootC.ID), 1)

	// Анонимный комментарий ждёт модерации.
	anonC, err := anon.AddComment(ctx, nil, "anonymous words", true)
	require.NoError(t, err)
	require.True(t, anonC.IsPending)

	before := waitComment(t, mod, anonC.ID, func(c models.Comment) bool { return c.IsPending })

	// Одобрение меняет только статус модерации.
	require.NoError(t, mod.ModerateComment(ctx, anonC.ID, true))
	want := before
	want.IsPending = false
	want.IsApproved = true
	before = waitComment(t, mod, anonC.ID, func(c models.Comment) bool { return !c.IsPending })
	require.Equal(t, want, before)

	// Голос -1 меняет только счёт (и голос самого зрителя).
	require.NoError(t, mod.Vote(ctx, anonC.ID, -1))
	want = before
	want.Score = models.IntPtr(-1)
	want.Direction = -1
	before = waitComment(t, mod, anonC.ID, func(c models.Comment) bool { return c.ScoreValue() == -1 })
	require.Equal(t, want, before)

	// Закрепление меняет только флаг sticky.
	require.NoError(t, mod.ToggleSticky(ctx, anonC.ID))
	want = before
	want.IsSticky = true
	got = waitComment(t, mod, anonC.ID, func(c models.Comment) bool { return c.IsSticky })
	require.Equal(t, want, got)
}

func TestE2E_VoteAsAnonymousPromptsLogin(t *testing.T) {
	b := newBackend(t, fakeapi.Domain{AuthLocal: true, Voting: true})
	ctx := context.Background()

	other := b.srv.AddComment(models.Comment{Markdown: "someone else", HTML: "<p>someone else</p>", Path: testPath, IsApproved: true})

	w := b.widget(t, credsPrompt{Email: "alice@example.com", Password: "alice-pw"})
	require.Nil(t, w.Principal())

	require.NoError(t, w.Vote(ctx, other.ID, 1))
	require.NotNil(t, w.Principal())

	got, ok := w.Comment(other.ID)
	require.True(t, ok)
	require.Equal(t, 1, *got.Score)
	require.Equal(t, int8(1), got.Direction)
}

func TestE2E_WrongPasswordShowsMessage(t *testing.T) {
	b := newBackend(t, fakeapi.Domain{AuthLocal: true})

	w := b.widget(t, credsPrompt{Email: "alice@example.com", Password: "nope"})

	err := w.Login(context.Background(), auth.Method{Kind: auth.KindLocal})
	require.ErrorIs(t, err, api.ErrUnauthorized)
	require.Nil(t, w.Principal())

	msg, ok := w.Message()
	require.True(t, ok)
	require.Equal(t, widget.MessageError, msg.Kind)
}

func TestE2E_ReadonlyPageHidesEditor(t *testing.T) {
	b := newBackend(t, fakeapi.Domain{AuthLocal: true, Readonly: true})

	w := b.widget(t, nil)
	require.True(t, w.PageInfo().IsDomainReadonly)
	require.Contains(t, w.HTML(), "This thread is locked")

	_, err := w.OpenEditor(nil)
	require.ErrorIs(t, err, widget.ErrReadonly)
}
