package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/internal/fakeapi"
	"github.com/pribylovaa/go-comments-widget/internal/models"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demo"
)

// startDemoBackend поднимает бэкенд в памяти на случайном порту, наполняет его
// и подставляет его адрес в API_BASE_URL до загрузки конфигурации.
func startDemoBackend() (*http.Server, error) {
	const op = "cmd/widget/startDemoBackend"

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	base := "http://" + ln.Addr().String()
	host := os.Getenv("PAGE_HOST")
	if host == "" {
		host = "localhost"
	}

	srv := fakeapi.New(fakeapi.Options{
		BaseURL: base,
		Domain: fakeapi.Domain{
			Host:            host,
			Name:            "Demo",
			AuthAnonymous:   true,
			AuthLocal:       true,
			Voting:          true,
			EditAuthor:      true,
			EditModerator:   true,
			DeleteAuthor:    true,
			DeleteModerator: true,
		},
		Timeout: 10 * time.Second,
	})

	if err := seedDemo(srv); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Setenv("API_BASE_URL", base); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hs := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("demo_backend_serve_failed", slog.String("err", err.Error()))
		}
	}()

	return hs, nil
}

func seedDemo(srv *fakeapi.Server) error {
	demo, err := srv.AddUser(fakeapi.User{Email: demoEmail, Name: "Demo Moderator", Password: demoPassword, Role: fakeapi.RoleModerator})
	if err != nil {
		return err
	}

	ann, err := srv.AddUser(fakeapi.User{Email: "ann@example.com", Name: "Ann", Password: uuid.NewString(), Role: fakeapi.RoleCommenter, ColourIndex: 7})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	first := srv.AddComment(models.Comment{
		Markdown:    "Welcome to the demo thread.",
		HTML:        "<p>Welcome to the demo thread.</p>",
		IsApproved:  true,
		IsSticky:    true,
		UserCreated: models.UUIDPtr(demo),
		CreatedTime: now.Add(-2 * time.Hour),
	})

	reply := srv.AddComment(models.Comment{
		ParentID:    &first.ID,
		Markdown:    "Nice to be here!",
		HTML:        "<p>Nice to be here!</p>",
		IsApproved:  true,
		UserCreated: models.UUIDPtr(ann),
		CreatedTime: now.Add(-time.Hour),
	})
	srv.SetVote(reply.ID, demo, 1)

	srv.AddComment(models.Comment{
		Markdown:    "Waiting for approval.",
		HTML:        "<p>Waiting for approval.</p>",
		IsPending:   true,
		CreatedTime: now.Add(-10 * time.Minute),
	})

	return nil
}
