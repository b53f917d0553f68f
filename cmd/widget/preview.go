package main

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-comments-widget/internal/auth"
	apierrors "github.com/pribylovaa/go-comments-widget/internal/errors"
	"github.com/pribylovaa/go-comments-widget/internal/models"
	"github.com/pribylovaa/go-comments-widget/internal/widget"
)

// staticPrompt - учётные данные из флагов командной строки.
type staticPrompt auth.Credentials

func (p staticPrompt) Credentials(context.Context) (auth.Credentials, error) {
	return auth.Credentials(p), nil
}

// mountPreview - отрисованный виджет и ручки для его действий.
// Ошибки действий уже видны в панели сообщений виджета, поэтому после
// любого действия отдаётся свежая разметка.
func mountPreview(r chi.Router, w *widget.Widget, ready *int32) {
	page := func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = rw.Write([]byte("<!doctype html><html><body>" + w.HTML() + "</body></html>"))
	}

	action := func(fn func(r *http.Request) error) http.HandlerFunc {
		return func(rw http.ResponseWriter, r *http.Request) {
			_ = fn(r)
			page(rw, r)
		}
	}

	r.Get("/", page)

	r.Post("/reload", action(func(r *http.Request) error {
		if err := w.Reload(r.Context()); err != nil {
			return err
		}
		atomic.StoreInt32(ready, 1)
		return nil
	}))

	r.Post("/login", action(func(r *http.Request) error {
		return w.Login(r.Context(), auth.Method{Kind: auth.Kind(r.URL.Query().Get("kind")), Provider: r.URL.Query().Get("provider")})
	}))

	r.Post("/logout", action(func(r *http.Request) error { return w.Logout(r.Context()) }))

	r.Post("/sort/{policy}", func(rw http.ResponseWriter, r *http.Request) {
		p, err := models.ParseSortPolicy(chi.URLParam(r, "policy"))
		if err != nil {
			apierrors.WriteError(rw, r, apierrors.ErrInvalidArgument)
			return
		}

		_ = w.SetSort(p)
		page(rw, r)
	})

	r.Post("/comments", action(func(r *http.Request) error {
		_, err := w.AddComment(r.Context(), nil, r.FormValue("markdown"), r.FormValue("anonymous") == "on")
		return err
	}))
}
