package fakeapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-comments-widget/internal/http/middleware"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/embed", func(r chi.Router) {
		r.Get("/config", s.config)

		r.Post("/comments", s.commentList)
		r.Put("/comments", s.commentNew)
		r.Put("/comments/{id}", s.commentUpdate)
		r.Delete("/comments/{id}", s.commentDelete)
		r.Post("/comments/{id}/moderate", s.commentModerate)
		r.Post("/comments/{id}/vote", s.commentVote)
		r.Post("/comments/{id}/sticky", s.commentSticky)
		r.Post("/page", s.pageUpdate)

		r.Post("/auth/login", s.login)
		r.Post("/auth/logout", s.logout)
		r.Post("/auth/signup", s.signup)
		r.Get("/auth/user", s.principal)
		r.Put("/auth/user", s.updateSettings)
		r.Post("/auth/login/token", s.newLoginToken)
		r.Put("/auth/login/token", s.redeemLoginToken)
	})

	r.Get("/api/oauth/{provider}", s.oauth)

	return middleware.Chain(r,
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Logging(s.opts.Logger),
		middleware.AuthBearer(),
		middleware.Timeout(s.opts.Timeout),
	)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict - JSON-декодер, запрещающий неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
