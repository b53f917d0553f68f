package middleware

import (
	"net/http"
	"strings"

	"github.com/pribylovaa/go-comments-widget/internal/models"
	"github.com/pribylovaa/go-comments-widget/pkg/interceptors"
)

// AuthBearer кладёт токен из "Authorization: Bearer <token>" в контекст
// (interceptors.CtxAuthToken). Анонимный токен считается отсутствующим.
func AuthBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "

			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, prefix) {
				tok := strings.TrimSpace(h[len(prefix):])
				if tok != "" && tok != models.AnonymousToken {
					r = r.WithContext(interceptors.WithAuthToken(r.Context(), tok))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
