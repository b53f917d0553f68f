package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/pkg/interceptors"
)

// RequestID гарантирует X-Request-Id: берёт входящий или выдаёт новый uuid,
// возвращает его в ответе и кладёт в заголовок и контекст запроса.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = uuid.NewString()
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)

			next.ServeHTTP(w, r.WithContext(interceptors.WithRequestID(r.Context(), id)))
		})
	}
}
