package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/go-comments-widget/pkg/log"
)

// Logging кладёт в контекст логгер запроса (с request_id) и пишет одну запись
// на запрос. 5xx пишутся с уровнем Error.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lg := l
			if rid := r.Header.Get("X-Request-Id"); rid != "" {
				lg = lg.With(slog.String("request_id", rid))
			}
			r = r.WithContext(log.Into(r.Context(), lg))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			level := slog.LevelInfo
			if sw.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			lg.LogAttrs(r.Context(), level, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.Status()),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", sw.count),
			)
		})
	}
}
