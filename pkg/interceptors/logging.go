package interceptors

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/go-comments-widget/pkg/log"
)

// Logging - логирование исходящих запросов.
// Поведение:
//   - берёт логгер из контекста запроса (pkg/log), иначе base;
//   - добавляет поля request_id/method/path;
//   - пишет одну финальную запись: msg="http_client", status (или error), dur.
//
// Безопасность: не логирует тела и заголовок Authorization.
func Logging(base *slog.Logger) Interceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			l, ok := log.Lookup(r.Context())
			if !ok {
				l = base
			}
			l = l.With(
				slog.String("request_id", r.Header.Get("X-Request-Id")),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			resp, err := next.RoundTrip(r)
			if err != nil {
				l.Warn("http_client",
					slog.String("error", err.Error()),
					slog.Duration("dur", time.Since(start)),
				)
				return nil, err
			}

			l.Info("http_client",
				slog.Int("status", resp.StatusCode),
				slog.Duration("dur", time.Since(start)),
			)

			return resp, nil
		})
	}
}
