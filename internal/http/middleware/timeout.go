package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/pribylovaa/go-comments-widget/internal/errors"
	"github.com/pribylovaa/go-comments-widget/pkg/log"
)

// Timeout ставит запросу дедлайн d, если его ещё нет; d <= 0 - без обёртки.
// Обработчик, бросивший запрос по дедлайну и ничего не записавший, получает
// за себя ответ 504 с конвертом ошибки deadline_exceeded.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, ok := ctx.Deadline(); !ok {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
				r = r.WithContext(ctx)
			}

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			if sw.status != 0 || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return
			}

			log.From(ctx).Warn("request_timeout",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("timeout", d),
			)
			apierrors.WriteError(sw, r, fmt.Errorf("%s %s: %w", r.Method, r.URL.Path, ctx.Err()))
		})
	}
}
