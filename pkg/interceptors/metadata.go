package interceptors

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// WithRequestID кладёт X-Request-Id в контекст исходящих вызовов.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxRequestID, id)
}

// WithAuthToken кладёт сессионный токен в контекст исходящих вызовов.
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CtxAuthToken, token)
}

// RequestIDFrom достаёт X-Request-Id из контекста.
func RequestIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxRequestID).(string)
	return v, ok && v != ""
}

// AuthTokenFrom достаёт токен из контекста.
func AuthTokenFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxAuthToken).(string)
	return v, ok && v != ""
}

// WithMetadata - добавляет в исходящий запрос заголовки:
//   - X-Request-Id (из контекста, иначе генерирует новый);
//   - Authorization: Bearer <token> (если токен есть в контексте);
//   - User-Agent (если передан параметром).
//
// Запрос клонируется: исходный *http.Request не модифицируется.
func WithMetadata(userAgent string) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			ctx := r.Context()
			r = r.Clone(ctx)

			rid, ok := RequestIDFrom(ctx)
			if !ok {
				rid = r.Header.Get("X-Request-Id")
			}
			if rid == "" {
				rid = uuid.NewString()
			}
			r.Header.Set("X-Request-Id", rid)

			if tok, ok := AuthTokenFrom(ctx); ok {
				r.Header.Set("Authorization", "Bearer "+tok)
			}

			if userAgent != "" {
				r.Header.Set("User-Agent", userAgent)
			}

			return next.RoundTrip(r)
		})
	}
}
