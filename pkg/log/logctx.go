// Package log переносит *slog.Logger через context.Context, чтобы каждая операция виджета
// (загрузка страницы, мутация комментария, вход) писала записи со своими атрибутами.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладёт логгер в контекст.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста или возвращает slog.Default().
func From(ctx context.Context) *slog.Logger {
	if l, ok := Lookup(ctx); ok {
		return l
	}

	return slog.Default()
}

// Lookup достаёт логгер из контекста; ok == false, если его там нет.
func Lookup(ctx context.Context) (*slog.Logger, bool) {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	return l, ok && l != nil
}

// With обогащает логгер из контекста атрибутами и сразу кладёт результат обратно.
// Удобно в начале операции: ctx, lg := log.With(ctx, "op", op, "comment_id", id).
func With(ctx context.Context, args ...any) (context.Context, *slog.Logger) {
	lg := From(ctx).With(args...)
	return Into(ctx, lg), lg
}
