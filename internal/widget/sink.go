package widget

import (
	"context"

	"github.com/pribylovaa/go-comments-widget/internal/tree"
)

// sink переводит клики по карточкам в операции виджета. Ошибки уже показаны
// пользователю через панель сообщений.
type sink struct {
	w *Widget
}

var _ tree.Sink = sink{}

func (s sink) Vote(ctx context.Context, card *tree.Card, direction int8) {
	_ = s.w.Vote(ctx, card.ID(), direction)
}

func (s sink) Reply(_ context.Context, card *tree.Card) {
	id := card.ID()
	_, _ = s.w.OpenEditor(&id)
}

func (s sink) Edit(_ context.Context, card *tree.Card) {
	_, _ = s.w.OpenEditEditor(card.ID())
}

func (s sink) Delete(ctx context.Context, card *tree.Card) {
	_ = s.w.DeleteComment(ctx, card.ID())
}

func (s sink) Moderate(ctx context.Context, card *tree.Card, approve bool) {
	_ = s.w.ModerateComment(ctx, card.ID(), approve)
}

func (s sink) Sticky(ctx context.Context, card *tree.Card) {
	_ = s.w.ToggleSticky(ctx, card.ID())
}
