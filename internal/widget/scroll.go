package widget

import (
	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/internal/tree"
)

const staleLinkMsg = "The comment you're looking for doesn't exist; possibly it was deleted."

// ScrollTo прокручивает к комментарию по фрагменту адреса (#comentario-<uuid>).
// Фрагмент не про комментарий игнорируется; правильный, но не найденный -
// показывает сообщение, что комментарий, возможно, удалён.
func (w *Widget) ScrollTo(fragment string) bool {
	id, ok := tree.ParseElementID(fragment)
	if !ok {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.scrollLocked(id) {
		return true
	}

	w.showLocked(Message{Kind: MessageError, Text: staleLinkMsg})
	return false
}

// Scrolled - комментарий, к которому прокрутили последним; uuid.Nil - ни к какому.
func (w *Widget) Scrolled() uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.scrolled
}

func (w *Widget) scrollLocked(id uuid.UUID) bool {
	card, ok := tree.Find(w.cards, id)
	if !ok || !card.Element().Valid() {
		return false
	}

	if prev, ok := tree.Find(w.cards, w.scrolled); ok {
		prev.Element().RemoveClass(classScrolled)
	}

	w.scrolled = id
	card.Element().AddClass(classScrolled)
	return true
}
