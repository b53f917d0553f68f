package widget

import (
	"context"
	"errors"

	"github.com/pribylovaa/go-comments-widget/internal/api"
	"github.com/pribylovaa/go-comments-widget/internal/auth"
	"github.com/pribylovaa/go-comments-widget/internal/dom"
	apierrors "github.com/pribylovaa/go-comments-widget/internal/errors"
)

// MessageKind - вид сообщения панели.
type MessageKind string

const (
	MessageError   MessageKind = "error"
	MessageInfo    MessageKind = "info"
	MessageSuccess MessageKind = "success"
)

// Message - сообщение пользователю. Видно одно: новое заменяет предыдущее.
type Message struct {
	Kind MessageKind
	Text string
}

// Message - текущее сообщение; ok == false, если панель пуста.
func (w *Widget) Message() (Message, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.message == nil {
		return Message{}, false
	}

	return *w.message, true
}

// Dismiss закрывает сообщение.
func (w *Widget) Dismiss() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.message = nil
	w.renderMessageLocked()
}

func (w *Widget) show(m Message) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.showLocked(m)
}

func (w *Widget) showLocked(m Message) {
	w.message = &m
	w.renderMessageLocked()
}

func (w *Widget) renderMessageLocked() {
	if w.msgBox == nil {
		return
	}

	w.msgBox.Clear()
	for _, k := range []MessageKind{MessageError, MessageInfo, MessageSuccess} {
		w.msgBox.RemoveClass("comentario-message-box-" + string(k))
	}

	if w.message == nil {
		w.msgBox.ToggleAttr("hidden", true)
		return
	}

	w.msgBox.AddClass("comentario-message-box-"+string(w.message.Kind)).
		ToggleAttr("hidden", false).
		Append(
			dom.New("span", "comentario-message-text").SetText(w.message.Text),
			dom.Button("Dismiss", "comentario-btn", "comentario-btn-dismiss").
				SetText("×").
				On("click", func(context.Context) { w.Dismiss() }),
		)
}

// errorText - текст ошибки для пользователя; ok == false - показывать нечего
// (пользователь сам отменил действие).
func errorText(err error) (string, bool) {
	var apiErr *apierrors.Error

	switch {
	case errors.Is(err, auth.ErrCancelled), errors.Is(err, context.Canceled):
		return "", false
	case errors.Is(err, ErrNotLoaded):
		return "Comments could not be loaded.", true
	case errors.Is(err, ErrReadonly):
		return "This page is read-only.", true
	case errors.Is(err, ErrEmptyComment):
		return "Please write something first.", true
	case errors.Is(err, ErrVotingDisabled):
		return "Voting is disabled on this site.", true
	case errors.Is(err, ErrNotFound):
		return "The comment no longer exists.", true
	case errors.Is(err, auth.ErrNoAuthMethod):
		return "No login method is available.", true
	case errors.Is(err, auth.ErrSSOTimeout):
		return "Login timed out.", true
	case errors.Is(err, auth.ErrSSOFailed):
		return "Login failed.", true
	case errors.Is(err, api.ErrUnauthorized):
		return "You need to log in.", true
	case errors.Is(err, api.ErrForbidden):
		return "You are not allowed to do that.", true
	case errors.Is(err, api.ErrUnavailable):
		return "The comment server is unavailable. Please try again later.", true
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message, true
	default:
		return "Something went wrong. Please try again.", true
	}
}
