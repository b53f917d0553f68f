package widget

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/internal/dom"
	"github.com/pribylovaa/go-comments-widget/internal/tree"
)

// Editor - открытый редактор комментария. Одновременно открыт не больше одного:
// открытие нового закрывает предыдущий.
type Editor struct {
	w         *Widget
	parentID  *uuid.UUID
	editing   uuid.UUID
	anonymous bool
	closed    bool

	el   *dom.Element
	text *dom.Element
}

// OpenEditor открывает редактор нового комментария: parentID == nil - в области
// добавления, иначе ответ под карточкой родителя.
func (w *Widget) OpenEditor(parentID *uuid.UUID) (*Editor, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pageInfo == nil {
		return nil, ErrNotLoaded
	}
	if tree.ViewerReadonly(w.pageInfo, w.principal) || w.addHost == nil {
		return nil, ErrReadonly
	}

	e := &Editor{w: w, parentID: parentID}
	submit := "Add Comment"
	if parentID != nil {
		submit = "Reply"
	}
	e.build("", submit, w.principal == nil && w.pageInfo.AuthAnonymous)

	if parentID == nil {
		w.closeEditorLocked()
		w.addHost.Append(e.el)
		w.editor = e
		return e, nil
	}

	card, ok := w.index[*parentID]
	if !ok || !card.Element().Valid() {
		return nil, ErrNotFound
	}

	if err := w.placeLocked(e, card); err != nil {
		return nil, err
	}

	return e, nil
}

// OpenEditEditor открывает редактор существующего комментария с его текущим текстом.
func (w *Widget) OpenEditEditor(id uuid.UUID) (*Editor, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	card, ok := w.index[id]
	if !ok || !card.Element().Valid() {
		return nil, ErrNotFound
	}

	e := &Editor{w: w, editing: id}
	e.build(card.Comment().Markdown, "Save Changes", false)

	if err := w.placeLocked(e, card); err != nil {
		return nil, err
	}

	return e, nil
}

// Editor - открытый сейчас редактор или nil.
func (w *Widget) Editor() *Editor {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.editor
}

// placeLocked вставляет редактор в карточку перед контейнером детей.
func (w *Widget) placeLocked(e *Editor, card *tree.Card) error {
	w.closeEditorLocked()

	if err := card.Element().InsertBefore(e.el, card.ChildrenElement()); err != nil {
		return fmt.Errorf("widget/editor/place: %w", err)
	}

	w.editor = e
	return nil
}

// reattachEditorLocked возвращает открытый редактор на его место в новом дереве.
// false - места нет: карточка исчезла или удалена, либо страница стала закрытой.
func (w *Widget) reattachEditorLocked(e *Editor) bool {
	anchor := e.parentID
	if id, ok := e.Editing(); ok {
		anchor = &id
	} else if w.addHost == nil {
		return false
	}

	if anchor == nil {
		w.addHost.Append(e.el)
		return true
	}

	card, ok := w.index[*anchor]
	if !ok || card.Comment().IsDeleted {
		return false
	}

	return card.Element().InsertBefore(e.el, card.ChildrenElement()) == nil
}

func (w *Widget) closeEditorLocked() {
	if w.editor == nil {
		return
	}

	w.editor.closed = true
	w.editor.el.Remove()
	w.editor = nil
}

func (e *Editor) build(markdown, submit string, anonymousChoice bool) {
	e.text = dom.New("textarea", "comentario-editor-text").
		SetAttr("placeholder", "Your comment").
		SetText(markdown)

	e.el = dom.Div("comentario-comment-editor").Append(e.text)

	if anonymousChoice {
		box := dom.New("input", "comentario-editor-anonymous").SetAttr("type", "checkbox")
		box.On("click", func(context.Context) {
			e.w.mu.Lock()
			defer e.w.mu.Unlock()

			e.anonymous = !e.anonymous
			box.ToggleAttr("checked", e.anonymous)
		})
		e.el.Append(dom.New("label").Append(box).AppendText(" Comment anonymously"))
	}

	e.el.Append(
		dom.Button("Cancel", "comentario-btn", "comentario-btn-cancel").
			SetText("Cancel").
			On("click", func(context.Context) { e.Cancel() }),
		dom.Button(submit, "comentario-btn", "comentario-btn-submit").
			SetText(submit).
			On("click", func(ctx context.Context) { _ = e.Submit(ctx) }),
	)
}

func (e *Editor) Element() *dom.Element { return e.el }
func (e *Editor) ParentID() *uuid.UUID  { return e.parentID }

// Editing - id редактируемого комментария; ok == false для нового комментария.
func (e *Editor) Editing() (uuid.UUID, bool) {
	return e.editing, e.editing != uuid.Nil
}

func (e *Editor) Markdown() string {
	e.w.mu.Lock()
	defer e.w.mu.Unlock()

	return e.text.Text()
}

func (e *Editor) SetMarkdown(s string) {
	e.w.mu.Lock()
	defer e.w.mu.Unlock()

	e.text.SetText(s)
}

// SetAnonymous - комментировать без входа (если домен разрешает).
func (e *Editor) SetAnonymous(on bool) {
	e.w.mu.Lock()
	defer e.w.mu.Unlock()

	e.anonymous = on
}

// Submit отправляет текст: новый комментарий или правку. При успехе редактор закрывается.
// Закрытый редактор ничего не отправляет и возвращает ErrEditorClosed.
func (e *Editor) Submit(ctx context.Context) error {
	e.w.mu.Lock()
	if e.closed {
		e.w.mu.Unlock()
		return fmt.Errorf("widget/editor/Submit: %w", ErrEditorClosed)
	}
	markdown := e.text.Text()
	anonymous := e.anonymous
	e.w.mu.Unlock()

	var err error
	if id, ok := e.Editing(); ok {
		err = e.w.EditComment(ctx, id, markdown)
	} else {
		_, err = e.w.AddComment(ctx, e.parentID, markdown, anonymous)
	}
	if err != nil {
		return err
	}

	e.Cancel()
	return nil
}

// Cancel закрывает редактор, если он ещё открыт.
func (e *Editor) Cancel() {
	e.w.mu.Lock()
	defer e.w.mu.Unlock()

	if e.w.editor == e {
		e.w.closeEditorLocked()
		return
	}

	if !e.closed {
		e.closed = true
		e.el.Remove()
	}
}
