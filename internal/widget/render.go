package widget

import (
	"context"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/internal/auth"
	"github.com/pribylovaa/go-comments-widget/internal/dom"
	"github.com/pribylovaa/go-comments-widget/internal/models"
	"github.com/pribylovaa/go-comments-widget/internal/tree"
)

const (
	classAddHost      = "comentario-add-comment-host"
	classModToolbar   = "comentario-mod-tools"
	classReadonly     = "comentario-page-readonly-notice"
	classSortBar      = "comentario-sort-bar"
	classComments     = "comentario-comments"
	classNoComments   = "comentario-no-comments"
	classScrolled     = "comentario-bg-blink"
	classActiveSort   = "comentario-sort-active"
	readonlyNoticeMsg = "This thread is locked. You cannot add new comments."
)

// buildChromeLocked строит постоянный каркас: панель профиля, основную область,
// панель сообщений и подвал.
func (w *Widget) buildChromeLocked() {
	w.root.Clear()

	w.profileBar = dom.Div("comentario-profile-bar")
	w.main = dom.Div("comentario-main-area")
	w.msgBox = dom.Div("comentario-message-box").ToggleAttr("hidden", true)
	w.footer = dom.Div("comentario-footer")

	docs := "https://comentario.app/"
	if w.config != nil && w.config.BaseDocsURL != "" {
		docs = w.config.BaseDocsURL
	}
	w.footer.Append(dom.New("a", "comentario-logo").
		SetAttr("href", docs).
		SetAttr("target", "_blank").
		SetText("Powered by Comentario"))

	w.root.Append(w.profileBar, w.msgBox, w.main, w.footer)
	w.renderMessageLocked()
}

// renderLocked пересобирает панель профиля, основную область и дерево.
// Свёрнутые ветки, подсветка прокрутки и открытый редактор переносятся в новое
// дерево; редактор закрывается, только если его карточки больше нет.
func (w *Widget) renderLocked() {
	if w.main == nil {
		w.buildChromeLocked()
	}

	ed := w.editor
	if ed != nil {
		ed.el.Detach()
	}
	collapsed := w.collapsedLocked()

	w.renderProfileLocked()

	w.main.Clear()
	w.cards = nil
	w.index = make(map[uuid.UUID]*tree.Card)
	w.addHost, w.comments, w.empty = nil, nil, nil
	w.renderedGen = w.gen

	pi := w.pageInfo
	if pi == nil {
		w.closeEditorLocked()
		return
	}

	readonly := tree.ViewerReadonly(pi, w.principal)
	w.rc = &tree.RenderingContext{
		ParentMap:  w.parentMap,
		Commenters: w.commenters,
		Principal:  w.principal,
		Sort:       w.sort,
		Readonly:   readonly,
		Voting:     pi.EnableCommentVoting,
		Perms:      tree.PermissionsOf(pi),
		Now:        w.now(),
		MaxLevel:   w.opts.MaxLevel,
		Sink:       sink{w: w},
		Dialogs:    w.opts.Dialogs,
		Avatars:    w.opts.Avatars,
	}

	if w.principal.CanModerate() {
		w.main.Append(w.moderatorToolbar(pi))
	}

	if readonly {
		w.main.Append(dom.Div(classReadonly).SetText(readonlyNoticeMsg))
	} else {
		w.addHost = dom.Div(classAddHost)
		w.addHost.Append(dom.Button("Add comment", "comentario-btn", "comentario-btn-add-comment").
			SetText("Add comment").
			On("click", func(context.Context) { _, _ = w.OpenEditor(nil) }))
		w.main.Append(w.addHost)
	}

	w.main.Append(w.sortBar())

	w.comments = dom.Div(classComments)
	w.cards = tree.Render(w.rc, models.RootKey, 0)
	for _, c := range w.cards {
		w.comments.Append(c.Element())
		w.indexLocked(c)
	}

	if len(w.cards) == 0 {
		w.empty = dom.Div(classNoComments).SetText("No comments on this page yet")
		w.comments.Append(w.empty)
	}

	w.main.Append(w.comments)

	for _, id := range collapsed {
		if card, ok := w.index[id]; ok && card.HasChildren() {
			card.SetCollapsed(true)
		}
	}

	if card, ok := tree.Find(w.cards, w.scrolled); ok {
		card.Element().AddClass(classScrolled)
	}

	if ed != nil && !w.reattachEditorLocked(ed) {
		w.closeEditorLocked()
	}
}

// collapsedLocked - id свёрнутых карточек текущей отрисовки.
func (w *Widget) collapsedLocked() []uuid.UUID {
	var out []uuid.UUID
	for id, card := range w.index {
		if card.Collapsed() && card.Element().Valid() {
			out = append(out, id)
		}
	}

	return out
}

func (w *Widget) indexLocked(c *tree.Card) {
	c.Walk(func(cc *tree.Card) bool {
		w.index[cc.ID()] = cc
		return true
	})
}

// attachLocked дорисовывает новый комментарий без полной перерисовки: корневой
// в конец списка, ответ в конец детей родителя.
func (w *Widget) attachLocked(c models.Comment) {
	if w.rc == nil || w.comments == nil {
		return
	}

	if c.IsRoot() {
		card := tree.NewCard(w.rc, c, 0)
		if w.empty != nil {
			w.empty.Remove()
			w.empty = nil
		}
		w.cards = append(w.cards, card)
		w.comments.Append(card.Element())
		w.indexLocked(card)
		return
	}

	parent, ok := w.index[*c.ParentID]
	if !ok || !parent.Element().Valid() {
		return
	}

	w.indexLocked(parent.AddChild(c))
}

func (w *Widget) renderProfileLocked() {
	w.profileBar.Clear()

	if p := w.principal; p != nil {
		w.profileBar.Append(
			dom.New("span", "comentario-profile-name").SetText(p.Name),
			dom.Button("Logout", "comentario-btn", "comentario-btn-logout").
				SetText("Logout").
				On("click", func(ctx context.Context) { _ = w.Logout(ctx) }),
		)
		return
	}

	if w.pageInfo.HasAuth() {
		w.profileBar.Append(dom.Button("Login", "comentario-btn", "comentario-btn-login").
			SetText("Login").
			On("click", func(ctx context.Context) { _ = w.Login(ctx, auth.Method{}) }))
	}
}

func (w *Widget) moderatorToolbar(pi *models.PageInfo) *dom.Element {
	title := "Lock thread"
	if pi.IsPageReadonly {
		title = "Unlock thread"
	}

	return dom.Div(classModToolbar).Append(
		dom.Button(title, "comentario-btn", "comentario-btn-lock").
			SetClass("comentario-btn-active", pi.IsPageReadonly).
			SetText(title).
			On("click", func(ctx context.Context) { _ = w.TogglePageLock(ctx) }),
	)
}

func (w *Widget) sortBar() *dom.Element {
	bar := dom.Div(classSortBar)
	for _, p := range models.SortPolicies {
		bar.Append(dom.Button(p.Label(), "comentario-sort-"+string(p)).
			SetClass(classActiveSort, p == w.sort).
			SetText(p.Label()).
			On("click", func(context.Context) { _ = w.SetSort(p) }))
	}

	return bar
}
