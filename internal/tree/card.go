package tree

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/internal/dom"
	"github.com/pribylovaa/go-comments-widget/internal/models"
)

// IDPrefix - префикс id элемента карточки: #comentario-<uuid>.
const IDPrefix = "comentario-"

const (
	classCard          = "comentario-card"
	classChildren      = "comentario-card-children"
	classUnnest        = "comentario-card-children-unnest"
	classCollapsed     = "comentario-collapsed"
	classBtnActive     = "comentario-btn-active"
	deleteConfirmation = "Are you sure you want to delete this comment?"
)

// Card - контроллер одного отрисованного комментария.
type Card struct {
	rc        *RenderingContext
	comment   models.Comment
	level     int
	collapsed bool
	children  []*Card

	el       *dom.Element
	header   *dom.Element
	body     *dom.Element
	toolbar  *dom.Element
	childBox *dom.Element
	buttons  map[Button]*dom.Element
}

// NewCard строит карточку комментария вместе с поддеревом детей из rc.ParentMap.
func NewCard(rc *RenderingContext, c models.Comment, level int) *Card {
	card := &Card{rc: rc, comment: c, level: level}

	card.header = dom.Div("comentario-card-header")
	card.body = dom.Div("comentario-card-body")
	card.toolbar = dom.Div("comentario-card-toolbar")
	card.childBox = dom.Div(classChildren).SetClass(classUnnest, rc.unnest(level))
	card.el = dom.Div(classCard).
		SetID(ElementID(c.ID)).
		Append(card.header, card.body, card.toolbar, card.childBox)

	card.children = Render(rc, c.ID, level+1)
	for _, ch := range card.children {
		card.childBox.Append(ch.el)
	}

	card.refresh()
	return card
}

// ElementID - id элемента карточки комментария.
func ElementID(id uuid.UUID) string { return IDPrefix + id.String() }

// ParseElementID разбирает id элемента карточки. ok == false, если это не id комментария.
func ParseElementID(s string) (uuid.UUID, bool) {
	rest, found := strings.CutPrefix(strings.TrimPrefix(s, "#"), IDPrefix)
	if !found {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(rest)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}

	return id, true
}

func (c *Card) Comment() models.Comment { return c.comment }
func (c *Card) ID() uuid.UUID           { return c.comment.ID }
func (c *Card) Level() int              { return c.level }
func (c *Card) Element() *dom.Element   { return c.el }
func (c *Card) Collapsed() bool         { return c.collapsed }

// Children - копия списка дочерних карточек.
func (c *Card) Children() []*Card {
	return append([]*Card(nil), c.children...)
}

// HasChildren - есть ли у карточки отрисованные дети.
func (c *Card) HasChildren() bool { return len(c.children) > 0 }

// ChildrenElement - контейнер дочерних карточек (сюда же встраивается редактор ответа).
func (c *Card) ChildrenElement() *dom.Element { return c.childBox }

// Controls - текущее состояние кнопок.
func (c *Card) Controls() Controls {
	ctl := computeControls(c.rc, c.comment, c.HasChildren())
	if st, ok := ctl.Buttons[BtnCollapse]; ok {
		st.Active = c.collapsed
		ctl.Buttons[BtnCollapse] = st
	}

	return ctl
}

// Button - элемент видимой кнопки; ok == false, если кнопки нет.
func (c *Card) Button(b Button) (*dom.Element, bool) {
	el, ok := c.buttons[b]
	return el, ok && el.Valid()
}

// Update заменяет комментарий целиком и перерисовывает шапку, тело и панель.
// Поддерево детей и состояние свёртки сохраняются.
func (c *Card) Update(comment models.Comment) {
	c.comment = comment
	c.refresh()
}

// AddChild добавляет дочернюю карточку в конец списка детей.
func (c *Card) AddChild(comment models.Comment) *Card {
	ch := NewCard(c.rc, comment, c.level+1)
	c.children = append(c.children, ch)
	c.childBox.Append(ch.el)
	c.refreshToolbar()

	return ch
}

// SetCollapsed прячет или показывает детей, не удаляя их.
func (c *Card) SetCollapsed(collapsed bool) {
	c.collapsed = collapsed
	c.childBox.SetClass(classCollapsed, collapsed).ToggleAttr("hidden", collapsed)
	c.refreshToolbar()
}

// ToggleCollapse переключает свёртку детей.
func (c *Card) ToggleCollapse() { c.SetCollapsed(!c.collapsed) }

// Walk обходит карточку и её потомков в глубину; fn == false прекращает обход.
func (c *Card) Walk(fn func(*Card) bool) bool {
	if !fn(c) {
		return false
	}

	for _, ch := range c.children {
		if !ch.Walk(fn) {
			return false
		}
	}

	return true
}

func (c *Card) refresh() {
	cm := c.comment
	st := cm.Status()

	c.el.SetClass("comentario-card-sticky", cm.IsSticky && !cm.IsDeleted).
		SetClass("comentario-card-pending", st == models.StatusPending).
		SetClass("comentario-card-rejected", st == models.StatusRejected).
		SetClass("comentario-card-deleted", st == models.StatusDeleted)

	c.renderHeader()
	c.renderBody()
	c.refreshToolbar()
}

func (c *Card) renderHeader() {
	cm := c.comment
	c.header.Clear()

	commenter, known := c.rc.Commenters.Lookup(cm)
	c.header.Append(c.avatar(commenter, known))

	name := authorName(cm, commenter, known)
	if known && commenter.WebsiteURL != "" && !cm.IsDeleted {
		c.header.Append(dom.New("a", "comentario-name").
			SetAttr("href", commenter.WebsiteURL).
			SetAttr("rel", "nofollow noopener noreferrer").
			SetText(name))
	} else {
		c.header.Append(dom.New("span", "comentario-name").SetText(name))
	}

	if known && commenter.IsModerator {
		c.header.Append(dom.New("span", "comentario-badge", "comentario-badge-moderator").SetText("Moderator"))
	}

	if cm.Status() == models.StatusPending {
		c.header.Append(dom.New("span", "comentario-badge", "comentario-badge-pending").SetText("Pending"))
	}

	date := dom.New("time", "comentario-comment-date").
		SetAttr("datetime", cm.CreatedTime.UTC().Format(time.RFC3339)).
		SetText(c.relTime(cm.CreatedTime))
	if cm.EditedTime != nil {
		date.AppendText(", edited")
	}
	c.header.Append(date)
}

func (c *Card) avatar(cr models.Commenter, known bool) *dom.Element {
	if known && cr.HasAvatar && c.rc.Avatars != nil {
		if u := c.rc.Avatars.AvatarURL(cr); u != "" {
			return dom.New("img", "comentario-avatar").SetAttr("src", u).SetAttr("alt", "")
		}
	}

	el := dom.Div("comentario-avatar", "comentario-bg-colour-"+strconv.Itoa(cr.ColourIndex))
	if known && cr.Name != "" {
		el.SetText(strings.ToUpper(string([]rune(cr.Name)[:1])))
	}

	return el
}

func (c *Card) renderBody() {
	cm := c.comment

	switch {
	case cm.IsDeleted:
		if cm.HTML == "" || c.body.SetHTML(cm.HTML) != nil {
			c.body.SetText("(deleted)")
		}
	case cm.HTML != "":
		if err := c.body.SetHTML(cm.HTML); err != nil {
			c.body.SetText(cm.Markdown)
		}
	default:
		c.body.SetText(cm.Markdown)
	}

	switch cm.Status() {
	case models.StatusPending:
		c.body.Append(dom.Div("comentario-moderation-notice").SetText("This comment is awaiting moderator approval"))
	case models.StatusRejected:
		c.body.Append(dom.Div("comentario-moderation-notice").SetText("This comment has been flagged as spam"))
	}
}

func (c *Card) refreshToolbar() {
	cm := c.comment
	ctl := c.Controls()

	c.toolbar.Clear()
	c.buttons = make(map[Button]*dom.Element, len(Buttons))

	for _, b := range ctl.Visible() {
		st := ctl.Buttons[b]
		el := dom.Button(c.buttonTitle(b), "comentario-btn", "comentario-btn-"+string(b)).
			SetClass(classBtnActive, st.Active).
			ToggleAttr("disabled", st.Disabled)
		if b == BtnSticky || b == BtnUpvote || b == BtnDownvote {
			el.SetAttr("aria-pressed", strconv.FormatBool(st.Active))
		}
		if b == BtnCollapse {
			el.SetAttr("aria-expanded", strconv.FormatBool(!c.collapsed))
			if c.collapsed {
				el.SetText("+")
			} else {
				el.SetText("−")
			}
		}

		c.bind(b, el)
		c.buttons[b] = el
		c.toolbar.Append(el)

		// Счёт стоит между кнопками голосования.
		if b == BtnUpvote && ctl.Score {
			c.toolbar.Append(c.scoreElement())
		}
	}

	c.toolbar.ToggleAttr("hidden", cm.IsDeleted && len(c.buttons) == 0)
}

func (c *Card) scoreElement() *dom.Element {
	cm := c.comment
	return dom.New("span", "comentario-score").
		SetClass("comentario-upvoted", cm.Direction > 0).
		SetClass("comentario-downvoted", cm.Direction < 0).
		SetText(strconv.Itoa(cm.ScoreValue()))
}

// ScoreText - текст элемента счёта; ok == false, если счёт не выводится.
func (c *Card) ScoreText() (string, bool) {
	els := c.toolbar.FindByClass("comentario-score")
	if len(els) == 0 {
		return "", false
	}

	return els[0].Text(), true
}

func (c *Card) buttonTitle(b Button) string {
	switch b {
	case BtnUpvote:
		return "Upvote"
	case BtnDownvote:
		return "Downvote"
	case BtnReply:
		return "Reply"
	case BtnApprove:
		return "Approve"
	case BtnReject:
		return "Reject"
	case BtnSticky:
		if c.comment.IsSticky {
			return "Unsticky"
		}
		return "Sticky"
	case BtnEdit:
		return "Edit"
	case BtnDelete:
		return "Delete"
	case BtnCollapse:
		if c.collapsed {
			return "Expand children"
		}
		return "Collapse children"
	default:
		return string(b)
	}
}

// bind подписывает кнопку на действие.
func (c *Card) bind(b Button, el *dom.Element) {
	sink := c.rc.Sink

	switch b {
	case BtnUpvote, BtnDownvote:
		dir := int8(1)
		if b == BtnDownvote {
			dir = -1
		}
		el.On("click", func(ctx context.Context) {
			// Повторный клик по активному направлению отзывает голос.
			d := dir
			if c.comment.Direction == dir {
				d = 0
			}
			if sink != nil {
				sink.Vote(ctx, c, d)
			}
		})
	case BtnReply:
		el.On("click", func(ctx context.Context) {
			if sink != nil {
				sink.Reply(ctx, c)
			}
		})
	case BtnApprove, BtnReject:
		approve := b == BtnApprove
		el.On("click", func(ctx context.Context) {
			if sink != nil {
				sink.Moderate(ctx, c, approve)
			}
		})
	case BtnSticky:
		el.On("click", func(ctx context.Context) {
			if sink != nil {
				sink.Sticky(ctx, c)
			}
		})
	case BtnEdit:
		el.On("click", func(ctx context.Context) {
			if sink != nil {
				sink.Edit(ctx, c)
			}
		})
	case BtnDelete:
		el.On("click", func(ctx context.Context) {
			if c.rc.Dialogs != nil && !c.rc.Dialogs.Confirm(ctx, deleteConfirmation) {
				return
			}
			if sink != nil {
				sink.Delete(ctx, c)
			}
		})
	case BtnCollapse:
		el.On("click", func(context.Context) { c.ToggleCollapse() })
	}
}

func (c *Card) relTime(t time.Time) string {
	now := c.rc.Now
	if now.IsZero() {
		now = time.Now()
	}

	return humanize.RelTime(t, now, "ago", "from now")
}

// authorName - подпись автора: удалённый пользователь, аноним или имя.
func authorName(cm models.Comment, cr models.Commenter, known bool) string {
	switch {
	case known:
		return cr.Name
	case cm.UserCreated != nil && *cm.UserCreated != uuid.Nil:
		return "Deleted user"
	case cm.AuthorName != "":
		return cm.AuthorName
	default:
		return "Anonymous"
	}
}
