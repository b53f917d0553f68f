package tree

import "github.com/pribylovaa/go-comments-widget/internal/models"

// Button - кнопка панели карточки.
type Button string

const (
	BtnUpvote   Button = "upvote"
	BtnDownvote Button = "downvote"
	BtnReply    Button = "reply"
	BtnApprove  Button = "approve"
	BtnReject   Button = "reject"
	BtnSticky   Button = "sticky"
	BtnEdit     Button = "edit"
	BtnDelete   Button = "delete"
	BtnCollapse Button = "collapse"
)

// Buttons - порядок кнопок на панели.
var Buttons = []Button{BtnUpvote, BtnDownvote, BtnReply, BtnApprove, BtnReject, BtnSticky, BtnEdit, BtnDelete, BtnCollapse}

// ButtonState - видимость и состояние одной кнопки.
type ButtonState struct {
	Visible  bool
	Disabled bool
	Active   bool
}

// Controls - набор элементов управления карточки для текущего зрителя.
type Controls struct {
	Buttons map[Button]ButtonState
	// Score - выводится ли счёт.
	Score bool
	// Pending/Rejected - бейдж и уведомление модерации.
	Pending  bool
	Rejected bool
}

// Visible - видимые кнопки в порядке панели.
func (c Controls) Visible() []Button {
	var out []Button
	for _, b := range Buttons {
		if c.Buttons[b].Visible {
			out = append(out, b)
		}
	}

	return out
}

// computeControls - правила видимости кнопок.
func computeControls(rc *RenderingContext, c models.Comment, hasChildren bool) Controls {
	out := Controls{Buttons: make(map[Button]ButtonState, len(Buttons))}

	// Удалённый комментарий - только заглушка: ни счёта, ни действий. Дети остаются,
	// поэтому свёртка доступна.
	if c.IsDeleted {
		if hasChildren {
			out.Buttons[BtnCollapse] = ButtonState{Visible: true}
		}
		return out
	}

	p := rc.Principal
	mod := p.CanModerate()
	own := c.IsAuthoredBy(p.UserID())
	// Пользователь домена "только чтение" не правит и свои комментарии.
	author := own && !p.IsReadonlyOn()

	out.Pending = c.Status() == models.StatusPending
	out.Rejected = c.Status() == models.StatusRejected

	if rc.Voting {
		out.Score = true
		out.Buttons[BtnUpvote] = ButtonState{Visible: true, Disabled: own, Active: c.Direction > 0}
		out.Buttons[BtnDownvote] = ButtonState{Visible: true, Disabled: own, Active: c.Direction < 0}
	}

	if !rc.Readonly {
		out.Buttons[BtnReply] = ButtonState{Visible: true}
	}

	if mod && c.IsPending {
		out.Buttons[BtnApprove] = ButtonState{Visible: true}
		out.Buttons[BtnReject] = ButtonState{Visible: true}
	}

	if c.IsRoot() && (c.IsSticky || mod) {
		out.Buttons[BtnSticky] = ButtonState{Visible: true, Disabled: !mod, Active: c.IsSticky}
	}

	if (mod && rc.Perms.EditModerator) || (author && rc.Perms.EditAuthor) {
		out.Buttons[BtnEdit] = ButtonState{Visible: true}
	}

	if (mod && rc.Perms.DeleteModerator) || (author && rc.Perms.DeleteAuthor) {
		out.Buttons[BtnDelete] = ButtonState{Visible: true}
	}

	if hasChildren {
		out.Buttons[BtnCollapse] = ButtonState{Visible: true}
	}

	return out
}
