package widget

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/internal/api"
	"github.com/pribylovaa/go-comments-widget/internal/auth"
	"github.com/pribylovaa/go-comments-widget/internal/models"
	"github.com/pribylovaa/go-comments-widget/internal/tree"
)

// AddComment создаёт комментарий (parentID == nil - корневой) и дорисовывает его без перезагрузки.
// Анонимный зритель, не выбравший анонимный комментарий (или если домен его не разрешает),
// сначала проходит вход.
func (w *Widget) AddComment(ctx context.Context, parentID *uuid.UUID, markdown string, anonymous bool) (*models.Comment, error) {
	const op = "widget/mutations/AddComment"

	ctx, lg := w.logCtx(ctx, op)

	s := w.snapshot()
	switch {
	case s.pageInfo == nil:
		return nil, w.fail(ctx, op, ErrNotLoaded)
	case tree.ViewerReadonly(s.pageInfo, s.principal):
		return nil, w.fail(ctx, op, ErrReadonly)
	case strings.TrimSpace(markdown) == "":
		return nil, w.fail(ctx, op, ErrEmptyComment)
	}

	if s.principal == nil && (!anonymous || !s.pageInfo.AuthAnonymous) {
		if err := w.Login(ctx, auth.Method{}); err != nil {
			return nil, err
		}

		s = w.snapshot()
		if s.principal == nil {
			return nil, w.fail(ctx, op, api.ErrUnauthorized)
		}
	}

	resp, err := w.api.CommentNew(ctx, api.NewCommentRequest{
		Host:      w.opts.Host,
		Path:      w.opts.Path,
		ParentID:  parentID,
		Markdown:  markdown,
		Anonymous: s.principal == nil,
	})
	if err != nil {
		return nil, w.fail(ctx, op, err)
	}

	c := resp.Comment

	w.mu.Lock()
	defer w.mu.Unlock()

	if s.gen != w.gen {
		lg.Debug("patch_dropped", slog.String("comment_id", c.ID.String()), slog.String("reason", "reloaded"))
		return &c, nil
	}

	w.parentMap.Append(c)
	if resp.Commenter != nil {
		w.commenters.Merge(*resp.Commenter)
	}
	if w.renderedGen == w.gen {
		w.attachLocked(c)
		w.scrollLocked(c.ID)
	}

	lg.Info("comment_added",
		slog.String("comment_id", c.ID.String()),
		slog.Bool("pending", c.IsPending),
	)
	return &c, nil
}

// EditComment сохраняет новый текст. Ответ API не содержит голоса зрителя,
// поэтому Direction переносится из локальной копии.
func (w *Widget) EditComment(ctx context.Context, id uuid.UUID, markdown string) error {
	const op = "widget/mutations/EditComment"

	ctx, lg := w.logCtx(ctx, op)

	s := w.snapshot()
	if s.pageInfo == nil {
		return w.fail(ctx, op, ErrNotLoaded)
	}
	if strings.TrimSpace(markdown) == "" {
		return w.fail(ctx, op, ErrEmptyComment)
	}

	updated, err := w.api.CommentUpdate(ctx, id, markdown)
	if err != nil {
		return w.fail(ctx, op, err)
	}

	w.patch(ctx, s.gen, id, func(c *models.Comment) {
		dir := c.Direction
		*c = *updated
		c.Direction = dir
	})

	lg.Info("comment_edited", slog.String("comment_id", id.String()))
	return nil
}

// DeleteComment удаляет комментарий: он остаётся на месте заглушкой, дети не трогаются.
func (w *Widget) DeleteComment(ctx context.Context, id uuid.UUID) error {
	const op = "widget/mutations/DeleteComment"

	ctx, lg := w.logCtx(ctx, op)

	s := w.snapshot()
	if err := w.api.CommentDelete(ctx, id); err != nil {
		return w.fail(ctx, op, err)
	}

	w.patch(ctx, s.gen, id, func(c *models.Comment) {
		c.IsDeleted = true
		c.Markdown = ""
		c.HTML = ""
	})

	lg.Info("comment_deleted", slog.String("comment_id", id.String()))
	return nil
}

// ModerateComment одобряет или отклоняет ожидающий комментарий.
func (w *Widget) ModerateComment(ctx context.Context, id uuid.UUID, approve bool) error {
	const op = "widget/mutations/ModerateComment"

	ctx, lg := w.logCtx(ctx, op)

	s := w.snapshot()
	if err := w.api.CommentModerate(ctx, id, approve); err != nil {
		return w.fail(ctx, op, err)
	}

	w.patch(ctx, s.gen, id, func(c *models.Comment) {
		c.IsPending = false
		c.IsApproved = approve
	})

	lg.Info("comment_moderated", slog.String("comment_id", id.String()), slog.Bool("approve", approve))
	return nil
}

// ToggleSticky закрепляет или открепляет корневой комментарий. Закрепление меняет
// порядок всех соседей, поэтому дерево перерисовывается целиком; вновь
// закреплённый комментарий прокручивается в видимую область.
func (w *Widget) ToggleSticky(ctx context.Context, id uuid.UUID) error {
	const op = "widget/mutations/ToggleSticky"

	ctx, lg := w.logCtx(ctx, op)

	s := w.snapshot()
	cur, ok := w.Comment(id)
	if !ok {
		return w.fail(ctx, op, ErrNotFound)
	}

	sticky := !cur.IsSticky
	if err := w.api.CommentSticky(ctx, id, sticky); err != nil {
		return w.fail(ctx, op, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if s.gen != w.gen {
		lg.Debug("patch_dropped", slog.String("comment_id", id.String()), slog.String("reason", "reloaded"))
		return nil
	}

	if _, ok := w.parentMap.Patch(cur.ParentKey(), id, func(c *models.Comment) { c.IsSticky = sticky }); !ok {
		return nil
	}

	w.renderLocked()
	if sticky {
		w.scrollLocked(id)
	}

	lg.Info("comment_sticky_toggled", slog.String("comment_id", id.String()), slog.Bool("sticky", sticky))
	return nil
}

// Vote голосует за комментарий (direction -1/0/1).
//
// Анонимный зритель сначала входит; вход перезагружает дерево, поэтому комментарий
// ищется заново по id и голос отправляется один раз, если комментарий ещё есть и
// написан не самим зрителем.
func (w *Widget) Vote(ctx context.Context, id uuid.UUID, direction int8) error {
	const op = "widget/mutations/Vote"

	ctx, lg := w.logCtx(ctx, op)

	s := w.snapshot()
	switch {
	case s.pageInfo == nil:
		return w.fail(ctx, op, ErrNotLoaded)
	case !s.pageInfo.EnableCommentVoting:
		return w.fail(ctx, op, ErrVotingDisabled)
	}

	if s.principal == nil {
		if err := w.Login(ctx, auth.Method{}); err != nil {
			return err
		}

		s = w.snapshot()
		if s.principal == nil {
			return w.fail(ctx, op, api.ErrUnauthorized)
		}

		cur, ok := w.Comment(id)
		if !ok || cur.IsAuthoredBy(s.principal.ID) {
			lg.Info("vote_abandoned", slog.String("comment_id", id.String()), slog.Bool("found", ok))
			return nil
		}
	}

	score, err := w.api.CommentVote(ctx, id, direction)
	if err != nil {
		return w.fail(ctx, op, err)
	}

	w.patch(ctx, s.gen, id, func(c *models.Comment) {
		c.Score = &score
		c.Direction = direction
	})

	lg.Debug("comment_voted", slog.String("comment_id", id.String()), slog.Int("direction", int(direction)))
	return nil
}

// TogglePageLock закрывает или открывает страницу для новых комментариев.
// Набор доступных действий меняется везде, поэтому следует полная перезагрузка.
func (w *Widget) TogglePageLock(ctx context.Context) error {
	const op = "widget/mutations/TogglePageLock"

	ctx, lg := w.logCtx(ctx, op)

	s := w.snapshot()
	switch {
	case s.pageInfo == nil:
		return w.fail(ctx, op, ErrNotLoaded)
	case !s.principal.CanModerate():
		return w.fail(ctx, op, api.ErrForbidden)
	}

	readonly := !s.pageInfo.IsPageReadonly
	if err := w.api.PageUpdate(ctx, s.pageInfo.PageID, readonly); err != nil {
		return w.fail(ctx, op, err)
	}

	lg.Info("page_lock_toggled", slog.Bool("readonly", readonly))
	return w.Reload(ctx)
}

// Login входит выбранным способом (нулевой Method - автовыбор), перечитывает
// зрителя и перезагружает страницу.
func (w *Widget) Login(ctx context.Context, method auth.Method) error {
	const op = "widget/mutations/Login"

	ctx, _ = w.logCtx(ctx, op)

	s := w.snapshot()
	if s.pageInfo == nil {
		return w.fail(ctx, op, ErrNotLoaded)
	}

	if err := w.auth.Login(ctx, s.pageInfo, method); err != nil {
		return w.fail(ctx, op, err)
	}

	return w.afterAuthChange(ctx)
}

// Logout завершает сессию и перезагружает страницу анонимно.
func (w *Widget) Logout(ctx context.Context) error {
	const op = "widget/mutations/Logout"

	ctx, _ = w.logCtx(ctx, op)

	if err := w.auth.Logout(ctx); err != nil {
		return w.fail(ctx, op, err)
	}

	return w.afterAuthChange(ctx)
}

// Signup регистрирует комментатора. Если нужно подтверждение email, показывает
// подсказку и остаётся анонимом.
func (w *Widget) Signup(ctx context.Context, req api.SignupRequest) error {
	const op = "widget/mutations/Signup"

	ctx, _ = w.logCtx(ctx, op)

	if err := w.auth.Signup(ctx, req); err != nil {
		if errors.Is(err, auth.ErrNotConfirmed) {
			w.show(Message{Kind: MessageInfo, Text: "Check your email to confirm the registration."})
			return nil
		}
		return w.fail(ctx, op, err)
	}

	return w.afterAuthChange(ctx)
}

// SaveSettings сохраняет настройки уведомлений зрителя.
func (w *Widget) SaveSettings(ctx context.Context, s api.Settings) error {
	const op = "widget/mutations/SaveSettings"

	ctx, _ = w.logCtx(ctx, op)

	if w.snapshot().principal == nil {
		return w.fail(ctx, op, api.ErrUnauthorized)
	}

	if err := w.api.UpdateSettings(ctx, s); err != nil {
		return w.fail(ctx, op, err)
	}

	w.show(Message{Kind: MessageSuccess, Text: "Settings saved."})
	return w.afterAuthChange(ctx)
}

func (w *Widget) afterAuthChange(ctx context.Context) error {
	w.refreshPrincipal(ctx)
	return w.Reload(ctx)
}
