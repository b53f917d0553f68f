package fakeapi

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/internal/api"
	apierrors "github.com/pribylovaa/go-comments-widget/internal/errors"
	"github.com/pribylovaa/go-comments-widget/internal/models"
	"github.com/pribylovaa/go-comments-widget/pkg/log"
)

const (
	deletedByModerator = "(Deleted by moderator)"
	deletedByAuthor    = "(Deleted by author)"
)

func (s *Server) config(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	d := s.domain
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.ClientConfig{
		BaseURL:       s.opts.BaseURL,
		SignupAllowed: d.AuthLocal,
		FederatedIdPs: d.IdPs,
	})
}

func (s *Server) commentList(w http.ResponseWriter, r *http.Request) {
	var in api.PageRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, fmt.Errorf("decode: %w", apierrors.ErrInvalidArgument))
		return
	}

	u := s.viewer(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkHostLocked(in.Host); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	p := s.pageLocked(in.Path)
	out := api.CommentListResponse{
		PageInfo:   s.pageInfoLocked(p),
		Comments:   []models.Comment{},
		Commenters: []models.Commenter{},
	}

	seen := make(map[uuid.UUID]bool)
	for _, id := range s.order {
		c := s.comments[id]
		if c.Path != p.path || !s.visibleLocked(c, u) {
			continue
		}

		out.Comments = append(out.Comments, s.viewLocked(c, u))

		if c.UserCreated != nil && !seen[*c.UserCreated] {
			seen[*c.UserCreated] = true
			if author, ok := s.users[*c.UserCreated]; ok {
				out.Commenters = append(out.Commenters, s.commenterLocked(author))
			}
		}
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) commentNew(w http.ResponseWriter, r *http.Request) {
	var in api.NewCommentRequest
	if err := decodeStrict(r, &in); err != nil || strings.TrimSpace(in.Markdown) == "" {
		apierrors.WriteError(w, r, fmt.Errorf("new comment: %w", apierrors.ErrInvalidArgument))
		return
	}

	u := s.viewer(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkHostLocked(in.Host); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	p := s.pageLocked(in.Path)
	switch {
	case s.domain.Readonly || p.readonly:
		apierrors.WriteError(w, r, fmt.Errorf("page is readonly: %w", apierrors.ErrForbidden))
		return
	case u == nil && (!in.Anonymous || !s.domain.AuthAnonymous):
		apierrors.WriteError(w, r, fmt.Errorf("login required: %w", apierrors.ErrUnauthorized))
		return
	case u != nil && u.Role == RoleReadonly:
		apierrors.WriteError(w, r, fmt.Errorf("user is readonly: %w", apierrors.ErrForbidden))
		return
	}

	if in.ParentID != nil {
		parent, ok := s.comments[*in.ParentID]
		if !ok || parent.Path != p.path {
			apierrors.WriteError(w, r, fmt.Errorf("parent: %w", apierrors.ErrNotFound))
			return
		}
	}

	c := &models.Comment{
		ID:          uuid.New(),
		ParentID:    in.ParentID,
		PageID:      p.id,
		Path:        p.path,
		Markdown:    in.Markdown,
		HTML:        renderMarkdown(in.Markdown),
		IsApproved:  true,
		CreatedTime: s.now().UTC(),
	}

	var commenter *models.Commenter
	if u != nil {
		c.UserCreated = models.UUIDPtr(u.ID)
		if u.Role == RoleNone && !u.Superuser {
			u.Role = RoleCommenter
		}
		cr := s.commenterLocked(u)
		commenter = &cr
	} else if s.domain.ModerateAnonymous {
		c.IsPending = true
		c.IsApproved = false
	}

	s.comments[c.ID] = c
	s.order = append(s.order, c.ID)

	log.From(r.Context()).Info("comment_created",
		slog.String("comment_id", c.ID.String()),
		slog.Bool("anonymous", u == nil),
		slog.Bool("pending", c.IsPending),
	)

	writeJSON(w, http.StatusOK, api.CommentResponse{Comment: s.viewLocked(c, u), Commenter: commenter})
}

func (s *Server) commentUpdate(w http.ResponseWriter, r *http.Request) {
	var in api.UpdateCommentRequest
	if err := decodeStrict(r, &in); err != nil || strings.TrimSpace(in.Markdown) == "" {
		apierrors.WriteError(w, r, fmt.Errorf("update comment: %w", apierrors.ErrInvalidArgument))
		return
	}

	u := s.viewer(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.targetLocked(r, u)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	own := c.IsAuthoredBy(u.ID)
	if c.IsDeleted || !((own && s.domain.EditAuthor) || (s.canModerate(u) && s.domain.EditModerator)) {
		apierrors.WriteError(w, r, fmt.Errorf("edit: %w", apierrors.ErrForbidden))
		return
	}

	edited := s.now().UTC()
	c.Markdown = in.Markdown
	c.HTML = renderMarkdown(in.Markdown)
	c.EditedTime = &edited

	writeJSON(w, http.StatusOK, api.UpdateCommentResponse{Comment: s.viewLocked(c, u)})
}

func (s *Server) commentDelete(w http.ResponseWriter, r *http.Request) {
	u := s.viewer(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.targetLocked(r, u)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	own := c.IsAuthoredBy(u.ID)
	byModerator := s.canModerate(u) && s.domain.DeleteModerator
	if !((own && s.domain.DeleteAuthor) || byModerator) {
		apierrors.WriteError(w, r, fmt.Errorf("delete: %w", apierrors.ErrForbidden))
		return
	}

	if !c.IsDeleted {
		c.IsDeleted = true
		c.IsSticky = false
		c.Markdown = ""
		c.HTML = deletedByAuthor
		if !own {
			c.HTML = deletedByModerator
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) commentModerate(w http.ResponseWriter, r *http.Request) {
	var in api.ModerateRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, fmt.Errorf("moderate: %w", apierrors.ErrInvalidArgument))
		return
	}

	u := s.viewer(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.targetLocked(r, u)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if !s.canModerate(u) {
		apierrors.WriteError(w, r, fmt.Errorf("moderate: %w", apierrors.ErrForbidden))
		return
	}

	c.IsPending = false
	c.IsApproved = in.Approve

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) commentVote(w http.ResponseWriter, r *http.Request) {
	var in api.VoteRequest
	if err := decodeStrict(r, &in); err != nil || in.Direction < -1 || in.Direction > 1 {
		apierrors.WriteError(w, r, fmt.Errorf("vote: %w", apierrors.ErrInvalidArgument))
		return
	}

	u := s.viewer(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.targetLocked(r, u)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	switch {
	case !s.domain.Voting:
		apierrors.WriteError(w, r, fmt.Errorf("voting disabled: %w", apierrors.ErrForbidden))
		return
	case c.IsAuthoredBy(u.ID):
		apierrors.WriteError(w, r, fmt.Errorf("own comment: %w", apierrors.ErrForbidden))
		return
	case c.IsDeleted:
		apierrors.WriteError(w, r, fmt.Errorf("deleted comment: %w", apierrors.ErrInvalidArgument))
		return
	}

	s.voteLocked(c.ID, u.ID, in.Direction)
	writeJSON(w, http.StatusOK, api.VoteResponse{Score: s.scoreLocked(c.ID)})
}

func (s *Server) commentSticky(w http.ResponseWriter, r *http.Request) {
	var in api.StickyRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, fmt.Errorf("sticky: %w", apierrors.ErrInvalidArgument))
		return
	}

	u := s.viewer(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.targetLocked(r, u)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	switch {
	case !s.canModerate(u):
		apierrors.WriteError(w, r, fmt.Errorf("sticky: %w", apierrors.ErrForbidden))
		return
	case !c.IsRoot() || c.IsDeleted:
		apierrors.WriteError(w, r, fmt.Errorf("sticky: %w", apierrors.ErrInvalidArgument))
		return
	}

	c.IsSticky = in.Sticky
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) pageUpdate(w http.ResponseWriter, r *http.Request) {
	var in api.PageUpdateRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, fmt.Errorf("page: %w", apierrors.ErrInvalidArgument))
		return
	}

	u := s.viewer(r)
	if u == nil {
		apierrors.WriteError(w, r, fmt.Errorf("page: %w", apierrors.ErrUnauthorized))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.canModerate(u) {
		apierrors.WriteError(w, r, fmt.Errorf("page: %w", apierrors.ErrForbidden))
		return
	}

	for _, p := range s.pages {
		if p.id == in.PageID {
			p.readonly = in.Readonly
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	apierrors.WriteError(w, r, fmt.Errorf("page: %w", apierrors.ErrNotFound))
}

// targetLocked - комментарий из {id} маршрута для аутентифицированного зрителя.
func (s *Server) targetLocked(r *http.Request, u *user) (*models.Comment, error) {
	if u == nil {
		return nil, fmt.Errorf("login required: %w", apierrors.ErrUnauthorized)
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, fmt.Errorf("comment id: %w", apierrors.ErrInvalidArgument)
	}

	c, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, apierrors.ErrNotFound)
	}

	return c, nil
}

func (s *Server) checkHostLocked(host string) error {
	if host != "" && host != s.domain.Host {
		return fmt.Errorf("unknown domain %q: %w", host, apierrors.ErrNotFound)
	}

	return nil
}

// renderMarkdown - минимальное представление: экранированный текст по абзацам.
func renderMarkdown(md string) string {
	var b strings.Builder
	for _, para := range strings.Split(strings.TrimSpace(md), "\n\n") {
		if para = strings.TrimSpace(para); para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(para))
		b.WriteString("</p>")
	}

	return b.String()
}
