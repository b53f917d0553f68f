// Package fakeapi - бэкенд комментариев в памяти процесса, реализующий тот же
// HTTP/JSON контракт, что потребляет internal/api. Используется в тестах и в
// демо-режиме cmd/widget.
//
// Правила, которые воспроизводит сервер:
//   - модератор (суперпользователь, владелец или модератор домена) видит все
//     комментарии, остальные - одобренные, удалённые и свои;
//   - удалённый комментарий теряет текст, счёт и закрепление, HTML заменяется
//     заглушкой "(Deleted by moderator)" или "(Deleted by author)";
//   - при выключенном голосовании счёт отдаётся как null;
//   - анонимные комментарии ждут модерации, если так настроен домен.
package fakeapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-comments-widget/internal/api"
	"github.com/pribylovaa/go-comments-widget/internal/models"
)

// Role - роль пользователя в домене.
type Role string

const (
	RoleNone      Role = ""
	RoleCommenter Role = "commenter"
	RoleReadonly  Role = "readonly"
	RoleModerator Role = "moderator"
	RoleOwner     Role = "owner"
)

// User - пользователь для наполнения сервера.
type User struct {
	ID          uuid.UUID
	Email       string
	Name        string
	Password    string
	WebsiteURL  string
	ColourIndex int
	HasAvatar   bool
	Superuser   bool
	Role        Role
}

// Domain - настройки единственного домена сервера.
type Domain struct {
	ID                uuid.UUID
	Host              string
	Name              string
	AuthAnonymous     bool
	AuthLocal         bool
	AuthSSO           bool
	SSOURL            string
	SSONonInteractive bool
	IdPs              []models.FederatedIdP
	DefaultSort       models.SortPolicy
	Readonly          bool
	Voting            bool
	EditAuthor        bool
	EditModerator     bool
	DeleteAuthor      bool
	DeleteModerator   bool
	// ModerateAnonymous - анонимные комментарии создаются ожидающими модерации.
	ModerateAnonymous bool
	// ConfirmSignup - после регистрации нужен подтверждённый email, вход до этого запрещён.
	ConfirmSignup bool
}

// Options - параметры сервера.
type Options struct {
	Domain  Domain
	BaseURL string
	// Secret - ключ подписи сессионных JWT.
	Secret  string
	Logger  *slog.Logger
	Timeout time.Duration
	Now     func() time.Time
}

type user struct {
	User
	hash      []byte
	confirmed bool
	settings  api.Settings
}

type page struct {
	id       uuid.UUID
	path     string
	readonly bool
}

// Server - бэкенд в памяти. Безопасен для конкурентного использования.
type Server struct {
	opts Options
	now  func() time.Time

	mu          sync.Mutex
	domain      Domain
	pages       map[string]*page
	comments    map[uuid.UUID]*models.Comment
	order       []uuid.UUID
	votes       map[uuid.UUID]map[uuid.UUID]int8
	users       map[uuid.UUID]*user
	byEmail     map[string]uuid.UUID
	revoked     map[string]struct{}
	loginTokens map[string]uuid.UUID
	federated   uuid.UUID

	handler http.Handler
}

var (
	errBadCredentials = errors.New("invalid credentials")
	errInvalidSession = errors.New("invalid session")
)

// New создаёт сервер с пустым хранилищем.
func New(opts Options) *Server {
	if opts.Secret == "" {
		opts.Secret = uuid.NewString()
	}
	if opts.Domain.ID == uuid.Nil {
		opts.Domain.ID = uuid.New()
	}
	if opts.Domain.Host == "" {
		opts.Domain.Host = "localhost"
	}
	if !opts.Domain.DefaultSort.Valid() {
		opts.Domain.DefaultSort = models.DefaultSort
	}

	s := &Server{
		opts:        opts,
		now:         opts.Now,
		domain:      opts.Domain,
		pages:       make(map[string]*page),
		comments:    make(map[uuid.UUID]*models.Comment),
		votes:       make(map[uuid.UUID]map[uuid.UUID]int8),
		users:       make(map[uuid.UUID]*user),
		byEmail:     make(map[string]uuid.UUID),
		revoked:     make(map[string]struct{}),
		loginTokens: make(map[string]uuid.UUID),
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.handler = s.routes()
	return s
}

// Handler - HTTP-обработчик сервера (пути /api/embed/... и /api/oauth/...).
func (s *Server) Handler() http.Handler { return s.handler }

// AddUser заводит пользователя; пароль хэшируется bcrypt. Возвращает его id.
func (s *Server) AddUser(u User) (uuid.UUID, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	rec := &user{User: u, confirmed: true}
	if u.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
		if err != nil {
			return uuid.Nil, err
		}
		rec.hash = hash
	}
	rec.Password = ""

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = rec
	s.byEmail[strings.ToLower(u.Email)] = u.ID
	return u.ID, nil
}

// SetFederatedUser - пользователь, которого "возвращает" провайдер OAuth/SSO.
func (s *Server) SetFederatedUser(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.federated = id
}

// AddComment кладёт комментарий как есть, заполняя пустые id, страницу и время создания.
func (s *Server) AddComment(c models.Comment) models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Path == "" {
		c.Path = "/"
	}
	if c.CreatedTime.IsZero() {
		c.CreatedTime = s.now().UTC()
	}
	c.PageID = s.pageLocked(c.Path).id
	c.Score = nil
	c.Direction = 0

	s.comments[c.ID] = &c
	s.order = append(s.order, c.ID)
	return c
}

// SetVote записывает голос пользователя.
func (s *Server) SetVote(commentID, userID uuid.UUID, direction int8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.voteLocked(commentID, userID, direction)
}

// Comment - сохранённый комментарий с итоговым счётом, без голоса зрителя.
func (s *Server) Comment(id uuid.UUID) (models.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return models.Comment{}, false
	}

	return s.viewLocked(c, nil), true
}

// PageID - id страницы path (страница создаётся при первом обращении).
func (s *Server) PageID(path string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pageLocked(path).id
}

// Session выпускает сессию пользователя в обход входа.
func (s *Server) Session(userID uuid.UUID) (string, error) {
	return s.issueSession(userID)
}

func (s *Server) pageLocked(path string) *page {
	if path == "" {
		path = "/"
	}

	p, ok := s.pages[path]
	if !ok {
		p = &page{id: uuid.New(), path: path}
		s.pages[path] = p
	}

	return p
}

func (s *Server) voteLocked(commentID, userID uuid.UUID, direction int8) {
	byUser, ok := s.votes[commentID]
	if !ok {
		byUser = make(map[uuid.UUID]int8)
		s.votes[commentID] = byUser
	}

	if direction == 0 {
		delete(byUser, userID)
		return
	}
	byUser[userID] = direction
}

func (s *Server) scoreLocked(commentID uuid.UUID) int {
	score := 0
	for _, d := range s.votes[commentID] {
		score += int(d)
	}

	return score
}

// viewLocked - комментарий глазами зрителя u (nil - аноним).
func (s *Server) viewLocked(c *models.Comment, u *user) models.Comment {
	out := *c
	out.Direction = 0
	out.Score = nil

	if s.domain.Voting && !c.IsDeleted {
		out.Score = models.IntPtr(s.scoreLocked(c.ID))
	}
	if u != nil {
		out.Direction = s.votes[c.ID][u.ID]
	}

	return out
}

// visibleLocked - видит ли зритель комментарий в списке.
func (s *Server) visibleLocked(c *models.Comment, u *user) bool {
	switch {
	case c.IsDeleted || c.Status() == models.StatusApproved:
		return true
	case s.canModerate(u):
		return true
	default:
		return u != nil && c.IsAuthoredBy(u.ID)
	}
}

func (s *Server) canModerate(u *user) bool {
	return u != nil && (u.Superuser || u.Role == RoleOwner || u.Role == RoleModerator)
}

func (s *Server) principalLocked(u *user) *models.Principal {
	p := &models.Principal{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		WebsiteURL:  u.WebsiteURL,
		ColourIndex: u.ColourIndex,
		HasAvatar:   u.HasAvatar,
		IsSuperuser: u.Superuser,
	}

	if u.Role != RoleNone {
		p.DomainUser = &models.DomainUser{
			IsOwner:     u.Role == RoleOwner,
			IsModerator: u.Role == RoleModerator,
			IsCommenter: u.Role == RoleCommenter || u.Role == RoleReadonly,
			IsReadonly:  u.Role == RoleReadonly,
		}
	}

	return p
}

func (s *Server) commenterLocked(u *user) models.Commenter {
	return models.Commenter{
		ID:          u.ID,
		Name:        u.Name,
		WebsiteURL:  u.WebsiteURL,
		ColourIndex: u.ColourIndex,
		IsModerator: s.canModerate(u),
		HasAvatar:   u.HasAvatar,
	}
}

func (s *Server) pageInfoLocked(p *page) models.PageInfo {
	d := s.domain
	return models.PageInfo{
		DomainID:                 d.ID,
		DomainName:               d.Name,
		PageID:                   p.id,
		AuthAnonymous:            d.AuthAnonymous,
		AuthLocal:                d.AuthLocal,
		AuthSSO:                  d.AuthSSO,
		SSOURL:                   d.SSOURL,
		SSONonInteractive:        d.SSONonInteractive,
		IdPs:                     d.IdPs,
		DefaultSort:              d.DefaultSort,
		IsDomainReadonly:         d.Readonly,
		IsPageReadonly:           p.readonly,
		EnableCommentVoting:      d.Voting,
		CommentEditingAuthor:     d.EditAuthor,
		CommentEditingModerator:  d.EditModerator,
		CommentDeletionAuthor:    d.DeleteAuthor,
		CommentDeletionModerator: d.DeleteModerator,
	}
}
