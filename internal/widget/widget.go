// Package widget - оркестратор виджета комментариев.
//
// Widget единолично владеет картой комментариев по родителям, авторами, зрителем и
// настройками страницы. Все изменения этого состояния идут под одним мьютексом и
// завершаются целиком до его освобождения; сетевые вызовы мьютекс не держат.
// Полная перезагрузка увеличивает поколение хранилища, и локальный патч операции,
// начатой в старом поколении, отбрасывается: перезагрузка всегда побеждает.
package widget

//go:generate mockgen -destination=../mocks/mock_widget.go -package=mocks github.com/pribylovaa/go-comments-widget/internal/widget Backend,Authenticator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/internal/api"
	"github.com/pribylovaa/go-comments-widget/internal/auth"
	"github.com/pribylovaa/go-comments-widget/internal/dom"
	"github.com/pribylovaa/go-comments-widget/internal/models"
	"github.com/pribylovaa/go-comments-widget/internal/tree"
	"github.com/pribylovaa/go-comments-widget/pkg/log"
)

var (
	ErrAlreadyInitialized = errors.New("widget already initialized")
	ErrNotLoaded          = errors.New("comments are not loaded")
	ErrNotFound           = errors.New("comment not found")
	ErrReadonly           = errors.New("page is readonly")
	ErrVotingDisabled     = errors.New("voting is disabled")
	ErrEmptyComment       = errors.New("comment text is empty")
	ErrEditorClosed       = errors.New("editor is closed")
)

// Backend - вызовы API, которые делает оркестратор.
type Backend interface {
	Config(ctx context.Context) (*models.ClientConfig, error)
	CommentList(ctx context.Context, host, path string) (*api.CommentListResponse, error)
	CommentNew(ctx context.Context, req api.NewCommentRequest) (*api.CommentResponse, error)
	CommentUpdate(ctx context.Context, id uuid.UUID, markdown string) (*models.Comment, error)
	CommentDelete(ctx context.Context, id uuid.UUID) error
	CommentModerate(ctx context.Context, id uuid.UUID, approve bool) error
	CommentVote(ctx context.Context, id uuid.UUID, direction int8) (int, error)
	CommentSticky(ctx context.Context, id uuid.UUID, sticky bool) error
	PageUpdate(ctx context.Context, pageID uuid.UUID, readonly bool) error
	Principal(ctx context.Context, host string) (*models.Principal, error)
	UpdateSettings(ctx context.Context, s api.Settings) error
}

// Authenticator - сценарии входа и выхода. Реализация - auth.Manager.
type Authenticator interface {
	Login(ctx context.Context, pi *models.PageInfo, method auth.Method) error
	Logout(ctx context.Context) error
	Signup(ctx context.Context, req api.SignupRequest) error
}

// Options - параметры встраивания.
type Options struct {
	Host string
	Path string
	// MaxLevel - уровень вложенности, с которого ответы выводятся без отступа.
	MaxLevel int
	// AutoSSO - пробовать неинтерактивный SSO сразу после загрузки.
	AutoSSO bool

	Logger  *slog.Logger
	Dialogs tree.Dialogs
	Avatars tree.Avatars
	Now     func() time.Time
}

// Widget - один экземпляр виджета на странице.
type Widget struct {
	api    Backend
	auth   Authenticator
	opts   Options
	logger *slog.Logger
	now    func() time.Time

	initialized atomic.Bool

	mu          sync.Mutex
	gen         uint64
	renderedGen uint64
	config      *models.ClientConfig
	pageInfo    *models.PageInfo
	principal   *models.Principal
	parentMap   models.CommentsGroupedByID
	commenters  models.Commenters
	sort        models.SortPolicy
	userSort    models.SortPolicy
	rc          *tree.RenderingContext
	cards       []*tree.Card
	index       map[uuid.UUID]*tree.Card
	editor      *Editor
	message     *Message
	scrolled    uuid.UUID

	root       *dom.Element
	profileBar *dom.Element
	main       *dom.Element
	addHost    *dom.Element
	comments   *dom.Element
	empty      *dom.Element
	msgBox     *dom.Element
	footer     *dom.Element
}

// New создаёт виджет. Сеть не трогается до Init.
func New(b Backend, a Authenticator, opts Options) *Widget {
	w := &Widget{
		api:        b,
		auth:       a,
		opts:       opts,
		logger:     opts.Logger,
		now:        opts.Now,
		parentMap:  make(models.CommentsGroupedByID),
		commenters: make(models.Commenters),
		sort:       models.DefaultSort,
		index:      make(map[uuid.UUID]*tree.Card),
		root:       dom.Div("comentario-root"),
	}

	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.now == nil {
		w.now = time.Now
	}

	return w
}

// Init - однократная инициализация: конфигурация, каркас, зритель, загрузка и отрисовка.
// Повторный вызов возвращает ErrAlreadyInitialized.
func (w *Widget) Init(ctx context.Context) error {
	const op = "widget/widget/Init"

	if !w.initialized.CompareAndSwap(false, true) {
		return fmt.Errorf("%s: %w", op, ErrAlreadyInitialized)
	}

	ctx, lg := w.logCtx(ctx, op)

	cfg, err := w.api.Config(ctx)
	if err != nil {
		return w.fail(ctx, op, err)
	}

	w.mu.Lock()
	w.config = cfg
	w.buildChromeLocked()
	w.mu.Unlock()

	w.refreshPrincipal(ctx)

	if err := w.Reload(ctx); err != nil {
		w.Render()
		return err
	}

	if w.opts.AutoSSO {
		w.autoSSO(ctx)
	}

	lg.Info("widget_initialized",
		slog.String("host", w.opts.Host),
		slog.String("path", w.opts.Path),
	)
	return nil
}

// autoSSO - тихий вход через SSO для анонимного зрителя, если домен это поддерживает.
// Неудача не показывается пользователю.
func (w *Widget) autoSSO(ctx context.Context) {
	s := w.snapshot()
	if s.principal != nil || s.pageInfo == nil || !s.pageInfo.AuthSSO || !s.pageInfo.SSONonInteractive {
		return
	}

	if err := w.auth.Login(ctx, s.pageInfo, auth.Method{Kind: auth.KindSSO}); err != nil {
		log.From(ctx).Info("auto_sso_skipped", slog.String("reason", err.Error()))
		return
	}

	w.refreshPrincipal(ctx)
	_ = w.Reload(ctx)
}

// Load перечитывает данные страницы. При ошибке настройки страницы сбрасываются
// (вход становится недоступен), карта комментариев остаётся прежней.
// Порядок сортировки берётся из настроек страницы, выбор зрителя забывается.
func (w *Widget) Load(ctx context.Context) error {
	return w.load(ctx, false)
}

// load - Load; keepSort == true оставляет порядок, выбранный зрителем через SetSort.
func (w *Widget) load(ctx context.Context, keepSort bool) error {
	const op = "widget/widget/Load"

	ctx, lg := w.logCtx(ctx, op)

	resp, err := w.api.CommentList(ctx, w.opts.Host, w.opts.Path)
	if err != nil {
		w.mu.Lock()
		w.pageInfo = nil
		w.mu.Unlock()
		return w.fail(ctx, op, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	pi := resp.PageInfo
	w.gen++
	w.pageInfo = &pi
	w.parentMap = models.GroupByParent(resp.Comments)
	w.commenters.Merge(resp.Commenters...)

	if !keepSort {
		w.userSort = ""
	}

	switch {
	case w.userSort.Valid():
		w.sort = w.userSort
	case pi.DefaultSort.Valid():
		w.sort = pi.DefaultSort
	default:
		w.sort = models.DefaultSort
	}

	lg.Debug("page_loaded",
		slog.Int("comments", w.parentMap.Len()),
		slog.Uint64("gen", w.gen),
	)
	return nil
}

// Render перестраивает основную область и дерево комментариев из текущего состояния.
func (w *Widget) Render() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.renderLocked()
}

// Reload = Load + Render. При ошибке загрузки отрисовка не выполняется.
func (w *Widget) Reload(ctx context.Context) error {
	if err := w.Load(ctx); err != nil {
		return err
	}

	w.Render()
	return nil
}

// SetSort меняет порядок соседних комментариев и перерисовывает дерево без запроса к API.
// Выбор переживает фоновые обновления Watch, но не явную перезагрузку.
func (w *Widget) SetSort(p models.SortPolicy) error {
	if !p.Valid() {
		return fmt.Errorf("widget/widget/SetSort: unknown sort policy %q", p)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.sort = p
	w.userSort = p
	w.renderLocked()
	return nil
}

// Element - корневой элемент виджета.
func (w *Widget) Element() *dom.Element { return w.root }

// HTML - текущая разметка виджета.
func (w *Widget) HTML() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.root.String()
}

// Sort - текущая политика сортировки.
func (w *Widget) Sort() models.SortPolicy {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.sort
}

// Principal - копия текущего зрителя; nil - аноним.
func (w *Widget) Principal() *models.Principal {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.principal == nil {
		return nil
	}

	p := *w.principal
	return &p
}

// PageInfo - копия настроек страницы; nil - страница не загружена.
func (w *Widget) PageInfo() *models.PageInfo {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pageInfo == nil {
		return nil
	}

	pi := *w.pageInfo
	return &pi
}

// Comment - комментарий из локального хранилища.
func (w *Widget) Comment(id uuid.UUID) (models.Comment, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.parentMap.Find(id)
}

// Children - прямые дети parent (models.RootKey - корни) в порядке хранилища.
func (w *Widget) Children(parent uuid.UUID) []models.Comment {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]models.Comment(nil), w.parentMap.Children(parent)...)
}

// Cards - корневые карточки последней отрисовки.
func (w *Widget) Cards() []*tree.Card {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]*tree.Card(nil), w.cards...)
}

// Card - отрисованная карточка комментария.
func (w *Widget) Card(id uuid.UUID) (*tree.Card, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.index[id]
	return c, ok && c.Element().Valid()
}

// snapshot - то, что операция запоминает до сетевого вызова.
type snapshot struct {
	gen       uint64
	pageInfo  *models.PageInfo
	principal *models.Principal
}

func (w *Widget) snapshot() snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	return snapshot{gen: w.gen, pageInfo: w.pageInfo, principal: w.principal}
}

// refreshPrincipal перечитывает зрителя. Любая ошибка понижает его до анонима.
func (w *Widget) refreshPrincipal(ctx context.Context) {
	p, err := w.api.Principal(ctx, w.opts.Host)
	if err != nil {
		if !errors.Is(err, api.ErrUnauthorized) {
			log.From(ctx).Warn("principal_lookup_failed", slog.String("error", err.Error()))
		}
		p = nil
	}

	w.mu.Lock()
	w.principal = p
	w.mu.Unlock()
}

// patch применяет apply к комментарию id и обновляет его карточку.
// Патч из устаревшего поколения и патч отсутствующего комментария молча отбрасываются.
func (w *Widget) patch(ctx context.Context, gen uint64, id uuid.UUID, apply func(*models.Comment)) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.gen {
		log.From(ctx).Debug("patch_dropped", slog.String("comment_id", id.String()), slog.String("reason", "reloaded"))
		return false
	}

	cur, ok := w.parentMap.Find(id)
	if !ok {
		log.From(ctx).Debug("patch_dropped", slog.String("comment_id", id.String()), slog.String("reason", "missing"))
		return false
	}

	updated, ok := w.parentMap.Patch(cur.ParentKey(), id, apply)
	if !ok {
		return false
	}

	if card, ok := w.index[id]; ok && w.renderedGen == w.gen && card.Element().Valid() {
		card.Update(updated)
	}

	return true
}

func (w *Widget) logCtx(ctx context.Context, op string) (context.Context, *slog.Logger) {
	if _, ok := log.Lookup(ctx); !ok {
		ctx = log.Into(ctx, w.logger)
	}

	return log.With(ctx, slog.String("op", op))
}

// fail пишет ошибку в лог, показывает её пользователю и оборачивает для вызывающего.
func (w *Widget) fail(ctx context.Context, op string, err error) error {
	log.From(ctx).Warn("operation_failed", slog.String("error", err.Error()))

	if text, ok := errorText(err); ok {
		w.show(Message{Kind: MessageError, Text: text})
	}

	return fmt.Errorf("%s: %w", op, err)
}
