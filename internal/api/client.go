// Package api - типизированный клиент HTTP/JSON-контракта /api/embed/ бэкенда комментариев.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	apierrors "github.com/pribylovaa/go-comments-widget/internal/errors"
	"github.com/pribylovaa/go-comments-widget/internal/models"
	"github.com/pribylovaa/go-comments-widget/pkg/interceptors"
)

// Сентинелы категорий ошибок API, пригодные для errors.Is.
var (
	ErrInvalidArgument = apierrors.ErrInvalidArgument
	ErrUnauthorized    = apierrors.ErrUnauthorized
	ErrForbidden       = apierrors.ErrForbidden
	ErrNotFound        = apierrors.ErrNotFound
	ErrConflict        = apierrors.ErrConflict
	ErrUnavailable     = apierrors.ErrUnavailable
	ErrInternal        = apierrors.ErrInternal
)

// maxErrorBody - сколько байт тела ошибки читаем для разбора конверта.
const maxErrorBody = 64 << 10

// TokenSource отдаёт текущий сессионный токен.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Options - параметры клиента.
type Options struct {
	Logger    *slog.Logger
	UserAgent string
	// Таймаут одного запроса, если у контекста нет своего дедлайна.
	Timeout time.Duration
	// RPS == 0 выключает лимитер.
	RPS   float64
	Burst int
	// Transport - базовый транспорт; nil означает http.DefaultTransport.
	Transport http.RoundTripper
	Metrics   *Metrics
}

// Client - клиент API. Безопасен для конкурентного использования.
type Client struct {
	base    string
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	metrics *Metrics
}

// New собирает клиент поверх цепочки интерсепторов (request id, auth, логирование, таймаут).
func New(baseURL string, tokens TokenSource, opts Options) (*Client, error) {
	const op = "api/client/New"

	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%s: invalid base url %q", op, baseURL)
	}

	rt := interceptors.Chain(opts.Transport,
		interceptors.WithMetadata(opts.UserAgent),
		interceptors.Logging(opts.Logger),
		interceptors.WithTimeout(opts.Timeout),
	)

	c := &Client{
		base:    strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Transport: rt},
		tokens:  tokens,
		metrics: opts.Metrics,
	}

	if opts.RPS > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}

	return c, nil
}

// BaseURL - корень инстанса без завершающего слэша.
func (c *Client) BaseURL() string { return c.base }

// Config - GET config: глобальные настройки инстанса.
func (c *Client) Config(ctx context.Context) (*models.ClientConfig, error) {
	var out models.ClientConfig
	if err := c.do(ctx, "api/client/Config", http.MethodGet, "/config", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// CommentList - комментарии, авторы и настройки страницы.
func (c *Client) CommentList(ctx context.Context, host, path string) (*CommentListResponse, error) {
	var out CommentListResponse
	if err := c.do(ctx, "api/client/CommentList", http.MethodPost, "/comments", PageRequest{Host: host, Path: path}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// CommentNew создаёт комментарий.
func (c *Client) CommentNew(ctx context.Context, req NewCommentRequest) (*CommentResponse, error) {
	var out CommentResponse
	if err := c.do(ctx, "api/client/CommentNew", http.MethodPut, "/comments", req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// CommentUpdate меняет текст комментария. Ответ не содержит голос зрителя (Direction).
func (c *Client) CommentUpdate(ctx context.Context, id uuid.UUID, markdown string) (*models.Comment, error) {
	var out UpdateCommentResponse
	if err := c.do(ctx, "api/client/CommentUpdate", http.MethodPut, "/comments/"+id.String(), UpdateCommentRequest{Markdown: markdown}, &out); err != nil {
		return nil, err
	}

	return &out.Comment, nil
}

func (c *Client) CommentDelete(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, "api/client/CommentDelete", http.MethodDelete, "/comments/"+id.String(), nil, nil)
}

func (c *Client) CommentModerate(ctx context.Context, id uuid.UUID, approve bool) error {
	return c.do(ctx, "api/client/CommentModerate", http.MethodPost, "/comments/"+id.String()+"/moderate", ModerateRequest{Approve: approve}, nil)
}

// CommentVote голосует (-1/0/1) и возвращает новый счёт.
func (c *Client) CommentVote(ctx context.Context, id uuid.UUID, direction int8) (int, error) {
	var out VoteResponse
	if err := c.do(ctx, "api/client/CommentVote", http.MethodPost, "/comments/"+id.String()+"/vote", VoteRequest{Direction: direction}, &out); err != nil {
		return 0, err
	}

	return out.Score, nil
}

func (c *Client) CommentSticky(ctx context.Context, id uuid.UUID, sticky bool) error {
	return c.do(ctx, "api/client/CommentSticky", http.MethodPost, "/comments/"+id.String()+"/sticky", StickyRequest{Sticky: sticky}, nil)
}

// PageUpdate закрывает или открывает страницу для комментариев.
func (c *Client) PageUpdate(ctx context.Context, pageID uuid.UUID, readonly bool) error {
	return c.do(ctx, "api/client/PageUpdate", http.MethodPost, "/page", PageUpdateRequest{PageID: pageID, Readonly: readonly}, nil)
}

// Login - локальный вход.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, "api/client/Login", http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "api/client/Logout", http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	var out SignupResponse
	if err := c.do(ctx, "api/client/Signup", http.MethodPost, "/auth/signup", req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Principal - текущий пользователь с ролями в домене host.
// Без сессии сервер отвечает 401 (ErrUnauthorized).
func (c *Client) Principal(ctx context.Context, host string) (*models.Principal, error) {
	var out models.Principal
	if err := c.do(ctx, "api/client/Principal", http.MethodGet, "/auth/user?host="+url.QueryEscape(host), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, s Settings) error {
	return c.do(ctx, "api/client/UpdateSettings", http.MethodPut, "/auth/user", s, nil)
}

// NewLoginToken выпускает одноразовый токен входа для OAuth/SSO.
func (c *Client) NewLoginToken(ctx context.Context, anonymous bool) (string, error) {
	var out LoginTokenResponse
	if err := c.do(ctx, "api/client/NewLoginToken", http.MethodPost, "/auth/login/token", LoginTokenRequest{Anonymous: anonymous}, &out); err != nil {
		return "", err
	}

	return out.Token, nil
}

// RedeemLoginToken обменивает подтверждённый токен входа на сессию.
func (c *Client) RedeemLoginToken(ctx context.Context, token, host string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, "api/client/RedeemLoginToken", http.MethodPut, "/auth/login/token", RedeemTokenRequest{Token: token, Host: host}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// OAuthURL - адрес, который открывается во всплывающем окне входа через провайдера.
func (c *Client) OAuthURL(provider, token, host string) string {
	q := url.Values{"token": {token}, "host": {host}}
	return c.base + "/api/oauth/" + url.PathEscape(provider) + "?" + q.Encode()
}

// do выполняет вызов: лимитер, токен, JSON туда/обратно, разбор конверта ошибки.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()
	status := 0
	defer func() { c.metrics.observe(op, status, time.Since(start)) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("%s: token: %w", op, err)
		}

		if tok != "" && tok != models.AnonymousToken {
			ctx = interceptors.WithAuthToken(ctx, tok)
		}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+"/api/embed"+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, apierrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s: %w", op, apierrors.FromResponse(resp.StatusCode, raw, resp.Header.Get("X-Request-Id")))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}

	return nil
}
