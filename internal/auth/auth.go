// Package auth - сценарии входа комментатора: локальный (email/пароль), OAuth во
// всплывающем окне и SSO (интерактивный через окно, неинтерактивный через скрытый фрейм).
// Каждый сценарий завершается сохранением сессионного токена в session.Store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-comments-widget/internal/api"
	"github.com/pribylovaa/go-comments-widget/internal/models"
	"github.com/pribylovaa/go-comments-widget/internal/session"
	"github.com/pribylovaa/go-comments-widget/pkg/log"
	"github.com/pribylovaa/go-comments-widget/pkg/redact"
)

var (
	ErrNoAuthMethod = errors.New("no login method available")
	ErrCancelled    = errors.New("login cancelled")
	ErrSSOTimeout   = errors.New("sso: no response from identity provider")
	ErrSSOFailed    = errors.New("sso: login failed")
	ErrNotConfirmed = errors.New("signup: email confirmation required")
)

// SSOResultType - тип сообщения фрейма с результатом SSO.
const SSOResultType = "auth.sso.result"

const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultSSOTimeout   = 60 * time.Second
)

// Backend - вызовы API, нужные сценариям входа.
type Backend interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	Signup(ctx context.Context, req api.SignupRequest) (*api.SignupResponse, error)
	Logout(ctx context.Context) error
	NewLoginToken(ctx context.Context, anonymous bool) (string, error)
	RedeemLoginToken(ctx context.Context, token, host string) (*api.LoginResponse, error)
	OAuthURL(provider, token, host string) string
}

// Popup - открытое окно входа. Закрытие окна опрашивается, событий нет.
type Popup interface {
	Closed() bool
	Close()
}

// PopupOpener открывает окно входа по адресу.
type PopupOpener interface {
	Open(ctx context.Context, url string) (Popup, error)
}

// SSOMessage - сообщение скрытого фрейма SSO.
type SSOMessage struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Frame - скрытый фрейм неинтерактивного SSO.
type Frame interface {
	Messages() <-chan SSOMessage
	Remove()
}

// FrameLoader загружает скрытый фрейм по адресу.
type FrameLoader interface {
	Load(ctx context.Context, url string) (Frame, error)
}

// Credentials - данные локального входа.
type Credentials struct {
	Email    string
	Password string
}

// Prompt спрашивает у пользователя email и пароль. ErrCancelled - пользователь отказался.
type Prompt interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// Kind - способ входа.
type Kind string

const (
	KindAuto  Kind = ""
	KindLocal Kind = "local"
	KindOAuth Kind = "oauth"
	KindSSO   Kind = "sso"
)

// Method - выбранный способ входа; Provider - id провайдера для KindOAuth.
type Method struct {
	Kind     Kind
	Provider string
}

// Options - зависимости и таймауты менеджера.
type Options struct {
	Host         string
	Popups       PopupOpener
	Frames       FrameLoader
	Prompt       Prompt
	PollInterval time.Duration
	SSOTimeout   time.Duration
}

// Manager выполняет вход и выход, сохраняя токен сессии.
type Manager struct {
	api    Backend
	store  session.Store
	host   string
	popups PopupOpener
	frames FrameLoader
	prompt Prompt
	poll   time.Duration
	sso    time.Duration
}

// New создаёт менеджер; нулевые интервалы заменяются значениями по умолчанию.
func New(b Backend, store session.Store, opts Options) *Manager {
	m := &Manager{
		api:    b,
		store:  store,
		host:   opts.Host,
		popups: opts.Popups,
		frames: opts.Frames,
		prompt: opts.Prompt,
		poll:   opts.PollInterval,
		sso:    opts.SSOTimeout,
	}

	if m.poll <= 0 {
		m.poll = DefaultPollInterval
	}
	if m.sso <= 0 {
		m.sso = DefaultSSOTimeout
	}

	return m
}

// Login выполняет вход выбранным способом. KindAuto выбирает способ по настройкам страницы:
// неинтерактивный SSO, затем локальный вход, затем первый OAuth-провайдер, затем интерактивный SSO.
func (m *Manager) Login(ctx context.Context, pi *models.PageInfo, method Method) error {
	const op = "auth/auth/Login"

	if method.Kind == KindAuto {
		method = m.pick(pi)
	}

	ctx, lg := log.With(ctx, slog.String("op", op), slog.String("method", string(method.Kind)))

	var err error
	switch method.Kind {
	case KindLocal:
		err = m.loginLocal(ctx)
	case KindOAuth:
		err = m.loginPopup(ctx, method.Provider)
	case KindSSO:
		if pi != nil && pi.SSONonInteractive && m.frames != nil {
			err = m.loginFrame(ctx)
		} else {
			err = m.loginPopup(ctx, "sso")
		}
	default:
		err = ErrNoAuthMethod
	}

	if err != nil {
		lg.Warn("login_failed", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("login_succeeded")
	return nil
}

func (m *Manager) pick(pi *models.PageInfo) Method {
	switch {
	case pi == nil:
		return Method{}
	case pi.AuthSSO && pi.SSONonInteractive && m.frames != nil:
		return Method{Kind: KindSSO}
	case pi.AuthLocal && m.prompt != nil:
		return Method{Kind: KindLocal}
	case len(pi.IdPs) > 0 && m.popups != nil:
		return Method{Kind: KindOAuth, Provider: pi.IdPs[0].ID}
	case pi.AuthSSO && m.popups != nil:
		return Method{Kind: KindSSO}
	default:
		return Method{}
	}
}

// LoginLocal - вход по заранее известным email/паролю, без запроса у пользователя.
func (m *Manager) LoginLocal(ctx context.Context, creds Credentials) error {
	const op = "auth/auth/LoginLocal"

	resp, err := m.api.Login(ctx, api.LoginRequest{Email: creds.Email, Password: creds.Password, Host: m.host})
	if err != nil {
		log.From(ctx).Warn("local_login_rejected", slog.String("email", redact.Email(creds.Email)))
		return fmt.Errorf("%s: %w", op, err)
	}

	return m.save(ctx, resp)
}

func (m *Manager) loginLocal(ctx context.Context) error {
	if m.prompt == nil {
		return ErrNoAuthMethod
	}

	creds, err := m.prompt.Credentials(ctx)
	if err != nil {
		return err
	}

	return m.LoginLocal(ctx, creds)
}

// Signup регистрирует комментатора и сразу входит, если подтверждение email не требуется.
func (m *Manager) Signup(ctx context.Context, req api.SignupRequest) error {
	const op = "auth/auth/Signup"

	req.Host = m.host
	resp, err := m.api.Signup(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !resp.IsConfirmed {
		return fmt.Errorf("%s: %w", op, ErrNotConfirmed)
	}

	return m.LoginLocal(ctx, Credentials{Email: req.Email, Password: req.Password})
}

// Logout завершает сессию на сервере и стирает токен. Протухшая сессия не ошибка.
func (m *Manager) Logout(ctx context.Context) error {
	const op = "auth/auth/Logout"

	if err := m.api.Logout(ctx); err != nil && !errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (m *Manager) save(ctx context.Context, resp *api.LoginResponse) error {
	if err := m.store.SetToken(ctx, resp.SessionToken); err != nil {
		return err
	}

	log.From(ctx).Debug("session_saved",
		slog.String("token", redact.Token(resp.SessionToken)),
		slog.String("user_id", resp.Principal.ID.String()),
	)
	return nil
}
