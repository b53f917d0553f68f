package fakeapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-comments-widget/internal/api"
	apierrors "github.com/pribylovaa/go-comments-widget/internal/errors"
	"github.com/pribylovaa/go-comments-widget/internal/models"
	"github.com/pribylovaa/go-comments-widget/pkg/interceptors"
	"github.com/pribylovaa/go-comments-widget/pkg/log"
	"github.com/pribylovaa/go-comments-widget/pkg/redact"
)

// viewer - пользователь сессии запроса; nil - аноним или недействительная сессия.
func (s *Server) viewer(r *http.Request) *user {
	tok, ok := interceptors.AuthTokenFrom(r.Context())
	if !ok {
		return nil
	}

	uid, _, err := s.parseSession(tok)
	if err != nil {
		log.From(r.Context()).Debug("session_rejected", slog.String("token", redact.Token(tok)))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.users[uid]
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in api.LoginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, fmt.Errorf("login: %w", apierrors.ErrInvalidArgument))
		return
	}

	s.mu.Lock()
	u := s.users[s.byEmail[strings.ToLower(in.Email)]]
	var hash []byte
	if u != nil && u.confirmed {
		hash = u.hash
	}
	s.mu.Unlock()

	if hash == nil || bcrypt.CompareHashAndPassword(hash, []byte(in.Password)) != nil {
		log.From(r.Context()).Warn("login_rejected", slog.String("email", redact.Email(in.Email)))
		apierrors.WriteError(w, r, fmt.Errorf("%w: %w", errBadCredentials, apierrors.ErrUnauthorized))
		return
	}

	s.writeSession(w, r, u)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if tok, ok := interceptors.AuthTokenFrom(r.Context()); ok {
		if _, jti, err := s.parseSession(tok); err == nil {
			s.mu.Lock()
			s.revoked[jti] = struct{}{}
			s.mu.Unlock()
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var in api.SignupRequest
	if err := decodeStrict(r, &in); err != nil || !strings.Contains(in.Email, "@") || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		apierrors.WriteError(w, r, fmt.Errorf("signup: %w", apierrors.ErrInvalidArgument))
		return
	}

	s.mu.Lock()
	_, taken := s.byEmail[strings.ToLower(in.Email)]
	allowed := s.domain.AuthLocal
	confirm := s.domain.ConfirmSignup
	s.mu.Unlock()

	switch {
	case !allowed:
		apierrors.WriteError(w, r, fmt.Errorf("signup: %w", apierrors.ErrForbidden))
		return
	case taken:
		apierrors.WriteError(w, r, fmt.Errorf("signup: %w", apierrors.ErrConflict))
		return
	}

	id, err := s.AddUser(User{Email: in.Email, Name: in.Name, Password: in.Password, WebsiteURL: in.WebsiteURL})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if confirm {
		s.mu.Lock()
		s.users[id].confirmed = false
		s.mu.Unlock()
	}

	writeJSON(w, http.StatusOK, api.SignupResponse{IsConfirmed: !confirm})
}

func (s *Server) principal(w http.ResponseWriter, r *http.Request) {
	u := s.viewer(r)
	if u == nil {
		apierrors.WriteError(w, r, fmt.Errorf("principal: %w", apierrors.ErrUnauthorized))
		return
	}

	s.mu.Lock()
	p := s.principalLocked(u)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var in api.Settings
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, fmt.Errorf("settings: %w", apierrors.ErrInvalidArgument))
		return
	}

	u := s.viewer(r)
	if u == nil {
		apierrors.WriteError(w, r, fmt.Errorf("settings: %w", apierrors.ErrUnauthorized))
		return
	}

	s.mu.Lock()
	u.settings = in
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) newLoginToken(w http.ResponseWriter, r *http.Request) {
	var in api.LoginTokenRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, fmt.Errorf("login token: %w", apierrors.ErrInvalidArgument))
		return
	}

	tok := uuid.NewString()

	s.mu.Lock()
	s.loginTokens[tok] = uuid.Nil
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, api.LoginTokenResponse{Token: tok})
}

func (s *Server) redeemLoginToken(w http.ResponseWriter, r *http.Request) {
	var in api.RedeemTokenRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, fmt.Errorf("redeem: %w", apierrors.ErrInvalidArgument))
		return
	}

	s.mu.Lock()
	uid, ok := s.loginTokens[in.Token]
	if ok && uid != uuid.Nil {
		delete(s.loginTokens, in.Token)
	}
	u := s.users[uid]
	s.mu.Unlock()

	if !ok || u == nil {
		apierrors.WriteError(w, r, fmt.Errorf("redeem: %w", apierrors.ErrUnauthorized))
		return
	}

	s.writeSession(w, r, u)
}

// oauth - страница провайдера во всплывающем окне или скрытом фрейме: подтверждает
// токен входа от имени федеративного пользователя.
func (s *Server) oauth(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	tok := r.URL.Query().Get("token")

	s.mu.Lock()
	known := (provider == "sso" && s.domain.AuthSSO) ||
		slices.ContainsFunc(s.domain.IdPs, func(p models.FederatedIdP) bool { return p.ID == provider })
	_, pending := s.loginTokens[tok]
	fed := s.federated
	if known && pending && fed != uuid.Nil {
		s.loginTokens[tok] = fed
	}
	s.mu.Unlock()

	switch {
	case !known:
		apierrors.WriteError(w, r, fmt.Errorf("provider %q: %w", provider, apierrors.ErrNotFound))
	case !pending || fed == uuid.Nil:
		apierrors.WriteError(w, r, fmt.Errorf("oauth: %w", apierrors.ErrUnauthorized))
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!doctype html><p>Login successful. You can close this window.</p>"))
	}
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, u *user) {
	tok, err := s.issueSession(u.ID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	s.mu.Lock()
	p := s.principalLocked(u)
	s.mu.Unlock()

	log.From(r.Context()).Info("session_issued", slog.String("user_id", u.ID.String()))
	writeJSON(w, http.StatusOK, api.LoginResponse{SessionToken: tok, Principal: *p})
}
