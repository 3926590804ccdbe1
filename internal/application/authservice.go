package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

const browserSessionIDBytes = 32

// AuthService orchestrates sign-in, sign-up and sign-out against the hosted
// account service and keeps the local browser-session record in step.
type AuthService struct {
	backends driven.BackendProvider
	sessions driven.SessionStore
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates an AuthService. ttl bounds how long a browser
// session is honored locally; the remote session may expire sooner.
func NewAuthService(
	backends driven.BackendProvider,
	sessions driven.SessionStore,
	ttl time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		backends: backends,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Login creates a remote session for email/password and records a new browser
// session bound to it. Remote failures are returned unchanged so the caller
// can show the backend's message next to the form.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.BrowserSession, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &model.MissingFieldError{Field: "email"}
	}
	if password == "" {
		return nil, &model.MissingFieldError{Field: "password"}
	}

	remote, err := s.backends.ForSession("").CreateSession(ctx, email, password)
	if err != nil {
		s.logger.Info("login failed", "email", email, "error", err)
		return nil, err
	}
	if remote.Secret == "" {
		return nil, fmt.Errorf("login for %s: backend returned no session secret: %w", email, model.ErrUnknown)
	}

	now := s.now().UTC()
	session := model.BrowserSession{
		ID:        newBrowserSessionID(),
		Secret:    remote.Secret,
		UserID:    remote.UserID,
		Email:     email,
		Theme:     model.ThemeLight,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store browser session: %w", err)
	}

	s.logger.Info("login successful", "user_id", remote.UserID)
	return &session, nil
}

// SignUp registers a new account. The account id is generated here, prefixed
// with "user_".
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*model.Account, error) {
	fields := []struct{ field, value string }{
		{"name", name},
		{"email", email},
		{"password", password},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return nil, &model.MissingFieldError{Field: f.field}
		}
	}

	id := "user_" + xid.New().String()
	account, err := s.backends.ForSession("").CreateAccount(ctx, id, strings.TrimSpace(email), password, strings.TrimSpace(name))
	if err != nil {
		s.logger.Info("sign up failed", "email", email, "error", err)
		return nil, err
	}

	s.logger.Info("account created", "user_id", account.ID)
	return account, nil
}

// Resolve returns the browser session for a cookie value, or nil if it does
// not exist or has expired.
func (s *AuthService) Resolve(ctx context.Context, id string) (*model.BrowserSession, error) {
	if id == "" {
		return nil, nil
	}

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve browser session: %w", err)
	}
	if session == nil || session.Expired(s.now()) {
		return nil, nil
	}
	return session, nil
}

// Gate returns a SessionGate for session. A nil session produces a gate that
// redirects without contacting the backend.
func (s *AuthService) Gate(session *model.BrowserSession) *SessionGate {
	if session == nil {
		return NewSessionGate(nil, s.logger)
	}
	return NewSessionGate(s.backends.ForSession(session.Secret), s.logger)
}

// Backend returns the backend bound to session's remote secret.
func (s *AuthService) Backend(session *model.BrowserSession) driven.Backend {
	return s.backends.ForSession(session.Secret)
}

// SignOut deletes the remote session and then the local one. If the remote
// call fails for any reason other than the session already being gone, the
// local session is kept and the error returned.
func (s *AuthService) SignOut(ctx context.Context, session *model.BrowserSession) error {
	err := s.backends.ForSession(session.Secret).DeleteCurrentSession(ctx)
	if err != nil && !errors.Is(err, model.ErrUnauthenticated) {
		s.logger.Error("sign out failed", "error", err)
		return err
	}

	return s.Forget(ctx, session.ID)
}

// Forget removes the local browser session without contacting the backend.
func (s *AuthService) Forget(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete browser session: %w", err)
	}
	return nil
}

// ToggleTheme flips the theme preference of session and persists it.
func (s *AuthService) ToggleTheme(ctx context.Context, session *model.BrowserSession) (model.Theme, error) {
	theme := session.Theme.Toggle()
	if err := s.sessions.SetTheme(ctx, session.ID, theme); err != nil {
		return session.Theme, fmt.Errorf("set theme: %w", err)
	}
	session.Theme = theme
	return theme, nil
}

// newBrowserSessionID returns a random hex-encoded 32-byte identifier.
func newBrowserSessionID() string {
	b := make([]byte, browserSessionIDBytes)
	// crypto/rand.Read never returns an error.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
