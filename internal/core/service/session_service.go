package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/salvaclients/vet-admin/internal/api/metrics"
	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// SessionService implements ports.SessionService. It is the only writer of
// the credential store apart from the gateway's 401 teardown.
type SessionService struct {
	store   ports.CredentialStore
	gateway ports.Gateway
	log     zerolog.Logger
}

var _ ports.SessionService = (*SessionService)(nil)

func NewSessionService(store ports.CredentialStore, gateway ports.Gateway, log zerolog.Logger) *SessionService {
	return &SessionService{store: store, gateway: gateway, log: log}
}

// Current reads the session from the store. A missing or incomplete record
// is the anonymous state (nil, nil).
func (s *SessionService) Current(ctx context.Context, sid string) (*domain.Session, error) {
	if sid == "" {
		return nil, nil
	}
	session, err := s.store.Load(ctx, sid)
	if errors.Is(err, domain.ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current session: %w", err)
	}
	if !session.Authenticated() {
		if err := s.store.Clear(ctx, sid); err != nil {
			return nil, fmt.Errorf("current session: %w", err)
		}
		return nil, nil
	}
	return session, nil
}

// Login exchanges credentials for a token. Every failure, including an
// unreachable backend, is reported as domain.ErrInvalidCredentials.
func (s *SessionService) Login(ctx context.Context, sid, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	resp, err := s.gateway.Do(ctx, sid, "/auth/login", ports.Request{
		Method:    http.MethodPost,
		Body:      loginRequest{Username: username, Password: password},
		Anonymous: true,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.log.Warn().Err(err).Str("username", username).Msg("login request failed")
		return nil, domain.ErrInvalidCredentials
	}
	if !resp.OK() {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.log.Info().Int("status", resp.StatusCode).Str("username", username).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	var out loginResponse
	if err := resp.DecodeJSON(&out); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.log.Warn().Err(err).Str("username", username).Msg("login response unreadable")
		return nil, domain.ErrInvalidCredentials
	}
	if out.Token == "" {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	session := domain.Session{Token: out.Token, User: out.User}
	if err := s.store.Save(ctx, sid, session); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("login: save session: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().
		Str("username", out.User.Username).
		Str("role", string(out.User.Role)).
		Msg("user logged in")

	return &session, nil
}

// Logout clears the stored session. Logging out while anonymous does nothing.
func (s *SessionService) Logout(ctx context.Context, sid string) error {
	session, err := s.Current(ctx, sid)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	if err := s.store.Clear(ctx, sid); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("username", session.User.Username).Msg("user logged out")
	return nil
}

// HasAnyRole is false for anonymous sessions and on store errors.
func (s *SessionService) HasAnyRole(ctx context.Context, sid string, roles ...domain.Role) bool {
	session, err := s.Current(ctx, sid)
	if err != nil {
		s.log.Warn().Err(err).Msg("role check: session unavailable")
		return false
	}
	return session.HasAnyRole(roles...)
}

// ChangePassword validates locally and then posts to /password/change. The
// backend's text is returned verbatim, as the message on success and inside
// a *domain.BackendError otherwise.
func (s *SessionService) ChangePassword(ctx context.Context, sid, currentPassword, newPassword, confirmPassword string) (string, error) {
	if newPassword != confirmPassword {
		metrics.PasswordChangesTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrPasswordMismatch
	}
	if utf8.RuneCountInString(newPassword) < domain.MinPasswordLength {
		metrics.PasswordChangesTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrPasswordTooShort
	}

	session, err := s.Current(ctx, sid)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", domain.ErrNoSession
	}

	resp, err := s.gateway.Do(ctx, sid, "/password/change", ports.Request{
		Method: http.MethodPost,
		Body:   changePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword},
	})
	if err != nil {
		metrics.PasswordChangesTotal.WithLabelValues("failure").Inc()
		return "", err
	}
	if !resp.OK() {
		metrics.PasswordChangesTotal.WithLabelValues("failure").Inc()
		return "", &domain.BackendError{Status: resp.StatusCode, Message: resp.Text()}
	}

	metrics.PasswordChangesTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", session.User.Username).Msg("password changed")
	return resp.Text(), nil
}
