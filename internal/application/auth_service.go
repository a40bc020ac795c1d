package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/example/campus-events/internal/backend"
	"github.com/example/campus-events/internal/session"
)

// AuthBackend exchanges credentials for a session with the remote backend.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (session.Session, error)
	GoogleLogin(ctx context.Context, idToken string) (session.Session, error)
}

// SessionKeeper owns the persisted session and installed credential.
type SessionKeeper interface {
	Establish(ctx context.Context, s session.Session) error
	ClearSession(ctx context.Context) error
	Current(ctx context.Context) (session.Session, bool)
}

// AuthService coordinates login and logout against the backend and the
// local session.
type AuthService struct {
	backend  AuthBackend
	sessions SessionKeeper
	logger   *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(backend AuthBackend, sessions SessionKeeper) *AuthService {
	return NewAuthServiceWithLogger(backend, sessions, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(backend AuthBackend, sessions SessionKeeper, logger *slog.Logger) *AuthService {
	return &AuthService{backend: backend, sessions: sessions, logger: defaultLogger(logger)}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login validates the credentials locally, authenticates with the backend,
// and replaces the stored session.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (profile Profile, err error) {
	if s == nil || s.backend == nil || s.sessions == nil {
		err = fmt.Errorf("AuthService is not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	logger := s.loggerWith(ctx, "Login", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", profile.UserID, "role", profile.Role).InfoContext(ctx, "login succeeded")
	}()

	vErr := &ValidationError{}
	if email == "" {
		vErr.add("email", "Email is required.")
	} else if _, parseErr := mail.ParseAddress(email); parseErr != nil {
		vErr.add("email", "Enter a valid email address.")
	}
	if params.Password == "" {
		vErr.add("password", "Password is required.")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var issued session.Session
	issued, err = s.backend.Login(ctx, email, params.Password)
	if err != nil {
		err = mapLoginError(err)
		return
	}
	return s.establish(ctx, issued)
}

// GoogleLogin authenticates with a Google identity token.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (profile Profile, err error) {
	if s == nil || s.backend == nil || s.sessions == nil {
		err = fmt.Errorf("AuthService is not configured")
		return
	}

	logger := s.loggerWith(ctx, "GoogleLogin")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "google login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", profile.UserID, "role", profile.Role).InfoContext(ctx, "google login succeeded")
	}()

	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		err = &ValidationError{FieldErrors: map[string]string{"id_token": "Google credential is required."}}
		return
	}

	var issued session.Session
	issued, err = s.backend.GoogleLogin(ctx, idToken)
	if err != nil {
		err = mapLoginError(err)
		return
	}
	return s.establish(ctx, issued)
}

func (s *AuthService) establish(ctx context.Context, issued session.Session) (Profile, error) {
	if err := s.sessions.Establish(ctx, issued); err != nil {
		if errors.Is(err, session.ErrIncompleteSession) {
			return Profile{}, fmt.Errorf("backend returned an unusable session: %w", err)
		}
		return Profile{}, err
	}
	current, ok := s.sessions.Current(ctx)
	if !ok {
		return Profile{}, fmt.Errorf("backend returned an expired session")
	}
	return profileOf(current), nil
}

// Logout clears the stored session and credential. It succeeds when no
// session exists.
func (s *AuthService) Logout(ctx context.Context) (err error) {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("AuthService is not configured")
	}
	logger := s.loggerWith(ctx, "Logout")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "logout failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "logout succeeded")
	}()
	return s.sessions.ClearSession(ctx)
}

// Profile returns the signed-in user, or ErrSessionExpired when no valid
// session is stored.
func (s *AuthService) Profile(ctx context.Context) (Profile, error) {
	if s == nil || s.sessions == nil {
		return Profile{}, fmt.Errorf("AuthService is not configured")
	}
	current, ok := s.sessions.Current(ctx)
	if !ok {
		return Profile{}, ErrSessionExpired
	}
	return profileOf(current), nil
}

func profileOf(s session.Session) Profile {
	expiry, _ := s.Expiry()
	return Profile{
		UserID:    s.UserID,
		Name:      s.UserName,
		Email:     s.Email,
		Role:      s.Role().String(),
		ExpiresAt: expiry,
	}
}

func mapLoginError(err error) error {
	if errors.Is(err, backend.ErrUnauthorized) {
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	return mapBackendError(err)
}
