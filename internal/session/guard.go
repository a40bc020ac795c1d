package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/campus-events/internal/logging"
)

// Decision is the outcome of an access check for a protected view.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToHome
)

// String returns a logging label for the decision.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_login"
	case RedirectToHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// ErrIncompleteSession is returned by Establish when a session lacks a token
// or an expiry.
var ErrIncompleteSession = errors.New("session: token and expiry are required")

// Guard decides access to protected views from the persisted Session and
// keeps the outgoing credential in step with it.
type Guard struct {
	store      Store
	credential *Credential
	now        func() time.Time
	logger     *slog.Logger
}

// NewGuard constructs a guard over the provided store and credential.
func NewGuard(store Store, credential *Credential, now func() time.Time, logger *slog.Logger) *Guard {
	if store == nil {
		store = NewMemoryStore()
	}
	if credential == nil {
		credential = NewCredential()
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{store: store, credential: credential, now: now, logger: logger}
}

// Credential exposes the credential shared with the backend client.
func (g *Guard) Credential() *Credential {
	return g.credential
}

func (g *Guard) log(ctx context.Context, operation string) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = g.logger
	}
	return logger.With("component", "SessionGuard", "operation", operation)
}

// IsSessionValid reports whether the stored session carries a token and an
// unexpired expiry. An expired or malformed session is cleared before
// returning so the next check starts from empty storage.
func (g *Guard) IsSessionValid(ctx context.Context) bool {
	_, ok := g.Current(ctx)
	return ok
}

// Current returns the stored session when it is valid.
func (g *Guard) Current(ctx context.Context) (Session, bool) {
	stored, err := g.store.Load(ctx)
	if err != nil {
		g.log(ctx, "Current").ErrorContext(ctx, "failed to load session", "error", err)
		return Session{}, false
	}
	if strings.TrimSpace(stored.Token) == "" || strings.TrimSpace(stored.ExpiresAt) == "" {
		if !stored.Empty() {
			g.discard(ctx, stored, "incomplete")
		}
		return Session{}, false
	}

	expiry, err := stored.Expiry()
	if err != nil || expiry.Before(g.now()) {
		reason := "expired"
		if err != nil {
			reason = "malformed_expiry"
		}
		g.discard(ctx, stored, reason)
		return Session{}, false
	}
	return stored, true
}

func (g *Guard) discard(ctx context.Context, stored Session, reason string) {
	logger := g.log(ctx, "Current")
	logger.InfoContext(ctx, "discarding stored session", "reason", reason, "user_id", stored.UserID)
	if err := g.ClearSession(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to clear session", "error", err)
	}
}

// Authorize gates a protected view. A missing or invalid session always
// redirects to login, even when the role would also be rejected. An empty
// allowed set admits any authenticated role.
func (g *Guard) Authorize(ctx context.Context, allowed ...Role) Decision {
	current, ok := g.Current(ctx)
	if !ok {
		return RedirectToLogin
	}
	if len(allowed) == 0 {
		return Allow
	}
	role := current.Role()
	for _, candidate := range allowed {
		if role.Valid() && candidate == role {
			return Allow
		}
	}
	return RedirectToHome
}

// ClearSession removes every stored session field and the installed default
// Authorization header. It is safe to call repeatedly.
func (g *Guard) ClearSession(ctx context.Context) error {
	g.credential.Remove()
	if err := g.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// InstallCredential sets the bearer token attached to all later outgoing
// requests until ClearSession or the next InstallCredential.
func (g *Guard) InstallCredential(token string) {
	g.credential.Install(token)
}

// Establish replaces the stored session wholesale and installs its token.
func (g *Guard) Establish(ctx context.Context, session Session) error {
	if strings.TrimSpace(session.Token) == "" || strings.TrimSpace(session.ExpiresAt) == "" {
		return ErrIncompleteSession
	}
	if err := g.store.Clear(ctx); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	if err := g.store.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	g.InstallCredential(session.Token)
	g.log(ctx, "Establish").InfoContext(ctx, "session established", "user_id", session.UserID, "role", session.Role().String())
	return nil
}

// Restore installs the credential of a still-valid stored session. It is
// called once at start-up.
func (g *Guard) Restore(ctx context.Context) bool {
	current, ok := g.Current(ctx)
	if !ok {
		g.credential.Remove()
		return false
	}
	g.InstallCredential(current.Token)
	return true
}
