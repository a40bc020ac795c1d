package application

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/example/campus-events/internal/backend"
	"github.com/example/campus-events/internal/session"
	"github.com/example/campus-events/internal/testfixtures"
)

func newAuthFixture() (*AuthService, *testfixtures.Backend, *session.Guard) {
	b := testfixtures.NewBackend()
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	guard := session.NewGuard(session.NewMemoryStore(), session.NewCredential(), clock.NowFunc(), quietLogger())
	return NewAuthServiceWithLogger(b, guard, quietLogger()), b, guard
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("establishes the session and installs the token", func(t *testing.T) {
		svc, _, guard := newAuthFixture()

		profile, err := svc.Login(ctx, LoginParams{Email: " Stu@Campus.edu ", Password: "password"})
		if err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
		if profile.UserID != "40" || profile.Role != "Student" || profile.ExpiresAt.IsZero() {
			t.Fatalf("unexpected profile: %#v", profile)
		}
		if token, ok := guard.Credential().Token(); !ok || token != "token-40" {
			t.Fatalf("expected installed credential, got %q (%v)", token, ok)
		}
		if guard.Authorize(ctx, session.RoleStudent) != session.Allow {
			t.Fatalf("expected student routes to be allowed")
		}
	})

	t.Run("validates before calling the backend", func(t *testing.T) {
		svc, b, _ := newAuthFixture()

		_, err := svc.Login(ctx, LoginParams{Email: "not-an-email"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if vErr.FieldErrors["email"] == "" || vErr.FieldErrors["password"] == "" {
			t.Fatalf("expected email and password errors, got %#v", vErr.FieldErrors)
		}
		if b.CallCount("Login") != 0 {
			t.Fatalf("backend must not be called on invalid input")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _, guard := newAuthFixture()

		_, err := svc.Login(ctx, LoginParams{Email: "stu@campus.edu", Password: "nope"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
		if got := backend.Message(err); got != "Invalid email or password" {
			t.Fatalf("expected backend message, got %q", got)
		}
		if guard.IsSessionValid(ctx) {
			t.Fatalf("failed login must not leave a session")
		}
	})

	t.Run("replaces the previous session", func(t *testing.T) {
		svc, _, guard := newAuthFixture()

		if _, err := svc.Login(ctx, LoginParams{Email: "ada@campus.edu", Password: "password"}); err != nil {
			t.Fatalf("first login failed: %v", err)
		}
		if _, err := svc.Login(ctx, LoginParams{Email: "sam@campus.edu", Password: "password"}); err != nil {
			t.Fatalf("second login failed: %v", err)
		}
		current, ok := guard.Current(ctx)
		if !ok || current.UserID != "30" {
			t.Fatalf("expected staff session, got %#v", current)
		}
		if guard.Authorize(ctx, session.RoleAdmin) != session.RedirectToHome {
			t.Fatalf("previous admin role must not survive re-login")
		}
	})

	t.Run("backend outage", func(t *testing.T) {
		svc, b, _ := newAuthFixture()
		b.Fail("Login", &backend.StatusError{Status: http.StatusServiceUnavailable})

		_, err := svc.Login(ctx, LoginParams{Email: "stu@campus.edu", Password: "password"})
		if errors.Is(err, ErrInvalidCredentials) || ErrorKind(err) != "backend_status" {
			t.Fatalf("expected a backend status error, got %v", err)
		}
	})
}

func TestAuthService_GoogleLogin(t *testing.T) {
	ctx := context.Background()
	svc, b, _ := newAuthFixture()
	b.SetGoogleSession("google-id-token", testfixtures.Session(session.RoleOrganizer))

	if _, err := svc.GoogleLogin(ctx, " "); err == nil {
		t.Fatalf("expected validation error for empty token")
	}
	if _, err := svc.GoogleLogin(ctx, "forged"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	profile, err := svc.GoogleLogin(ctx, "google-id-token")
	if err != nil {
		t.Fatalf("GoogleLogin returned error: %v", err)
	}
	if profile.Role != "Organizer" {
		t.Fatalf("unexpected profile: %#v", profile)
	}
}

func TestAuthService_IncompleteBackendSession(t *testing.T) {
	ctx := context.Background()
	svc, b, guard := newAuthFixture()
	incomplete := testfixtures.Session(session.RoleStudent)
	incomplete.Token = ""
	b.SetGoogleSession("tokenless", incomplete)

	_, err := svc.GoogleLogin(ctx, "tokenless")
	if !errors.Is(err, session.ErrIncompleteSession) {
		t.Fatalf("expected ErrIncompleteSession, got %v", err)
	}
	if guard.IsSessionValid(ctx) {
		t.Fatalf("incomplete session must not be stored")
	}
}

func TestAuthService_LogoutAndProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, guard := newAuthFixture()

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout without session must succeed: %v", err)
	}
	if _, err := svc.Profile(ctx); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	if _, err := svc.Login(ctx, LoginParams{Email: "olu@campus.edu", Password: "password"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	profile, err := svc.Profile(ctx)
	if err != nil || profile.Email != "olu@campus.edu" {
		t.Fatalf("unexpected profile: %#v (%v)", profile, err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, ok := guard.Credential().Token(); ok {
		t.Fatalf("logout must remove the credential")
	}
	if guard.Authorize(ctx) != session.RedirectToLogin {
		t.Fatalf("expected redirect to login after logout")
	}
}
