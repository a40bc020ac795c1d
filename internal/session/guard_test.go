package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

var reference = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestGuard(store Store) (*Guard, *Credential) {
	credential := NewCredential()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGuard(store, credential, func() time.Time { return reference }, logger), credential
}

func validSession(role string) Session {
	return Session{
		Token:     "token-1",
		UserID:    "42",
		UserName:  "Ada",
		Email:     "ada@example.edu",
		RoleName:  role,
		ExpiresAt: reference.Add(time.Hour).Format(time.RFC3339),
	}
}

type failingStore struct {
	loadErr  error
	clearErr error
}

func (f failingStore) Load(context.Context) (Session, error) { return Session{}, f.loadErr }
func (f failingStore) Save(context.Context, Session) error   { return nil }
func (f failingStore) Clear(context.Context) error           { return f.clearErr }

func TestGuard_IsSessionValid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing token or expiry is invalid", func(t *testing.T) {
		t.Parallel()

		for _, s := range []Session{
			{},
			{ExpiresAt: reference.Add(time.Hour).Format(time.RFC3339)},
			{Token: "token-only"},
		} {
			store := NewMemoryStore()
			if err := store.Save(ctx, s); err != nil {
				t.Fatalf("save: %v", err)
			}
			guard, _ := newTestGuard(store)
			if guard.IsSessionValid(ctx) {
				t.Fatalf("expected %+v to be invalid", s)
			}
			if store.Len() != 0 {
				t.Fatalf("expected incomplete session to be cleared, %d keys remain", store.Len())
			}
		}
	})

	t.Run("expired session is invalid and cleared", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		expired := validSession("Admin")
		expired.ExpiresAt = reference.Add(-time.Second).Format(time.RFC3339)
		_ = store.Save(ctx, expired)

		guard, credential := newTestGuard(store)
		credential.Install(expired.Token)

		if guard.IsSessionValid(ctx) {
			t.Fatalf("expected expired session to be invalid")
		}
		if store.Len() != 0 {
			t.Fatalf("expected storage to be empty after expiry")
		}
		if _, ok := credential.Token(); ok {
			t.Fatalf("expected credential to be removed after expiry")
		}
	})

	t.Run("malformed expiry fails closed", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		s := validSession("Admin")
		s.ExpiresAt = "next tuesday"
		_ = store.Save(ctx, s)

		guard, _ := newTestGuard(store)
		if guard.IsSessionValid(ctx) {
			t.Fatalf("expected malformed expiry to be invalid")
		}
		if store.Len() != 0 {
			t.Fatalf("expected malformed session to be cleared")
		}
	})

	t.Run("future expiry with token is valid", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		_ = store.Save(ctx, validSession("Student"))
		guard, _ := newTestGuard(store)
		if !guard.IsSessionValid(ctx) {
			t.Fatalf("expected session to be valid")
		}
		if store.Len() != len(Keys) {
			t.Fatalf("expected session to remain stored")
		}
	})

	t.Run("storage failures fail closed", func(t *testing.T) {
		t.Parallel()

		guard, _ := newTestGuard(failingStore{loadErr: errors.New("disk gone")})
		if guard.IsSessionValid(ctx) {
			t.Fatalf("expected load failure to be invalid")
		}
	})
}

func TestGuard_Authorize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty role set admits any authenticated role", func(t *testing.T) {
		t.Parallel()

		for _, role := range []string{"Admin", "Organizer", "Staff", "Student"} {
			store := NewMemoryStore()
			_ = store.Save(ctx, validSession(role))
			guard, _ := newTestGuard(store)
			if got := guard.Authorize(ctx); got != Allow {
				t.Fatalf("role %s: expected Allow, got %v", role, got)
			}
		}
	})

	t.Run("role mismatch redirects home", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		_ = store.Save(ctx, validSession("Staff"))
		guard, _ := newTestGuard(store)
		if got := guard.Authorize(ctx, RoleAdmin); got != RedirectToHome {
			t.Fatalf("expected RedirectToHome, got %v", got)
		}
		if got := guard.Authorize(ctx, RoleAdmin, RoleStaff); got != Allow {
			t.Fatalf("expected Allow for member role, got %v", got)
		}
	})

	t.Run("missing session takes precedence over role mismatch", func(t *testing.T) {
		t.Parallel()

		guard, _ := newTestGuard(NewMemoryStore())
		if got := guard.Authorize(ctx, RoleAdmin); got != RedirectToLogin {
			t.Fatalf("expected RedirectToLogin, got %v", got)
		}
		if got := guard.Authorize(ctx); got != RedirectToLogin {
			t.Fatalf("expected RedirectToLogin with empty role set, got %v", got)
		}
	})

	t.Run("unknown role names are never admitted", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		_ = store.Save(ctx, validSession("Superuser"))
		guard, _ := newTestGuard(store)
		if got := guard.Authorize(ctx, RoleAdmin, RoleOrganizer, RoleStaff, RoleStudent); got != RedirectToHome {
			t.Fatalf("expected RedirectToHome for unknown role, got %v", got)
		}
	})
}

func TestGuard_EstablishAndClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryStore()
	guard, credential := newTestGuard(store)

	if err := guard.Establish(ctx, Session{Token: "t"}); !errors.Is(err, ErrIncompleteSession) {
		t.Fatalf("expected ErrIncompleteSession, got %v", err)
	}

	if err := guard.Establish(ctx, validSession("Organizer")); err != nil {
		t.Fatalf("Establish failed: %v", err)
	}
	if got := credential.Header(); got != "Bearer token-1" {
		t.Fatalf("unexpected header %q", got)
	}

	replacement := Session{Token: "token-2", ExpiresAt: reference.Add(time.Hour).Format(time.RFC3339), RoleName: "Student"}
	if err := guard.Establish(ctx, replacement); err != nil {
		t.Fatalf("Establish replacement failed: %v", err)
	}
	current, ok := guard.Current(ctx)
	if !ok {
		t.Fatalf("expected replacement to be valid")
	}
	if current.Email != "" || current.UserID != "" {
		t.Fatalf("expected wholesale replacement, got %+v", current)
	}

	if err := guard.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}
	if err := guard.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession should be idempotent: %v", err)
	}
	if store.Len() != 0 || credential.Header() != "" {
		t.Fatalf("expected empty storage and no header after clear")
	}
}

func TestGuard_Restore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryStore()
	_ = store.Save(ctx, validSession("Admin"))
	guard, credential := newTestGuard(store)

	if !guard.Restore(ctx) {
		t.Fatalf("expected Restore to succeed")
	}
	if token, _ := credential.Token(); token != "token-1" {
		t.Fatalf("expected restored token, got %q", token)
	}
}

func TestGuard_ClearSessionReportsStoreErrors(t *testing.T) {
	t.Parallel()

	expected := errors.New("locked")
	guard, credential := newTestGuard(failingStore{clearErr: expected})
	credential.Install("abc")

	if err := guard.ClearSession(context.Background()); !errors.Is(err, expected) {
		t.Fatalf("expected %v, got %v", expected, err)
	}
	if credential.Header() != "" {
		t.Fatalf("credential must be removed even when storage fails")
	}
}
