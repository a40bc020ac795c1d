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

func TestDirectoryService_Users(t *testing.T) {
	ctx := context.Background()
	b := testfixtures.NewBackend()
	svc := NewDirectoryServiceWithLogger(b, quietLogger())
	admin := principalFor(session.RoleAdmin)

	t.Run("list filters and sorts", func(t *testing.T) {
		users, err := svc.ListUsers(ctx, admin, UserFilter{})
		if err != nil {
			t.Fatalf("ListUsers returned error: %v", err)
		}
		if len(users) != 4 || users[0].Name != "Ada Admin" || users[3].Name != "Stu Student" {
			t.Fatalf("unexpected order: %#v", users)
		}
		staff, err := svc.ListUsers(ctx, admin, UserFilter{Role: session.RoleStaff})
		if err != nil || len(staff) != 1 || staff[0].ID != "30" {
			t.Fatalf("unexpected role filter result: %#v (%v)", staff, err)
		}
		found, err := svc.ListUsers(ctx, admin, UserFilter{Query: "OLU@"})
		if err != nil || len(found) != 1 || found[0].ID != "20" {
			t.Fatalf("unexpected query result: %#v (%v)", found, err)
		}
		if _, err := svc.ListUsers(ctx, principalFor(session.RoleOrganizer), UserFilter{}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("create normalises input", func(t *testing.T) {
		err := svc.CreateUser(ctx, admin, UserInput{Name: " Nia ", Email: "NIA@campus.edu", Password: "longenough", RoleName: "staff"})
		if err != nil {
			t.Fatalf("CreateUser returned error: %v", err)
		}
		if got := b.Password("nia@campus.edu"); got != "longenough" {
			t.Fatalf("expected password to reach the backend, got %q", got)
		}
		users, _ := svc.ListUsers(ctx, admin, UserFilter{Role: session.RoleStaff})
		if len(users) != 2 {
			t.Fatalf("expected the new staff account, got %#v", users)
		}
	})

	t.Run("create validation", func(t *testing.T) {
		err := svc.CreateUser(ctx, admin, UserInput{Email: "bad", Password: "short", RoleName: "wizard"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"name", "email", "password", "role"} {
			if vErr.FieldErrors[field] == "" {
				t.Fatalf("expected %s error, got %#v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("backend conflict keeps its message", func(t *testing.T) {
		err := svc.CreateUser(ctx, admin, UserInput{Name: "Dup", Email: "ada@campus.edu", Password: "longenough", RoleName: "Admin"})
		var statusErr *backend.StatusError
		if !errors.As(err, &statusErr) || statusErr.Status != http.StatusConflict {
			t.Fatalf("expected conflict status, got %v", err)
		}
	})

	t.Run("update does not require a password", func(t *testing.T) {
		if err := svc.UpdateUser(ctx, admin, "40", UserInput{Name: "Stu Renamed", Email: "stu@campus.edu", RoleName: "Student"}); err != nil {
			t.Fatalf("UpdateUser returned error: %v", err)
		}
		if err := svc.UpdateUser(ctx, admin, "404", UserInput{Name: "x", Email: "x@campus.edu", RoleName: "Student"}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete refuses the own account", func(t *testing.T) {
		var vErr *ValidationError
		if err := svc.DeleteUser(ctx, admin, admin.UserID); !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if err := svc.DeleteUser(ctx, admin, "40"); err != nil {
			t.Fatalf("DeleteUser returned error: %v", err)
		}
	})
}

func TestDirectoryService_Speakers(t *testing.T) {
	ctx := context.Background()
	b := testfixtures.NewBackend()
	svc := NewDirectoryServiceWithLogger(b, quietLogger())
	organizer := principalFor(session.RoleOrganizer)

	speakers, err := svc.ListSpeakers(ctx, principalFor(session.RoleStudent))
	if err != nil || len(speakers) != 2 || speakers[0].Name != "Alan Kay" {
		t.Fatalf("unexpected speakers: %#v (%v)", speakers, err)
	}
	if _, err := svc.ListSpeakers(ctx, Principal{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without a role, got %v", err)
	}

	if err := svc.SaveSpeaker(ctx, organizer, "", SpeakerInput{Name: "Barbara Liskov"}); err != nil {
		t.Fatalf("SaveSpeaker create returned error: %v", err)
	}
	if err := svc.SaveSpeaker(ctx, organizer, "2", SpeakerInput{Name: "Alan C. Kay", Email: "ALAN@example.org"}); err != nil {
		t.Fatalf("SaveSpeaker update returned error: %v", err)
	}
	speakers, _ = b.ListSpeakers(ctx)
	if len(speakers) != 3 || speakers[1].Email != "alan@example.org" {
		t.Fatalf("unexpected speakers after save: %#v", speakers)
	}

	var vErr *ValidationError
	if err := svc.SaveSpeaker(ctx, organizer, "", SpeakerInput{Name: "x", Email: "nope"}); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if err := svc.DeleteSpeaker(ctx, principalFor(session.RoleStaff), "1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := svc.DeleteSpeaker(ctx, organizer, "1"); err != nil {
		t.Fatalf("DeleteSpeaker returned error: %v", err)
	}
}
