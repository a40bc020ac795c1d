package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/example/campus-events/internal/backend"
	"github.com/example/campus-events/internal/logging"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}
	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestServiceLoggerPrefersContextLogger(t *testing.T) {
	t.Parallel()

	var base, scoped bytes.Buffer
	baseLogger := slog.New(slog.NewJSONHandler(&base, nil))
	ctx := logging.ContextWithLogger(context.Background(), slog.New(slog.NewJSONHandler(&scoped, nil)))

	serviceLogger(ctx, baseLogger, "TicketService", "Register", "event_id", "7").Info("hello")

	if base.Len() != 0 {
		t.Fatalf("expected base logger to stay silent, got %q", base.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(scoped.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["service"] != "TicketService" || entry["operation"] != "Register" || entry["event_id"] != "7" {
		t.Fatalf("unexpected log attributes: %#v", entry)
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: ErrUnauthorized, want: "unauthorized"},
		{err: mapBackendError(&backend.StatusError{Status: 404}), want: "not_found"},
		{err: mapLoginError(&backend.StatusError{Status: 401}), want: "invalid_credentials"},
		{err: mapBackendError(&backend.StatusError{Status: 401}), want: "session_expired"},
		{err: &SlotConflictError{Date: "2025-06-12", SlotIDs: []string{"1"}}, want: "slot_taken"},
		{err: ErrAlreadyRegistered, want: "already_registered"},
		{err: &ValidationError{FieldErrors: map[string]string{"title": "x"}}, want: "validation"},
		{err: &backend.StatusError{Status: 500}, want: "backend_status"},
		{err: &backend.EnvelopeError{Message: "nope"}, want: "backend_rejected"},
		{err: &backend.TransportError{Err: errors.New("dial")}, want: "backend_unreachable"},
		{err: errors.New("boom"), want: "unexpected"},
	}
	for _, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
