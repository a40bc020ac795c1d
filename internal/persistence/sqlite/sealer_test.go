package sqlite

import (
	"bytes"
	"errors"
	"testing"

	"github.com/example/campus-events/internal/persistence"
)

func TestSealer(t *testing.T) {
	t.Parallel()

	salt := bytes.Repeat([]byte{7}, saltSize)
	sealer, err := NewSealer("correct horse", salt, testKeyParams)
	if err != nil {
		t.Fatalf("NewSealer failed: %v", err)
	}

	first, err := sealer.Seal("token-value")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	second, err := sealer.Seal("token-value")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if first == second {
		t.Fatalf("each seal must use a fresh nonce")
	}

	opened, err := sealer.Open(first)
	if err != nil || opened != "token-value" {
		t.Fatalf("Open = %q, %v", opened, err)
	}

	other, err := NewSealer("battery staple", salt, testKeyParams)
	if err != nil {
		t.Fatalf("NewSealer failed: %v", err)
	}
	if _, err := other.Open(first); !errors.Is(err, persistence.ErrSealed) {
		t.Fatalf("expected ErrSealed for foreign key, got %v", err)
	}

	for _, bad := range []string{"", "token-value", sealPrefix + "!!!", sealPrefix + "AAAA"} {
		if _, err := sealer.Open(bad); !errors.Is(err, persistence.ErrSealed) {
			t.Fatalf("Open(%q) expected ErrSealed, got %v", bad, err)
		}
	}
}

func TestNewSealerValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewSealer(" ", make([]byte, saltSize), testKeyParams); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewSealer("secret", []byte{1, 2}, testKeyParams); err == nil {
		t.Fatalf("expected error for short salt")
	}
}
