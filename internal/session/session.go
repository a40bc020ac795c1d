// Package session owns the locally cached proof of authentication: the
// persisted Session record, the default bearer credential attached to
// outgoing backend requests, and the role gate for protected views.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/example/campus-events/internal/domain"
)

// Storage keys under which the Session fields are persisted.
const (
	KeyToken     = "token"
	KeyUserID    = "userId"
	KeyUserName  = "userName"
	KeyEmail     = "email"
	KeyRoleName  = "roleName"
	KeyExpiresAt = "expiresAt"
)

// Keys lists every persisted Session key.
var Keys = []string{KeyToken, KeyUserID, KeyUserName, KeyEmail, KeyRoleName, KeyExpiresAt}

// ErrMalformedExpiry is returned when ExpiresAt cannot be parsed.
var ErrMalformedExpiry = errors.New("session: malformed expiry")

// Session is the credential and profile cached at login. It is replaced
// wholesale on re-login and never mutated in place.
type Session struct {
	Token     string
	UserID    string
	UserName  string
	Email     string
	RoleName  string
	ExpiresAt string
}

// Empty reports whether no field is populated.
func (s Session) Empty() bool {
	return s == Session{}
}

// Role returns the enumerated role of the session.
func (s Session) Role() Role {
	return ParseRole(s.RoleName)
}

// Expiry parses ExpiresAt.
func (s Session) Expiry() (time.Time, error) {
	raw := strings.TrimSpace(s.ExpiresAt)
	if raw == "" {
		return time.Time{}, ErrMalformedExpiry
	}
	t, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, ErrMalformedExpiry
	}
	return t, nil
}

// Fields returns the session as its persisted key/value form.
func (s Session) Fields() map[string]string {
	return map[string]string{
		KeyToken:     s.Token,
		KeyUserID:    s.UserID,
		KeyUserName:  s.UserName,
		KeyEmail:     s.Email,
		KeyRoleName:  s.RoleName,
		KeyExpiresAt: s.ExpiresAt,
	}
}

// FromFields rebuilds a Session from persisted key/value pairs. Missing keys
// leave the corresponding field empty.
func FromFields(fields map[string]string) Session {
	return Session{
		Token:     fields[KeyToken],
		UserID:    fields[KeyUserID],
		UserName:  fields[KeyUserName],
		Email:     fields[KeyEmail],
		RoleName:  fields[KeyRoleName],
		ExpiresAt: fields[KeyExpiresAt],
	}
}

// Store persists the single process-wide Session. Load returns the zero
// Session when nothing is stored.
type Store interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, session Session) error
	Clear(ctx context.Context) error
}
