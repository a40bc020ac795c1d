package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/example/campus-events/internal/backend"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrInvalidCredentials is returned when the backend rejects a login attempt.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSessionExpired is returned when the backend no longer accepts the installed credential.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSlotTaken is returned when a requested slot is already occupied on the chosen day.
	ErrSlotTaken = errors.New("application: slot already taken")
	// ErrAlreadyRegistered is returned when a student already holds a ticket for the event.
	ErrAlreadyRegistered = errors.New("application: already registered")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error. The first message per field wins.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if _, exists := v.FieldErrors[field]; exists {
		return
	}
	v.FieldErrors[field] = message
}

// SlotConflictError lists the requested slots that are already occupied.
type SlotConflictError struct {
	Date    string
	SlotIDs []string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slots %s already taken on %s", strings.Join(e.SlotIDs, ", "), e.Date)
}

// Is matches ErrSlotTaken.
func (e *SlotConflictError) Is(target error) bool {
	return target == ErrSlotTaken
}

// mapBackendError folds backend status classes into application sentinels
// while keeping the backend error in the chain for its message.
func mapBackendError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, backend.ErrUnauthorized):
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	case errors.Is(err, backend.ErrForbidden):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case errors.Is(err, backend.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
