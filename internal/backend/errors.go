package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches a StatusError carrying 401.
	ErrUnauthorized = errors.New("backend: unauthorized")
	// ErrForbidden matches a StatusError carrying 403.
	ErrForbidden = errors.New("backend: forbidden")
	// ErrNotFound matches a StatusError carrying 404.
	ErrNotFound = errors.New("backend: not found")
)

// FallbackMessage is shown when neither the backend nor the status code
// offers anything better.
const FallbackMessage = "Something went wrong. Please try again."

// TransportError reports that the request never produced an HTTP response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response. Message holds the backend-supplied
// text, if any.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("backend: %s %s: status %d", e.Method, e.Path, e.Status)
}

// Is lets callers match status classes with errors.Is.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// EnvelopeError reports a 2xx response whose envelope declared success=false.
type EnvelopeError struct {
	Method  string
	Path    string
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: %s %s: request was not successful", e.Method, e.Path)
	}
	return fmt.Sprintf("backend: %s %s: %s", e.Method, e.Path, e.Message)
}

// Message extracts the text to show a user for err: the backend message
// first, then the generic HTTP status text, then FallbackMessage.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if msg := strings.TrimSpace(statusErr.Message); msg != "" {
			return msg
		}
		if text := http.StatusText(statusErr.Status); text != "" {
			return text
		}
		return FallbackMessage
	}
	var envErr *EnvelopeError
	if errors.As(err, &envErr) {
		if msg := strings.TrimSpace(envErr.Message); msg != "" {
			return msg
		}
	}
	return FallbackMessage
}
