package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/backend"
	"github.com/example/campus-events/internal/logging"
)

var (
	errBadRequestBody = errors.New("The request body is not valid JSON.")
	errBadQuery       = errors.New("The request has invalid query parameters.")
)

const maxBodyBytes = 1 << 20

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request rejected", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New(backend.FallbackMessage))
		return
	}

	status, body := classify(err)
	logger := r.loggerFor(ctx).With("status", status, "error_kind", application.ErrorKind(err))
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", "error", err)
	} else {
		logger.InfoContext(ctx, "request rejected", "error", err)
	}
	r.writeJSON(ctx, w, status, body)
}

func classify(err error) (int, errorResponse) {
	var (
		vErr     *application.ValidationError
		conflict *application.SlotConflictError
	)
	switch {
	case errors.Is(err, application.ErrSessionExpired):
		return http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_SESSION_EXPIRED",
			Message:   "Your session has expired. Please sign in again.",
			Redirect:  loginPath,
		}
	case errors.Is(err, application.ErrInvalidCredentials):
		message := "Invalid email or password."
		if msg, ok := backendMessage(err); ok {
			message = msg
		}
		return http.StatusUnauthorized, errorResponse{ErrorCode: "AUTH_INVALID_CREDENTIALS", Message: message}
	case errors.Is(err, application.ErrUnauthorized):
		return http.StatusForbidden, errorResponse{ErrorCode: "AUTH_FORBIDDEN", Message: "You are not allowed to perform this action."}
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound, errorResponse{ErrorCode: "NOT_FOUND", Message: "The requested resource was not found."}
	case errors.As(err, &conflict):
		return http.StatusConflict, errorResponse{
			ErrorCode: "SLOT_TAKEN",
			Message:   "Some of the selected slots are no longer available.",
			Errors: map[string]string{
				"slot_ids": fmt.Sprintf("Slot %s is already booked on %s.", strings.Join(conflict.SlotIDs, ", "), conflict.Date),
			},
		}
	case errors.Is(err, application.ErrAlreadyRegistered):
		return http.StatusConflict, errorResponse{ErrorCode: "ALREADY_REGISTERED", Message: "You are already registered for this event."}
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "VALIDATION_FAILED",
			Message:   "Please correct the highlighted fields.",
			Errors:    vErr.FieldErrors,
		}
	}

	var (
		statusErr    *backend.StatusError
		envelopeErr  *backend.EnvelopeError
		transportErr *backend.TransportError
	)
	switch {
	case errors.As(err, &statusErr):
		status := statusErr.Status
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		return status, errorResponse{ErrorCode: "BACKEND_ERROR", Message: backend.Message(err)}
	case errors.As(err, &envelopeErr):
		return http.StatusUnprocessableEntity, errorResponse{ErrorCode: "BACKEND_REJECTED", Message: backend.Message(err)}
	case errors.As(err, &transportErr):
		return http.StatusBadGateway, errorResponse{ErrorCode: "BACKEND_UNREACHABLE", Message: backend.FallbackMessage}
	}
	return http.StatusInternalServerError, errorResponse{Message: backend.FallbackMessage}
}

// backendMessage returns a message the backend wrote itself, if any.
func backendMessage(err error) (string, bool) {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		if msg := strings.TrimSpace(statusErr.Message); msg != "" {
			return msg, true
		}
	}
	var envelopeErr *backend.EnvelopeError
	if errors.As(err, &envelopeErr) {
		if msg := strings.TrimSpace(envelopeErr.Message); msg != "" {
			return msg, true
		}
	}
	return "", false
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(out)
}

func (r responder) rejectBody(ctx context.Context, w http.ResponseWriter, err error) {
	r.loggerFor(ctx).WarnContext(ctx, "failed to decode request body", "error", err)
	r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{ErrorCode: "BAD_REQUEST", Message: errBadRequestBody.Error()})
}

func (r responder) rejectQuery(ctx context.Context, w http.ResponseWriter, err error) {
	r.loggerFor(ctx).WarnContext(ctx, "invalid query parameters", "error", err)
	r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{ErrorCode: "BAD_REQUEST", Message: errBadQuery.Error()})
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	Redirect  string            `json:"redirect,omitempty"`
}
