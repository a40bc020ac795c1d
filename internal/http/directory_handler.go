package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/domain"
	"github.com/example/campus-events/internal/session"
)

type directoryService interface {
	ListUsers(ctx context.Context, principal application.Principal, filter application.UserFilter) ([]domain.User, error)
	CreateUser(ctx context.Context, principal application.Principal, input application.UserInput) error
	UpdateUser(ctx context.Context, principal application.Principal, userID string, input application.UserInput) error
	DeleteUser(ctx context.Context, principal application.Principal, userID string) error
	ListSpeakers(ctx context.Context, principal application.Principal) ([]domain.Speaker, error)
	SaveSpeaker(ctx context.Context, principal application.Principal, speakerID string, input application.SpeakerInput) error
	DeleteSpeaker(ctx context.Context, principal application.Principal, speakerID string) error
}

// DirectoryHandler serves account and speaker management.
type DirectoryHandler struct {
	service   directoryService
	responder responder
}

func NewDirectoryHandler(service directoryService, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{service: service, responder: newResponder(logger)}
}

func (h *DirectoryHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *DirectoryHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)
	query := r.URL.Query()
	users, err := h.service.ListUsers(ctx, principal, application.UserFilter{
		Role:  session.ParseRole(query.Get("role")),
		Query: query.Get("q"),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, mapSlice(users, newUserDTO))
}

func (h *DirectoryHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.rejectBody(ctx, w, err)
		return
	}
	principal, _ := PrincipalFromContext(ctx)
	if err := h.service.CreateUser(ctx, principal, req.toInput()); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

func (h *DirectoryHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.rejectBody(ctx, w, err)
		return
	}
	principal, _ := PrincipalFromContext(ctx)
	if err := h.service.UpdateUser(ctx, principal, r.PathValue("id"), req.toInput()); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

func (h *DirectoryHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)
	if err := h.service.DeleteUser(ctx, principal, r.PathValue("id")); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

func (h *DirectoryHandler) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)
	speakers, err := h.service.ListSpeakers(ctx, principal)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, mapSlice(speakers, newSpeakerDTO))
}

// SaveSpeaker creates a speaker on POST /speakers and updates one on
// PUT /speakers/{id}.
func (h *DirectoryHandler) SaveSpeaker(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	var req speakerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.rejectBody(ctx, w, err)
		return
	}
	principal, _ := PrincipalFromContext(ctx)
	input := application.SpeakerInput{Name: req.Name, Email: req.Email, Bio: req.Bio}
	if err := h.service.SaveSpeaker(ctx, principal, r.PathValue("id"), input); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

func (h *DirectoryHandler) DeleteSpeaker(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)
	if err := h.service.DeleteSpeaker(ctx, principal, r.PathValue("id")); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}
