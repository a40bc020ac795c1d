package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/campus-events/internal/application"
)

type feedbackService interface {
	Submit(ctx context.Context, principal application.Principal, input application.FeedbackInput) error
	List(ctx context.Context, principal application.Principal, eventID string) (application.FeedbackSummary, error)
}

// FeedbackHandler serves event ratings.
type FeedbackHandler struct {
	service   feedbackService
	responder responder
}

func NewFeedbackHandler(service feedbackService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{service: service, responder: newResponder(logger)}
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)
	summary, err := h.service.List(ctx, principal, r.URL.Query().Get("event_id"))
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, feedbackSummaryDTO{
		Items:   mapSlice(summary.Items, newFeedbackDTO),
		Count:   summary.Count,
		Average: summary.Average,
	})
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()
	var req feedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.rejectBody(ctx, w, err)
		return
	}
	principal, _ := PrincipalFromContext(ctx)
	err := h.service.Submit(ctx, principal, application.FeedbackInput{EventID: req.EventID, Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}
