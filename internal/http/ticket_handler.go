package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/domain"
)

type ticketService interface {
	Register(ctx context.Context, principal application.Principal, eventID string) (domain.Ticket, error)
	MyTickets(ctx context.Context, principal application.Principal) ([]domain.Ticket, error)
	Cancel(ctx context.Context, principal application.Principal, ticketID string) error
	QRCode(ctx context.Context, principal application.Principal, ticketID string) (application.QRImage, error)
	Scan(ctx context.Context, principal application.Principal, payload string) (domain.Ticket, error)
}

// TicketHandler serves student tickets and staff check-in.
type TicketHandler struct {
	service   ticketService
	responder responder
	logger    *slog.Logger
}

func NewTicketHandler(service ticketService, logger *slog.Logger) *TicketHandler {
	base := defaultLogger(logger)
	return &TicketHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TicketHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)
	tickets, err := h.service.MyTickets(ctx, principal)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, mapSlice(tickets, newTicketDTO))
}

func (h *TicketHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	var req ticketRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.rejectBody(ctx, w, err)
		return
	}
	principal, _ := PrincipalFromContext(ctx)
	ticket, err := h.service.Register(ctx, principal, req.EventID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusCreated, newTicketDTO(ticket))
}

func (h *TicketHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)
	if err := h.service.Cancel(ctx, principal, r.PathValue("id")); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

func (h *TicketHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)
	image, err := h.service.QRCode(ctx, principal, r.PathValue("id"))
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	w.Header().Set("Content-Type", image.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(image.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image.Data); err != nil {
		handlerLogger(ctx, h.logger, "TicketHandler", "QRCode").ErrorContext(ctx, "failed to write ticket image", "error", err)
	}
}

func (h *TicketHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	var req scanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.rejectBody(ctx, w, err)
		return
	}
	principal, _ := PrincipalFromContext(ctx)
	ticket, err := h.service.Scan(ctx, principal, req.Payload)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, newTicketDTO(ticket))
}
