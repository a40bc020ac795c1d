package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/domain"
)

type catalogService interface {
	Venues(ctx context.Context) ([]domain.Venue, error)
	Slots(ctx context.Context) ([]domain.Slot, error)
	CreateVenue(ctx context.Context, principal application.Principal, input application.VenueInput) error
	CreateSlot(ctx context.Context, principal application.Principal, input application.SlotInput) error
}

// CatalogHandler serves the venue and slot catalogs.
type CatalogHandler struct {
	service   catalogService
	responder responder
}

func NewCatalogHandler(service catalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, responder: newResponder(logger)}
}

func (h *CatalogHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *CatalogHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	venues, err := h.service.Venues(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, mapSlice(venues, newVenueDTO))
}

func (h *CatalogHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	var req venueRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.rejectBody(ctx, w, err)
		return
	}
	principal, _ := PrincipalFromContext(ctx)
	err := h.service.CreateVenue(ctx, principal, application.VenueInput{Name: req.Name, Location: req.Location, Capacity: req.Capacity})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	slots, err := h.service.Slots(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, mapSlice(slots, newSlotDTO))
}

func (h *CatalogHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	var req slotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.rejectBody(ctx, w, err)
		return
	}
	principal, _ := PrincipalFromContext(ctx)
	if err := h.service.CreateSlot(ctx, principal, application.SlotInput{Name: req.Name, Start: req.Start, End: req.End}); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}
