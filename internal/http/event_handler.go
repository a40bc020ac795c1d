package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/domain"
)

type eventService interface {
	ListEvents(ctx context.Context, params application.ListEventsParams) (application.EventPage, error)
	MyEvents(ctx context.Context, params application.ListEventsParams) (application.EventPage, error)
	StaffEvents(ctx context.Context, params application.ListEventsParams) (application.EventPage, error)
	GetEvent(ctx context.Context, principal application.Principal, eventID string) (domain.Event, error)
	CreateEvent(ctx context.Context, params application.CreateEventParams) (domain.Event, error)
	UpdateEvent(ctx context.Context, params application.UpdateEventParams) (domain.Event, error)
	ApproveEvent(ctx context.Context, params application.ReviewEventParams) error
	RejectEvent(ctx context.Context, params application.ReviewEventParams) error
	LoadEventForm(ctx context.Context, principal application.Principal) (application.EventForm, error)
	Calendar(ctx context.Context, params application.CalendarParams) (application.CalendarView, error)
	SelectableSlots(ctx context.Context, query application.SlotQuery) ([]domain.Slot, error)
}

// EventHandler serves event listings, authoring, review and the
// availability calendar.
type EventHandler struct {
	service   eventService
	responder responder
	now       func() time.Time
	logger    *slog.Logger
}

func NewEventHandler(service eventService, now func() time.Time, logger *slog.Logger) *EventHandler {
	if now == nil {
		now = time.Now
	}
	base := defaultLogger(logger)
	return &EventHandler{service: service, responder: newResponder(base), now: now, logger: base}
}

func (h *EventHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

type listFunc func(ctx context.Context, params application.ListEventsParams) (application.EventPage, error)

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request, fetch listFunc) {
	ctx := r.Context()
	filter, err := parseEventFilter(r.URL.Query())
	if err != nil {
		h.responder.rejectQuery(ctx, w, err)
		return
	}
	principal, _ := PrincipalFromContext(ctx)
	page, err := fetch(ctx, application.ListEventsParams{Principal: principal, Filter: filter})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, newEventPageDTO(page))
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.ready(w) {
		h.list(w, r, h.service.ListEvents)
	}
}

func (h *EventHandler) Mine(w http.ResponseWriter, r *http.Request) {
	if h.ready(w) {
		h.list(w, r, h.service.MyEvents)
	}
}

func (h *EventHandler) Staffed(w http.ResponseWriter, r *http.Request) {
	if h.ready(w) {
		h.list(w, r, h.service.StaffEvents)
	}
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)
	event, err := h.service.GetEvent(ctx, principal, r.PathValue("id"))
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, newEventDTO(event))
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()

	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.rejectBody(ctx, w, err)
		return
	}

	principal, _ := PrincipalFromContext(ctx)
	event, err := h.service.CreateEvent(ctx, application.CreateEventParams{Principal: principal, Input: req.toInput()})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusCreated, newEventDTO(event))
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()

	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.rejectBody(ctx, w, err)
		return
	}

	principal, _ := PrincipalFromContext(ctx)
	event, err := h.service.UpdateEvent(ctx, application.UpdateEventParams{
		Principal: principal,
		EventID:   r.PathValue("id"),
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, newEventDTO(event))
}

func (h *EventHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if h.ready(w) {
		h.review(w, r, h.service.ApproveEvent)
	}
}

func (h *EventHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if h.ready(w) {
		h.review(w, r, h.service.RejectEvent)
	}
}

func (h *EventHandler) review(w http.ResponseWriter, r *http.Request, apply func(context.Context, application.ReviewEventParams) error) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)
	if err := apply(ctx, application.ReviewEventParams{Principal: principal, EventID: r.PathValue("id")}); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

func (h *EventHandler) Form(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)
	form, err := h.service.LoadEventForm(ctx, principal)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, newEventFormDTO(form))
}

func (h *EventHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	query := r.URL.Query()

	params := application.CalendarParams{
		VenueID:        query.Get("venue_id"),
		EditingEventID: query.Get("editing_event_id"),
	}
	var err error
	if params.Year, err = optionalInt(query, "year"); err != nil {
		h.responder.rejectQuery(ctx, w, err)
		return
	}
	month, err := optionalInt(query, "month")
	if err != nil {
		h.responder.rejectQuery(ctx, w, err)
		return
	}
	params.Month = time.Month(month)

	view, err := h.service.Calendar(ctx, params)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, newCalendarDTO(view, h.now()))
}

func (h *EventHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	ctx := r.Context()
	query := r.URL.Query()
	slots, err := h.service.SelectableSlots(ctx, application.SlotQuery{
		VenueID:        query.Get("venue_id"),
		Date:           query.Get("date"),
		EditingEventID: query.Get("editing_event_id"),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, mapSlice(slots, newSlotDTO))
}

func parseEventFilter(query url.Values) (application.EventFilter, error) {
	filter := application.EventFilter{
		VenueID: strings.TrimSpace(query.Get("venue_id")),
		Query:   query.Get("q"),
	}

	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		filter.Status = domain.ParseEventStatus(raw)
		if filter.Status == domain.StatusUnknown {
			return filter, fmt.Errorf("unknown status %q", raw)
		}
	}

	switch sort := strings.ToLower(strings.TrimSpace(query.Get("sort"))); sort {
	case "", string(application.SortByDate):
		filter.Sort = application.SortByDate
	case string(application.SortByTitle):
		filter.Sort = application.SortByTitle
	default:
		return filter, fmt.Errorf("unknown sort %q", sort)
	}

	switch order := strings.ToLower(strings.TrimSpace(query.Get("order"))); order {
	case "", "asc":
	case "desc":
		filter.Descending = true
	default:
		return filter, fmt.Errorf("unknown order %q", order)
	}

	for key, target := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		raw := strings.TrimSpace(query.Get(key))
		if raw == "" {
			continue
		}
		day, err := domain.ParseDay(raw)
		if err != nil {
			return filter, fmt.Errorf("parse %s: %w", key, err)
		}
		*target = day
	}

	var err error
	if filter.Page, err = optionalInt(query, "page"); err != nil {
		return filter, err
	}
	if filter.PageSize, err = optionalInt(query, "page_size"); err != nil {
		return filter, err
	}
	return filter, nil
}

func optionalInt(query url.Values, key string) (int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}
