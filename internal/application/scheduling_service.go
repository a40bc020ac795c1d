package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/campus-events/internal/availability"
	"github.com/example/campus-events/internal/domain"
	"github.com/example/campus-events/internal/session"
)

// EventBackend exposes the event endpoints of the backend.
type EventBackend interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	OrganizerEvents(ctx context.Context, organizerID string) ([]domain.Event, error)
	StaffEvents(ctx context.Context, userID string) ([]domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	CreateEvent(ctx context.Context, event domain.Event) error
	UpdateEvent(ctx context.Context, event domain.Event) error
	ApproveEvent(ctx context.Context, eventID string) error
	RejectEvent(ctx context.Context, eventID string) error
}

// DirectoryReader lists the people that can be attached to an event.
type DirectoryReader interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListSpeakers(ctx context.Context) ([]domain.Speaker, error)
}

// LeadTimes holds the minimum lead time of each event flow.
type LeadTimes struct {
	Create availability.LeadTime
	Update availability.LeadTime
}

// DefaultLeadTimes reproduces the long-standing behaviour: creation only
// forbids past days, updates require three days of notice.
var DefaultLeadTimes = LeadTimes{Create: 0, Update: 3}

const maxTitleLength = 200

// SchedulingService coordinates event authoring, review and the availability
// calendar.
type SchedulingService struct {
	events    EventBackend
	catalog   catalogReader
	directory DirectoryReader
	leads     LeadTimes
	now       func() time.Time
	logger    *slog.Logger
}

// NewSchedulingService constructs a scheduling service with the provided dependencies.
func NewSchedulingService(events EventBackend, catalog CatalogBackend, directory DirectoryReader, cache CatalogCache, leads LeadTimes, now func() time.Time) *SchedulingService {
	return NewSchedulingServiceWithLogger(events, catalog, directory, cache, leads, now, nil)
}

// NewSchedulingServiceWithLogger constructs a scheduling service with a specified logger.
func NewSchedulingServiceWithLogger(events EventBackend, catalog CatalogBackend, directory DirectoryReader, cache CatalogCache, leads LeadTimes, now func() time.Time, logger *slog.Logger) *SchedulingService {
	if now == nil {
		now = time.Now
	}
	return &SchedulingService{
		events:    events,
		catalog:   catalogReader{backend: catalog, cache: cache},
		directory: directory,
		leads:     leads,
		now:       now,
		logger:    defaultLogger(logger),
	}
}

func (s *SchedulingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SchedulingService", operation, attrs...)
}

func (s *SchedulingService) ready() error {
	if s == nil || s.events == nil || s.catalog.backend == nil {
		return fmt.Errorf("SchedulingService is not configured")
	}
	return nil
}

// Venues returns the venue catalog.
func (s *SchedulingService) Venues(ctx context.Context) ([]domain.Venue, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.catalog.venues(ctx, s.loggerWith(ctx, "Venues"))
}

// Slots returns the slot catalog.
func (s *SchedulingService) Slots(ctx context.Context) ([]domain.Slot, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.catalog.slots(ctx, s.loggerWith(ctx, "Slots"))
}

// LoadEventForm fetches venues, slots, users and speakers concurrently. Any
// single failure fails the whole form.
func (s *SchedulingService) LoadEventForm(ctx context.Context, principal Principal) (form EventForm, err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "LoadEventForm", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to load event form", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if !principal.Is(session.RoleAdmin, session.RoleOrganizer) {
		err = ErrUnauthorized
		return
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		venues, err := s.catalog.venues(gctx, logger)
		form.Venues = venues
		return err
	})
	group.Go(func() error {
		slots, err := s.catalog.slots(gctx, logger)
		form.Slots = slots
		return err
	})
	if s.directory != nil {
		group.Go(func() error {
			users, err := s.directory.ListUsers(gctx)
			form.Users = users
			return mapBackendError(err)
		})
		group.Go(func() error {
			speakers, err := s.directory.ListSpeakers(gctx)
			form.Speakers = speakers
			return mapBackendError(err)
		})
	}
	if err = group.Wait(); err != nil {
		form = EventForm{}
	}
	return
}

// occupancy fetches the slot catalog and the blocking events for venueID
// concurrently.
func (s *SchedulingService) occupancy(ctx context.Context, logger *slog.Logger, venueID, editingEventID string) (*availability.Calculator, error) {
	var (
		slots  []domain.Slot
		events []domain.Event
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		slots, err = s.catalog.slots(gctx, logger)
		return err
	})
	group.Go(func() error {
		var err error
		events, err = s.events.ListEvents(gctx)
		return mapBackendError(err)
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	blocking := availability.BlockingForCreate(events)
	if editingEventID != "" {
		blocking = availability.BlockingForUpdate(events, editingEventID)
	}
	calc := availability.New(venueID, slots, blocking)
	if undated := calc.Undated(); len(undated) > 0 {
		logger.WarnContext(ctx, "blocking events without a usable date are not counted as occupied", "venue_id", venueID, "event_ids", undated)
	}
	return calc, nil
}

func (s *SchedulingService) leadFor(editingEventID string) availability.LeadTime {
	if editingEventID != "" {
		return s.leads.Update
	}
	return s.leads.Create
}

// Calendar renders a month for the chosen venue. Without a venue the cells
// carry no occupancy markers and nothing is fetched.
func (s *SchedulingService) Calendar(ctx context.Context, params CalendarParams) (view CalendarView, err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "Calendar",
		"venue_id", params.VenueID,
		"year", params.Year,
		"month", int(params.Month),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to render calendar", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	today := s.now()
	if params.Year == 0 {
		params.Year = today.Year()
	}
	if params.Month == 0 {
		params.Month = today.Month()
	}
	if params.Month < time.January || params.Month > time.December {
		err = &ValidationError{FieldErrors: map[string]string{"month": "Month must be between 1 and 12."}}
		return
	}

	lead := s.leadFor(params.EditingEventID)
	view = CalendarView{
		VenueID: strings.TrimSpace(params.VenueID),
		Year:    params.Year,
		Month:   params.Month,
		Lead:    lead,
	}

	var calc *availability.Calculator
	if view.VenueID != "" {
		calc, err = s.occupancy(ctx, logger, view.VenueID, params.EditingEventID)
		if err != nil {
			view = CalendarView{}
			return
		}
		view.Slots = calc.Slots()
	}
	view.Cells = availability.Month(calc, view.Year, view.Month, today, lead)
	return
}

// SelectableSlots lists the free slots of the venue on a day. A missing venue
// or date yields an empty list.
func (s *SchedulingService) SelectableSlots(ctx context.Context, query SlotQuery) (slots []domain.Slot, err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "SelectableSlots", "venue_id", query.VenueID, "date", query.Date)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list selectable slots", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	venueID := strings.TrimSpace(query.VenueID)
	if venueID == "" || strings.TrimSpace(query.Date) == "" {
		return []domain.Slot{}, nil
	}
	date, parseErr := domain.ParseDay(query.Date)
	if parseErr != nil {
		err = &ValidationError{FieldErrors: map[string]string{"date": "Enter a valid date."}}
		return
	}

	var calc *availability.Calculator
	calc, err = s.occupancy(ctx, logger, venueID, query.EditingEventID)
	if err != nil {
		return
	}
	slots = calc.SelectableSlots(date)
	if slots == nil {
		slots = []domain.Slot{}
	}
	return
}

// CreateEvent validates the input, checks for slot conflicts against approved
// events, and submits the event.
func (s *SchedulingService) CreateEvent(ctx context.Context, params CreateEventParams) (event domain.Event, err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "CreateEvent", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("venue_id", event.VenueID, "date", domain.DayKey(event.EventDate)).InfoContext(ctx, "event submitted")
	}()

	if !params.Principal.Is(session.RoleAdmin, session.RoleOrganizer) {
		err = ErrUnauthorized
		return
	}

	event, err = s.prepareEvent(ctx, logger, params.Input, "")
	if err != nil {
		return
	}
	event.OrganizerID = params.Principal.UserID
	event.Status = domain.StatusPending

	if err = s.events.CreateEvent(ctx, event); err != nil {
		err = mapBackendError(err)
	}
	return
}

// UpdateEvent validates the replacement input with the update lead time and
// checks conflicts against approved and pending events other than itself.
// Organizers may only edit their own events.
func (s *SchedulingService) UpdateEvent(ctx context.Context, params UpdateEventParams) (event domain.Event, err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "UpdateEvent",
		"principal_id", params.Principal.UserID,
		"event_id", params.EventID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event updated")
	}()

	if !params.Principal.Is(session.RoleAdmin, session.RoleOrganizer) {
		err = ErrUnauthorized
		return
	}
	eventID := strings.TrimSpace(params.EventID)
	if eventID == "" {
		err = ErrNotFound
		return
	}

	var existing domain.Event
	existing, err = s.events.GetEvent(ctx, eventID)
	if err != nil {
		err = mapBackendError(err)
		return
	}
	if params.Principal.Role == session.RoleOrganizer && existing.OrganizerID != params.Principal.UserID {
		err = ErrUnauthorized
		return
	}

	event, err = s.prepareEvent(ctx, logger, params.Input, eventID)
	if err != nil {
		return
	}
	event.ID = eventID
	event.OrganizerID = existing.OrganizerID
	event.Status = existing.Status

	if err = s.events.UpdateEvent(ctx, event); err != nil {
		err = mapBackendError(err)
	}
	return
}

func (s *SchedulingService) prepareEvent(ctx context.Context, logger *slog.Logger, input EventInput, editingEventID string) (domain.Event, error) {
	event, vErr := s.validateEventInput(input, s.leadFor(editingEventID))
	if vErr.HasErrors() {
		return domain.Event{}, vErr
	}

	calc, err := s.occupancy(ctx, logger, event.VenueID, editingEventID)
	if err != nil {
		return domain.Event{}, err
	}
	known := make(map[string]bool)
	for _, slot := range calc.Slots() {
		known[slot.ID] = true
	}
	for _, id := range event.SlotIDs {
		if !known[id] {
			return domain.Event{}, &ValidationError{FieldErrors: map[string]string{"slot_ids": fmt.Sprintf("Unknown slot %s.", id)}}
		}
	}
	if taken := calc.Conflicts(event.EventDate, event.SlotIDs); len(taken) > 0 {
		return domain.Event{}, &SlotConflictError{Date: domain.DayKey(event.EventDate), SlotIDs: taken}
	}
	return event, nil
}

func (s *SchedulingService) validateEventInput(input EventInput, lead availability.LeadTime) (domain.Event, *ValidationError) {
	vErr := &ValidationError{}
	event := domain.Event{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		VenueID:     strings.TrimSpace(input.VenueID),
		SlotIDs:     uniqueIDs(input.SlotIDs),
		SpeakerIDs:  uniqueIDs(input.SpeakerIDs),
		StaffIDs:    uniqueIDs(input.StaffIDs),
	}

	switch {
	case event.Title == "":
		vErr.add("title", "Title is required.")
	case len([]rune(event.Title)) > maxTitleLength:
		vErr.add("title", fmt.Sprintf("Title must be at most %d characters.", maxTitleLength))
	}
	if event.VenueID == "" {
		vErr.add("venue_id", "Choose a venue.")
	}
	if len(event.SlotIDs) == 0 {
		vErr.add("slot_ids", "Choose at least one slot.")
	}

	if strings.TrimSpace(input.EventDate) == "" {
		vErr.add("event_date", "Choose a date.")
	} else if date, err := domain.ParseDay(input.EventDate); err != nil {
		vErr.add("event_date", "Enter a valid date.")
	} else if !lead.Selectable(date, s.now()) {
		if lead > 0 {
			vErr.add("event_date", fmt.Sprintf("Choose a date at least %d days from today.", int(lead)))
		} else {
			vErr.add("event_date", "The date cannot be in the past.")
		}
	} else {
		event.EventDate = date
	}
	return event, vErr
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ApproveEvent marks an event approved. Administrators only.
func (s *SchedulingService) ApproveEvent(ctx context.Context, params ReviewEventParams) error {
	return s.review(ctx, "ApproveEvent", params, true)
}

// RejectEvent marks an event rejected. Administrators only.
func (s *SchedulingService) RejectEvent(ctx context.Context, params ReviewEventParams) error {
	return s.review(ctx, "RejectEvent", params, false)
}

func (s *SchedulingService) review(ctx context.Context, operation string, params ReviewEventParams, approve bool) (err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, operation,
		"principal_id", params.Principal.UserID,
		"event_id", params.EventID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "event review failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event reviewed")
	}()

	if !params.Principal.Is(session.RoleAdmin) {
		err = ErrUnauthorized
		return
	}
	eventID := strings.TrimSpace(params.EventID)
	if eventID == "" {
		err = ErrNotFound
		return
	}
	if approve {
		return mapBackendError(s.events.ApproveEvent(ctx, eventID))
	}
	return mapBackendError(s.events.RejectEvent(ctx, eventID))
}

// ListEvents returns a page of all events. Students only ever see approved
// events.
func (s *SchedulingService) ListEvents(ctx context.Context, params ListEventsParams) (EventPage, error) {
	if err := s.ready(); err != nil {
		return EventPage{}, err
	}
	filter := params.Filter
	if params.Principal.Role == session.RoleStudent || !params.Principal.Role.Valid() {
		filter.Status = domain.StatusApproved
	}
	return s.listing(ctx, "ListEvents", params.Principal, filter, s.events.ListEvents)
}

// MyEvents returns a page of the events organised by the principal.
func (s *SchedulingService) MyEvents(ctx context.Context, params ListEventsParams) (EventPage, error) {
	if err := s.ready(); err != nil {
		return EventPage{}, err
	}
	if !params.Principal.Is(session.RoleAdmin, session.RoleOrganizer) {
		return EventPage{}, ErrUnauthorized
	}
	fetch := func(ctx context.Context) ([]domain.Event, error) {
		return s.events.OrganizerEvents(ctx, params.Principal.UserID)
	}
	return s.listing(ctx, "MyEvents", params.Principal, params.Filter, fetch)
}

// StaffEvents returns a page of the events the principal staffs.
func (s *SchedulingService) StaffEvents(ctx context.Context, params ListEventsParams) (EventPage, error) {
	if err := s.ready(); err != nil {
		return EventPage{}, err
	}
	if !params.Principal.Is(session.RoleStaff) {
		return EventPage{}, ErrUnauthorized
	}
	fetch := func(ctx context.Context) ([]domain.Event, error) {
		return s.events.StaffEvents(ctx, params.Principal.UserID)
	}
	return s.listing(ctx, "StaffEvents", params.Principal, params.Filter, fetch)
}

func (s *SchedulingService) listing(ctx context.Context, operation string, principal Principal, filter EventFilter, fetch func(context.Context) ([]domain.Event, error)) (page EventPage, err error) {
	logger := s.loggerWith(ctx, operation, "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list events", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("total", page.Total, "page", page.Page).DebugContext(ctx, "events listed")
	}()

	var events []domain.Event
	events, err = fetch(ctx)
	if err != nil {
		err = mapBackendError(err)
		return
	}
	page = filter.Apply(events)
	return
}

// GetEvent returns one event. Students may only open approved events.
func (s *SchedulingService) GetEvent(ctx context.Context, principal Principal, eventID string) (domain.Event, error) {
	if err := s.ready(); err != nil {
		return domain.Event{}, err
	}
	event, err := s.events.GetEvent(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return domain.Event{}, mapBackendError(err)
	}
	if !principal.Is(session.RoleAdmin, session.RoleOrganizer, session.RoleStaff) && event.Status != domain.StatusApproved {
		return domain.Event{}, ErrNotFound
	}
	return event, nil
}

// CreateVenue adds a venue and drops the cached catalogs.
func (s *SchedulingService) CreateVenue(ctx context.Context, principal Principal, input VenueInput) (err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "CreateVenue", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create venue", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "venue created")
	}()

	if !principal.Is(session.RoleAdmin) {
		err = ErrUnauthorized
		return
	}
	venue := domain.Venue{
		Name:     strings.TrimSpace(input.Name),
		Location: strings.TrimSpace(input.Location),
		Capacity: input.Capacity,
	}
	vErr := &ValidationError{}
	if venue.Name == "" {
		vErr.add("name", "Name is required.")
	}
	if venue.Capacity < 0 {
		vErr.add("capacity", "Capacity cannot be negative.")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}
	if err = s.catalog.backend.CreateVenue(ctx, venue); err != nil {
		err = mapBackendError(err)
		return
	}
	s.catalog.invalidate(ctx, logger)
	return
}

// CreateSlot adds a slot and drops the cached catalogs.
func (s *SchedulingService) CreateSlot(ctx context.Context, principal Principal, input SlotInput) (err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "CreateSlot", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create slot", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "slot created")
	}()

	if !principal.Is(session.RoleAdmin) {
		err = ErrUnauthorized
		return
	}
	slot := domain.Slot{
		Name:  strings.TrimSpace(input.Name),
		Start: strings.TrimSpace(input.Start),
		End:   strings.TrimSpace(input.End),
	}
	vErr := &ValidationError{}
	if slot.Name == "" {
		vErr.add("name", "Name is required.")
	}
	start, startErr := parseClock(slot.Start)
	if startErr != nil {
		vErr.add("start", "Use HH:MM for the start time.")
	}
	end, endErr := parseClock(slot.End)
	if endErr != nil {
		vErr.add("end", "Use HH:MM for the end time.")
	}
	if startErr == nil && endErr == nil && !end.After(start) {
		vErr.add("end", "End time must be after the start time.")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}
	if err = s.catalog.backend.CreateSlot(ctx, slot); err != nil {
		err = mapBackendError(err)
		return
	}
	s.catalog.invalidate(ctx, logger)
	return
}

func parseClock(value string) (time.Time, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q", value)
}
