package http

import (
	"time"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/availability"
	"github.com/example/campus-events/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	IDToken string `json:"id_token"`
}

type eventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	VenueID     string   `json:"venue_id"`
	EventDate   string   `json:"event_date"`
	SlotIDs     []string `json:"slot_ids"`
	SpeakerIDs  []string `json:"speaker_ids"`
	StaffIDs    []string `json:"staff_ids"`
}

func (r eventRequest) toInput() application.EventInput {
	return application.EventInput{
		Title:       r.Title,
		Description: r.Description,
		VenueID:     r.VenueID,
		EventDate:   r.EventDate,
		SlotIDs:     r.SlotIDs,
		SpeakerIDs:  r.SpeakerIDs,
		StaffIDs:    r.StaffIDs,
	}
}

type venueRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
}

type slotRequest struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type ticketRequest struct {
	EventID string `json:"event_id"`
}

type scanRequest struct {
	Payload string `json:"payload"`
}

type feedbackRequest struct {
	EventID string `json:"event_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

func (r userRequest) toInput() application.UserInput {
	return application.UserInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		RoleName: r.Role,
		Phone:    r.Phone,
	}
}

type speakerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio"`
}

type eventDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	VenueID     string   `json:"venue_id"`
	EventDate   string   `json:"event_date,omitempty"`
	SlotIDs     []string `json:"slot_ids"`
	Status      string   `json:"status"`
	OrganizerID string   `json:"organizer_id,omitempty"`
	SpeakerIDs  []string `json:"speaker_ids,omitempty"`
	StaffIDs    []string `json:"staff_ids,omitempty"`
}

func newEventDTO(event domain.Event) eventDTO {
	dto := eventDTO{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		VenueID:     event.VenueID,
		SlotIDs:     nonNil(event.SlotIDs),
		Status:      event.Status.String(),
		OrganizerID: event.OrganizerID,
		SpeakerIDs:  event.SpeakerIDs,
		StaffIDs:    event.StaffIDs,
	}
	if !event.EventDate.IsZero() {
		dto.EventDate = domain.DayKey(event.EventDate)
	}
	return dto
}

type eventPageDTO struct {
	Items    []eventDTO `json:"items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Pages    int        `json:"pages"`
}

func newEventPageDTO(page application.EventPage) eventPageDTO {
	return eventPageDTO{
		Items:    mapSlice(page.Items, newEventDTO),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
		Pages:    page.Pages,
	}
}

type venueDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Capacity int    `json:"capacity"`
}

func newVenueDTO(venue domain.Venue) venueDTO {
	return venueDTO{ID: venue.ID, Name: venue.Name, Location: venue.Location, Capacity: venue.Capacity}
}

type slotDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func newSlotDTO(slot domain.Slot) slotDTO {
	return slotDTO{ID: slot.ID, Name: slot.Name, Start: slot.Start, End: slot.End}
}

type userDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
}

func newUserDTO(user domain.User) userDTO {
	return userDTO{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.RoleName, Phone: user.Phone}
}

type speakerDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

func newSpeakerDTO(speaker domain.Speaker) speakerDTO {
	return speakerDTO{ID: speaker.ID, Name: speaker.Name, Email: speaker.Email, Bio: speaker.Bio}
}

type eventFormDTO struct {
	Venues   []venueDTO   `json:"venues"`
	Slots    []slotDTO    `json:"slots"`
	Users    []userDTO    `json:"users"`
	Speakers []speakerDTO `json:"speakers"`
}

func newEventFormDTO(form application.EventForm) eventFormDTO {
	return eventFormDTO{
		Venues:   mapSlice(form.Venues, newVenueDTO),
		Slots:    mapSlice(form.Slots, newSlotDTO),
		Users:    mapSlice(form.Users, newUserDTO),
		Speakers: mapSlice(form.Speakers, newSpeakerDTO),
	}
}

type dayDTO struct {
	Date       string             `json:"date"`
	State      availability.State `json:"state"`
	Selectable bool               `json:"selectable"`
	FreeSlots  int                `json:"free_slots"`
}

type calendarDTO struct {
	VenueID  string    `json:"venue_id,omitempty"`
	Year     int       `json:"year"`
	Month    int       `json:"month"`
	LeadDays int       `json:"lead_days"`
	Earliest string    `json:"earliest"`
	Slots    []slotDTO `json:"slots"`
	Days     []dayDTO  `json:"days"`
}

func newCalendarDTO(view application.CalendarView, today time.Time) calendarDTO {
	days := make([]dayDTO, 0, len(view.Cells))
	for _, cell := range view.Cells {
		days = append(days, dayDTO{
			Date:       domain.DayKey(cell.Date),
			State:      cell.State,
			Selectable: cell.Selectable,
			FreeSlots:  cell.FreeSlots,
		})
	}
	return calendarDTO{
		VenueID:  view.VenueID,
		Year:     view.Year,
		Month:    int(view.Month),
		LeadDays: int(view.Lead),
		Earliest: domain.DayKey(view.Lead.Earliest(today)),
		Slots:    mapSlice(view.Slots, newSlotDTO),
		Days:     days,
	}
}

type ticketDTO struct {
	ID       string `json:"id"`
	EventID  string `json:"event_id"`
	UserID   string `json:"user_id"`
	Status   string `json:"status"`
	Code     string `json:"code,omitempty"`
	IssuedAt string `json:"issued_at,omitempty"`
}

func newTicketDTO(ticket domain.Ticket) ticketDTO {
	dto := ticketDTO{
		ID:      ticket.ID,
		EventID: ticket.EventID,
		UserID:  ticket.UserID,
		Status:  string(ticket.Status),
		Code:    ticket.Code,
	}
	if !ticket.IssuedAt.IsZero() {
		dto.IssuedAt = ticket.IssuedAt.Format(time.RFC3339)
	}
	return dto
}

type feedbackDTO struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

func newFeedbackDTO(item domain.Feedback) feedbackDTO {
	return feedbackDTO{ID: item.ID, EventID: item.EventID, UserID: item.UserID, Rating: item.Rating, Comment: item.Comment}
}

type feedbackSummaryDTO struct {
	Items   []feedbackDTO `json:"items"`
	Count   int           `json:"count"`
	Average float64       `json:"average"`
}

func mapSlice[T, D any](items []T, convert func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
