package application

import (
	"time"

	"github.com/example/campus-events/internal/availability"
	"github.com/example/campus-events/internal/domain"
	"github.com/example/campus-events/internal/session"
)

// Principal represents the signed-in user on whose behalf an operation runs.
type Principal struct {
	UserID string
	Name   string
	Email  string
	Role   session.Role
}

// PrincipalFromSession derives the principal of a stored session.
func PrincipalFromSession(s session.Session) Principal {
	return Principal{UserID: s.UserID, Name: s.UserName, Email: s.Email, Role: s.Role()}
}

// Is reports whether the principal holds one of roles.
func (p Principal) Is(roles ...session.Role) bool {
	if !p.Role.Valid() {
		return false
	}
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// LoginParams carries email and password credentials.
type LoginParams struct {
	Email    string
	Password string
}

// Profile describes the signed-in user.
type Profile struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EventInput captures the editable fields of an event.
type EventInput struct {
	Title       string
	Description string
	VenueID     string
	// EventDate accepts the date formats understood by domain.ParseDay.
	EventDate  string
	SlotIDs    []string
	SpeakerIDs []string
	StaffIDs   []string
}

// CreateEventParams bundles the principal and input for event creation.
type CreateEventParams struct {
	Principal Principal
	Input     EventInput
}

// UpdateEventParams bundles the principal, target event, and replacement input.
type UpdateEventParams struct {
	Principal Principal
	EventID   string
	Input     EventInput
}

// ReviewEventParams identifies an event to approve or reject.
type ReviewEventParams struct {
	Principal Principal
	EventID   string
}

// EventForm bundles the reference data needed to fill in an event form.
type EventForm struct {
	Venues   []domain.Venue
	Slots    []domain.Slot
	Users    []domain.User
	Speakers []domain.Speaker
}

// CalendarParams selects the month to render. EditingEventID switches to the
// update flow and excludes that event from occupancy.
type CalendarParams struct {
	VenueID        string
	Year           int
	Month          time.Month
	EditingEventID string
}

// CalendarView is a rendered month.
type CalendarView struct {
	VenueID string
	Year    int
	Month   time.Month
	Lead    availability.LeadTime
	Slots   []domain.Slot
	Cells   []availability.DayCell
}

// SlotQuery selects the day whose free slots are requested.
type SlotQuery struct {
	VenueID        string
	Date           string
	EditingEventID string
}

// ListEventsParams bundles the principal and listing options.
type ListEventsParams struct {
	Principal Principal
	Filter    EventFilter
}

// VenueInput captures the fields of a new venue.
type VenueInput struct {
	Name     string
	Location string
	Capacity int
}

// SlotInput captures the fields of a new slot.
type SlotInput struct {
	Name  string
	Start string
	End   string
}

// FeedbackInput captures a rating for an event.
type FeedbackInput struct {
	EventID string
	Rating  int
	Comment string
}

// FeedbackSummary is a listing of feedback with its mean rating.
type FeedbackSummary struct {
	Items   []domain.Feedback
	Count   int
	Average float64
}

// UserInput captures account fields. Password is only used on creation.
type UserInput struct {
	Name     string
	Email    string
	Password string
	RoleName string
	Phone    string
}

// UserFilter narrows user listings.
type UserFilter struct {
	Role  session.Role
	Query string
}

// SpeakerInput captures speaker fields.
type SpeakerInput struct {
	Name  string
	Email string
	Bio   string
}

// QRImage is a rendered ticket code.
type QRImage struct {
	ContentType string
	Data        []byte
}
