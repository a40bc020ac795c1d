// Package domain holds the event-registration entities exchanged with the
// remote backend, in their canonical client-side form.
package domain

import "time"

// Venue is a bookable location.
type Venue struct {
	ID       string
	Name     string
	Location string
	Capacity int
}

// Slot is a named, reusable time-of-day interval that is not bound to a date.
type Slot struct {
	ID    string
	Name  string
	Start string
	End   string
}

// Event is a scheduled occurrence at a venue on one calendar day, occupying
// one or more slots.
type Event struct {
	ID          string
	Title       string
	Description string
	VenueID     string
	EventDate   time.Time
	SlotIDs     []string
	Status      EventStatus
	OrganizerID string
	SpeakerIDs  []string
	StaffIDs    []string
}

// OccupiesSlot reports whether the event holds the provided slot.
func (e Event) OccupiesSlot(slotID string) bool {
	for _, id := range e.SlotIDs {
		if id == slotID {
			return true
		}
	}
	return false
}

// User is an account known to the backend.
type User struct {
	ID       string
	Name     string
	Email    string
	RoleName string
	Phone    string
}

// Speaker is a guest presenter that can be attached to events.
type Speaker struct {
	ID    string
	Name  string
	Email string
	Bio   string
}

// TicketStatus enumerates ticket lifecycle states.
type TicketStatus string

const (
	TicketBooked    TicketStatus = "Booked"
	TicketCancelled TicketStatus = "Cancelled"
	TicketUsed      TicketStatus = "Used"
)

// Ticket is a student's registration for an event.
type Ticket struct {
	ID       string
	EventID  string
	UserID   string
	Status   TicketStatus
	Code     string
	IssuedAt time.Time
}

// Feedback is a rating left by an attendee after an event.
type Feedback struct {
	ID      string
	EventID string
	UserID  string
	Rating  int
	Comment string
}
