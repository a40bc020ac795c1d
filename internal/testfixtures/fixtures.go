package testfixtures

import (
	"time"

	"github.com/example/campus-events/internal/domain"
	"github.com/example/campus-events/internal/session"
)

// Venues returns two venues, "1" (Main Hall) and "2" (Lab).
func Venues() []domain.Venue {
	return []domain.Venue{
		{ID: "1", Name: "Main Hall", Location: "Block A", Capacity: 300},
		{ID: "2", Name: "Lab", Location: "Block C", Capacity: 40},
	}
}

// Slots returns the three shared slots "1" (morning), "2" (afternoon) and
// "3" (evening).
func Slots() []domain.Slot {
	return []domain.Slot{
		{ID: "1", Name: "Morning", Start: "09:00", End: "12:00"},
		{ID: "2", Name: "Afternoon", Start: "13:00", End: "16:00"},
		{ID: "3", Name: "Evening", Start: "17:00", End: "20:00"},
	}
}

// EventOption configures an event fixture.
type EventOption func(*domain.Event)

// NewEvent returns an approved event at venue "1" on Day(offset) holding
// slot "1".
func NewEvent(id string, offset int, opts ...EventOption) domain.Event {
	event := domain.Event{
		ID:          id,
		Title:       "Event " + id,
		VenueID:     "1",
		EventDate:   Day(offset),
		SlotIDs:     []string{"1"},
		Status:      domain.StatusApproved,
		OrganizerID: "20",
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

// WithVenue sets the venue.
func WithVenue(venueID string) EventOption {
	return func(e *domain.Event) { e.VenueID = venueID }
}

// WithSlots replaces the occupied slots.
func WithSlots(slotIDs ...string) EventOption {
	return func(e *domain.Event) { e.SlotIDs = slotIDs }
}

// WithStatus sets the status.
func WithStatus(status domain.EventStatus) EventOption {
	return func(e *domain.Event) { e.Status = status }
}

// WithOrganizer sets the organizer.
func WithOrganizer(userID string) EventOption {
	return func(e *domain.Event) { e.OrganizerID = userID }
}

// WithTitle sets the title.
func WithTitle(title string) EventOption {
	return func(e *domain.Event) { e.Title = title }
}

// WithStaff sets the assigned staff.
func WithStaff(userIDs ...string) EventOption {
	return func(e *domain.Event) { e.StaffIDs = userIDs }
}

// Users returns one account per role.
func Users() []domain.User {
	return []domain.User{
		{ID: "10", Name: "Ada Admin", Email: "ada@campus.edu", RoleName: "Admin"},
		{ID: "20", Name: "Olu Organizer", Email: "olu@campus.edu", RoleName: "Organizer"},
		{ID: "30", Name: "Sam Staff", Email: "sam@campus.edu", RoleName: "Staff"},
		{ID: "40", Name: "Stu Student", Email: "stu@campus.edu", RoleName: "Student"},
	}
}

// Speakers returns two speakers.
func Speakers() []domain.Speaker {
	return []domain.Speaker{
		{ID: "1", Name: "Grace Hopper", Email: "grace@example.org"},
		{ID: "2", Name: "Alan Kay"},
	}
}

// Session returns a session for the fixture user holding role, expiring a
// day after ReferenceTime.
func Session(role session.Role) session.Session {
	for _, user := range Users() {
		if session.ParseRole(user.RoleName) == role {
			return session.Session{
				Token:     "token-" + user.ID,
				UserID:    user.ID,
				UserName:  user.Name,
				Email:     user.Email,
				RoleName:  user.RoleName,
				ExpiresAt: ReferenceTime().Add(24 * time.Hour).Format(time.RFC3339),
			}
		}
	}
	return session.Session{}
}
