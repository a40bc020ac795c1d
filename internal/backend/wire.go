package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/campus-events/internal/domain"
)

// flexID accepts identifiers the backend emits either as numbers or as
// strings. Numeric ids are sent back as JSON numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("identifier %s: %w", trimmed, err)
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) MarshalJSON() ([]byte, error) {
	if f != "" && isDigits(string(f)) {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0 && (len(s) == 1 || s[0] != '0')
}

func firstID(ids ...flexID) string {
	for _, id := range ids {
		if id != "" {
			return string(id)
		}
	}
	return ""
}

func firstString(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func toIDs(ids []flexID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, string(id))
		}
	}
	return out
}

func fromIDs(ids []string) []flexID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]flexID, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, flexID(id))
		}
	}
	return out
}

type venueDTO struct {
	VenueID   flexID `json:"venueId"`
	ID        flexID `json:"id"`
	VenueName string `json:"venueName"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Capacity  int    `json:"capacity"`
}

func (d venueDTO) toDomain() domain.Venue {
	return domain.Venue{
		ID:       firstID(d.VenueID, d.ID),
		Name:     firstString(d.VenueName, d.Name),
		Location: d.Location,
		Capacity: d.Capacity,
	}
}

type venueRequest struct {
	VenueName string `json:"venueName"`
	Location  string `json:"location,omitempty"`
	Capacity  int    `json:"capacity,omitempty"`
}

type slotDTO struct {
	SlotID    flexID `json:"slotId"`
	ID        flexID `json:"id"`
	SlotName  string `json:"slotName"`
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (d slotDTO) toDomain() domain.Slot {
	return domain.Slot{
		ID:    firstID(d.SlotID, d.ID),
		Name:  firstString(d.SlotName, d.Name),
		Start: d.StartTime,
		End:   d.EndTime,
	}
}

type slotRequest struct {
	SlotName  string `json:"slotName"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type eventDTO struct {
	EventID     flexID    `json:"eventId"`
	ID          flexID    `json:"id"`
	EventName   string    `json:"eventName"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VenueID     flexID    `json:"venueId"`
	EventDate   string    `json:"eventDate"`
	SlotIDs     []flexID  `json:"slotIds"`
	SlotID      flexID    `json:"slotId"`
	Slots       []slotDTO `json:"slots"`
	Status      string    `json:"status"`
	OrganizerID flexID    `json:"organizerId"`
	SpeakerIDs  []flexID  `json:"speakerIds"`
	StaffIDs    []flexID  `json:"staffIds"`
}

// toDomain tolerates the several slot shapes seen on the wire. An
// unparseable date leaves EventDate zero so that the event is ignored for
// occupancy.
func (d eventDTO) toDomain() domain.Event {
	slotIDs := toIDs(d.SlotIDs)
	if len(slotIDs) == 0 {
		for _, slot := range d.Slots {
			if id := firstID(slot.SlotID, slot.ID); id != "" {
				slotIDs = append(slotIDs, id)
			}
		}
	}
	if len(slotIDs) == 0 && d.SlotID != "" {
		slotIDs = []string{string(d.SlotID)}
	}

	var date time.Time
	if day, err := domain.ParseDay(d.EventDate); err == nil {
		date = day
	}

	return domain.Event{
		ID:          firstID(d.EventID, d.ID),
		Title:       firstString(d.EventName, d.Title),
		Description: d.Description,
		VenueID:     string(d.VenueID),
		EventDate:   date,
		SlotIDs:     slotIDs,
		Status:      domain.ParseEventStatus(d.Status),
		OrganizerID: string(d.OrganizerID),
		SpeakerIDs:  toIDs(d.SpeakerIDs),
		StaffIDs:    toIDs(d.StaffIDs),
	}
}

type eventRequest struct {
	EventName   string   `json:"eventName"`
	Description string   `json:"description"`
	VenueID     flexID   `json:"venueId"`
	EventDate   string   `json:"eventDate"`
	SlotIDs     []flexID `json:"slotIds"`
	OrganizerID flexID   `json:"organizerId,omitempty"`
	SpeakerIDs  []flexID `json:"speakerIds,omitempty"`
	StaffIDs    []flexID `json:"staffIds,omitempty"`
}

func newEventRequest(event domain.Event) eventRequest {
	return eventRequest{
		EventName:   strings.TrimSpace(event.Title),
		Description: strings.TrimSpace(event.Description),
		VenueID:     flexID(event.VenueID),
		EventDate:   domain.DayKey(event.EventDate),
		SlotIDs:     fromIDs(event.SlotIDs),
		OrganizerID: flexID(event.OrganizerID),
		SpeakerIDs:  fromIDs(event.SpeakerIDs),
		StaffIDs:    fromIDs(event.StaffIDs),
	}
}

type userDTO struct {
	UserID   flexID `json:"userId"`
	ID       flexID `json:"id"`
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	RoleName string `json:"roleName"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

func (d userDTO) toDomain() domain.User {
	return domain.User{
		ID:       firstID(d.UserID, d.ID),
		Name:     firstString(d.UserName, d.FullName, d.Name),
		Email:    strings.TrimSpace(d.Email),
		RoleName: firstString(d.RoleName, d.Role),
		Phone:    d.Phone,
	}
}

type userRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	RoleName string `json:"roleName"`
	Phone    string `json:"phone,omitempty"`
}

type speakerDTO struct {
	SpeakerID   flexID `json:"speakerId"`
	ID          flexID `json:"id"`
	SpeakerName string `json:"speakerName"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Bio         string `json:"bio"`
}

func (d speakerDTO) toDomain() domain.Speaker {
	return domain.Speaker{
		ID:    firstID(d.SpeakerID, d.ID),
		Name:  firstString(d.SpeakerName, d.Name),
		Email: strings.TrimSpace(d.Email),
		Bio:   d.Bio,
	}
}

type speakerRequest struct {
	SpeakerName string `json:"speakerName"`
	Email       string `json:"email,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

type ticketDTO struct {
	TicketID    flexID `json:"ticketId"`
	ID          flexID `json:"id"`
	EventID     flexID `json:"eventId"`
	UserID      flexID `json:"userId"`
	Status      string `json:"status"`
	TicketCode  string `json:"ticketCode"`
	Code        string `json:"code"`
	BookingDate string `json:"bookingDate"`
	CreatedAt   string `json:"createdAt"`
}

func (d ticketDTO) toDomain() domain.Ticket {
	var issued time.Time
	if t, err := domain.ParseDate(firstString(d.BookingDate, d.CreatedAt)); err == nil {
		issued = t
	}
	return domain.Ticket{
		ID:       firstID(d.TicketID, d.ID),
		EventID:  string(d.EventID),
		UserID:   string(d.UserID),
		Status:   domain.ParseTicketStatus(d.Status),
		Code:     firstString(d.TicketCode, d.Code),
		IssuedAt: issued,
	}
}

type ticketRequest struct {
	EventID flexID `json:"eventId"`
	UserID  flexID `json:"userId"`
}

type feedbackDTO struct {
	FeedbackID flexID `json:"feedbackId"`
	ID         flexID `json:"id"`
	EventID    flexID `json:"eventId"`
	UserID     flexID `json:"userId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	Comments   string `json:"comments"`
}

func (d feedbackDTO) toDomain() domain.Feedback {
	return domain.Feedback{
		ID:      firstID(d.FeedbackID, d.ID),
		EventID: string(d.EventID),
		UserID:  string(d.UserID),
		Rating:  d.Rating,
		Comment: firstString(d.Comment, d.Comments),
	}
}

type feedbackRequest struct {
	EventID flexID `json:"eventId"`
	UserID  flexID `json:"userId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

func convert[D any, T any](items []D, fn func(D) T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
