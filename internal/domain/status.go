package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventStatus is the canonical approval state of an event.
type EventStatus int

const (
	StatusUnknown EventStatus = iota
	StatusPending
	StatusApproved
	StatusRejected
)

// ParseEventStatus maps the spellings used by the backend onto the canonical
// tri-state. "Approve"/"Approved" and "Reject"/"Rejected" are equivalent.
func ParseEventStatus(raw string) EventStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending
	case "approve", "approved":
		return StatusApproved
	case "reject", "rejected":
		return StatusRejected
	default:
		return StatusUnknown
	}
}

// String returns the canonical spelling.
func (s EventStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return ""
	}
}

// MarshalJSON encodes the canonical spelling.
func (s EventStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts any compatible spelling.
func (s *EventStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("event status: %w", err)
	}
	*s = ParseEventStatus(raw)
	return nil
}

// ParseTicketStatus maps backend spellings onto TicketStatus. Unknown values
// are kept as sent.
func ParseTicketStatus(raw string) TicketStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "booked", "active", "confirmed", "":
		return TicketBooked
	case "cancelled", "canceled":
		return TicketCancelled
	case "used", "checkedin", "checked-in":
		return TicketUsed
	default:
		return TicketStatus(strings.TrimSpace(raw))
	}
}
