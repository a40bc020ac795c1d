package domain

import (
	"encoding/json"
	"testing"
)

func TestParseEventStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]EventStatus{
		"Pending":   StatusPending,
		"pending":   StatusPending,
		"Approve":   StatusApproved,
		"Approved":  StatusApproved,
		" APPROVED": StatusApproved,
		"Reject":    StatusRejected,
		"Rejected":  StatusRejected,
		"":          StatusUnknown,
		"Archived":  StatusUnknown,
	}
	for raw, want := range cases {
		if got := ParseEventStatus(raw); got != want {
			t.Fatalf("ParseEventStatus(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestEventStatusJSON(t *testing.T) {
	t.Parallel()

	var status EventStatus
	if err := json.Unmarshal([]byte(`"Approve"`), &status); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if status != StatusApproved {
		t.Fatalf("expected approved, got %v", status)
	}

	encoded, err := json.Marshal(StatusRejected)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `"Rejected"` {
		t.Fatalf("expected canonical spelling, got %s", encoded)
	}
}

func TestParseTicketStatus(t *testing.T) {
	t.Parallel()

	if got := ParseTicketStatus("canceled"); got != TicketCancelled {
		t.Fatalf("expected cancelled, got %q", got)
	}
	if got := ParseTicketStatus("Booked"); got != TicketBooked {
		t.Fatalf("expected booked, got %q", got)
	}
	if got := ParseTicketStatus("Refunded"); got != TicketStatus("Refunded") {
		t.Fatalf("expected unknown status to pass through, got %q", got)
	}
}
