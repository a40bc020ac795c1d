package availability

import "github.com/example/campus-events/internal/domain"

// BlockingForCreate selects the events that block a new event: approved ones
// only.
func BlockingForCreate(events []domain.Event) []domain.Event {
	blocking := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if event.Status == domain.StatusApproved {
			blocking = append(blocking, event)
		}
	}
	return blocking
}

// BlockingForUpdate selects the events that block an edit of editingID:
// approved and pending events, excluding the edited event itself so it never
// conflicts with its own prior occupancy.
func BlockingForUpdate(events []domain.Event, editingID string) []domain.Event {
	blocking := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if event.ID == editingID {
			continue
		}
		if event.Status == domain.StatusApproved || event.Status == domain.StatusPending {
			blocking = append(blocking, event)
		}
	}
	return blocking
}
