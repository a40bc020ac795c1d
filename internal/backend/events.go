package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/example/campus-events/internal/domain"
)

// ListEvents returns every event visible to the caller.
func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return c.events(ctx, "/api/Event", nil)
}

// OrganizerEvents returns the events created by organizerID.
func (c *Client) OrganizerEvents(ctx context.Context, organizerID string) ([]domain.Event, error) {
	return c.events(ctx, "/api/Event/my-events", idQuery("organizerId", organizerID))
}

// StaffEvents returns the events userID is assigned to as staff.
func (c *Client) StaffEvents(ctx context.Context, userID string) ([]domain.Event, error) {
	return c.events(ctx, "/api/Event/staff-events", idQuery("userId", userID))
}

func (c *Client) events(ctx context.Context, path string, query url.Values) ([]domain.Event, error) {
	var payload []eventDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: path, query: query}, &payload); err != nil {
		return nil, err
	}
	events := convert(payload, eventDTO.toDomain)
	for i, event := range events {
		if event.EventDate.IsZero() {
			c.log(ctx).WarnContext(ctx, "event date not understood", "path", path, "event_id", event.ID, "event_date", payload[i].EventDate)
		}
	}
	return events, nil
}

// GetEvent returns one event.
func (c *Client) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	var payload eventDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/Event/" + url.PathEscape(eventID)}, &payload); err != nil {
		return domain.Event{}, err
	}
	event := payload.toDomain()
	if event.EventDate.IsZero() {
		c.log(ctx).WarnContext(ctx, "event date not understood", "event_id", event.ID, "event_date", payload.EventDate)
	}
	return event, nil
}

// CreateEvent submits a new event. The backend decides its initial status.
func (c *Client) CreateEvent(ctx context.Context, event domain.Event) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/Event",
		body:   newEventRequest(event),
	}, nil)
}

// UpdateEvent replaces the editable fields of an existing event.
func (c *Client) UpdateEvent(ctx context.Context, event domain.Event) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		path:   "/api/Event",
		query:  idQuery("eventId", event.ID),
		body:   newEventRequest(event),
	}, nil)
}

// ApproveEvent marks an event approved.
func (c *Client) ApproveEvent(ctx context.Context, eventID string) error {
	return c.do(ctx, call{method: http.MethodPut, path: "/Approve", query: idQuery("eventId", eventID)}, nil)
}

// RejectEvent marks an event rejected.
func (c *Client) RejectEvent(ctx context.Context, eventID string) error {
	return c.do(ctx, call{method: http.MethodPut, path: "/Reject", query: idQuery("eventId", eventID)}, nil)
}
