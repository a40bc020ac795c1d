package backend

import (
	"context"
	"net/http"

	"github.com/example/campus-events/internal/domain"
)

// ListVenues returns every venue.
func (c *Client) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	var payload []venueDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/Venue"}, &payload); err != nil {
		return nil, err
	}
	return convert(payload, venueDTO.toDomain), nil
}

// CreateVenue registers a venue.
func (c *Client) CreateVenue(ctx context.Context, venue domain.Venue) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/Venue",
		body:   venueRequest{VenueName: venue.Name, Location: venue.Location, Capacity: venue.Capacity},
	}, nil)
}

// ListSlots returns every slot. Slots are shared by all venues.
func (c *Client) ListSlots(ctx context.Context) ([]domain.Slot, error) {
	var payload []slotDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/Slot"}, &payload); err != nil {
		return nil, err
	}
	return convert(payload, slotDTO.toDomain), nil
}

// CreateSlot registers a slot.
func (c *Client) CreateSlot(ctx context.Context, slot domain.Slot) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/Slot",
		body:   slotRequest{SlotName: slot.Name, StartTime: slot.Start, EndTime: slot.End},
	}, nil)
}
