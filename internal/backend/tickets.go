package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/campus-events/internal/domain"
)

// ListTickets returns every ticket.
func (c *Client) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	var payload []ticketDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/Ticket"}, &payload); err != nil {
		return nil, err
	}
	return convert(payload, ticketDTO.toDomain), nil
}

// UserTickets returns the tickets held by userID.
func (c *Client) UserTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	var payload []ticketDTO
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/Ticket/my-tickets",
		query:  idQuery("userId", userID),
	}, &payload)
	if err != nil {
		return nil, err
	}
	return convert(payload, ticketDTO.toDomain), nil
}

// RegisterTicket books a ticket for userID on eventID. The created ticket is
// returned when the backend echoes it.
func (c *Client) RegisterTicket(ctx context.Context, eventID, userID string) (domain.Ticket, error) {
	var payload ticketDTO
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/Ticket",
		body:   ticketRequest{EventID: flexID(eventID), UserID: flexID(userID)},
	}, &payload)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket := payload.toDomain()
	if ticket.EventID == "" {
		ticket.EventID = eventID
	}
	if ticket.UserID == "" {
		ticket.UserID = userID
	}
	return ticket, nil
}

// CancelTicket cancels a booked ticket.
func (c *Client) CancelTicket(ctx context.Context, ticketID string) error {
	return c.do(ctx, call{method: http.MethodPut, path: "/Cancelled", query: idQuery("ticketId", ticketID)}, nil)
}

// TicketQR returns the QR payload the backend produces for a ticket, usually
// a base64 image or data URL.
func (c *Client) TicketQR(ctx context.Context, ticketID string) (string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: "/getQR", query: idQuery("ticketId", ticketID)}, &raw); err != nil {
		return "", err
	}
	return qrPayload(raw), nil
}

func qrPayload(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var object struct {
		QRCode string `json:"qrCode"`
		QR     string `json:"qr"`
		Image  string `json:"image"`
	}
	if err := json.Unmarshal(trimmed, &object); err == nil {
		return firstString(object.QRCode, object.QR, object.Image)
	}
	return ""
}
