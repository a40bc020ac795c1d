package application

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/example/campus-events/internal/domain"
	"github.com/example/campus-events/internal/session"
)

// TicketBackend exposes the ticket endpoints of the backend.
type TicketBackend interface {
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
	UserTickets(ctx context.Context, userID string) ([]domain.Ticket, error)
	RegisterTicket(ctx context.Context, eventID, userID string) (domain.Ticket, error)
	CancelTicket(ctx context.Context, ticketID string) error
	TicketQR(ctx context.Context, ticketID string) (string, error)
}

// EventLookup fetches a single event.
type EventLookup interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

const (
	qrPrefix = "eventdesk:ticket:"
	qrSize   = 256
)

// TicketPayload is the text encoded in a ticket QR code.
func TicketPayload(ticket domain.Ticket) string {
	return qrPrefix + ticket.ID + ":" + ticket.Code
}

// ParseTicketPayload extracts the ticket id and code from a scanned payload.
// A bare ticket id is accepted as well.
func ParseTicketPayload(payload string) (ticketID, code string, err error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", "", &ValidationError{FieldErrors: map[string]string{"payload": "Scan a ticket code."}}
	}
	rest, ok := strings.CutPrefix(payload, qrPrefix)
	if !ok {
		if strings.ContainsAny(payload, ": ") {
			return "", "", &ValidationError{FieldErrors: map[string]string{"payload": "This is not an event ticket."}}
		}
		return payload, "", nil
	}
	ticketID, code, _ = strings.Cut(rest, ":")
	if ticketID == "" {
		return "", "", &ValidationError{FieldErrors: map[string]string{"payload": "This is not an event ticket."}}
	}
	return ticketID, code, nil
}

// TicketService handles student registration, cancellation, QR codes and
// check-in scans.
type TicketService struct {
	tickets TicketBackend
	events  EventLookup
	logger  *slog.Logger
}

// NewTicketService constructs a ticket service with the provided dependencies.
func NewTicketService(tickets TicketBackend, events EventLookup) *TicketService {
	return NewTicketServiceWithLogger(tickets, events, nil)
}

// NewTicketServiceWithLogger constructs a ticket service with a specified logger.
func NewTicketServiceWithLogger(tickets TicketBackend, events EventLookup, logger *slog.Logger) *TicketService {
	return &TicketService{tickets: tickets, events: events, logger: defaultLogger(logger)}
}

func (s *TicketService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TicketService", operation, attrs...)
}

func (s *TicketService) ready() error {
	if s == nil || s.tickets == nil || s.events == nil {
		return fmt.Errorf("TicketService is not configured")
	}
	return nil
}

// Register books a ticket for the principal on an approved event.
func (s *TicketService) Register(ctx context.Context, principal Principal, eventID string) (ticket domain.Ticket, err error) {
	if err = s.ready(); err != nil {
		return
	}
	eventID = strings.TrimSpace(eventID)
	logger := s.loggerWith(ctx, "Register", "principal_id", principal.UserID, "event_id", eventID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "ticket registration failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("ticket_id", ticket.ID).InfoContext(ctx, "ticket registered")
	}()

	if !principal.Is(session.RoleStudent) {
		err = ErrUnauthorized
		return
	}
	if eventID == "" {
		err = &ValidationError{FieldErrors: map[string]string{"event_id": "Choose an event."}}
		return
	}

	var event domain.Event
	event, err = s.events.GetEvent(ctx, eventID)
	if err != nil {
		err = mapBackendError(err)
		return
	}
	if event.Status != domain.StatusApproved {
		err = &ValidationError{FieldErrors: map[string]string{"event_id": "This event is not open for registration."}}
		return
	}

	var held []domain.Ticket
	held, err = s.tickets.UserTickets(ctx, principal.UserID)
	if err != nil {
		err = mapBackendError(err)
		return
	}
	for _, existing := range held {
		if existing.EventID == eventID && existing.Status != domain.TicketCancelled {
			err = ErrAlreadyRegistered
			return
		}
	}

	ticket, err = s.tickets.RegisterTicket(ctx, eventID, principal.UserID)
	if err != nil {
		err = mapBackendError(err)
	}
	return
}

// MyTickets lists the principal's tickets, newest first.
func (s *TicketService) MyTickets(ctx context.Context, principal Principal) (tickets []domain.Ticket, err error) {
	if err = s.ready(); err != nil {
		return
	}
	if !principal.Is(session.RoleStudent) {
		err = ErrUnauthorized
		return
	}
	tickets, err = s.tickets.UserTickets(ctx, principal.UserID)
	if err != nil {
		err = mapBackendError(err)
		s.loggerWith(ctx, "MyTickets", "principal_id", principal.UserID).
			ErrorContext(ctx, "failed to list tickets", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].IssuedAt.After(tickets[j].IssuedAt)
	})
	return tickets, nil
}

func (s *TicketService) ownTicket(ctx context.Context, principal Principal, ticketID string) (domain.Ticket, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return domain.Ticket{}, ErrNotFound
	}
	held, err := s.tickets.UserTickets(ctx, principal.UserID)
	if err != nil {
		return domain.Ticket{}, mapBackendError(err)
	}
	for _, ticket := range held {
		if ticket.ID == ticketID {
			return ticket, nil
		}
	}
	return domain.Ticket{}, ErrNotFound
}

// Cancel cancels one of the principal's booked tickets.
func (s *TicketService) Cancel(ctx context.Context, principal Principal, ticketID string) (err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "Cancel", "principal_id", principal.UserID, "ticket_id", ticketID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "ticket cancellation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "ticket cancelled")
	}()

	if !principal.Is(session.RoleStudent) {
		err = ErrUnauthorized
		return
	}
	var ticket domain.Ticket
	ticket, err = s.ownTicket(ctx, principal, ticketID)
	if err != nil {
		return
	}
	if ticket.Status != domain.TicketBooked {
		err = &ValidationError{FieldErrors: map[string]string{"ticket_id": fmt.Sprintf("A %s ticket cannot be cancelled.", strings.ToLower(string(ticket.Status)))}}
		return
	}
	return mapBackendError(s.tickets.CancelTicket(ctx, ticket.ID))
}

// QRCode renders the principal's ticket as a PNG. Tickets without a code
// fall back to the image produced by the backend.
func (s *TicketService) QRCode(ctx context.Context, principal Principal, ticketID string) (image QRImage, err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "QRCode", "principal_id", principal.UserID, "ticket_id", ticketID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to render ticket code", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if !principal.Is(session.RoleStudent) {
		err = ErrUnauthorized
		return
	}
	var ticket domain.Ticket
	ticket, err = s.ownTicket(ctx, principal, ticketID)
	if err != nil {
		return
	}

	if ticket.Code != "" {
		var png []byte
		png, err = qrcode.Encode(TicketPayload(ticket), qrcode.Medium, qrSize)
		if err != nil {
			err = fmt.Errorf("encode ticket code: %w", err)
			return
		}
		return QRImage{ContentType: "image/png", Data: png}, nil
	}

	var payload string
	payload, err = s.tickets.TicketQR(ctx, ticket.ID)
	if err != nil {
		err = mapBackendError(err)
		return
	}
	return decodeImagePayload(payload)
}

// decodeImagePayload accepts a data URL or bare base64 PNG.
func decodeImagePayload(payload string) (QRImage, error) {
	contentType := "image/png"
	data := strings.TrimSpace(payload)
	if rest, ok := strings.CutPrefix(data, "data:"); ok {
		meta, encoded, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return QRImage{}, fmt.Errorf("unsupported ticket image payload")
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		data = encoded
	}
	if data == "" {
		return QRImage{}, fmt.Errorf("%w: ticket image is empty", ErrNotFound)
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return QRImage{}, fmt.Errorf("decode ticket image: %w", err)
	}
	return QRImage{ContentType: contentType, Data: raw}, nil
}

// Scan resolves a scanned payload to its ticket for check-in. The code part
// of the payload must match the ticket.
func (s *TicketService) Scan(ctx context.Context, principal Principal, payload string) (ticket domain.Ticket, err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "Scan", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "ticket scan rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("ticket_id", ticket.ID, "status", string(ticket.Status)).InfoContext(ctx, "ticket scanned")
	}()

	if !principal.Is(session.RoleStaff, session.RoleAdmin) {
		err = ErrUnauthorized
		return
	}
	var ticketID, code string
	ticketID, code, err = ParseTicketPayload(payload)
	if err != nil {
		return
	}

	var all []domain.Ticket
	all, err = s.tickets.ListTickets(ctx)
	if err != nil {
		err = mapBackendError(err)
		return
	}
	for _, candidate := range all {
		if candidate.ID != ticketID {
			continue
		}
		if code != "" && candidate.Code != "" && code != candidate.Code {
			break
		}
		return candidate, nil
	}
	err = ErrNotFound
	return
}
