package testfixtures

import (
	"context"
	"net/http"
	"sync"

	"github.com/example/campus-events/internal/backend"
	"github.com/example/campus-events/internal/domain"
	"github.com/example/campus-events/internal/session"
)

// Account is a login known to the fake backend.
type Account struct {
	Password string
	Session  session.Session
}

// Backend is an in-memory stand-in for the REST backend. Operations can be
// made to fail with Fail, and every call is recorded.
type Backend struct {
	mu        sync.Mutex
	ids       *IDGenerator
	accounts  map[string]Account
	google    map[string]session.Session
	venues    []domain.Venue
	slots     []domain.Slot
	events    []domain.Event
	users     []domain.User
	speakers  []domain.Speaker
	tickets   []domain.Ticket
	feedback  []domain.Feedback
	qr        map[string]string
	failures  map[string]error
	calls     []string
	passwords map[string]string
}

// NewBackend returns a backend seeded with the fixture venues, slots, users
// and speakers.
func NewBackend() *Backend {
	b := &Backend{
		ids:       NewIDGenerator(1000),
		accounts:  make(map[string]Account),
		google:    make(map[string]session.Session),
		venues:    Venues(),
		slots:     Slots(),
		users:     Users(),
		speakers:  Speakers(),
		qr:        make(map[string]string),
		failures:  make(map[string]error),
		passwords: make(map[string]string),
	}
	for _, role := range []session.Role{session.RoleAdmin, session.RoleOrganizer, session.RoleStaff, session.RoleStudent} {
		s := Session(role)
		b.accounts[s.Email] = Account{Password: "password", Session: s}
	}
	return b
}

// Fail makes operation return err until cleared with a nil err.
func (b *Backend) Fail(operation string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failures, operation)
		return
	}
	b.failures[operation] = err
}

// Calls returns the recorded operation names in order.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// CallCount reports how often operation was called.
func (b *Backend) CallCount(operation string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	count := 0
	for _, call := range b.calls {
		if call == operation {
			count++
		}
	}
	return count
}

func (b *Backend) enter(operation string) error {
	b.calls = append(b.calls, operation)
	return b.failures[operation]
}

// AddEvents appends events.
func (b *Backend) AddEvents(events ...domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
}

// AddTickets appends tickets.
func (b *Backend) AddTickets(tickets ...domain.Ticket) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickets = append(b.tickets, tickets...)
}

// AddFeedback appends feedback.
func (b *Backend) AddFeedback(items ...domain.Feedback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.feedback = append(b.feedback, items...)
}

// SetQR sets the backend-rendered QR payload of a ticket.
func (b *Backend) SetQR(ticketID, payload string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.qr[ticketID] = payload
}

// SetGoogleSession makes GoogleLogin accept idToken.
func (b *Backend) SetGoogleSession(idToken string, s session.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.google[idToken] = s
}

// Events returns a copy of the stored events.
func (b *Backend) Events() []domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Event(nil), b.events...)
}

// Tickets returns a copy of the stored tickets.
func (b *Backend) Tickets() []domain.Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Ticket(nil), b.tickets...)
}

// Feedback returns a copy of the stored feedback.
func (b *Backend) Feedback() []domain.Feedback {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Feedback(nil), b.feedback...)
}

// Password returns the password a created user was registered with.
func (b *Backend) Password(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.passwords[email]
}

func status(code int, message string) error {
	return &backend.StatusError{Status: code, Message: message}
}

func (b *Backend) Login(_ context.Context, email, password string) (session.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("Login"); err != nil {
		return session.Session{}, err
	}
	account, ok := b.accounts[email]
	if !ok || account.Password != password {
		return session.Session{}, status(http.StatusUnauthorized, "Invalid email or password")
	}
	return account.Session, nil
}

func (b *Backend) GoogleLogin(_ context.Context, idToken string) (session.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("GoogleLogin"); err != nil {
		return session.Session{}, err
	}
	s, ok := b.google[idToken]
	if !ok {
		return session.Session{}, status(http.StatusUnauthorized, "Google sign-in failed")
	}
	return s, nil
}

func (b *Backend) ListVenues(context.Context) ([]domain.Venue, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("ListVenues"); err != nil {
		return nil, err
	}
	return append([]domain.Venue(nil), b.venues...), nil
}

func (b *Backend) CreateVenue(_ context.Context, venue domain.Venue) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("CreateVenue"); err != nil {
		return err
	}
	venue.ID = b.ids.Next()
	b.venues = append(b.venues, venue)
	return nil
}

func (b *Backend) ListSlots(context.Context) ([]domain.Slot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("ListSlots"); err != nil {
		return nil, err
	}
	return append([]domain.Slot(nil), b.slots...), nil
}

func (b *Backend) CreateSlot(_ context.Context, slot domain.Slot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("CreateSlot"); err != nil {
		return err
	}
	slot.ID = b.ids.Next()
	b.slots = append(b.slots, slot)
	return nil
}

func (b *Backend) ListEvents(context.Context) ([]domain.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("ListEvents"); err != nil {
		return nil, err
	}
	return append([]domain.Event(nil), b.events...), nil
}

func (b *Backend) OrganizerEvents(_ context.Context, organizerID string) ([]domain.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("OrganizerEvents"); err != nil {
		return nil, err
	}
	var out []domain.Event
	for _, event := range b.events {
		if event.OrganizerID == organizerID {
			out = append(out, event)
		}
	}
	return out, nil
}

func (b *Backend) StaffEvents(_ context.Context, userID string) ([]domain.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("StaffEvents"); err != nil {
		return nil, err
	}
	var out []domain.Event
	for _, event := range b.events {
		for _, id := range event.StaffIDs {
			if id == userID {
				out = append(out, event)
				break
			}
		}
	}
	return out, nil
}

func (b *Backend) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("GetEvent"); err != nil {
		return domain.Event{}, err
	}
	for _, event := range b.events {
		if event.ID == eventID {
			return event, nil
		}
	}
	return domain.Event{}, status(http.StatusNotFound, "Event not found")
}

func (b *Backend) CreateEvent(_ context.Context, event domain.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("CreateEvent"); err != nil {
		return err
	}
	event.ID = b.ids.Next()
	event.Status = domain.StatusPending
	b.events = append(b.events, event)
	return nil
}

func (b *Backend) UpdateEvent(_ context.Context, event domain.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("UpdateEvent"); err != nil {
		return err
	}
	for i := range b.events {
		if b.events[i].ID == event.ID {
			b.events[i] = event
			return nil
		}
	}
	return status(http.StatusNotFound, "Event not found")
}

func (b *Backend) setStatus(operation, eventID string, status domain.EventStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(operation); err != nil {
		return err
	}
	for i := range b.events {
		if b.events[i].ID == eventID {
			b.events[i].Status = status
			return nil
		}
	}
	return &backend.StatusError{Status: http.StatusNotFound, Message: "Event not found"}
}

func (b *Backend) ApproveEvent(_ context.Context, eventID string) error {
	return b.setStatus("ApproveEvent", eventID, domain.StatusApproved)
}

func (b *Backend) RejectEvent(_ context.Context, eventID string) error {
	return b.setStatus("RejectEvent", eventID, domain.StatusRejected)
}

func (b *Backend) ListUsers(context.Context) ([]domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("ListUsers"); err != nil {
		return nil, err
	}
	return append([]domain.User(nil), b.users...), nil
}

func (b *Backend) CreateUser(_ context.Context, user backend.NewUser) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("CreateUser"); err != nil {
		return err
	}
	for _, existing := range b.users {
		if existing.Email == user.Email {
			return status(http.StatusConflict, "Email already registered")
		}
	}
	b.users = append(b.users, domain.User{
		ID:       b.ids.Next(),
		Name:     user.Name,
		Email:    user.Email,
		RoleName: user.RoleName,
		Phone:    user.Phone,
	})
	b.passwords[user.Email] = user.Password
	return nil
}

func (b *Backend) UpdateUser(_ context.Context, user domain.User) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("UpdateUser"); err != nil {
		return err
	}
	for i := range b.users {
		if b.users[i].ID == user.ID {
			b.users[i] = user
			return nil
		}
	}
	return status(http.StatusNotFound, "User not found")
}

func (b *Backend) DeleteUser(_ context.Context, userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("DeleteUser"); err != nil {
		return err
	}
	for i := range b.users {
		if b.users[i].ID == userID {
			b.users = append(b.users[:i], b.users[i+1:]...)
			return nil
		}
	}
	return status(http.StatusNotFound, "User not found")
}

func (b *Backend) ListSpeakers(context.Context) ([]domain.Speaker, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("ListSpeakers"); err != nil {
		return nil, err
	}
	return append([]domain.Speaker(nil), b.speakers...), nil
}

func (b *Backend) CreateSpeaker(_ context.Context, speaker domain.Speaker) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("CreateSpeaker"); err != nil {
		return err
	}
	speaker.ID = b.ids.Next()
	b.speakers = append(b.speakers, speaker)
	return nil
}

func (b *Backend) UpdateSpeaker(_ context.Context, speaker domain.Speaker) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("UpdateSpeaker"); err != nil {
		return err
	}
	for i := range b.speakers {
		if b.speakers[i].ID == speaker.ID {
			b.speakers[i] = speaker
			return nil
		}
	}
	return status(http.StatusNotFound, "Speaker not found")
}

func (b *Backend) DeleteSpeaker(_ context.Context, speakerID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("DeleteSpeaker"); err != nil {
		return err
	}
	for i := range b.speakers {
		if b.speakers[i].ID == speakerID {
			b.speakers = append(b.speakers[:i], b.speakers[i+1:]...)
			return nil
		}
	}
	return status(http.StatusNotFound, "Speaker not found")
}

func (b *Backend) ListTickets(context.Context) ([]domain.Ticket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("ListTickets"); err != nil {
		return nil, err
	}
	return append([]domain.Ticket(nil), b.tickets...), nil
}

func (b *Backend) UserTickets(_ context.Context, userID string) ([]domain.Ticket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("UserTickets"); err != nil {
		return nil, err
	}
	var out []domain.Ticket
	for _, ticket := range b.tickets {
		if ticket.UserID == userID {
			out = append(out, ticket)
		}
	}
	return out, nil
}

func (b *Backend) RegisterTicket(_ context.Context, eventID, userID string) (domain.Ticket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("RegisterTicket"); err != nil {
		return domain.Ticket{}, err
	}
	id := b.ids.Next()
	ticket := domain.Ticket{
		ID:       id,
		EventID:  eventID,
		UserID:   userID,
		Status:   domain.TicketBooked,
		Code:     "CODE-" + id,
		IssuedAt: ReferenceTime(),
	}
	b.tickets = append(b.tickets, ticket)
	return ticket, nil
}

func (b *Backend) CancelTicket(_ context.Context, ticketID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("CancelTicket"); err != nil {
		return err
	}
	for i := range b.tickets {
		if b.tickets[i].ID == ticketID {
			b.tickets[i].Status = domain.TicketCancelled
			return nil
		}
	}
	return status(http.StatusNotFound, "Ticket not found")
}

func (b *Backend) TicketQR(_ context.Context, ticketID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("TicketQR"); err != nil {
		return "", err
	}
	payload, ok := b.qr[ticketID]
	if !ok {
		return "", status(http.StatusNotFound, "QR code not found")
	}
	return payload, nil
}

func (b *Backend) ListFeedback(context.Context) ([]domain.Feedback, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("ListFeedback"); err != nil {
		return nil, err
	}
	return append([]domain.Feedback(nil), b.feedback...), nil
}

func (b *Backend) SubmitFeedback(_ context.Context, feedback domain.Feedback) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("SubmitFeedback"); err != nil {
		return err
	}
	feedback.ID = b.ids.Next()
	b.feedback = append(b.feedback, feedback)
	return nil
}
