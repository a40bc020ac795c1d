package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/campus-events/internal/domain"
	"github.com/example/campus-events/internal/session"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, hook func(context.Context)) (*Client, *session.Credential) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	credential := session.NewCredential()
	client, err := New(Options{
		BaseURL:        server.URL,
		Timeout:        time.Second,
		Credential:     credential,
		OnUnauthorized: hook,
		RequestID:      func() string { return "req-1" },
	})
	require.NoError(t, err)
	return client, credential
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "not a url", "/relative"} {
		_, err := New(Options{BaseURL: raw})
		assert.Error(t, err, raw)
	}
}

func TestClientUnwrapsEnvelopes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{name: "enveloped", body: `{"success":true,"message":"ok","data":[{"venueId":1,"venueName":"Hall A","capacity":120}]}`},
		{name: "bare array", body: `[{"venueId":"1","venueName":"Hall A","capacity":120}]`},
		{name: "alternate keys", body: `{"data":[{"id":1,"name":"Hall A","capacity":120}]}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/Venue", r.URL.Path)
				_, _ = io.WriteString(w, tc.body)
			}, nil)

			venues, err := client.ListVenues(context.Background())
			require.NoError(t, err)
			require.Len(t, venues, 1)
			assert.Equal(t, domain.Venue{ID: "1", Name: "Hall A", Capacity: 120}, venues[0])
		})
	}
}

func TestClientEnvelopeFailure(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"Venue is closed"}`)
	}, nil)

	_, err := client.ListVenues(context.Background())
	var envErr *EnvelopeError
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, "Venue is closed", Message(err))
}

func TestClientEmptySuccessEnvelope(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"message":"created","data":null}`)
	}, nil)

	require.NoError(t, client.CreateEvent(context.Background(), domain.Event{Title: "Expo"}))
}

func TestClientStatusErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		body    string
		message string
		target  error
	}{
		{name: "backend message", status: http.StatusBadRequest, body: `{"message":"Slot already booked"}`, message: "Slot already booked"},
		{name: "problem details", status: http.StatusBadRequest, body: `{"title":"One or more validation errors occurred."}`, message: "One or more validation errors occurred."},
		{name: "status text", status: http.StatusInternalServerError, body: ``, message: "Internal Server Error"},
		{name: "html body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, message: "Bad Gateway"},
		{name: "not found", status: http.StatusNotFound, body: `"Event not found"`, message: "Event not found", target: ErrNotFound},
		{name: "forbidden", status: http.StatusForbidden, body: ``, message: "Forbidden", target: ErrForbidden},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}, nil)

			_, err := client.GetEvent(context.Background(), "7")
			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tc.status, statusErr.Status)
			assert.Equal(t, tc.message, Message(err))
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
		})
	}
}

func TestClientTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := New(Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.ListSlots(context.Background())
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, FallbackMessage, Message(err))
}

func TestClientUnauthorizedHook(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	hook := func(context.Context) { calls.Add(1) }

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
	}, hook)

	_, err := client.Login(context.Background(), "ana@example.edu", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", Message(err))
	assert.Equal(t, int32(0), calls.Load(), "login 401 must not trigger the hook")

	_, err = client.ListEvents(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientSendsCredentialAndRequestID(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID atomic.Value
	client, credential := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		gotRequestID.Store(r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `[]`)
	}, nil)

	_, err := client.ListSlots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", gotAuth.Load())
	assert.Equal(t, "req-1", gotRequestID.Load())

	credential.Install("abc")
	_, err = client.ListSlots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth.Load())
}

func TestClientEventShapes(t *testing.T) {
	t.Parallel()

	body := `{"success":true,"data":[
		{"eventId":1,"eventName":"Expo","venueId":3,"eventDate":"2025-06-12T00:00:00","slotIds":[1,2],"status":"Approve"},
		{"id":"2","title":"Talk","venueId":"3","eventDate":"2025-06-13","slots":[{"slotId":4}],"status":"Rejected"},
		{"eventId":3,"eventName":"Fair","venueId":3,"eventDate":"2025-06-14","slotId":5,"status":"pending"},
		{"eventId":4,"eventName":"Broken","venueId":3,"eventDate":"soon","slotIds":[1],"status":"Approved"}
	]}`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Event/my-events", r.URL.Path)
		assert.Equal(t, "9", r.URL.Query().Get("organizerId"))
		_, _ = io.WriteString(w, body)
	}, nil)

	events, err := client.OrganizerEvents(context.Background(), "9")
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, "1", events[0].ID)
	assert.Equal(t, "Expo", events[0].Title)
	assert.Equal(t, []string{"1", "2"}, events[0].SlotIDs)
	assert.Equal(t, domain.StatusApproved, events[0].Status)
	assert.Equal(t, "2025-06-12", domain.DayKey(events[0].EventDate))

	assert.Equal(t, "2", events[1].ID)
	assert.Equal(t, []string{"4"}, events[1].SlotIDs)
	assert.Equal(t, domain.StatusRejected, events[1].Status)

	assert.Equal(t, []string{"5"}, events[2].SlotIDs)
	assert.Equal(t, domain.StatusPending, events[2].Status)

	assert.True(t, events[3].EventDate.IsZero())
}

func TestClientWarnsOnUnreadableEventDate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"eventId":4,"venueId":3,"eventDate":"next tuesday","slotIds":[1],"status":"Approved"},
			{"eventId":5,"venueId":3,"eventDate":"2025-06-14","slotIds":[2],"status":"Approved"}]`)
	}))
	t.Cleanup(server.Close)

	var logs bytes.Buffer
	client, err := New(Options{
		BaseURL:    server.URL,
		Credential: session.NewCredential(),
		Logger:     slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn})),
	})
	require.NoError(t, err)

	events, err := client.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].EventDate.IsZero())

	assert.Contains(t, logs.String(), `"msg":"event date not understood"`)
	assert.Contains(t, logs.String(), `"event_date":"next tuesday"`)
	assert.NotContains(t, logs.String(), `"event_id":"5"`)
}

func TestClientUpdateEventRequest(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		captured map[string]any
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/Event", r.URL.Path)
		assert.Equal(t, "12", r.URL.Query().Get("eventId"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = io.WriteString(w, `{"success":true}`)
	}, nil)

	err := client.UpdateEvent(context.Background(), domain.Event{
		ID:        "12",
		Title:     " Expo ",
		VenueID:   "3",
		EventDate: time.Date(2025, time.June, 12, 0, 0, 0, 0, time.Local),
		SlotIDs:   []string{"1", "abc"},
	})
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Expo", captured["eventName"])
	assert.Equal(t, "2025-06-12", captured["eventDate"])
	assert.Equal(t, float64(3), captured["venueId"])
	assert.Equal(t, []any{float64(1), "abc"}, captured["slotIds"])
	_, hasOrganizer := captured["organizerId"]
	assert.False(t, hasOrganizer)
}

func TestClientApproveRejectCancelPaths(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []string
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Method+" "+r.URL.Path+"?"+r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"success":true}`)
	}, nil)

	ctx := context.Background()
	require.NoError(t, client.ApproveEvent(ctx, "5"))
	require.NoError(t, client.RejectEvent(ctx, "6"))
	require.NoError(t, client.CancelTicket(ctx, "7"))

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, []string{
		"PUT /Approve?eventId=5",
		"PUT /Reject?eventId=6",
		"PUT /Cancelled?ticketId=7",
	}, seen)
}

func TestLoginDerivesExpiryFromToken(t *testing.T) {
	t.Parallel()

	exp := time.Date(2030, time.January, 2, 3, 4, 5, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Auth/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"token":    token,
				"userId":   42,
				"userName": "Ana",
				"email":    "ana@example.edu",
				"roleName": "Student",
			},
		})
	}, nil)

	got, err := client.Login(context.Background(), "ana@example.edu", "secret")
	require.NoError(t, err)
	assert.Equal(t, session.Session{
		Token:     token,
		UserID:    "42",
		UserName:  "Ana",
		Email:     "ana@example.edu",
		RoleName:  "Student",
		ExpiresAt: "2030-01-02T03:04:05Z",
	}, got)
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("k"))
	require.NoError(t, err)

	assert.Equal(t, "", TokenExpiry(""))
	assert.Equal(t, "", TokenExpiry("opaque-token"))
	assert.Equal(t, "", TokenExpiry(noExp))
}

func TestTicketQRPayload(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		`{"success":true,"data":"data:image/png;base64,AAA"}`: "data:image/png;base64,AAA",
		`{"data":{"qrCode":"BBB"}}`:                           "BBB",
		`"CCC"`:                                               "CCC",
	}
	for body, want := range cases {
		body, want := body, want
		t.Run(want, func(t *testing.T) {
			t.Parallel()
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/getQR", r.URL.Path)
				_, _ = io.WriteString(w, body)
			}, nil)
			got, err := client.TicketQR(context.Background(), "1")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Message(nil))
	assert.Equal(t, FallbackMessage, Message(errors.New("boom")))
	assert.Equal(t, FallbackMessage, Message(&EnvelopeError{}))
	assert.Equal(t, "Teapot", Message(&StatusError{Status: 418, Message: "Teapot"}))
	assert.Equal(t, FallbackMessage, Message(&StatusError{Status: 599}))
}
