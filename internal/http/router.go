package http

import (
	"net/http"

	"github.com/example/campus-events/internal/session"
)

type RouterConfig struct {
	Auth      *AuthHandler
	Events    *EventHandler
	Catalog   *CatalogHandler
	Tickets   *TicketHandler
	Feedback  *FeedbackHandler
	Directory *DirectoryHandler

	// Gate and Policy guard every route except login and logout.
	Gate   Gate
	Policy session.RoutePolicy

	Middleware []func(http.Handler) http.Handler
}

type router struct {
	mux    *http.ServeMux
	gate   Gate
	policy session.RoutePolicy
}

// handle registers fn under pattern behind the role set the policy assigns
// to route. Routes missing from the policy are closed.
func (rt router) handle(pattern string, route session.Route, fn http.HandlerFunc) {
	guard := closedRoute()
	if roles, ok := rt.policy.Roles(route); ok && rt.gate != nil {
		guard = RequireRole(rt.gate, roles...)
	}
	rt.mux.Handle(pattern, guard(fn))
}

func NewRouter(cfg RouterConfig) http.Handler {
	policy := cfg.Policy
	if policy == nil {
		policy = session.DefaultRoutePolicy()
	}
	rt := router{mux: http.NewServeMux(), gate: cfg.Gate, policy: policy}

	if cfg.Auth != nil {
		rt.mux.HandleFunc("GET /login", cfg.Auth.LoginPage)
		rt.mux.HandleFunc("POST /login", cfg.Auth.Login)
		rt.mux.HandleFunc("POST /login/google", cfg.Auth.GoogleLogin)
		rt.mux.HandleFunc("POST /logout", cfg.Auth.Logout)
		rt.handle("GET /{$}", session.RouteProfile, cfg.Auth.Me)
		rt.handle("GET /me", session.RouteProfile, cfg.Auth.Me)
	}

	if cfg.Events != nil {
		rt.handle("GET /events", session.RouteEventsBrowse, cfg.Events.List)
		rt.handle("POST /events", session.RouteEventsManage, cfg.Events.Create)
		rt.handle("GET /events/form", session.RouteEventsManage, cfg.Events.Form)
		rt.handle("GET /events/mine", session.RouteEventsManage, cfg.Events.Mine)
		rt.handle("GET /events/staff", session.RouteEventsStaff, cfg.Events.Staffed)
		rt.handle("GET /events/{id}", session.RouteEventsBrowse, cfg.Events.Get)
		rt.handle("PUT /events/{id}", session.RouteEventsManage, cfg.Events.Update)
		rt.handle("POST /events/{id}/approve", session.RouteEventsReview, cfg.Events.Approve)
		rt.handle("POST /events/{id}/reject", session.RouteEventsReview, cfg.Events.Reject)
		rt.handle("GET /calendar", session.RouteCalendar, cfg.Events.Calendar)
		rt.handle("GET /calendar/slots", session.RouteCalendar, cfg.Events.Slots)
	}

	if cfg.Catalog != nil {
		rt.handle("GET /venues", session.RouteEventsBrowse, cfg.Catalog.ListVenues)
		rt.handle("POST /venues", session.RouteCatalogAdmin, cfg.Catalog.CreateVenue)
		rt.handle("GET /slots", session.RouteEventsBrowse, cfg.Catalog.ListSlots)
		rt.handle("POST /slots", session.RouteCatalogAdmin, cfg.Catalog.CreateSlot)
	}

	if cfg.Tickets != nil {
		rt.handle("GET /tickets", session.RouteTicketsOwn, cfg.Tickets.List)
		rt.handle("POST /tickets", session.RouteTicketsOwn, cfg.Tickets.Register)
		rt.handle("POST /tickets/{id}/cancel", session.RouteTicketsOwn, cfg.Tickets.Cancel)
		rt.handle("GET /tickets/{id}/qr", session.RouteTicketsOwn, cfg.Tickets.QRCode)
		rt.handle("POST /tickets/scan", session.RouteTicketsScan, cfg.Tickets.Scan)
	}

	if cfg.Feedback != nil {
		rt.handle("GET /feedback", session.RouteFeedbackReview, cfg.Feedback.List)
		rt.handle("POST /feedback", session.RouteFeedbackSubmit, cfg.Feedback.Submit)
	}

	if cfg.Directory != nil {
		rt.handle("GET /users", session.RouteUsersAdmin, cfg.Directory.ListUsers)
		rt.handle("POST /users", session.RouteUsersAdmin, cfg.Directory.CreateUser)
		rt.handle("PUT /users/{id}", session.RouteUsersAdmin, cfg.Directory.UpdateUser)
		rt.handle("DELETE /users/{id}", session.RouteUsersAdmin, cfg.Directory.DeleteUser)
		rt.handle("GET /speakers", session.RouteSpeakersBrowse, cfg.Directory.ListSpeakers)
		rt.handle("POST /speakers", session.RouteSpeakersManage, cfg.Directory.SaveSpeaker)
		rt.handle("PUT /speakers/{id}", session.RouteSpeakersManage, cfg.Directory.SaveSpeaker)
		rt.handle("DELETE /speakers/{id}", session.RouteSpeakersManage, cfg.Directory.DeleteSpeaker)
	}

	var handler http.Handler = rt.mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}
