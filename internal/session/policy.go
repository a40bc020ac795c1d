package session

// Route names a protected dashboard view.
type Route string

const (
	RouteProfile        Route = "profile"
	RouteEventsBrowse   Route = "events.browse"
	RouteEventsManage   Route = "events.manage"
	RouteEventsReview   Route = "events.review"
	RouteEventsStaff    Route = "events.staff"
	RouteCalendar       Route = "calendar"
	RouteTicketsOwn     Route = "tickets.own"
	RouteTicketsScan    Route = "tickets.scan"
	RouteFeedbackSubmit Route = "feedback.submit"
	RouteFeedbackReview Route = "feedback.review"
	RouteUsersAdmin     Route = "users.admin"
	RouteSpeakersManage Route = "speakers.manage"
	RouteCatalogAdmin   Route = "catalog.admin"
	RouteSpeakersBrowse Route = "speakers.browse"
)

// RoutePolicy maps each protected route to the roles allowed to view it. An
// empty role list admits any authenticated role.
type RoutePolicy map[Route][]Role

// DefaultRoutePolicy returns the role sets used by the dashboards.
func DefaultRoutePolicy() RoutePolicy {
	return RoutePolicy{
		RouteProfile:        nil,
		RouteEventsBrowse:   nil,
		RouteSpeakersBrowse: nil,
		RouteEventsManage:   {RoleAdmin, RoleOrganizer},
		RouteCalendar:       {RoleAdmin, RoleOrganizer},
		RouteEventsReview:   {RoleAdmin},
		RouteEventsStaff:    {RoleStaff},
		RouteTicketsOwn:     {RoleStudent},
		RouteTicketsScan:    {RoleStaff, RoleAdmin},
		RouteFeedbackSubmit: {RoleStudent},
		RouteFeedbackReview: {RoleAdmin, RoleOrganizer},
		RouteUsersAdmin:     {RoleAdmin},
		RouteSpeakersManage: {RoleAdmin, RoleOrganizer},
		RouteCatalogAdmin:   {RoleAdmin},
	}
}

// Roles returns the allowed roles for route. Unknown routes report false and
// must be treated as closed.
func (p RoutePolicy) Roles(route Route) ([]Role, bool) {
	roles, ok := p[route]
	if !ok {
		return nil, false
	}
	return append([]Role(nil), roles...), true
}
