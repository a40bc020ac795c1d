// Package http exposes the dashboard gateway: a JSON API over the remote
// event-registration backend, gated by the locally stored session.
//
// Every protected route is wrapped with RequireRole using the role set that
// session.DefaultRoutePolicy assigns to it. Browsers without a valid session
// are redirected to /login and browsers with the wrong role to /; clients
// sending "Accept: application/json" get 401 and 403 instead.
//
// Error responses share one shape:
//
//	{"message": "...", "error_code": "SLOT_TAKEN", "errors": {"slot_ids": "..."}}
//
// error_code and errors are omitted when empty. A 401 carries
// "redirect": "/login" so clients can send the user back to the login page.
//
// Request and response DTOs live in dto.go so tests and documentation share
// the same ground truth.
package http
