package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/session"
)

// Gate decides access from the stored session.
type Gate interface {
	Authorize(ctx context.Context, allowed ...session.Role) session.Decision
	Current(ctx context.Context) (session.Session, bool)
}

const (
	loginPath = "/login"
	homePath  = "/"
)

// RequireRole admits requests whose stored session holds one of roles, or
// any valid session when roles is empty. The principal is attached to the
// request context.
func RequireRole(gate Gate, roles ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			decision := gate.Authorize(ctx, roles...)
			if decision == session.Allow {
				current, ok := gate.Current(ctx)
				if !ok {
					decision = session.RedirectToLogin
				} else {
					next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(ctx, application.PrincipalFromSession(current))))
					return
				}
			}
			deny(w, r, decision)
		})
	}
}

// closedRoute denies every request. Routes missing from the policy use it.
func closedRoute() func(http.Handler) http.Handler {
	return func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deny(w, r, session.RedirectToHome)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, decision session.Decision) {
	ctx := r.Context()
	responder := newResponder(nil)
	responder.loggerFor(ctx).InfoContext(ctx, "access denied", "decision", decision.String())

	if wantsJSON(r) {
		if decision == session.RedirectToLogin {
			responder.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
				ErrorCode: "AUTH_REQUIRED",
				Message:   "Please sign in to continue.",
				Redirect:  loginPath,
			})
			return
		}
		responder.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "You do not have access to this page.",
		})
		return
	}

	target := homePath
	if decision == session.RedirectToLogin {
		target = loginPath
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(strings.TrimSpace(mediaType), "application/json") {
			return true
		}
	}
	return false
}
