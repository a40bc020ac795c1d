package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/campus-events/internal/application"
)

type authService interface {
	Login(ctx context.Context, params application.LoginParams) (application.Profile, error)
	GoogleLogin(ctx context.Context, idToken string) (application.Profile, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (application.Profile, error)
}

// AuthHandler serves login, logout and the current profile.
type AuthHandler struct {
	service   authService
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(service authService, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.rejectBody(ctx, w, err)
		return
	}

	profile, err := h.service.Login(ctx, application.LoginParams{Email: req.Email, Password: req.Password})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.log(ctx, "Login", "user_id", profile.UserID).InfoContext(ctx, "user signed in")
	h.responder.writeJSON(ctx, w, http.StatusOK, profile)
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	var req googleLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.rejectBody(ctx, w, err)
		return
	}

	profile, err := h.service.GoogleLogin(ctx, req.IDToken)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.log(ctx, "GoogleLogin", "user_id", profile.UserID).InfoContext(ctx, "user signed in with google")
	h.responder.writeJSON(ctx, w, http.StatusOK, profile)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := h.service.Logout(r.Context()); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	profile, err := h.service.Profile(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, profile)
}

type loginPrompt struct {
	Message string   `json:"message"`
	Methods []string `json:"methods"`
	Login   string   `json:"login"`
}

// LoginPage is where unauthenticated browsers are sent. It describes how to
// sign in rather than rendering a form.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	responder := newResponder(nil)
	if h != nil {
		responder = h.responder
	}
	responder.writeJSON(r.Context(), w, http.StatusOK, loginPrompt{
		Message: "Please sign in to continue.",
		Methods: []string{"password", "google"},
		Login:   loginPath,
	})
}
