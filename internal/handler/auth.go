package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkpress/inkpress/internal/handler/dto"
	"github.com/inkpress/inkpress/internal/middleware"
	"github.com/inkpress/inkpress/internal/service"
	"github.com/inkpress/inkpress/internal/session"
)

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	svc      *service.AuthService
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions, logger: logger}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}

	user, sess, err := h.svc.Signup(r.Context(), input, h.sessions.ReadToken(r))
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	h.logger.Info("user_signed_up",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	h.sessions.WriteCookie(w, sess)
	writeJSON(w, http.StatusCreated, dto.UserResponse{User: user})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}

	user, sess, err := h.svc.Login(r.Context(), input, h.sessions.ReadToken(r))
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	h.logger.Info("user_logged_in",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	h.sessions.WriteCookie(w, sess)
	writeJSON(w, http.StatusOK, dto.UserResponse{User: user})
}

// Logout handles POST /auth/logout. Succeeds whether or not a session
// exists, and always tells the client to clear its cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), h.sessions.ReadToken(r)); err != nil {
		h.logger.Error("logout failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, "Unable to logout right now")
		return
	}

	h.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Identity(r.Context())
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{User: user})
}

// handleAuthError maps auth service errors to HTTP responses.
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingSignupFields),
		errors.Is(err, service.ErrNameTooLong),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong),
		errors.Is(err, service.ErrMissingCredentials):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeMessage(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrNotAuthenticated):
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
	default:
		h.logger.Error("auth error",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
	}
}
