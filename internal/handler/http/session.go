package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/RestaurantGo/internal/service"
	"github.com/utafrali/RestaurantGo/pkg/httputil"
)

// SessionHandler handles the sign-in and password flows.
type SessionHandler struct {
	service *service.SessionService
	logger  *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler.
func NewSessionHandler(svc *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{service: svc, logger: logger}
}

// GetSession handles GET /api/v1/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Snapshot())
}

// Login handles POST /api/v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.service.Login(r.Context(), req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, h.service.Snapshot())
}

// Register handles POST /api/v1/session/register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.service.Register(r.Context(), req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, h.service.Snapshot())
}

// GoogleSignIn handles POST /api/v1/session/google
func (h *SessionHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req service.GoogleSignInInput
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.service.GoogleSignIn(r.Context(), req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, h.service.Snapshot())
}

// Refresh handles POST /api/v1/session/refresh
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RefreshToken(r.Context()); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, h.service.Snapshot())
}

// Logout handles POST /api/v1/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context())
	httputil.WriteData(w, http.StatusOK, h.service.Snapshot())
}

// ClearError handles DELETE /api/v1/session/error
func (h *SessionHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.service.ClearError()
	httputil.WriteData(w, http.StatusOK, h.service.Snapshot())
}

// ForgotPassword handles POST /api/v1/session/forgot-password
func (h *SessionHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req service.ForgotPasswordInput
	if !decodeBody(w, r, &req) {
		return
	}
	msg, err := h.service.ForgotPassword(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, messageResponse{Message: msg})
}

// ResetPassword handles POST /api/v1/session/reset-password
func (h *SessionHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req service.ResetPasswordInput
	if !decodeBody(w, r, &req) {
		return
	}
	msg, err := h.service.ResetPassword(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, messageResponse{Message: msg})
}

// VerifyEmail handles GET /api/v1/session/verify-email?token=
func (h *SessionHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, messageResponse{Message: msg})
}
