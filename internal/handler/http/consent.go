package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/service"
	"github.com/utafrali/RestaurantGo/pkg/httputil"
)

// ConsentHandler handles the cookie banner and the account privacy settings.
type ConsentHandler struct {
	cookies *service.CookieConsentService
	privacy *service.PrivacyConsentService
	logger  *slog.Logger
}

// NewConsentHandler creates a new consent HTTP handler.
func NewConsentHandler(cookies *service.CookieConsentService, privacy *service.PrivacyConsentService, logger *slog.Logger) *ConsentHandler {
	return &ConsentHandler{cookies: cookies, privacy: privacy, logger: logger}
}

// --- Response DTOs ---

type cookieConsentResponse struct {
	Consent    *domain.CookieConsent `json:"consent"`
	ShowBanner bool                  `json:"showBanner"`
}

func (h *ConsentHandler) cookieState() cookieConsentResponse {
	return cookieConsentResponse{Consent: h.cookies.Consent(), ShowBanner: h.cookies.ShowBanner()}
}

// GetCookies handles GET /api/v1/consent/cookies
func (h *ConsentHandler) GetCookies(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.cookieState())
}

// SaveCookies handles PUT /api/v1/consent/cookies
func (h *ConsentHandler) SaveCookies(w http.ResponseWriter, r *http.Request) {
	var req domain.CookieConsent
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.cookies.SavePreferences(r.Context(), req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, h.cookieState())
}

// ResetCookies handles DELETE /api/v1/consent/cookies
func (h *ConsentHandler) ResetCookies(w http.ResponseWriter, r *http.Request) {
	if err := h.cookies.ResetConsent(r.Context()); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, h.cookieState())
}

// AcceptAll handles POST /api/v1/consent/cookies/accept-all
func (h *ConsentHandler) AcceptAll(w http.ResponseWriter, r *http.Request) {
	if err := h.cookies.AcceptAll(r.Context()); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, h.cookieState())
}

// RejectAll handles POST /api/v1/consent/cookies/reject-all
func (h *ConsentHandler) RejectAll(w http.ResponseWriter, r *http.Request) {
	if err := h.cookies.RejectAll(r.Context()); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, h.cookieState())
}

// GetPrivacy handles GET /api/v1/consent/privacy
func (h *ConsentHandler) GetPrivacy(w http.ResponseWriter, r *http.Request) {
	pc, err := h.privacy.Get(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, pc)
}

// UpdatePrivacy handles PUT /api/v1/consent/privacy
func (h *ConsentHandler) UpdatePrivacy(w http.ResponseWriter, r *http.Request) {
	var req domain.PrivacyConsent
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.privacy.Update(r.Context(), req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, req)
}
