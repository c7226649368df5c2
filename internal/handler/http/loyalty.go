package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/service"
	"github.com/utafrali/RestaurantGo/pkg/httputil"
	"github.com/utafrali/RestaurantGo/pkg/pagination"
)

// LoyaltyHandler handles code redemption and the admin QR token list.
type LoyaltyHandler struct {
	service *service.LoyaltyService
	logger  *slog.Logger
}

// NewLoyaltyHandler creates a new loyalty HTTP handler.
func NewLoyaltyHandler(svc *service.LoyaltyService, logger *slog.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{service: svc, logger: logger}
}

// RedeemRequest is the JSON request body for a scanned or typed code.
type RedeemRequest struct {
	Code string `json:"code"`
}

// Redeem handles POST /api/v1/loyalty/redeem
func (h *LoyaltyHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.service.Redeem(r.Context(), req.Code)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}

// ListTokens handles GET /api/v1/loyalty/tokens?active=true&page=&limit=
func (h *LoyaltyHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	tokens, err := h.service.Tokens(r.Context(), activeOnly, pagination.FromRequest(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, tokens)
}

// CreateToken handles POST /api/v1/loyalty/tokens
func (h *LoyaltyHandler) CreateToken(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoyaltyTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tok, err := h.service.CreateToken(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, tok)
}

// DeleteToken handles DELETE /api/v1/loyalty/tokens/{id}
func (h *LoyaltyHandler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteToken(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
