package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/service"
	"github.com/utafrali/RestaurantGo/pkg/httputil"
)

// AccountHandler handles saved addresses and payment methods.
type AccountHandler struct {
	addresses *service.AddressService
	payments  *service.PaymentService
	logger    *slog.Logger
}

// NewAccountHandler creates a new account HTTP handler.
func NewAccountHandler(addresses *service.AddressService, payments *service.PaymentService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{addresses: addresses, payments: payments, logger: logger}
}

// ListAddresses handles GET /api/v1/addresses
func (h *AccountHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	list, err := h.addresses.List(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, list)
}

// CreateAddress handles POST /api/v1/addresses
func (h *AccountHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var req domain.Address
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.addresses.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, a)
}

// UpdateAddress handles PUT /api/v1/addresses/{id}
func (h *AccountHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req domain.Address
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.addresses.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, a)
}

// DeleteAddress handles DELETE /api/v1/addresses/{id}
func (h *AccountHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.addresses.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPaymentMethods handles GET /api/v1/payment-methods
func (h *AccountHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	list, err := h.payments.Methods(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, list)
}

// AddPaymentMethod handles POST /api/v1/payment-methods
func (h *AccountHandler) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req domain.PaymentMethod
	if !decodeBody(w, r, &req) {
		return
	}
	pm, err := h.payments.Add(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, pm)
}

// DeletePaymentMethod handles DELETE /api/v1/payment-methods/{id}
func (h *AccountHandler) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.payments.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreatePaymentIntent handles POST /api/v1/payment-intents
//
// An empty body charges the current cart total in the default currency.
func (h *AccountHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req domain.PaymentIntentRequest
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}
	intent, err := h.payments.CreateIntent(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, intent)
}
