package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/service"
	"github.com/utafrali/RestaurantGo/pkg/httputil"
)

// OrderHandler handles checkout, order history, tracking and the admin
// order board.
type OrderHandler struct {
	service  *service.OrderService
	tracking *service.TrackingService
	logger   *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, tracking *service.TrackingService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{service: svc, tracking: tracking, logger: logger}
}

// --- Request DTOs ---

// UpdateStatusRequest is the JSON request body for the admin status change.
type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

type minOrderValueResponse struct {
	MinOrderValue domain.Money `json:"minOrderValue"`
}

// Place handles POST /api/v1/orders
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutInput
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.service.PlaceOrder(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, res)
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.Orders(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, orders)
}

// Get handles GET /api/v1/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.service.Order(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, order)
}

// Cancel handles DELETE /api/v1/orders/{id}
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Cancel(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Track handles GET /api/v1/orders/{id}/tracking
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	info, err := h.tracking.Track(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, info)
}

// StreamTracking handles GET /api/v1/tracking/{id}/stream
//
// The response is a text/event-stream. Each poll emits a "tracking" or
// "error" event; a final "done" event follows a terminal status or a
// permanent failure.
func (h *OrderHandler) StreamTracking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	// Fail fast with a regular JSON error when the first poll is impossible.
	first, err := h.tracking.Track(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.WarnContext(r.Context(), "failed to clear write deadline", slog.String("error", err.Error()))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(event string, v any) bool {
		payload, err := json.Marshal(v)
		if err != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	if first.Status.Terminal() {
		if send("tracking", first) {
			send("done", first)
		}
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	last := first
	watchErr := h.tracking.Watch(ctx, id, func(info *domain.TrackingInfo, err error) {
		if err != nil {
			_, body := httputil.ErrorBody(err)
			if !send("error", body) {
				cancel()
			}
			return
		}
		last = info
		if !send("tracking", info) {
			cancel()
		}
	})
	if ctx.Err() != nil {
		return
	}
	if watchErr != nil {
		h.logger.InfoContext(r.Context(), "tracking stream stopped",
			slog.String("order_id", id.String()),
			slog.String("error", watchErr.Error()),
		)
	}
	send("done", last)
}

// ListAll handles GET /api/v1/admin/orders
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.AllOrders(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, orders)
}

// UpdateStatus handles PATCH /api/v1/admin/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMinOrderValue handles GET /api/v1/settings/min-order-value
func (h *OrderHandler) GetMinOrderValue(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.MinOrderValue(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, minOrderValueResponse{MinOrderValue: v})
}
