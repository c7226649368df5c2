package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/service"
	"github.com/utafrali/RestaurantGo/pkg/httputil"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	menu    *service.MenuService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler. menu resolves items added
// by id alone.
func NewCartHandler(svc *service.CartService, menu *service.MenuService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, menu: menu, logger: logger}
}

// UpdateQuantityRequest is the JSON request body for updating a line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Snapshot())
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(r.Context())
	httputil.WriteData(w, http.StatusOK, h.service.Snapshot())
}

// AddItem handles POST /api/v1/cart/items
//
// A body naming only menuItemId takes name, price and image from the menu in
// the current language.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req domain.AddToCartInput
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name == "" && req.MenuItemID != "" && h.menu != nil {
		item, err := h.menu.Item(r.Context(), r.URL.Query().Get("lang"), req.MenuItemID)
		if err != nil {
			writeError(w, r, err, h.logger)
			return
		}
		in := domain.CartInputFromMenuItem(item)
		in.Modifiers = req.Modifiers
		in.Note = req.Note
		req = in
	}

	snap, err := h.service.Add(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, snap)
}

// UpdateQuantity handles PATCH /api/v1/cart/items/{id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	snap, err := h.service.UpdateQuantity(r.Context(), id, req.Quantity)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, snap)
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	httputil.WriteData(w, http.StatusOK, h.service.Remove(r.Context(), id))
}
