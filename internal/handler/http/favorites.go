package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/service"
	"github.com/utafrali/RestaurantGo/pkg/httputil"
)

// FavoritesHandler exposes the favorites set.
type FavoritesHandler struct {
	service *service.FavoritesService
	logger  *slog.Logger
}

func NewFavoritesHandler(svc *service.FavoritesService, logger *slog.Logger) *FavoritesHandler {
	return &FavoritesHandler{service: svc, logger: logger}
}

type favoritesResponse struct {
	IDs []domain.ID `json:"ids"`
}

type toggleResponse struct {
	ID       domain.ID           `json:"id"`
	Favorite bool                `json:"favorite"`
	State    service.ToggleState `json:"state"`
}

// List handles GET /api/v1/favorites
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, favoritesResponse{IDs: h.service.IDs()})
}

// Refresh handles POST /api/v1/favorites/refresh
func (h *FavoritesHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refetch(r.Context()); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, favoritesResponse{IDs: h.service.IDs()})
}

// Toggle handles POST /api/v1/favorites/{id}/toggle
func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Toggle(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toggleResponse{
		ID:       id,
		Favorite: h.service.IsFavorite(id),
		State:    h.service.State(id),
	})
}
