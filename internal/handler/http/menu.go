package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/search"
	"github.com/utafrali/RestaurantGo/internal/service"
	"github.com/utafrali/RestaurantGo/pkg/httputil"
)

// MenuHandler serves the menu and its search.
type MenuHandler struct {
	service *service.MenuService
	logger  *slog.Logger
}

// NewMenuHandler creates a new menu HTTP handler.
func NewMenuHandler(svc *service.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{service: svc, logger: logger}
}

// --- Response DTOs ---

type menuResponse struct {
	Categories []domain.MenuCategory `json:"categories"`
	Items      []domain.MenuItem     `json:"items"`
}

type searchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}

// GetMenu handles GET /api/v1/menu?lang=&q=
//
// Without q the whole menu is returned; with q the ranked matches.
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	query := r.URL.Query().Get("q")

	if strings.TrimSpace(query) != "" {
		results, err := h.service.Search(r.Context(), lang, query)
		if err != nil {
			writeError(w, r, err, h.logger)
			return
		}
		httputil.WriteData(w, http.StatusOK, searchResponse{Query: query, Results: results})
		return
	}

	m, err := h.service.Menu(r.Context(), lang)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, menuResponse{Categories: m.Categories, Items: m.Items})
}

// GetItem handles GET /api/v1/menu/items/{id}
func (h *MenuHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.service.Item(r.Context(), r.URL.Query().Get("lang"), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, item)
}

// GetModifiers handles GET /api/v1/menu/items/{id}/modifiers
func (h *MenuHandler) GetModifiers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	mods, err := h.service.Modifiers(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, mods)
}
