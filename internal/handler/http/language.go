package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/RestaurantGo/internal/service"
	"github.com/utafrali/RestaurantGo/pkg/httputil"
)

type LanguageHandler struct {
	service *service.LanguageService
	logger  *slog.Logger
}

func NewLanguageHandler(svc *service.LanguageService, logger *slog.Logger) *LanguageHandler {
	return &LanguageHandler{service: svc, logger: logger}
}

type languageBody struct {
	Language string `json:"language"`
}

// Get handles GET /api/v1/language
func (h *LanguageHandler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, languageBody{Language: h.service.Current()})
}

// Change handles PUT /api/v1/language
func (h *LanguageHandler) Change(w http.ResponseWriter, r *http.Request) {
	var req languageBody
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.service.Change(r.Context(), req.Language); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, languageBody{Language: h.service.Current()})
}
