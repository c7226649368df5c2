package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/RestaurantGo/internal/service"
	"github.com/utafrali/RestaurantGo/pkg/httputil"
	"github.com/utafrali/RestaurantGo/pkg/pagination"
)

type NotificationHandler struct {
	service *service.NotificationService
	logger  *slog.Logger
}

func NewNotificationHandler(svc *service.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{service: svc, logger: logger}
}

// List handles GET /api/v1/notifications?page=&limit=
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.History(r.Context(), pagination.FromRequest(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}

// MarkOpened handles PATCH /api/v1/notifications/{id}/opened
func (h *NotificationHandler) MarkOpened(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.MarkOpened(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
