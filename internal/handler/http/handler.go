// Package http exposes the device stores as a local JSON API for a UI shell.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/pkg/httputil"
)

// messageResponse carries the plain confirmation text some backend calls
// return (password reset, email verification).
type messageResponse struct {
	Message string `json:"message"`
}

// decodeBody decodes the JSON request body into dst. On failure it writes a
// 400 INVALID_INPUT response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return false
	}
	return true
}

// pathID reads the {id} route parameter.
func pathID(w http.ResponseWriter, r *http.Request) (domain.ID, bool) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	return domain.ID(id), ok
}

func writeError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	httputil.WriteError(w, r, err, logger)
}
