package holidays

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler serves the computed holiday calendar.
type Handler struct{}

// NewHandler creates a holidays handler.
func NewHandler() *Handler {
	return &Handler{}
}

// ByYear handles GET /feriados/{year} requests.
func (h *Handler) ByYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 2200 {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"year":     year,
		"feriados": Compute(year),
	})
}
