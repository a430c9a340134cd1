package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

// Handler handles HTTP requests for the service catalog.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new catalog handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /admin/servicios requests.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode service request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	svc, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create service", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("service created", "id", svc.ID, "nombre", svc.Name, "duracion", svc.DurationMinutes)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(svc)
}

// List handles GET /servicios requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		http.Error(w, "failed to list services", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"servicios": list,
		"count":     len(list),
	})
}

// Get handles GET /servicios/{serviceID} requests.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "serviceID")
	svc, err := h.repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load service", "error", err, "id", id)
		http.Error(w, "failed to load service", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(svc)
}
