package staff

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

// Handler handles HTTP requests for the veterinarian directory.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new staff handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /admin/veterinarios requests.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateVeterinarianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode veterinarian request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	vet, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create veterinarian", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("veterinarian created", "id", vet.ID, "nombre", vet.Name)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(vet)
}

// List handles GET /veterinarios requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	vets, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list veterinarians", "error", err)
		http.Error(w, "failed to list veterinarians", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"veterinarios": vets,
		"count":        len(vets),
	})
}

// Get handles GET /veterinarios/{vetID} requests.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vetID")
	vet, err := h.repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "veterinarian not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load veterinarian", "error", err, "id", id)
		http.Error(w, "failed to load veterinarian", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vet)
}

// SetHours handles PUT /admin/veterinarios/{vetID}/horario requests. The
// body maps weekday numbers (Sunday = 0) to block ranges.
func (h *Handler) SetHours(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vetID")

	var hours WeeklyHours
	if err := json.NewDecoder(r.Body).Decode(&hours); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.repo.SetWeeklyHours(r.Context(), id, hours)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "veterinarian not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, ErrInvalidRange) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("failed to set working hours", "error", err, "id", id)
		http.Error(w, "failed to set working hours", http.StatusInternalServerError)
		return
	}

	h.logger.Info("working hours updated", "veterinario_id", id)
	w.WriteHeader(http.StatusNoContent)
}
