package patients

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

// Handler handles HTTP requests for the patient registry.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new patients handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /pacientes requests.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode patient request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	patient, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create patient", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("patient created", "id", patient.ID, "nombre", patient.Name)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(patient)
}

// Get handles GET /pacientes/{patientID} requests.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	patient, err := h.repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load patient", "error", err, "id", id)
		http.Error(w, "failed to load patient", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patient)
}

// List handles GET /pacientes requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list patients", "error", err)
		http.Error(w, "failed to list patients", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"pacientes": list,
		"count":     len(list),
	})
}
