package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

func TestCreateService_Success(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, logging.Default())

	reqBody := CreateServiceRequest{
		Name:            "Consulta general",
		DurationMinutes: 30,
		PriceCLP:        25000,
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/admin/servicios", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	var svc Service
	if err := json.NewDecoder(w.Body).Decode(&svc); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if svc.Name != "Consulta general" {
		t.Errorf("expected name Consulta general, got %s", svc.Name)
	}
	if svc.RequiredBlocks() != 2 {
		t.Errorf("expected 2 required blocks, got %d", svc.RequiredBlocks())
	}
}

func TestCreateService_InvalidDuration(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/admin/servicios", strings.NewReader(`{"nombre":"Consulta","duracion_minutos":0}`))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetService_NotFound(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/servicios/unknown", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("serviceID", "unknown")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.Get(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestListServices(t *testing.T) {
	repo := NewInMemoryRepository()
	if _, err := repo.Create(context.Background(), &CreateServiceRequest{
		Name: "Vacunación", DurationMinutes: 15, PriceCLP: 18000,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	handler := NewHandler(repo, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/servicios", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Servicios []Service `json:"servicios"`
		Count     int       `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected one service, got %d", resp.Count)
	}
}
