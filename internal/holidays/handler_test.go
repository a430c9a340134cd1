package holidays

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func yearRequest(year string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/feriados/"+year, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("year", year)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestByYear(t *testing.T) {
	handler := NewHandler()

	w := httptest.NewRecorder()
	handler.ByYear(w, yearRequest("2026"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Year     int `json:"year"`
		Feriados []struct {
			Fecha         string `json:"fecha"`
			Titulo        string `json:"titulo"`
			Irrenunciable bool   `json:"irrenunciable"`
		} `json:"feriados"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Year != 2026 {
		t.Fatalf("expected year 2026, got %d", resp.Year)
	}
	if len(resp.Feriados) == 0 {
		t.Fatal("expected at least one holiday")
	}

	found := false
	for _, f := range resp.Feriados {
		if f.Fecha == "2026-09-18" {
			found = true
			if !f.Irrenunciable {
				t.Error("expected 2026-09-18 to be irrenunciable")
			}
		}
	}
	if !found {
		t.Fatal("expected fiestas patrias in the list")
	}
}

func TestByYearRejectsBogusYear(t *testing.T) {
	handler := NewHandler()

	for _, year := range []string{"abc", "1200", "9999"} {
		w := httptest.NewRecorder()
		handler.ByYear(w, yearRequest(year))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("year %q: expected status %d, got %d", year, http.StatusBadRequest, w.Code)
		}
	}
}
