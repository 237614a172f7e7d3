package handler_test

import (
	"context"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/zaytoon-pos/api/internal/database"
	"github.com/zaytoon-pos/api/internal/enum"
	"github.com/zaytoon-pos/api/internal/handler"
	"github.com/zaytoon-pos/api/internal/middleware"
)

type mockExportStore struct {
	listOrdersByStatusFn func(ctx context.Context, status string) ([]database.Order, error)
}

func (m *mockExportStore) ListOrdersByStatus(ctx context.Context, status string) ([]database.Order, error) {
	return m.listOrdersByStatusFn(ctx, status)
}

func setupExportRouter(store *mockExportStore) *chi.Mux {
	h := handler.NewExportHandler(store)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/export", h.RegisterRoutes)
	return r
}

func TestExportCompletedCSV(t *testing.T) {
	var gotStatus string
	store := &mockExportStore{
		listOrdersByStatusFn: func(ctx context.Context, status string) ([]database.Order, error) {
			gotStatus = status
			return []database.Order{sampleOrder(enum.OrderStatusCompleted)}, nil
		},
	}
	router := setupExportRouter(store)

	rr := doRequest(t, router, "GET", "/export/completed.csv", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if gotStatus != enum.OrderStatusCompleted {
		t.Errorf("queried status: got %q, want completed", gotStatus)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("content type: got %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "completed_orders.csv") {
		t.Errorf("content disposition: got %q", cd)
	}

	records, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(records))
	}
	if records[1][1] != "Sara" || records[1][9] != "completed" {
		t.Errorf("unexpected row: %v", records[1])
	}
}

func TestExportCompletedCSVEmpty(t *testing.T) {
	store := &mockExportStore{
		listOrdersByStatusFn: func(ctx context.Context, status string) ([]database.Order, error) {
			return nil, nil
		},
	}
	router := setupExportRouter(store)

	rr := doRequest(t, router, "GET", "/export/completed.csv", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	records, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want header only", len(records))
	}
	if records[0][0] != "id" {
		t.Errorf("header: got %v", records[0])
	}
}
