package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zaytoon-pos/api/internal/database"
	"github.com/zaytoon-pos/api/internal/enum"
	"github.com/zaytoon-pos/api/internal/export"
)

// ExportStore defines the database methods needed by the export handler.
// Satisfied by *database.Queries.
type ExportStore interface {
	ListOrdersByStatus(ctx context.Context, status string) ([]database.Order, error)
}

// ExportHandler serves the completed-orders CSV dump.
type ExportHandler struct {
	store ExportStore
}

func NewExportHandler(store ExportStore) *ExportHandler {
	return &ExportHandler{store: store}
}

// RegisterRoutes registers export endpoints. Expected mount: /export.
func (h *ExportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/completed.csv", h.Completed)
}

// Completed streams every completed order as CSV. Zero completed orders still
// produce the header row.
func (h *ExportHandler) Completed(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrdersByStatus(r.Context(), enum.OrderStatusCompleted)
	if err != nil {
		log.Printf("ERROR: list completed orders for export: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="completed_orders.csv"`)
	if err := export.WriteOrders(w, orders); err != nil {
		// Headers are already gone; all we can do is log.
		log.Printf("ERROR: write export: %v", err)
	}
}
