package handler

import (
	"context"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/zaytoon-pos/api/internal/database"
	"github.com/zaytoon-pos/api/internal/enum"
)

// AnalyticsStore defines the database methods needed by analytics handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type AnalyticsStore interface {
	CountOrdersByStatus(ctx context.Context) ([]database.CountOrdersByStatusRow, error)
	BaseItemBreakdown(ctx context.Context) ([]database.BaseItemBreakdownRow, error)
	ListCustomerNames(ctx context.Context) ([]string, error)
	ListOrdersByCustomer(ctx context.Context, customerName string) ([]database.Order, error)
}

// AnalyticsHandler handles dashboard aggregation endpoints. All of these are
// pure reads; the dashboards poll them.
type AnalyticsHandler struct {
	store AnalyticsStore
}

func NewAnalyticsHandler(store AnalyticsStore) *AnalyticsHandler {
	return &AnalyticsHandler{store: store}
}

// RegisterRoutes registers aggregate endpoints. Expected mount: /analytics.
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/status-counts", h.StatusCounts)
	r.Get("/item-breakdown", h.ItemBreakdown)
}

// RegisterCustomerRoutes registers customer endpoints. Expected mount: /customers.
func (h *AnalyticsHandler) RegisterCustomerRoutes(r chi.Router) {
	r.Get("/", h.Customers)
	r.Get("/{name}/orders", h.CustomerHistory)
}

// --- Response types ---

type itemBreakdownResponse struct {
	BaseItem string `json:"base_item"`
	Count    int64  `json:"count"`
}

// --- Handlers ---

// StatusCounts returns order counts per status, zero-filled so every status
// is always present in the response.
func (h *AnalyticsHandler) StatusCounts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.CountOrdersByStatus(r.Context())
	if err != nil {
		log.Printf("ERROR: count orders by status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	counts := make(map[string]int64, len(enum.OrderStatuses))
	for _, s := range enum.OrderStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	writeJSON(w, http.StatusOK, counts)
}

// ItemBreakdown returns completed-order counts per base item, busiest first.
func (h *AnalyticsHandler) ItemBreakdown(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.BaseItemBreakdown(r.Context())
	if err != nil {
		log.Printf("ERROR: base item breakdown: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]itemBreakdownResponse, len(rows))
	for i, row := range rows {
		resp[i] = itemBreakdownResponse{BaseItem: row.BaseItem, Count: row.Count}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Customers returns the distinct customer names seen on orders.
func (h *AnalyticsHandler) Customers(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.ListCustomerNames(r.Context())
	if err != nil {
		log.Printf("ERROR: list customer names: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// CustomerHistory returns one customer's orders, most recent first. An
// unknown name yields an empty list, not a 404.
func (h *AnalyticsHandler) CustomerHistory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// Customer names may be Arabic or contain spaces; they arrive escaped.
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	orders, err := h.store.ListOrdersByCustomer(r.Context(), name)
	if err != nil {
		log.Printf("ERROR: list orders by customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}
