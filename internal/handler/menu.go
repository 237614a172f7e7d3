package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/zaytoon-pos/api/internal/database"
	"github.com/zaytoon-pos/api/internal/enum"
)

// MenuStore defines the database methods needed by menu handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MenuStore interface {
	ListMenuItems(ctx context.Context) ([]database.MenuItem, error)
	ListMenuItemsByType(ctx context.Context, itemType string) ([]database.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	GetMenuItemByTypeAndName(ctx context.Context, arg database.GetMenuItemByTypeAndNameParams) (database.MenuItem, error)
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// MenuHandler handles menu item CRUD endpoints.
type MenuHandler struct {
	store MenuStore
}

func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterRoutes registers menu CRUD endpoints on the given Chi router.
// Expected to be mounted at /menu-items.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type menuItemRequest struct {
	ItemType      string `json:"item_type"`
	Name          string `json:"name"`
	NameLocalized string `json:"name_localized"`
	PriceDelta    string `json:"price_delta"`
	IsDefault     bool   `json:"is_default"`
}

type menuItemResponse struct {
	ID            uuid.UUID `json:"id"`
	ItemType      string    `json:"item_type"`
	Name          string    `json:"name"`
	NameLocalized *string   `json:"name_localized"`
	PriceDelta    *string   `json:"price_delta"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}

func toMenuItemResponse(m database.MenuItem) menuItemResponse {
	resp := menuItemResponse{
		ID:        m.ID,
		ItemType:  m.ItemType,
		Name:      m.Name,
		IsDefault: m.IsDefault,
		CreatedAt: m.CreatedAt,
	}
	if m.NameLocalized.Valid {
		resp.NameLocalized = &m.NameLocalized.String
	}
	if m.PriceDelta.Valid {
		s := numericToString(m.PriceDelta)
		resp.PriceDelta = &s
	}
	return resp
}

// --- Helpers ---

var (
	errEmptyName    = errors.New("name is required")
	errNameTooLong  = errors.New("name exceeds 100 characters")
	errPriceRange   = errors.New("price_delta must be between 0 and 999.99")
	errPriceInvalid = errors.New("invalid price_delta")
)

var maxPriceDelta = decimal.RequireFromString("999.99")

func validateItemName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errEmptyName
	}
	if len([]rune(name)) > 100 {
		return "", errNameTooLong
	}
	return name, nil
}

// parsePriceDelta parses an optional price. Empty input yields an invalid
// (NULL) Numeric, which the pricing calculator treats as zero.
func parsePriceDelta(s string) (pgtype.Numeric, error) {
	if s == "" {
		return pgtype.Numeric{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return pgtype.Numeric{}, errPriceInvalid
	}
	if d.IsNegative() || d.GreaterThan(maxPriceDelta) {
		return pgtype.Numeric{}, errPriceRange
	}
	var n pgtype.Numeric
	if err := n.Scan(d.StringFixed(2)); err != nil {
		return pgtype.Numeric{}, errPriceInvalid
	}
	return n, nil
}

// --- Handlers ---

// List returns menu items, optionally filtered by category via ?type=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []database.MenuItem
		err   error
	)
	if t := r.URL.Query().Get("type"); t != "" {
		if !enum.IsValidItemType(t) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item type"})
			return
		}
		items, err = h.store.ListMenuItemsByType(r.Context(), t)
	} else {
		items, err = h.store.ListMenuItems(r.Context())
	}
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, m := range items {
		resp[i] = toMenuItemResponse(m)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single menu item by ID.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	item, err := h.store.GetMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: get menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// Create adds a menu item to a category.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !enum.IsValidItemType(req.ItemType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item_type"})
		return
	}

	name, err := validateItemName(req.Name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	price, err := parsePriceDelta(req.PriceDelta)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	nameLocalized := pgtype.Text{}
	if s := strings.TrimSpace(req.NameLocalized); s != "" {
		if len([]rune(s)) > 100 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name_localized exceeds 100 characters"})
			return
		}
		nameLocalized = pgtype.Text{String: s, Valid: true}
	}

	// (item_type, name) uniqueness is input-validated rather than
	// constraint-enforced; existing orders referencing the name are unaffected
	// either way since they store names by value.
	_, err = h.store.GetMenuItemByTypeAndName(r.Context(), database.GetMenuItemByTypeAndNameParams{
		ItemType: req.ItemType,
		Name:     name,
	})
	if err == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "menu item already exists"})
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("ERROR: check duplicate menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	item, err := h.store.CreateMenuItem(r.Context(), database.CreateMenuItemParams{
		ItemType:      req.ItemType,
		Name:          name,
		NameLocalized: nameLocalized,
		PriceDelta:    price,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		log.Printf("ERROR: create menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toMenuItemResponse(item))
}

// Update modifies an existing menu item. The category is fixed after creation.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	name, err := validateItemName(req.Name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	price, err := parsePriceDelta(req.PriceDelta)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	nameLocalized := pgtype.Text{}
	if s := strings.TrimSpace(req.NameLocalized); s != "" {
		if len([]rune(s)) > 100 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name_localized exceeds 100 characters"})
			return
		}
		nameLocalized = pgtype.Text{String: s, Valid: true}
	}

	item, err := h.store.UpdateMenuItem(r.Context(), database.UpdateMenuItemParams{
		ID:            id,
		Name:          name,
		NameLocalized: nameLocalized,
		PriceDelta:    price,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: update menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// Delete removes a menu item. Orders that referenced it keep their snapshot.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	_, err = h.store.DeleteMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: delete menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
