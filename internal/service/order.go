package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/zaytoon-pos/api/internal/database"
	"github.com/zaytoon-pos/api/internal/enum"
)

const (
	maxNameLen  = 100
	maxNotesLen = 500
)

// Errors returned by the order service.
var (
	ErrCustomerNameRequired = errors.New("customer_name is required")
	ErrCustomerNameTooLong  = errors.New("customer_name exceeds 100 characters")
	ErrBaseItemRequired     = errors.New("base_item is required")
	ErrBaseItemNotFound     = errors.New("base_item not found on the menu")
	ErrInvalidCategory      = errors.New("invalid selection category")
	ErrInvalidOptionName    = errors.New("invalid option name")
	ErrNotesTooLong         = errors.New("notes exceed 500 characters")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetMenuItemByTypeAndName(ctx context.Context, arg database.GetMenuItemByTypeAndNameParams) (database.MenuItem, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the validated input for creating an order.
type CreateOrderRequest struct {
	CustomerName string
	BaseItem     string
	Selections   map[string]string // category -> comma-joined option names
	Addons       []string
	Notes        string
}

// OrderService handles order creation: validation, pricing, persistence.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// CreateOrder validates the request, computes the price from the current menu,
// and persists the order with status pending — all in one transaction, so the
// stored price reflects a single consistent view of the menu. The price is
// frozen at this point: later menu edits never rewrite it.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (database.Order, error) {
	customerName := sanitize(req.CustomerName)
	if customerName == "" {
		return database.Order{}, ErrCustomerNameRequired
	}
	if len([]rune(customerName)) > maxNameLen {
		return database.Order{}, ErrCustomerNameTooLong
	}

	baseItem := sanitize(req.BaseItem)
	if baseItem == "" {
		return database.Order{}, ErrBaseItemRequired
	}

	selections := make(map[string]string, len(req.Selections))
	for category, joined := range req.Selections {
		if !enum.IsOptionCategory(category) {
			return database.Order{}, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
		}
		names, err := splitOptionNames(joined)
		if err != nil {
			return database.Order{}, fmt.Errorf("%s: %w", category, err)
		}
		if len(names) > 0 {
			selections[category] = strings.Join(names, ",")
		}
	}

	addons := make([]string, 0, len(req.Addons))
	for _, a := range req.Addons {
		name := sanitize(a)
		if name == "" || len([]rune(name)) > maxNameLen {
			return database.Order{}, fmt.Errorf("addons: %w", ErrInvalidOptionName)
		}
		addons = append(addons, name)
	}

	notes := sanitizeNotes(req.Notes)
	if len([]rune(notes)) > maxNotesLen {
		return database.Order{}, ErrNotesTooLong
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// Base item must exist: it drives the price and the label header.
	base, err := store.GetMenuItemByTypeAndName(ctx, database.GetMenuItemByTypeAndNameParams{
		ItemType: enum.ItemTypeDrink,
		Name:     baseItem,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrBaseItemNotFound
		}
		return database.Order{}, fmt.Errorf("get base item: %w", err)
	}

	price, err := s.computePrice(ctx, store, base, selections, addons)
	if err != nil {
		return database.Order{}, err
	}

	noteText := pgtype.Text{}
	if notes != "" {
		noteText = pgtype.Text{String: notes, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		CustomerName: customerName,
		BaseItem:     base.Name,
		Selections:   selections,
		Addons:       addons,
		Notes:        noteText,
		Status:       enum.OrderStatusPending,
		Price:        decimalToNumeric(price),
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("create order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	return order, nil
}

// computePrice sums the base item's price delta plus the delta of every
// selected option and add-on, rounded half-up to 2 decimal places. Options
// with no menu entry or a NULL delta contribute zero: selections are
// snapshots, so an option removed from the menu mid-request simply costs
// nothing rather than failing the order.
func (s *OrderService) computePrice(ctx context.Context, store OrderStore, base database.MenuItem, selections map[string]string, addons []string) (decimal.Decimal, error) {
	total := numericToDecimal(base.PriceDelta)

	for category, joined := range selections {
		for _, name := range strings.Split(joined, ",") {
			delta, err := s.lookupDelta(ctx, store, category, name)
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(delta)
		}
	}

	for _, name := range addons {
		delta, err := s.lookupDelta(ctx, store, enum.ItemTypeAddon, name)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(delta)
	}

	return total.Round(2), nil
}

func (s *OrderService) lookupDelta(ctx context.Context, store OrderStore, itemType, name string) (decimal.Decimal, error) {
	item, err := store.GetMenuItemByTypeAndName(ctx, database.GetMenuItemByTypeAndNameParams{
		ItemType: itemType,
		Name:     name,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("get %s %q: %w", itemType, name, err)
	}
	return numericToDecimal(item.PriceDelta), nil
}

// --- Helpers ---

// sanitize trims whitespace and strips control characters. All printable
// Unicode passes through untouched, Arabic and other RTL scripts included.
func sanitize(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, s))
}

// sanitizeNotes is sanitize but keeps newlines, which the label renderer
// treats as paragraph breaks.
func sanitizeNotes(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, s))
}

func splitOptionNames(joined string) ([]string, error) {
	var names []string
	for _, part := range strings.Split(joined, ",") {
		name := sanitize(part)
		if name == "" {
			continue
		}
		if len([]rune(name)) > maxNameLen {
			return nil, ErrInvalidOptionName
		}
		names = append(names, name)
	}
	return names, nil
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
