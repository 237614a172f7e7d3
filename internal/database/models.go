package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// MenuItem is an admin-configurable option: a category, a display name, an
// optional localized name, and the price delta it contributes to an order.
type MenuItem struct {
	ID            uuid.UUID
	ItemType      string
	Name          string
	NameLocalized pgtype.Text
	PriceDelta    pgtype.Numeric
	IsDefault     bool
	CreatedAt     time.Time
}

// Order is a placed order. Option names are stored by value, not by reference
// to menu_items, so later menu edits never change what was ordered; Price is
// frozen at creation and never written again.
type Order struct {
	ID           uuid.UUID
	CustomerName string
	BaseItem     string
	Selections   map[string]string
	Addons       []string
	Notes        pgtype.Text
	Status       string
	Price        pgtype.Numeric
	CreatedAt    time.Time
}
