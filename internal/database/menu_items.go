package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const menuItemColumns = `id, item_type, name, name_localized, price_delta, is_default, created_at`

func scanMenuItem(row interface{ Scan(dest ...any) error }) (MenuItem, error) {
	var i MenuItem
	err := row.Scan(
		&i.ID,
		&i.ItemType,
		&i.Name,
		&i.NameLocalized,
		&i.PriceDelta,
		&i.IsDefault,
		&i.CreatedAt,
	)
	return i, err
}

// ListMenuItems returns every menu item, grouped by category with defaults
// first so the order form can pre-check them deterministically.
func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		ORDER BY item_type, is_default DESC, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		i, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// ListMenuItemsByType returns the items of a single category, defaults first.
func (q *Queries) ListMenuItemsByType(ctx context.Context, itemType string) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE item_type = $1
		ORDER BY is_default DESC, name
	`, itemType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		i, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (q *Queries) GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE id = $1
	`, id)
	return scanMenuItem(row)
}

type GetMenuItemByTypeAndNameParams struct {
	ItemType string
	Name     string
}

// GetMenuItemByTypeAndName looks an item up by its (category, name) pair. Used
// for duplicate checks on create and for price lookups at order time.
func (q *Queries) GetMenuItemByTypeAndName(ctx context.Context, arg GetMenuItemByTypeAndNameParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE item_type = $1 AND name = $2
	`, arg.ItemType, arg.Name)
	return scanMenuItem(row)
}

type CreateMenuItemParams struct {
	ItemType      string
	Name          string
	NameLocalized pgtype.Text
	PriceDelta    pgtype.Numeric
	IsDefault     bool
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO menu_items (item_type, name, name_localized, price_delta, is_default)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+menuItemColumns+`
	`, arg.ItemType, arg.Name, arg.NameLocalized, arg.PriceDelta, arg.IsDefault)
	return scanMenuItem(row)
}

type UpdateMenuItemParams struct {
	ID            uuid.UUID
	Name          string
	NameLocalized pgtype.Text
	PriceDelta    pgtype.Numeric
	IsDefault     bool
}

// UpdateMenuItem rewrites the editable fields. The category is fixed after
// creation; existing orders are untouched because they snapshot names by value.
func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE menu_items
		SET name = $2, name_localized = $3, price_delta = $4, is_default = $5
		WHERE id = $1
		RETURNING `+menuItemColumns+`
	`, arg.ID, arg.Name, arg.NameLocalized, arg.PriceDelta, arg.IsDefault)
	return scanMenuItem(row)
}

// DeleteMenuItem hard-deletes an item. Returns pgx.ErrNoRows if absent.
func (q *Queries) DeleteMenuItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
		DELETE FROM menu_items
		WHERE id = $1
		RETURNING id
	`, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
