package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, customer_name, base_item, selections, addons, notes, status, price, created_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.BaseItem,
		&o.Selections,
		&o.Addons,
		&o.Notes,
		&o.Status,
		&o.Price,
		&o.CreatedAt,
	)
	return o, err
}

func (q *Queries) collectOrders(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type CreateOrderParams struct {
	CustomerName string
	BaseItem     string
	Selections   map[string]string
	Addons       []string
	Notes        pgtype.Text
	Status       string
	Price        pgtype.Numeric
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO orders (customer_name, base_item, selections, addons, notes, status, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+orderColumns+`
	`, arg.CustomerName, arg.BaseItem, arg.Selections, arg.Addons, arg.Notes, arg.Status, arg.Price)
	return scanOrder(row)
}

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)
	return scanOrder(row)
}

// ListOrders returns all orders, oldest first, ties broken by id.
func (q *Queries) ListOrders(ctx context.Context) ([]Order, error) {
	return q.collectOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at, id
	`)
}

// ListOrdersByStatus drives the pending / in-progress / completed boards.
func (q *Queries) ListOrdersByStatus(ctx context.Context, status string) ([]Order, error) {
	return q.collectOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = $1
		ORDER BY created_at, id
	`, status)
}

type UpdateOrderStatusParams struct {
	ID            uuid.UUID
	Status        string
	CurrentStatus string
}

// UpdateOrderStatus writes only the status column, and only if the row still
// holds CurrentStatus. Returns pgx.ErrNoRows when the status moved between the
// caller's read and this write. Price and content are immutable after creation.
func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE orders
		SET status = $2
		WHERE id = $1 AND status = $3
		RETURNING `+orderColumns+`
	`, arg.ID, arg.Status, arg.CurrentStatus)
	return scanOrder(row)
}

// DeleteOrder hard-deletes an order. Returns pgx.ErrNoRows if absent.
func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
		DELETE FROM orders
		WHERE id = $1
		RETURNING id
	`, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}

// --- Analytics queries ---

type CountOrdersByStatusRow struct {
	Status string
	Count  int64
}

func (q *Queries) CountOrdersByStatus(ctx context.Context) ([]CountOrdersByStatusRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT status, COUNT(*) AS count
		FROM orders
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CountOrdersByStatusRow
	for rows.Next() {
		var r CountOrdersByStatusRow
		if err := rows.Scan(&r.Status, &r.Count); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

type BaseItemBreakdownRow struct {
	BaseItem string
	Count    int64
}

// BaseItemBreakdown counts completed orders per base item, busiest first.
func (q *Queries) BaseItemBreakdown(ctx context.Context) ([]BaseItemBreakdownRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT base_item, COUNT(*) AS count
		FROM orders
		WHERE status = 'completed'
		GROUP BY base_item
		ORDER BY count DESC, base_item
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BaseItemBreakdownRow
	for rows.Next() {
		var r BaseItemBreakdownRow
		if err := rows.Scan(&r.BaseItem, &r.Count); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// ListCustomerNames returns the distinct customer names seen on orders.
func (q *Queries) ListCustomerNames(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, `
		SELECT DISTINCT customer_name
		FROM orders
		ORDER BY customer_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListOrdersByCustomer returns one customer's orders, most recent first.
// An unknown name yields an empty slice, not an error.
func (q *Queries) ListOrdersByCustomer(ctx context.Context, customerName string) ([]Order, error) {
	return q.collectOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_name = $1
		ORDER BY created_at DESC, id DESC
	`, customerName)
}
