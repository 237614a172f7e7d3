// Package export serializes completed orders to CSV for spreadsheet import.
package export

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/zaytoon-pos/api/internal/database"
	"github.com/zaytoon-pos/api/internal/enum"
)

// Columns is the stable CSV column order. The option categories appear as
// their own columns in enum order; add-ons are comma-joined in one column.
var Columns = []string{
	"id",
	"customer_name",
	"base_item",
	enum.ItemTypeMilk,
	enum.ItemTypeSyrup,
	enum.ItemTypeFoam,
	"addons",
	"notes",
	"price",
	"status",
	"created_at",
}

// WriteOrders writes one CSV row per order, header row first. An empty slice
// still yields the header. Quoting and escaping follow RFC 4180 via
// encoding/csv; all text is passed through as UTF-8.
func WriteOrders(w io.Writer, orders []database.Order) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return err
	}

	for _, o := range orders {
		notes := ""
		if o.Notes.Valid {
			notes = o.Notes.String
		}
		record := []string{
			o.ID.String(),
			o.CustomerName,
			o.BaseItem,
			o.Selections[enum.ItemTypeMilk],
			o.Selections[enum.ItemTypeSyrup],
			o.Selections[enum.ItemTypeFoam],
			strings.Join(o.Addons, ","),
			notes,
			priceString(o.Price),
			o.Status,
			o.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func priceString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}
