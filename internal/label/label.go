// Package label renders a printable plain-text summary of a single order,
// sized for a small receipt printer.
package label

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/zaytoon-pos/api/internal/database"
	"github.com/zaytoon-pos/api/internal/enum"
	"golang.org/x/text/unicode/bidi"
)

// width is the label column width in characters (58mm thermal paper).
const width = 32

var divider = strings.Repeat("-", width) + "\n"

// Render produces the label document for an order. It never fails on a valid
// order: empty optional sections are omitted rather than rendered blank.
func Render(o database.Order) []byte {
	var sb strings.Builder

	sb.WriteString(divider)
	sb.WriteString("ORDER " + shortID(o) + "\n")
	sb.WriteString(o.CustomerName + "\n")
	sb.WriteString(divider)

	sb.WriteString(o.BaseItem + "\n")
	for _, category := range enum.ItemTypes {
		joined, ok := o.Selections[category]
		if !ok || joined == "" {
			continue
		}
		sb.WriteString("  " + category + ": " + strings.ReplaceAll(joined, ",", ", ") + "\n")
	}
	for _, addon := range o.Addons {
		sb.WriteString("  + " + addon + "\n")
	}

	if o.Notes.Valid && o.Notes.String != "" {
		sb.WriteString(divider)
		for _, paragraph := range strings.Split(o.Notes.String, "\n") {
			for _, line := range wrap(paragraph, width) {
				sb.WriteString(line + "\n")
			}
		}
	}

	sb.WriteString(divider)
	sb.WriteString(o.Status + "  " + priceString(o.Price) + "\n")
	sb.WriteString(o.CreatedAt.Format("2006-01-02 15:04") + "\n")

	return []byte(sb.String())
}

func shortID(o database.Order) string {
	return "#" + o.ID.String()[:8]
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

// wrap breaks text into lines of at most max characters, splitting only at
// word boundaries. Words are kept whole and in logical order, so bidirectional
// text survives intact: reordering for display stays the printer's job. Lines
// of a right-to-left paragraph are right-aligned to the column width.
func wrap(text string, max int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	rtl := isRTL(text)

	var lines []string
	var line []rune
	for _, word := range words {
		w := []rune(word)
		switch {
		case len(line) == 0:
			line = w
		case len(line)+1+len(w) <= max:
			line = append(line, ' ')
			line = append(line, w...)
		default:
			lines = append(lines, align(string(line), max, rtl))
			line = w
		}
		// A single word longer than the column is broken hard; mid-word
		// breaks at rune boundaries cannot reorder characters.
		for len(line) > max {
			lines = append(lines, string(line[:max]))
			line = line[max:]
		}
	}
	if len(line) > 0 {
		lines = append(lines, align(string(line), max, rtl))
	}
	return lines
}

// isRTL reports whether the paragraph's base direction is right-to-left,
// using the first strong character (UAX #9 rule P2).
func isRTL(text string) bool {
	for len(text) > 0 {
		p, sz := bidi.LookupString(text)
		if sz == 0 {
			break
		}
		switch p.Class() {
		case bidi.R, bidi.AL:
			return true
		case bidi.L:
			return false
		}
		text = text[sz:]
	}
	return false
}

func align(line string, max int, rtl bool) string {
	if !rtl {
		return line
	}
	pad := max - len([]rune(line))
	if pad <= 0 {
		return line
	}
	return strings.Repeat(" ", pad) + line
}
