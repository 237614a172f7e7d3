package label

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/zaytoon-pos/api/internal/database"
	"github.com/zaytoon-pos/api/internal/enum"
)

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func testOrder() database.Order {
	return database.Order{
		ID:           uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000"),
		CustomerName: "Sara",
		BaseItem:     "Latte",
		Selections:   map[string]string{"milk": "Oat", "syrup": "Vanilla,Caramel"},
		Addons:       []string{"extra_shot"},
		Status:       enum.OrderStatusPending,
		Price:        makeNumeric("5.25"),
		CreatedAt:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestRenderFullOrder(t *testing.T) {
	out := string(Render(testOrder()))

	for _, want := range []string{
		"ORDER #a1b2c3d4",
		"Sara",
		"Latte",
		"  milk: Oat",
		"  syrup: Vanilla, Caramel",
		"  + extra_shot",
		"pending  5.25",
		"2026-03-14 09:30",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("label missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSelectionsInCategoryOrder(t *testing.T) {
	o := testOrder()
	o.Selections = map[string]string{
		"foam":  "Extra",
		"milk":  "Oat",
		"syrup": "Vanilla",
	}
	out := string(Render(o))

	milk := strings.Index(out, "milk:")
	syrup := strings.Index(out, "syrup:")
	foam := strings.Index(out, "foam:")
	if milk == -1 || syrup == -1 || foam == -1 {
		t.Fatalf("missing selection lines:\n%s", out)
	}
	if !(milk < syrup && syrup < foam) {
		t.Errorf("selections out of order (milk=%d syrup=%d foam=%d):\n%s", milk, syrup, foam, out)
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	o := testOrder()
	o.Selections = nil
	o.Addons = nil
	out := string(Render(o))

	if strings.Contains(out, "milk") || strings.Contains(out, "+ ") {
		t.Errorf("empty sections should be omitted:\n%s", out)
	}
	// No notes means three dividers total: header, footer, and the one under
	// the customer name.
	if got := strings.Count(out, strings.Repeat("-", 32)); got != 3 {
		t.Errorf("divider count: got %d, want 3:\n%s", got, out)
	}
}

func TestRenderNotesWrapped(t *testing.T) {
	o := testOrder()
	o.Notes = pgtype.Text{
		String: "please make it extra hot and use the ceramic cup not the paper one",
		Valid:  true,
	}
	out := string(Render(o))

	for _, line := range strings.Split(out, "\n") {
		if n := len([]rune(line)); n > 32 {
			t.Errorf("line exceeds 32 chars (%d): %q", n, line)
		}
	}
	// Words must survive wrapping whole and in order.
	joined := strings.Join(strings.Fields(out), " ")
	if !strings.Contains(joined, "extra hot and use the ceramic cup") {
		t.Errorf("notes words reordered or split:\n%s", out)
	}
}

func TestRenderNotesParagraphs(t *testing.T) {
	o := testOrder()
	o.Notes = pgtype.Text{String: "first line\nsecond line", Valid: true}
	out := string(Render(o))

	if !strings.Contains(out, "first line\n") || !strings.Contains(out, "second line\n") {
		t.Errorf("paragraph breaks not preserved:\n%s", out)
	}
}

func TestRenderArabicNotesKeepLogicalOrder(t *testing.T) {
	o := testOrder()
	o.CustomerName = "أحمد"
	// "without sugar please, and the milk hot" — long enough to wrap.
	notes := "من غير سكر لو سمحت والحليب سخن جدا وشكرا جزيلا يا باشا"
	o.Notes = pgtype.Text{String: notes, Valid: true}
	out := string(Render(o))

	if !strings.Contains(out, "أحمد") {
		t.Errorf("Arabic customer name missing:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if n := len([]rune(line)); n > 32 {
			t.Errorf("line exceeds 32 chars (%d): %q", n, line)
		}
	}
	// Wrapping must never reorder or split Arabic words.
	joined := strings.Join(strings.Fields(out), " ")
	for _, word := range strings.Fields(notes) {
		if !strings.Contains(joined, word) {
			t.Errorf("Arabic word %q broken by wrapping:\n%s", word, out)
		}
	}
	wrapped := strings.Join(strings.Fields(notes), " ")
	if !strings.Contains(joined, wrapped) {
		t.Errorf("Arabic words out of logical order:\n%s", out)
	}
}

func TestWrapLatin(t *testing.T) {
	lines := wrap("the quick brown fox jumps over the lazy dog", 15)
	want := []string{"the quick brown", "fox jumps over", "the lazy dog"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapLongWordHardBreak(t *testing.T) {
	lines := wrap("supercalifragilisticexpialidocious", 10)
	if len(lines) != 4 {
		t.Fatalf("got %d lines %q, want 4", len(lines), lines)
	}
	if got := strings.Join(lines, ""); got != "supercalifragilisticexpialidocious" {
		t.Errorf("hard break lost characters: %q", got)
	}
}

func TestWrapRTLRightAligned(t *testing.T) {
	lines := wrap("من غير سكر", 20)
	if len(lines) != 1 {
		t.Fatalf("got %d lines %q, want 1", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], " ") {
		t.Errorf("RTL line not right-aligned: %q", lines[0])
	}
	if n := len([]rune(lines[0])); n != 20 {
		t.Errorf("RTL line padded to %d runes, want 20", n)
	}
}

func TestWrapRTLLongWordTailAligned(t *testing.T) {
	lines := wrap(strings.Repeat("م", 25), 10)
	if len(lines) != 3 {
		t.Fatalf("got %d lines %q, want 3", len(lines), lines)
	}
	// Hard-break segments fill the full column; only the tail needs padding.
	for i := 0; i < 2; i++ {
		if n := len([]rune(lines[i])); n != 10 {
			t.Errorf("line %d: %d runes, want full width 10", i, n)
		}
	}
	tail := lines[2]
	if !strings.HasPrefix(tail, strings.Repeat(" ", 5)) {
		t.Errorf("tail not right-aligned: %q", tail)
	}
	if n := len([]rune(tail)); n != 10 {
		t.Errorf("tail padded to %d runes, want 10", n)
	}
}

func TestWrapEmpty(t *testing.T) {
	if lines := wrap("   ", 10); lines != nil {
		t.Errorf("got %q, want nil", lines)
	}
}

func TestIsRTL(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"hello world", false},
		{"من غير سكر", true},
		{"مع latte", true}, // base direction follows the first strong rune
		{"", false},
	}
	for _, tt := range tests {
		if got := isRTL(tt.text); got != tt.want {
			t.Errorf("isRTL(%q): got %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestRenderNullPriceShowsZero(t *testing.T) {
	o := testOrder()
	o.Price = pgtype.Numeric{}
	out := string(Render(o))
	if !strings.Contains(out, "pending  0.00") {
		t.Errorf("null price should render as 0.00:\n%s", out)
	}
}
