package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(name, unitCost, qty, lineTotal string) LineItem {
	return LineItem{
		Name:      name,
		UnitCost:  dec(unitCost),
		Quantity:  dec(qty),
		LineTotal: dec(lineTotal),
	}
}

func TestValidateLineItems_EmptySequenceRejected(t *testing.T) {
	e := New(Config{})

	_, err := e.ValidateLineItems(nil)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "line_items" {
		t.Fatalf("expected field line_items, got %s", vErr.Field)
	}
}

func TestValidateLineItems_WithinTolerancePasses(t *testing.T) {
	e := New(Config{})

	items := []LineItem{
		item("Monthly dues", "250.00", "1", "250.00"),
		// 3 * 33.333 = 99.999 which rounds to 100.00, matching what the
		// client sent.
		item("Landscaping split", "33.333", "3", "100.00"),
	}
	validated, err := e.ValidateLineItems(items)
	if err != nil {
		t.Fatalf("ValidateLineItems error: %v", err)
	}
	if len(validated) != 2 {
		t.Fatalf("expected items returned unchanged, got %d", len(validated))
	}
}

func TestValidateLineItems_MismatchNamesIndexAndTotals(t *testing.T) {
	e := New(Config{})

	items := []LineItem{
		item("Monthly dues", "250.00", "1", "250.00"),
		item("Pool key", "10.00", "2", "20.02"), // off by 0.02
	}
	_, err := e.ValidateLineItems(items)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Index != 1 {
		t.Fatalf("expected index 1, got %d", vErr.Index)
	}
	if vErr.Field != "line_items[1].line_total" {
		t.Fatalf("unexpected field path %s", vErr.Field)
	}
	if !strings.Contains(vErr.Message, "20.02") || !strings.Contains(vErr.Message, "20.00") {
		t.Fatalf("message should carry provided and expected totals: %s", vErr.Message)
	}
}

func TestValidateLineItems_Bounds(t *testing.T) {
	e := New(Config{})

	cases := []struct {
		name  string
		items []LineItem
		field string
	}{
		{"missing name", []LineItem{item("", "1.00", "1", "1.00")}, "line_items[0].name"},
		{"long name", []LineItem{item(strings.Repeat("x", 256), "1.00", "1", "1.00")}, "line_items[0].name"},
		{"negative unit cost", []LineItem{item("a", "-1.00", "1", "-1.00")}, "line_items[0].unit_cost"},
		{"unit cost too large", []LineItem{item("a", "1000000.00", "1", "1000000.00")}, "line_items[0].unit_cost"},
		{"zero quantity", []LineItem{item("a", "1.00", "0", "0.00")}, "line_items[0].quantity"},
		{"line total too large", []LineItem{item("a", "999999.99", "1.01", "1009999.99")}, "line_items[0].line_total"},
	}
	for _, tc := range cases {
		_, err := e.ValidateLineItems(tc.items)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if vErr.Field != tc.field {
			t.Fatalf("%s: expected field %s, got %s", tc.name, tc.field, vErr.Field)
		}
	}
}

func TestValidateLineItems_LongDescriptionRejected(t *testing.T) {
	e := New(Config{})

	it := item("a", "1.00", "1", "1.00")
	it.Description = strings.Repeat("d", 1001)
	_, err := e.ValidateLineItems([]LineItem{it})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "line_items[0].description" {
		t.Fatalf("unexpected field %s", vErr.Field)
	}
}
