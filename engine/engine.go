// Package engine validates invoice drafts and computes their derived monetary
// fields. All operations are pure functions over their inputs: no database, no
// clock, no shared mutable state, so the engine is safe to share across
// requests and workers.
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money bounds shared by every monetary field on an invoice.
var (
	maxAmount   = decimal.RequireFromString("999999.99")
	minQuantity = decimal.RequireFromString("0.01")
	// line_total may differ from unit_cost*quantity by at most one cent,
	// to absorb client-side rounding.
	lineTotalTolerance = decimal.RequireFromString("0.01")
	oneHundred         = decimal.NewFromInt(100)
)

const (
	maxNameLen        = 255
	maxDescriptionLen = 1000
)

type Config struct {
	// AllowOverpayment permits balance_due to go negative (credit carried on
	// the unit). Default false: ComputeBalanceDue returns OverpaymentError.
	AllowOverpayment bool
}

type Engine struct {
	allowOverpayment bool
}

func New(cfg Config) *Engine {
	return &Engine{allowOverpayment: cfg.AllowOverpayment}
}

// LineItem is one billable entry on an invoice draft.
type LineItem struct {
	Name        string
	Description string
	UnitCost    decimal.Decimal
	Quantity    decimal.Decimal
	LineTotal   decimal.Decimal
	ChargeId    int
}

// Payment is the slice of a recorded payment relevant to balance computation.
type Payment struct {
	Amount     decimal.Decimal
	IsReversed bool
}

// ValidateLineItems checks the item sequence and returns it unchanged.
// Fails fast on the first offending item, naming its index.
func (e *Engine) ValidateLineItems(items []LineItem) ([]LineItem, error) {
	if len(items) == 0 {
		return nil, newValidationError("line_items", "at least one line item is required")
	}

	for i, item := range items {
		if err := validateLineItem(i, item); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func validateLineItem(i int, item LineItem) error {
	if item.Name == "" {
		return itemError(i, "name", "name is required")
	}
	if len(item.Name) > maxNameLen {
		return itemError(i, "name", fmt.Sprintf("name must be at most %d characters", maxNameLen))
	}
	if len(item.Description) > maxDescriptionLen {
		return itemError(i, "description", fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}
	if item.UnitCost.IsNegative() || item.UnitCost.GreaterThan(maxAmount) {
		return itemError(i, "unit_cost", "unit_cost must be between 0 and 999999.99")
	}
	if item.Quantity.LessThan(minQuantity) || item.Quantity.GreaterThan(maxAmount) {
		return itemError(i, "quantity", "quantity must be between 0.01 and 999999.99")
	}
	if item.LineTotal.IsNegative() || item.LineTotal.GreaterThan(maxAmount) {
		return itemError(i, "line_total", "line_total must be between 0 and 999999.99")
	}

	expected := item.UnitCost.Mul(item.Quantity).Round(2)
	if item.LineTotal.Sub(expected).Abs().GreaterThan(lineTotalTolerance) {
		return itemError(i, "line_total",
			fmt.Sprintf("line_total %s does not match unit_cost * quantity (expected %s)",
				item.LineTotal.StringFixed(2), expected.StringFixed(2)))
	}
	return nil
}

func itemError(i int, field string, message string) *ValidationError {
	return &ValidationError{
		Field:   fmt.Sprintf("line_items[%d].%s", i, field),
		Index:   i,
		Message: message,
	}
}
