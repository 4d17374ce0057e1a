package engine

import (
	"github.com/shopspring/decimal"
)

// Totals are the derived monetary fields of an invoice. Produced atomically:
// either all three are returned or none.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals sums the line totals and applies the tax rate (percent,
// 0-100). Order-independent: permuting items never changes the result.
func (e *Engine) ComputeTotals(items []LineItem, taxRate decimal.Decimal) (*Totals, error) {
	if taxRate.IsNegative() || taxRate.GreaterThan(oneHundred) {
		return nil, newValidationError("tax_rate", "tax_rate must be between 0 and 100")
	}

	var subtotal decimal.Decimal
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}

	taxAmount := subtotal.Mul(taxRate).DivRound(oneHundred, 2)
	return &Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}, nil
}

// VerifyTotals re-derives totals from the given items and compares them with
// persisted values. A mismatch means the caller stored derived fields without
// going through ComputeTotals: a programming or data-integrity fault.
func (e *Engine) VerifyTotals(items []LineItem, taxRate decimal.Decimal, persisted Totals) error {
	computed, err := e.ComputeTotals(items, taxRate)
	if err != nil {
		return err
	}
	if !computed.Subtotal.Equal(persisted.Subtotal) ||
		!computed.TaxAmount.Equal(persisted.TaxAmount) ||
		!computed.Total.Equal(persisted.Total) {
		return &ConsistencyError{
			Message: "persisted totals do not reconcile with line items (expected total " +
				computed.Total.StringFixed(2) + ", found " + persisted.Total.StringFixed(2) + ")",
		}
	}
	return nil
}

// ComputeBalanceDue subtracts all non-reversed payments from the total.
// With overpayment disallowed (the default) a negative result is rejected.
func (e *Engine) ComputeBalanceDue(total decimal.Decimal, payments []Payment) (decimal.Decimal, error) {
	var paid decimal.Decimal
	for _, p := range payments {
		if p.IsReversed {
			continue
		}
		paid = paid.Add(p.Amount)
	}

	balance := total.Sub(paid)
	if balance.IsNegative() && !e.allowOverpayment {
		return decimal.Decimal{}, &OverpaymentError{BalanceDue: balance}
	}
	return balance, nil
}
