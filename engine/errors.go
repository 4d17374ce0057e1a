package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError is a recoverable, field-level failure. Field carries the
// path the client sent (e.g. "line_items[2].line_total") so the frontend can
// attach the message to the offending input.
type ValidationError struct {
	Field   string
	Index   int // line item index, -1 when not item-scoped
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field string, message string) *ValidationError {
	return &ValidationError{Field: field, Index: -1, Message: message}
}

// ConsistencyError signals a caller bug or corrupted data: persisted derived
// fields no longer reconcile with their line items. Never silently corrected.
type ConsistencyError struct {
	Message string
}

func (e *ConsistencyError) Error() string {
	return e.Message
}

// OverpaymentError is returned when applying payments would push the balance
// below zero and the engine is configured to reject overpayment.
type OverpaymentError struct {
	BalanceDue decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds balance due (would be %s)", e.BalanceDue.StringFixed(2))
}
