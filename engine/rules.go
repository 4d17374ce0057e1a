package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentType qualifies a discount or late-fee amount.
type AdjustmentType string

const (
	AdjustmentTypeAmount     AdjustmentType = "amount"
	AdjustmentTypePercentage AdjustmentType = "percentage"
)

// ConditionalBlock is a group of fields that become jointly required once the
// enabled flag is set. Early-payment discounts and late fees share this shape.
type ConditionalBlock struct {
	// Field prefixes error paths, e.g. "early_payment_discount".
	Field   string
	Enabled bool
	Amount  *decimal.Decimal
	Type    *AdjustmentType
	Date    *time.Time
}

// conditionalRule is one entry of the declarative rule table: which field must
// be present when the block is enabled, and any extra check on its value.
// Rules run in order; the first failure wins.
type conditionalRule struct {
	field   string
	present func(b ConditionalBlock) bool
	check   func(b ConditionalBlock) string // non-empty result = failure message
}

var conditionalRules = []conditionalRule{
	{
		field:   "amount",
		present: func(b ConditionalBlock) bool { return b.Amount != nil },
		check: func(b ConditionalBlock) string {
			if b.Amount.IsNegative() || b.Amount.GreaterThan(maxAmount) {
				return "amount must be between 0 and 999999.99"
			}
			return ""
		},
	},
	{
		field:   "type",
		present: func(b ConditionalBlock) bool { return b.Type != nil },
		check: func(b ConditionalBlock) string {
			if *b.Type != AdjustmentTypeAmount && *b.Type != AdjustmentTypePercentage {
				return "type must be amount or percentage"
			}
			return ""
		},
	},
	{
		// Percentage cap depends on both amount and type, so it runs after the
		// presence rules above.
		field:   "amount",
		present: func(b ConditionalBlock) bool { return true },
		check: func(b ConditionalBlock) string {
			if *b.Type == AdjustmentTypePercentage && b.Amount.GreaterThan(oneHundred) {
				return "percentage value exceeds 100%"
			}
			return ""
		},
	},
	{
		field:   "date",
		present: func(b ConditionalBlock) bool { return b.Date != nil },
	},
}

// ValidateConditionalBlock applies the rule table. A disabled block is valid
// regardless of its other fields; they are ignored for computation.
func (e *Engine) ValidateConditionalBlock(b ConditionalBlock) error {
	if !b.Enabled {
		return nil
	}

	for _, rule := range conditionalRules {
		if !rule.present(b) {
			return newValidationError(b.Field+"."+rule.field,
				rule.field+" is required when "+b.Field+" is enabled")
		}
		if rule.check != nil {
			if msg := rule.check(b); msg != "" {
				return newValidationError(b.Field+"."+rule.field, msg)
			}
		}
	}
	return nil
}

// AdjustmentAmount resolves a validated block against a base amount: fixed
// amounts pass through, percentages are taken from the base and rounded to
// cents.
func (e *Engine) AdjustmentAmount(base decimal.Decimal, amount decimal.Decimal, typ AdjustmentType) decimal.Decimal {
	if typ == AdjustmentTypePercentage {
		return base.Mul(amount).DivRound(oneHundred, 2)
	}
	return amount
}
