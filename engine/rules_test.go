package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func typPtr(t AdjustmentType) *AdjustmentType {
	return &t
}

func datePtr(y int, m time.Month, d int) *time.Time {
	v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &v
}

func TestValidateConditionalBlock_DisabledIgnoresFields(t *testing.T) {
	e := New(Config{})

	// Garbage in the optional fields is fine while disabled.
	block := ConditionalBlock{
		Field:   "early_payment_discount",
		Enabled: false,
		Amount:  decPtr("-5"),
	}
	if err := e.ValidateConditionalBlock(block); err != nil {
		t.Fatalf("disabled block should validate, got %v", err)
	}
}

func TestValidateConditionalBlock_EnabledRequiresAllFields(t *testing.T) {
	e := New(Config{})

	cases := []struct {
		name  string
		block ConditionalBlock
		field string
	}{
		{
			"missing amount",
			ConditionalBlock{Field: "late_fee", Enabled: true, Type: typPtr(AdjustmentTypeAmount), Date: datePtr(2024, 3, 1)},
			"late_fee.amount",
		},
		{
			"missing type",
			ConditionalBlock{Field: "late_fee", Enabled: true, Amount: decPtr("25.00"), Date: datePtr(2024, 3, 1)},
			"late_fee.type",
		},
		{
			"missing date",
			ConditionalBlock{Field: "early_payment_discount", Enabled: true, Amount: decPtr("25.00"), Type: typPtr(AdjustmentTypeAmount)},
			"early_payment_discount.date",
		},
	}
	for _, tc := range cases {
		err := e.ValidateConditionalBlock(tc.block)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if vErr.Field != tc.field {
			t.Fatalf("%s: expected field %s, got %s", tc.name, tc.field, vErr.Field)
		}
	}
}

func TestValidateConditionalBlock_PercentageOverHundredRejected(t *testing.T) {
	e := New(Config{})

	block := ConditionalBlock{
		Field:   "early_payment_discount",
		Enabled: true,
		Amount:  decPtr("150"),
		Type:    typPtr(AdjustmentTypePercentage),
		Date:    datePtr(2024, 3, 1),
	}
	err := e.ValidateConditionalBlock(block)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Message != "percentage value exceeds 100%" {
		t.Fatalf("unexpected message %q", vErr.Message)
	}
}

func TestValidateConditionalBlock_ValidBlocks(t *testing.T) {
	e := New(Config{})

	blocks := []ConditionalBlock{
		{Field: "early_payment_discount", Enabled: true, Amount: decPtr("10"), Type: typPtr(AdjustmentTypePercentage), Date: datePtr(2024, 3, 1)},
		{Field: "late_fee", Enabled: true, Amount: decPtr("999999.99"), Type: typPtr(AdjustmentTypeAmount), Date: datePtr(2024, 3, 1)},
		{Field: "late_fee", Enabled: true, Amount: decPtr("100"), Type: typPtr(AdjustmentTypePercentage), Date: datePtr(2024, 3, 1)},
	}
	for i, b := range blocks {
		if err := e.ValidateConditionalBlock(b); err != nil {
			t.Fatalf("block %d should validate, got %v", i, err)
		}
	}
}

func TestValidateConditionalBlock_InvalidType(t *testing.T) {
	e := New(Config{})

	bad := AdjustmentType("flat")
	block := ConditionalBlock{
		Field:   "late_fee",
		Enabled: true,
		Amount:  decPtr("10"),
		Type:    &bad,
		Date:    datePtr(2024, 3, 1),
	}
	err := e.ValidateConditionalBlock(block)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "late_fee.type" {
		t.Fatalf("unexpected field %s", vErr.Field)
	}
}

func TestAdjustmentAmount(t *testing.T) {
	e := New(Config{})

	got := e.AdjustmentAmount(dec("200.00"), dec("10"), AdjustmentTypePercentage)
	if !got.Equal(dec("20.00")) {
		t.Fatalf("10%% of 200.00 expected 20.00, got %s", got)
	}

	got = e.AdjustmentAmount(dec("200.00"), dec("15.50"), AdjustmentTypeAmount)
	if !got.Equal(dec("15.50")) {
		t.Fatalf("fixed adjustment expected 15.50, got %s", got)
	}
}
