package engine

import (
	"errors"
	"testing"
)

func TestComputeTotals_Example(t *testing.T) {
	e := New(Config{})

	items := []LineItem{item("Dues", "10.00", "2", "20.00")}
	totals, err := e.ComputeTotals(items, dec("8.25"))
	if err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	if !totals.Subtotal.Equal(dec("20.00")) {
		t.Fatalf("subtotal expected 20.00, got %s", totals.Subtotal)
	}
	if !totals.TaxAmount.Equal(dec("1.65")) {
		t.Fatalf("tax expected 1.65, got %s", totals.TaxAmount)
	}
	if !totals.Total.Equal(dec("21.65")) {
		t.Fatalf("total expected 21.65, got %s", totals.Total)
	}
}

func TestComputeTotals_OrderIndependent(t *testing.T) {
	e := New(Config{})

	a := item("A", "10.00", "1", "10.00")
	b := item("B", "3.33", "3", "9.99")
	c := item("C", "0.07", "11", "0.77")

	first, err := e.ComputeTotals([]LineItem{a, b, c}, dec("7.5"))
	if err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	second, err := e.ComputeTotals([]LineItem{c, a, b}, dec("7.5"))
	if err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	if !first.Subtotal.Equal(second.Subtotal) || !first.TaxAmount.Equal(second.TaxAmount) || !first.Total.Equal(second.Total) {
		t.Fatalf("permuting items changed totals: %+v vs %+v", first, second)
	}
}

func TestComputeTotals_ZeroTaxDefault(t *testing.T) {
	e := New(Config{})

	totals, err := e.ComputeTotals([]LineItem{item("A", "19.99", "1", "19.99")}, dec("0"))
	if err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	if !totals.TaxAmount.IsZero() {
		t.Fatalf("expected zero tax, got %s", totals.TaxAmount)
	}
	if !totals.Total.Equal(totals.Subtotal) {
		t.Fatalf("total should equal subtotal with no tax")
	}
}

func TestComputeTotals_TaxRateBounds(t *testing.T) {
	e := New(Config{})

	if _, err := e.ComputeTotals([]LineItem{item("A", "1.00", "1", "1.00")}, dec("-1")); err == nil {
		t.Fatal("negative tax rate should fail")
	}
	if _, err := e.ComputeTotals([]LineItem{item("A", "1.00", "1", "1.00")}, dec("100.01")); err == nil {
		t.Fatal("tax rate above 100 should fail")
	}
}

func TestVerifyTotals_RoundTrip(t *testing.T) {
	e := New(Config{})

	items := []LineItem{
		item("A", "10.00", "2", "20.00"),
		item("B", "5.25", "4", "21.00"),
	}
	totals, err := e.ComputeTotals(items, dec("8.25"))
	if err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	// Re-verifying what ComputeTotals produced must reproduce it exactly.
	if err := e.VerifyTotals(items, dec("8.25"), *totals); err != nil {
		t.Fatalf("round-trip verification failed: %v", err)
	}
}

func TestVerifyTotals_MismatchIsConsistencyError(t *testing.T) {
	e := New(Config{})

	items := []LineItem{item("A", "10.00", "2", "20.00")}
	totals, _ := e.ComputeTotals(items, dec("0"))
	tampered := *totals
	tampered.Total = dec("25.00")

	err := e.VerifyTotals(items, dec("0"), tampered)
	var cErr *ConsistencyError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
}

func TestComputeBalanceDue(t *testing.T) {
	e := New(Config{})

	payments := []Payment{
		{Amount: dec("25.00")},
		{Amount: dec("15.00")},
		{Amount: dec("99.00"), IsReversed: true}, // ignored
	}
	balance, err := e.ComputeBalanceDue(dec("100.00"), payments)
	if err != nil {
		t.Fatalf("ComputeBalanceDue error: %v", err)
	}
	if !balance.Equal(dec("60.00")) {
		t.Fatalf("expected 60.00, got %s", balance)
	}
}

func TestComputeBalanceDue_OverpaymentRejectedByDefault(t *testing.T) {
	e := New(Config{})

	payments := []Payment{{Amount: dec("40.00")}, {Amount: dec("70.00")}}
	_, err := e.ComputeBalanceDue(dec("100.00"), payments)
	var oErr *OverpaymentError
	if !errors.As(err, &oErr) {
		t.Fatalf("expected OverpaymentError, got %v", err)
	}
	if !oErr.BalanceDue.Equal(dec("-10.00")) {
		t.Fatalf("expected -10.00 in error, got %s", oErr.BalanceDue)
	}
}

func TestComputeBalanceDue_OverpaymentAllowedByConfig(t *testing.T) {
	e := New(Config{AllowOverpayment: true})

	payments := []Payment{{Amount: dec("40.00")}, {Amount: dec("70.00")}}
	balance, err := e.ComputeBalanceDue(dec("100.00"), payments)
	if err != nil {
		t.Fatalf("ComputeBalanceDue error: %v", err)
	}
	if !balance.Equal(dec("-10.00")) {
		t.Fatalf("expected -10.00, got %s", balance)
	}
}
