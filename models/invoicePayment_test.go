package models

import (
	"errors"
	"testing"
	"time"

	"bitbucket.org/communitydesk/hoa_backend/engine"
	"bitbucket.org/communitydesk/hoa_backend/utils"
	"github.com/shopspring/decimal"
)

func TestSettlePayment(t *testing.T) {
	eng := engine.New(engine.Config{})
	deadline := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("10")
	typ := engine.AdjustmentTypePercentage

	freshInvoice := func() *Invoice {
		return &Invoice{
			Total:           decimal.RequireFromString("100.00"),
			DiscountEnabled: utils.NewTrue(),
			DiscountAmount:  &amount,
			DiscountType:    &typ,
			DiscountDate:    &deadline,
		}
	}

	// paying exactly the discounted price settles the invoice in full
	invoice := freshInvoice()
	discount := earlyPaymentDiscount(invoice, deadline)
	credited, balance, err := settlePayment(eng, invoice, discount, decimal.RequireFromString("90.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !credited.Equal(decimal.RequireFromString("10")) {
		t.Errorf("credited: got %s want 10", credited)
	}
	if !balance.IsZero() {
		t.Errorf("balance: got %s want 0", balance)
	}

	// a 95.00 payment on a 100.00 total must not be rejected: the discount
	// would overdraw the invoice, so it is forfeited and 5.00 stays owing
	invoice = freshInvoice()
	discount = earlyPaymentDiscount(invoice, deadline)
	credited, balance, err = settlePayment(eng, invoice, discount, decimal.RequireFromString("95.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !credited.IsZero() {
		t.Errorf("credited: got %s want 0", credited)
	}
	if !balance.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("balance: got %s want 5.00", balance)
	}

	// partial early payment keeps the discount
	invoice = freshInvoice()
	discount = earlyPaymentDiscount(invoice, deadline)
	credited, balance, err = settlePayment(eng, invoice, discount, decimal.RequireFromString("50.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !credited.Equal(decimal.RequireFromString("10")) {
		t.Errorf("credited: got %s want 10", credited)
	}
	if !balance.Equal(decimal.RequireFromString("40.00")) {
		t.Errorf("balance: got %s want 40.00", balance)
	}

	// paying past the total is still an overpayment even without the discount
	invoice = freshInvoice()
	discount = earlyPaymentDiscount(invoice, deadline)
	_, _, err = settlePayment(eng, invoice, discount, decimal.RequireFromString("105.00"))
	var overpaid *engine.OverpaymentError
	if !errors.As(err, &overpaid) {
		t.Fatalf("want overpayment error, got %v", err)
	}

	// the credited discount lands as a payment row, so a later read of the
	// same rows agrees with the balance that drove the status
	invoice = freshInvoice()
	invoice.Payments = []InvoicePayment{
		{Amount: decimal.RequireFromString("90.00"), IsReversed: utils.NewFalse()},
		{Amount: decimal.RequireFromString("10"), Method: PaymentMethodCredit, IsReversed: utils.NewFalse()},
	}
	balance, err = invoice.BalanceDue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.IsZero() {
		t.Errorf("persisted balance: got %s want 0", balance)
	}
}

func TestPaymentMethodValidation(t *testing.T) {
	input := &NewInvoicePayment{
		Amount:      decimal.RequireFromString("25.00"),
		Method:      PaymentMethodCheck,
		PaymentDate: time.Now(),
	}
	if err := input.validate(); err != nil {
		t.Fatalf("check should be accepted: %v", err)
	}

	// credit rows are written by the system only
	input.Method = PaymentMethodCredit
	if err := input.validate(); err == nil {
		t.Error("credit must not be accepted from clients")
	}

	input.Method = PaymentMethodACH
	input.Amount = decimal.Zero
	if err := input.validate(); err == nil {
		t.Error("zero amount must be rejected")
	}
}
