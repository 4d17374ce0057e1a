package models

import (
	"context"
	"testing"
	"time"

	"bitbucket.org/communitydesk/hoa_backend/engine"
	"bitbucket.org/communitydesk/hoa_backend/utils"
	"github.com/shopspring/decimal"
)

func TestCalculateDueDate(t *testing.T) {
	issue := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		policy DueDatePolicy
		want   time.Time
	}{
		{DueDatePolicyDueOnReceipt, issue},
		{DueDatePolicyNet15, issue.AddDate(0, 0, 15)},
		{DueDatePolicyNet30, issue.AddDate(0, 0, 30)},
		{DueDatePolicyNet45, issue.AddDate(0, 0, 45)},
		{DueDatePolicyNet60, issue.AddDate(0, 0, 60)},
		{DueDatePolicyUsePaymentTerms, issue.AddDate(0, 0, 30)},
	}
	for _, c := range cases {
		got := calculateDueDate(issue, c.policy)
		if !got.Equal(c.want) {
			t.Errorf("%s: got %s want %s", c.policy, got, c.want)
		}
	}
}

func TestInvoiceStatusTransitions(t *testing.T) {
	if !InvoiceStatusDraft.canTransitionTo(InvoiceStatusSent) {
		t.Error("draft should move to sent")
	}
	if !InvoiceStatusSent.canTransitionTo(InvoiceStatusPartial) {
		t.Error("sent should move to partial")
	}
	if !InvoiceStatusPartial.canTransitionTo(InvoiceStatusPaid) {
		t.Error("partial should move to paid")
	}
	if InvoiceStatusPaid.canTransitionTo(InvoiceStatusSent) {
		t.Error("paid is terminal")
	}
	if InvoiceStatusCancelled.canTransitionTo(InvoiceStatusDraft) {
		t.Error("cancelled is terminal")
	}
	if InvoiceStatusDraft.canTransitionTo(InvoiceStatusPaid) {
		t.Error("draft cannot jump straight to paid")
	}
}

func TestInvoiceCheckEditable(t *testing.T) {
	ctx := context.Background()

	for _, s := range []InvoiceStatus{InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusOverdue} {
		inv := Invoice{CurrentStatus: s}
		if err := inv.CheckEditable(ctx); err != nil {
			t.Errorf("%s should be editable: %v", s, err)
		}
	}
	for _, s := range []InvoiceStatus{InvoiceStatusPaid, InvoiceStatusCancelled} {
		inv := Invoice{CurrentStatus: s}
		if err := inv.CheckEditable(ctx); err == nil {
			t.Errorf("%s should not be editable", s)
		}
	}
}

func TestNewInvoiceDefaults(t *testing.T) {
	input := &NewInvoice{}
	input.normalizeDefaults()

	if input.Frequency != engine.FrequencyOneTime {
		t.Errorf("frequency: got %q want %q", input.Frequency, engine.FrequencyOneTime)
	}
	if input.DueDatePolicy != DueDatePolicyNet30 {
		t.Errorf("due date policy: got %q want %q", input.DueDatePolicy, DueDatePolicyNet30)
	}
	// the enabled flags back NOT NULL columns, an omitted block must come out
	// as an explicit false rather than nil
	if input.DiscountEnabled == nil || *input.DiscountEnabled {
		t.Error("omitted discount block should default to disabled")
	}
	if input.LateFeeEnabled == nil || *input.LateFeeEnabled {
		t.Error("omitted late fee block should default to disabled")
	}

	// explicit values survive
	input = &NewInvoice{
		Frequency:       engine.FrequencyMonthly,
		DueDatePolicy:   DueDatePolicyNet15,
		DiscountEnabled: utils.NewTrue(),
		LateFeeEnabled:  utils.NewTrue(),
	}
	input.normalizeDefaults()
	if input.Frequency != engine.FrequencyMonthly || input.DueDatePolicy != DueDatePolicyNet15 {
		t.Error("explicit frequency and policy should be kept")
	}
	if input.DiscountEnabled == nil || !*input.DiscountEnabled {
		t.Error("explicit discount flag should be kept")
	}
	if input.LateFeeEnabled == nil || !*input.LateFeeEnabled {
		t.Error("explicit late fee flag should be kept")
	}
}

func TestEarlyPaymentDiscount(t *testing.T) {
	deadline := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("10")
	typ := engine.AdjustmentTypePercentage

	invoice := &Invoice{
		Total:           decimal.RequireFromString("200.00"),
		DiscountEnabled: utils.NewTrue(),
		DiscountAmount:  &amount,
		DiscountType:    &typ,
		DiscountDate:    &deadline,
	}

	// on time, first payment
	got := earlyPaymentDiscount(invoice, deadline.AddDate(0, 0, -1))
	if !got.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("got %s want 20", got)
	}

	// past the deadline
	got = earlyPaymentDiscount(invoice, deadline.AddDate(0, 0, 1))
	if !got.IsZero() {
		t.Fatalf("late payment should earn no discount, got %s", got)
	}

	// prior non-reversed payment forfeits the discount
	invoice.Payments = []InvoicePayment{{Amount: decimal.RequireFromString("50"), IsReversed: utils.NewFalse()}}
	got = earlyPaymentDiscount(invoice, deadline)
	if !got.IsZero() {
		t.Fatalf("second payment should earn no discount, got %s", got)
	}

	// a reversed payment does not count as prior payment
	invoice.Payments = []InvoicePayment{{Amount: decimal.RequireFromString("50"), IsReversed: utils.NewTrue()}}
	got = earlyPaymentDiscount(invoice, deadline)
	if !got.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("got %s want 20", got)
	}

	// disabled block
	invoice.Payments = nil
	invoice.DiscountEnabled = utils.NewFalse()
	if got := earlyPaymentDiscount(invoice, deadline); !got.IsZero() {
		t.Fatalf("disabled discount should be zero, got %s", got)
	}
}
