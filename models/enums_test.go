package models

import (
	"encoding/json"
	"testing"
)

func TestInvoiceStatusUnmarshal(t *testing.T) {
	var s InvoiceStatus
	if err := json.Unmarshal([]byte(`"Payment Rejected"`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != InvoiceStatusPaymentRejected {
		t.Fatalf("got %q", s)
	}

	if err := json.Unmarshal([]byte(`"Bogus"`), &s); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if err := json.Unmarshal([]byte(`42`), &s); err == nil {
		t.Fatal("expected error for non-string status")
	}
}

func TestInvoiceStatusIsTerminal(t *testing.T) {
	terminal := []InvoiceStatus{InvoiceStatusPaid, InvoiceStatusCancelled}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	open := []InvoiceStatus{InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusOverdue, InvoiceStatusInReview, InvoiceStatusPaymentRejected}
	for _, s := range open {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestDueDatePolicyUnmarshal(t *testing.T) {
	var p DueDatePolicy
	if err := json.Unmarshal([]byte(`"net_45"`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != DueDatePolicyNet45 {
		t.Fatalf("got %q", p)
	}
	if err := json.Unmarshal([]byte(`"net_90"`), &p); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
