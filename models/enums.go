package models

import (
	"encoding/json"
	"errors"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft           InvoiceStatus = "Draft"
	InvoiceStatusSent            InvoiceStatus = "Sent"
	InvoiceStatusPaid            InvoiceStatus = "Paid"
	InvoiceStatusPartial         InvoiceStatus = "Partial"
	InvoiceStatusOverdue         InvoiceStatus = "Overdue"
	InvoiceStatusCancelled       InvoiceStatus = "Cancelled"
	InvoiceStatusInReview        InvoiceStatus = "In Review"
	InvoiceStatusPaymentRejected InvoiceStatus = "Payment Rejected"
)

// Terminal statuses accept no further transitions.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *InvoiceStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("invoice status must be string")
	}

	invoiceStatus := map[string]InvoiceStatus{
		"Draft":            InvoiceStatusDraft,
		"Sent":             InvoiceStatusSent,
		"Paid":             InvoiceStatusPaid,
		"Partial":          InvoiceStatusPartial,
		"Overdue":          InvoiceStatusOverdue,
		"Cancelled":        InvoiceStatusCancelled,
		"In Review":        InvoiceStatusInReview,
		"Payment Rejected": InvoiceStatusPaymentRejected,
	}

	var ok bool
	*s, ok = invoiceStatus[str]
	if !ok {
		return errors.New("invalid invoice status")
	}
	return nil
}

// DueDatePolicy decides the invoice due date from its issue date.
// use_payment_terms defers to the community's configured default terms.
type DueDatePolicy string

const (
	DueDatePolicyUsePaymentTerms DueDatePolicy = "use_payment_terms"
	DueDatePolicyNet15           DueDatePolicy = "net_15"
	DueDatePolicyNet30           DueDatePolicy = "net_30"
	DueDatePolicyNet45           DueDatePolicy = "net_45"
	DueDatePolicyNet60           DueDatePolicy = "net_60"
	DueDatePolicyDueOnReceipt    DueDatePolicy = "due_on_receipt"
)

func (p DueDatePolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

func (p *DueDatePolicy) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("due date policy must be string")
	}

	dueDatePolicies := map[string]DueDatePolicy{
		"use_payment_terms": DueDatePolicyUsePaymentTerms,
		"net_15":            DueDatePolicyNet15,
		"net_30":            DueDatePolicyNet30,
		"net_45":            DueDatePolicyNet45,
		"net_60":            DueDatePolicyNet60,
		"due_on_receipt":    DueDatePolicyDueOnReceipt,
	}

	var ok bool
	*p, ok = dueDatePolicies[str]
	if !ok {
		return errors.New("invalid due date policy")
	}
	return nil
}

type IdempotencyStatus string

const (
	IdempotencyStatusStarted   IdempotencyStatus = "STARTED"
	IdempotencyStatusSucceeded IdempotencyStatus = "SUCCEEDED"
	IdempotencyStatusFailed    IdempotencyStatus = "FAILED"
)
