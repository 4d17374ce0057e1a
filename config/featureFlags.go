package config

import (
	"os"
	"strings"
)

// AllowOverpayment lets a payment push an invoice balance below zero (credit
// carried on the unit). Default is to reject the payment.
//
// Set via env:
// - ALLOW_OVERPAYMENT=true
func AllowOverpayment() bool {
	return boolFromEnv("ALLOW_OVERPAYMENT")
}

// StrictClosedInvoiceImmutability: paid/cancelled invoices cannot be edited
// structurally; they must be cancelled and re-issued. Enabled by default; the
// env var exists as an escape hatch for data-repair scripts.
//
// Set via env:
// - RELAX_CLOSED_INVOICE_IMMUTABLE=true
func StrictClosedInvoiceImmutability() bool {
	return !boolFromEnv("RELAX_CLOSED_INVOICE_IMMUTABLE")
}

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
