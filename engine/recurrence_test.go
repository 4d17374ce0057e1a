package engine

import (
	"errors"
	"testing"
	"time"
)

func cyclesPtr(c Cycles) *Cycles {
	return &c
}

func TestValidateRecurrence_OneTimeForbidsCycles(t *testing.T) {
	e := New(Config{})

	if err := e.ValidateRecurrence(FrequencyOneTime, nil); err != nil {
		t.Fatalf("one-time without cycles should pass, got %v", err)
	}

	err := e.ValidateRecurrence(FrequencyOneTime, cyclesPtr("12"))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Message != "remaining_cycles not allowed for one-time invoices" {
		t.Fatalf("unexpected message %q", vErr.Message)
	}
}

func TestValidateRecurrence_RecurringRequiresCycles(t *testing.T) {
	e := New(Config{})

	err := e.ValidateRecurrence(FrequencyMonthly, nil)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Message != "remaining_cycles required for recurring invoices" {
		t.Fatalf("unexpected message %q", vErr.Message)
	}

	// Out-of-set numeric value is rejected too.
	if err := e.ValidateRecurrence(FrequencyMonthly, cyclesPtr("5")); err == nil {
		t.Fatal("cycles=5 is not in the allowed set, expected error")
	}

	for _, c := range []Cycles{"endless", "1", "2", "3", "6", "12", "24"} {
		if err := e.ValidateRecurrence(FrequencyQuarterly, cyclesPtr(c)); err != nil {
			t.Fatalf("cycles=%s should pass, got %v", c, err)
		}
	}
}

func TestValidateRecurrence_UnknownFrequency(t *testing.T) {
	e := New(Config{})

	if err := e.ValidateRecurrence("biweekly", nil); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
}

func TestNextOccurrence_MonthlyLeapClamp(t *testing.T) {
	e := New(Config{})

	anchor := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	got, err := e.NextOccurrence(FrequencyMonthly, anchor, 1)
	if err != nil {
		t.Fatalf("NextOccurrence error: %v", err)
	}
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	// Non-leap year clamps to the 28th.
	anchor = time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	got, _ = e.NextOccurrence(FrequencyMonthly, anchor, 1)
	want = time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestNextOccurrence_ClampDoesNotDrift(t *testing.T) {
	e := New(Config{})

	// Two cycles from Jan 31 lands back on Mar 31: the clamp applies per
	// computation from the anchor, it does not stick at 28.
	anchor := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	got, err := e.NextOccurrence(FrequencyMonthly, anchor, 2)
	if err != nil {
		t.Fatalf("NextOccurrence error: %v", err)
	}
	want := time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestNextOccurrence_WeeklyQuarterlyYearly(t *testing.T) {
	e := New(Config{})

	anchor := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)

	got, _ := e.NextOccurrence(FrequencyWeekly, anchor, 1)
	if want := anchor.AddDate(0, 0, 7); !got.Equal(want) {
		t.Fatalf("weekly: expected %s, got %s", want, got)
	}

	got, _ = e.NextOccurrence(FrequencyQuarterly, anchor, 1)
	if want := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("quarterly: expected %s, got %s", want, got)
	}

	got, _ = e.NextOccurrence(FrequencyYearly, anchor, 1)
	if want := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("yearly: expected %s, got %s", want, got)
	}
}

func TestNextOccurrence_OneTimeRejected(t *testing.T) {
	e := New(Config{})

	if _, err := e.NextOccurrence(FrequencyOneTime, time.Now(), 1); err == nil {
		t.Fatal("expected error for one-time frequency")
	}
	if _, err := e.NextOccurrence(FrequencyMonthly, time.Now(), 0); err == nil {
		t.Fatal("expected error for zero cycles elapsed")
	}
}

func TestDecrement(t *testing.T) {
	e := New(Config{})

	next, done := e.Decrement(CyclesEndless)
	if done || next != CyclesEndless {
		t.Fatalf("endless should never finish, got next=%s done=%v", next, done)
	}

	next, done = e.Decrement("3")
	if done || next != "2" {
		t.Fatalf("expected 2/false, got %s/%v", next, done)
	}

	next, done = e.Decrement("1")
	if !done || next != "0" {
		t.Fatalf("expected 0/true, got %s/%v", next, done)
	}
}
