package engine

import (
	"fmt"
	"time"
)

// Frequency is how often an invoice template produces instances.
type Frequency string

const (
	FrequencyOneTime   Frequency = "one-time"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOneTime, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// Cycles is the remaining-cycles setting of a recurring template.
// "endless" never stops automatically; numeric values count down to zero.
type Cycles string

const CyclesEndless Cycles = "endless"

var allowedCycles = map[Cycles]bool{
	CyclesEndless: true,
	"1":           true,
	"2":           true,
	"3":           true,
	"6":           true,
	"12":          true,
	"24":          true,
}

// ValidateRecurrence enforces the frequency / remaining-cycles pairing:
// one-time invoices must not carry cycles, recurring ones must.
func (e *Engine) ValidateRecurrence(frequency Frequency, remainingCycles *Cycles) error {
	if !frequency.Valid() {
		return newValidationError("frequency", fmt.Sprintf("invalid frequency %q", string(frequency)))
	}

	if frequency == FrequencyOneTime {
		if remainingCycles != nil {
			return newValidationError("remaining_cycles", "remaining_cycles not allowed for one-time invoices")
		}
		return nil
	}

	if remainingCycles == nil || !allowedCycles[*remainingCycles] {
		return newValidationError("remaining_cycles", "remaining_cycles required for recurring invoices")
	}
	return nil
}

// NextOccurrence returns the anchor date advanced by cyclesElapsed intervals.
// Month-based frequencies keep the anchor's day-of-month, clamped to the last
// valid day of the target month (Jan 31 + 1 month = Feb 28/29). Clamping is
// always computed from the anchor, so a monthly schedule anchored on the 31st
// returns to the 31st in longer months instead of drifting.
func (e *Engine) NextOccurrence(frequency Frequency, anchor time.Time, cyclesElapsed int) (time.Time, error) {
	if cyclesElapsed < 1 {
		return time.Time{}, newValidationError("cycles_elapsed", "cycles_elapsed must be at least 1")
	}

	switch frequency {
	case FrequencyWeekly:
		return anchor.AddDate(0, 0, 7*cyclesElapsed), nil
	case FrequencyMonthly:
		return addMonthsClamped(anchor, cyclesElapsed), nil
	case FrequencyQuarterly:
		return addMonthsClamped(anchor, 3*cyclesElapsed), nil
	case FrequencyYearly:
		return addMonthsClamped(anchor, 12*cyclesElapsed), nil
	case FrequencyOneTime:
		return time.Time{}, newValidationError("frequency", "one-time invoices have no next occurrence")
	default:
		return time.Time{}, newValidationError("frequency", fmt.Sprintf("invalid frequency %q", string(frequency)))
	}
}

// Decrement consumes one cycle. done reports that the schedule is exhausted.
// Endless schedules never finish; only external cancellation ends them.
func (e *Engine) Decrement(remainingCycles Cycles) (next Cycles, done bool) {
	if remainingCycles == CyclesEndless {
		return CyclesEndless, false
	}

	var n int
	if _, err := fmt.Sscanf(string(remainingCycles), "%d", &n); err != nil || n <= 1 {
		return "0", true
	}
	return Cycles(fmt.Sprintf("%d", n-1)), false
}

// addMonthsClamped avoids time.AddDate month overflow (Jan 31 + 1 month would
// normalize to Mar 2/3) by clamping the day to the target month's length.
func addMonthsClamped(anchor time.Time, months int) time.Time {
	year, month, day := anchor.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, anchor.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	h, m, s := anchor.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, h, m, s, anchor.Nanosecond(), anchor.Location())
}
