// Package sitting counts the minutes the user has spent at the machine.
package sitting

import "time"

// Accumulator counts present minutes since the last reset.
type Accumulator struct {
	Minutes      int  `json:"minutes"`
	Accumulating bool `json:"accumulating"`
}

// Tick advances the clock by one unit; minutes only grow while present.
func (a *Accumulator) Tick(present bool) bool {
	a.Accumulating = present
	if !present {
		return false
	}
	a.Minutes++
	return true
}

// Reset zeroes the counter.
func (a *Accumulator) Reset() bool {
	changed := a.Minutes != 0
	a.Minutes = 0
	return changed
}

// RestConfirmed reports whether a fired reminder has been followed by
// enough continuous absence to count as a break. The absence is measured
// from the later of the last input and the reminder itself.
func RestConfirmed(now, firedAt, lastActivity time.Time, present bool, restConfirm time.Duration) bool {
	if firedAt.IsZero() || present {
		return false
	}
	from := lastActivity
	if firedAt.After(from) {
		from = firedAt
	}
	return now.Sub(from) >= restConfirm
}
