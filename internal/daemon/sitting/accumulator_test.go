package sitting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickOnlyWhilePresent(t *testing.T) {
	var a Accumulator
	presence := []bool{true, true, false, true, false, false, true}
	prev := 0
	for _, p := range presence {
		a.Tick(p)
		assert.GreaterOrEqual(t, a.Minutes, prev, "minutes never decrease without a reset")
		prev = a.Minutes
	}
	assert.Equal(t, 4, a.Minutes)
	assert.True(t, a.Accumulating)

	assert.True(t, a.Reset())
	assert.Equal(t, 0, a.Minutes)
	assert.False(t, a.Reset())
}

func TestRestConfirmed(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	rest := 2 * time.Minute

	tests := []struct {
		name         string
		now          time.Time
		firedAt      time.Time
		lastActivity time.Time
		present      bool
		want         bool
	}{
		{"no reminder fired", t0.Add(time.Hour), time.Time{}, t0, false, false},
		{"still present", t0.Add(time.Hour), t0, t0, true, false},
		{"away long enough after fire", t0.Add(3 * time.Minute), t0, t0.Add(-time.Minute), false, true},
		{"away but not long enough", t0.Add(90 * time.Second), t0, t0.Add(-time.Minute), false, false},
		{"measured from activity after fire", t0.Add(3 * time.Minute), t0, t0.Add(2 * time.Minute), false, false},
		{"exactly at threshold", t0.Add(2 * time.Minute), t0, t0, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RestConfirmed(tt.now, tt.firedAt, tt.lastActivity, tt.present, rest))
		})
	}
}
