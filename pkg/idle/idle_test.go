package idle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIoreg(t *testing.T) {
	out := `    | |   "HIDIdleTime" = 2500000000
    | |   "HIDParameters" = {"HIDKeyboardModifierMappingPairs"=()}`
	d, err := parseIoreg(out)
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, d)

	_, err = parseIoreg("nothing here")
	assert.Error(t, err)
}

func TestParseXprintidle(t *testing.T) {
	d, err := parseXprintidle("1234\n")
	require.NoError(t, err)
	assert.Equal(t, 1234*time.Millisecond, d)

	_, err = parseXprintidle("n/a")
	assert.Error(t, err)
}

func TestSourceFunc(t *testing.T) {
	p := SourceFunc(func(context.Context) (time.Duration, error) { return time.Second, nil })
	d, err := p.Idle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)
}
