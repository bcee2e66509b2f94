package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("FOCUS_TEST_DIR", "/var/tmp/focus")

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/logs/focusd.log", filepath.Join(home, "logs", "focusd.log")},
		{"$FOCUS_TEST_DIR/focusd.log", "/var/tmp/focus/focusd.log"},
		{"/abs/path", "/abs/path"},
	}
	for _, tt := range tests {
		got, err := Expand(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestExpandRelative(t *testing.T) {
	got, err := Expand("focusd.log")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}
