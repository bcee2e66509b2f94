package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	assert.Equal(t, "dev", Info{Version: "dev", Commit: "none"}.Short())
	assert.Equal(t, "v0.3.0 (0123456)", Info{Version: "v0.3.0", Commit: "0123456789abcdef"}.Short())
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.Equal(t, Version, info.Version)
	assert.Contains(t, info.Platform, "/")
	assert.Contains(t, info.String(), info.GoVersion)
}
