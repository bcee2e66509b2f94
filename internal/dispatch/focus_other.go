//go:build !darwin

package dispatch

import (
	"context"
	"fmt"
	"runtime"
)

type unsupportedFocuser struct{}

func newPlatformFocuser() Focuser {
	return unsupportedFocuser{}
}

func (unsupportedFocuser) Focus(context.Context, string) error {
	return fmt.Errorf("window focus is not supported on %s", runtime.GOOS)
}
