//go:build !darwin && !linux

package idle

import (
	"context"
	"time"
)

func platformIdle(context.Context) (time.Duration, error) {
	return 0, ErrUnsupported
}
