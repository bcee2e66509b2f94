//go:build linux

package idle

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

func platformIdle(ctx context.Context) (time.Duration, error) {
	// Without a graphical session there is nothing to ask.
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return 0, ErrUnsupported
	}
	out, err := exec.CommandContext(ctx, "xprintidle").Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return 0, ErrUnsupported
		}
		return 0, err
	}
	return parseXprintidle(string(out))
}
