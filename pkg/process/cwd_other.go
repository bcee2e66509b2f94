//go:build !linux

package process

import (
	"context"
	"os/exec"
	"strconv"
	"time"
)

// ProcessCwd returns the working directory of pid, or "" if it cannot be read.
func ProcessCwd(pid int) string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "lsof", "-a", "-p", strconv.Itoa(pid), "-d", "cwd", "-Fn").Output()
	if err != nil {
		return ""
	}
	return parseLsofCwd(string(out))
}
