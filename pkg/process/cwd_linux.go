//go:build linux

package process

import (
	"os"
	"strconv"
)

// ProcessCwd returns the working directory of pid, or "" if it cannot be read.
func ProcessCwd(pid int) string {
	dir, err := os.Readlink("/proc/" + strconv.Itoa(pid) + "/cwd")
	if err != nil {
		return ""
	}
	return dir
}
