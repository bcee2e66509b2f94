package process

import "strings"

// parseLsofCwd extracts the path from `lsof -Fn` field output, where the
// name field is the line starting with "n".
func parseLsofCwd(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "n") && len(line) > 1 {
			return line[1:]
		}
	}
	return ""
}
