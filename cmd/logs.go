package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/focusguard/cli"
	"github.com/grovetools/focusguard/logging"
	"github.com/grovetools/focusguard/tui/theme"
	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	var (
		follow    bool
		tailLines int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon log",
		Long: `Prints the daemon's log file. JSON log lines are rendered for reading;
pass --json to print them unchanged.

Examples:
  # Follow the daemon log
  focus logs -f

  # Last 50 lines
  focus logs --tail 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			logFile := ""
			if cfg, _, err := cli.LoadConfig(opts); err == nil {
				logFile = cfg.Logging.File
			}
			path := logging.LogFilePath(logFile)

			out := cmd.OutOrStdout()
			emit := func(line string) {
				if opts.JSONOutput {
					fmt.Fprintln(out, line)
					return
				}
				printLogText(out, line)
			}

			lines, err := lastLines(path, tailLines)
			if err != nil && !(follow && os.IsNotExist(err)) {
				return fmt.Errorf("failed to read log file %s: %w", path, err)
			}
			for _, line := range lines {
				emit(line)
			}
			if !follow {
				return nil
			}

			t, err := tail.TailFile(path, tail.Config{
				Follow:    true,
				ReOpen:    true,
				MustExist: false,
				Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
				Logger:    stdlog.New(io.Discard, "", 0),
			})
			if err != nil {
				return fmt.Errorf("cannot tail %s: %w", path, err)
			}
			defer t.Cleanup()

			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return t.Stop()
				case line, ok := <-t.Lines:
					if !ok {
						return t.Err()
					}
					if line.Err != nil {
						continue
					}
					emit(line.Text)
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVar(&tailLines, "tail", -1, "Number of lines to show from the end of the log (default: all)")
	return cmd
}

// lastLines returns the last n non-empty lines of path, or all of them when n < 0.
func lastLines(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, scanner.Err()
}

// printLogText pretty-prints a log line for human consumption.
func printLogText(w io.Writer, line string) {
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(line), &logMap); err != nil {
		// Text formatter output is already readable.
		fmt.Fprintln(w, line)
		return
	}

	ts, _ := logMap["time"].(string)
	level, _ := logMap["level"].(string)
	msg, _ := logMap["msg"].(string)
	component, _ := logMap["component"].(string)

	parsedTime, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		parsedTime, _ = time.Parse(time.RFC3339, ts)
	}

	t := theme.DefaultTheme
	var levelStyle lipgloss.Style
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = t.Error
	case "warning":
		levelStyle = t.Warning
	case "info":
		levelStyle = t.Info
	default:
		levelStyle = t.Muted
	}

	keys := make([]string, 0, len(logMap))
	for k := range logMap {
		if k != "time" && k != "level" && k != "msg" && k != "component" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", t.Muted.Render(k), logMap[k]))
	}

	fmt.Fprintf(w, "%s %s [%s] %s %s\n",
		parsedTime.Format("15:04:05"),
		levelStyle.Render(strings.ToUpper(level)),
		t.Accent.Render(component),
		msg,
		strings.Join(fields, " "),
	)
}
