package logging

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
)

var (
	componentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	levelStyles    = map[logrus.Level]lipgloss.Style{
		logrus.DebugLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		logrus.InfoLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		logrus.WarnLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		logrus.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

// TextFormatter is a custom logrus formatter.
type TextFormatter struct {
	Config FormatConfig
}

// Format renders a single log entry.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.Config.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteString(" ")
	}

	// Map logrus level strings to shorter versions for consistency
	levelStr := entry.Level.String()
	switch levelStr {
	case "warning":
		levelStr = "warn"
	}
	level := fmt.Sprintf("[%s]", strings.ToUpper(levelStr))
	b.WriteString(f.render(levelStyles[entry.Level], level))

	if component, ok := entry.Data["component"]; ok && !f.Config.DisableComponent {
		b.WriteString(fmt.Sprintf(" [%s]", f.render(componentStyle, fmt.Sprintf("%v", component))))
	}

	if entry.HasCaller() {
		fileName := filepath.Base(entry.Caller.File)
		funcName := filepath.Base(entry.Caller.Function)
		b.WriteString(fmt.Sprintf(" [%s:%d %s]", fileName, entry.Caller.Line, funcName))
	}

	b.WriteString(" ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != "component" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteString(fmt.Sprintf(" %s=%v", key, entry.Data[key]))
	}

	b.WriteString("\n")
	return []byte(b.String()), nil
}

func (f *TextFormatter) render(style lipgloss.Style, s string) string {
	if f.Config.DisableColors || termenv.EnvNoColor() {
		return s
	}
	return style.Render(s)
}
