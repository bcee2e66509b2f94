// Package theme holds the lipgloss styles shared by the focus CLI and the
// watch view.
package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultThemeName = "kanagawa"

// Kanagawa palette, dark and light variants.
const (
	kanagawaDarkGreen   = "#98BB6C"
	kanagawaDarkYellow  = "#FF9E3B"
	kanagawaDarkRed     = "#FF5D62"
	kanagawaDarkOrange  = "#FFA066"
	kanagawaDarkCyan    = "#7E9CD8"
	kanagawaDarkBlue    = "#7FB4CA"
	kanagawaDarkViolet  = "#957FB8"
	kanagawaDarkMuted   = "#727169"
	kanagawaDarkBorder  = "#363646"
	kanagawaLightGreen  = "#4E7C5A"
	kanagawaLightYellow = "#A68A64"
	kanagawaLightRed    = "#C34043"
	kanagawaLightOrange = "#CC6B4E"
	kanagawaLightCyan   = "#5B8BBE"
	kanagawaLightBlue   = "#4F7CAC"
	kanagawaLightViolet = "#674D7A"
	kanagawaLightMuted  = "#6C7086"
	kanagawaLightBorder = "#B5BDC5"
)

// Colors is the palette used by a theme.
type Colors struct {
	Green     lipgloss.TerminalColor
	Yellow    lipgloss.TerminalColor
	Red       lipgloss.TerminalColor
	Orange    lipgloss.TerminalColor
	Cyan      lipgloss.TerminalColor
	Blue      lipgloss.TerminalColor
	Violet    lipgloss.TerminalColor
	MutedText lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
}

// Theme holds the pre-configured styles.
type Theme struct {
	Colors Colors

	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold   lipgloss.Style
	Italic lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style

	Box lipgloss.Style
}

// DefaultTheme is selected by FOCUS_THEME ("kanagawa" or "terminal").
var DefaultTheme = NewThemeWithName(os.Getenv("FOCUS_THEME"))

// NewThemeWithName constructs a theme from a palette name. Unknown names
// fall back to the default palette.
func NewThemeWithName(name string) *Theme {
	var colors Colors
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "terminal", "ansi":
		colors = terminalColors()
	default:
		colors = kanagawaColors()
	}
	return newTheme(colors)
}

// Status returns the style for a session or aggregate status word.
func (t *Theme) Status(status string) lipgloss.Style {
	switch status {
	case "waiting":
		return lipgloss.NewStyle().Foreground(t.Colors.Yellow).Bold(true)
	case "working":
		return lipgloss.NewStyle().Foreground(t.Colors.Green)
	case "idle":
		return lipgloss.NewStyle().Foreground(t.Colors.Blue)
	case "detected":
		return lipgloss.NewStyle().Foreground(t.Colors.Cyan).Italic(true)
	default:
		return t.Muted
	}
}

func newTheme(colors Colors) *Theme {
	return &Theme{
		Colors: colors,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Orange),

		Success: lipgloss.NewStyle().Foreground(colors.Green).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(colors.Red).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(colors.Yellow).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(colors.Cyan).Bold(true),

		Bold:   lipgloss.NewStyle().Bold(true),
		Italic: lipgloss.NewStyle().Italic(true),
		Muted:  lipgloss.NewStyle().Faint(true),
		Accent: lipgloss.NewStyle().Foreground(colors.Violet).Bold(true),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),
	}
}

func kanagawaColors() Colors {
	return Colors{
		Green:     lipgloss.AdaptiveColor{Light: kanagawaLightGreen, Dark: kanagawaDarkGreen},
		Yellow:    lipgloss.AdaptiveColor{Light: kanagawaLightYellow, Dark: kanagawaDarkYellow},
		Red:       lipgloss.AdaptiveColor{Light: kanagawaLightRed, Dark: kanagawaDarkRed},
		Orange:    lipgloss.AdaptiveColor{Light: kanagawaLightOrange, Dark: kanagawaDarkOrange},
		Cyan:      lipgloss.AdaptiveColor{Light: kanagawaLightCyan, Dark: kanagawaDarkCyan},
		Blue:      lipgloss.AdaptiveColor{Light: kanagawaLightBlue, Dark: kanagawaDarkBlue},
		Violet:    lipgloss.AdaptiveColor{Light: kanagawaLightViolet, Dark: kanagawaDarkViolet},
		MutedText: lipgloss.AdaptiveColor{Light: kanagawaLightMuted, Dark: kanagawaDarkMuted},
		Border:    lipgloss.AdaptiveColor{Light: kanagawaLightBorder, Dark: kanagawaDarkBorder},
	}
}

func terminalColors() Colors {
	return Colors{
		Green:     lipgloss.Color("2"),
		Yellow:    lipgloss.Color("3"),
		Red:       lipgloss.Color("1"),
		Orange:    lipgloss.Color("208"),
		Cyan:      lipgloss.Color("6"),
		Blue:      lipgloss.Color("4"),
		Violet:    lipgloss.Color("5"),
		MutedText: lipgloss.Color("8"),
		Border:    lipgloss.Color("8"),
	}
}
