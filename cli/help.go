package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/focusguard/tui/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	maxWidth = 72
	minWidth = 40
)

// Command groups shown in the root help.
const (
	GroupDaemon   = "daemon"
	GroupSession  = "session"
	GroupSettings = "settings"
)

// AddCommandGroups registers the focus command groups on root. Subcommands
// opt in by setting GroupID; anything else lists under OTHER.
func AddCommandGroups(root *cobra.Command) {
	root.AddGroup(
		&cobra.Group{ID: GroupDaemon, Title: "DAEMON"},
		&cobra.Group{ID: GroupSession, Title: "SITTING & SESSIONS"},
		&cobra.Group{ID: GroupSettings, Title: "SETTINGS"},
	)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth || width > maxWidth {
		return maxWidth
	}
	return width
}

// wrapText wraps text to width, keeping existing line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxWidth
	}

	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			out = append(out, paragraph)
			continue
		}
		var line string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// SetStyledHelp applies the focus styling to a command's help output.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive applies styled help to cmd and every subcommand.
// Call it after all subcommands have been added.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	// Usage errors go through ErrorHandler instead of a usage dump.
	cmd.SetUsageFunc(func(*cobra.Command) error { return nil })
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// parseDescription splits Long into the description and an "Examples:" tail.
func parseDescription(long string) (description, examples string) {
	if idx := strings.Index(long, "\nExamples:\n"); idx != -1 {
		return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len("\nExamples:\n"):])
	}
	return long, ""
}

// parseChoices splits "Reminder interval in minutes: 20, 30, 40" into its
// description and choices. Fewer than three items are not treated as a list.
func parseChoices(usage string) (string, []string) {
	colon := strings.Index(usage, ": ")
	if colon == -1 {
		return usage, nil
	}
	parts := strings.Split(usage[colon+2:], ", ")
	if len(parts) < 3 {
		return usage, nil
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(strings.TrimPrefix(p, "or "))
	}
	return usage[:colon+1], parts
}

type helpStyles struct {
	t       *theme.Theme
	title   lipgloss.Style
	section lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
}

func newHelpStyles() helpStyles {
	t := theme.DefaultTheme
	return helpStyles{
		t:       t,
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Orange),
		section: lipgloss.NewStyle().Italic(true).Foreground(t.Colors.Orange),
		command: lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Blue),
		flag:    lipgloss.NewStyle().Foreground(t.Colors.Violet),
	}
}

func styledHelpFunc(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	s := newHelpStyles()
	width := terminalWidth() - 2

	fmt.Fprintln(out, " "+s.title.Render(strings.ToUpper(cmd.CommandPath())))

	description, examples := cmd.Short, ""
	if cmd.Long != "" {
		description, examples = parseDescription(cmd.Long)
	}
	if cmd.Short != "" {
		writeIndented(out, s.t.Italic.Render(cmd.Short))
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(out)
		writeIndented(out, wrapText(description, width))
	}

	fmt.Fprintln(out, "\n "+s.section.Render("USAGE"))
	if cmd.Runnable() {
		fmt.Fprintf(out, " %s\n", cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(out, " %s [command]\n", cmd.CommandPath())
		renderCommands(out, s, cmd)
	}

	renderFlags(out, s, cmd)

	if cmd.Example != "" {
		examples = cmd.Example
	}
	if examples != "" {
		fmt.Fprintln(out, "\n "+s.section.Render("EXAMPLES"))
		renderExamples(out, s, examples, cmd.Root().Name())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(out, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

func writeIndented(out io.Writer, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(out, " "+line)
	}
}

// renderCommands lists subcommands under their group titles.
func renderCommands(out io.Writer, s helpStyles, cmd *cobra.Command) {
	width := 0
	byGroup := make(map[string][]*cobra.Command)
	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() {
			continue
		}
		byGroup[sub.GroupID] = append(byGroup[sub.GroupID], sub)
		if len(sub.Name()) > width {
			width = len(sub.Name())
		}
	}

	list := func(title string, subs []*cobra.Command) {
		if len(subs) == 0 {
			return
		}
		fmt.Fprintln(out, "\n "+s.section.Render(title))
		for _, sub := range subs {
			fmt.Fprintf(out, " %s%s  %s\n", s.command.Render(sub.Name()), strings.Repeat(" ", width-len(sub.Name())), sub.Short)
		}
	}

	for _, g := range cmd.Groups() {
		list(g.Title, byGroup[g.ID])
	}
	title := "COMMANDS"
	if len(cmd.Groups()) > 0 {
		title = "OTHER"
	}
	list(title, byGroup[""])
}

func renderFlags(out io.Writer, s helpStyles, cmd *cobra.Command) {
	var flags []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			flags = append(flags, f)
		}
	})
	if len(flags) == 0 {
		return
	}

	if cmd.HasAvailableSubCommands() {
		names := make([]string, 0, len(flags))
		for _, f := range flags {
			names = append(names, strings.TrimSpace(flagName(f)))
		}
		fmt.Fprintln(out, "\n "+s.t.Muted.Render("Flags: "+strings.Join(names, ", ")))
		return
	}

	fmt.Fprintln(out, "\n "+s.section.Render("FLAGS"))
	width := 0
	for _, f := range flags {
		if n := len(flagName(f)); n > width {
			width = n
		}
	}
	for _, f := range flags {
		name := flagName(f)
		usage, choices := parseChoices(f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" && f.DefValue != "-1" {
			usage += s.t.Muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
		}
		fmt.Fprintf(out, " %s%s  %s\n", s.flag.Render(name), strings.Repeat(" ", width-len(name)), usage)
		for _, c := range choices {
			fmt.Fprintf(out, " %s  %s\n", strings.Repeat(" ", width), s.t.Muted.Render("• "+c))
		}
	}
}

func flagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return "    --" + f.Name
}

// renderExamples mutes comment lines and highlights the focus invocation.
func renderExamples(out io.Writer, s helpStyles, examples, rootName string) {
	sub := lipgloss.NewStyle().Foreground(s.t.Colors.Cyan)
	for _, line := range strings.Split(examples, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			fmt.Fprintln(out)
		case strings.HasPrefix(line, "#"):
			fmt.Fprintln(out, "  "+s.t.Muted.Render(line))
		default:
			parts := strings.Fields(line)
			for i, p := range parts {
				switch {
				case i == 0 && p == rootName:
					parts[i] = s.command.Render(p)
				case strings.HasPrefix(p, "-"):
					parts[i] = s.flag.Render(p)
				case i == 1:
					parts[i] = sub.Render(p)
				}
			}
			fmt.Fprintln(out, "   "+strings.Join(parts, " "))
		}
	}
}
