package watch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/focusguard/internal/dispatch"
	"github.com/grovetools/focusguard/internal/daemon/session"
	"github.com/grovetools/focusguard/internal/daemon/store"
)

const barWidth = 30

// View renders the model.
func (m *Model) View() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.Header.Render("focus"))
	if m.snap != nil && m.snap.Aggregate == session.StatusWorking && !m.closed {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")

	switch {
	case m.snap == nil && m.closed:
		b.WriteString(t.Error.Render("daemon stream closed before any state arrived") + "\n")
	case m.snap == nil:
		b.WriteString(t.Muted.Render("waiting for daemon…") + "\n")
	default:
		b.WriteString(m.renderSummary(m.snap))
		b.WriteString("\n")
		b.WriteString(m.renderSessions(m.snap))
		b.WriteString("\n")
	}

	if m.closed && m.snap != nil {
		b.WriteString(t.Error.Render("daemon disconnected") + "\n")
	}
	if m.err != nil {
		b.WriteString(t.Error.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(t.Success.Render(m.status) + "\n")
	}
	if m.lastEvent != "" {
		b.WriteString(t.Muted.Render("last update: "+m.lastEvent) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderSummary(snap *store.Snapshot) string {
	t := m.theme
	label := func(s string) string { return t.Muted.Render(fmt.Sprintf("%-10s", s)) }

	presence := t.Success.Render("at computer")
	if !snap.UserPresent {
		presence = t.Muted.Render("away")
	}

	reminder := t.Success.Render("on")
	switch {
	case !snap.ReminderEnabled:
		reminder = t.Muted.Render("paused")
	case snap.ReminderPending:
		reminder = t.Warning.Render("pending, waiting for an idle CLI")
	case snap.LastReminderAt != nil:
		reminder += t.Muted.Render(" (last " + snap.LastReminderAt.Local().Format("15:04") + ")")
	}

	lines := []string{
		label("status") + t.Status(snap.Aggregate).Render(snap.Aggregate),
		label("sitting") + sittingBar(m, snap.SittingMinutes, snap.ReminderInterval),
		label("presence") + presence,
		label("reminder") + reminder,
	}
	return t.Box.Render(strings.Join(lines, "\n")) + "\n"
}

// sittingBar draws minutes against the reminder interval.
func sittingBar(m *Model, minutes, interval int) string {
	t := m.theme
	filled := 0
	if interval > 0 {
		filled = minutes * barWidth / interval
	}
	if filled > barWidth {
		filled = barWidth
	}

	style := lipgloss.NewStyle().Foreground(t.Colors.Green)
	if interval > 0 && minutes >= interval {
		style = lipgloss.NewStyle().Foreground(t.Colors.Red)
	} else if interval > 0 && minutes*4 >= interval*3 {
		style = lipgloss.NewStyle().Foreground(t.Colors.Yellow)
	}

	bar := style.Render(strings.Repeat("█", filled)) + t.Muted.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %d/%d min", bar, minutes, interval)
}

func (m *Model) renderSessions(snap *store.Snapshot) string {
	t := m.theme
	views := snap.Sessions
	if len(views) == 0 {
		return t.Muted.Render(dispatch.NewTexts(snap.Language).NoCLIRunning()) + "\n"
	}

	tbl := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border)).
		Headers("SESSION", "TOOL", "STATUS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return t.Bold.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, v := range views {
		tbl = tbl.Row(v.Name, string(v.Tool), t.Status(v.Status).Render(v.Status))
	}
	return tbl.Render() + "\n"
}
