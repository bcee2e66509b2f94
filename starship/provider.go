package starship

import (
	"fmt"
	"strings"

	"github.com/grovetools/focusguard/internal/daemon/session"
	"github.com/grovetools/focusguard/internal/dispatch"
	"github.com/grovetools/focusguard/internal/daemon/store"
)

// StatusProvider renders one segment of the prompt from the daemon snapshot.
// Providers return an empty string when they have nothing to display.
type StatusProvider func(snap *store.Snapshot) (string, error)

// providers holds all registered status providers.
var providers = []StatusProvider{SittingProvider, AgentProvider}

// RegisterProvider appends a status provider to the prompt.
func RegisterProvider(p StatusProvider) {
	providers = append(providers, p)
}

// GetProviders returns all registered status providers.
// This is primarily used for testing.
func GetProviders() []StatusProvider {
	return providers
}

// ClearProviders removes all registered providers.
// This is primarily used for testing.
func ClearProviders() {
	providers = nil
}

// SittingProvider shows sitting minutes against the interval, with a
// marker once a reminder is due.
func SittingProvider(snap *store.Snapshot) (string, error) {
	if !snap.ReminderEnabled {
		return "🪑 " + dispatch.NewTexts(snap.Language).SittingTime(snap.SittingMinutes), nil
	}
	out := fmt.Sprintf("🪑%d/%dm", snap.SittingMinutes, snap.ReminderInterval)
	if snap.ReminderPending {
		out += " ☕"
	}
	return out, nil
}

// AgentProvider shows the aggregate CLI status and how many CLIs wait.
func AgentProvider(snap *store.Snapshot) (string, error) {
	waiting := 0
	for _, v := range snap.Sessions {
		if v.Status == session.StatusWaiting {
			waiting++
		}
	}

	switch snap.Aggregate {
	case session.StatusWorking:
		return "⚙", nil
	case session.StatusWaiting:
		if waiting > 1 {
			return fmt.Sprintf("⏸%d", waiting), nil
		}
		return "⏸", nil
	default:
		return "", nil
	}
}

// Render joins the output of every provider.
func Render(snap *store.Snapshot) string {
	var outputs []string
	for _, provider := range providers {
		output, err := provider(snap)
		if err != nil {
			// Silently ignore provider errors
			continue
		}
		if output != "" {
			outputs = append(outputs, output)
		}
	}
	return strings.Join(outputs, " ")
}
