package engine

import (
	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/internal/daemon/store"
)

// Command names accepted by HandleCommand.
const (
	CommandReset        = "reset"
	CommandTestReminder = "test_reminder"
	CommandSettings     = "settings"
)

// Command is a request from a client, applied by the engine goroutine.
type Command struct {
	Name     string         `json:"name"`
	Settings *SettingsPatch `json:"settings,omitempty"`

	reply chan CommandResult
}

// CommandResult is the engine's answer to a command.
type CommandResult struct {
	Snapshot store.Snapshot
	Err      error
}

// SettingsPatch changes runtime settings without editing the config file.
// Nil fields are left alone.
type SettingsPatch struct {
	ReminderEnabled *bool   `json:"reminder_enabled,omitempty"`
	Interval        *int    `json:"interval,omitempty"`
	SoundOnWaiting  *bool   `json:"sound_on_waiting,omitempty"`
	AutoFocus       *bool   `json:"auto_focus,omitempty"`
	Language        *string `json:"language,omitempty"`
}

// Apply returns a copy of cfg with the patch applied.
func (p SettingsPatch) Apply(cfg *config.Config) *config.Config {
	next := *cfg
	next.Process.Signatures = append([]string(nil), cfg.Process.Signatures...)
	if p.ReminderEnabled != nil {
		next.Reminder.Enabled = *p.ReminderEnabled
	}
	if p.Interval != nil {
		next.Reminder.Interval = *p.Interval
	}
	if p.SoundOnWaiting != nil {
		next.Notify.SoundOnWaiting = *p.SoundOnWaiting
	}
	if p.AutoFocus != nil {
		next.Notify.AutoFocus = *p.AutoFocus
	}
	if p.Language != nil {
		next.Notify.Language = *p.Language
	}
	return &next
}

// ConfigChange is the payload of an UpdateConfig update.
type ConfigChange struct {
	Config *config.Config
	Path   string
}
