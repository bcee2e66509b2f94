// Package store provides the in-memory state store for the focus daemon.
package store

import (
	"time"

	"github.com/grovetools/focusguard/internal/daemon/session"
)

// Snapshot is the read-only world view published after every change.
type Snapshot struct {
	Sessions         []session.View `json:"sessions"`
	SittingMinutes   int            `json:"sitting_minutes"`
	UserPresent      bool           `json:"user_present"`
	Aggregate        string         `json:"aggregate"`
	ReminderPending  bool           `json:"reminder_pending"`
	ReminderEnabled  bool           `json:"reminder_enabled"`
	ReminderInterval int            `json:"reminder_interval"`
	LastReminderAt   *time.Time     `json:"last_reminder_at,omitempty"`
	Language         string         `json:"language"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// UpdateType defines what kind of data changed, or what kind of input a
// producer is handing to the engine.
type UpdateType string

// Published to subscribers.
const (
	UpdateSitting      UpdateType = "sitting"
	UpdatePresence     UpdateType = "presence"
	UpdateSessions     UpdateType = "sessions"
	UpdateConfigReload UpdateType = "config_reload"
)

// Sent by producers to the engine.
const (
	UpdateMessage        UpdateType = "message"
	UpdateProcesses      UpdateType = "processes"
	UpdatePresenceSample UpdateType = "presence_sample"
	UpdateTick           UpdateType = "tick"
	UpdateCommand        UpdateType = "command"
	UpdateConfig         UpdateType = "config"
)

// Update represents a change to the state.
type Update struct {
	Type    UpdateType  `json:"type"`
	Source  string      `json:"source,omitempty"` // Which producer sent this update (e.g., "ingress", "process", "presence", "clock", "api")
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload,omitempty"`
}
