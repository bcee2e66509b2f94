package config

import (
	"time"
)

// Config is the complete daemon configuration.
type Config struct {
	Reminder ReminderConfig `yaml:"reminder" toml:"reminder" json:"reminder" jsonschema:"description=Break reminder policy"`
	Presence PresenceConfig `yaml:"presence" toml:"presence" json:"presence" jsonschema:"description=User presence detection"`
	Sitting  SittingConfig  `yaml:"sitting" toml:"sitting" json:"sitting" jsonschema:"description=Sitting-time accumulation"`
	Sessions SessionsConfig `yaml:"sessions" toml:"sessions" json:"sessions" jsonschema:"description=CLI session tracking"`
	Process  ProcessConfig  `yaml:"process" toml:"process" json:"process" jsonschema:"description=Process table sampling"`
	Notify   NotifyConfig   `yaml:"notify" toml:"notify" json:"notify" jsonschema:"description=Notification and focus behaviour"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging" json:"logging" jsonschema:"description=Daemon logging"`
}

// ReminderConfig controls when break reminders fire.
type ReminderConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled" jsonschema:"description=Enable break reminders"`
	// Interval is the sitting time, in minutes, before a reminder becomes due.
	Interval int `yaml:"interval" toml:"interval" json:"interval" jsonschema:"enum=20,enum=30,enum=40,enum=50,enum=60,description=Minutes of sitting before a reminder is due"`
	// Cooldown is the minimum time between two fired reminders.
	Cooldown time.Duration `yaml:"cooldown" toml:"cooldown" json:"cooldown" jsonschema:"description=Minimum time between reminders"`
	// MaxWait bounds how long a due reminder waits for a CLI to become idle.
	MaxWait time.Duration `yaml:"max_wait" toml:"max_wait" json:"max_wait" jsonschema:"description=Fire a pending reminder after this long even if no CLI is waiting"`
}

// PresenceConfig controls the presence hysteresis filter.
type PresenceConfig struct {
	SampleInterval time.Duration `yaml:"sample_interval" toml:"sample_interval" json:"sample_interval" jsonschema:"description=How often input idle time is sampled"`
	QuietWindow    time.Duration `yaml:"quiet_window" toml:"quiet_window" json:"quiet_window" jsonschema:"description=Time without input before the user is considered away"`
	RestConfirm    time.Duration `yaml:"rest_confirm" toml:"rest_confirm" json:"rest_confirm" jsonschema:"description=Sustained absence after a reminder that resets sitting time"`
}

// SittingConfig controls the sitting-time clock.
type SittingConfig struct {
	Tick time.Duration `yaml:"tick" toml:"tick" json:"tick" jsonschema:"description=Length of one sitting-time unit (one minute in production)"`
}

// Ended session policies.
const (
	EndedPolicyRestart = "restart"
	EndedPolicyReject  = "reject"
)

// SessionsConfig controls session retention and reaping.
type SessionsConfig struct {
	EndedRetention time.Duration `yaml:"ended_retention" toml:"ended_retention" json:"ended_retention" jsonschema:"description=How long an ended session stays visible"`
	StaleTimeout   time.Duration `yaml:"stale_timeout" toml:"stale_timeout" json:"stale_timeout" jsonschema:"description=Silence after which a session is cross-checked against the process table"`
	IdleAfter      time.Duration `yaml:"idle_after" toml:"idle_after" json:"idle_after" jsonschema:"description=Waiting sessions older than this are displayed as idle"`
	EndedPolicy    string        `yaml:"ended_policy" toml:"ended_policy" json:"ended_policy" jsonschema:"enum=restart,enum=reject,description=What an event for an ended session does before it is reaped"`
}

// ProcessConfig controls the process sampler.
type ProcessConfig struct {
	Interval   time.Duration `yaml:"interval" toml:"interval" json:"interval" jsonschema:"description=Process table poll interval"`
	Signatures []string      `yaml:"signatures" toml:"signatures" json:"signatures" jsonschema:"description=Glob patterns matched against executable names"`
}

// NotifyConfig controls what the dispatcher does.
type NotifyConfig struct {
	SoundOnWaiting bool   `yaml:"sound_on_waiting" toml:"sound_on_waiting" json:"sound_on_waiting" jsonschema:"description=Play a sound when a CLI starts waiting for input"`
	AutoFocus      bool   `yaml:"auto_focus" toml:"auto_focus" json:"auto_focus" jsonschema:"description=Bring the CLI's terminal to the front when it starts waiting"`
	Language       string `yaml:"language" toml:"language" json:"language" jsonschema:"enum=en,enum=zh,description=Display language for notifications"`
}

// LoggingConfig configures the daemon logger.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	// Can be overridden by the FOCUS_LOG_LEVEL environment variable.
	Level string `yaml:"level" toml:"level" json:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	// Format is "text" (default) or "json".
	Format string `yaml:"format" toml:"format" json:"format" jsonschema:"enum=text,enum=json"`
	// File is an optional log file path. Empty means the default under the state dir.
	File string `yaml:"file" toml:"file" json:"file"`
}

// ReminderIntervals are the allowed values of reminder.interval, in cycle order.
var ReminderIntervals = []int{20, 30, 40, 50, 60}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Reminder: ReminderConfig{
			Enabled:  true,
			Interval: 40,
			Cooldown: 10 * time.Minute,
			MaxWait:  10 * time.Minute,
		},
		Presence: PresenceConfig{
			SampleInterval: 5 * time.Second,
			QuietWindow:    time.Minute,
			RestConfirm:    2 * time.Minute,
		},
		Sitting: SittingConfig{
			Tick: time.Minute,
		},
		Sessions: SessionsConfig{
			EndedRetention: 30 * time.Second,
			StaleTimeout:   10 * time.Minute,
			IdleAfter:      60 * time.Second,
			EndedPolicy:    EndedPolicyRestart,
		},
		Process: ProcessConfig{
			Interval:   10 * time.Second,
			Signatures: []string{"claude", "gemini", "codex"},
		},
		Notify: NotifyConfig{
			Language: "en",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// NextInterval returns the interval following current in the cycle 20 → 30 → … → 60 → 20.
func NextInterval(current int) int {
	for i, v := range ReminderIntervals {
		if v == current && i+1 < len(ReminderIntervals) {
			return ReminderIntervals[i+1]
		}
	}
	return ReminderIntervals[0]
}
