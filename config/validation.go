package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/focusguard/errors"
)

// Validate checks the semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	if !ValidInterval(c.Reminder.Interval) {
		return errors.ConfigInvalid(fmt.Sprintf("reminder.interval must be one of %v, got %d", ReminderIntervals, c.Reminder.Interval)).
			WithDetail("field", "reminder.interval")
	}

	durations := []struct {
		field string
		value time.Duration
	}{
		{"reminder.cooldown", c.Reminder.Cooldown},
		{"reminder.max_wait", c.Reminder.MaxWait},
		{"presence.sample_interval", c.Presence.SampleInterval},
		{"presence.quiet_window", c.Presence.QuietWindow},
		{"presence.rest_confirm", c.Presence.RestConfirm},
		{"sitting.tick", c.Sitting.Tick},
		{"sessions.ended_retention", c.Sessions.EndedRetention},
		{"sessions.stale_timeout", c.Sessions.StaleTimeout},
		{"sessions.idle_after", c.Sessions.IdleAfter},
		{"process.interval", c.Process.Interval},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return errors.ConfigInvalid(fmt.Sprintf("%s must be positive, got %s", d.field, d.value)).
				WithDetail("field", d.field)
		}
	}

	switch c.Sessions.EndedPolicy {
	case EndedPolicyRestart, EndedPolicyReject:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("sessions.ended_policy must be %q or %q, got %q",
			EndedPolicyRestart, EndedPolicyReject, c.Sessions.EndedPolicy)).
			WithDetail("field", "sessions.ended_policy")
	}

	switch c.Notify.Language {
	case "en", "zh":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("notify.language must be en or zh, got %q", c.Notify.Language)).
			WithDetail("field", "notify.language")
	}

	for i, sig := range c.Process.Signatures {
		if strings.TrimSpace(sig) == "" {
			return errors.ConfigInvalid(fmt.Sprintf("process.signatures[%d] is empty", i)).
				WithDetail("field", "process.signatures")
		}
	}

	return nil
}

// ValidInterval reports whether minutes is one of ReminderIntervals.
func ValidInterval(minutes int) bool {
	for _, v := range ReminderIntervals {
		if v == minutes {
			return true
		}
	}
	return false
}
