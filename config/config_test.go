package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadFromBytesTOML(t *testing.T) {
	data := []byte(`
[reminder]
interval = 20
max_wait = "5m"

[sessions]
ended_policy = "reject"

[process]
signatures = ["claude*", "aider"]
`)
	cfg, err := LoadFromBytes(data, FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Reminder.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Reminder.MaxWait)
	assert.True(t, cfg.Reminder.Enabled, "unset keys keep their defaults")
	assert.Equal(t, 10*time.Minute, cfg.Reminder.Cooldown)
	assert.Equal(t, EndedPolicyReject, cfg.Sessions.EndedPolicy)
	assert.Equal(t, []string{"claude*", "aider"}, cfg.Process.Signatures)
}

func TestLoadFromBytesYAML(t *testing.T) {
	data := []byte(`
presence:
  quiet_window: 90s
notify:
  language: zh
  auto_focus: true
`)
	cfg, err := LoadFromBytes(data, FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Presence.QuietWindow)
	assert.Equal(t, "zh", cfg.Notify.Language)
	assert.True(t, cfg.Notify.AutoFocus)
}

func TestLoadFromBytesEmptyDocument(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(""), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default().Reminder, cfg.Reminder)
}

func TestSchemaRejectsUnknownKeys(t *testing.T) {
	_, err := LoadFromBytes([]byte("[reminder]\nintervall = 30\n"), FormatTOML)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestSchemaRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"interval not in enum", "[reminder]\ninterval = 45\n"},
		{"duration not a duration", "[reminder]\ncooldown = \"soon\"\n"},
		{"unknown policy", "[sessions]\nended_policy = \"ignore\"\n"},
		{"unknown language", "[notify]\nlanguage = \"fr\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.data), FormatTOML)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestValidateSemantic(t *testing.T) {
	cfg := Default()
	cfg.Presence.QuietWindow = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "presence.quiet_window")

	cfg = Default()
	cfg.Process.Signatures = []string{"claude", " "}
	assert.Error(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FOCUS_REMINDER_INTERVAL", "60")
	t.Setenv("FOCUS_REMINDER_MAX_WAIT", "2m")
	t.Setenv("FOCUS_NOTIFY_SOUND_ON_WAITING", "true")
	t.Setenv("FOCUS_PROCESS_SIGNATURES", "claude,codex")
	// Not a known section, ignored.
	t.Setenv("FOCUS_LOG_LEVEL", "debug")

	cfg, err := LoadFromBytes([]byte("[reminder]\ninterval = 20\n"), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Reminder.Interval, "environment wins over the file")
	assert.Equal(t, 2*time.Minute, cfg.Reminder.MaxWait)
	assert.True(t, cfg.Notify.SoundOnWaiting)
	assert.Equal(t, []string{"claude", "codex"}, cfg.Process.Signatures)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestApplyEnvOverrides(t *testing.T) {
	raw := map[string]interface{}{
		"reminder": map[string]interface{}{"interval": int64(20)},
	}
	applyEnvOverrides(raw, []string{
		"FOCUS_REMINDER_ENABLED=false",
		"FOCUS_SITTING_TICK=1s",
		"FOCUS_HOME=/tmp/x",
		"PATH=/usr/bin",
	})

	reminder := raw["reminder"].(map[string]interface{})
	assert.Equal(t, int64(20), reminder["interval"])
	assert.Equal(t, "false", reminder["enabled"])
	assert.Equal(t, "1s", raw["sitting"].(map[string]interface{})["tick"])
	assert.NotContains(t, raw, "home")
}

func TestLoadFileAndFind(t *testing.T) {
	dir := t.TempDir()

	_, err := FindConfigFile(dir)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))

	path := filepath.Join(dir, "focus.yml")
	require.NoError(t, os.WriteFile(path, []byte("reminder:\n  interval: 50\n"), 0o644))

	found, err := FindConfigFile(dir)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	cfg, err := Load(found)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Reminder.Interval)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestLoadDefaultWithoutFile(t *testing.T) {
	testutil.FocusHome(t)

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Reminder.Interval = 30
	cfg.Sessions.IdleAfter = 45 * time.Second

	for _, format := range []string{FormatTOML, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			data, err := Marshal(cfg, format)
			require.NoError(t, err)

			loaded, err := LoadFromBytes(data, format)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"max_wait"`)
	assert.Contains(t, string(data), `"additionalProperties": false`)
}

func TestNextInterval(t *testing.T) {
	assert.Equal(t, 30, NextInterval(20))
	assert.Equal(t, 20, NextInterval(60))
	assert.Equal(t, 20, NextInterval(7))
}
