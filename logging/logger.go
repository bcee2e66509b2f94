package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/pkg/paths"
	"github.com/grovetools/focusguard/util/pathutil"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	// active overrides the on-disk logging section once Reconfigure runs.
	active *config.LoggingConfig

	// fileSink is shared by every component logger so only one handle is open.
	fileSink     io.Writer
	fileSinkOnce sync.Once
)

// FormatConfig controls the text formatter.
type FormatConfig struct {
	DisableTimestamp bool
	DisableComponent bool
	// DisableColors forces plain output even on a colour terminal.
	DisableColors bool
}

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logCfg := config.Default().Logging
	if active != nil {
		logCfg = *active
	} else if cfg, _, err := config.LoadDefault(); err == nil {
		logCfg = cfg.Logging
	}

	logger := logrus.New()
	Configure(logger, logCfg)

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// Reconfigure applies logCfg to every component logger built so far and to
// the ones built later.
func Reconfigure(logCfg config.LoggingConfig) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	active = &logCfg
	for _, entry := range loggers {
		Configure(entry.Logger, logCfg)
	}
}

// Configure applies a logging section to an existing logger.
func Configure(logger *logrus.Logger, logCfg config.LoggingConfig) {
	levelStr := "info"
	if env := os.Getenv("FOCUS_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if os.Getenv("FOCUS_LOG_CALLER") == "true" {
		logger.SetReportCaller(true)
	}

	switch logCfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableColors: !isatty.IsTerminal(os.Stderr.Fd()),
		}})
	}

	writers := []io.Writer{GetGlobalOutput()}
	if sink := openFileSink(logCfg.File); sink != nil {
		writers = append(writers, sink)
	}
	if len(writers) == 1 {
		logger.SetOutput(writers[0])
	} else {
		logger.SetOutput(io.MultiWriter(writers...))
	}
}

// LogFilePath returns the file the daemon logs to for the given setting.
func LogFilePath(configured string) string {
	if configured != "" {
		if p, err := pathutil.Expand(configured); err == nil {
			return p
		}
		return configured
	}
	return filepath.Join(paths.LogDir(), "focusd.log")
}

// openFileSink opens the log file once. Only the daemon writes to it; client
// commands keep logging to stderr.
func openFileSink(configured string) io.Writer {
	if os.Getenv("FOCUS_DAEMON") != "1" {
		return nil
	}
	fileSinkOnce.Do(func() {
		path := LogFilePath(configured)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory %s: %v\n", filepath.Dir(path), err)
			return
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", path, err)
			return
		}
		fileSink = file
	})
	return fileSink
}
