package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/logging"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// ConfigWatcher watches the config directory and reloads the config file
// when it changes. Invalid edits are logged and skipped; the daemon keeps
// running with the last good configuration.
type ConfigWatcher struct {
	watcher      *fsnotify.Watcher
	debounce     time.Duration
	dir          string
	targetToLink map[string]string // Maps symlink targets to their names in dir
	onReload     func(cfg *config.Config, file string)
	logger       *logrus.Entry

	mu      sync.Mutex
	timer   *time.Timer
	pending string
}

// NewConfigWatcher creates a watcher for dir. onReload receives every
// successfully validated configuration.
// Symlinked config files are followed by also watching their target directories.
func NewConfigWatcher(dir string, debounce time.Duration, onReload func(*config.Config, string)) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger("config-watcher")
	dir = filepath.Clean(dir)

	if err := os.MkdirAll(dir, 0755); err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	// fsnotify doesn't follow symlinks, so watch targets explicitly.
	watchedDirs := map[string]bool{dir: true}
	targetToLink := make(map[string]string)
	for _, name := range config.FileNames {
		full := filepath.Join(dir, name)
		info, err := os.Lstat(full)
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			continue
		}
		target, err := filepath.EvalSymlinks(full)
		if err != nil {
			logger.WithError(err).Warnf("Failed to resolve symlink %s", name)
			continue
		}
		targetToLink[target] = name

		targetDir := filepath.Dir(target)
		if watchedDirs[targetDir] {
			continue
		}
		if err := watcher.Add(targetDir); err != nil {
			logger.WithError(err).Warnf("Failed to watch symlink target dir %s", targetDir)
			continue
		}
		watchedDirs[targetDir] = true
		logger.Debugf("Watching symlink target directory: %s", targetDir)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &ConfigWatcher{
		watcher:      watcher,
		debounce:     debounce,
		dir:          dir,
		targetToLink: targetToLink,
		onReload:     onReload,
		logger:       logger,
	}, nil
}

// Start begins watching for config changes. It blocks until the context is cancelled.
func (w *ConfigWatcher) Start(ctx context.Context) {
	defer w.stopTimer()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if file, ok := w.configFile(event.Name); ok {
				w.schedule(file)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.watcher.Close()
			return
		}
	}
}

// configFile maps an event path to the config file it concerns.
func (w *ConfigWatcher) configFile(name string) (string, bool) {
	if link, ok := w.targetToLink[name]; ok {
		return filepath.Join(w.dir, link), true
	}
	if filepath.Dir(name) != w.dir {
		return "", false
	}
	base := filepath.Base(name)
	for _, candidate := range config.FileNames {
		if base == candidate {
			return name, true
		}
	}
	return "", false
}

// schedule reloads file once no further events arrive within the debounce window.
func (w *ConfigWatcher) schedule(file string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = file
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *ConfigWatcher) fire() {
	w.mu.Lock()
	file := w.pending
	w.pending = ""
	w.mu.Unlock()

	if file != "" {
		w.Reload(file)
	}
}

func (w *ConfigWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// Reload loads and validates file and hands it to the callback.
// It reports whether the new configuration was accepted.
func (w *ConfigWatcher) Reload(file string) bool {
	cfg, err := config.Load(file)
	if err != nil {
		w.logger.WithError(err).WithField("file", file).Warn("Ignoring invalid config change")
		return false
	}

	w.logger.Infof("Config changed: %s", filepath.Base(file))
	if w.onReload != nil {
		w.onReload(cfg, file)
	}
	return true
}

// Close stops the watcher and releases resources.
func (w *ConfigWatcher) Close() error {
	w.stopTimer()
	return w.watcher.Close()
}
