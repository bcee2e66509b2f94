package daemon

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/internal/daemon/engine"
	"github.com/grovetools/focusguard/internal/daemon/server"
	"github.com/grovetools/focusguard/internal/daemon/session"
	"github.com/grovetools/focusguard/internal/daemon/store"
	"github.com/grovetools/focusguard/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu   sync.Mutex
	st   *store.Store
	cfg  *config.Config
	cmds []engine.Command
}

func (f *fakeBackend) Store() *store.Store    { return f.st }
func (f *fakeBackend) Config() *config.Config { return f.cfg }

func (f *fakeBackend) Do(_ context.Context, cmd engine.Command) (store.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cmds = append(f.cmds, cmd)
	if cmd.Name == engine.CommandSettings && cmd.Settings.Interval != nil && !config.ValidInterval(*cmd.Settings.Interval) {
		return store.Snapshot{}, errors.ConfigInvalid("reminder.interval must be one of 20, 30, 40, 50, 60")
	}
	return f.st.Get(), nil
}

func startAPI(t *testing.T) (string, *fakeBackend) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	st := store.New()
	st.Publish(store.Snapshot{
		Sessions:       []session.View{{Key: "codex:s9", Tool: session.ToolCodex, Name: "web", Status: session.StatusWaiting}},
		SittingMinutes: 31,
		UserPresent:    true,
		Aggregate:      session.StatusWaiting,
	}, nil)
	b := &fakeBackend{st: st, cfg: config.Default()}

	srv := server.New(logrus.NewEntry(logger))
	srv.SetBackend(b)
	socket := filepath.Join(testutil.SocketDir(t), "api.sock")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(socket) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	require.Eventually(t, func() bool {
		_, err := os.Stat(socket)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	return socket, b
}

func TestRemoteClient(t *testing.T) {
	socket, b := startAPI(t)
	c, err := ConnectTo(socket)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	assert.True(t, c.IsRunning())

	snap, err := c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 31, snap.SittingMinutes)
	assert.Equal(t, session.StatusWaiting, snap.Aggregate)

	views, err := c.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "web", views[0].Name)

	cfg, err := c.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Config.Reminder.Interval)
	assert.Equal(t, time.Minute, cfg.Config.Presence.QuietWindow)

	_, err = c.Reset(ctx)
	require.NoError(t, err)
	_, err = c.TestReminder(ctx)
	require.NoError(t, err)

	interval := 50
	_, err = c.UpdateSettings(ctx, SettingsPatch{Interval: &interval})
	require.NoError(t, err)

	b.mu.Lock()
	require.Len(t, b.cmds, 3)
	assert.Equal(t, engine.CommandReset, b.cmds[0].Name)
	assert.Equal(t, engine.CommandTestReminder, b.cmds[1].Name)
	assert.Equal(t, 50, *b.cmds[2].Settings.Interval)
	b.mu.Unlock()
}

func TestRemoteClientErrorCodes(t *testing.T) {
	socket, _ := startAPI(t)
	c := NewRemoteClient(socket)
	defer c.Close()

	bad := 7
	_, err := c.UpdateSettings(context.Background(), SettingsPatch{Interval: &bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid), "got %v", err)
}

func TestConnectWithoutDaemon(t *testing.T) {
	_, err := ConnectTo(filepath.Join(testutil.SocketDir(t), "missing.sock"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDaemonUnavailable))

	c := NewRemoteClient(filepath.Join(testutil.SocketDir(t), "missing.sock"))
	assert.False(t, c.IsRunning())
	_, err = c.State(context.Background())
	assert.True(t, errors.Is(err, errors.ErrCodeDaemonUnavailable))
}

func TestStreamAndWatch(t *testing.T) {
	socket, b := startAPI(t)
	c := NewRemoteClient(socket)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sse, err := c.StreamState(ctx)
	require.NoError(t, err)
	ws, err := c.WatchState(ctx)
	require.NoError(t, err)

	for _, ch := range []<-chan StateUpdate{sse, ws} {
		first := <-ch
		assert.Equal(t, "initial", first.UpdateType)
		require.NotNil(t, first.Snapshot)
		assert.Equal(t, 31, first.Snapshot.SittingMinutes)
	}

	b.st.Publish(store.Snapshot{SittingMinutes: 32, Aggregate: session.StatusOffline}, []store.UpdateType{store.UpdateSitting})

	for _, ch := range []<-chan StateUpdate{sse, ws} {
		select {
		case u := <-ch:
			assert.Equal(t, string(store.UpdateSitting), u.UpdateType)
			assert.Equal(t, 32, u.Snapshot.SittingMinutes)
		case <-ctx.Done():
			t.Fatal("timed out waiting for update")
		}
	}

	cancel()
	for range ws {
	}
}

func TestConfigWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "focus.toml")
	require.NoError(t, os.WriteFile(file, []byte("[reminder]\ninterval = 30\n"), 0644))

	reloads := make(chan *config.Config, 4)
	w, err := NewConfigWatcher(dir, 20*time.Millisecond, func(cfg *config.Config, path string) {
		assert.Equal(t, file, path)
		reloads <- cfg
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Give the watcher a moment before the first write.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("[reminder]\ninterval = 60\n"), 0644))

	select {
	case cfg := <-reloads:
		assert.Equal(t, 60, cfg.Reminder.Interval)
	case <-time.After(3 * time.Second):
		t.Fatal("config change not picked up")
	}

	// Invalid edits never reach the callback.
	require.NoError(t, os.WriteFile(file, []byte("[reminder]\ninterval = 7\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	select {
	case cfg := <-reloads:
		t.Fatalf("unexpected reload with interval %d", cfg.Reminder.Interval)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestConfigWatcherReload(t *testing.T) {
	dir := t.TempDir()
	var got *config.Config
	w, err := NewConfigWatcher(dir, 0, func(cfg *config.Config, _ string) { got = cfg })
	require.NoError(t, err)
	defer w.Close()

	good := testutil.WriteFile(t, dir, "focus.yml", "notify:\n  language: zh\n")
	assert.True(t, w.Reload(good))
	require.NotNil(t, got)
	assert.Equal(t, "zh", got.Notify.Language)

	require.NoError(t, os.WriteFile(good, []byte("notify:\n  language: fr\n"), 0644))
	assert.False(t, w.Reload(good))
	assert.Equal(t, "zh", got.Notify.Language)

	f, ok := w.configFile(filepath.Join(dir, "focus.yaml"))
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "focus.yaml"), f)
	_, ok = w.configFile(filepath.Join(dir, "other.toml"))
	assert.False(t, ok)
}
