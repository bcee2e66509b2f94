package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/internal/daemon/session"
	"github.com/grovetools/focusguard/internal/daemon/store"
	"github.com/grovetools/focusguard/internal/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanSource struct {
	ch chan session.Message
}

func (s *chanSource) Receive(ctx context.Context) <-chan session.Message {
	out := make(chan session.Message)
	go func() {
		defer close(out)
		for {
			select {
			case m := <-s.ch:
				select {
				case out <- m:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

type recorder struct {
	mu   sync.Mutex
	reqs []dispatch.Request
}

func (r *recorder) Dispatch(_ context.Context, req dispatch.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	return nil
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, req := range r.reqs {
		out = append(out, req.Kind)
	}
	return out
}

func startEngine(t *testing.T) (*Engine, *chanSource, *recorder, context.CancelFunc, chan error) {
	t.Helper()
	cfg := config.Default()
	cfg.Notify.SoundOnWaiting = true

	e := New(store.New(), NewCore(cfg, time.Now(), quietLogger()), quietLogger())
	src := &chanSource{ch: make(chan session.Message)}
	rec := &recorder{}
	e.SetIngress(src)
	e.SetDispatcher(dispatch.NewQueue(rec, 8))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Start(ctx) }()
	t.Cleanup(cancel)
	return e, src, rec, cancel, done
}

func TestEngineAppliesIngressMessages(t *testing.T) {
	e, src, rec, _, _ := startEngine(t)
	sub := e.Store().Subscribe()

	src.ch <- session.Message{Tool: session.ToolGemini, Event: "AfterAgent", SessionID: "g", Cwd: "/w/site", ReceivedAt: time.Now()}

	select {
	case u := <-sub:
		assert.Equal(t, store.UpdateSessions, u.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no sessions update published")
	}

	snap := e.Store().Get()
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, "Gemini - site", snap.Sessions[0].Name)
	assert.Equal(t, session.StatusWaiting, snap.Aggregate)

	assert.Eventually(t, func() bool {
		kinds := rec.kinds()
		return len(kinds) == 1 && kinds[0] == dispatch.KindWaiting
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEngineDo(t *testing.T) {
	e, _, rec, _, _ := startEngine(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	snap, err := e.Do(ctx, Command{Name: CommandReset})
	require.NoError(t, err)
	assert.Equal(t, 0, snap.SittingMinutes)

	_, err = e.Do(ctx, Command{Name: CommandTestReminder})
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return len(rec.kinds()) == 1 }, 2*time.Second, 10*time.Millisecond)

	_, err = e.Do(ctx, Command{Name: "nope"})
	assert.Error(t, err)
}

func TestEngineConfigUpdate(t *testing.T) {
	e, _, _, _, _ := startEngine(t)
	sub := e.Store().Subscribe()

	cfg := config.Default()
	cfg.Reminder.Interval = 60
	require.NoError(t, e.Submit(context.Background(), store.Update{
		Type:    store.UpdateConfig,
		Payload: ConfigChange{Config: cfg, Path: "/tmp/focus.toml"},
	}))

	seenReload := false
	timeout := time.After(2 * time.Second)
	for !seenReload {
		select {
		case u := <-sub:
			seenReload = u.Type == store.UpdateConfigReload
		case <-timeout:
			t.Fatal("no config_reload broadcast")
		}
	}
	assert.Eventually(t, func() bool { return e.Store().Get().ReminderInterval == 60 }, 2*time.Second, 10*time.Millisecond)
}

func TestEngineShutdownClosesSubscribers(t *testing.T) {
	e, _, _, cancel, done := startEngine(t)
	sub := e.Store().Subscribe()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop")
	}

	for range sub {
	}
}
