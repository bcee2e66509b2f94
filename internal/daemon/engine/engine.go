// Package engine runs the daemon's single-writer event loop.
//
// Collectors, ingress connections, API commands and the config watcher all
// hand store.Update values to one channel; a single goroutine applies them
// to the Core and publishes the resulting snapshot.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/internal/daemon/collector"
	"github.com/grovetools/focusguard/internal/daemon/presence"
	"github.com/grovetools/focusguard/internal/daemon/session"
	"github.com/grovetools/focusguard/internal/daemon/store"
	"github.com/grovetools/focusguard/internal/dispatch"
	"github.com/grovetools/focusguard/pkg/process"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MessageSource produces decoded hook messages until ctx is cancelled.
type MessageSource interface {
	Receive(ctx context.Context) <-chan session.Message
}

// Engine manages the collectors and the update loop.
type Engine struct {
	store      *store.Store
	core       *Core
	collectors []collector.Collector
	ingress    MessageSource
	dispatcher *dispatch.Queue
	updates    chan store.Update
	cfg        atomic.Pointer[config.Config]
	now        func() time.Time
	logger     *logrus.Entry
}

// New creates a new Engine instance.
func New(st *store.Store, core *Core, logger *logrus.Entry) *Engine {
	e := &Engine{
		store:   st,
		core:    core,
		updates: make(chan store.Update, 100),
		now:     time.Now,
		logger:  logger,
	}
	e.cfg.Store(core.Config())
	st.Publish(core.Snapshot(), nil)
	return e
}

// Register adds a collector to the engine.
func (e *Engine) Register(c collector.Collector) {
	e.collectors = append(e.collectors, c)
}

// SetIngress sets the source of hook messages.
func (e *Engine) SetIngress(src MessageSource) {
	e.ingress = src
}

// SetDispatcher sets the queue that delivers notifications.
func (e *Engine) SetDispatcher(q *dispatch.Queue) {
	e.dispatcher = q
}

// Store returns the engine's state store.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Config returns the configuration the engine is currently running with.
// Safe to call from any goroutine; the returned value must not be modified.
func (e *Engine) Config() *config.Config {
	return e.cfg.Load()
}

// Submit hands an update to the engine. It blocks while the queue is full.
func (e *Engine) Submit(ctx context.Context, u store.Update) error {
	if u.At.IsZero() {
		u.At = e.now()
	}
	select {
	case e.updates <- u:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs a command on the engine goroutine and waits for its result.
func (e *Engine) Do(ctx context.Context, cmd Command) (store.Snapshot, error) {
	cmd.reply = make(chan CommandResult, 1)
	if err := e.Submit(ctx, store.Update{Type: store.UpdateCommand, Source: "api", Payload: cmd}); err != nil {
		return store.Snapshot{}, err
	}
	select {
	case res := <-cmd.reply:
		return res.Snapshot, res.Err
	case <-ctx.Done():
		return store.Snapshot{}, ctx.Err()
	}
}

// Start runs all collectors, the ingress pump, the dispatcher and the
// update loop, and blocks until ctx is cancelled. Updates already queued
// when ctx is cancelled are still applied.
func (e *Engine) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, c := range e.collectors {
		col := c
		g.Go(func() error {
			e.logger.WithField("collector", col.Name()).Info("Starting collector")
			if err := col.Run(gctx, e.store, e.updates); err != nil {
				e.logger.WithField("collector", col.Name()).WithError(err).Error("Collector failed")
				return fmt.Errorf("collector %s: %w", col.Name(), err)
			}
			return nil
		})
	}

	if e.ingress != nil {
		g.Go(func() error {
			for msg := range e.ingress.Receive(gctx) {
				if err := e.Submit(gctx, store.Update{Type: store.UpdateMessage, Source: "ingress", At: msg.ReceivedAt, Payload: msg}); err != nil {
					return nil
				}
			}
			return nil
		})
	}

	if e.dispatcher != nil {
		g.Go(func() error {
			return e.dispatcher.Run(gctx)
		})
	}

	g.Go(func() error {
		for {
			select {
			case u := <-e.updates:
				e.Apply(u)
			case <-gctx.Done():
				e.drain()
				return nil
			}
		}
	})

	err := g.Wait()
	e.store.Close()
	return err
}

func (e *Engine) drain() {
	for {
		select {
		case u := <-e.updates:
			e.Apply(u)
		default:
			return
		}
	}
}

// Apply handles one update synchronously. Only the update loop calls it
// outside of tests.
func (e *Engine) Apply(u store.Update) {
	at := u.At
	if at.IsZero() {
		at = e.now()
	}

	var eff Effects
	switch u.Type {
	case store.UpdateMessage:
		msg, ok := u.Payload.(session.Message)
		if !ok {
			e.badPayload(u)
			return
		}
		eff = e.core.HandleMessage(msg)

	case store.UpdatePresenceSample:
		s, ok := u.Payload.(presence.Sample)
		if !ok {
			e.badPayload(u)
			return
		}
		eff = e.core.HandlePresence(s)

	case store.UpdateTick:
		eff = e.core.HandleTick(at)

	case store.UpdateProcesses:
		obs, ok := u.Payload.([]process.Observation)
		if !ok {
			e.badPayload(u)
			return
		}
		eff = e.core.HandleProcesses(at, obs)

	case store.UpdateConfig:
		change, ok := u.Payload.(ConfigChange)
		if !ok || change.Config == nil {
			e.badPayload(u)
			return
		}
		eff = e.core.HandleConfig(at, change.Config)
		e.logger.WithField("path", change.Path).Info("Configuration reloaded")
		e.store.BroadcastConfigReload(change.Path)

	case store.UpdateCommand:
		cmd, ok := u.Payload.(Command)
		if !ok {
			e.badPayload(u)
			return
		}
		var err error
		eff, err = e.core.HandleCommand(at, cmd)
		if err != nil {
			e.logger.WithField("command", cmd.Name).WithError(err).Warn("Command failed")
		}
		e.publish(eff)
		if cmd.reply != nil {
			cmd.reply <- CommandResult{Snapshot: e.store.Get(), Err: err}
		}
		return

	default:
		e.logger.WithField("type", u.Type).Warn("Ignoring unknown update type")
		return
	}

	e.publish(eff)
}

func (e *Engine) publish(eff Effects) {
	e.cfg.Store(e.core.Config())
	e.store.Publish(e.core.Snapshot(), eff.Changed)
	for _, req := range eff.Dispatch {
		if e.dispatcher == nil {
			e.logger.WithField("kind", req.Kind).Debug("No dispatcher configured, dropping request")
			continue
		}
		e.dispatcher.Enqueue(req)
	}
}

func (e *Engine) badPayload(u store.Update) {
	e.logger.WithError(errors.New(errors.ErrCodeInternal, fmt.Sprintf("unexpected payload %T", u.Payload))).
		WithField("type", u.Type).Error("Dropping update")
}
