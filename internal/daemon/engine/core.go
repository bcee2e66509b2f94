package engine

import (
	"fmt"
	"reflect"
	"time"

	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/internal/daemon/presence"
	"github.com/grovetools/focusguard/internal/daemon/reminder"
	"github.com/grovetools/focusguard/internal/daemon/session"
	"github.com/grovetools/focusguard/internal/daemon/sitting"
	"github.com/grovetools/focusguard/internal/daemon/store"
	"github.com/grovetools/focusguard/internal/dispatch"
	"github.com/grovetools/focusguard/pkg/process"
	"github.com/sirupsen/logrus"
)

// Effects are the observable results of handling one input.
type Effects struct {
	Dispatch []dispatch.Request
	Changed  []store.UpdateType
}

func (e *Effects) mark(t store.UpdateType) {
	for _, existing := range e.Changed {
		if existing == t {
			return
		}
	}
	e.Changed = append(e.Changed, t)
}

// Core is the daemon's state: session registry, presence, sitting time and
// reminder policy. Every method takes the current time explicitly and must
// be called from a single goroutine.
type Core struct {
	cfg       *config.Config
	registry  *session.Registry
	tracker   *presence.Tracker
	sitting   sitting.Accumulator
	policy    *reminder.Policy
	texts     *dispatch.Texts
	processes []process.Observation
	sampled   bool

	lastAggregate string
	lastViews     []session.View
	updatedAt     time.Time
	logger        *logrus.Entry
}

// NewCore creates a core with an empty registry; the user starts present.
func NewCore(cfg *config.Config, start time.Time, logger *logrus.Entry) *Core {
	return &Core{
		cfg:           cfg,
		registry:      session.NewRegistry(session.OptionsFromConfig(cfg.Sessions)),
		tracker:       presence.NewTracker(cfg.Presence.QuietWindow, start),
		policy:        reminder.NewPolicy(reminder.SettingsFromConfig(cfg.Reminder)),
		texts:         dispatch.NewTexts(cfg.Notify.Language),
		lastAggregate: session.StatusOffline,
		updatedAt:     start,
		logger:        logger,
	}
}

// Config returns the active configuration.
func (c *Core) Config() *config.Config {
	return c.cfg
}

// HandleMessage applies one hook event.
func (c *Core) HandleMessage(msg session.Message) Effects {
	var eff Effects
	now := msg.ReceivedAt

	out, err := c.registry.Apply(msg)
	fields := logrus.Fields{"receipt": msg.ReceiptID, "key": msg.Key(), "event": msg.Event}
	switch {
	case err != nil:
		c.logger.WithFields(fields).WithError(err).Warn("Dropping hook message")
		return eff
	case out.Rejected:
		c.logger.WithFields(fields).Debug("Ignoring event for ended session")
		return eff
	}

	c.logger.WithFields(fields).WithFields(logrus.Fields{
		"state":   out.Session.State,
		"created": out.Created,
	}).Debug("Session transition")

	eff.mark(store.UpdateSessions)
	c.settle(now, &eff)
	return eff
}

// HandlePresence folds one activity sample into the presence tracker.
func (c *Core) HandlePresence(s presence.Sample) Effects {
	var eff Effects
	if c.tracker.Observe(s) {
		c.logger.WithField("present", c.tracker.Present()).Info("Presence changed")
		eff.mark(store.UpdatePresence)
	}
	c.settle(s.At, &eff)
	return eff
}

// HandleTick advances sitting time by one unit.
func (c *Core) HandleTick(now time.Time) Effects {
	var eff Effects
	if c.sitting.Tick(c.tracker.Present()) {
		eff.mark(store.UpdateSitting)
	}
	c.settle(now, &eff)
	return eff
}

// HandleProcesses records the latest process observations.
func (c *Core) HandleProcesses(now time.Time, obs []process.Observation) Effects {
	var eff Effects
	c.processes = obs
	c.sampled = true
	c.settle(now, &eff)
	return eff
}

// HandleCommand applies a client command.
func (c *Core) HandleCommand(now time.Time, cmd Command) (Effects, error) {
	var eff Effects
	switch cmd.Name {
	case CommandReset:
		c.sitting.Reset()
		c.policy.CancelPending()
		c.logger.Info("Sitting time reset by user")
		eff.mark(store.UpdateSitting)

	case CommandTestReminder:
		req := dispatch.NewRequest(dispatch.KindTest, c.texts.TestTitle(), c.texts.TestBody(c.sitting.Minutes))
		req.Sound = c.cfg.Notify.SoundOnWaiting
		eff.Dispatch = append(eff.Dispatch, req)
		return eff, nil

	case CommandSettings:
		if cmd.Settings == nil {
			return eff, errors.New(errors.ErrCodeInvalidInput, "settings command without settings")
		}
		next := cmd.Settings.Apply(c.cfg)
		if err := next.Validate(); err != nil {
			return eff, err
		}
		return c.HandleConfig(now, next), nil

	default:
		return eff, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown command %q", cmd.Name))
	}

	c.settle(now, &eff)
	return eff, nil
}

// HandleConfig switches to a new configuration.
func (c *Core) HandleConfig(now time.Time, cfg *config.Config) Effects {
	var eff Effects
	c.cfg = cfg
	c.registry.SetOptions(session.OptionsFromConfig(cfg.Sessions))
	c.tracker.SetQuietWindow(cfg.Presence.QuietWindow)
	c.policy.SetSettings(reminder.SettingsFromConfig(cfg.Reminder))
	c.texts = dispatch.NewTexts(cfg.Notify.Language)

	eff.mark(store.UpdateSitting)
	eff.mark(store.UpdateSessions)
	c.settle(now, &eff)
	return eff
}

// settle runs the time-driven rules after every input: break confirmation,
// reaping, the reminder policy and the waiting alert.
func (c *Core) settle(now time.Time, eff *Effects) {
	if now.After(c.updatedAt) {
		c.updatedAt = now
	}

	st := c.policy.State()
	if sitting.RestConfirmed(now, st.LastFiredAt, c.tracker.LastActivity(), c.tracker.Present(), c.cfg.Presence.RestConfirm) {
		c.logger.WithField("minutes", c.sitting.Minutes).Info("Break confirmed, resetting sitting time")
		c.sitting.Reset()
		c.policy.Clear()
		eff.mark(store.UpdateSitting)
	}

	if c.registry.Reap(now, c.aliveFunc()) {
		eff.mark(store.UpdateSessions)
	}

	waiting, anyWaiting := c.registry.MostRecentWaiting()
	d := c.policy.Evaluate(now, c.sitting.Minutes, waiting, anyWaiting)
	if d.BecamePending {
		c.logger.WithField("minutes", d.Minutes).Info("Break reminder due")
		eff.mark(store.UpdateSitting)
	}
	if d.Fire {
		eff.Dispatch = append(eff.Dispatch, c.reminderRequest(d))
		c.logger.WithFields(logrus.Fields{"reason": d.Reason, "minutes": d.Minutes}).Info("Break reminder fired")
		eff.mark(store.UpdateSitting)
	}

	views := c.views(now)
	if !reflect.DeepEqual(views, c.lastViews) {
		c.lastViews = views
		eff.mark(store.UpdateSessions)
	}

	agg := c.registry.Aggregate(now)
	if agg != c.lastAggregate {
		if agg == session.StatusWaiting && anyWaiting {
			if req, ok := c.waitingAlert(waiting, d.Fire); ok {
				eff.Dispatch = append(eff.Dispatch, req)
			}
		}
		c.lastAggregate = agg
		eff.mark(store.UpdateSessions)
	}
}

func (c *Core) aliveFunc() func(session.Session) bool {
	if !c.sampled {
		return nil
	}
	obs := c.processes
	return func(s session.Session) bool {
		return process.Alive(obs, string(s.Tool), s.Cwd, s.PID)
	}
}

func (c *Core) reminderRequest(d reminder.Decision) dispatch.Request {
	rest := int(c.cfg.Presence.RestConfirm / time.Minute)
	if rest < 1 {
		rest = 1
	}
	req := dispatch.NewRequest(dispatch.KindReminder, c.texts.ReminderTitle(), c.texts.ReminderBody(d.Minutes, rest))
	req.Sound = c.cfg.Notify.SoundOnWaiting
	if d.HasTarget {
		req.TargetCwd = d.Target.Cwd
		req.TargetWindowHint = c.hostHint(d.Target)
		req.TargetPane = d.Target.TmuxPane
	}
	return req
}

// waitingAlert builds the alert for the aggregate turning to waiting. When
// a reminder fired in the same step only the focus part is kept.
func (c *Core) waitingAlert(target session.Session, reminderFired bool) (dispatch.Request, bool) {
	sound, focus := c.cfg.Notify.SoundOnWaiting, c.cfg.Notify.AutoFocus
	if !sound && !focus {
		return dispatch.Request{}, false
	}

	req := dispatch.NewRequest(dispatch.KindWaiting, "", "")
	if sound && !reminderFired {
		req.Title = c.texts.WaitingTitle()
		req.Body = c.texts.WaitingBody(target.Name())
		req.Sound = true
	}
	req.Focus = focus
	req.TargetCwd = target.Cwd
	req.TargetWindowHint = c.hostHint(target)
	req.TargetPane = target.TmuxPane
	if req.Title == "" && !req.Focus {
		return dispatch.Request{}, false
	}
	return req, true
}

// hostHint finds the terminal hosting a session from the process sample.
func (c *Core) hostHint(s session.Session) string {
	for _, o := range c.processes {
		if s.PID > 0 && o.PID == s.PID {
			return o.HostHint
		}
	}
	for _, o := range c.processes {
		if o.Tool == string(s.Tool) && (s.Cwd == "" || o.Cwd == s.Cwd) {
			return o.HostHint
		}
	}
	return ""
}

// views lists hook sessions followed by processes with no hook session.
func (c *Core) views(now time.Time) []session.View {
	views := c.registry.Views(now)
	live := c.registry.List()

	for _, o := range c.processes {
		tool := session.Tool(o.Tool)
		if covered(live, tool, o) {
			continue
		}
		views = append(views, session.View{
			Key:    fmt.Sprintf("process:%d", o.PID),
			Tool:   tool,
			Name:   session.DisplayName(tool, o.Cwd),
			Status: session.StatusDetected,
			Cwd:    o.Cwd,
			PID:    o.PID,
		})
	}
	return views
}

func covered(sessions []session.Session, tool session.Tool, o process.Observation) bool {
	for _, s := range sessions {
		if s.State == session.StateEnded {
			continue
		}
		if s.PID > 0 && s.PID == o.PID {
			return true
		}
		if s.Tool == tool && (s.Cwd == "" || o.Cwd == "" || s.Cwd == o.Cwd) {
			return true
		}
	}
	return false
}

// Snapshot renders the read-only view published to clients.
func (c *Core) Snapshot() store.Snapshot {
	st := c.policy.State()
	views := c.lastViews
	if views == nil {
		views = []session.View{}
	}
	snap := store.Snapshot{
		Sessions:         views,
		SittingMinutes:   c.sitting.Minutes,
		UserPresent:      c.tracker.Present(),
		Aggregate:        c.lastAggregate,
		ReminderPending:  st.Pending,
		ReminderEnabled:  c.cfg.Reminder.Enabled,
		ReminderInterval: c.cfg.Reminder.Interval,
		Language:         c.cfg.Notify.Language,
		UpdatedAt:        c.updatedAt,
	}
	if !st.LastFiredAt.IsZero() {
		t := st.LastFiredAt
		snap.LastReminderAt = &t
	}
	return snap
}
