package dispatch

import (
	"context"

	"github.com/gen2brain/beeep"
	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/logging"
	"github.com/grovetools/focusguard/pkg/tmux"
)

var log = logging.NewLogger("dispatch")

// Focuser raises a window belonging to the given host application.
type Focuser interface {
	Focus(ctx context.Context, hostHint string) error
}

// PaneFocuser selects a terminal multiplexer pane.
type PaneFocuser interface {
	FocusPane(ctx context.Context, paneID string) error
}

// Desktop posts notifications with beeep and raises windows with the
// platform focuser. CLIs running in tmux also get their pane selected.
type Desktop struct {
	notify  func(title, body string, sound bool) error
	focuser Focuser
	panes   PaneFocuser
}

// NewDesktop creates the dispatcher used by the daemon.
func NewDesktop() *Desktop {
	beeep.AppName = "Focus Guard"
	d := &Desktop{
		notify:  beeepNotify,
		focuser: newPlatformFocuser(),
	}
	if client, err := tmux.NewClient(); err == nil {
		d.panes = client
	}
	return d
}

func beeepNotify(title, body string, sound bool) error {
	if sound {
		return beeep.Alert(title, body, "")
	}
	return beeep.Notify(title, body, "")
}

// Dispatch posts the notification (if any) and then focuses the target.
// The first failure is returned after both steps were attempted.
func (d *Desktop) Dispatch(ctx context.Context, req Request) error {
	var firstErr error

	if req.Title != "" {
		if err := d.notify(req.Title, req.Body, req.Sound); err != nil {
			firstErr = errors.DispatchFailed("notify", err).WithDetail("request", req.ID)
		}
	}

	if req.Focus && req.TargetPane != "" && d.panes != nil {
		if err := d.panes.FocusPane(ctx, req.TargetPane); err != nil {
			log.WithError(err).WithField("pane", req.TargetPane).Debug("Pane focus failed")
		}
	}

	if req.Focus && d.focuser != nil {
		if err := d.focuser.Focus(ctx, req.TargetWindowHint); err != nil {
			log.WithError(err).WithField("hint", req.TargetWindowHint).Debug("Focus failed")
			if firstErr == nil {
				firstErr = errors.DispatchFailed("focus", err).WithDetail("request", req.ID)
			}
		}
	}

	return firstErr
}
