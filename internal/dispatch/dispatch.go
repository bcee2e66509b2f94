// Package dispatch delivers reminder and waiting notifications to the
// desktop and brings the relevant terminal to the front.
package dispatch

import (
	"context"

	"github.com/google/uuid"
)

// Request kinds.
const (
	KindReminder = "reminder"
	KindWaiting  = "waiting"
	KindTest     = "test"
)

// Request is one notification and/or focus action.
// An empty Title means focus only.
type Request struct {
	ID               string `json:"id"`
	Kind             string `json:"kind"`
	Title            string `json:"title,omitempty"`
	Body             string `json:"body,omitempty"`
	TargetCwd        string `json:"target_cwd,omitempty"`
	TargetWindowHint string `json:"target_window_hint,omitempty"`
	// TargetPane is a tmux pane id such as "%3".
	TargetPane string `json:"target_pane,omitempty"`
	Sound      bool   `json:"sound"`
	Focus      bool   `json:"focus"`
}

// NewRequest creates a request of the given kind with a fresh id.
func NewRequest(kind, title, body string) Request {
	return Request{
		ID:    uuid.NewString(),
		Kind:  kind,
		Title: title,
		Body:  body,
	}
}

// Dispatcher delivers requests. Implementations must be safe for use from
// a single goroutine; the Queue serialises calls.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, req Request) error

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, req Request) error {
	return f(ctx, req)
}
