package dispatch

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultQueueSize bounds the number of undelivered requests.
const DefaultQueueSize = 16

// Queue delivers requests on its own goroutine so the engine never blocks
// on notification I/O. When the queue is full new requests are dropped.
type Queue struct {
	d   Dispatcher
	ch  chan Request
	log *logrus.Entry

	closeOnce sync.Once
}

// NewQueue wraps d with a bounded queue.
func NewQueue(d Dispatcher, size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		d:   d,
		ch:  make(chan Request, size),
		log: log,
	}
}

// Enqueue schedules req for delivery. It reports false if the queue is full.
func (q *Queue) Enqueue(req Request) bool {
	select {
	case q.ch <- req:
		return true
	default:
		q.log.WithFields(logrus.Fields{"id": req.ID, "kind": req.Kind}).Warn("Dispatch queue full, dropping request")
		return false
	}
}

// Run delivers requests until ctx is cancelled, then drains what is left.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case req := <-q.ch:
			q.deliver(ctx, req)
		case <-ctx.Done():
			for {
				select {
				case req := <-q.ch:
					q.deliver(context.Background(), req)
				default:
					return nil
				}
			}
		}
	}
}

func (q *Queue) deliver(ctx context.Context, req Request) {
	fields := logrus.Fields{"id": req.ID, "kind": req.Kind, "focus": req.Focus}
	if err := q.d.Dispatch(ctx, req); err != nil {
		q.log.WithFields(fields).WithError(err).Warn("Dispatch failed")
		return
	}
	q.log.WithFields(fields).Debug("Dispatched")
}
