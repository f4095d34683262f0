package broadcast

import (
	"context"
	"sync/atomic"
	"time"

	"player-auction/internal/models"
	"player-auction/utils"
)

// Publisher delivers one event to a set of observers
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// Dispatcher decouples state transitions from observer delivery. Emit never
// blocks: when the queue is full the event is dropped and counted.
type Dispatcher struct {
	sinks   []Publisher
	queue   chan models.Event
	timeout time.Duration
	dropped atomic.Int64
	done    chan struct{}
}

// NewDispatcher creates a dispatcher with a queue of size buffered events
func NewDispatcher(size int, sinks ...Publisher) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	return &Dispatcher{
		sinks:   sinks,
		queue:   make(chan models.Event, size),
		timeout: 2 * time.Second,
		done:    make(chan struct{}),
	}
}

// Emit queues events for delivery
func (d *Dispatcher) Emit(events ...models.Event) {
	for _, e := range events {
		select {
		case d.queue <- e:
		default:
			n := d.dropped.Add(1)
			utils.Warn("event queue full, dropping event", map[string]any{
				"event":   e.Name,
				"dropped": n,
			})
		}
	}
}

// Dropped returns how many events were discarded because the queue was full
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Run delivers queued events until ctx is cancelled. Call it once, in its own goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-d.queue:
			d.deliver(ctx, e)
		}
	}
}

// Done is closed when Run returns
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) deliver(ctx context.Context, e models.Event) {
	if e.Name == models.EventAuditLog {
		utils.Info("auction log", map[string]any{"text": e.Text})
	}
	for _, sink := range d.sinks {
		sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
		if err := sink.Publish(sendCtx, e); err != nil {
			utils.Error("failed to publish event", map[string]any{
				"event": e.Name,
				"error": err.Error(),
			})
		}
		cancel()
	}
}
