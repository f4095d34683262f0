package timerloop

import (
	"context"
	"fmt"
	"time"

	"player-auction/utils"
)

// Ticker advances time-driven state once per call
type Ticker interface {
	Tick(ctx context.Context) error
}

// Loop calls Ticker.Tick on a fixed interval until its context is cancelled.
// A failed or panicking tick is logged and retried on the next interval.
type Loop struct {
	target   Ticker
	interval time.Duration
	timeout  time.Duration
	done     chan struct{}
}

// New creates a Loop. Each tick gets at most timeout to finish; zero means interval.
func New(target Ticker, interval, timeout time.Duration) *Loop {
	if timeout <= 0 {
		timeout = interval
	}
	return &Loop{
		target:   target,
		interval: interval,
		timeout:  timeout,
		done:     make(chan struct{}),
	}
}

// Run blocks until ctx is done
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	utils.Info("timer loop started", map[string]any{"interval": l.interval.String()})
	for {
		select {
		case <-ctx.Done():
			utils.Info("timer loop stopped", nil)
			return
		case <-ticker.C:
			if err := l.step(ctx); err != nil {
				utils.Error("tick failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// Done is closed once Run has returned
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) step(ctx context.Context) (err error) {
	tickCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("timerloop: tick panicked: %v", r)
		}
	}()
	return l.target.Tick(tickCtx)
}
