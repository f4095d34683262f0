package timerloop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type tickFunc func(ctx context.Context) error

func (f tickFunc) Tick(ctx context.Context) error { return f(ctx) }

func TestLoopKeepsTickingThroughFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	target := tickFunc(func(ctx context.Context) error {
		switch calls.Add(1) {
		case 1:
			return errors.New("store unavailable")
		case 2:
			panic("boom")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	loop := New(target, 5*time.Millisecond, 0)
	go loop.Run(ctx)

	require.Eventually(t, func() bool { return calls.Load() >= 4 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancel")
	}
}

func TestLoopBoundsEachTick(t *testing.T) {
	t.Parallel()

	deadlines := make(chan time.Duration, 1)
	target := tickFunc(func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		select {
		case deadlines <- time.Until(deadline):
		default:
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := New(target, 5*time.Millisecond, 50*time.Millisecond)
	go loop.Run(ctx)

	select {
	case left := <-deadlines:
		require.LessOrEqual(t, left, 50*time.Millisecond)
		require.Positive(t, left)
	case <-time.After(time.Second):
		t.Fatal("no tick observed")
	}
}

func TestStepRecoversPanic(t *testing.T) {
	t.Parallel()

	loop := New(tickFunc(func(context.Context) error { panic("bad state") }), time.Second, 0)
	err := loop.step(context.Background())
	require.ErrorContains(t, err, "bad state")
}
