package enrollment

import (
	"fmt"
	"sync"
	"time"

	"player-auction/internal/biddingerrors"
)

// Window is the self-enrollment period during which new items may be added to
// the catalog. The zero value is a closed window.
type Window struct {
	mu       sync.Mutex
	deadline *time.Time
}

// Status is what a tick observed about the window
type Status int

const (
	Closed Status = iota
	Open
	JustClosed // the deadline passed on this tick
)

// Open starts a window lasting d from now
func (w *Window) Open(now time.Time, d time.Duration) (time.Time, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.deadline != nil && now.Before(*w.deadline) {
		return time.Time{}, fmt.Errorf("enrollment: %w - closes at %s", biddingerrors.ErrEnrollmentOpen, w.deadline.Format(time.RFC3339))
	}
	deadline := now.Add(d)
	w.deadline = &deadline
	return deadline, nil
}

// IsOpen reports whether self-enrollment is currently accepted
func (w *Window) IsOpen(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.deadline != nil && now.Before(*w.deadline)
}

// Deadline returns the closing time of the open window
func (w *Window) Deadline() (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.deadline == nil {
		return time.Time{}, false
	}
	return *w.deadline, true
}

// Tick reports the window state at now and the time remaining. An elapsed
// window is closed here and reported as JustClosed exactly once.
func (w *Window) Tick(now time.Time) (Status, time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.deadline == nil {
		return Closed, 0
	}
	left := w.deadline.Sub(now)
	if left <= 0 {
		w.deadline = nil
		return JustClosed, 0
	}
	return Open, left
}
