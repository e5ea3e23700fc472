package timectrl

import (
	"context"
	"sync"
	"time"
)

// SimClock gives engine components read access to simulation time
// without depending on the concrete controller.
type SimClock interface {
	// Now returns the current simulation time.
	Now() time.Time
}

// Mode describes how the TimeController advances simulation time.
type Mode int

const (
	// RealTime wakes at wall-clock boundaries aligned to the turn length.
	RealTime Mode = iota
	// Accelerated advances as quickly as the loop can run while still
	// stepping by TurnLength.
	Accelerated
)

// TimeController drives the game's turn boundaries and notifies
// registered listeners. Between wake-ups it suspends entirely; the wait
// for the next boundary is its only suspension point.
//
// Listeners run synchronously, so a turn in flight always completes
// before the controller observes cancellation. Implements SimClock.
type TimeController struct {
	mu         sync.RWMutex
	StartTime  time.Time
	TurnLength time.Duration
	Mode       Mode

	currentTime time.Time

	listeners []func(time.Time)
}

// NewTimeController constructs a controller.
func NewTimeController(start time.Time, turn time.Duration, mode Mode) *TimeController {
	return &TimeController{
		StartTime:   start,
		TurnLength:  turn,
		Mode:        mode,
		currentTime: start,
	}
}

// Now returns the current simulation time. Implements SimClock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// SetTime overwrites the current simulation time, used when resuming a
// saved game.
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.currentTime = t
}

// AddListener registers a callback invoked at every turn boundary.
// Listeners must be registered before Start.
func (tc *TimeController) AddListener(fn func(time.Time)) {
	tc.listeners = append(tc.listeners, fn)
}

// Start runs the controller in a separate goroutine until the given
// simulation duration has elapsed (zero means unbounded) or ctx is
// cancelled. Cancellation is not an error: the turn in flight finishes
// and no further turns begin. The returned channel closes when the
// controller stops.
func (tc *TimeController) Start(ctx context.Context, duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		tc.mu.Lock()
		simTime := tc.currentTime
		tc.mu.Unlock()

		elapsed := time.Duration(0)

		ticker := time.NewTicker(tc.TurnLength)
		defer ticker.Stop()

		for {
			if duration > 0 && elapsed >= duration {
				return
			}

			if tc.Mode == RealTime {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			} else {
				select {
				case <-ctx.Done():
					return
				default:
				}
			}

			simTime = simTime.Add(tc.TurnLength)
			elapsed += tc.TurnLength

			tc.mu.Lock()
			tc.currentTime = simTime
			tc.mu.Unlock()

			for _, fn := range tc.listeners {
				fn(simTime)
			}
		}
	}()
	return done
}
