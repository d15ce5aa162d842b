package client

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback. Stop cancels future firings;
// it does not interrupt a callback already running.
type Timer interface {
	Stop()
}

// Scheduler runs the engine's timers and reports wall-clock time. The
// system implementation uses the runtime's timers; tests substitute a fake
// driven by virtual time.
type Scheduler interface {
	// Every schedules fn to run repeatedly with period d.
	Every(d time.Duration, fn func()) Timer

	// After schedules fn to run once after d.
	After(d time.Duration, fn func()) Timer

	// Now returns the current wall-clock time.
	Now() time.Time
}

// SystemScheduler returns the Scheduler backed by the runtime's timers.
func SystemScheduler() Scheduler {
	return systemScheduler{}
}

type systemScheduler struct{}

func (systemScheduler) Every(d time.Duration, fn func()) Timer {
	t := &tickerTimer{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.ticker.C:
				fn()
			case <-t.done:
				return
			}
		}
	}()
	return t
}

func (systemScheduler) After(d time.Duration, fn func()) Timer {
	return &oneShotTimer{t: time.AfterFunc(d, fn)}
}

func (systemScheduler) Now() time.Time {
	return time.Now()
}

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

type oneShotTimer struct {
	t *time.Timer
}

func (t *oneShotTimer) Stop() {
	t.t.Stop()
}
