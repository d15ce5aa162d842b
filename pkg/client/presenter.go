package client

import "time"

// Presenter is the presentation/telemetry collaborator. The engine tells it
// about connection-state changes and measured lag; Poll asks it to perform
// its own application-level refresh and runs after every completed
// keepalive cycle.
//
// Presenter methods are called without the engine's lock held, but may be
// called from transport or timer goroutines; implementations that touch
// shared state must synchronize.
type Presenter interface {
	SetConnectionState(s ConnState)
	SetLag(lag time.Duration)
	Poll() error
}

// NopPresenter returns a Presenter that ignores everything. Useful for
// hosts that only want the metrics surface.
func NopPresenter() Presenter {
	return nopPresenter{}
}

type nopPresenter struct{}

func (nopPresenter) SetConnectionState(ConnState) {}
func (nopPresenter) SetLag(time.Duration)         {}
func (nopPresenter) Poll() error                  { return nil }
