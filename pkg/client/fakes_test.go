package client

import (
	"context"
	"sync"
	"time"
)

// fakeScheduler drives the engine's timers with virtual time.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	s       *fakeScheduler
	at      time.Time
	period  time.Duration // 0 means one-shot
	fn      func()
	stopped bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Unix(1_000_000, 0)}
}

func (s *fakeScheduler) Every(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, at: s.now.Add(d), period: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) After(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, at: s.now.Add(d), fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (t *fakeTimer) Stop() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.stopped = true
}

// advance moves virtual time forward, firing due timers in order. Callbacks
// run without the scheduler lock held so they may schedule or stop timers.
func (s *fakeScheduler) advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *fakeTimer
		for _, t := range s.timers {
			if t.stopped || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		if next.period > 0 {
			next.at = next.at.Add(next.period)
		} else {
			next.stopped = true
		}
		fn := next.fn
		s.mu.Unlock()

		fn()
	}
}

// activeOneShots counts scheduled one-shot timers that have not fired or
// been stopped.
func (s *fakeScheduler) activeOneShots() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if t.period == 0 && !t.stopped {
			n++
		}
	}
	return n
}

// activeIntervals counts running repeating timers.
func (s *fakeScheduler) activeIntervals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if t.period > 0 && !t.stopped {
			n++
		}
	}
	return n
}

// fakeDialer records dial attempts and hands the Events hooks to the test,
// which plays the transport's role.
type fakeDialer struct {
	mu    sync.Mutex
	dials int
	ev    Events
}

func (d *fakeDialer) Dial(_ context.Context, ev Events) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	d.ev = ev
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func (d *fakeDialer) events() Events {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ev
}

// fakeChannel records transmitted frames.
type fakeChannel struct {
	mu      sync.Mutex
	sent    [][]byte
	closed  bool
	sendErr error
}

func (ch *fakeChannel) Send(data []byte) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.sendErr != nil {
		return ch.sendErr
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	ch.sent = append(ch.sent, buf)
	return nil
}

func (ch *fakeChannel) Close() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.closed = true
	return nil
}

func (ch *fakeChannel) sentFrames() [][]byte {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	out := make([][]byte, len(ch.sent))
	copy(out, ch.sent)
	return out
}

// recordingPresenter captures everything the engine reports.
type recordingPresenter struct {
	mu      sync.Mutex
	states  []ConnState
	lags    []time.Duration
	polls   int
	pollErr error
}

func (p *recordingPresenter) SetConnectionState(s ConnState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, s)
}

func (p *recordingPresenter) SetLag(lag time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lags = append(p.lags, lag)
}

func (p *recordingPresenter) Poll() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.polls++
	return p.pollErr
}

func (p *recordingPresenter) lastState() (ConnState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.states) == 0 {
		return 0, false
	}
	return p.states[len(p.states)-1], true
}

func (p *recordingPresenter) lastLag() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.lags) == 0 {
		return 0, false
	}
	return p.lags[len(p.lags)-1], true
}

func (p *recordingPresenter) pollCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.polls
}
