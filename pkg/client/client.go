package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mattnite/groovebasin/pkg/protocol"
)

// Client owns the connect/backoff lifecycle and is the only component that
// talks to the transport. Create one with New, start it with Open, and it
// keeps itself connected until the process exits, a protocol violation
// halts it, or Close is called.
type Client struct {
	cfg    Config
	dialer Dialer
	pres   Presenter
	logger *slog.Logger
	reg    *registry
	push   *pushDispatcher

	mu         sync.Mutex
	ctx        context.Context
	state      State
	gen        uint64
	channel    Channel
	pingTimer  Timer
	retryTimer Timer
	halted     bool
}

// New creates a client. pres may be nil, in which case a no-op presenter
// is used. cfg may be nil for defaults.
func New(dialer Dialer, pres Presenter, cfg *Config) *Client {
	if pres == nil {
		pres = NopPresenter()
	}
	c := &Client{
		cfg:    cfg.withDefaults(),
		dialer: dialer,
		pres:   pres,
		reg:    newRegistry(),
		state:  StateIdle,
	}
	c.logger = c.cfg.Logger.With("component", "client")
	c.push = newPushDispatcher(c)
	return c
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// PendingCalls reports the number of in-flight calls. Calls stranded by a
// dropped connection stay in this count forever; see the package comment.
func (c *Client) PendingCalls() int {
	return c.reg.size()
}

// Open starts a connection attempt. The precondition is an idle client:
// opening while connecting, connected, or backing off returns ErrNotIdle,
// and a halted client returns ErrHalted. ctx is retained and governs this
// attempt and every automatic retry that follows it.
func (c *Client) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.halted {
		c.mu.Unlock()
		return ErrHalted
	}
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrNotIdle
	}
	c.state = StateConnecting
	c.ctx = ctx
	c.gen++
	ev := &connEvents{c: c, gen: c.gen}
	c.mu.Unlock()

	c.logger.Info("connecting")
	c.dialer.Dial(ctx, ev)
	return nil
}

// Close shuts the client down from the host side: timers stop, the channel
// closes, and no retry is scheduled. Pending calls are left in place, same
// as any other disconnect.
func (c *Client) Close() error {
	c.mu.Lock()
	c.gen++ // Invalidate callbacks from the outgoing channel
	ch := c.channel
	c.channel = nil
	c.state = StateIdle
	c.stopTimersLocked()
	c.mu.Unlock()

	c.cfg.Metrics.setConnected(false)
	if ch != nil {
		return ch.Close()
	}
	return nil
}

// NewRequest allocates a request frame with a freshly generated
// correlation id and the fixed header already written.
func (c *Client) NewRequest(op protocol.Opcode) *protocol.Request {
	return protocol.NewRequest(c.reg.generate(), op)
}

// Send registers handler under the frame's id, then transmits the complete
// buffer. The frame is owned by the call until transmitted and must not be
// reused. handler may be nil for calls whose response carries nothing.
//
// Send never completes a call synchronously: the handler runs when (and
// only when) the matching response frame arrives. A transmission failure
// is returned to the caller with the registration backed out; the caller
// decides whether to retry or drop the call.
func (c *Client) Send(req *protocol.Request, handler ResponseHandler) error {
	c.mu.Lock()
	ch := c.channel
	connected := c.state == StateConnected
	c.mu.Unlock()

	if !connected || ch == nil {
		return ErrNotConnected
	}

	handler = c.traceCall(req, handler)

	if err := c.reg.register(req.Seq(), handler); err != nil {
		// Id space exhausted faster than responses arrive.
		c.fail(&ProtocolError{Op: "send", Err: err})
		return err
	}

	if err := ch.Send(req.Bytes()); err != nil {
		c.reg.drop(req.Seq())
		return err
	}

	c.cfg.Metrics.recordFrameSent()
	c.cfg.Metrics.setPendingCalls(c.reg.size())
	return nil
}

// Call builds and sends a request in one step.
func (c *Client) Call(op protocol.Opcode, payload []byte, handler ResponseHandler) error {
	req := c.NewRequest(op)
	req.Encoder().WriteBytes(payload)
	return c.Send(req, handler)
}

// HandlePush registers a handler for a push subtype. Registration is not
// synchronized with delivery: register handlers before calling Open.
func (c *Client) HandlePush(pt protocol.PushType, h PushHandler) {
	c.push.handle(pt, h)
}

// handleOpen runs when the transport reports an established channel.
func (c *Client) handleOpen(gen uint64, ch Channel) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateConnecting {
		c.mu.Unlock()
		ch.Close()
		return
	}
	c.state = StateConnected
	c.channel = ch
	c.pingTimer = c.cfg.Scheduler.Every(c.cfg.KeepaliveInterval, c.keepaliveTick)
	c.mu.Unlock()

	c.logger.Info("connected")
	c.cfg.Metrics.setConnected(true)
	c.pres.SetConnectionState(ConnReady)

	// One immediate exchange so the host gets a lag sample right away.
	if err := c.sendPing(); err != nil {
		c.logger.Debug("initial keepalive failed", "error", err)
	}
}

// handleLost runs on transport close or error events. While already in
// Backoff it is a no-op, so a close event chasing an error event schedules
// exactly one retry.
func (c *Client) handleLost(gen uint64, cause error) {
	c.mu.Lock()
	if gen != c.gen || c.halted || c.state == StateBackoff {
		c.mu.Unlock()
		return
	}
	c.state = StateBackoff
	c.channel = nil
	if c.pingTimer != nil {
		c.pingTimer.Stop()
		c.pingTimer = nil
	}
	c.retryTimer = c.cfg.Scheduler.After(c.cfg.RetryDelay, c.retry)
	c.mu.Unlock()

	if cause != nil {
		c.logger.Warn("connection lost", "error", cause)
	} else {
		c.logger.Info("connection closed")
	}
	c.cfg.Metrics.setConnected(false)
	c.pres.SetConnectionState(ConnDisconnected)
}

// retry fires after the backoff delay. If a later event already moved the
// state machine, this timer is stale and ignored. The Backoff → Connecting
// transition happens in one critical section: releasing the lock with the
// client momentarily Idle would let a concurrent Close slip in between and
// the dial below would then revive a client the host just shut down.
func (c *Client) retry() {
	c.mu.Lock()
	if c.state != StateBackoff {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.retryTimer = nil
	c.gen++
	ev := &connEvents{c: c, gen: c.gen}
	ctx := c.ctx
	c.mu.Unlock()

	c.cfg.Metrics.recordReconnect()
	c.logger.Info("connecting")
	c.dialer.Dial(ctx, ev)
}

// handleMessage decodes one inbound frame and routes it: responses resolve
// the registry, pushes go to the dispatcher. Framing corruption and
// unknown correlation ids halt the client.
func (c *Client) handleMessage(gen uint64, data []byte) {
	c.mu.Lock()
	live := gen == c.gen && c.state == StateConnected
	c.mu.Unlock()
	if !live {
		return
	}

	seq, payload, err := protocol.DecodeServerHeader(data)
	if err != nil {
		c.fail(&ProtocolError{Op: "decode", Err: err})
		return
	}
	c.cfg.Metrics.recordFrameReceived()

	if protocol.IsPush(seq) {
		c.push.dispatch(payload)
		return
	}

	handler, err := c.reg.resolve(seq)
	if err != nil {
		c.fail(&ProtocolError{Op: "resolve", Err: err})
		return
	}
	c.cfg.Metrics.setPendingCalls(c.reg.size())

	if handler != nil {
		handler(payload)
	}
}

// fail permanently halts the client after a protocol violation. There is
// no resynchronization path by design: the wire format has no recovery
// point, so corruption means the stream cannot be trusted again.
func (c *Client) fail(err error) {
	c.mu.Lock()
	if c.halted {
		c.mu.Unlock()
		return
	}
	c.halted = true
	c.gen++
	ch := c.channel
	c.channel = nil
	c.state = StateIdle
	c.stopTimersLocked()
	c.mu.Unlock()

	c.logger.Error("protocol violation, halting", "error", err)
	c.cfg.Metrics.recordProtocolError()
	c.cfg.Metrics.setConnected(false)
	if ch != nil {
		ch.Close()
	}
	c.pres.SetConnectionState(ConnDisconnected)
	if c.cfg.OnFatal != nil {
		c.cfg.OnFatal(err)
	}
}

func (c *Client) stopTimersLocked() {
	if c.pingTimer != nil {
		c.pingTimer.Stop()
		c.pingTimer = nil
	}
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}
