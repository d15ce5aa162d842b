package client

import "context"

// Channel is one established duplex byte-message stream. Send transmits a
// complete frame; partial writes are the transport's problem, never the
// engine's.
type Channel interface {
	Send(data []byte) error
	Close() error
}

// Events receives transport lifecycle callbacks. Exactly one of OnOpen or
// OnError concludes a dial attempt; OnClose and OnError after OnOpen report
// loss of an established channel. OnMessage delivers one complete inbound
// frame. Callbacks may arrive on any goroutine.
type Events interface {
	OnOpen(ch Channel)
	OnClose()
	OnError(err error)
	OnMessage(data []byte)
}

// Dialer opens duplex channels. Dial must not block: it starts the attempt
// and reports the outcome through ev.
type Dialer interface {
	Dial(ctx context.Context, ev Events)
}

// connEvents binds transport callbacks to one connection generation so
// that events from an abandoned channel cannot disturb its successor.
type connEvents struct {
	c   *Client
	gen uint64
}

func (e *connEvents) OnOpen(ch Channel)     { e.c.handleOpen(e.gen, ch) }
func (e *connEvents) OnClose()              { e.c.handleLost(e.gen, nil) }
func (e *connEvents) OnError(err error)     { e.c.handleLost(e.gen, err) }
func (e *connEvents) OnMessage(data []byte) { e.c.handleMessage(e.gen, data) }
