package client

import (
	"sync"

	"github.com/mattnite/groovebasin/pkg/protocol"
)

// PushHandler consumes the payload of an unsolicited server frame.
type PushHandler func(payload []byte)

// pushDispatcher routes push frames by subtype. Pushes never touch the
// request registry: their correlation field carries the reserved bit, not
// an id.
type pushDispatcher struct {
	c *Client

	mu       sync.RWMutex
	handlers map[protocol.PushType]PushHandler
}

func newPushDispatcher(c *Client) *pushDispatcher {
	return &pushDispatcher{
		c:        c,
		handlers: make(map[protocol.PushType]PushHandler),
	}
}

func (p *pushDispatcher) handle(pt protocol.PushType, h PushHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[pt] = h
}

// dispatch decodes the subtype discriminator and invokes the registered
// handler. Every push, handled or not, then triggers a fresh keepalive
// ping-and-poll cycle: pushes tell the client that server state moved, and
// the poll that follows the ping is how the host refreshes.
func (p *pushDispatcher) dispatch(body []byte) {
	pt, payload, err := protocol.DecodePush(body)
	if err != nil {
		p.c.fail(&ProtocolError{Op: "push", Err: err})
		return
	}
	p.c.cfg.Metrics.recordPush()

	p.mu.RLock()
	h := p.handlers[pt]
	p.mu.RUnlock()

	if h != nil {
		h(payload)
	} else {
		p.c.logger.Debug("unhandled push", "type", pt)
	}

	if err := p.c.sendPing(); err != nil {
		p.c.logger.Debug("post-push keepalive failed", "error", err)
	}
}
