package client

import (
	"time"

	"github.com/mattnite/groovebasin/pkg/protocol"
)

// keepaliveTick runs on the repeating keepalive timer.
func (c *Client) keepaliveTick() {
	if err := c.sendPing(); err != nil {
		// Routine while the channel is mid-loss; the timer is stopped
		// by the backoff transition.
		c.logger.Debug("keepalive skipped", "error", err)
	}
}

// sendPing performs one keepalive exchange: a ping request whose response
// carries the server's wall clock in nanoseconds. The measured lag is
//
//	lag = local send time − server time
//
// so it folds together clock skew and half the round trip. The sample goes
// to the presenter, followed by the presenter's own refresh.
func (c *Client) sendPing() error {
	req := c.NewRequest(protocol.OpPing)
	sentAt := c.cfg.Scheduler.Now()

	return c.Send(req, func(payload []byte) {
		serverNS, err := protocol.DecodeServerTime(payload)
		if err != nil {
			c.fail(&ProtocolError{Op: "keepalive", Err: err})
			return
		}

		lag := sentAt.Sub(time.Unix(0, serverNS))
		c.logger.Debug("keepalive", "lag", lag)
		c.cfg.Metrics.setLag(lag)
		c.pres.SetLag(lag)

		if err := c.pres.Poll(); err != nil {
			c.logger.Error("poll failed", "error", err)
		}
	})
}
