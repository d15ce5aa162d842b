// Package transport provides the WebSocket implementation of the engine's
// transport collaborator: one duplex binary message stream per dial, with
// lifecycle events delivered on transport goroutines.
package transport

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mattnite/groovebasin/pkg/client"
)

// WebsocketConfig configures the WebSocket dialer.
type WebsocketConfig struct {
	// URL is the ws:// or wss:// endpoint to dial.
	URL string

	// HandshakeTimeout bounds the dial and upgrade.
	// Default: 10 seconds.
	HandshakeTimeout time.Duration

	// WriteTimeout bounds each outbound frame write.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// MaxMessageSize is the maximum size of an incoming message.
	// Default: 64KB.
	MaxMessageSize int64

	// Logger receives structured transport logs.
	// Default: slog.Default().
	Logger *slog.Logger
}

func (c *WebsocketConfig) withDefaults() WebsocketConfig {
	out := *c
	if out.HandshakeTimeout == 0 {
		out.HandshakeTimeout = 10 * time.Second
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = 10 * time.Second
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = 64 * 1024
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return out
}

// Websocket dials WebSocket channels. It implements client.Dialer.
type Websocket struct {
	cfg    WebsocketConfig
	logger *slog.Logger
}

// NewWebsocket creates a WebSocket dialer for the configured endpoint.
func NewWebsocket(cfg WebsocketConfig) *Websocket {
	cfg = cfg.withDefaults()
	return &Websocket{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "transport", "url", cfg.URL),
	}
}

// Dial starts a connection attempt. The outcome and all subsequent channel
// events arrive through ev on transport goroutines.
func (w *Websocket) Dial(ctx context.Context, ev client.Events) {
	go func() {
		dialer := websocket.Dialer{
			HandshakeTimeout: w.cfg.HandshakeTimeout,
		}

		conn, _, err := dialer.DialContext(ctx, w.cfg.URL, nil)
		if err != nil {
			w.logger.Warn("dial failed", "error", err)
			ev.OnError(err)
			return
		}
		conn.SetReadLimit(w.cfg.MaxMessageSize)

		ch := &wsChannel{
			conn:         conn,
			writeTimeout: w.cfg.WriteTimeout,
		}

		w.logger.Debug("channel established")
		ev.OnOpen(ch)
		w.readLoop(conn, ev)
	}()
}

// readLoop pumps inbound messages until the connection dies, then reports
// how it died: expected closes as OnClose, everything else as OnError.
func (w *Websocket) readLoop(conn *websocket.Conn, ev client.Events) {
	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) || errors.Is(err, net.ErrClosed) {
				w.logger.Debug("channel closed", "error", err)
				ev.OnClose()
			} else {
				w.logger.Warn("read error", "error", err)
				ev.OnError(err)
			}
			return
		}

		if msgType != websocket.BinaryMessage {
			w.logger.Warn("non-binary message ignored", "size", len(payload))
			continue
		}

		ev.OnMessage(payload)
	}
}

// wsChannel is one established connection. Writes are serialized: gorilla
// permits at most one concurrent writer.
type wsChannel struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func (ch *wsChannel) Send(data []byte) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	ch.conn.SetWriteDeadline(time.Now().Add(ch.writeTimeout))
	return ch.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (ch *wsChannel) Close() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	deadline := time.Now().Add(ch.writeTimeout)
	ch.conn.SetWriteDeadline(deadline)
	ch.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return ch.conn.Close()
}
