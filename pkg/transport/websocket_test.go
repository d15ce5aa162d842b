package transport

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mattnite/groovebasin/pkg/client"
	"github.com/mattnite/groovebasin/pkg/protocol"
)

type eventRecorder struct {
	opened chan client.Channel
	closed chan struct{}
	errs   chan error
	msgs   chan []byte
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{
		opened: make(chan client.Channel, 1),
		closed: make(chan struct{}, 1),
		errs:   make(chan error, 4),
		msgs:   make(chan []byte, 16),
	}
}

func (r *eventRecorder) OnOpen(ch client.Channel) { r.opened <- ch }
func (r *eventRecorder) OnClose()                 { r.closed <- struct{}{} }
func (r *eventRecorder) OnError(err error)        { r.errs <- err }
func (r *eventRecorder) OnMessage(data []byte)    { r.msgs <- data }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// echoServer upgrades, answers each request frame with a response frame
// carrying the request payload, then waits for the client to go away.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade() error = %v", err)
			return
		}
		defer conn.Close()

		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.BinaryMessage {
				continue
			}
			seq, _, payload, err := protocol.DecodeRequest(data)
			if err != nil {
				t.Errorf("DecodeRequest() error = %v", err)
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, protocol.EncodeResponse(seq, payload)); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebsocketRoundTrip(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	rec := newEventRecorder()
	d := NewWebsocket(WebsocketConfig{URL: wsURL(srv), Logger: testLogger()})
	d.Dial(context.Background(), rec)

	var ch client.Channel
	select {
	case ch = <-rec.opened:
	case err := <-rec.errs:
		t.Fatalf("OnError before OnOpen: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for OnOpen")
	}

	frame := protocol.EncodeRequest(42, protocol.OpPing, []byte("marco"))
	if err := ch.Send(frame); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case data := <-rec.msgs:
		seq, payload, err := protocol.DecodeServerHeader(data)
		if err != nil {
			t.Fatalf("DecodeServerHeader() error = %v", err)
		}
		if seq != 42 {
			t.Errorf("seq = %d, want 42", seq)
		}
		if !bytes.Equal(payload, []byte("marco")) {
			t.Errorf("payload = %q, want %q", payload, "marco")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for OnMessage")
	}

	// Client-initiated close: the read loop reports OnClose, not OnError.
	if err := ch.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	select {
	case <-rec.closed:
	case err := <-rec.errs:
		t.Fatalf("OnError after Close: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for OnClose")
	}
}

func TestWebsocketServerClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
	}))
	defer srv.Close()

	rec := newEventRecorder()
	d := NewWebsocket(WebsocketConfig{URL: wsURL(srv), Logger: testLogger()})
	d.Dial(context.Background(), rec)

	select {
	case <-rec.opened:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for OnOpen")
	}

	select {
	case <-rec.closed:
	case err := <-rec.errs:
		t.Fatalf("server close reported as OnError: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for OnClose")
	}
}

func TestWebsocketDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Nothing listening anymore.

	rec := newEventRecorder()
	d := NewWebsocket(WebsocketConfig{URL: wsURL(srv), Logger: testLogger()})
	d.Dial(context.Background(), rec)

	select {
	case <-rec.errs:
	case <-rec.opened:
		t.Fatal("OnOpen for a dead endpoint")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for OnError")
	}
}
