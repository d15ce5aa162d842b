// Package client implements the Groove Basin client network engine.
//
// A Client maintains one duplex binary message stream to a server and
// multiplexes concurrent request/response pairs over it using 31-bit
// correlation ids. Unsolicited server pushes are distinguished from
// responses by a reserved bit in the correlation field and routed to
// registered push handlers. Transport loss is routine: the client enters
// backoff and retries on a fixed delay, forever. A built-in keepalive
// exchange measures the client/server clock offset ("lag") every cycle and
// reports it to the host's Presenter.
//
// # Collaborators
//
// The engine is deliberately thin at its edges. Three collaborators are
// supplied by the host:
//
//   - Dialer: opens the duplex channel and delivers open/close/error/message
//     events (see package transport for the WebSocket implementation).
//   - Scheduler: runs interval and one-shot timers and reports wall-clock
//     time. The default uses the runtime's timers; tests substitute a fake
//     for deterministic virtual time.
//   - Presenter: is told about connection-state changes and measured lag,
//     and performs its own application-level refresh via Poll.
//
// # Lifecycle
//
//	Idle --Open--> Connecting --open event--> Connected
//	Connected --close/error--> Backoff --1s--> Idle --Open--> ...
//
// There is no terminal state for transport loss; the machine runs for the
// life of the process. Protocol violations (a response for an unknown id,
// a truncated header) are different: they are unrecoverable stream
// corruption, so the client halts instead of resynchronizing and reports
// the violation through Config.OnFatal.
//
// # Calls
//
//	req := c.NewRequest(protocol.OpPing)
//	req.Encoder().WriteString("...")
//	err := c.Send(req, func(payload []byte) { ... })
//
// A call never completes synchronously; the handler runs when the matching
// response frame arrives. Handlers for calls that are in flight when the
// connection drops are never invoked and never cleaned up — reproducing the
// reference behavior. PendingCalls exposes the count so hosts can watch it.
package client
