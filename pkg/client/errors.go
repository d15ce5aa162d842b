package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for common client error conditions.
var (
	// ErrNotIdle is returned by Open when a connection attempt is already
	// outstanding or the client is connected or backing off.
	ErrNotIdle = errors.New("client: open requires idle state")

	// ErrNotConnected is returned when a call is attempted without an
	// established channel.
	ErrNotConnected = errors.New("client: not connected")

	// ErrHalted is returned after a protocol violation has permanently
	// stopped the client.
	ErrHalted = errors.New("client: halted after protocol violation")

	// ErrSeqInFlight indicates the id space wrapped around faster than
	// responses arrived. Treated as a fatal invariant violation.
	ErrSeqInFlight = errors.New("client: sequence id already in flight")

	// ErrUnknownSeq indicates a response arrived for an id that was never
	// requested or was already resolved. Treated as stream corruption.
	ErrUnknownSeq = errors.New("client: response for unknown sequence id")
)

// ProtocolError wraps a fatal protocol violation with the operation that
// detected it. The engine does not recover from these; they surface through
// Config.OnFatal.
type ProtocolError struct {
	Op  string // Operation that detected the violation
	Err error  // Underlying error
}

// Error returns the error message with operation context.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("client: protocol violation in %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}
