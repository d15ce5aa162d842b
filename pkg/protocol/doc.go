// Package protocol implements the binary wire protocol spoken between a
// Groove Basin client and server.
//
// The protocol multiplexes concurrent request/response pairs and unsolicited
// server pushes over one duplex message stream. Every message is a discrete
// frame: a fixed little-endian header followed by a variable payload.
//
// # Wire Format
//
// Request frames (client → server, 5-byte header):
//
//	┌────────────────────┬───────────┬─────────────────┐
//	│ Seq (4 bytes, LE)  │ Opcode    │ Payload         │
//	│ bit 31 always 0    │ (1 byte)  │ (variable)      │
//	└────────────────────┴───────────┴─────────────────┘
//
// Server frames (server → client, 4-byte header):
//
//	┌────────────────────┬───────────────────────────────┐
//	│ Seq (4 bytes, LE)  │ Payload (variable)            │
//	└────────────────────┴───────────────────────────────┘
//
// If bit 31 of Seq is clear the frame is a response and Seq correlates it
// with an earlier request. If bit 31 is set the frame is a server push; the
// payload then begins with a one-byte push subtype discriminator.
//
// Sequence numbers are 31-bit values generated by the client, wrapping
// modulo 2^31. The generator never produces a value with bit 31 set; that
// bit belongs to the server.
//
// # Framing errors
//
// The wire format has no self-delimiting recovery point, so a frame shorter
// than its fixed header is unrecoverable stream corruption. Decoding such a
// frame returns ErrTruncatedFrame and the connection must be abandoned
// rather than resynchronized.
//
// # Encoding
//
// Fixed-width integers are little-endian. Strings and byte blobs are
// length-prefixed with a uint16. The keepalive (ping) response payload is a
// single int64: the server's wall clock in nanoseconds.
package protocol
