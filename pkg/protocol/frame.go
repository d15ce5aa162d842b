package protocol

import "errors"

// Frame constants.
const (
	// RequestHeaderSize is the size of a request frame header in bytes:
	// 4-byte sequence number plus 1-byte opcode.
	RequestHeaderSize = 5

	// ServerHeaderSize is the size of a server frame header in bytes:
	// the 4-byte correlation field.
	ServerHeaderSize = 4

	// SeqMask keeps sequence numbers inside the 31-bit space. The
	// generator masks every value with it, so bit 31 is never produced
	// by a client.
	SeqMask uint32 = 0x7FFFFFFF

	// PushFlag is bit 31 of the correlation field. A server frame whose
	// correlation field carries this bit is an unsolicited push, not a
	// response.
	PushFlag uint32 = 0x80000000
)

// Opcode tags the semantic meaning of an outgoing request.
type Opcode uint8

const (
	// OpPing is the keepalive request. The response payload is the
	// server's wall clock as an int64 in nanoseconds.
	OpPing Opcode = 0x00
)

// String returns the string representation of the opcode.
func (op Opcode) String() string {
	switch op {
	case OpPing:
		return "Ping"
	default:
		return "Unknown"
	}
}

// PushType discriminates server push payloads.
type PushType uint8

const (
	// PushStateChanged tells the client that server-side state it may be
	// rendering has changed and should be re-fetched.
	PushStateChanged PushType = 0x00
)

// String returns the string representation of the push type.
func (pt PushType) String() string {
	switch pt {
	case PushStateChanged:
		return "StateChanged"
	default:
		return "Unknown"
	}
}

// Framing errors. These indicate unrecoverable stream corruption: the wire
// format has no resynchronization point, so the connection must be dropped.
var (
	ErrTruncatedFrame = errors.New("protocol: frame shorter than fixed header")
	ErrTruncatedPush  = errors.New("protocol: push frame missing subtype discriminator")
)

// IsPush reports whether a server frame's correlation field marks a push.
func IsPush(seq uint32) bool {
	return seq&PushFlag != 0
}

// DecodeServerHeader splits an incoming server frame into its correlation
// field and payload. The caller checks IsPush on the returned field to
// decide whether the payload is a response body or a push body.
//
// A frame shorter than the fixed header is fatal (ErrTruncatedFrame).
func DecodeServerHeader(data []byte) (uint32, []byte, error) {
	if len(data) < ServerHeaderSize {
		return 0, nil, ErrTruncatedFrame
	}
	seq := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	return seq, data[ServerHeaderSize:], nil
}

// DecodePush splits a push body into its subtype discriminator and payload.
// An empty body is fatal (ErrTruncatedPush): the discriminator is part of
// the push frame's fixed header.
func DecodePush(body []byte) (PushType, []byte, error) {
	if len(body) < 1 {
		return 0, nil, ErrTruncatedPush
	}
	return PushType(body[0]), body[1:], nil
}

// Request is an outgoing frame under construction. The header is written
// when the request is created; the payload is appended through the exposed
// encoder. The buffer is owned by the request until transmitted and must
// not be reused afterward.
type Request struct {
	seq uint32
	op  Opcode
	enc *Encoder
}

// NewRequest allocates a request frame and writes its fixed header.
func NewRequest(seq uint32, op Opcode) *Request {
	enc := NewEncoder()
	enc.WriteUint32(seq)
	enc.WriteByte(byte(op))
	return &Request{
		seq: seq,
		op:  op,
		enc: enc,
	}
}

// Seq returns the correlation id the frame was built with.
func (r *Request) Seq() uint32 {
	return r.seq
}

// Opcode returns the opcode the frame was built with.
func (r *Request) Opcode() Opcode {
	return r.op
}

// Encoder returns the append-only payload writer.
func (r *Request) Encoder() *Encoder {
	return r.enc
}

// Bytes returns the complete frame: header plus payload written so far.
func (r *Request) Bytes() []byte {
	return r.enc.Bytes()
}

// EncodeRequest builds a complete request frame in one call.
func EncodeRequest(seq uint32, op Opcode, payload []byte) []byte {
	enc := NewEncoderWithCap(RequestHeaderSize + len(payload))
	enc.WriteUint32(seq)
	enc.WriteByte(byte(op))
	enc.WriteBytes(payload)
	return enc.Bytes()
}

// DecodeRequest decodes a request frame. Servers (and tests) use this to
// read frames produced by EncodeRequest or NewRequest.
func DecodeRequest(data []byte) (seq uint32, op Opcode, payload []byte, err error) {
	if len(data) < RequestHeaderSize {
		return 0, 0, nil, ErrTruncatedFrame
	}
	seq = uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	op = Opcode(data[4])
	return seq, op, data[RequestHeaderSize:], nil
}
