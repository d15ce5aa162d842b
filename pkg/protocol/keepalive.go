package protocol

// ServerTimeSize is the size of a keepalive response payload: one int64,
// the server's wall clock in nanoseconds since the Unix epoch.
const ServerTimeSize = 8

// EncodeServerTime builds a keepalive response payload. Servers and test
// fixtures use this; the client only decodes.
func EncodeServerTime(ns int64) []byte {
	enc := NewEncoderWithCap(ServerTimeSize)
	enc.WriteInt64(ns)
	return enc.Bytes()
}

// DecodeServerTime reads the server timestamp out of a keepalive response
// payload. A short payload is a framing error.
func DecodeServerTime(payload []byte) (int64, error) {
	if len(payload) < ServerTimeSize {
		return 0, ErrTruncatedFrame
	}
	return NewDecoder(payload).ReadInt64()
}

// EncodePush builds a complete push frame as a server would emit it: the
// correlation field with PushFlag set, the subtype discriminator, then the
// payload. Exists for servers and test fixtures.
func EncodePush(pt PushType, payload []byte) []byte {
	enc := NewEncoderWithCap(ServerHeaderSize + 1 + len(payload))
	enc.WriteUint32(PushFlag)
	enc.WriteByte(byte(pt))
	enc.WriteBytes(payload)
	return enc.Bytes()
}

// EncodeResponse builds a complete response frame as a server would emit
// it. Exists for servers and test fixtures.
func EncodeResponse(seq uint32, payload []byte) []byte {
	enc := NewEncoderWithCap(ServerHeaderSize + len(payload))
	enc.WriteUint32(seq & SeqMask)
	enc.WriteBytes(payload)
	return enc.Bytes()
}
