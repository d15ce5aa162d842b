package client

import (
	"sync"

	"github.com/mattnite/groovebasin/pkg/protocol"
)

// ResponseHandler consumes the payload of the response frame that matches
// a registered call. Each handler is invoked at most once.
type ResponseHandler func(payload []byte)

// registry generates correlation ids and tracks in-flight calls. Ids live
// in the 31-bit space (bit 31 belongs to server pushes) and the counter is
// never reset, so ids are not reused across reconnects within a wrap
// period.
type registry struct {
	mu      sync.Mutex
	nextSeq uint32
	pending map[uint32]ResponseHandler
}

func newRegistry() *registry {
	return &registry{
		pending: make(map[uint32]ResponseHandler),
	}
}

// generate returns the next sequence id, post-incrementing and masking so
// the reserved high bit is never produced, including across wraparound.
func (r *registry) generate() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq := r.nextSeq
	r.nextSeq = (r.nextSeq + 1) & protocol.SeqMask
	return seq
}

// register inserts a pending call. A collision means the id space wrapped
// before the earlier call resolved; callers treat that as fatal.
func (r *registry) register(seq uint32, h ResponseHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pending[seq]; exists {
		return ErrSeqInFlight
	}
	r.pending[seq] = h
	return nil
}

// resolve removes and returns the pending call for seq. Absence means the
// server answered an id that was never requested or was already resolved;
// callers treat that as fatal.
func (r *registry) resolve(seq uint32) (ResponseHandler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, exists := r.pending[seq]
	if !exists {
		return nil, ErrUnknownSeq
	}
	delete(r.pending, seq)
	return h, nil
}

// drop removes a pending call without resolving it. Used to back out a
// registration whose frame never made it onto the wire.
func (r *registry) drop(seq uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, seq)
}

// size reports the number of in-flight calls.
func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
