package client

import (
	"testing"

	"github.com/mattnite/groovebasin/pkg/protocol"
)

func TestRegistryGenerateKeepsHighBitClear(t *testing.T) {
	r := newRegistry()

	for i := 0; i < 1000; i++ {
		seq := r.generate()
		if seq&protocol.PushFlag != 0 {
			t.Fatalf("generate() = %#x, push bit set", seq)
		}
	}
}

func TestRegistryGenerateWraparound(t *testing.T) {
	r := newRegistry()
	r.nextSeq = protocol.SeqMask

	last := r.generate()
	if last != protocol.SeqMask {
		t.Errorf("generate() = %#x, want %#x", last, protocol.SeqMask)
	}
	if last&protocol.PushFlag != 0 {
		t.Errorf("generate() = %#x, push bit set at wrap boundary", last)
	}

	wrapped := r.generate()
	if wrapped != 0 {
		t.Errorf("generate() after wrap = %d, want 0", wrapped)
	}
}

func TestRegistryResolveExactlyOnce(t *testing.T) {
	r := newRegistry()

	called := false
	h := ResponseHandler(func([]byte) { called = true })

	if err := r.register(7, h); err != nil {
		t.Fatalf("register() error = %v", err)
	}

	got, err := r.resolve(7)
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	got(nil)
	if !called {
		t.Error("resolve() did not return the registered handler")
	}

	if _, err := r.resolve(7); err != ErrUnknownSeq {
		t.Errorf("second resolve() = %v, want ErrUnknownSeq", err)
	}
}

func TestRegistryCollision(t *testing.T) {
	r := newRegistry()

	if err := r.register(3, nil); err != nil {
		t.Fatalf("register() error = %v", err)
	}
	if err := r.register(3, nil); err != ErrSeqInFlight {
		t.Errorf("duplicate register() = %v, want ErrSeqInFlight", err)
	}
}

func TestRegistryDrop(t *testing.T) {
	r := newRegistry()

	if err := r.register(5, nil); err != nil {
		t.Fatalf("register() error = %v", err)
	}
	r.drop(5)
	if r.size() != 0 {
		t.Errorf("size() after drop = %d, want 0", r.size())
	}
	if err := r.register(5, nil); err != nil {
		t.Errorf("register() after drop = %v, want nil", err)
	}
}
