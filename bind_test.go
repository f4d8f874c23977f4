package slotcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/slotcache/codec"
	"github.com/unkn0wn-root/slotcache/internal/wire"
	st "github.com/unkn0wn-root/slotcache/store"
)

type memStore struct {
	mu     sync.Mutex
	m      map[string][]byte
	reject bool  // next Set returns ok=false
	getErr error // forced Get error
}

var _ st.Store = (*memStore)(nil)

func newMemStore() *memStore { return &memStore{m: make(map[string][]byte)} }

func (p *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.getErr != nil {
		return nil, false, p.getErr
	}
	b, ok := p.m[key]
	return b, ok, nil
}

func (p *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reject {
		return false, nil
	}
	p.m[key] = value
	return true, nil
}

func (p *memStore) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, key)
	return nil
}

func (p *memStore) Close(_ context.Context) error { return nil }

func (p *memStore) raw(key string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.m[key]
	return b, ok
}

type profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestStoreFuncsRoundTrip(t *testing.T) {
	ctx := context.Background()
	mp := newMemStore()
	retrieve, persist := StoreFuncs[profile](mp, "profile:current", codec.JSON[profile]{}, 0)

	// Empty store: clean miss.
	if _, ok, err := retrieve(ctx); err != nil || ok {
		t.Fatalf("retrieve on empty store: ok=%v err=%v", ok, err)
	}

	want := profile{ID: "1", Name: "Ada"}
	if err := persist(ctx, want); err != nil {
		t.Fatalf("persist: %v", err)
	}

	// The stored entry is framed.
	raw, ok := mp.raw("profile:current")
	if !ok {
		t.Fatalf("no entry written")
	}
	if _, _, err := wire.DecodeValue(raw); err != nil {
		t.Fatalf("stored entry is not a valid envelope: %v", err)
	}

	got, ok, err := retrieve(ctx)
	if err != nil || !ok || got != want {
		t.Fatalf("retrieve: got=%v ok=%v err=%v", got, ok, err)
	}
}

func TestStoreFuncsSelfHealCorrupt(t *testing.T) {
	ctx := context.Background()
	mp := newMemStore()
	retrieve, _ := StoreFuncs[profile](mp, "p", codec.JSON[profile]{}, 0)

	// A foreign write under the slot's key is corruption, not an error.
	mp.m["p"] = []byte("garbage")
	if _, ok, err := retrieve(ctx); err != nil || ok {
		t.Fatalf("retrieve of corrupt entry: ok=%v err=%v", ok, err)
	}
	if _, ok := mp.raw("p"); ok {
		t.Fatalf("corrupt entry not deleted")
	}

	// Valid envelope but a payload the codec rejects: also self-healed.
	mp.m["p"] = wire.EncodeValue(1, []byte("{not json"))
	if _, ok, err := retrieve(ctx); err != nil || ok {
		t.Fatalf("retrieve of undecodable payload: ok=%v err=%v", ok, err)
	}
	if _, ok := mp.raw("p"); ok {
		t.Fatalf("undecodable entry not deleted")
	}
}

func TestStoreFuncsErrors(t *testing.T) {
	ctx := context.Background()
	mp := newMemStore()
	retrieve, persist := StoreFuncs[profile](mp, "p", codec.JSON[profile]{}, 0)

	mp.reject = true
	if err := persist(ctx, profile{ID: "1"}); !errors.Is(err, ErrStoreRejected) {
		t.Fatalf("persist to pressured store err = %v, want ErrStoreRejected", err)
	}
	mp.reject = false

	boom := errors.New("connection reset")
	mp.getErr = boom
	if _, ok, err := retrieve(ctx); ok || err != boom {
		t.Fatalf("retrieve with store error: ok=%v err=%v, want %v", ok, err, boom)
	}
}

// TestSlotBackedByStore wires StoreFuncs into a slot: store writes through,
// clear+get reads back from the byte store.
func TestSlotBackedByStore(t *testing.T) {
	ctx := context.Background()
	mp := newMemStore()
	retrieve, persist := StoreFuncs[profile](mp, "profile:current", codec.JSON[profile]{}, 0)
	s := New[profile](Options[profile]{Retrieve: retrieve, Persist: persist})
	defer s.Close(ctx)

	v := profile{ID: "7", Name: "Grace"}
	if err := s.Store(ctx, v); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, ok := mp.raw("profile:current"); !ok {
		t.Fatalf("store did not write through")
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, ok, err := s.Get(ctx)
	if err != nil || !ok || got != v {
		t.Fatalf("Get read-through: got=%v ok=%v err=%v", got, ok, err)
	}
}
