package slotcache

import (
	"context"
	"sync/atomic"
)

type slot[V any] struct {
	// val is the slot's entire cached state: nil means absent. Reads are
	// lock-free; writes happen only while mu is held.
	val atomic.Pointer[V]

	// mu serializes store, refresh, sync, clear, and the retrieval branch
	// of get. Held across collaborator calls: at most one mutation (and at
	// most one collaborator invocation) is in flight at a time.
	mu mutex

	// Collaborators live behind atomic pointers so SetRetrieveFunc /
	// SetPersistFunc never tear a read in a concurrently running operation.
	retrieve atomic.Pointer[RetrieveFunc[V]]
	persist  atomic.Pointer[PersistFunc[V]]

	changes *broadcaster[V]
	log     Logger
	hooks   Hooks
}

func newSlot[V any](opts Options[V]) *slot[V] {
	s := &slot[V]{
		mu:    newMutex(),
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
		hooks: coalesce[Hooks](opts.Hooks, NopHooks{}),
	}
	s.changes = newBroadcaster[V](coalesce(opts.ObserverBuffer, 16), s.hooks)

	if opts.Seed != nil {
		// No observer can exist before New returns, so seeding is a plain
		// write rather than a committed transition.
		v := *opts.Seed
		s.val.Store(&v)
	}
	if opts.Retrieve != nil {
		fn := opts.Retrieve
		s.retrieve.Store(&fn)
	}
	if opts.Persist != nil {
		fn := opts.Persist
		s.persist.Store(&fn)
	}
	return s
}

func (s *slot[V]) Get(ctx context.Context) (V, bool, error) {
	// Fast path: hit without touching the lock.
	if p := s.val.Load(); p != nil {
		return *p, true, nil
	}

	var zero V
	if err := s.mu.Lock(ctx); err != nil {
		return zero, false, err
	}
	defer s.mu.Unlock()

	// Re-check: another caller may have populated the slot while this one
	// waited for the lock.
	if p := s.val.Load(); p != nil {
		return *p, true, nil
	}
	return s.retrieveLocked(ctx, "get")
}

// retrieveLocked runs the retrieve collaborator and commits its result.
// Caller must hold mu. An absent result is not cached; the next miss
// retries.
func (s *slot[V]) retrieveLocked(ctx context.Context, op string) (V, bool, error) {
	var zero V
	fn := s.retrieve.Load()
	if fn == nil {
		return zero, false, nil
	}
	v, ok, err := (*fn)(ctx)
	if err != nil {
		s.hooks.RetrieveError(op, err)
		return zero, false, err
	}
	if !ok {
		s.log.Debug("retrieve yielded no value", Fields{"op": op})
		return zero, false, nil
	}
	s.commitLocked(v, op)
	return v, true, nil
}

// commitLocked publishes v as the slot's value and notifies observers.
// Caller must hold mu, so commits (and therefore observer deliveries) are
// totally ordered by lock acquisition.
func (s *slot[V]) commitLocked(v V, op string) {
	s.val.Store(&v)
	s.changes.publish(v)
	s.hooks.Committed(op)
	s.log.Debug("value committed", Fields{"op": op})
}

func (s *slot[V]) Store(ctx context.Context, value V) error {
	if err := s.mu.Lock(ctx); err != nil {
		return err
	}
	defer s.mu.Unlock()

	// Persist first: a value that failed to persist is never cached, so a
	// failure here leaves memory at its prior value.
	if fn := s.persist.Load(); fn != nil {
		if err := (*fn)(ctx, value); err != nil {
			s.hooks.PersistError("store", err)
			return err
		}
	}
	s.commitLocked(value, "store")
	return nil
}

func (s *slot[V]) Refresh(ctx context.Context) (V, bool, error) {
	var zero V
	if err := s.mu.Lock(ctx); err != nil {
		return zero, false, err
	}
	defer s.mu.Unlock()

	// Unconditional retrieval: the current value, if any, is ignored and
	// only overwritten when the source yields something.
	return s.retrieveLocked(ctx, "refresh")
}

func (s *slot[V]) Sync(ctx context.Context) (V, bool, error) {
	var zero V
	if err := s.mu.Lock(ctx); err != nil {
		return zero, false, err
	}
	defer s.mu.Unlock()

	var (
		v  V
		ok bool
	)
	if p := s.val.Load(); p != nil {
		v, ok = *p, true
	} else {
		var err error
		v, ok, err = s.retrieveLocked(ctx, "sync")
		if err != nil {
			return zero, false, err
		}
	}
	if !ok {
		return zero, false, nil
	}

	// Persist the resident value unconditionally, even if it was already
	// present before this call. Memory is not rolled back on failure; only
	// the persist side effect is missing.
	if fn := s.persist.Load(); fn != nil {
		if err := (*fn)(ctx, v); err != nil {
			s.hooks.PersistError("sync", err)
			return v, true, err
		}
	}
	return v, true, nil
}

func (s *slot[V]) Clear(ctx context.Context) error {
	if err := s.mu.Lock(ctx); err != nil {
		return err
	}
	defer s.mu.Unlock()

	s.val.Store(nil)
	s.hooks.Cleared()
	s.log.Debug("value cleared", nil)
	return nil
}

func (s *slot[V]) Observe() (<-chan V, CancelFunc) {
	return s.changes.subscribe()
}

func (s *slot[V]) SetRetrieveFunc(fn RetrieveFunc[V]) {
	if fn == nil {
		s.retrieve.Store(nil)
		return
	}
	s.retrieve.Store(&fn)
}

func (s *slot[V]) SetPersistFunc(fn PersistFunc[V]) {
	if fn == nil {
		s.persist.Store(nil)
		return
	}
	s.persist.Store(&fn)
}

func (s *slot[V]) GetBlocking() (V, bool, error) {
	return s.Get(context.Background())
}

func (s *slot[V]) StoreBlocking(value V) error {
	return s.Store(context.Background(), value)
}

func (s *slot[V]) Close(context.Context) error {
	s.changes.close()
	return nil
}
