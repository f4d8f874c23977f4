package slotcache

import "context"

// mutex is a channel-based mutual exclusion lock whose acquisition honors a
// context. The slot holds it across collaborator I/O, so waiters must be
// able to give up when their context is cancelled; sync.Mutex cannot do
// that.
type mutex chan struct{}

func newMutex() mutex { return make(mutex, 1) }

// Lock blocks until the lock is acquired or ctx is done. On a ctx error the
// lock is NOT held and must not be released.
func (m mutex) Lock(ctx context.Context) error {
	select {
	case m <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m mutex) Unlock() { <-m }
