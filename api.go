package slotcache

import (
	"context"
)

// RetrieveFunc fetches the slot's value from an external source.
// ok=false means "the source has no value" and is not an error; every
// subsequent miss will retry. The function may block or perform I/O; it
// runs while the slot's lock is held.
type RetrieveFunc[V any] func(ctx context.Context) (v V, ok bool, err error)

// PersistFunc writes a value to an external sink. It may block or perform
// I/O; it runs while the slot's lock is held.
type PersistFunc[V any] func(ctx context.Context, v V) error

// CancelFunc detaches an observer. Idempotent.
type CancelFunc func()

// Slot is a concurrency-safe cache for a single value of type V.
// All methods may be called concurrently. Collaborator errors are returned
// to the caller untranslated.
type Slot[V any] interface {
	// Get returns the cached value if present (lock-free). On a miss it
	// retrieves via the retrieve collaborator, caches the result in memory
	// (no persist), and returns it. Many concurrent misses trigger exactly
	// one retrieval. Absent collaborator or an absent result returns
	// ok=false with no error; absent results are not cached.
	Get(ctx context.Context) (v V, ok bool, err error)

	// Store persists value through the persist collaborator (if set), then
	// commits it to memory and notifies observers. On a persist error the
	// memory value is left unchanged: a value that failed to persist is
	// never cached.
	Store(ctx context.Context, value V) error

	// Refresh unconditionally invokes the retrieve collaborator, overwrites
	// memory on a value, and notifies observers. It never persists.
	Refresh(ctx context.Context) (v V, ok bool, err error)

	// Sync makes memory and the external store agree: it retrieves on a
	// miss, then persists whatever value is resident (pre-existing or
	// freshly retrieved). A persist failure does not roll memory back; the
	// resident value is returned alongside the error.
	Sync(ctx context.Context) (v V, ok bool, err error)

	// Clear drops the cached value. Observers are not notified; they only
	// ever see present values.
	Clear(ctx context.Context) error

	// Observe returns a stream of every value committed after the call.
	// There is no replay of earlier values. Each observer receives commits
	// in commit order; a slow observer never blocks committers. Cancel
	// closes the channel.
	Observe() (<-chan V, CancelFunc)

	// SetRetrieveFunc swaps the retrieve collaborator. nil removes it.
	SetRetrieveFunc(fn RetrieveFunc[V])
	// SetPersistFunc swaps the persist collaborator. nil removes it.
	SetPersistFunc(fn PersistFunc[V])

	// GetBlocking and StoreBlocking are context.Background() adapters for
	// non-concurrent callers. Never call them from inside a collaborator:
	// the collaborator already runs under the slot's lock and the adapter
	// would deadlock waiting for it.
	GetBlocking() (v V, ok bool, err error)
	StoreBlocking(value V) error

	// Close detaches all observers and closes their channels. The slot
	// itself remains usable; Close only tears down observation.
	Close(ctx context.Context) error
}

// Options tune a Slot. Everything is optional.
type Options[V any] struct {
	Seed     *V // initial value; nil starts the slot empty
	Retrieve RetrieveFunc[V]
	Persist  PersistFunc[V]

	Logger         Logger // if nil, NopLogger is used
	Hooks          Hooks  // if nil, NopHooks is used
	ObserverBuffer int    // per-observer channel buffer; 0 => 16
}

func New[V any](opts Options[V]) Slot[V] {
	return newSlot[V](opts)
}
