// Package slotcache implements a concurrency-safe single-slot value cache:
// one optional value of type V, read-through retrieval on miss, write-through
// persistence on store, and a broadcast stream of committed values for
// observers.
//
// Components:
//   - Slot[V]: the cache primitive (get/store/refresh/sync/clear/observe).
//   - RetrieveFunc[V] / PersistFunc[V]: collaborators the slot invokes but
//     does not implement. Both optional, both swappable at runtime.
//   - store.Store + codec.Codec[V] + StoreFuncs: ready-made collaborators
//     backed by a byte store (Redis, BigCache, Ristretto) at a fixed key.
//
// Concurrency model: a hit on Get is a lock-free atomic load. Every mutation
// (store, refresh, sync, clear, and the retrieval branch of a miss) runs
// under the slot's single lock, which is held across collaborator I/O so at
// most one mutation is in flight at a time. Lock acquisition honors the
// caller's context, so a cancelled caller does not wait forever behind a
// slow collaborator.
//
// Read-through pattern:
//
//	slot := slotcache.New[Profile](slotcache.Options[Profile]{
//	    Retrieve: retrieve, // func(ctx) (Profile, bool, error)
//	    Persist:  persist,  // func(ctx, Profile) error
//	})
//	p, ok, err := slot.Get(ctx)  // fetches once per miss, even under contention
//	err = slot.Store(ctx, p2)    // persists first, then commits to memory
package slotcache
