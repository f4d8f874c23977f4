// Package asynchook decouples hook execution from the slot's lock holder.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    CommitEvery: 10, // sample logs: ~every 10th commit
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	slot := slotcache.New[User](slotcache.Options[User]{
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/slotcache"
)

type Hooks struct {
	inner slotcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ slotcache.Hooks = (*Hooks)(nil)

func New(inner slotcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) RetrieveError(op string, err error) {
	h.try(func() { h.inner.RetrieveError(op, err) })
}
func (h *Hooks) PersistError(op string, err error) {
	h.try(func() { h.inner.PersistError(op, err) })
}
func (h *Hooks) Committed(op string) { h.try(func() { h.inner.Committed(op) }) }
func (h *Hooks) Cleared()            { h.try(func() { h.inner.Cleared() }) }
func (h *Hooks) ObserverAdded(n int) { h.try(func() { h.inner.ObserverAdded(n) }) }
func (h *Hooks) ObserverRemoved(n int) {
	h.try(func() { h.inner.ObserverRemoved(n) })
}
