// Package sloghooks logs slot events through log/slog, with sampling for
// the hot Committed event.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/slotcache"
)

type Options struct {
	// Sampling to avoid floods on write-heavy slots; 0/1 = log all commits.
	CommitEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	commitCtr atomic.Uint64
}

var _ slotcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) RetrieveError(op string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("slotcache.retrieve_error",
		"op", op,
		"err", err)
}

func (h *Hooks) PersistError(op string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("slotcache.persist_error",
		"op", op,
		"err", err)
}

func (h *Hooks) Committed(op string) {
	if h.l == nil || !sample(h.opts.CommitEvery, &h.commitCtr) {
		return
	}
	h.l.Debug("slotcache.committed",
		"op", op)
}

func (h *Hooks) Cleared() {
	if h.l == nil {
		return
	}
	h.l.Debug("slotcache.cleared")
}

func (h *Hooks) ObserverAdded(count int) {
	if h.l == nil {
		return
	}
	h.l.Debug("slotcache.observer_added",
		"observers", count)
}

func (h *Hooks) ObserverRemoved(count int) {
	if h.l == nil {
		return
	}
	h.l.Debug("slotcache.observer_removed",
		"observers", count)
}
