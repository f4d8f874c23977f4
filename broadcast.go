package slotcache

import (
	"sync"
)

// broadcaster fans committed values out to observers. publish is called
// while the slot's lock is held, so it must never block: each observer owns
// an unbounded pending queue drained by its own pump goroutine, and a slow
// reader only grows its own queue.
type broadcaster[V any] struct {
	mu     sync.Mutex
	obs    map[uint64]*observer[V]
	nextID uint64
	buf    int
	closed bool
	hooks  Hooks
}

type observer[V any] struct {
	mu      sync.Mutex
	pending []V

	wake     chan struct{} // cap 1; coalesced "queue non-empty" signal
	stop     chan struct{}
	stopOnce sync.Once
	out      chan V
}

// halt stops the pump. Safe to call from both cancel and broadcaster.close.
func (o *observer[V]) halt() {
	o.stopOnce.Do(func() { close(o.stop) })
}

func newBroadcaster[V any](buf int, hooks Hooks) *broadcaster[V] {
	return &broadcaster[V]{
		obs:   make(map[uint64]*observer[V]),
		buf:   buf,
		hooks: hooks,
	}
}

// publish enqueues v for every observer, in registration-independent but
// per-observer FIFO order. Called under the slot's lock, which is what
// gives every observer the same total order of commits.
func (b *broadcaster[V]) publish(v V) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.obs {
		o.enqueue(v)
	}
}

func (b *broadcaster[V]) subscribe() (<-chan V, CancelFunc) {
	o := &observer[V]{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		out:  make(chan V, b.buf),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(o.out)
		return o.out, func() {}
	}
	id := b.nextID
	b.nextID++
	b.obs[id] = o
	n := len(b.obs)
	b.mu.Unlock()

	b.hooks.ObserverAdded(n)
	go o.pump()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			_, present := b.obs[id]
			delete(b.obs, id)
			n := len(b.obs)
			b.mu.Unlock()
			o.halt()
			if present {
				b.hooks.ObserverRemoved(n)
			}
		})
	}
	return o.out, cancel
}

// close detaches every observer and closes their channels.
func (b *broadcaster[V]) close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	obs := b.obs
	b.obs = make(map[uint64]*observer[V])
	b.mu.Unlock()

	for _, o := range obs {
		o.halt()
	}
}

func (o *observer[V]) enqueue(v V) {
	o.mu.Lock()
	o.pending = append(o.pending, v)
	o.mu.Unlock()
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// pump moves values from the pending queue to the out channel until the
// observer is cancelled. out is closed exactly once, here.
func (o *observer[V]) pump() {
	defer close(o.out)
	for {
		select {
		case <-o.wake:
		case <-o.stop:
			return
		}
		for {
			o.mu.Lock()
			if len(o.pending) == 0 {
				o.mu.Unlock()
				break
			}
			v := o.pending[0]
			o.pending = o.pending[1:]
			o.mu.Unlock()

			select {
			case o.out <- v:
			case <-o.stop:
				return
			}
		}
	}
}
