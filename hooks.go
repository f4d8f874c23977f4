package slotcache

// Hooks are lightweight callbacks for high-signal slot events.
// Implementations MUST be cheap and non-blocking; the slot calls them while
// holding its lock. Wrap with hooks/async if an implementation may stall.
type Hooks interface {
	// A retrieve collaborator returned an error.
	// op ∈ {"get", "refresh", "sync"}
	RetrieveError(op string, err error)

	// A persist collaborator returned an error.
	// op ∈ {"store", "sync"}
	PersistError(op string, err error)

	// A value was committed to memory (and broadcast to observers).
	// op ∈ {"get", "store", "refresh", "sync"}
	Committed(op string)

	// The slot's value was dropped by Clear.
	Cleared()

	// Observer registered/detached; count is the number now attached.
	ObserverAdded(count int)
	ObserverRemoved(count int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) RetrieveError(string, error) {}
func (NopHooks) PersistError(string, error)  {}
func (NopHooks) Committed(string)            {}
func (NopHooks) Cleared()                    {}
func (NopHooks) ObserverAdded(int)           {}
func (NopHooks) ObserverRemoved(int)         {}
