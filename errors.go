package slotcache

import (
	"errors"
)

// ErrStoreRejected reports that a byte store refused a write-through Set
// under pressure (store.Store returned ok=false). The value was committed
// nowhere durable; callers may retry or treat the store as best-effort.
var ErrStoreRejected = errors.New("slotcache: store rejected write")
