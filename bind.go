package slotcache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/slotcache/codec"
	"github.com/unkn0wn-root/slotcache/internal/wire"
	"github.com/unkn0wn-root/slotcache/store"
)

// StoreFuncs binds a byte store at a fixed key into a retrieve/persist
// collaborator pair, which is how a slot front-ends Redis, BigCache or
// Ristretto:
//
//	retrieve, persist := slotcache.StoreFuncs[Profile](rds, "profile:current", codec.JSON[Profile]{}, 0)
//	slot := slotcache.New[Profile](slotcache.Options[Profile]{Retrieve: retrieve, Persist: persist})
//
// Retrieve treats a corrupt or foreign entry as a miss and deletes it
// (self-heal) rather than surfacing an error; store/transport errors pass
// through. Persist frames the encoded value in the wire envelope; a Set
// rejected under pressure returns ErrStoreRejected so the caller of
// Store/Sync knows the write-through did not land.
//
// ttl is handed to the store on every persist; 0 means no expiry where the
// store supports that.
func StoreFuncs[V any](st store.Store, key string, cdc codec.Codec[V], ttl time.Duration) (RetrieveFunc[V], PersistFunc[V]) {
	retrieve := func(ctx context.Context) (V, bool, error) {
		var zero V
		raw, ok, err := st.Get(ctx, key)
		if err != nil || !ok {
			return zero, false, err
		}
		_, payload, err := wire.DecodeValue(raw)
		if err != nil {
			_ = st.Del(ctx, key) // self-heal corrupt
			return zero, false, nil
		}
		v, err := cdc.Decode(payload)
		if err != nil {
			_ = st.Del(ctx, key) // self-heal
			return zero, false, nil
		}
		return v, true, nil
	}

	persist := func(ctx context.Context, v V) error {
		payload, err := cdc.Encode(v)
		if err != nil {
			return err
		}
		framed := wire.EncodeValue(uint64(time.Now().UnixNano()), payload)
		ok, err := st.Set(ctx, key, framed, ttl)
		if err != nil {
			return err
		}
		if !ok {
			return ErrStoreRejected
		}
		return nil
	}

	return retrieve, persist
}
