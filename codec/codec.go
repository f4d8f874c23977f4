// Package codec provides the serialization layer between a slot's value
// type and the bytes its persistence store holds.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
