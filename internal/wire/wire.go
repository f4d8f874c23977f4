// Package wire frames slot values for storage in a shared byte store.
// The envelope makes foreign or truncated entries detectable: decode is
// strict (magic, version, kind, exact length) and anything that fails is
// treated as corruption, never decoded into garbage.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version   byte = 1
	kindValue byte = 1
)

var (
	ErrCorrupt = errors.New("slotcache: corrupt entry")
	magic4     = [...]byte{'S', 'L', 'O', 'T'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Value: magic(4) | ver(1) | kind(1=value) | storedAt(u64 be, unix nanos) |
// vlen(u32 be) | payload(vlen)
func EncodeValue(storedAt uint64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindValue)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], storedAt)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeValue validates the envelope and returns the stored-at stamp and
// the payload. Trailing bytes are rejected.
func DecodeValue(b []byte) (storedAt uint64, payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindValue {
		return 0, nil, ErrCorrupt
	}

	off := 6

	storedAt = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off {
		return 0, nil, ErrCorrupt
	}

	return storedAt, b[off : off+vlen], nil
}
