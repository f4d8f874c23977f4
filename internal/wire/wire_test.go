package wire

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestValueRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"1"}`)
	b := EncodeValue(12345, payload)

	stamp, got, err := DecodeValue(b)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if stamp != 12345 {
		t.Fatalf("stamp = %d, want 12345", stamp)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: got %q", got)
	}
}

func TestValueEmptyPayload(t *testing.T) {
	b := EncodeValue(0, nil)
	_, got, err := DecodeValue(b)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("payload = %q, want empty", got)
	}
}

func TestDecodeRejectsTrailing(t *testing.T) {
	b := EncodeValue(1, []byte("x"))
	b = append(b, 0xEE)
	if _, _, err := DecodeValue(b); err != ErrCorrupt {
		t.Fatalf("trailing bytes: err = %v, want ErrCorrupt", err)
	}
}

func TestDecodeRejectsCorrupt(t *testing.T) {
	good := EncodeValue(7, []byte("payload"))

	cases := []struct {
		name string
		b    []byte
	}{
		{"empty", nil},
		{"short", good[:5]},
		{"bad magic", append([]byte("XXXX"), good[4:]...)},
		{"bad version", mutate(good, 4, 0xFF)},
		{"bad kind", mutate(good, 5, 0xFF)},
		{"truncated payload", good[:len(good)-2]},
		{"oversized vlen", mutateVlen(good, 1<<30)},
	}
	for _, tc := range cases {
		if _, _, err := DecodeValue(tc.b); err != ErrCorrupt {
			t.Fatalf("%s: err = %v, want ErrCorrupt", tc.name, err)
		}
	}
}

func mutate(b []byte, i int, v byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	out[i] = v
	return out
}

func mutateVlen(b []byte, vlen uint32) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	binary.BigEndian.PutUint32(out[4+1+1+8:], vlen)
	return out
}
