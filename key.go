package fpe

import "fmt"

// keyLength is the number of raw key bytes this core consumes, per
// spec.md §3: exactly 16 bytes (128 bits) for AES-128.
const keyLength = 16

// Key is an opaque handle over raw AES key material, per spec.md §3's
// Key data-model entry. The teacher's FF1 took a bare []byte at every call
// site; this type exists so the "first 16 bytes used, fewer is fatal" rule
// is enforced once, at construction, instead of being re-checked by every
// caller.
type Key struct {
	raw [keyLength]byte
}

// NewKey builds a Key from raw key bytes. If raw carries more than 16
// bytes, only the first 16 are used; fewer than 16 is a fatal argument
// error.
func NewKey(raw []byte) (*Key, error) {
	if len(raw) < keyLength {
		return nil, fmt.Errorf("%w: key must be at least %d bytes, got %d", ErrIllegalArgument, keyLength, len(raw))
	}
	k := &Key{}
	copy(k.raw[:], raw[:keyLength])
	return k, nil
}

// Bytes returns the 16 key bytes this core uses for AES.
func (k *Key) Bytes() []byte {
	return k.raw[:]
}
