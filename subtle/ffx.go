// Package subtle provides the low-level FFX-A2 primitives: the AES-CBC-MAC
// round function and the alternating-Feistel driver. It operates on raw
// 16-byte keys and domains up to 128 bits wide; the full register is a
// *big.Int at the Engine's public boundary (Split2/Encrypt/Decrypt), with
// each individual Feistel half kept as a uint64 internally, since every
// half is at most 64 bits wide for domains up to 128 bits. Callers that
// need message spaces, cycle walking, or input validation should use the
// parent fpe package instead.
package subtle

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"math/big"
)

// FFX parameters baked into the precomputed block P, per the FFX-A2
// construction: version 1, alternating-Feistel method, XOR-based addition,
// binary radix.
const (
	vers     = 1
	method   = 2 // alternating Feistel
	addition = 0 // bitwise XOR
	radix    = 2 // binary alphabet

	minLengthBits = 8
	maxLengthBits = 128
)

// KeyLength is the number of key bytes this construction consumes.
const KeyLength = 16

// RoundCount returns the number of Feistel rounds for a domain whose
// bit length is n, per the FFX-A2 round schedule. It returns an error if
// n is too small for the construction to be secure.
func RoundCount(n int) (int, error) {
	switch {
	case n < minLengthBits:
		return 0, fmt.Errorf("domain too small: bit length %d is below the minimum of %d", n, minLengthBits)
	case n <= 9:
		return 36, nil
	case n <= 13:
		return 30, nil
	case n <= 19:
		return 24, nil
	case n <= 31:
		return 18, nil
	default:
		return 12, nil
	}
}

// Engine holds the precomputed, key-dependent state needed to run the FFX
// Feistel driver for one domain bit length. Its key, bit length, split and
// round count are fixed at construction, but encryptedPFor writes its
// AES_K(P) cache into the Engine, so an Engine is not safe for concurrent
// use. The fpe package builds a fresh Engine for every Encrypt/Decrypt call.
type Engine struct {
	block cipher.Block

	lengthBits int
	split      int // size, in bits, of the left half
	rounds     int

	// p is the precomputed block P before encryption; encryptedP caches
	// AES_K(P) per tweak length, since most callers reuse one tweak length
	// across many calls.
	p            [aes.BlockSize]byte
	tweakLen     int
	encryptedP   [aes.BlockSize]byte
	haveEncryptP bool
}

// NewEngine builds an Engine for a domain of the given bit length, using
// key as the raw AES-128 key material (must be exactly KeyLength bytes).
func NewEngine(key []byte, lengthBits int) (*Engine, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("ffx: key must be %d bytes, got %d", KeyLength, len(key))
	}
	if lengthBits < minLengthBits || lengthBits > maxLengthBits {
		return nil, fmt.Errorf("ffx: domain bit length must be in [%d, %d], got %d", minLengthBits, maxLengthBits, lengthBits)
	}

	rounds, err := RoundCount(lengthBits)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("ffx: unable to initialize AES block cipher: %w", err)
	}

	split := (lengthBits + 1) / 2

	e := &Engine{
		block:      block,
		lengthBits: lengthBits,
		split:      split,
		rounds:     rounds,
		tweakLen:   -1,
	}

	P := e.p[:]
	P[0] = 0
	P[1] = vers
	P[2] = method
	P[3] = addition
	P[4] = radix
	P[5] = byte(lengthBits)
	P[6] = byte(split)
	P[7] = byte(rounds)
	// P[8:15] stay zero; P[15] (tweakLen mod 256) is filled in lazily by
	// encryptedPFor, since it depends on the tweak passed at call time.

	return e, nil
}

// Rounds returns the number of Feistel rounds this Engine runs.
func (e *Engine) Rounds() int {
	return e.rounds
}

// Split returns the bit width of the left half A.
func (e *Engine) Split() int {
	return e.split
}

// rightWidth returns the bit width of the right half B.
func (e *Engine) rightWidth() int {
	return e.lengthBits - e.split
}

// encryptedPFor returns AES_K(P) with P's tweak-length byte set for the
// given tweak length, recomputing only when the tweak length changes from
// the last call.
func (e *Engine) encryptedPFor(tweakLen int) [aes.BlockSize]byte {
	if e.haveEncryptP && tweakLen == e.tweakLen {
		return e.encryptedP
	}
	e.p[15] = byte(tweakLen % 256)
	e.block.Encrypt(e.encryptedP[:], e.p[:])
	e.tweakLen = tweakLen
	e.haveEncryptP = true
	return e.encryptedP
}

// roundWidth returns the number of pseudorandom bits RoundFunc must return
// for round i, i.e. the width of the "other" half being XORed.
func (e *Engine) roundWidth(i int) int {
	if e.lengthBits%2 == 0 {
		return e.split
	}
	if i%2 == 0 {
		return e.split
	}
	return e.split - 1
}

// RoundFunc computes the FFX round function for round i over the current
// right half b (the active half's opposite), per spec.md §4.3.3/§4.3.4:
// it builds Q = paddedB || paddedTweak, runs AES-CBC-MAC over Q seeded
// with AES_K(P), and returns the top roundWidth(i) bits of the 128-bit
// MAC output.
func (e *Engine) RoundFunc(i int, b uint64, tweak []byte) uint64 {
	encP := e.encryptedPFor(len(tweak))

	// paddedB: 8 bytes, little-endian, right half is always ≤ 64 bits.
	var paddedB [8]byte
	binary.LittleEndian.PutUint64(paddedB[:], b)

	// paddedTweak: tweak || zeros(pad+1), with the final byte replaced by
	// the round number. pad = ((-tweakLen - 9) mod 16 + 16) mod 16 keeps
	// len(paddedB)+len(paddedTweak) a positive multiple of 16.
	tweakLen := len(tweak)
	pad := (((-tweakLen-9)%16)+16)%16
	padded := make([]byte, tweakLen+pad+1)
	copy(padded, tweak)
	padded[len(padded)-1] = byte(i % 256)

	q := make([]byte, 0, len(paddedB)+len(padded))
	q = append(q, paddedB[:]...)
	q = append(q, padded...)

	mac := cbcMAC(e.block, encP, q)

	// mac, read as a little-endian 128-bit integer, has its most significant
	// bits in the upper half; mac[8:16] read little-endian is exactly that
	// upper 64-bit word, so its own top `width` bits are the MAC's top
	// `width` bits overall.
	out := binary.LittleEndian.Uint64(mac[8:16])
	width := e.roundWidth(i)
	return out >> uint(64-width)
}

// cbcMAC runs AES-CBC-MAC over s (whose length must be a positive multiple
// of 16) starting from the chaining value iv, returning the final 16-byte
// block. iv is AES_K(P) rather than the all-zero IV used by the plain
// AES-CBC-MAC primitive of spec.md §4.2: the FFX round function chains
// through the precomputed block instead of starting cold.
func cbcMAC(block cipher.Block, iv [aes.BlockSize]byte, s []byte) [aes.BlockSize]byte {
	var in, out [aes.BlockSize]byte
	out = iv
	for len(s) >= aes.BlockSize {
		subtle.XORBytes(in[:], out[:], s[:aes.BlockSize])
		block.Encrypt(out[:], in[:])
		s = s[aes.BlockSize:]
	}
	return out
}

// CBCMAC implements the plain AES-CBC-MAC primitive of spec.md §4.2: AES-128
// in CBC mode, zero IV, no padding, returning only the final ciphertext
// block. in must be a positive multiple of 16 bytes.
func CBCMAC(key, in []byte) ([]byte, error) {
	if len(in) == 0 || len(in)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ffx: CBC-MAC input must be a positive multiple of %d bytes, got %d", aes.BlockSize, len(in))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("ffx: unable to initialize AES block cipher: %w", err)
	}
	var zeroIV [aes.BlockSize]byte
	out := cbcMAC(block, zeroIV, in)
	return out[:], nil
}

// Encrypt runs the r-round alternating-Feistel encryption pass over a and b
// (the left and right halves, a holding Split() bits and b holding
// lengthBits-Split() bits), returning the recombined lengthBits-bit integer.
// lengthBits can be up to 128, so the recombined value is returned as a
// *big.Int even though each half fits in a uint64 (Split() and
// lengthBits-Split() are each at most 64 for lengthBits <= 128).
func (e *Engine) Encrypt(a, b uint64, tweak []byte) *big.Int {
	for i := 0; i < e.rounds; i++ {
		f := e.RoundFunc(i, b, tweak)
		a, b = b, a^f
	}
	return e.combine(a, b)
}

// Decrypt runs the r-round alternating-Feistel decryption pass, the exact
// inverse of Encrypt: rounds execute in reverse order, and each round
// evaluates RoundFunc on the half that was XORed on the matching forward
// round, which is what makes the sequence invertible.
func (e *Engine) Decrypt(a, b uint64, tweak []byte) *big.Int {
	for i := e.rounds - 1; i >= 0; i-- {
		f := e.RoundFunc(i, a, tweak)
		a, b = b^f, a
	}
	return e.combine(a, b)
}

// Split2 splits a lengthBits-bit value v into its left half a (Split() bits)
// and right half b (lengthBits-Split() bits), per the little-endian bit
// packing convention of spec.md §6: bit i of the value is bit i of the
// bitset, so the right (low) half occupies the low bits. v is a *big.Int
// since lengthBits can be up to 128, but each returned half is always at
// most 64 bits wide and so fits in a uint64.
func (e *Engine) Split2(v *big.Int) (a, b uint64) {
	rw := e.rightWidth()
	mask := new(big.Int).Lsh(big.NewInt(1), uint(rw))
	mask.Sub(mask, big.NewInt(1))

	bBig := new(big.Int).And(v, mask)
	aBig := new(big.Int).Rsh(v, uint(rw))
	return aBig.Uint64(), bBig.Uint64()
}

// combine reassembles the left half a (Split() bits) and right half b
// (lengthBits-Split() bits) into one integer, with a occupying the high
// bits and b the low bits. The result can be up to 128 bits wide, so it is
// returned as a *big.Int.
func (e *Engine) combine(a, b uint64) *big.Int {
	rw := e.rightWidth()
	result := new(big.Int).Lsh(new(big.Int).SetUint64(a), uint(rw))
	result.Or(result, new(big.Int).SetUint64(b))
	return result
}
