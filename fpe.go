// Package fpe implements a Format-Preserving Encryption core for integer
// domains, using the FFX-A2 alternating-Feistel construction over an
// AES-CBC-MAC pseudorandom function. Given a message space of order N and
// a 16-byte key, FFXIntegerCipher provides a keyed, tweakable bijection on
// [0, N-1]: encryption maps any plaintext in the domain to a ciphertext in
// the same domain, and decryption inverts the mapping with the same key
// and tweak.
//
// The low-level round function and Feistel driver live in the subtle
// package; this package adds message-space validation and the
// cycle-walking loop that confines the driver's 2^n-domain output to an
// arbitrary N.
//
// Example usage:
//
//	space, err := fpe.NewIntegerMessageSpace(big.NewInt(999999))
//	if err != nil {
//		log.Fatal(err)
//	}
//	cipher, err := fpe.NewFFXIntegerCipher(space)
//	if err != nil {
//		log.Fatal(err)
//	}
//	key, _ := fpe.NewKey(rawKeyBytes)
//	ciphertext, err := cipher.Encrypt(big.NewInt(12345), key, []byte("tenant-1234"))
package fpe

import (
	"fmt"
	"math/big"

	"github.com/verygoodsecurity/FPE/internal/obslog"
	"github.com/verygoodsecurity/FPE/subtle"
)

// maxWalkIterations bounds the cycle-walking loop. Expected iterations are
// ≤ 2 (spec.md §4.4); this cap exists purely to bound latency against a
// degenerate or adversarial message space, per spec.md §7's implementer
// MAY, and is not part of the core contract.
const maxWalkIterations = 1024

// longWalkThreshold is the iteration count past which a walk is reported
// to the diagnostic logger, even though it hasn't hit the cap yet.
const longWalkThreshold = 16

// FFXIntegerCipher is a keyed, tweakable bijection on an integer message
// space, built from the FFX-A2 Feistel construction with cycle walking.
type FFXIntegerCipher struct {
	space MessageSpace[*big.Int]
	n     int
}

// NewFFXIntegerCipher builds a cipher over space. It rejects space with
// ErrIllegalArgument if bitLength(space.Order()) is outside [8, 128].
func NewFFXIntegerCipher(space MessageSpace[*big.Int]) (*FFXIntegerCipher, error) {
	if space == nil {
		return nil, fmt.Errorf("%w: message space must not be nil", ErrIllegalArgument)
	}
	n := bitLength(space.Order())
	if n < 8 || n > 128 {
		return nil, fmt.Errorf("%w: message space bit length must be in [8, 128], got %d", ErrIllegalArgument, n)
	}
	return &FFXIntegerCipher{space: space, n: n}, nil
}

// Encrypt maps plaintext (a value in the cipher's message space) to a
// ciphertext in the same space, using key and tweak. Decrypt with the same
// key and tweak recovers plaintext.
func (c *FFXIntegerCipher) Encrypt(plaintext *big.Int, key *Key, tweak []byte) (*big.Int, error) {
	x, engine, err := c.prepare(plaintext, key, tweak)
	if err != nil {
		return nil, err
	}
	return c.walk(x, engine, tweak, engine.Encrypt)
}

// Decrypt maps ciphertext back to the plaintext that produced it under the
// same key and tweak.
func (c *FFXIntegerCipher) Decrypt(ciphertext *big.Int, key *Key, tweak []byte) (*big.Int, error) {
	x, engine, err := c.prepare(ciphertext, key, tweak)
	if err != nil {
		return nil, err
	}
	return c.walk(x, engine, tweak, engine.Decrypt)
}

// maxTweakLen is the largest tweak length this core accepts. The FFX round
// function packs tweakLen mod 256 into a single byte of the precomputed
// block P (spec.md §4.3.2),
// which loses information for any tweak past 255 bytes; spec.md §9 flags
// this as an Open Question implementers must resolve rather than silently
// truncate, so tweaks beyond this length are rejected outright.
const maxTweakLen = 255

// prepare validates inputs per spec.md §6 ("input ≠ null; input ≥ 0; input
// ≤ maxValue; key ≠ null; tweak ≠ null") and ranks the value into its
// integer representation, building the engine for this cipher's bit
// length.
func (c *FFXIntegerCipher) prepare(value *big.Int, key *Key, tweak []byte) (*big.Int, *subtle.Engine, error) {
	if value == nil {
		return nil, nil, fmt.Errorf("%w: value must not be nil", ErrIllegalArgument)
	}
	if key == nil {
		return nil, nil, fmt.Errorf("%w: key must not be nil", ErrIllegalArgument)
	}
	if tweak == nil {
		return nil, nil, fmt.Errorf("%w: tweak must not be nil (pass an empty slice for no tweak)", ErrIllegalArgument)
	}
	if len(tweak) > maxTweakLen {
		return nil, nil, fmt.Errorf("%w: tweak must be at most %d bytes, got %d", ErrIllegalArgument, maxTweakLen, len(tweak))
	}
	rank, err := c.space.Rank(value)
	if err != nil {
		return nil, nil, err
	}

	engine, err := subtle.NewEngine(key.Bytes(), c.n)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w: %w", ErrIllegalArgument, ErrSecurityFailure, err)
	}
	return rank, engine, nil
}

// walk runs the cycle-walking loop of spec.md §4.4: repeatedly apply pass
// (the full Feistel encryption or decryption pass, not just its last
// round) until the result falls within the message space's order. x and
// every pass result are full lengthBits-bit values, up to 128 bits wide;
// only the individual Feistel halves handed to pass are narrowed to
// uint64.
func (c *FFXIntegerCipher) walk(x *big.Int, engine *subtle.Engine, tweak []byte, pass func(a, b uint64, tweak []byte) *big.Int) (*big.Int, error) {
	maxRank := new(big.Int).Sub(c.space.Order(), big.NewInt(1))

	for i := 1; i <= maxWalkIterations; i++ {
		a, b := engine.Split2(x)
		x = pass(a, b, tweak)

		if x.Cmp(maxRank) <= 0 {
			if i > longWalkThreshold {
				obslog.New().LongWalk(i, maxWalkIterations)
			}
			return c.space.Unrank(x)
		}
	}

	obslog.New().CapExceeded(maxWalkIterations)
	return nil, fmt.Errorf("%w: no in-range result after %d cycle-walking iterations", ErrIterationLimitExceeded, maxWalkIterations)
}
