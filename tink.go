// Package fpe implements FFX-A2 format-preserving encryption over integer
// domains. This file defines the Cipher interface for Tink integration.
// For Tink integration, see the tinkfpe package.

package fpe

import "math/big"

// Cipher is a Tink-compatible interface for format-preserving encryption of
// integer domains. This follows Tink's primitive pattern, similar to
// tink.DeterministicAEAD. A Cipher is deterministic: the same plaintext,
// tweak, and key always produce the same ciphertext.
type Cipher interface {
	// Encrypt maps plaintext to a ciphertext in the same message space.
	// This is deterministic: same input always produces the same output.
	Encrypt(plaintext *big.Int, tweak []byte) (*big.Int, error)

	// Decrypt maps ciphertext back to the plaintext that produced it under
	// the same tweak. This is the inverse of Encrypt.
	Decrypt(ciphertext *big.Int, tweak []byte) (*big.Int, error)
}

var _ Cipher = (*boundCipher)(nil)

// boundCipher adapts an FFXIntegerCipher and a fixed Key into the Cipher
// interface, so callers that obtained a key through Tink (see tinkfpe) get
// the same two-argument Encrypt/Decrypt shape as any other Tink primitive.
type boundCipher struct {
	cipher *FFXIntegerCipher
	key    *Key
}

// BindKey returns a Cipher that always encrypts/decrypts with key, so
// callers only need to supply plaintext/ciphertext and tweak per call.
func BindKey(cipher *FFXIntegerCipher, key *Key) Cipher {
	return &boundCipher{cipher: cipher, key: key}
}

func (b *boundCipher) Encrypt(plaintext *big.Int, tweak []byte) (*big.Int, error) {
	return b.cipher.Encrypt(plaintext, b.key, tweak)
}

func (b *boundCipher) Decrypt(ciphertext *big.Int, tweak []byte) (*big.Int, error) {
	return b.cipher.Decrypt(ciphertext, b.key, tweak)
}
