// Package tinkfpe provides Tink integration for Format-Preserving Encryption.
// This file contains the factory function for creating FPE ciphers from
// Tink keyset handles.
package tinkfpe

import (
	"fmt"
	"math/big"

	"github.com/google/tink/go/insecurecleartextkeyset"
	"github.com/google/tink/go/keyset"

	fpe "github.com/verygoodsecurity/FPE"
)

// Cipher is a keyset-backed FFX integer cipher with a tweak fixed at
// construction, so callers that obtained a key through Tink only ever
// supply the value to transform.
type Cipher struct {
	bound fpe.Cipher
	tweak []byte
}

// Encrypt maps plaintext to ciphertext under the keyset's key and New's
// tweak.
func (c *Cipher) Encrypt(plaintext *big.Int) (*big.Int, error) {
	return c.bound.Encrypt(plaintext, c.tweak)
}

// Decrypt maps ciphertext back to the plaintext that produced it.
func (c *Cipher) Decrypt(ciphertext *big.Int) (*big.Int, error) {
	return c.bound.Decrypt(ciphertext, c.tweak)
}

// New creates a new FPE Cipher from a Tink keyset handle and a message
// space. This is the main entry point for users following Tink's pattern.
//
// Example:
//
//	handle, err := keyset.NewHandle(tinkfpe.KeyTemplate())
//	if err != nil {
//	    return err
//	}
//	space, err := fpe.NewIntegerMessageSpace(big.NewInt(9999999))
//	if err != nil {
//	    return err
//	}
//	cipher, err := tinkfpe.New(handle, space, []byte("tweak"))
//	if err != nil {
//	    return err
//	}
//	ciphertext, err := cipher.Encrypt(big.NewInt(1234567))
func New(handle *keyset.Handle, space fpe.MessageSpace[*big.Int], tweak []byte) (*Cipher, error) {
	if handle == nil {
		return nil, fmt.Errorf("keyset handle cannot be nil")
	}

	keyBytes, err := primaryKeyBytes(handle)
	if err != nil {
		return nil, err
	}

	key, err := fpe.NewKey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to build key: %w", err)
	}

	cipher, err := fpe.NewFFXIntegerCipher(space)
	if err != nil {
		return nil, fmt.Errorf("failed to build cipher: %w", err)
	}

	return &Cipher{bound: fpe.BindKey(cipher, key), tweak: tweak}, nil
}

// primaryKeyBytes extracts the raw key material for a keyset handle's
// primary key, following the same Primitives/KeyID/KeysetMaterial path Tink
// uses internally to resolve a primitive.
func primaryKeyBytes(handle *keyset.Handle) ([]byte, error) {
	primitives, err := handle.Primitives()
	if err != nil {
		return nil, fmt.Errorf("failed to get primitives from handle: %w", err)
	}

	primary := primitives.Primary
	if primary == nil {
		return nil, fmt.Errorf("no primary key found in keyset")
	}

	keyID := primary.KeyID
	if keyID == 0 {
		return nil, fmt.Errorf("invalid key ID in primary entry")
	}

	ks := insecurecleartextkeyset.KeysetMaterial(handle)

	for _, key := range ks.Key {
		if key.KeyId != keyID {
			continue
		}
		keyData := key.KeyData
		if keyData == nil {
			continue
		}

		switch keyData.GetKeyMaterialType().String() {
		case "ENCRYPTED":
			return nil, fmt.Errorf("encrypted keys via KMS are not yet supported - use symmetric keys")
		case "SYMMETRIC":
			return keyData.Value, nil
		}
	}

	return nil, fmt.Errorf("key with ID %d not found or unsupported key type", keyID)
}
