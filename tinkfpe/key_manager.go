// Package tinkfpe provides Tink registry integration for the FFX integer
// format-preserving cipher in the parent fpe package. It is the
// higher-level wrapper spec.md §1 keeps out of the core: the core takes a
// raw 16-byte key, this package lets that key come from a Tink keyset.
package tinkfpe

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/google/tink/go/core/registry"
	"github.com/google/tink/go/insecurecleartextkeyset"
	"github.com/google/tink/go/keyset"
	"github.com/google/tink/go/proto/tink_go_proto"
	"google.golang.org/protobuf/proto"
)

// FPEKeyTypeURL is the type URL for FFX integer FPE keys in Tink's
// registry.
const FPEKeyTypeURL = "type.googleapis.com/verygoodsecurity.fpe.FfxIntegerKey"

// keyLength is the only key size this construction accepts: AES-128, per
// spec.md §3.
const keyLength = 16

// KeyManager implements registry.KeyManager for FFX integer FPE keys, so
// they can be generated and looked up through Tink's keyset machinery.
type KeyManager struct {
	typeURL string
}

// NewKeyManager creates a new FFX integer FPE key manager.
func NewKeyManager() *KeyManager {
	return &KeyManager{typeURL: FPEKeyTypeURL}
}

// Primitive validates a serialized key and returns its raw bytes. The
// message space isn't known at this layer — the actual cipher is built by
// New, once a space is supplied — so the "primitive" this layer deals in
// is just the validated key material.
func (km *KeyManager) Primitive(serializedKey []byte) (interface{}, error) {
	if len(serializedKey) != keyLength {
		return nil, fmt.Errorf("fpe key must be %d bytes, got %d", keyLength, len(serializedKey))
	}
	key := make([]byte, keyLength)
	copy(key, serializedKey)
	return key, nil
}

// DoesSupport returns true if this KeyManager supports the given key type
// URL.
func (km *KeyManager) DoesSupport(typeURL string) bool {
	return typeURL == km.typeURL
}

// TypeURL returns the type URL of the keys managed by this KeyManager.
func (km *KeyManager) TypeURL() string {
	return km.typeURL
}

// NewKey is not implemented: this key type carries no structured
// protobuf key message, only raw bytes, so key generation goes through
// NewKeyData instead.
func (km *KeyManager) NewKey(serializedKeyTemplate []byte) (proto.Message, error) {
	return nil, fmt.Errorf("tinkfpe: NewKey not supported, use NewKeyData")
}

// NewKeyData generates a fresh random 16-byte key and returns it wrapped
// as Tink KeyData. The template argument is accepted for interface
// compatibility but carries no parameters: there is exactly one supported
// key size.
func (km *KeyManager) NewKeyData(serializedKeyTemplate []byte) (*tink_go_proto.KeyData, error) {
	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate random key: %w", err)
	}
	return &tink_go_proto.KeyData{
		TypeUrl:         km.typeURL,
		Value:           key,
		KeyMaterialType: tink_go_proto.KeyData_SYMMETRIC,
	}, nil
}

var _ registry.KeyManager = (*KeyManager)(nil)

// KeyTemplate returns the key template for FFX integer FPE keys.
//
//	handle, err := keyset.NewHandle(tinkfpe.KeyTemplate())
func KeyTemplate() *tink_go_proto.KeyTemplate {
	return &tink_go_proto.KeyTemplate{
		TypeUrl:          FPEKeyTypeURL,
		OutputPrefixType: tink_go_proto.OutputPrefixType_RAW,
	}
}

// KeyTemplateAES128 is an alias for KeyTemplate, kept for parity with the
// teacher's KeyTemplateAES128/192/256 family. Only one key size is
// supported here, so there is nothing for the other two to name.
func KeyTemplateAES128() *tink_go_proto.KeyTemplate {
	return KeyTemplate()
}

// NewKeysetHandleFromKey creates a keyset handle from a raw 16-byte key,
// e.g. one provisioned by an HSM or an out-of-band key management system
// that isn't a standard Tink KMS client.
//
// Example:
//
//	hsmKey := []byte{...} // 16-byte key from your HSM
//	handle, err := tinkfpe.NewKeysetHandleFromKey(hsmKey)
//	if err != nil {
//		log.Fatal(err)
//	}
//	cipher, err := tinkfpe.New(handle, space, []byte("tweak"))
//
// This creates an unencrypted keyset. In production, consider encrypting
// the keyset before storing it using keyset.Write() with an AEAD.
func NewKeysetHandleFromKey(key []byte) (*keyset.Handle, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("invalid key size: %d bytes (must be %d)", len(key), keyLength)
	}

	keyIDBytes := make([]byte, 4)
	if _, err := rand.Read(keyIDBytes); err != nil {
		return nil, fmt.Errorf("failed to generate key ID: %w", err)
	}
	keyID := binary.BigEndian.Uint32(keyIDBytes)

	keyData := &tink_go_proto.KeyData{
		TypeUrl:         FPEKeyTypeURL,
		Value:           key,
		KeyMaterialType: tink_go_proto.KeyData_SYMMETRIC,
	}

	keysetKey := &tink_go_proto.Keyset_Key{
		KeyData:          keyData,
		KeyId:            keyID,
		Status:           tink_go_proto.KeyStatusType_ENABLED,
		OutputPrefixType: tink_go_proto.OutputPrefixType_RAW,
	}

	ks := &tink_go_proto.Keyset{
		PrimaryKeyId: keyID,
		Key:          []*tink_go_proto.Keyset_Key{keysetKey},
	}

	buf := &keyset.MemReaderWriter{Keyset: ks}
	return insecurecleartextkeyset.Read(buf)
}
