package tinkfpe

import (
	"github.com/google/tink/go/core/registry"
)

// getOrRegisterKeyManager returns a KeyManager instance, registering it
// with Tink's registry first if no manager is yet registered for its type
// URL.
func getOrRegisterKeyManager() (*KeyManager, error) {
	keyManager := NewKeyManager()

	if _, err := registry.GetKeyManager(FPEKeyTypeURL); err == nil {
		return keyManager, nil
	}

	if err := registry.RegisterKeyManager(keyManager); err != nil {
		return nil, err
	}

	return keyManager, nil
}
