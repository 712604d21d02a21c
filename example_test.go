package fpe_test

import (
	"fmt"
	"math/big"

	"github.com/verygoodsecurity/FPE"
)

// This example builds a cipher over a 7-digit integer domain and encrypts
// a sample value, then recovers it by decrypting with the same key and
// tweak.
func Example() {
	space, err := fpe.NewIntegerMessageSpace(big.NewInt(9999999))
	if err != nil {
		panic(err)
	}
	cipher, err := fpe.NewFFXIntegerCipher(space)
	if err != nil {
		panic(err)
	}

	key, err := fpe.NewKey(make([]byte, 16))
	if err != nil {
		panic(err)
	}
	tweak := []byte("customer-id")

	ciphertext, err := cipher.Encrypt(big.NewInt(1234567), key, tweak)
	if err != nil {
		panic(err)
	}

	plaintext, err := cipher.Decrypt(ciphertext, key, tweak)
	if err != nil {
		panic(err)
	}
	fmt.Println(plaintext)
	// Output: 1234567
}
