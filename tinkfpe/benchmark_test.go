package tinkfpe

import (
	cryptorand "crypto/rand"
	"math/big"
	"testing"

	"github.com/google/tink/go/keyset"

	fpe "github.com/verygoodsecurity/FPE"
)

func newBenchSpace(max int64) (fpe.MessageSpace[*big.Int], error) {
	return fpe.NewIntegerMessageSpace(big.NewInt(max))
}

// BenchmarkEncrypt benchmarks Encrypt over domains of varying bit width.
func BenchmarkEncrypt(b *testing.B) {
	if _, err := getOrRegisterKeyManager(); err != nil {
		b.Fatalf("Failed to register KeyManager: %v", err)
	}

	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		b.Fatalf("Failed to create keyset handle: %v", err)
	}

	domains := []struct {
		name string
		max  int64
	}{
		{"4digits_10k", 9999},
		{"10digits_10B", 9999999999},
		{"16digits", 9999999999999999},
	}

	for _, d := range domains {
		b.Run(d.name, func(b *testing.B) {
			space, err := newBenchSpace(d.max)
			if err != nil {
				b.Fatalf("newBenchSpace: %v", err)
			}
			cipher, err := New(handle, space, []byte("benchmark-tweak"))
			if err != nil {
				b.Fatalf("Failed to create cipher: %v", err)
			}
			plaintext := big.NewInt(d.max / 2)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := cipher.Encrypt(plaintext); err != nil {
					b.Fatalf("Encrypt failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkRoundTrip benchmarks the full encrypt-decrypt cycle.
func BenchmarkRoundTrip(b *testing.B) {
	if _, err := getOrRegisterKeyManager(); err != nil {
		b.Fatalf("Failed to register KeyManager: %v", err)
	}

	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		b.Fatalf("Failed to create keyset handle: %v", err)
	}

	space, err := newBenchSpace(9999999999)
	if err != nil {
		b.Fatalf("newBenchSpace: %v", err)
	}
	cipher, err := New(handle, space, []byte("benchmark-tweak"))
	if err != nil {
		b.Fatalf("Failed to create cipher: %v", err)
	}
	plaintext := big.NewInt(1234567890)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ciphertext, err := cipher.Encrypt(plaintext)
		if err != nil {
			b.Fatalf("Encrypt failed: %v", err)
		}
		if _, err := cipher.Decrypt(ciphertext); err != nil {
			b.Fatalf("Decrypt failed: %v", err)
		}
	}
}

// BenchmarkTweakVariations benchmarks performance with different tweak
// lengths.
func BenchmarkTweakVariations(b *testing.B) {
	if _, err := getOrRegisterKeyManager(); err != nil {
		b.Fatalf("Failed to register KeyManager: %v", err)
	}

	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		b.Fatalf("Failed to create keyset handle: %v", err)
	}

	space, err := newBenchSpace(9999999999)
	if err != nil {
		b.Fatalf("newBenchSpace: %v", err)
	}
	plaintext := big.NewInt(1234567890)

	longTweak := make([]byte, 64)
	cryptorand.Read(longTweak)

	tweaks := []struct {
		name  string
		value []byte
	}{
		{"Empty", []byte{}},
		{"Short", []byte("short")},
		{"Medium", []byte("medium-tweak-16b")},
		{"Long_64bytes", longTweak},
	}

	for _, tw := range tweaks {
		b.Run(tw.name, func(b *testing.B) {
			cipher, err := New(handle, space, tw.value)
			if err != nil {
				b.Fatalf("Failed to create cipher: %v", err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := cipher.Encrypt(plaintext); err != nil {
					b.Fatalf("Encrypt failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkConcurrent benchmarks concurrent use of a single Cipher.
func BenchmarkConcurrent(b *testing.B) {
	if _, err := getOrRegisterKeyManager(); err != nil {
		b.Fatalf("Failed to register KeyManager: %v", err)
	}

	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		b.Fatalf("Failed to create keyset handle: %v", err)
	}

	space, err := newBenchSpace(9999999999)
	if err != nil {
		b.Fatalf("newBenchSpace: %v", err)
	}
	cipher, err := New(handle, space, []byte("benchmark-tweak"))
	if err != nil {
		b.Fatalf("Failed to create cipher: %v", err)
	}
	plaintext := big.NewInt(1234567890)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := cipher.Encrypt(plaintext); err != nil {
				b.Fatalf("Encrypt failed: %v", err)
			}
		}
	})
}

// BenchmarkRandomInputs benchmarks with random inputs, a more realistic
// workload than a fixed repeated value.
func BenchmarkRandomInputs(b *testing.B) {
	if _, err := getOrRegisterKeyManager(); err != nil {
		b.Fatalf("Failed to register KeyManager: %v", err)
	}

	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		b.Fatalf("Failed to create keyset handle: %v", err)
	}

	space, err := newBenchSpace(9999999999)
	if err != nil {
		b.Fatalf("newBenchSpace: %v", err)
	}
	cipher, err := New(handle, space, []byte("benchmark-tweak"))
	if err != nil {
		b.Fatalf("Failed to create cipher: %v", err)
	}

	inputs := make([]*big.Int, 1000)
	for i := range inputs {
		n, err := cryptorand.Int(cryptorand.Reader, big.NewInt(9999999999))
		if err != nil {
			b.Fatalf("rand.Int: %v", err)
		}
		inputs[i] = n
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cipher.Encrypt(inputs[i%len(inputs)]); err != nil {
			b.Fatalf("Encrypt failed: %v", err)
		}
	}
}
