package reveal

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// SeedLen is the size of one reveal seed in bytes.
	SeedLen = 32

	// HKDFWithinInfo labels the rotation draw.
	HKDFWithinInfo = "libmint-reveal-within"

	// HKDFOverallInfo labels the slot draw.
	HKDFOverallInfo = "libmint-reveal-overall"
)

// EntropySource supplies one unpredictable seed per reveal.
type EntropySource interface {
	Entropy(ctx context.Context) ([SeedLen]byte, error)
}

// CryptoEntropy reads seeds from crypto/rand.
type CryptoEntropy struct{}

// Entropy returns 32 fresh random bytes.
func (CryptoEntropy) Entropy(ctx context.Context) ([SeedLen]byte, error) {
	var seed [SeedLen]byte
	if err := ctx.Err(); err != nil {
		return seed, err
	}
	if _, err := rand.Read(seed[:]); err != nil {
		return seed, fmt.Errorf("%w: %w", ErrEntropy, err)
	}
	return seed, nil
}

// EntropyFunc adapts a plain function to EntropySource.
type EntropyFunc func(ctx context.Context) ([SeedLen]byte, error)

// Entropy calls f.
func (f EntropyFunc) Entropy(ctx context.Context) ([SeedLen]byte, error) { return f(ctx) }

// drawer produces uniform integers from an HKDF stream.
type drawer struct {
	r io.Reader
}

// newDrawer expands seed with the batch number as salt. Each info label yields
// an independent stream.
func newDrawer(seed [SeedLen]byte, batch uint64, info string) *drawer {
	var salt [8]byte
	binary.BigEndian.PutUint64(salt[:], batch)
	return &drawer{r: hkdf.New(sha256.New, seed[:], salt[:], []byte(info))}
}

// uniform returns a value in [0, n) with no modulo bias. Words below
// 2^64 mod n are rejected so every residue has the same number of preimages.
func (d *drawer) uniform(n uint64) (uint64, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: empty range", ErrEntropy)
	}
	threshold := -n % n
	var buf [8]byte
	for {
		if _, err := io.ReadFull(d.r, buf[:]); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrEntropy, err)
		}
		v := binary.BigEndian.Uint64(buf[:])
		if v >= threshold {
			return v % n, nil
		}
	}
}
