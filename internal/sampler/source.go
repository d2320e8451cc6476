package sampler

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
)

// Source yields uniformly distributed integers in [0, max).
type Source interface {
	Int(max *big.Int) (*big.Int, error)
}

// CryptoSource draws from crypto/rand.
type CryptoSource struct{}

func (CryptoSource) Int(max *big.Int) (*big.Int, error) {
	if max == nil || max.Sign() <= 0 {
		return nil, fmt.Errorf("random bound must be positive")
	}
	return rand.Int(rand.Reader, max)
}

// SeededSource is a deterministic source for reproducible draws.
// It is not safe for concurrent use.
type SeededSource struct {
	rnd *mrand.Rand
}

func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{rnd: mrand.New(mrand.NewSource(seed))}
}

func (s *SeededSource) Int(max *big.Int) (*big.Int, error) {
	if max == nil || max.Sign() <= 0 {
		return nil, fmt.Errorf("random bound must be positive")
	}
	return new(big.Int).Rand(s.rnd, max), nil
}
