package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"adsbot/domain/interfaces"
)

// cryptoNumberSource draws uniform random integers from crypto/rand
type cryptoNumberSource struct{}

// NewCryptoNumberSource returns the production randomness source for draws
func NewCryptoNumberSource() interfaces.NumberSource {
	return cryptoNumberSource{}
}

// Int64N returns a uniform random integer in [0, max)
func (cryptoNumberSource) Int64N(max int64) (int64, error) {
	if max <= 0 {
		return 0, fmt.Errorf("max must be positive, got %d", max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random number: %w", err)
	}
	return n.Int64(), nil
}
