package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateAccountNumber produces a 10-digit numeric account number.
// The first digit is never zero so the number always has 10 significant digits.
func GenerateAccountNumber() (string, error) {
	first, err := rand.Int(rand.Reader, big.NewInt(9))
	if err != nil {
		return "", fmt.Errorf("failed to generate account number: %w", err)
	}
	rest, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate account number: %w", err)
	}
	return fmt.Sprintf("%d%09d", first.Int64()+1, rest.Int64()), nil
}
