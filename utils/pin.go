package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateBookingPIN returns a secure random 5-digit PIN, issued once a
// booking payment is captured and used for in-person verification.
func GenerateBookingPIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		return "", fmt.Errorf("failed to generate PIN: %w", err)
	}
	return fmt.Sprintf("%05d", n.Int64()), nil
}
