package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateNumericOTP returns a code of exactly the given number of digits with no leading zero.
func GenerateNumericOTP(digits int) (string, error) {
	if digits < 1 || digits > 9 {
		return "", fmt.Errorf("unsupported otp length %d", digits)
	}
	low := int64(1)
	for i := 1; i < digits; i++ {
		low *= 10
	}
	span := low*10 - low
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", fmt.Errorf("failed to generate random otp: %w", err)
	}
	return fmt.Sprintf("%d", low+n.Int64()), nil
}
