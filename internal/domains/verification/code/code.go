// Package code generates one-time verification codes.
package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeSpace = 1000000

// Generate returns a uniformly random 6 digit code, keeping leading
// zeros.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
