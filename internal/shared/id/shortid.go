package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// codeAlphabet leaves out characters that are easily confused when an
	// order code is read over the phone (0/O, 1/I/L, 2/Z, 5/S, 6/G).
	codeAlphabet = "ABCDEFHJKMNPQRTUVWXY3479"

	DefaultLength     = 12
	OrderCodeLength   = 5
	OrderSecretLength = 16
)

func generate(chars string, length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	max := big.NewInt(int64(len(chars)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = chars[n.Int64()]
	}
	return string(result), nil
}

// Generate creates a random URL-safe Base62 string.
func Generate(length int) (string, error) {
	return generate(alphabet, length)
}

// NewOrderCode returns a short uppercase code customers quote in support
// requests and bank transfer references.
func NewOrderCode() (string, error) {
	return generate(codeAlphabet, OrderCodeLength)
}

// NewOrderSecret returns the token that authorizes access to the public
// order page.
func NewOrderSecret() (string, error) {
	return generate(alphabet[:36], OrderSecretLength)
}
