// Package crypto provides cryptographic utilities.
package crypto

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomBytes generates n cryptographically secure random bytes.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateRandomHex generates a random hex string of the specified byte length.
// The returned string will be 2*byteLength characters.
func GenerateRandomHex(byteLength int) (string, error) {
	b, err := GenerateRandomBytes(byteLength)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateID generates a random identifier suitable for use as a token JTI.
// Returns a 32-character hex string (16 bytes of entropy).
func GenerateID() (string, error) {
	return GenerateRandomHex(16)
}
