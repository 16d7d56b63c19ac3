package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString draws size random bytes and returns them hex-encoded,
// so the final string length is twice the size. Used for session tokens.
// It returns an error only if the random number generator fails.
func MakeRandHexString(size int) (string, error) {

	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
