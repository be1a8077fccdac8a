package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString generates a random hexadecimal string from size bytes
// of crypto/rand output. The resulting string is twice as long as size,
// since every byte expands to two hex characters. With size=16 the result
// carries 128 bits of entropy, which is what share tokens use.
//
// It returns an error only if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
