// Package contenthash provides the deterministic content fingerprint used
// as the deduplication key. The digest is a pure function of the UTF-8
// byte sequence, stable across platforms and process restarts. It is not
// used for any security purpose.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the SHA-256 digest of the text.
func Sum(text string) [32]byte {
	return sha256.Sum256([]byte(text))
}

// Hex returns the SHA-256 digest of the text as a lowercase hex string.
func Hex(text string) string {
	sum := Sum(text)
	return hex.EncodeToString(sum[:])
}
