package common

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sha256Hex returns the SHA-256 digest of the input encoded as lowercase
// hex. The idempotency middleware hashes client-supplied Idempotency-Key
// headers with it so arbitrary header bytes never reach a redis key.
func Sha256Hex(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
