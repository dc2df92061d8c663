package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Merci306/minimalloc-merci/pkg/model"
)

// Fingerprint computes a stable cache key for a problem: the SHA-256 of
// its compact JSON encoding, prefixed with the key type. Two problems with
// identical buffers and capacity always fingerprint the same; field order
// is fixed by the struct definitions, so no further canonicalization is
// needed.
func Fingerprint(problem *model.Problem) string {
	data, _ := json.Marshal(problem)
	hash := sha256.Sum256(data)
	// Full SHA-256 (64 hex chars) to keep collisions out of the picture.
	return fmt.Sprintf("sweep:%s", hex.EncodeToString(hash[:]))
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
