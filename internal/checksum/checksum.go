// Package checksum fingerprints note content so the index can skip
// files that have not changed between syncs.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Changed reports whether data no longer matches a previously
// recorded digest. An empty digest always counts as changed.
func Changed(data []byte, digest string) bool {
	return digest == "" || Sum(data) != digest
}
