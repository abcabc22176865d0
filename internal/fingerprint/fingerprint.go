// Package fingerprint derives the content-addressing key used for
// caching and deduplication.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the SHA-256 hex digest of the raw submitted content.
// Deterministic, content only: metadata and content type never enter
// the digest. Empty content fingerprints to a fixed value like any
// other input.
func Sum(content []byte) string {
	digest := sha256.Sum256(content)
	return hex.EncodeToString(digest[:])
}
