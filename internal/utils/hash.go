package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"
	"sync"
)

// hasherPool holds reusable SHA-256 hash instances. Image reconciliation
// digests thousands of small blobs from parallel workers, so hasher reuse
// keeps allocations flat under load.
var hasherPool = sync.Pool{
	New: func() any {
		return sha256.New()
	},
}

// Digest computes the SHA-256 digest of data and returns it hex-encoded in
// lower case. This is the content-address format used by the remote image
// manifest.
//
// Example usage:
//
//	sum := utils.Digest(blob)
func Digest(data []byte) string {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return hex.EncodeToString(sum)
}

// VerifyDigest reports whether data hashes to want. The comparison is
// case-insensitive because manifest producers are inconsistent about hex
// casing.
func VerifyDigest(data []byte, want string) bool {
	return strings.EqualFold(Digest(data), want)
}
