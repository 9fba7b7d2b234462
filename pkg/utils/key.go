package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// CacheKey derives the cache key for a logical query shape. Pagination is
// deliberately excluded: the bulk pipeline always computes the full set
// regardless of requested page size.
func CacheKey(mode, region string) string {
	return fmt.Sprintf("aggregate:%s:%s", mode, region)
}

// HashKey creates a SHA256 hash of a key string, for stores that need
// consistent, safe key names.
func HashKey(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}
