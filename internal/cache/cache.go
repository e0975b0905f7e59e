package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for memoizing decoded store documents
type Cache interface {
	Get(key string) (map[string]any, bool)
	Set(key string, doc map[string]any, ttl time.Duration)
}

// DocumentKey generates a cache key from a store path and its file metadata,
// so an edited store never returns a stale document
func DocumentKey(path string, modTime time.Time, size int64) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", path, modTime.UnixNano(), size)))
	return "noosphere:v1:" + hex.EncodeToString(hash[:])
}
