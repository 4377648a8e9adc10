// Package cache provides the snapshot cache used by the evidence collector.
// Knowledge-base lookups are expensive and frozen per release, so resolved
// evidence is cached as serialized bytes keyed by source and variant.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for snapshot caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from source, variant and context components.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "arti:v1:" + hex.EncodeToString(hash[:])
}
