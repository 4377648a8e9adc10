package evidence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ChromatinCloud/Arti-sub001/internal/cache"
	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// CachedSource wraps a source with a snapshot cache. Bundles cross the
// cache as JSON, so every hit is a fresh copy and callers cannot alias
// each other's evidence.
type CachedSource struct {
	inner Source
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedSource wraps inner with c. Entries live for ttl.
func NewCachedSource(inner Source, c cache.Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, cache: c, ttl: ttl}
}

// Name implements Source.
func (s *CachedSource) Name() string { return s.inner.Name() }

// Fetch returns the cached bundle when present, fetching and storing it
// otherwise. Cache failures degrade to a direct fetch.
func (s *CachedSource) Fetch(ctx context.Context, v model.Variant, cancer model.CancerContext) (*model.EvidenceBundle, error) {
	key := cache.Key(s.inner.Name(), v.Key(), cancer.CancerType)

	if data, found := s.cache.Get(key); found {
		var b model.EvidenceBundle
		if err := json.Unmarshal(data, &b); err == nil {
			return &b, nil
		}
		// Corrupt entry: fall through to a fresh fetch.
	}

	b, err := s.inner.Fetch(ctx, v, cancer)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(b); err == nil {
		_ = s.cache.Set(key, data, s.ttl)
	}
	return b, nil
}
