package evidence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ChromatinCloud/Arti-sub001/internal/cache"
	"github.com/ChromatinCloud/Arti-sub001/internal/logging"
	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Collector resolves evidence for one variant by fanning out across its
// sources and merging the partial bundles in registration order. The merged
// bundle is freshly allocated per call; once handed to the engine it is
// never touched again, which is what makes reruns reproducible.
type Collector struct {
	sources     []Source
	parallelism int
	log         *slog.Logger
}

// NewCollector assembles the standard chain around each source: rate
// limiting when a rate is configured, then snapshot caching when a TTL is
// configured. Registration order is merge precedence.
func NewCollector(cfg model.CollectorConfig, sources ...Source) *Collector {
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second

	var store cache.Cache
	if ttl > 0 {
		if cfg.CacheDir != "" {
			store = cache.NewLayeredCache(ttl, cfg.CacheDir, ttl)
		} else {
			store = cache.NewMemoryCache(ttl, 10*time.Minute)
		}
	}

	var limiter *Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = NewLimiter(cfg.RequestsPerSecond, cfg.BurstSize)
	}

	wrapped := make([]Source, 0, len(sources))
	for _, src := range sources {
		if limiter != nil {
			src = NewRateLimitedSource(src, limiter)
		}
		if store != nil {
			src = NewCachedSource(src, store, ttl)
		}
		wrapped = append(wrapped, src)
	}

	parallelism := cfg.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	return &Collector{
		sources:     wrapped,
		parallelism: parallelism,
		log:         logging.New("collector"),
	}
}

// Collect fetches every source concurrently and merges the partials. Any
// source failure fails the whole collection; a half-resolved bundle would
// classify under weaker evidence than the caller asked for.
func (c *Collector) Collect(ctx context.Context, v model.Variant, cancer model.CancerContext) (*model.EvidenceBundle, error) {
	partials := make([]*model.EvidenceBundle, len(c.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for i, src := range c.sources {
		i, src := i, src
		g.Go(func() error {
			b, err := src.Fetch(gctx, v, cancer)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
			partials[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &model.EvidenceBundle{SchemaVersion: BundleSchemaVersion}
	for _, p := range partials {
		mergeBundle(merged, p)
	}

	c.log.Debug("evidence collected",
		"variant", v.Key(),
		"cancer_type", cancer.CancerType,
		"sources", len(c.sources),
		"refs", len(merged.Sources()))
	return merged, nil
}

// mergeBundle copies categories src resolved that dst still misses.
// Therapies accumulate across sources; everything else is first-wins.
func mergeBundle(dst, src *model.EvidenceBundle) {
	if src == nil {
		return
	}
	if dst.Gene == nil {
		dst.Gene = src.Gene
	}
	if dst.Population == nil {
		dst.Population = src.Population
	}
	if dst.Hotspot == nil {
		dst.Hotspot = src.Hotspot
	}
	if dst.Clinical == nil {
		dst.Clinical = src.Clinical
	}
	if dst.Functional == nil {
		dst.Functional = src.Functional
	}
	dst.Therapies = append(dst.Therapies, src.Therapies...)
	if dst.Sample == nil {
		dst.Sample = src.Sample
	}
}
