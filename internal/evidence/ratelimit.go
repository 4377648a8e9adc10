package evidence

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Limiter implements per-source rate limiting for collectors that talk to
// remote knowledge bases. Limiters are created lazily per source name.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with a shared default rate.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the named source may issue another request.
func (l *Limiter) Wait(ctx context.Context, source string) error {
	return l.getLimiter(source).Wait(ctx)
}

// Allow reports whether a request is allowed without waiting.
func (l *Limiter) Allow(source string) bool {
	return l.getLimiter(source).Allow()
}

// getLimiter returns the rate limiter for a source name.
func (l *Limiter) getLimiter(source string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[source]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock.
	if limiter, exists := l.limiters[source]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[source] = limiter

	return limiter
}

// SetSourceRate sets a custom rate for one source, e.g. a KB with a
// stricter API quota than the rest.
func (l *Limiter) SetSourceRate(source string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[source] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// RateLimitedSource wraps a source so fetches pace themselves against the
// shared limiter before touching the backing knowledge base.
type RateLimitedSource struct {
	inner   Source
	limiter *Limiter
}

// NewRateLimitedSource wraps inner with limiter.
func NewRateLimitedSource(inner Source, limiter *Limiter) *RateLimitedSource {
	return &RateLimitedSource{inner: inner, limiter: limiter}
}

// Name implements Source.
func (s *RateLimitedSource) Name() string { return s.inner.Name() }

// Fetch waits for rate clearance, then delegates.
func (s *RateLimitedSource) Fetch(ctx context.Context, v model.Variant, cancer model.CancerContext) (*model.EvidenceBundle, error) {
	if err := s.limiter.Wait(ctx, s.inner.Name()); err != nil {
		return nil, fmt.Errorf("source %s: rate wait: %w", s.inner.Name(), err)
	}
	return s.inner.Fetch(ctx, v, cancer)
}
