package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
	"github.com/ChromatinCloud/Arti-sub001/internal/util"
)

// HTTPOptions configures the transport used for remote knowledge-base
// sources.
type HTTPOptions struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	InsecureTLS  bool
	HTTPProxy    string
	HTTPSProxy   string
	NoProxy      string
}

// fetchSleepFunc is swapped out in tests to avoid real backoff waits.
var fetchSleepFunc = time.Sleep

const fetchAttempts = 3

// HTTPSource fetches partial bundles from a knowledge-base REST endpoint:
// GET {base}/variants/{key}?cancer_type={ct} returns a bundle JSON
// document. A 404 means the source has nothing on this variant, which is
// an empty partial, not an error.
type HTTPSource struct {
	name     string
	baseURL  string
	client   *http.Client
	ua       string
	maxBytes int64
}

// NewHTTPSource creates a source backed by a remote endpoint. Wrap it with
// NewRateLimitedSource or hand it to NewCollector for rate limiting and
// snapshot caching.
func NewHTTPSource(name, baseURL string, opts HTTPOptions) *HTTPSource {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxBytes := opts.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	return &HTTPSource{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: util.NewTransport(opts.HTTPProxy, opts.HTTPSProxy, opts.NoProxy, opts.InsecureTLS),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		ua:       opts.UserAgent,
		maxBytes: maxBytes,
	}
}

// Name returns the source name.
func (s *HTTPSource) Name() string {
	return s.name
}

// Fetch retrieves the partial bundle for one variant, retrying transient
// failures (5xx, 429, connection resets) with a short backoff. Client
// errors fail immediately.
func (s *HTTPSource) Fetch(ctx context.Context, v model.Variant, cancer model.CancerContext) (*model.EvidenceBundle, error) {
	endpoint := fmt.Sprintf("%s/variants/%s?cancer_type=%s",
		s.baseURL, url.PathEscape(v.Key()), url.QueryEscape(cancer.CancerType))

	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		bundle, err := s.fetchOnce(ctx, endpoint)
		if err == nil {
			return bundle, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) || attempt == fetchAttempts {
			break
		}
		fetchSleepFunc(time.Duration(attempt) * 500 * time.Millisecond)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (s *HTTPSource) fetchOnce(ctx context.Context, endpoint string) (*model.EvidenceBundle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.ua != "" {
		req.Header.Set("User-Agent", s.ua)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return &model.EvidenceBundle{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var bundle model.EvidenceBundle
	if err := json.Unmarshal(body, &bundle); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	return &bundle, nil
}

// isRetryableFetchError classifies by message because failures arrive
// wrapped from several layers.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, status := range []string{"500", "502", "503", "504", "429"} {
		if strings.Contains(msg, "unexpected status: "+status) {
			return true
		}
	}
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset")
}
