package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func serveBundle(t *testing.T, w http.ResponseWriter, b any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(b); err != nil {
		t.Errorf("encode bundle: %v", err)
	}
}

func TestHTTPSource_FetchesBundle(t *testing.T) {
	v := brafVariant()
	want := wellFormedBundle()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, v.Key()) {
			t.Errorf("expected variant key in path, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("cancer_type"); got != "melanoma" {
			t.Errorf("expected cancer_type=melanoma, got %q", got)
		}
		serveBundle(t, w, want)
	}))
	defer server.Close()

	src := NewHTTPSource("oncokb", server.URL, HTTPOptions{Timeout: 5 * time.Second, UserAgent: "arti-test"})
	if src.Name() != "oncokb" {
		t.Errorf("expected name oncokb, got %s", src.Name())
	}

	got, err := src.Fetch(context.Background(), v, melanoma())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got.Population == nil || got.Population.Source.Name != "gnomad" {
		t.Errorf("population evidence lost in transit: %+v", got.Population)
	}
	if len(got.Therapies) != 1 || got.Therapies[0].Therapy != "vemurafenib" {
		t.Errorf("therapy evidence lost in transit: %+v", got.Therapies)
	}
}

func TestHTTPSource_UnknownVariantIsEmptyPartial(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	src := NewHTTPSource("clinvar", server.URL, HTTPOptions{Timeout: 5 * time.Second})
	b, err := src.Fetch(context.Background(), brafVariant(), melanoma())
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if b == nil || b.Population != nil || b.Clinical != nil || len(b.Therapies) != 0 {
		t.Errorf("expected an empty partial, got %+v", b)
	}
	if attempts.Load() != 1 {
		t.Errorf("404 must not be retried, got %d attempts", attempts.Load())
	}
}

func TestHTTPSource_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		serveBundle(t, w, wellFormedBundle())
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	src := NewHTTPSource("cancerhotspots", server.URL, HTTPOptions{Timeout: 5 * time.Second})
	b, err := src.Fetch(context.Background(), brafVariant(), melanoma())
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if b.Hotspot == nil {
		t.Error("hotspot evidence lost in transit")
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestHTTPSource_PermanentFailureNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	src := NewHTTPSource("oncokb", server.URL, HTTPOptions{Timeout: 5 * time.Second})
	_, err := src.Fetch(context.Background(), brafVariant(), melanoma())
	if err == nil {
		t.Fatal("expected error for 403")
	}
	if attempts.Load() != 1 {
		t.Errorf("403 must not be retried, got %d attempts", attempts.Load())
	}
}

func TestHTTPSource_RetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	src := NewHTTPSource("oncokb", server.URL, HTTPOptions{Timeout: 5 * time.Second})
	_, err := src.Fetch(context.Background(), brafVariant(), melanoma())
	if err == nil {
		t.Fatal("expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestHTTPSource_MalformedBundleRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{truncated`))
	}))
	defer server.Close()

	src := NewHTTPSource("oncokb", server.URL, HTTPOptions{Timeout: 5 * time.Second})
	_, err := src.Fetch(context.Background(), brafVariant(), melanoma())
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "decode bundle") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		err       string
		retryable bool
	}{
		{"unexpected status: 503 Service Unavailable", true},
		{"unexpected status: 500 Internal Server Error", true},
		{"unexpected status: 502 Bad Gateway", true},
		{"unexpected status: 429 Too Many Requests", true},
		{"unexpected status: 404 Not Found", false},
		{"unexpected status: 403 Forbidden", false},
		{"unexpected status: 401 Unauthorized", false},
		{"fetch: connection refused", true},
		{"fetch: connection reset by peer", true},
		{"create request: invalid URL", false},
		{"read body: unexpected EOF", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			err := fmt.Errorf("%s", tt.err)
			if got := isRetryableFetchError(err); got != tt.retryable {
				t.Errorf("isRetryableFetchError(%q) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestIsRetryableFetchError_Nil(t *testing.T) {
	if isRetryableFetchError(nil) {
		t.Error("nil error must not be retryable")
	}
}
