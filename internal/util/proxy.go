// Package util holds small shared helpers for outbound HTTP transports.
package util

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds a proxy selector from explicit settings, falling back
// to the standard environment variables when none are given. Hosts listed
// in noProxy (comma separated, exact or suffix match) bypass the proxy.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	skip := splitNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if hostBypassed(req.URL.Hostname(), skip) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// NewTransport builds an HTTP transport with the proxy settings applied.
// insecureTLS disables certificate verification for self-signed endpoints.
func NewTransport(httpProxy, httpsProxy, noProxy string, insecureTLS bool) *http.Transport {
	t := &http.Transport{
		Proxy: NewProxyFunc(httpProxy, httpsProxy, noProxy),
	}
	if insecureTLS {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return t
}

func splitNoProxy(noProxy string) []string {
	if noProxy == "" {
		return nil
	}
	parts := strings.Split(noProxy, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func hostBypassed(host string, skip []string) bool {
	for _, s := range skip {
		s = strings.TrimPrefix(s, ".")
		if host == s || strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}
