// Package adapters maps raw annotator output onto the typed evidence
// model. Each adapter understands one payload format; the registry sniffs
// the payload and picks the first adapter that claims it.
package adapters

import (
	"bytes"
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Result is one extracted variant plus whatever evidence the payload
// carried. Adapters fill what they can and note gaps in Warnings rather
// than failing.
type Result struct {
	Variant  model.Variant
	Evidence *model.EvidenceBundle
	Warnings []string
}

// Adapter defines the interface for format-specific extractors
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given payload
	CanHandle(data []byte, filename string) bool

	// Extract maps the payload to a variant and evidence bundle
	Extract(data []byte) (*Result, error)
}

// Registry manages format adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	// Register built-in adapters
	registry.Register(NewVEPAdapter())
	registry.Register(NewMAFAdapter())

	// Set generic adapter as fallback
	registry.generic = NewGenericAdapter()

	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the best adapter for the given payload. The filename
// is a hint; content sniffing decides when it does not help.
func (r *Registry) FindAdapter(data []byte, filename string) Adapter {
	// Try specific adapters first
	for _, adapter := range r.adapters {
		if adapter.CanHandle(data, filename) {
			return adapter
		}
	}

	// Fall back to generic adapter
	return r.generic
}

// looksLikeJSON reports whether the payload starts with a JSON value.
func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// headerLine returns the first non-comment line of a text payload.
func headerLine(data []byte) string {
	for len(data) > 0 {
		var line []byte
		if idx := bytes.IndexByte(data, '\n'); idx < 0 {
			line, data = data, nil
		} else {
			line, data = data[:idx], data[idx+1:]
		}
		trimmed := strings.TrimSpace(string(line))
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return string(line)
	}
	return ""
}
