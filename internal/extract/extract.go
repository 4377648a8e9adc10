// Package extract turns raw annotator output into classification request
// material. A registry of format adapters maps Ensembl VEP JSON, MAF rows
// and plain request fragments onto the typed variant and evidence model,
// so pipelines upstream of the engine do not need to hand-shape bundles.
package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChromatinCloud/Arti-sub001/internal/extract/adapters"
)

// Extractor sniffs annotator payloads and runs the matching adapter.
type Extractor struct {
	registry *adapters.Registry
}

// New creates an extractor with the built-in adapters registered.
func New() *Extractor {
	return &Extractor{
		registry: adapters.NewRegistry(),
	}
}

// Register adds a custom format adapter. Built-in adapters are consulted
// first.
func (e *Extractor) Register(adapter adapters.Adapter) {
	e.registry.Register(adapter)
}

// FromFile extracts a variant and its evidence from an annotator output
// file. The adapter name that handled the payload is returned for
// reporting.
func (e *Extractor) FromFile(path string) (*adapters.Result, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read payload: %w", err)
	}
	return e.FromBytes(data, filepath.Base(path))
}

// FromBytes extracts from an in-memory payload. The filename is a format
// hint only; content sniffing decides when it is empty.
func (e *Extractor) FromBytes(data []byte, filename string) (*adapters.Result, string, error) {
	adapter := e.registry.FindAdapter(data, filename)
	result, err := adapter.Extract(data)
	if err != nil {
		return nil, adapter.Name(), fmt.Errorf("%s adapter: %w", adapter.Name(), err)
	}
	return result, adapter.Name(), nil
}
