package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Source resolves evidence for a variant against one knowledge base. A
// source returns a partial bundle with only the categories it knows about
// populated; an unknown variant is an empty bundle, not an error.
type Source interface {
	// Name identifies the source in logs, errors and cache keys.
	Name() string
	// Fetch resolves the variant in the given cancer context.
	Fetch(ctx context.Context, v model.Variant, cancer model.CancerContext) (*model.EvidenceBundle, error)
}

// FileSource serves partial bundles from a JSON snapshot file mapping
// variant keys (gene:chrom:pos:ref>alt) to bundle fragments. Snapshots are
// how frozen KB releases are distributed for reproducible pipeline runs.
type FileSource struct {
	name string
	raw  map[string]json.RawMessage
}

// NewFileSource loads a snapshot file.
func NewFileSource(name, path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source %s: read snapshot: %w", name, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("source %s: parse snapshot: %w", name, err)
	}

	return &FileSource{name: name, raw: raw}, nil
}

// Name implements Source.
func (s *FileSource) Name() string { return s.name }

// Fetch decodes the stored fragment fresh on every call so callers can
// never observe each other's mutations.
func (s *FileSource) Fetch(_ context.Context, v model.Variant, _ model.CancerContext) (*model.EvidenceBundle, error) {
	raw, ok := s.raw[v.Key()]
	if !ok {
		return &model.EvidenceBundle{}, nil
	}

	var b model.EvidenceBundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("source %s: decode %s: %w", s.name, v.Key(), err)
	}
	return &b, nil
}
