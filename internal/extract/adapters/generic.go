package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/ChromatinCloud/Arti-sub001/internal/evidence"
	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// GenericAdapter handles payloads already shaped like request-document
// fragments. It is the fallback when no format-specific adapter claims
// the payload.
type GenericAdapter struct{}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(data []byte, filename string) bool {
	return true
}

// Extract decodes a JSON object holding a variant and, optionally, an
// evidence bundle.
func (a *GenericAdapter) Extract(data []byte) (*Result, error) {
	var doc struct {
		Variant  model.Variant         `json:"variant"`
		Evidence *model.EvidenceBundle `json:"evidence"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if doc.Variant.Gene == "" || doc.Variant.Chromosome == "" {
		return nil, fmt.Errorf("payload does not describe a variant")
	}

	result := &Result{
		Variant:  doc.Variant,
		Evidence: doc.Evidence,
	}
	if result.Evidence == nil {
		result.Evidence = &model.EvidenceBundle{SchemaVersion: evidence.BundleSchemaVersion}
		result.Warnings = append(result.Warnings, "payload carries no evidence bundle")
	} else if result.Evidence.SchemaVersion == "" {
		result.Evidence.SchemaVersion = evidence.BundleSchemaVersion
	}

	return result, nil
}
