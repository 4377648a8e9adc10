package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Request is the classification request document, one variant per file.
// Evidence arrives pre-resolved: the document carries the bundle inline,
// so classification itself never reaches the network.
type Request struct {
	Variant    model.Variant         `json:"variant"`
	Evidence   *model.EvidenceBundle `json:"evidence"`
	CancerType string                `json:"cancer_type"`
	Analysis   model.AnalysisContext `json:"analysis_context"`
	Frameworks []model.FrameworkID   `json:"frameworks,omitempty"` // empty = all supported
}

// Context returns the cancer context portion of the request.
func (r *Request) Context() model.CancerContext {
	return model.CancerContext{CancerType: r.CancerType, Analysis: r.Analysis}
}

// LoadRequest reads a request document from disk. The decoder follows the
// file extension: .json, .yaml or .yml.
func LoadRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return ParseRequest(data, filepath.Ext(path))
}

// ParseRequest decodes a request document. YAML documents use the same
// field names as JSON. When the document names no frameworks, every
// supported framework is requested.
func ParseRequest(data []byte, ext string) (*Request, error) {
	var req Request
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
	case ".yaml", ".yml":
		jsonData, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
		if err := json.Unmarshal(jsonData, &req); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported request format %q (use .json, .yaml or .yml)", ext)
	}

	if len(req.Frameworks) == 0 {
		req.Frameworks = append([]model.FrameworkID(nil), model.KnownFrameworks...)
	}
	return &req, nil
}

// yamlToJSON re-encodes YAML as JSON so both formats share the json struct
// tags.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
