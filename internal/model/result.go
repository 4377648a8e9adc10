package model

import "time"

// ClassificationResult is the complete output for one variant. It is a pure
// function of (variant, cancer context, evidence bundle, config): no clock
// reads, no randomness, no map-ordered fields. Re-running the engine on the
// same inputs must produce a byte-identical JSON encoding.
type ClassificationResult struct {
	Variant      Variant           `json:"variant"`
	CancerType   string            `json:"cancer_type"`
	Analysis     AnalysisContext   `json:"analysis_context"`
	Oncogenicity OncogenicityCall  `json:"oncogenicity"`
	Somatic      SomaticConfidence `json:"somatic_confidence"`
	Tiers        []TierResult      `json:"tiers"`                 // canonical framework order
	Concordance  float64           `json:"framework_concordance"` // 0..1 agreement across tiers
	Audit        AuditTrail        `json:"audit"`
}

// Tier returns the result for one framework, or nil when it was not requested.
func (r *ClassificationResult) Tier(f FrameworkID) *TierResult {
	for i := range r.Tiers {
		if r.Tiers[i].Framework == f {
			return &r.Tiers[i]
		}
	}
	return nil
}

// AuditTrail preserves every evaluated criterion and every evidence item the
// engine consulted, so a reviewer can reproduce each number by hand.
type AuditTrail struct {
	SchemaVersion string            `json:"schema_version"` // of the evidence bundle
	Criteria      []CriterionResult `json:"criteria"`       // all criteria in catalog order, met or not
	EvidenceUsed  []EvidenceRecord  `json:"evidence_used"`
}

// EvidenceRecord summarizes one consulted evidence category for the audit.
type EvidenceRecord struct {
	Category string    `json:"category"`
	Source   SourceRef `json:"source"`
	Summary  string    `json:"summary"`
}

// ResultEnvelope wraps a deterministic result with per-run operational
// metadata. Everything that may differ between identical runs (IDs, clocks,
// narrative text) lives here and never inside ClassificationResult.
type ResultEnvelope struct {
	RunID     string               `json:"run_id"`
	CreatedAt time.Time            `json:"created_at"`
	Engine    string               `json:"engine"` // name/version string
	Result    ClassificationResult `json:"result"`
	Narrative *NarrativeSummary    `json:"narrative,omitempty"` // optional, never affects the result
}

// NarrativeSummary contains the optional LLM-drafted clinician narrative.
// CRITICAL: narrative text never feeds back into classification and is
// clearly separated from the deterministic result.
type NarrativeSummary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"` // openai, anthropic, ollama
	Model          string   `json:"model,omitempty"`
	StrictEvidence bool     `json:"strict_evidence"`      // source-ID enforcement was enabled
	SummaryMD      string   `json:"summary_md,omitempty"` // Markdown narrative
	Warnings       []string `json:"warnings,omitempty"`   // e.g. unreferenced source IDs detected
}
