// Package engine wires the classification stages into one deterministic
// call: criteria evaluation, oncogenicity combination, somatic confidence
// and per-framework tier assignment. The engine performs no I/O, reads no
// clock and keeps no state between calls; identical inputs always produce
// identical results.
package engine

import (
	"fmt"

	"github.com/ChromatinCloud/Arti-sub001/internal/classify"
	"github.com/ChromatinCloud/Arti-sub001/internal/criteria"
	"github.com/ChromatinCloud/Arti-sub001/internal/dsc"
	"github.com/ChromatinCloud/Arti-sub001/internal/evidence"
	"github.com/ChromatinCloud/Arti-sub001/internal/model"
	"github.com/ChromatinCloud/Arti-sub001/internal/tier"
)

// Engine classifies one variant at a time. Safe for concurrent use.
type Engine struct {
	combiner   *classify.Combiner
	calculator *dsc.Calculator
	cfg        *model.Config
}

// New creates an engine from a validated configuration. A nil config uses
// the documented defaults.
func New(cfg *model.Config) (*Engine, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &Engine{
		combiner:   classify.NewCombiner(cfg),
		calculator: dsc.NewCalculator(cfg.DSC),
		cfg:        cfg,
	}, nil
}

// Classify runs the full two-layer classification for one variant. Errors
// are atomic: a malformed bundle or bad parameters yield no partial result.
func (e *Engine) Classify(v model.Variant, bundle *model.EvidenceBundle, cancer model.CancerContext, frameworks []model.FrameworkID) (*model.ClassificationResult, error) {
	// 1. Reject malformed input before any evidence is interpreted.
	if err := evidence.ValidateVariant(v); err != nil {
		return nil, fmt.Errorf("validate variant: %w", err)
	}
	if err := evidence.ValidateBundle(bundle); err != nil {
		return nil, fmt.Errorf("validate bundle: %w", err)
	}

	// 2. Resolve run parameters: context and framework strategies.
	if err := validateContext(cancer); err != nil {
		return nil, err
	}
	ordered, strategies, err := e.resolveFrameworks(frameworks)
	if err != nil {
		return nil, err
	}

	// 3. Evaluate every criterion against the bundle, in catalog order.
	criteriaResults := criteria.EvaluateAll(v, bundle, cancer, e.cfg.Criteria)

	// 4. Resolve conflicts and combine into the oncogenicity verdict.
	call := e.combiner.Combine(criteriaResults, cancer.CancerType)

	// 5. Score somatic confidence for the analysis context.
	somatic := e.calculator.Calculate(v, bundle, cancer.Analysis)

	// 6. Assign a tier per requested framework, then measure agreement.
	tiers := make([]model.TierResult, 0, len(ordered))
	for _, id := range ordered {
		in := tier.Input{
			Oncogenicity:    call,
			Somatic:         somatic,
			Therapies:       bundle.Therapies,
			CancerType:      cancer.CancerType,
			Gates:           e.cfg.Frameworks[id],
			ConfirmatoryDSC: e.cfg.DSC.ConfirmatoryThreshold,
		}
		tiers = append(tiers, strategies[id].Assign(in))
	}

	// 7. Assemble the result with its audit trail.
	return &model.ClassificationResult{
		Variant:      v,
		CancerType:   cancer.CancerType,
		Analysis:     cancer.Analysis,
		Oncogenicity: call,
		Somatic:      somatic,
		Tiers:        tiers,
		Concordance:  tier.Concordance(tiers),
		Audit: model.AuditTrail{
			SchemaVersion: bundle.SchemaVersion,
			Criteria:      criteriaResults,
			EvidenceUsed:  evidenceRecords(bundle),
		},
	}, nil
}

func validateContext(cancer model.CancerContext) error {
	if cancer.CancerType == "" {
		return &model.ConfigurationError{
			Parameter: "cancer_type",
			Value:     cancer.CancerType,
			Reason:    "cancer type is required",
		}
	}
	if !cancer.Analysis.Valid() {
		return &model.ConfigurationError{
			Parameter: "analysis_context",
			Value:     string(cancer.Analysis),
			Reason:    "must be TUMOR_ONLY or TUMOR_NORMAL",
		}
	}
	return nil
}

// resolveFrameworks validates the requested set and returns it deduplicated
// in canonical order, so tier output order never depends on request order.
func (e *Engine) resolveFrameworks(frameworks []model.FrameworkID) ([]model.FrameworkID, map[model.FrameworkID]tier.Framework, error) {
	if len(frameworks) == 0 {
		return nil, nil, &model.ConfigurationError{
			Parameter: "frameworks",
			Reason:    "at least one guideline framework must be requested",
		}
	}

	strategies := make(map[model.FrameworkID]tier.Framework, len(frameworks))
	for _, id := range frameworks {
		if _, ok := strategies[id]; ok {
			continue
		}
		fw, err := tier.New(id)
		if err != nil {
			return nil, nil, err
		}
		if _, ok := e.cfg.Frameworks[id]; !ok {
			return nil, nil, &model.ConfigurationError{
				Parameter: "frameworks",
				Value:     string(id),
				Reason:    "no tier gates configured for this framework",
			}
		}
		strategies[id] = fw
	}

	ordered := make([]model.FrameworkID, 0, len(strategies))
	for _, id := range model.KnownFrameworks {
		if _, ok := strategies[id]; ok {
			ordered = append(ordered, id)
		}
	}
	return ordered, strategies, nil
}

// evidenceRecords summarizes each consulted category for the audit trail,
// in the bundle's fixed category order.
func evidenceRecords(b *model.EvidenceBundle) []model.EvidenceRecord {
	var records []model.EvidenceRecord

	if b.Gene != nil {
		records = append(records, model.EvidenceRecord{
			Category: "gene",
			Source:   b.Gene.Source,
			Summary:  fmt.Sprintf("role=%s domains=%d", b.Gene.Role, len(b.Gene.CriticalDomains)),
		})
	}
	if b.Population != nil {
		records = append(records, model.EvidenceRecord{
			Category: "population",
			Source:   b.Population.Source,
			Summary:  fmt.Sprintf("af=%.4g covered=%t absent=%t", b.Population.AlleleFrequency, b.Population.Covered, b.Population.Absent),
		})
	}
	if b.Hotspot != nil {
		summary := fmt.Sprintf("samples=%d in_hotspot=%t", b.Hotspot.SampleCount, b.Hotspot.InHotspot)
		if b.Hotspot.QValue != nil {
			summary += fmt.Sprintf(" q=%.3g", *b.Hotspot.QValue)
		}
		records = append(records, model.EvidenceRecord{
			Category: "hotspot",
			Source:   b.Hotspot.Source,
			Summary:  summary,
		})
	}
	if b.Clinical != nil {
		records = append(records, model.EvidenceRecord{
			Category: "clinical",
			Source:   b.Clinical.Source,
			Summary:  fmt.Sprintf("significance=%s germline_pathogenic=%t", b.Clinical.Significance, b.Clinical.GermlinePathogenic),
		})
	}
	if b.Functional != nil {
		summary := fmt.Sprintf("damaging=%d/%d", b.Functional.DamagingPredictors, b.Functional.TotalPredictors)
		if b.Functional.StudySupport != "" {
			summary += fmt.Sprintf(" studies=%s", b.Functional.StudySupport)
		}
		records = append(records, model.EvidenceRecord{
			Category: "functional",
			Source:   b.Functional.Source,
			Summary:  summary,
		})
	}
	for _, t := range b.Therapies {
		summary := fmt.Sprintf("%s (%s, %s)", t.Therapy, t.CancerType, t.Level)
		if t.Resistance {
			summary += " resistance"
		}
		records = append(records, model.EvidenceRecord{
			Category: "therapy",
			Source:   t.Source,
			Summary:  summary,
		})
	}
	if b.Sample != nil {
		summary := fmt.Sprintf("vaf=%.4g depth=%d", b.Sample.VAF, b.Sample.Depth)
		if b.Sample.Purity != nil {
			summary += fmt.Sprintf(" purity=%.2f", *b.Sample.Purity)
		}
		records = append(records, model.EvidenceRecord{
			Category: "sample",
			Source:   b.Sample.Source,
			Summary:  summary,
		})
	}
	return records
}
