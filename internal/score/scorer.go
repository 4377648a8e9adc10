// Package score grades how complete an evidence bundle is before it
// reaches the classification engine. The completeness index is advisory
// only: it never changes a classification, it tells the operator which
// evidence categories are worth chasing before signing out a report.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Severity grades how much a signal should worry the operator.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Signal types emitted by the assessor.
const (
	SignalCategoryCoverage    = "category_coverage"
	SignalSourceAttribution   = "source_attribution"
	SignalSomaticReadiness    = "somatic_readiness"
	SignalActionabilityInputs = "actionability_inputs"
)

// Signal is one diagnostic finding about the bundle, with enough data to
// reproduce its score contribution.
type Signal struct {
	Type        string                 `json:"type"`
	Severity    Severity               `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// Completeness is the assessment of one bundle.
type Completeness struct {
	Index   int      `json:"index"` // 0-100
	Band    string   `json:"band"`  // high, medium, low
	Signals []Signal `json:"signals"`
}

// bundleCategoryCount is the number of evidence categories a bundle can
// carry.
const bundleCategoryCount = 7

// Assessor calculates the completeness index and generates signals
type Assessor struct{}

// NewAssessor creates a new assessor
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess grades the bundle for the given variant.
func (a *Assessor) Assess(v model.Variant, b *model.EvidenceBundle) Completeness {
	var signals []Signal

	// 1. Category coverage (0-40 points)
	coverageScore, coverageSignal := a.assessCoverage(b)
	signals = append(signals, coverageSignal)

	// 2. Source attribution (0-30 points)
	attributionScore, attributionSignal := a.assessAttribution(b)
	signals = append(signals, attributionSignal)

	// 3. Somatic readiness (0-20 points)
	readinessScore, readinessSignal := a.assessSomaticReadiness(b)
	signals = append(signals, readinessSignal)

	// 4. Actionability inputs (0-10 points)
	actionScore, actionSignal := a.assessActionability(v, b)
	signals = append(signals, actionSignal)

	total := coverageScore + attributionScore + readinessScore + actionScore

	return Completeness{
		Index:   total,
		Band:    determineBand(total),
		Signals: signals,
	}
}

// assessCoverage scores how many evidence categories are populated
// (0-40 points)
func (a *Assessor) assessCoverage(b *model.EvidenceBundle) (int, Signal) {
	missing := missingCategories(b)
	populated := bundleCategoryCount - len(missing)

	if populated == 0 {
		return 0, Signal{
			Type:        SignalCategoryCoverage,
			Severity:    SeverityCritical,
			Description: "Evidence bundle is empty",
			Data: map[string]interface{}{
				"populated": 0,
				"missing":   missing,
			},
		}
	}

	ratio := float64(populated) / float64(bundleCategoryCount)
	score := int(math.Min(ratio*40, 40))

	severity := SeverityInfo
	if ratio < 0.5 {
		severity = SeverityWarning
	}

	return score, Signal{
		Type:        SignalCategoryCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Evidence categories populated: %d/%d", populated, bundleCategoryCount),
		Data: map[string]interface{}{
			"populated": populated,
			"missing":   missing,
			"score":     score,
			"formula":   "populated_categories / 7 * 40",
		},
	}
}

// assessAttribution scores how well the populated categories cite their
// knowledge-base snapshots (0-30 points). Versioned refs reproduce,
// named refs at least identify, anonymous refs do neither.
func (a *Assessor) assessAttribution(b *model.EvidenceBundle) (int, Signal) {
	refs := b.Sources()
	if len(refs) == 0 {
		return 0, Signal{
			Type:        SignalSourceAttribution,
			Severity:    SeverityWarning,
			Description: "No evidence sources to attribute",
			Data:        map[string]interface{}{"sources": 0},
		}
	}

	var versioned, named, anonymous int
	for _, ref := range refs {
		switch {
		case ref.Name != "" && ref.Version != "":
			versioned++
		case ref.Name != "":
			named++
		default:
			anonymous++
		}
	}

	total := len(refs)
	weightedSum := float64(versioned*3 + named*2 + anonymous*1)
	maxPossible := float64(total * 3)
	score := int((weightedSum / maxPossible) * 30)

	severity := SeverityInfo
	if versioned == 0 {
		severity = SeverityWarning
	}

	return score, Signal{
		Type:     SignalSourceAttribution,
		Severity: severity,
		Description: fmt.Sprintf("Source attribution: %d versioned, %d named, %d anonymous",
			versioned, named, anonymous),
		Data: map[string]interface{}{
			"versioned": versioned,
			"named":     named,
			"anonymous": anonymous,
			"total":     total,
			"score":     score,
			"formula":   "(versioned*3 + named*2 + anonymous*1) / (total*3) * 30",
		},
	}
}

// assessSomaticReadiness scores the sample measurements the somatic
// confidence model runs on (0-20 points). Without VAF and purity the
// engine falls back to its most conservative assumptions.
func (a *Assessor) assessSomaticReadiness(b *model.EvidenceBundle) (int, Signal) {
	if b.Sample == nil {
		return 0, Signal{
			Type:        SignalSomaticReadiness,
			Severity:    SeverityCritical,
			Description: "No sample evidence (VAF, depth, purity unavailable)",
			Data:        map[string]interface{}{"score": 0},
		}
	}

	score := 10
	var gaps []string
	if b.Sample.Purity != nil {
		score += 5
	} else {
		gaps = append(gaps, "purity")
	}
	if b.Sample.Depth > 0 {
		score += 5
	} else {
		gaps = append(gaps, "depth")
	}

	severity := SeverityInfo
	description := "Sample evidence complete"
	if len(gaps) > 0 {
		severity = SeverityWarning
		description = fmt.Sprintf("Sample evidence missing %s", strings.Join(gaps, ", "))
	}

	return score, Signal{
		Type:        SignalSomaticReadiness,
		Severity:    severity,
		Description: description,
		Data: map[string]interface{}{
			"vaf":     b.Sample.VAF,
			"depth":   b.Sample.Depth,
			"purity":  b.Sample.Purity != nil,
			"score":   score,
			"formula": "sample*10 + purity*5 + depth*5",
		},
	}
}

// assessActionability scores the therapeutic associations the tiering
// layer consumes (0-10 points). A bundle with no associations is common
// and only informational; incomplete ones are worth flagging.
func (a *Assessor) assessActionability(v model.Variant, b *model.EvidenceBundle) (int, Signal) {
	if len(b.Therapies) == 0 {
		return 0, Signal{
			Type:        SignalActionabilityInputs,
			Severity:    SeverityInfo,
			Description: fmt.Sprintf("No therapeutic associations for %s", v.Gene),
			Data:        map[string]interface{}{"associations": 0},
		}
	}

	complete := 0
	for _, t := range b.Therapies {
		if t.Therapy != "" && t.CancerType != "" && t.Level != "" {
			complete++
		}
	}

	total := len(b.Therapies)
	ratio := float64(complete) / float64(total)
	score := int(ratio * 10)

	severity := SeverityInfo
	if ratio < 1.0 {
		severity = SeverityWarning
	}

	return score, Signal{
		Type:        SignalActionabilityInputs,
		Severity:    severity,
		Description: fmt.Sprintf("Therapeutic associations: %d/%d fully specified", complete, total),
		Data: map[string]interface{}{
			"complete": complete,
			"total":    total,
			"score":    score,
			"formula":  "(complete_associations / total_associations) * 10",
		},
	}
}

// missingCategories lists the empty evidence categories by their JSON
// names.
func missingCategories(b *model.EvidenceBundle) []string {
	var missing []string
	if b.Gene == nil {
		missing = append(missing, "gene")
	}
	if b.Population == nil {
		missing = append(missing, "population")
	}
	if b.Hotspot == nil {
		missing = append(missing, "hotspot")
	}
	if b.Clinical == nil {
		missing = append(missing, "clinical")
	}
	if b.Functional == nil {
		missing = append(missing, "functional")
	}
	if len(b.Therapies) == 0 {
		missing = append(missing, "therapies")
	}
	if b.Sample == nil {
		missing = append(missing, "sample")
	}
	return missing
}

// determineBand maps the index to an operator-facing band.
func determineBand(index int) string {
	if index >= 80 {
		return "high"
	}
	if index >= 60 {
		return "medium"
	}
	return "low"
}
