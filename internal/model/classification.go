package model

// OncogenicityClass is the five-level biological verdict.
type OncogenicityClass string

const (
	ClassOncogenic       OncogenicityClass = "Oncogenic"
	ClassLikelyOncogenic OncogenicityClass = "Likely Oncogenic"
	ClassVUS             OncogenicityClass = "VUS"
	ClassLikelyBenign    OncogenicityClass = "Likely Benign"
	ClassBenign          OncogenicityClass = "Benign"
)

// Rank orders classes from Benign (0) to Oncogenic (4) so monotonicity
// checks can compare verdicts numerically.
func (c OncogenicityClass) Rank() int {
	switch c {
	case ClassBenign:
		return 0
	case ClassLikelyBenign:
		return 1
	case ClassVUS:
		return 2
	case ClassLikelyOncogenic:
		return 3
	case ClassOncogenic:
		return 4
	default:
		return 2
	}
}

// OncogenicityCall is the layer-one verdict with its transparent breakdown.
// Points and adjustments expose the exact arithmetic behind Confidence, the
// same way every number in the audit trail is reproducible by hand.
type OncogenicityCall struct {
	Classification    OncogenicityClass  `json:"classification"`
	Confidence        float64            `json:"confidence"` // 0..1, margin-based
	RuleID            string             `json:"rule_id"`    // combination rule that decided the class
	Conflict          bool               `json:"conflict"`   // both directions produced qualifying evidence
	MetCriteria       []CriterionResult  `json:"met_criteria"`
	OncogenicPoints   float64            `json:"oncogenic_points"` // weight sum after adjustments
	BenignPoints      float64            `json:"benign_points"`
	WeightAdjustments []WeightAdjustment `json:"weight_adjustments,omitempty"`
}

// RuleIDDefaultVUS marks verdicts produced by the fallback when no
// combination rule matches; RuleIDConflictVUS marks irreducible conflicts.
const (
	RuleIDDefaultVUS  = "DEFAULT_VUS"
	RuleIDConflictVUS = "CONFLICT_VUS"
)

// DSCComponent is one weighted sub-score of the somatic confidence model.
type DSCComponent struct {
	Name      string  `json:"name"`   // allele_fraction, somatic_prior, genomic_context
	Value     float64 `json:"value"`  // 0..1 sub-score
	Weight    float64 `json:"weight"` // context-dependent weight, weights sum to 1
	Rationale string  `json:"rationale"`
}

// Component names used in SomaticConfidence breakdowns.
const (
	ComponentAlleleFraction = "allele_fraction"
	ComponentSomaticPrior   = "somatic_prior"
	ComponentGenomicContext = "genomic_context"
)

// SomaticConfidence estimates how likely the variant is truly somatic,
// bounded to [0,1]. It feeds tier gating only and never changes the
// oncogenicity verdict.
type SomaticConfidence struct {
	Score              float64        `json:"score"`
	Breakdown          []DSCComponent `json:"breakdown"`
	PurityEstimated    bool           `json:"purity_estimated"`    // default purity substituted for a missing estimate
	ContextUnavailable bool           `json:"context_unavailable"` // no LOH or signature data contributed
}

// FrameworkID names a clinical actionability guideline framework.
type FrameworkID string

const (
	FrameworkAMP    FrameworkID = "amp_asco_cap"
	FrameworkVICC   FrameworkID = "cgc_vicc"
	FrameworkOncoKB FrameworkID = "oncokb"
)

// KnownFrameworks lists the supported frameworks in canonical output order.
var KnownFrameworks = []FrameworkID{FrameworkAMP, FrameworkVICC, FrameworkOncoKB}

// Valid reports whether the framework is one the tier engine supports.
func (f FrameworkID) Valid() bool {
	for _, k := range KnownFrameworks {
		if f == k {
			return true
		}
	}
	return false
}

// RuleInvocation records one tier rule that fired, in firing order.
type RuleInvocation struct {
	Rule        string   `json:"rule"` // framework-native rule name
	Description string   `json:"description"`
	Sources     []string `json:"sources,omitempty"` // SourceRef IDs consulted
	Weight      float64  `json:"weight"`            // weight the rule contributed
}

// TierFlag marks a caveat attached to a tier assignment.
type TierFlag string

const (
	FlagDSCDowngraded        TierFlag = "dsc_downgraded"                   // tier lowered because somatic confidence missed the gate
	FlagExcludedLowDSC       TierFlag = "excluded_low_dsc"                 // variant excluded from tiering entirely
	FlagConfirmatoryTesting  TierFlag = "confirmatory_testing_recommended" // germline origin cannot be excluded
	FlagOffIndication        TierFlag = "off_indication"                   // therapeutic evidence is from another cancer type
)

// TierResult is one framework's actionability assignment.
type TierResult struct {
	Framework     FrameworkID      `json:"framework"`
	Tier          string           `json:"tier"` // framework-native label, e.g. "Tier IA", "Level 1"
	Confidence    float64          `json:"confidence"`
	Rules         []RuleInvocation `json:"rules"`
	Flags         []TierFlag       `json:"flags,omitempty"`
	Justification string           `json:"justification"`
}

// HasFlag reports whether the result carries the given caveat.
func (t TierResult) HasFlag(f TierFlag) bool {
	for _, x := range t.Flags {
		if x == f {
			return true
		}
	}
	return false
}
