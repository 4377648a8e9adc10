package adapters

import (
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// ReviewTier ranks clinical-database assertions by review depth. When
// submissions disagree, the deeper-reviewed assertion wins.
type ReviewTier int

const (
	// TierTertiary covers single submitters, missing criteria, and
	// anything unrecognized.
	TierTertiary ReviewTier = iota + 1
	// TierSecondary covers criteria provided by multiple submitters
	// without conflicts.
	TierSecondary
	// TierPrimary covers expert panels and practice guidelines.
	TierPrimary
)

func (t ReviewTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// Assertion is one clinical-database submission for a variant.
type Assertion struct {
	Significance model.ClinicalSignificance
	ReviewStatus string
}

// ReviewClassifier ranks review-status strings and resolves competing
// assertions into a single significance
type ReviewClassifier struct {
	primaryMarkers   []string
	secondaryMarkers []string
}

// NewReviewClassifier creates a classifier for ClinVar-style review
// statuses
func NewReviewClassifier() *ReviewClassifier {
	return &ReviewClassifier{
		primaryMarkers: []string{
			"practice_guideline",
			"expert_panel",
		},
		secondaryMarkers: []string{
			"multiple_submitters",
		},
	}
}

// Classify maps a review-status string to its tier
func (rc *ReviewClassifier) Classify(status string) ReviewTier {
	normalized := normalizeStatus(status)

	for _, marker := range rc.primaryMarkers {
		if strings.Contains(normalized, marker) {
			return TierPrimary
		}
	}

	// Submitters that disagree never count as secondary review. The
	// marker must not match "no conflicts".
	if strings.Contains(normalized, "conflicting") {
		return TierTertiary
	}
	for _, marker := range rc.secondaryMarkers {
		if strings.Contains(normalized, marker) {
			return TierSecondary
		}
	}

	return TierTertiary
}

// Resolve picks the significance backed by the deepest review. Assertions
// on opposite sides at the winning tier resolve to conflicting; differing
// strengths on the same side resolve to the stronger call.
func (rc *ReviewClassifier) Resolve(assertions []Assertion) (model.ClinicalSignificance, ReviewTier) {
	if len(assertions) == 0 {
		return "", 0
	}

	best := TierTertiary
	for _, a := range assertions {
		if tier := rc.Classify(a.ReviewStatus); tier > best {
			best = tier
		}
	}

	var pathogenicSide, benignSide, uncertain, conflicting bool
	var strongest model.ClinicalSignificance
	for _, a := range assertions {
		if rc.Classify(a.ReviewStatus) != best {
			continue
		}
		switch a.Significance {
		case model.SignificancePathogenic:
			pathogenicSide = true
			strongest = model.SignificancePathogenic
		case model.SignificanceLikelyPathogenic:
			pathogenicSide = true
			if strongest != model.SignificancePathogenic {
				strongest = model.SignificanceLikelyPathogenic
			}
		case model.SignificanceBenign:
			benignSide = true
		case model.SignificanceLikelyBenign:
			benignSide = true
		case model.SignificanceUncertain:
			uncertain = true
		case model.SignificanceConflicting:
			conflicting = true
		}
	}

	switch {
	case conflicting, pathogenicSide && benignSide:
		return model.SignificanceConflicting, best
	case pathogenicSide:
		return strongest, best
	case benignSide:
		// Benign outranks likely benign when both appear
		for _, a := range assertions {
			if rc.Classify(a.ReviewStatus) == best && a.Significance == model.SignificanceBenign {
				return model.SignificanceBenign, best
			}
		}
		return model.SignificanceLikelyBenign, best
	case uncertain:
		return model.SignificanceUncertain, best
	}

	return model.SignificanceUncertain, best
}

// significanceTerms maps annotator significance vocabulary onto the
// model's values. Keys are normalized the same way as review statuses.
var significanceTerms = map[string]model.ClinicalSignificance{
	"pathogenic":             model.SignificancePathogenic,
	"likely_pathogenic":      model.SignificanceLikelyPathogenic,
	"uncertain_significance": model.SignificanceUncertain,
	"uncertain":              model.SignificanceUncertain,
	"likely_benign":          model.SignificanceLikelyBenign,
	"benign":                 model.SignificanceBenign,
	"conflicting_interpretations_of_pathogenicity": model.SignificanceConflicting,
	"conflicting_classifications_of_pathogenicity": model.SignificanceConflicting,
	"conflicting": model.SignificanceConflicting,
}

// NormalizeSignificance maps a single annotator significance term.
func NormalizeSignificance(term string) (model.ClinicalSignificance, bool) {
	s, ok := significanceTerms[normalizeStatus(term)]
	return s, ok
}

// normalizeStatus lowercases and squeezes separators so ClinVar's
// comma-and-space status strings compare reliably.
func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "_")
	s = strings.ReplaceAll(s, " ", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}
