package adapters

import (
	"testing"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

func TestReviewClassifier_Tiers(t *testing.T) {
	classifier := NewReviewClassifier()

	tests := []struct {
		status   string
		expected ReviewTier
		desc     string
	}{
		{
			status:   "reviewed by expert panel",
			expected: TierPrimary,
			desc:     "Expert panel review",
		},
		{
			status:   "practice guideline",
			expected: TierPrimary,
			desc:     "Practice guideline review",
		},
		{
			status:   "criteria provided, multiple submitters, no conflicts",
			expected: TierSecondary,
			desc:     "Concordant multiple submitters",
		},
		{
			status:   "criteria provided, conflicting classifications",
			expected: TierTertiary,
			desc:     "Conflicting submitters never count as secondary",
		},
		{
			status:   "criteria provided, single submitter",
			expected: TierTertiary,
			desc:     "Single submitter",
		},
		{
			status:   "no assertion criteria provided",
			expected: TierTertiary,
			desc:     "No criteria",
		},
		{
			status:   "",
			expected: TierTertiary,
			desc:     "Missing status defaults to tertiary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			result := classifier.Classify(tt.status)
			if result != tt.expected {
				t.Errorf("Expected %v for %q, got %v", tt.expected, tt.status, result)
			}
		})
	}
}

func TestReviewClassifier_DeepestReviewWins(t *testing.T) {
	classifier := NewReviewClassifier()

	sig, tier := classifier.Resolve([]Assertion{
		{Significance: model.SignificanceBenign, ReviewStatus: "criteria provided, single submitter"},
		{Significance: model.SignificancePathogenic, ReviewStatus: "reviewed by expert panel"},
	})
	if sig != model.SignificancePathogenic {
		t.Errorf("Expected the expert panel call to win, got %s", sig)
	}
	if tier != TierPrimary {
		t.Errorf("Expected primary tier, got %v", tier)
	}
}

func TestReviewClassifier_ConflictAtWinningTier(t *testing.T) {
	classifier := NewReviewClassifier()

	sig, tier := classifier.Resolve([]Assertion{
		{Significance: model.SignificancePathogenic, ReviewStatus: "criteria provided, single submitter"},
		{Significance: model.SignificanceBenign, ReviewStatus: "criteria provided, single submitter"},
	})
	if sig != model.SignificanceConflicting {
		t.Errorf("Expected conflicting, got %s", sig)
	}
	if tier != TierTertiary {
		t.Errorf("Expected tertiary tier, got %v", tier)
	}
}

func TestReviewClassifier_SameSideStrengths(t *testing.T) {
	classifier := NewReviewClassifier()

	tests := []struct {
		assertions []Assertion
		expected   model.ClinicalSignificance
		desc       string
	}{
		{
			assertions: []Assertion{
				{Significance: model.SignificancePathogenic},
				{Significance: model.SignificanceLikelyPathogenic},
			},
			expected: model.SignificancePathogenic,
			desc:     "Pathogenic outranks likely pathogenic",
		},
		{
			assertions: []Assertion{
				{Significance: model.SignificanceLikelyBenign},
				{Significance: model.SignificanceBenign},
			},
			expected: model.SignificanceBenign,
			desc:     "Benign outranks likely benign",
		},
		{
			assertions: []Assertion{
				{Significance: model.SignificanceLikelyPathogenic},
				{Significance: model.SignificanceUncertain},
			},
			expected: model.SignificanceLikelyPathogenic,
			desc:     "Uncertain does not conflict with a sided call",
		},
		{
			assertions: []Assertion{
				{Significance: model.SignificanceUncertain},
			},
			expected: model.SignificanceUncertain,
			desc:     "Uncertain alone stays uncertain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			sig, _ := classifier.Resolve(tt.assertions)
			if sig != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, sig)
			}
		})
	}
}

func TestReviewClassifier_EmptyAssertions(t *testing.T) {
	sig, tier := NewReviewClassifier().Resolve(nil)
	if sig != "" || tier != 0 {
		t.Errorf("Expected zero values for no assertions, got %s/%v", sig, tier)
	}
}

func TestNormalizeSignificance(t *testing.T) {
	tests := []struct {
		term     string
		expected model.ClinicalSignificance
		ok       bool
	}{
		{"Pathogenic", model.SignificancePathogenic, true},
		{"likely pathogenic", model.SignificanceLikelyPathogenic, true},
		{"uncertain_significance", model.SignificanceUncertain, true},
		{"conflicting_interpretations_of_pathogenicity", model.SignificanceConflicting, true},
		{"drug_response", "", false},
	}

	for _, tt := range tests {
		sig, ok := NormalizeSignificance(tt.term)
		if ok != tt.ok || sig != tt.expected {
			t.Errorf("NormalizeSignificance(%q) = %s/%v, want %s/%v", tt.term, sig, ok, tt.expected, tt.ok)
		}
	}
}
