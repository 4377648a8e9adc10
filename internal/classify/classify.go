// Package classify turns evaluated criteria into the five-level
// oncogenicity verdict. It owns the combining table walk and the conflict
// resolver; both are total functions over any criterion set.
package classify

import (
	"fmt"
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Combiner applies the combination rules and the conflict resolver.
type Combiner struct {
	cfg *model.Config
}

// NewCombiner creates a combiner over an already validated configuration.
func NewCombiner(cfg *model.Config) *Combiner {
	return &Combiner{cfg: cfg}
}

// sideCounts are met-criterion counts by strength tier for one direction.
type sideCounts struct {
	veryStrong int
	strong     int
	moderate   int
	supporting int
}

func (s sideCounts) matches(r model.CombinationRule) bool {
	return s.veryStrong >= r.VeryStrong &&
		s.strong >= r.Strong &&
		s.moderate >= r.Moderate &&
		s.supporting >= r.Supporting
}

// Combine produces exactly one classification for any result set, including
// the empty set. It never returns an error.
//
// Resolution order:
//  1. cancer-type overrides and conflict halving adjust applied weights
//  2. strong evidence on both sides is an irreducible conflict: VUS
//  3. otherwise the first matching rule per side decides; if both sides
//     match, the side with the higher adjusted weight sum wins
//  4. no match at all falls back to VUS
func (c *Combiner) Combine(results []model.CriterionResult, cancerType string) model.OncogenicityCall {
	met := make([]model.CriterionResult, 0, len(results))
	for _, r := range results {
		if r.Met {
			met = append(met, r)
		}
	}

	weights, adjustments := c.applyAdjustments(met, cancerType)

	var onc, ben sideCounts
	var oncPoints, benPoints float64
	strongOnc, strongBen := false, false
	for _, r := range met {
		w := weights[r.ID]
		if r.Direction == model.DirectionOncogenic {
			oncPoints += w
			addCount(&onc, r.Strength)
			strongOnc = strongOnc || r.Strength.AtLeastStrong()
		} else {
			benPoints += w
			addCount(&ben, r.Strength)
			strongBen = strongBen || r.Strength.AtLeastStrong()
		}
	}

	margin := oncPoints - benPoints
	if margin < 0 {
		margin = -margin
	}
	confidence := clip(margin / c.cfg.Combination.ConfidenceScale)

	call := model.OncogenicityCall{
		Classification:    model.ClassVUS,
		Confidence:        confidence,
		RuleID:            model.RuleIDDefaultVUS,
		MetCriteria:       met,
		OncogenicPoints:   oncPoints,
		BenignPoints:      benPoints,
		WeightAdjustments: adjustments,
	}

	// Strong evidence on both sides cannot be reconciled by weighting.
	if strongOnc && strongBen {
		call.Conflict = true
		call.RuleID = model.RuleIDConflictVUS
		return call
	}

	oncRule := firstMatch(c.cfg.Combination.Oncogenic, onc)
	benRule := firstMatch(c.cfg.Combination.Benign, ben)

	switch {
	case oncRule != nil && benRule != nil:
		// Both tables fired without a strong-strong standoff. The heavier
		// side decides; an exact tie stays a conflict.
		if oncPoints > benPoints {
			call.Classification = oncRule.Class
			call.RuleID = oncRule.ID
		} else if benPoints > oncPoints {
			call.Classification = benRule.Class
			call.RuleID = benRule.ID
		} else {
			call.Conflict = true
			call.RuleID = model.RuleIDConflictVUS
		}
	case oncRule != nil:
		call.Classification = oncRule.Class
		call.RuleID = oncRule.ID
	case benRule != nil:
		call.Classification = benRule.Class
		call.RuleID = benRule.ID
	}
	return call
}

// applyAdjustments computes the applied weight per met criterion: base
// strength points, then per-cancer-type override, then conflict halving.
// Each change is recorded so the audit trail can replay the arithmetic.
func (c *Combiner) applyAdjustments(met []model.CriterionResult, cancerType string) (map[model.CriterionID]float64, []model.WeightAdjustment) {
	var adjustments []model.WeightAdjustment
	weights := make(map[model.CriterionID]float64, len(met))

	strongOnc, strongBen := false, false
	for _, r := range met {
		if r.Strength.AtLeastStrong() {
			if r.Direction == model.DirectionOncogenic {
				strongOnc = true
			} else {
				strongBen = true
			}
		}
	}

	var override map[model.CriterionID]float64
	if o, ok := c.cfg.Overrides[strings.ToLower(cancerType)]; ok {
		override = o.CriterionPoints
	}

	for _, r := range met {
		w := c.cfg.Combination.StrengthPoints[r.Strength]
		if m, ok := override[r.ID]; ok && m != 1 {
			adjusted := w * m
			adjustments = append(adjustments, model.WeightAdjustment{
				Criterion: r.ID,
				Original:  w,
				Applied:   adjusted,
				Reason:    fmt.Sprintf("cancer-type override for %s (x%.2g)", strings.ToLower(cancerType), m),
			})
			w = adjusted
		}

		// Strong evidence dominates weak: a Strong-or-above criterion on
		// the opposite side halves every weaker-than-Strong criterion
		// here, once, regardless of how many anchors oppose it.
		if !r.Strength.AtLeastStrong() {
			opposed := (r.Direction == model.DirectionOncogenic && strongBen) ||
				(r.Direction == model.DirectionBenign && strongOnc)
			if opposed {
				adjustments = append(adjustments, model.WeightAdjustment{
					Criterion: r.ID,
					Original:  w,
					Applied:   w / 2,
					Reason:    "halved: opposed by strong evidence on the other side",
				})
				w /= 2
			}
		}
		weights[r.ID] = w
	}
	return weights, adjustments
}

func addCount(s *sideCounts, strength model.Strength) {
	switch strength {
	case model.StrengthVeryStrong:
		s.veryStrong++
	case model.StrengthStrong:
		s.strong++
	case model.StrengthModerate:
		s.moderate++
	case model.StrengthSupporting:
		s.supporting++
	}
}

func firstMatch(rules []model.CombinationRule, counts sideCounts) *model.CombinationRule {
	for i := range rules {
		if counts.matches(rules[i]) {
			return &rules[i]
		}
	}
	return nil
}

func clip(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
