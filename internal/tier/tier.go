// Package tier implements the clinical actionability engine: one strategy
// per guideline framework over the same oncogenicity, somatic-confidence
// and therapeutic inputs. Frameworks never see each other's output; the
// engine only measures agreement after the fact.
package tier

import (
	"fmt"
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Input is everything a framework strategy may consult for one variant.
type Input struct {
	Oncogenicity    model.OncogenicityCall
	Somatic         model.SomaticConfidence
	Therapies       []model.TherapeuticEvidence
	CancerType      string
	Gates           model.TierGates
	ConfirmatoryDSC float64 // below this, recommend confirmatory testing
}

// Framework assigns one guideline framework's tier. Implementations are
// stateless and safe for concurrent use.
type Framework interface {
	ID() model.FrameworkID
	Assign(in Input) model.TierResult
}

// therapyClass is the strict priority order of therapeutic evidence.
type therapyClass int

const (
	therapyNone therapyClass = iota
	therapyPreclinical
	therapyTrial
	therapyApprovedOther
	therapyGuideline
	therapyApprovedSame
)

func (t therapyClass) String() string {
	switch t {
	case therapyApprovedSame:
		return "approved therapy in this indication"
	case therapyGuideline:
		return "professional guideline inclusion"
	case therapyApprovedOther:
		return "approved therapy in another indication"
	case therapyTrial:
		return "clinical trial evidence"
	case therapyPreclinical:
		return "preclinical or case-report evidence"
	default:
		return "no actionability evidence"
	}
}

// classifyTherapies finds the best non-resistance association and counts
// the resistance entries that were set aside.
func classifyTherapies(therapies []model.TherapeuticEvidence, cancerType string) (therapyClass, *model.TherapeuticEvidence, int) {
	best := therapyNone
	var bestEv *model.TherapeuticEvidence
	resistance := 0
	want := strings.ToLower(cancerType)

	for i := range therapies {
		t := &therapies[i]
		if t.Resistance {
			resistance++
			continue
		}
		var class therapyClass
		sameIndication := strings.ToLower(t.CancerType) == want
		switch t.Level {
		case model.LevelApproved:
			if sameIndication {
				class = therapyApprovedSame
			} else {
				class = therapyApprovedOther
			}
		case model.LevelGuideline:
			class = therapyGuideline
		case model.LevelClinicalTrial:
			class = therapyTrial
		case model.LevelPreclinical, model.LevelCaseReport:
			class = therapyPreclinical
		}
		if class > best {
			best = class
			bestEv = t
		}
	}
	return best, bestEv, resistance
}

// ladder describes one framework's tier order and its mapping from
// therapeutic evidence classes; the shared assign walk does the rest.
type ladder struct {
	id         model.FrameworkID
	tiers      []string // highest actionability first, lowest last
	benignTier string
	vusTier    string
	byTherapy  map[therapyClass]string
	actionable int // leading tiers counted as actionable for concordance
	potential  int // tiers after those counted as potentially actionable
}

func (l ladder) indexOf(tier string) int {
	for i, t := range l.tiers {
		if t == tier {
			return i
		}
	}
	return len(l.tiers) - 1
}

// assign runs the shared state machine: benign gate, therapy priority,
// DSC exclusion and downgrade, caveat flags. Every transition appends a
// rule invocation so the path to the final tier is replayable.
func assign(l ladder, in Input) model.TierResult {
	result := model.TierResult{Framework: l.id}

	// Benign verdicts never reach actionability, whatever the evidence.
	switch in.Oncogenicity.Classification {
	case model.ClassBenign, model.ClassLikelyBenign:
		result.Tier = l.benignTier
		result.Confidence = in.Oncogenicity.Confidence
		result.Rules = append(result.Rules, model.RuleInvocation{
			Rule:        "benign_gate",
			Description: fmt.Sprintf("oncogenicity %s maps to %s regardless of other evidence", in.Oncogenicity.Classification, l.benignTier),
			Weight:      1,
		})
		result.Justification = fmt.Sprintf("%s variant; assigned %s by the benign gate", in.Oncogenicity.Classification, result.Tier)
		return result
	}

	// Below the floor the variant is excluded from tiering, visibly.
	if in.Somatic.Score < in.Gates.ExclusionFloor {
		result.Tier = TierExcluded
		result.Confidence = 0
		result.Flags = append(result.Flags, model.FlagExcludedLowDSC)
		result.Rules = append(result.Rules, model.RuleInvocation{
			Rule:        "dsc_exclusion",
			Description: fmt.Sprintf("somatic confidence %.2f below the %.2f floor; excluded from tiering", in.Somatic.Score, in.Gates.ExclusionFloor),
			Weight:      in.Gates.ExclusionFloor,
		})
		result.Justification = "somatic origin too uncertain to assign any tier"
		return result
	}

	var class therapyClass
	var bestEv *model.TherapeuticEvidence
	var resistance int
	switch in.Oncogenicity.Classification {
	case model.ClassOncogenic, model.ClassLikelyOncogenic:
		class, bestEv, resistance = classifyTherapies(in.Therapies, in.CancerType)
		mapped, ok := l.byTherapy[class]
		if !ok {
			mapped = l.vusTier
		}
		result.Tier = mapped
		inv := model.RuleInvocation{
			Rule:        "therapy_priority",
			Description: fmt.Sprintf("%s selects %s", class, mapped),
			Weight:      1,
		}
		if bestEv != nil {
			inv.Sources = []string{bestEv.Source.ID()}
			inv.Description = fmt.Sprintf("%s (%s in %s) selects %s", class, bestEv.Therapy, bestEv.CancerType, mapped)
		}
		result.Rules = append(result.Rules, inv)
		if resistance > 0 {
			result.Rules = append(result.Rules, model.RuleInvocation{
				Rule:        "resistance_excluded",
				Description: fmt.Sprintf("%d resistance association(s) set aside from response tiering", resistance),
				Weight:      0,
			})
		}
		if class == therapyApprovedOther {
			result.Flags = append(result.Flags, model.FlagOffIndication)
		}
	default:
		// VUS oncogenicity: therapeutic evidence is not evaluated.
		result.Tier = l.vusTier
		result.Rules = append(result.Rules, model.RuleInvocation{
			Rule:        "uncertain_gate",
			Description: fmt.Sprintf("oncogenicity %s maps to %s; therapeutic evidence not evaluated", in.Oncogenicity.Classification, l.vusTier),
			Weight:      1,
		})
	}

	// Walk down the ladder until the tier's DSC gate is satisfied.
	idx := l.indexOf(result.Tier)
	for idx < len(l.tiers)-1 {
		gate := in.Gates.MinDSC(l.tiers[idx])
		if in.Somatic.Score >= gate {
			break
		}
		result.Rules = append(result.Rules, model.RuleInvocation{
			Rule:        "dsc_gate",
			Description: fmt.Sprintf("somatic confidence %.2f below the %.2f gate for %s; downgraded to %s", in.Somatic.Score, gate, l.tiers[idx], l.tiers[idx+1]),
			Weight:      gate,
		})
		idx++
	}
	if l.tiers[idx] != result.Tier {
		result.Flags = append(result.Flags, model.FlagDSCDowngraded)
		result.Tier = l.tiers[idx]
	}

	if in.Somatic.Score < in.ConfirmatoryDSC {
		result.Flags = append(result.Flags, model.FlagConfirmatoryTesting)
		result.Rules = append(result.Rules, model.RuleInvocation{
			Rule:        "confirmatory_testing",
			Description: fmt.Sprintf("somatic confidence %.2f cannot exclude germline origin; confirmatory testing recommended", in.Somatic.Score),
			Weight:      0,
		})
	}

	// Confidence cannot exceed its weakest prerequisite.
	result.Confidence = in.Oncogenicity.Confidence
	if in.Somatic.Score < result.Confidence {
		result.Confidence = in.Somatic.Score
	}
	result.Justification = justification(l, in, result, class)
	return result
}

// TierExcluded is the pseudo-tier for variants whose somatic confidence
// fell below a framework's exclusion floor.
const TierExcluded = "Excluded"

func justification(l ladder, in Input, r model.TierResult, class therapyClass) string {
	parts := []string{fmt.Sprintf("%s oncogenicity", in.Oncogenicity.Classification)}
	switch in.Oncogenicity.Classification {
	case model.ClassOncogenic, model.ClassLikelyOncogenic:
		parts = append(parts, class.String())
	}
	parts = append(parts, fmt.Sprintf("somatic confidence %.2f", in.Somatic.Score))
	if r.HasFlag(model.FlagDSCDowngraded) {
		parts = append(parts, "downgraded by the somatic-confidence gate")
	}
	return fmt.Sprintf("%s under %s: %s", r.Tier, l.id, strings.Join(parts, "; "))
}

// bucket maps a framework-native tier to a cross-framework significance
// bucket for the concordance statistic.
type bucket int

const (
	bucketNone bucket = iota
	bucketPotential
	bucketActionable
)

// Concordance is the fraction of framework pairs that land in the same
// significance bucket. A single framework is vacuously concordant.
func Concordance(results []model.TierResult) float64 {
	if len(results) < 2 {
		return 1
	}
	agree, pairs := 0, 0
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			pairs++
			if tierBucket(results[i]) == tierBucket(results[j]) {
				agree++
			}
		}
	}
	return float64(agree) / float64(pairs)
}

func tierBucket(r model.TierResult) bucket {
	var l ladder
	switch r.Framework {
	case model.FrameworkAMP:
		l = ampLadder()
	case model.FrameworkVICC:
		l = viccLadder()
	case model.FrameworkOncoKB:
		l = oncokbLadder()
	default:
		return bucketNone
	}
	if r.Tier == TierExcluded {
		return bucketNone
	}
	idx := l.indexOf(r.Tier)
	switch {
	case idx < l.actionable:
		return bucketActionable
	case idx < l.actionable+l.potential:
		return bucketPotential
	default:
		return bucketNone
	}
}
