// Package criteria implements the oncogenicity criterion catalog: one pure
// evaluator per criterion, registered in an ordered table with static
// metadata so the combiner can iterate without dynamic dispatch.
package criteria

import (
	"fmt"
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Input bundles everything an evaluator is allowed to see. Evaluators are
// pure: same Input, same result.
type Input struct {
	Variant    model.Variant
	Evidence   *model.EvidenceBundle
	Context    model.CancerContext
	Thresholds model.CriteriaThresholds
}

// Criterion is one registered evaluator with its static metadata. Evaluate
// returns met, a rationale, and the evidence source IDs it consulted.
type Criterion struct {
	ID          model.CriterionID
	Strength    model.Strength
	Direction   model.Direction
	Description string
	Evaluate    func(in Input) (bool, string, []string)
}

// Catalog returns the ordered criterion table. Order is part of the output
// contract: audit trails list criteria in catalog order.
func Catalog() []Criterion {
	return []Criterion{
		{ID: model.OVS1, Strength: model.StrengthVeryStrong, Direction: model.DirectionOncogenic,
			Description: "null variant in a gene where loss of function drives cancer", Evaluate: evalOVS1},
		{ID: model.OS1, Strength: model.StrengthStrong, Direction: model.DirectionOncogenic,
			Description: "same amino acid change as an established oncogenic variant", Evaluate: evalOS1},
		{ID: model.OS2, Strength: model.StrengthStrong, Direction: model.DirectionOncogenic,
			Description: "recognized as oncogenic by professional guidelines", Evaluate: evalOS2},
		{ID: model.OS3, Strength: model.StrengthStrong, Direction: model.DirectionOncogenic,
			Description: "well-established cancer hotspot with significant recurrence", Evaluate: evalOS3},
		{ID: model.OM1, Strength: model.StrengthModerate, Direction: model.DirectionOncogenic,
			Description: "located in a critical, well-established functional domain", Evaluate: evalOM1},
		{ID: model.OM2, Strength: model.StrengthModerate, Direction: model.DirectionOncogenic,
			Description: "functional studies support an oncogenic effect", Evaluate: evalOM2},
		{ID: model.OM3, Strength: model.StrengthModerate, Direction: model.DirectionOncogenic,
			Description: "cancer hotspot with moderate recurrence", Evaluate: evalOM3},
		{ID: model.OM4, Strength: model.StrengthModerate, Direction: model.DirectionOncogenic,
			Description: "protein length change in an established cancer gene", Evaluate: evalOM4},
		{ID: model.OP1, Strength: model.StrengthSupporting, Direction: model.DirectionOncogenic,
			Description: "computational consensus supports a damaging effect", Evaluate: evalOP1},
		{ID: model.OP2, Strength: model.StrengthSupporting, Direction: model.DirectionOncogenic,
			Description: "gene is an established driver in the supplied cancer type", Evaluate: evalOP2},
		{ID: model.OP3, Strength: model.StrengthSupporting, Direction: model.DirectionOncogenic,
			Description: "cancer hotspot with low recurrence", Evaluate: evalOP3},
		{ID: model.OP4, Strength: model.StrengthSupporting, Direction: model.DirectionOncogenic,
			Description: "absent from population databases", Evaluate: evalOP4},
		{ID: model.SBVS1, Strength: model.StrengthVeryStrong, Direction: model.DirectionBenign,
			Description: "very common in the general population", Evaluate: evalSBVS1},
		{ID: model.SBS1, Strength: model.StrengthStrong, Direction: model.DirectionBenign,
			Description: "common in the general population", Evaluate: evalSBS1},
		{ID: model.SBS2, Strength: model.StrengthStrong, Direction: model.DirectionBenign,
			Description: "well-established functional studies show no oncogenic effect", Evaluate: evalSBS2},
		{ID: model.SBP1, Strength: model.StrengthSupporting, Direction: model.DirectionBenign,
			Description: "computational consensus predicts no impact", Evaluate: evalSBP1},
		{ID: model.SBP2, Strength: model.StrengthSupporting, Direction: model.DirectionBenign,
			Description: "silent variant with no predicted splice impact", Evaluate: evalSBP2},
	}
}

// EvaluateAll runs the full catalog and returns one result per criterion in
// catalog order, met or not. Missing evidence categories are not errors:
// the affected criteria report unmet with a rationale saying so.
func EvaluateAll(v model.Variant, b *model.EvidenceBundle, ctx model.CancerContext, th model.CriteriaThresholds) []model.CriterionResult {
	in := Input{Variant: v, Evidence: b, Context: ctx, Thresholds: th}
	catalog := Catalog()
	results := make([]model.CriterionResult, 0, len(catalog))
	for _, c := range catalog {
		met, rationale, refs := c.Evaluate(in)
		results = append(results, model.CriterionResult{
			ID:           c.ID,
			Met:          met,
			Strength:     c.Strength,
			Direction:    c.Direction,
			Rationale:    rationale,
			EvidenceRefs: refs,
		})
	}
	return results
}

func noEvidence(category string) (bool, string, []string) {
	return false, "no " + category + " evidence available", nil
}

// --- Oncogenic side ---

func evalOVS1(in Input) (bool, string, []string) {
	if !in.Variant.Consequence.IsLossOfFunction() {
		return false, fmt.Sprintf("consequence %s is not loss-of-function", in.Variant.Consequence), nil
	}
	g := in.Evidence.Gene
	if g == nil {
		return noEvidence("gene")
	}
	if !g.Role.SuppressorLike() {
		return false, fmt.Sprintf("gene role %s does not support a loss-of-function mechanism", g.Role), []string{g.Source.ID()}
	}
	return true, fmt.Sprintf("%s consequence in %s (role %s)", in.Variant.Consequence, in.Variant.Gene, g.Role), []string{g.Source.ID()}
}

func evalOS1(in Input) (bool, string, []string) {
	c := in.Evidence.Clinical
	if c == nil {
		return noEvidence("clinical")
	}
	if !c.SameAAChangeOncogenic {
		return false, "no established oncogenic variant causes the same amino acid change", []string{c.Source.ID()}
	}
	return true, fmt.Sprintf("amino acid change %s matches an established oncogenic variant", in.Variant.ProteinChange), []string{c.Source.ID()}
}

func evalOS2(in Input) (bool, string, []string) {
	c := in.Evidence.Clinical
	if c == nil {
		return noEvidence("clinical")
	}
	if !c.GuidelineOncogenic {
		return false, "not listed as oncogenic by professional guidelines", []string{c.Source.ID()}
	}
	return true, "listed as oncogenic by professional guidelines", []string{c.Source.ID()}
}

func evalOS3(in Input) (bool, string, []string) {
	h := in.Evidence.Hotspot
	if h == nil {
		return noEvidence("hotspot")
	}
	if h.SampleCount >= in.Thresholds.EstablishedHotspotMinCount {
		return true, fmt.Sprintf("recurrence %d >= %d samples across tumor cohorts", h.SampleCount, in.Thresholds.EstablishedHotspotMinCount), []string{h.Source.ID()}
	}
	if h.QValue != nil && *h.QValue <= in.Thresholds.EstablishedHotspotMaxQ {
		return true, fmt.Sprintf("hotspot q-value %.4g <= %.4g", *h.QValue, in.Thresholds.EstablishedHotspotMaxQ), []string{h.Source.ID()}
	}
	return false, fmt.Sprintf("recurrence %d below the established-hotspot bar", h.SampleCount), []string{h.Source.ID()}
}

// os3Qualifies mirrors evalOS3's positive branch so the lower hotspot tiers
// stay mutually exclusive with it.
func os3Qualifies(h *model.HotspotEvidence, th model.CriteriaThresholds) bool {
	if h.SampleCount >= th.EstablishedHotspotMinCount {
		return true
	}
	return h.QValue != nil && *h.QValue <= th.EstablishedHotspotMaxQ
}

func evalOM1(in Input) (bool, string, []string) {
	g := in.Evidence.Gene
	if g == nil {
		return noEvidence("gene")
	}
	if in.Variant.Consequence == model.ConsequenceSynonymous ||
		in.Variant.Consequence == model.ConsequenceIntronic ||
		in.Variant.Consequence == model.ConsequenceUTR {
		return false, fmt.Sprintf("consequence %s does not alter the protein", in.Variant.Consequence), []string{g.Source.ID()}
	}
	if in.Variant.ProteinPosition == 0 {
		return false, "protein position unknown", []string{g.Source.ID()}
	}
	for _, d := range g.CriticalDomains {
		if d.Contains(in.Variant.ProteinPosition) {
			return true, fmt.Sprintf("residue %d falls in critical domain %s (%d-%d)", in.Variant.ProteinPosition, d.Name, d.Start, d.End), []string{g.Source.ID()}
		}
	}
	return false, fmt.Sprintf("residue %d outside all %d annotated critical domains", in.Variant.ProteinPosition, len(g.CriticalDomains)), []string{g.Source.ID()}
}

func evalOM2(in Input) (bool, string, []string) {
	f := in.Evidence.Functional
	if f == nil {
		return noEvidence("functional")
	}
	switch f.StudySupport {
	case model.SupportEstablishedOncogenic, model.SupportModerateOncogenic:
		return true, fmt.Sprintf("functional studies graded %s", f.StudySupport), []string{f.Source.ID()}
	}
	return false, fmt.Sprintf("functional study support is %q, not oncogenic", f.StudySupport), []string{f.Source.ID()}
}

func evalOM3(in Input) (bool, string, []string) {
	h := in.Evidence.Hotspot
	if h == nil {
		return noEvidence("hotspot")
	}
	if os3Qualifies(h, in.Thresholds) {
		return false, "recurrence qualifies for the established-hotspot criterion instead", []string{h.Source.ID()}
	}
	if h.SampleCount >= in.Thresholds.ModerateHotspotMinCount {
		return true, fmt.Sprintf("recurrence %d >= %d samples", h.SampleCount, in.Thresholds.ModerateHotspotMinCount), []string{h.Source.ID()}
	}
	return false, fmt.Sprintf("recurrence %d below %d samples", h.SampleCount, in.Thresholds.ModerateHotspotMinCount), []string{h.Source.ID()}
}

func evalOM4(in Input) (bool, string, []string) {
	if !in.Variant.Consequence.IsProteinLengthChanging() {
		return false, fmt.Sprintf("consequence %s does not change protein length in-frame", in.Variant.Consequence), nil
	}
	g := in.Evidence.Gene
	if g == nil {
		return noEvidence("gene")
	}
	if g.Role == model.RoleUnknown {
		return false, "gene has no established cancer role", []string{g.Source.ID()}
	}
	return true, fmt.Sprintf("%s in %s (role %s)", in.Variant.Consequence, in.Variant.Gene, g.Role), []string{g.Source.ID()}
}

func evalOP1(in Input) (bool, string, []string) {
	f := in.Evidence.Functional
	if f == nil {
		return noEvidence("functional")
	}
	if f.TotalPredictors < in.Thresholds.MinPredictors {
		return false, fmt.Sprintf("only %d predictors, need %d for consensus", f.TotalPredictors, in.Thresholds.MinPredictors), []string{f.Source.ID()}
	}
	ratio := float64(f.DamagingPredictors) / float64(f.TotalPredictors)
	if ratio < in.Thresholds.DamagingConsensusRatio {
		return false, fmt.Sprintf("%d/%d predictors damaging, below %.0f%% consensus", f.DamagingPredictors, f.TotalPredictors, in.Thresholds.DamagingConsensusRatio*100), []string{f.Source.ID()}
	}
	if f.ConsensusScore != nil && *f.ConsensusScore < in.Thresholds.DamagingConsensusScore {
		return false, fmt.Sprintf("consensus score %.2f below %.2f", *f.ConsensusScore, in.Thresholds.DamagingConsensusScore), []string{f.Source.ID()}
	}
	return true, fmt.Sprintf("%d/%d predictors call the variant damaging", f.DamagingPredictors, f.TotalPredictors), []string{f.Source.ID()}
}

func evalOP2(in Input) (bool, string, []string) {
	g := in.Evidence.Gene
	if g == nil {
		return noEvidence("gene")
	}
	want := strings.ToLower(in.Context.CancerType)
	for _, assoc := range g.MalignancyAssociations {
		if strings.ToLower(assoc) == want {
			return true, fmt.Sprintf("%s is an established driver in %s", in.Variant.Gene, in.Context.CancerType), []string{g.Source.ID()}
		}
	}
	return false, fmt.Sprintf("%s has no recorded association with %s", in.Variant.Gene, in.Context.CancerType), []string{g.Source.ID()}
}

func evalOP3(in Input) (bool, string, []string) {
	h := in.Evidence.Hotspot
	if h == nil {
		return noEvidence("hotspot")
	}
	if os3Qualifies(h, in.Thresholds) || h.SampleCount >= in.Thresholds.ModerateHotspotMinCount {
		return false, "recurrence qualifies for a stronger hotspot criterion instead", []string{h.Source.ID()}
	}
	if h.InHotspot && h.SampleCount >= in.Thresholds.SupportingHotspotMinCount {
		return true, fmt.Sprintf("recognized hotspot position with %d samples", h.SampleCount), []string{h.Source.ID()}
	}
	return false, "position is not a recognized hotspot", []string{h.Source.ID()}
}

func evalOP4(in Input) (bool, string, []string) {
	p := in.Evidence.Population
	if p == nil {
		return noEvidence("population")
	}
	if !p.Covered {
		return false, "locus not adequately covered in population databases", []string{p.Source.ID()}
	}
	if p.Absent || p.AlleleFrequency == 0 {
		return true, "absent from population databases with adequate coverage", []string{p.Source.ID()}
	}
	return false, fmt.Sprintf("observed in the population at AF %.3g", p.AlleleFrequency), []string{p.Source.ID()}
}

// --- Benign side ---

func evalSBVS1(in Input) (bool, string, []string) {
	p := in.Evidence.Population
	if p == nil {
		return noEvidence("population")
	}
	if p.AlleleFrequency >= in.Thresholds.VeryCommonAF {
		return true, fmt.Sprintf("population AF %.3g >= %.3g", p.AlleleFrequency, in.Thresholds.VeryCommonAF), []string{p.Source.ID()}
	}
	return false, fmt.Sprintf("population AF %.3g below %.3g", p.AlleleFrequency, in.Thresholds.VeryCommonAF), []string{p.Source.ID()}
}

func evalSBS1(in Input) (bool, string, []string) {
	p := in.Evidence.Population
	if p == nil {
		return noEvidence("population")
	}
	// Exclusive with SBVS1: frequencies at or above VeryCommonAF count
	// only for the stronger criterion.
	if p.AlleleFrequency >= in.Thresholds.CommonAF && p.AlleleFrequency < in.Thresholds.VeryCommonAF {
		return true, fmt.Sprintf("population AF %.3g >= %.3g", p.AlleleFrequency, in.Thresholds.CommonAF), []string{p.Source.ID()}
	}
	if p.AlleleFrequency >= in.Thresholds.VeryCommonAF {
		return false, "frequency qualifies for the very-common criterion instead", []string{p.Source.ID()}
	}
	return false, fmt.Sprintf("population AF %.3g below %.3g", p.AlleleFrequency, in.Thresholds.CommonAF), []string{p.Source.ID()}
}

func evalSBS2(in Input) (bool, string, []string) {
	f := in.Evidence.Functional
	if f == nil {
		return noEvidence("functional")
	}
	if f.StudySupport == model.SupportNeutral {
		return true, "well-established functional studies show no oncogenic effect", []string{f.Source.ID()}
	}
	return false, fmt.Sprintf("functional study support is %q, not neutral", f.StudySupport), []string{f.Source.ID()}
}

func evalSBP1(in Input) (bool, string, []string) {
	f := in.Evidence.Functional
	if f == nil {
		return noEvidence("functional")
	}
	if f.TotalPredictors < in.Thresholds.MinPredictors {
		return false, fmt.Sprintf("only %d predictors, need %d for consensus", f.TotalPredictors, in.Thresholds.MinPredictors), []string{f.Source.ID()}
	}
	ratio := float64(f.BenignPredictors) / float64(f.TotalPredictors)
	if ratio < in.Thresholds.BenignConsensusRatio {
		return false, fmt.Sprintf("%d/%d predictors benign, below %.0f%% consensus", f.BenignPredictors, f.TotalPredictors, in.Thresholds.BenignConsensusRatio*100), []string{f.Source.ID()}
	}
	if f.ConsensusScore != nil && *f.ConsensusScore > in.Thresholds.BenignConsensusScore {
		return false, fmt.Sprintf("consensus score %.2f above %.2f", *f.ConsensusScore, in.Thresholds.BenignConsensusScore), []string{f.Source.ID()}
	}
	return true, fmt.Sprintf("%d/%d predictors call the variant benign", f.BenignPredictors, f.TotalPredictors), []string{f.Source.ID()}
}

func evalSBP2(in Input) (bool, string, []string) {
	if in.Variant.Consequence != model.ConsequenceSynonymous {
		return false, fmt.Sprintf("consequence %s is not synonymous", in.Variant.Consequence), nil
	}
	f := in.Evidence.Functional
	if f == nil || f.SpliceImpact == nil {
		return false, "no splice impact prediction available", nil
	}
	if *f.SpliceImpact <= in.Thresholds.MaxSpliceImpact {
		return true, fmt.Sprintf("synonymous with splice impact %.3f <= %.3f", *f.SpliceImpact, in.Thresholds.MaxSpliceImpact), []string{f.Source.ID()}
	}
	return false, fmt.Sprintf("predicted splice impact %.3f above %.3f", *f.SpliceImpact, in.Thresholds.MaxSpliceImpact), []string{f.Source.ID()}
}
