// Package dsc implements the Dynamic Somatic Confidence calculator: a
// bounded estimate of how likely a detected variant is truly somatic rather
// than germline or artifactual. DSC feeds tier gating only; it never
// changes the oncogenicity verdict.
package dsc

import (
	"fmt"
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Calculator computes DSC scores. It is stateless and safe for concurrent
// use.
type Calculator struct {
	cfg model.DSCConfig
}

// NewCalculator creates a calculator over an already validated DSC config.
func NewCalculator(cfg model.DSCConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Calculate combines the three sub-scores into one bounded value. Weights
// come from the analysis context; when genomic context data is absent its
// weight is redistributed over the remaining components so the absence
// stays neutral instead of dragging the score down.
func (c *Calculator) Calculate(v model.Variant, b *model.EvidenceBundle, ctx model.AnalysisContext) model.SomaticConfidence {
	af, afRationale, purityEstimated := c.alleleFractionScore(b.Sample)
	prior, priorRationale := c.priorScore(v, b, ctx)
	context, ctxRationale, unavailable := c.contextScore(b.Sample)

	w := c.cfg.Weights[ctx]
	wAF, wPrior, wCtx := w.AlleleFraction, w.SomaticPrior, w.GenomicContext
	if unavailable {
		remaining := wAF + wPrior
		if remaining > 0 {
			wAF = wAF / remaining
			wPrior = wPrior / remaining
		}
		wCtx = 0
	}

	score := clip(wAF*af + wPrior*prior + wCtx*context)

	return model.SomaticConfidence{
		Score: score,
		Breakdown: []model.DSCComponent{
			{Name: model.ComponentAlleleFraction, Value: af, Weight: wAF, Rationale: afRationale},
			{Name: model.ComponentSomaticPrior, Value: prior, Weight: wPrior, Rationale: priorRationale},
			{Name: model.ComponentGenomicContext, Value: context, Weight: wCtx, Rationale: ctxRationale},
		},
		PurityEstimated:    purityEstimated,
		ContextUnavailable: unavailable,
	}
}

// alleleFractionScore scores how consistent the observed VAF is with a
// heterozygous or LOH somatic event at the sample's purity. Banded: the
// consistent band spans [HighMin,1], subclonal [SubclonalMin,SubclonalMax],
// everything else lands below SubclonalMin.
func (c *Calculator) alleleFractionScore(s *model.SampleEvidence) (float64, string, bool) {
	b := c.cfg.Bands
	if s == nil {
		return b.Neutral, "no sample measurements; allele-fraction consistency unknown", false
	}

	purity := c.cfg.DefaultPurity
	estimated := true
	if s.Purity != nil {
		purity = *s.Purity
		estimated = false
	}

	hetExp := purity / 2
	lohExp := purity
	dHet := abs(s.VAF - hetExp)
	dLOH := abs(s.VAF - lohExp)

	var score float64
	var rationale string
	switch {
	case dHet <= b.Tolerance || dLOH <= b.Tolerance:
		d, mode := dHet, "heterozygous"
		if dLOH < dHet {
			d, mode = dLOH, "LOH"
		}
		score = b.HighMin + (1-b.HighMin)*(1-d/b.Tolerance)
		rationale = fmt.Sprintf("VAF %.2f consistent with a %s somatic event at purity %.2f", s.VAF, mode, purity)
	case s.VAF >= b.MinSubclonalVAF && s.VAF < hetExp:
		frac := s.VAF / hetExp
		score = b.SubclonalMin + (b.SubclonalMax-b.SubclonalMin)*frac
		rationale = fmt.Sprintf("VAF %.2f plausible only for a minor subclone at purity %.2f", s.VAF, purity)
	case abs(s.VAF-0.5) <= b.Tolerance/2 || s.VAF >= 1-b.Tolerance/2:
		score = b.GermlineSuspect
		rationale = fmt.Sprintf("VAF %.2f sits at a germline-typical fraction unsupported by purity %.2f", s.VAF, purity)
	case s.VAF < b.MinSubclonalVAF:
		score = b.Inconsistent
		rationale = fmt.Sprintf("VAF %.2f in the ambiguous low range", s.VAF)
	default:
		score = b.Inconsistent
		rationale = fmt.Sprintf("VAF %.2f inconsistent with purity %.2f", s.VAF, purity)
	}

	if estimated {
		if score > b.SubclonalMax {
			score = b.SubclonalMax
		}
		rationale += fmt.Sprintf("; purity defaulted to %.2f, sub-score capped", purity)
	}
	return score, rationale, estimated
}

// priorScore starts from an uninformative 0.5 and moves with the evidence:
// recurrence and driver mechanism push somatic, population presence and
// germline-pathogenic assertions push germline. In TUMOR_NORMAL runs the
// germline-indicative penalties shrink by GermlineResidualFactor because
// matched-normal subtraction already removed germline calls.
func (c *Calculator) priorScore(v model.Variant, b *model.EvidenceBundle, ctx model.AnalysisContext) (float64, string) {
	p := c.cfg.Prior
	germFactor := 1.0
	if ctx == model.TumorNormal {
		germFactor = p.GermlineResidualFactor
	}

	score := 0.5
	parts := []string{"base 0.5"}

	if h := b.Hotspot; h != nil && h.InHotspot {
		score += p.Hotspot
		parts = append(parts, fmt.Sprintf("+%.2g hotspot recurrence", p.Hotspot))
	}
	if g := b.Gene; g != nil {
		lofMechanism := g.Role.SuppressorLike() && v.Consequence.IsLossOfFunction()
		activation := g.Role.OncogeneLike() &&
			(v.Consequence == model.ConsequenceMissense || v.Consequence == model.ConsequenceInframeIndel)
		if lofMechanism || activation {
			score += p.Mechanism
			parts = append(parts, fmt.Sprintf("+%.2g driver mechanism", p.Mechanism))
		}
	}
	if pop := b.Population; pop != nil {
		if pop.Covered && (pop.Absent || pop.AlleleFrequency == 0) {
			score += p.AbsentFromPopulation
			parts = append(parts, fmt.Sprintf("+%.2g absent from population", p.AbsentFromPopulation))
		} else if pop.AlleleFrequency > 0 {
			penalty := pop.AlleleFrequency * p.PopulationScale
			if penalty > p.MaxPopulationPenalty {
				penalty = p.MaxPopulationPenalty
			}
			penalty *= germFactor
			score -= penalty
			parts = append(parts, fmt.Sprintf("-%.2g population AF %.3g", penalty, pop.AlleleFrequency))
		}
	}
	if cl := b.Clinical; cl != nil && cl.GermlinePathogenic {
		penalty := p.GermlinePathogenic * germFactor
		score -= penalty
		parts = append(parts, fmt.Sprintf("-%.2g germline-pathogenic assertion", penalty))
	}

	return clip(score), strings.Join(parts, ", ")
}

// contextScore averages the genomic context signals that are present: LOH
// co-occurrence and mutational-signature concordance. With no signals it
// reports unavailable and the component drops out of the weighting.
func (c *Calculator) contextScore(s *model.SampleEvidence) (float64, string, bool) {
	if s == nil {
		return 0, "no sample evidence; genomic context unavailable", true
	}

	var sum float64
	var parts []string
	n := 0
	if s.LOH != nil {
		v := 0.5
		if *s.LOH {
			v = 1.0
			parts = append(parts, "LOH co-occurrence")
		} else {
			parts = append(parts, "no LOH observed")
		}
		sum += v
		n++
	}
	if s.SignatureConcordance != nil {
		sum += *s.SignatureConcordance
		parts = append(parts, fmt.Sprintf("signature concordance %.2f", *s.SignatureConcordance))
		n++
	}
	if n == 0 {
		return 0, "no genomic context measurements", true
	}
	return sum / float64(n), strings.Join(parts, ", "), false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
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
