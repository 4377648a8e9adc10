package dsc

import (
	"math"
	"testing"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

func newTestCalculator() *Calculator {
	return NewCalculator(model.DefaultConfig().DSC)
}

func fptr(f float64) *float64 { return &f }
func bptr(b bool) *bool       { return &b }

func component(t *testing.T, sc model.SomaticConfidence, name string) model.DSCComponent {
	t.Helper()
	for _, c := range sc.Breakdown {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("component %s missing from breakdown", name)
	return model.DSCComponent{}
}

func TestCalculate_HetConsistentVAFScoresHighBand(t *testing.T) {
	v := model.Variant{Gene: "BRAF", Consequence: model.ConsequenceMissense}
	bundle := &model.EvidenceBundle{
		SchemaVersion: "1",
		Sample: &model.SampleEvidence{
			Source: model.SourceRef{Name: "pipeline"},
			VAF:    0.45,
			Purity: fptr(0.8),
		},
	}

	sc := newTestCalculator().Calculate(v, bundle, model.TumorNormal)

	af := component(t, sc, model.ComponentAlleleFraction)
	if af.Value < 0.8 {
		t.Errorf("expected high-band allele fraction score, got %g (%s)", af.Value, af.Rationale)
	}
	if sc.PurityEstimated {
		t.Error("purity was supplied but flagged as estimated")
	}
	if sc.Score < 0 || sc.Score > 1 {
		t.Errorf("score out of bounds: %g", sc.Score)
	}
}

func TestCalculate_SubclonalVAFScoresMediumBand(t *testing.T) {
	v := model.Variant{Gene: "KRAS", Consequence: model.ConsequenceMissense}
	bundle := &model.EvidenceBundle{
		SchemaVersion: "1",
		Sample: &model.SampleEvidence{
			Source: model.SourceRef{Name: "pipeline"},
			VAF:    0.10,
			Purity: fptr(0.8),
		},
	}

	sc := newTestCalculator().Calculate(v, bundle, model.TumorNormal)

	af := component(t, sc, model.ComponentAlleleFraction)
	if af.Value < 0.4 || af.Value >= 0.8 {
		t.Errorf("expected subclonal band [0.4,0.7], got %g (%s)", af.Value, af.Rationale)
	}
}

func TestCalculate_GermlineTypicalVAFScoresLow(t *testing.T) {
	v := model.Variant{Gene: "BRCA1", Consequence: model.ConsequenceFrameshift}
	bundle := &model.EvidenceBundle{
		SchemaVersion: "1",
		Sample: &model.SampleEvidence{
			Source: model.SourceRef{Name: "pipeline"},
			VAF:    0.50,
			Purity: fptr(0.25), // neither het (0.125) nor LOH (0.25) reaches 0.50
		},
	}

	sc := newTestCalculator().Calculate(v, bundle, model.TumorOnly)

	af := component(t, sc, model.ComponentAlleleFraction)
	if af.Value >= 0.4 {
		t.Errorf("expected low band for a germline-typical VAF, got %g (%s)", af.Value, af.Rationale)
	}
}

func TestCalculate_MissingPurityFallsBackAndFlags(t *testing.T) {
	v := model.Variant{Gene: "TP53", Consequence: model.ConsequenceMissense}
	bundle := &model.EvidenceBundle{
		SchemaVersion: "1",
		Sample: &model.SampleEvidence{
			Source: model.SourceRef{Name: "pipeline"},
			VAF:    0.25, // het-consistent at the default purity 0.5
		},
	}

	sc := newTestCalculator().Calculate(v, bundle, model.TumorOnly)

	if !sc.PurityEstimated {
		t.Fatal("missing purity not flagged")
	}
	af := component(t, sc, model.ComponentAlleleFraction)
	if af.Value > 0.7 {
		t.Errorf("estimated purity must cap the sub-score at 0.7, got %g", af.Value)
	}
	if sc.Score < 0 || sc.Score > 1 {
		t.Errorf("score out of bounds: %g", sc.Score)
	}
}

func TestCalculate_ContextUnavailableStaysNeutral(t *testing.T) {
	v := model.Variant{Gene: "BRAF", Consequence: model.ConsequenceMissense}
	bundle := &model.EvidenceBundle{
		SchemaVersion: "1",
		Sample: &model.SampleEvidence{
			Source: model.SourceRef{Name: "pipeline"},
			VAF:    0.40,
			Purity: fptr(0.8),
		},
	}

	sc := newTestCalculator().Calculate(v, bundle, model.TumorNormal)

	if !sc.ContextUnavailable {
		t.Fatal("absent context data not flagged")
	}
	ctx := component(t, sc, model.ComponentGenomicContext)
	if ctx.Weight != 0 {
		t.Errorf("unavailable context still carries weight %g", ctx.Weight)
	}
	af := component(t, sc, model.ComponentAlleleFraction)
	prior := component(t, sc, model.ComponentSomaticPrior)
	if sum := af.Weight + prior.Weight; math.Abs(sum-1) > 1e-9 {
		t.Errorf("remaining weights must renormalize to 1, got %g", sum)
	}
	want := af.Weight*af.Value + prior.Weight*prior.Value
	if math.Abs(sc.Score-want) > 1e-9 {
		t.Errorf("score %g does not match weighted components %g", sc.Score, want)
	}
}

func TestCalculate_PriorMovesWithEvidence(t *testing.T) {
	v := model.Variant{Gene: "BRAF", Consequence: model.ConsequenceMissense}
	bundle := &model.EvidenceBundle{
		SchemaVersion: "1",
		Gene: &model.GeneEvidence{
			Source: model.SourceRef{Name: "cgc"},
			Role:   model.RoleOncogene,
		},
		Hotspot: &model.HotspotEvidence{
			Source:      model.SourceRef{Name: "cancerhotspots"},
			SampleCount: 25000,
			InHotspot:   true,
		},
		Population: &model.PopulationEvidence{
			Source:  model.SourceRef{Name: "gnomad"},
			Covered: true,
			Absent:  true,
		},
	}

	sc := newTestCalculator().Calculate(v, bundle, model.TumorNormal)

	prior := component(t, sc, model.ComponentSomaticPrior)
	// base 0.5 + 0.2 hotspot + 0.1 mechanism + 0.1 absent
	if math.Abs(prior.Value-0.9) > 1e-9 {
		t.Errorf("expected prior 0.9, got %g (%s)", prior.Value, prior.Rationale)
	}
}

func TestCalculate_TumorNormalScoresHigherThanTumorOnly(t *testing.T) {
	v := model.Variant{Gene: "BRCA1", Consequence: model.ConsequenceFrameshift}
	bundle := &model.EvidenceBundle{
		SchemaVersion: "1",
		Population: &model.PopulationEvidence{
			Source:          model.SourceRef{Name: "gnomad"},
			AlleleFrequency: 0.0001,
			Covered:         true,
		},
		Clinical: &model.ClinicalEvidence{
			Source:             model.SourceRef{Name: "clinvar"},
			Significance:       model.SignificancePathogenic,
			GermlinePathogenic: true,
		},
		Sample: &model.SampleEvidence{
			Source: model.SourceRef{Name: "pipeline"},
			VAF:    0.50,
			Purity: fptr(0.25),
		},
	}

	calc := newTestCalculator()
	tumorOnly := calc.Calculate(v, bundle, model.TumorOnly)
	tumorNormal := calc.Calculate(v, bundle, model.TumorNormal)

	if tumorNormal.Score <= tumorOnly.Score {
		t.Errorf("matched-normal subtraction should raise confidence: TN %g <= TO %g", tumorNormal.Score, tumorOnly.Score)
	}
}

func TestCalculate_GenomicContextSignals(t *testing.T) {
	v := model.Variant{Gene: "TP53", Consequence: model.ConsequenceMissense}
	bundle := &model.EvidenceBundle{
		SchemaVersion: "1",
		Sample: &model.SampleEvidence{
			Source:               model.SourceRef{Name: "pipeline"},
			VAF:                  0.40,
			Purity:               fptr(0.8),
			LOH:                  bptr(true),
			SignatureConcordance: fptr(0.9),
		},
	}

	sc := newTestCalculator().Calculate(v, bundle, model.TumorNormal)

	if sc.ContextUnavailable {
		t.Fatal("context flagged unavailable despite LOH and signature data")
	}
	ctx := component(t, sc, model.ComponentGenomicContext)
	if math.Abs(ctx.Value-0.95) > 1e-9 {
		t.Errorf("expected context (1.0+0.9)/2 = 0.95, got %g", ctx.Value)
	}
	if ctx.Weight == 0 {
		t.Error("available context lost its weight")
	}
}

func TestCalculate_AlwaysBounded(t *testing.T) {
	v := model.Variant{Gene: "GJB2", Consequence: model.ConsequenceMissense}
	bundles := []*model.EvidenceBundle{
		{SchemaVersion: "1"},
		{
			SchemaVersion: "1",
			Population: &model.PopulationEvidence{
				Source:          model.SourceRef{Name: "gnomad"},
				AlleleFrequency: 0.4,
				Covered:         true,
			},
			Clinical: &model.ClinicalEvidence{
				Source:             model.SourceRef{Name: "clinvar"},
				GermlinePathogenic: true,
			},
			Sample: &model.SampleEvidence{
				Source: model.SourceRef{Name: "pipeline"},
				VAF:    0.99,
				Purity: fptr(0.1),
			},
		},
	}

	calc := newTestCalculator()
	for i, b := range bundles {
		for _, ctx := range []model.AnalysisContext{model.TumorOnly, model.TumorNormal} {
			sc := calc.Calculate(v, b, ctx)
			if sc.Score < 0 || sc.Score > 1 {
				t.Errorf("bundle %d %s: score out of bounds: %g", i, ctx, sc.Score)
			}
			for _, comp := range sc.Breakdown {
				if comp.Value < 0 || comp.Value > 1 {
					t.Errorf("bundle %d %s: component %s out of bounds: %g", i, ctx, comp.Name, comp.Value)
				}
			}
		}
	}
}
