package score

import (
	"strings"
	"testing"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

func fullBundle() *model.EvidenceBundle {
	purity := 0.7
	qval := 1e-12
	return &model.EvidenceBundle{
		SchemaVersion: "v1",
		Gene: &model.GeneEvidence{
			Source: model.SourceRef{Name: "cgc", Version: "v99"},
			Role:   model.RoleOncogene,
		},
		Population: &model.PopulationEvidence{
			Source: model.SourceRef{Name: "gnomad", Version: "4.1"},
			Absent: true, Covered: true,
		},
		Hotspot: &model.HotspotEvidence{
			Source:      model.SourceRef{Name: "cancerhotspots", Version: "v2"},
			SampleCount: 1456, QValue: &qval, InHotspot: true,
		},
		Clinical: &model.ClinicalEvidence{
			Source:       model.SourceRef{Name: "clinvar", Version: "2025-06"},
			Significance: model.SignificancePathogenic,
		},
		Functional: &model.FunctionalEvidence{
			Source:             model.SourceRef{Name: "dbnsfp", Version: "4.7"},
			DamagingPredictors: 8, TotalPredictors: 9,
		},
		Therapies: []model.TherapeuticEvidence{
			{
				Source:     model.SourceRef{Name: "oncokb", Version: "2025-07"},
				Therapy:    "dabrafenib",
				CancerType: "melanoma",
				Level:      model.LevelApproved,
			},
		},
		Sample: &model.SampleEvidence{
			Source: model.SourceRef{Name: "caller", Version: "1.6"},
			VAF:    0.42, Depth: 412, Purity: &purity,
		},
	}
}

func TestAssessor_FullBundle(t *testing.T) {
	assessor := NewAssessor()

	result := assessor.Assess(model.Variant{Gene: "BRAF"}, fullBundle())

	// Coverage 40 (7/7), attribution 30 (all versioned), readiness 20,
	// actionability 10
	if result.Index != 100 {
		t.Errorf("Expected index 100 for a full versioned bundle, got %d", result.Index)
	}
	if result.Band != "high" {
		t.Errorf("Expected high band, got %s", result.Band)
	}
	if len(result.Signals) != 4 {
		t.Errorf("Expected 4 signals, got %d", len(result.Signals))
	}
	for _, signal := range result.Signals {
		if signal.Severity != SeverityInfo {
			t.Errorf("Expected only info signals, got %s for %s", signal.Severity, signal.Type)
		}
	}
}

func TestAssessor_SparseBundle(t *testing.T) {
	assessor := NewAssessor()

	bundle := &model.EvidenceBundle{
		SchemaVersion: "v1",
		Clinical: &model.ClinicalEvidence{
			Source:       model.SourceRef{Name: "clinvar"},
			Significance: model.SignificanceUncertain,
		},
	}

	result := assessor.Assess(model.Variant{Gene: "TP53"}, bundle)

	// Coverage 5 (1/7 * 40), attribution about 20 (named only), readiness
	// 0, actionability 0
	if result.Index < 20 || result.Index > 30 {
		t.Errorf("Expected index near 25, got %d", result.Index)
	}
	if result.Band != "low" {
		t.Errorf("Expected low band, got %s", result.Band)
	}

	// Missing sample evidence must surface as critical
	found := false
	for _, signal := range result.Signals {
		if signal.Type == SignalSomaticReadiness && signal.Severity == SeverityCritical {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected a critical somatic readiness signal")
	}
}

func TestAssessor_EmptyBundle(t *testing.T) {
	assessor := NewAssessor()

	result := assessor.Assess(model.Variant{Gene: "KRAS"}, &model.EvidenceBundle{SchemaVersion: "v1"})

	if result.Index != 0 {
		t.Errorf("Expected index 0 for an empty bundle, got %d", result.Index)
	}
	if result.Band != "low" {
		t.Errorf("Expected low band, got %s", result.Band)
	}

	found := false
	for _, signal := range result.Signals {
		if signal.Type == SignalCategoryCoverage && signal.Severity == SeverityCritical {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected a critical coverage signal for an empty bundle")
	}
}

func TestAssessor_SampleGaps(t *testing.T) {
	assessor := NewAssessor()

	bundle := fullBundle()
	bundle.Sample.Purity = nil
	bundle.Sample.Depth = 0

	result := assessor.Assess(model.Variant{Gene: "BRAF"}, bundle)

	// Readiness drops to 10 of 20 when purity and depth are missing
	if result.Index != 90 {
		t.Errorf("Expected index 90, got %d", result.Index)
	}

	for _, signal := range result.Signals {
		if signal.Type != SignalSomaticReadiness {
			continue
		}
		if signal.Severity != SeverityWarning {
			t.Errorf("Expected warning severity, got %s", signal.Severity)
		}
		if !strings.Contains(signal.Description, "purity") || !strings.Contains(signal.Description, "depth") {
			t.Errorf("Expected the gaps to be named, got %q", signal.Description)
		}
	}
}

func TestAssessor_IncompleteTherapy(t *testing.T) {
	assessor := NewAssessor()

	bundle := fullBundle()
	bundle.Therapies = append(bundle.Therapies, model.TherapeuticEvidence{
		Source:  model.SourceRef{Name: "oncokb"},
		Therapy: "vemurafenib",
		// CancerType and Level missing
	})

	result := assessor.Assess(model.Variant{Gene: "BRAF"}, bundle)

	// Actionability halves: 1 of 2 associations fully specified
	found := false
	for _, signal := range result.Signals {
		if signal.Type == SignalActionabilityInputs {
			found = true
			if signal.Severity != SeverityWarning {
				t.Errorf("Expected warning for incomplete associations, got %s", signal.Severity)
			}
			if signal.Data["complete"] != 1 || signal.Data["total"] != 2 {
				t.Errorf("Expected 1/2 complete, got %v/%v", signal.Data["complete"], signal.Data["total"])
			}
		}
	}
	if !found {
		t.Error("Expected an actionability signal")
	}
}

func TestDetermineBand(t *testing.T) {
	tests := []struct {
		index int
		band  string
	}{
		{100, "high"},
		{80, "high"},
		{79, "medium"},
		{60, "medium"},
		{59, "low"},
		{0, "low"},
	}

	for _, tt := range tests {
		if got := determineBand(tt.index); got != tt.band {
			t.Errorf("determineBand(%d) = %s, want %s", tt.index, got, tt.band)
		}
	}
}
