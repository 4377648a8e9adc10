// Sample request generator and end-to-end demonstration.
// Writes representative variant request documents and classifies each one,
// so the printed outcome shows what `arti classify` will produce.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
	"github.com/ChromatinCloud/Arti-sub001/internal/pipeline"
)

type sample struct {
	File    string
	Note    string
	Request *pipeline.Request
}

func main() {
	outputDir := "examples"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	fmt.Println("=== Arti Sample Request Generator ===")
	fmt.Println()
	fmt.Printf("Writing sample request documents to: %s\n\n", outputDir)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: create output directory: %v\n", err)
		os.Exit(1)
	}

	p, err := pipeline.NewPipeline(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	for _, s := range samples() {
		fmt.Printf("Generating: %s\n", s.File)
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("  Variant:      %s (%s)\n", s.Request.Variant.Key(), s.Request.Variant.ProteinChange)
		fmt.Printf("  Cancer type:  %s (%s)\n", s.Request.CancerType, s.Request.Analysis)
		fmt.Printf("  %s\n", s.Note)

		outcome, err := p.ClassifyRequest(ctx, s.Request)
		if err != nil {
			fmt.Printf("  ✗ Classification error: %v\n", err)
			continue
		}

		result := outcome.Result
		fmt.Printf("  ✓ Oncogenicity: %s (confidence %.2f)\n",
			result.Oncogenicity.Classification, result.Oncogenicity.Confidence)
		fmt.Printf("  ✓ Somatic confidence: %.2f\n", result.Somatic.Score)
		for _, tier := range result.Tiers {
			line := fmt.Sprintf("  ✓ %s: %s", tier.Framework, tier.Tier)
			if len(tier.Flags) > 0 {
				flags := make([]string, len(tier.Flags))
				for i, f := range tier.Flags {
					flags[i] = string(f)
				}
				line += fmt.Sprintf(" (%s)", strings.Join(flags, ", "))
			}
			fmt.Println(line)
		}

		path := filepath.Join(outputDir, s.File)
		if err := writeRequest(s.Request, path); err != nil {
			fmt.Printf("  ✗ Write error: %v\n", err)
			continue
		}
		fmt.Printf("  ✓ Wrote %s\n", path)
		fmt.Println()
	}

	fmt.Println("=== Generation Complete ===")
	fmt.Println()
	fmt.Println("Note: request documents carry the evidence bundle inline, so")
	fmt.Println("classification is deterministic and needs no network access.")
	fmt.Printf("Classify one with: arti classify %s\n", filepath.Join(outputDir, "braf-v600e.json"))
}

func writeRequest(req *pipeline.Request, path string) error {
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// samples covers the classification spectrum: a canonical driver with
// approved therapy, a common germline polymorphism, and a subclonal
// hotspot call whose somatic confidence holds its tier back.
func samples() []sample {
	return []sample{
		{
			File: "braf-v600e.json",
			Note: "Canonical activating hotspot with an approved same-cancer therapy.",
			Request: &pipeline.Request{
				Variant: model.Variant{
					Gene: "BRAF", Chromosome: "7", Position: 140753336,
					Ref: "A", Alt: "T", Consequence: model.ConsequenceMissense,
					ProteinChange: "p.Val600Glu", ProteinPosition: 600,
				},
				Evidence: &model.EvidenceBundle{
					SchemaVersion: "v1",
					Gene: &model.GeneEvidence{
						Source: model.SourceRef{Name: "cgc", Version: "v100"},
						Role:   model.RoleOncogene,
						CriticalDomains: []model.DomainRegion{
							{Name: "kinase", Start: 457, End: 717},
						},
						MalignancyAssociations: []string{"melanoma", "colorectal adenocarcinoma"},
					},
					Population: &model.PopulationEvidence{
						Source:  model.SourceRef{Name: "gnomad", Version: "4.1"},
						Covered: true,
						Absent:  true,
					},
					Hotspot: &model.HotspotEvidence{
						Source:       model.SourceRef{Name: "cancerhotspots", Version: "2017"},
						SampleCount:  1456,
						TotalSamples: 24592,
						QValue:       floatPtr(1e-12),
						InHotspot:    true,
					},
					Clinical: &model.ClinicalEvidence{
						Source:                model.SourceRef{Name: "clinvar", Version: "2025-06"},
						Significance:          model.SignificancePathogenic,
						ReviewStatus:          "reviewed_by_expert_panel",
						SameAAChangeOncogenic: true,
						GuidelineOncogenic:    true,
					},
					Functional: &model.FunctionalEvidence{
						Source:             model.SourceRef{Name: "dbnsfp", Version: "4.7"},
						DamagingPredictors: 8,
						TotalPredictors:    9,
						ConsensusScore:     floatPtr(0.97),
						StudySupport:       model.SupportEstablishedOncogenic,
					},
					Therapies: []model.TherapeuticEvidence{
						{
							Source:     model.SourceRef{Name: "oncokb", Version: "2025-07"},
							Therapy:    "dabrafenib+trametinib",
							CancerType: "melanoma",
							Level:      model.LevelApproved,
						},
					},
					Sample: &model.SampleEvidence{
						Source: model.SourceRef{Name: "caller", Version: "1.4"},
						VAF:    0.42, Depth: 412,
						Purity: floatPtr(0.7),
					},
				},
				CancerType: "melanoma",
				Analysis:   model.TumorOnly,
			},
		},
		{
			File: "tp53-p72r.json",
			Note: "Common germline polymorphism; expect a benign call and tier exclusion.",
			Request: &pipeline.Request{
				Variant: model.Variant{
					Gene: "TP53", Chromosome: "17", Position: 7676154,
					Ref: "G", Alt: "C", Consequence: model.ConsequenceMissense,
					ProteinChange: "p.Pro72Arg", ProteinPosition: 72,
				},
				Evidence: &model.EvidenceBundle{
					SchemaVersion: "v1",
					Gene: &model.GeneEvidence{
						Source: model.SourceRef{Name: "cgc", Version: "v100"},
						Role:   model.RoleTumorSuppressor,
					},
					Population: &model.PopulationEvidence{
						Source:          model.SourceRef{Name: "gnomad", Version: "4.1"},
						AlleleFrequency: 0.34,
						Covered:         true,
					},
					Clinical: &model.ClinicalEvidence{
						Source:       model.SourceRef{Name: "clinvar", Version: "2025-06"},
						Significance: model.SignificanceBenign,
						ReviewStatus: "reviewed_by_expert_panel",
					},
					Functional: &model.FunctionalEvidence{
						Source:           model.SourceRef{Name: "dbnsfp", Version: "4.7"},
						BenignPredictors: 8,
						TotalPredictors:  9,
						ConsensusScore:   floatPtr(0.08),
						StudySupport:     model.SupportNeutral,
					},
					Sample: &model.SampleEvidence{
						Source: model.SourceRef{Name: "caller", Version: "1.4"},
						VAF:    0.49, Depth: 388,
					},
				},
				CancerType: "breast carcinoma",
				Analysis:   model.TumorOnly,
			},
		},
		{
			File: "kras-g12c-subclonal.json",
			Note: "Established hotspot at subclonal fraction; somatic confidence gates the tier.",
			Request: &pipeline.Request{
				Variant: model.Variant{
					Gene: "KRAS", Chromosome: "12", Position: 25245351,
					Ref: "C", Alt: "A", Consequence: model.ConsequenceMissense,
					ProteinChange: "p.Gly12Cys", ProteinPosition: 12,
				},
				Evidence: &model.EvidenceBundle{
					SchemaVersion: "v1",
					Gene: &model.GeneEvidence{
						Source:                 model.SourceRef{Name: "cgc", Version: "v100"},
						Role:                   model.RoleOncogene,
						MalignancyAssociations: []string{"lung adenocarcinoma", "colorectal adenocarcinoma"},
					},
					Population: &model.PopulationEvidence{
						Source:  model.SourceRef{Name: "gnomad", Version: "4.1"},
						Covered: true,
						Absent:  true,
					},
					Hotspot: &model.HotspotEvidence{
						Source:       model.SourceRef{Name: "cancerhotspots", Version: "2017"},
						SampleCount:  912,
						TotalSamples: 24592,
						QValue:       floatPtr(1e-10),
						InHotspot:    true,
					},
					Therapies: []model.TherapeuticEvidence{
						{
							Source:     model.SourceRef{Name: "oncokb", Version: "2025-07"},
							Therapy:    "sotorasib",
							CancerType: "lung adenocarcinoma",
							Level:      model.LevelApproved,
						},
					},
					Sample: &model.SampleEvidence{
						Source: model.SourceRef{Name: "caller", Version: "1.4"},
						VAF:    0.06, Depth: 540,
						Purity: floatPtr(0.8),
					},
				},
				CancerType: "lung adenocarcinoma",
				Analysis:   model.TumorOnly,
			},
		},
	}
}

func floatPtr(f float64) *float64 { return &f }
