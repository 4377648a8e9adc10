package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/evidence"
	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// VEPAdapter extracts variants from Ensembl VEP JSON output
type VEPAdapter struct{}

// NewVEPAdapter creates a new VEP output adapter
func NewVEPAdapter() *VEPAdapter {
	return &VEPAdapter{}
}

// Name returns the adapter name
func (a *VEPAdapter) Name() string {
	return "vep"
}

// CanHandle checks for VEP's distinctive envelope fields
func (a *VEPAdapter) CanHandle(data []byte, filename string) bool {
	if !looksLikeJSON(data) {
		return false
	}
	return bytes.Contains(data, []byte(`"transcript_consequences"`)) ||
		bytes.Contains(data, []byte(`"most_severe_consequence"`))
}

// vepRecord is the subset of a VEP JSON record the extractor reads.
type vepRecord struct {
	SeqRegionName          string          `json:"seq_region_name"`
	Start                  int64           `json:"start"`
	AlleleString           string          `json:"allele_string"`
	MostSevereConsequence  string          `json:"most_severe_consequence"`
	TranscriptConsequences []vepTranscript `json:"transcript_consequences"`
	ColocatedVariants      []vepColocated  `json:"colocated_variants"`
}

type vepTranscript struct {
	TranscriptID       string   `json:"transcript_id"`
	GeneSymbol         string   `json:"gene_symbol"`
	Canonical          int      `json:"canonical"`
	ConsequenceTerms   []string `json:"consequence_terms"`
	ProteinStart       int      `json:"protein_start"`
	HGVSp              string   `json:"hgvsp"`
	PolyphenPrediction string   `json:"polyphen_prediction"`
	PolyphenScore      *float64 `json:"polyphen_score"`
	SIFTPrediction     string   `json:"sift_prediction"`
	SIFTScore          *float64 `json:"sift_score"`
}

type vepColocated struct {
	ID          string                        `json:"id"`
	ClinSig     []string                      `json:"clin_sig"`
	Frequencies map[string]map[string]float64 `json:"frequencies"`
}

// Extract maps a VEP record to a variant and evidence bundle. VEP writes
// one record per input line; only the first is extracted.
func (a *VEPAdapter) Extract(data []byte) (*Result, error) {
	records, err := decodeVEP(data)
	if err != nil {
		return nil, fmt.Errorf("decode VEP output: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("VEP output contains no records")
	}

	result := &Result{
		Evidence: &model.EvidenceBundle{SchemaVersion: evidence.BundleSchemaVersion},
	}
	if len(records) > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("payload holds %d VEP records, extracted the first", len(records)))
	}

	rec := records[0]
	tc := rec.canonicalTranscript()
	if tc == nil {
		return nil, fmt.Errorf("VEP record has no transcript consequences")
	}

	ref, alt, ok := splitAlleles(rec.AlleleString)
	if !ok {
		return nil, fmt.Errorf("unsupported allele string %q", rec.AlleleString)
	}

	cons, ok := PickConsequence(tc.ConsequenceTerms)
	if !ok {
		cons, ok = NormalizeConsequence(rec.MostSevereConsequence)
	}
	if !ok {
		return nil, fmt.Errorf("no recognized consequence term in %v", tc.ConsequenceTerms)
	}

	result.Variant = model.Variant{
		Gene:            tc.GeneSymbol,
		Chromosome:      strings.TrimPrefix(rec.SeqRegionName, "chr"),
		Position:        rec.Start,
		Ref:             ref,
		Alt:             alt,
		Consequence:     cons,
		ProteinChange:   proteinChangeFromHGVSp(tc.HGVSp),
		ProteinPosition: tc.ProteinStart,
		Transcript:      tc.TranscriptID,
	}

	a.extractFunctional(tc, result)
	a.extractPopulation(rec, alt, result)
	a.extractClinical(rec, result)

	return result, nil
}

// canonicalTranscript prefers the transcript VEP flags as canonical,
// falling back to the first one.
func (rec *vepRecord) canonicalTranscript() *vepTranscript {
	for i := range rec.TranscriptConsequences {
		tc := &rec.TranscriptConsequences[i]
		if tc.Canonical == 1 && tc.GeneSymbol != "" {
			return tc
		}
	}
	if len(rec.TranscriptConsequences) > 0 {
		return &rec.TranscriptConsequences[0]
	}
	return nil
}

// extractFunctional folds the in-silico predictors VEP reports into one
// functional evidence block. SIFT scores run inverted, 0 being most
// damaging, so they are flipped before averaging.
func (a *VEPAdapter) extractFunctional(tc *vepTranscript, result *Result) {
	var damaging, benign, total int
	var scores []float64

	if tc.PolyphenPrediction != "" || tc.PolyphenScore != nil {
		total++
		switch strings.ToLower(tc.PolyphenPrediction) {
		case "probably_damaging", "possibly_damaging":
			damaging++
		case "benign":
			benign++
		}
		if tc.PolyphenScore != nil {
			scores = append(scores, *tc.PolyphenScore)
		}
	}
	if tc.SIFTPrediction != "" || tc.SIFTScore != nil {
		total++
		pred := strings.ToLower(tc.SIFTPrediction)
		switch {
		case strings.HasPrefix(pred, "deleterious"):
			damaging++
		case strings.HasPrefix(pred, "tolerated"):
			benign++
		}
		if tc.SIFTScore != nil {
			scores = append(scores, 1-*tc.SIFTScore)
		}
	}

	if total == 0 {
		return
	}

	fe := &model.FunctionalEvidence{
		Source:             model.SourceRef{Name: "vep"},
		DamagingPredictors: damaging,
		BenignPredictors:   benign,
		TotalPredictors:    total,
	}
	if len(scores) > 0 {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		consensus := sum / float64(len(scores))
		fe.ConsensusScore = &consensus
	}
	result.Evidence.Functional = fe
}

// extractPopulation takes the highest allele frequency reported for the
// alternate allele across all colocated variants and populations.
func (a *VEPAdapter) extractPopulation(rec vepRecord, alt string, result *Result) {
	maxAF := -1.0
	for _, cv := range rec.ColocatedVariants {
		for allele, populations := range cv.Frequencies {
			if !strings.EqualFold(allele, alt) {
				continue
			}
			for _, af := range populations {
				if af > maxAF {
					maxAF = af
				}
			}
		}
	}
	if maxAF < 0 {
		return
	}

	result.Evidence.Population = &model.PopulationEvidence{
		Source:          model.SourceRef{Name: "vep"},
		AlleleFrequency: maxAF,
		Covered:         true,
		Absent:          maxAF == 0,
	}
}

// extractClinical resolves the clin_sig terms of all colocated variants
// into a single significance. VEP drops review statuses, so every term
// carries the same weight here.
func (a *VEPAdapter) extractClinical(rec vepRecord, result *Result) {
	var assertions []Assertion
	for _, cv := range rec.ColocatedVariants {
		for _, term := range cv.ClinSig {
			sig, ok := NormalizeSignificance(term)
			if !ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("unrecognized clinical significance %q", term))
				continue
			}
			assertions = append(assertions, Assertion{Significance: sig})
		}
	}
	if len(assertions) == 0 {
		return
	}

	sig, _ := NewReviewClassifier().Resolve(assertions)
	result.Evidence.Clinical = &model.ClinicalEvidence{
		Source:       model.SourceRef{Name: "vep"},
		Significance: sig,
	}
}

// decodeVEP accepts both the array VEP writes for files and the single
// object its REST endpoint returns.
func decodeVEP(data []byte) ([]vepRecord, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var rec vepRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, err
		}
		return []vepRecord{rec}, nil
	}

	var records []vepRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// splitAlleles parses VEP's "REF/ALT" allele string.
func splitAlleles(s string) (ref, alt string, ok bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// proteinChangeFromHGVSp strips the transcript accession prefix from
// notation such as "ENSP00000288602.7:p.Val600Glu".
func proteinChangeFromHGVSp(hgvsp string) string {
	if idx := strings.LastIndex(hgvsp, ":"); idx >= 0 {
		return hgvsp[idx+1:]
	}
	return hgvsp
}
