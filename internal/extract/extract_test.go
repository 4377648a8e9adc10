package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

const vepBRAF = `[
  {
    "seq_region_name": "chr7",
    "start": 140753336,
    "allele_string": "A/T",
    "most_severe_consequence": "missense_variant",
    "transcript_consequences": [
      {
        "transcript_id": "ENST00000288602",
        "gene_symbol": "BRAF",
        "canonical": 0,
        "consequence_terms": ["missense_variant"],
        "protein_start": 600,
        "hgvsp": "ENSP00000288602.7:p.Val600Glu",
        "polyphen_prediction": "probably_damaging",
        "polyphen_score": 0.967
      },
      {
        "transcript_id": "ENST00000646891",
        "gene_symbol": "BRAF",
        "canonical": 1,
        "consequence_terms": ["missense_variant"],
        "protein_start": 600,
        "hgvsp": "ENSP00000493543.1:p.Val600Glu",
        "polyphen_prediction": "probably_damaging",
        "polyphen_score": 0.967,
        "sift_prediction": "deleterious",
        "sift_score": 0.0
      }
    ],
    "colocated_variants": [
      {
        "id": "rs113488022",
        "clin_sig": ["pathogenic", "likely_pathogenic"],
        "frequencies": {
          "T": {"af": 0.0000040, "gnomade": 0.0000071}
        }
      }
    ]
  }
]`

const mafKRAS = "#version 2.4\n" +
	"Hugo_Symbol\tChromosome\tStart_Position\tReference_Allele\tTumor_Seq_Allele2\tVariant_Classification\tHGVSp_Short\tTranscript_ID\tt_depth\tt_alt_count\n" +
	"KRAS\t12\t25245350\tC\tA\tMissense_Mutation\tp.G12C\tENST00000256078\t540\t32\n" +
	"TP53\t17\t7675088\tC\tT\tMissense_Mutation\tp.R175H\tENST00000269305\t480\t210\n"

func TestExtractVEP(t *testing.T) {
	result, name, err := New().FromBytes([]byte(vepBRAF), "braf.vep.json")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if name != "vep" {
		t.Errorf("Expected vep adapter, got %s", name)
	}

	v := result.Variant
	if v.Gene != "BRAF" {
		t.Errorf("Expected gene BRAF, got %s", v.Gene)
	}
	if v.Chromosome != "7" {
		t.Errorf("Expected chromosome 7 without chr prefix, got %s", v.Chromosome)
	}
	if v.Position != 140753336 {
		t.Errorf("Expected position 140753336, got %d", v.Position)
	}
	if v.Ref != "A" || v.Alt != "T" {
		t.Errorf("Expected A>T, got %s>%s", v.Ref, v.Alt)
	}
	if v.Consequence != model.ConsequenceMissense {
		t.Errorf("Expected missense consequence, got %s", v.Consequence)
	}
	if v.Transcript != "ENST00000646891" {
		t.Errorf("Expected the canonical transcript, got %s", v.Transcript)
	}
	if v.ProteinChange != "p.Val600Glu" {
		t.Errorf("Expected p.Val600Glu, got %s", v.ProteinChange)
	}
	if v.ProteinPosition != 600 {
		t.Errorf("Expected protein position 600, got %d", v.ProteinPosition)
	}

	fe := result.Evidence.Functional
	if fe == nil {
		t.Fatal("Expected functional evidence from the predictors")
	}
	if fe.TotalPredictors != 2 || fe.DamagingPredictors != 2 {
		t.Errorf("Expected 2/2 damaging predictors, got %d/%d", fe.DamagingPredictors, fe.TotalPredictors)
	}
	if fe.ConsensusScore == nil || *fe.ConsensusScore < 0.9 {
		t.Errorf("Expected consensus near 1 with SIFT inverted, got %v", fe.ConsensusScore)
	}

	pe := result.Evidence.Population
	if pe == nil {
		t.Fatal("Expected population evidence from the frequencies")
	}
	if pe.AlleleFrequency != 0.0000071 {
		t.Errorf("Expected the highest population AF, got %g", pe.AlleleFrequency)
	}
	if !pe.Covered || pe.Absent {
		t.Errorf("Expected covered and observed, got covered=%v absent=%v", pe.Covered, pe.Absent)
	}

	ce := result.Evidence.Clinical
	if ce == nil {
		t.Fatal("Expected clinical evidence from clin_sig")
	}
	if ce.Significance != model.SignificancePathogenic {
		t.Errorf("Expected the stronger same-side call to win, got %s", ce.Significance)
	}

	if result.Evidence.SchemaVersion != "v1" {
		t.Errorf("Expected schema v1, got %s", result.Evidence.SchemaVersion)
	}
}

func TestExtractMAF(t *testing.T) {
	result, name, err := New().FromBytes([]byte(mafKRAS), "cohort.maf")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if name != "maf" {
		t.Errorf("Expected maf adapter, got %s", name)
	}

	v := result.Variant
	if v.Gene != "KRAS" {
		t.Errorf("Expected the first row's gene KRAS, got %s", v.Gene)
	}
	if v.Position != 25245350 {
		t.Errorf("Expected position 25245350, got %d", v.Position)
	}
	if v.Consequence != model.ConsequenceMissense {
		t.Errorf("Expected missense consequence, got %s", v.Consequence)
	}
	if v.ProteinChange != "p.G12C" {
		t.Errorf("Expected p.G12C, got %s", v.ProteinChange)
	}
	if v.ProteinPosition != 12 {
		t.Errorf("Expected protein position 12, got %d", v.ProteinPosition)
	}

	se := result.Evidence.Sample
	if se == nil {
		t.Fatal("Expected sample evidence from the read counts")
	}
	if se.Depth != 540 {
		t.Errorf("Expected depth 540, got %d", se.Depth)
	}
	if se.VAF < 0.059 || se.VAF > 0.06 {
		t.Errorf("Expected VAF 32/540, got %f", se.VAF)
	}

	// The second row must be reported, not silently dropped
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "extracted the first") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected a multi-row warning, got %v", result.Warnings)
	}
}

func TestExtractMAFSpliceSite(t *testing.T) {
	payload := "Hugo_Symbol\tChromosome\tStart_Position\tReference_Allele\tTumor_Seq_Allele2\tVariant_Classification\n" +
		"MET\t7\t116771936\tG\tA\tSplice_Site\n"

	result, _, err := New().FromBytes([]byte(payload), "met.maf")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Variant.Consequence != model.ConsequenceSpliceRegion {
		t.Errorf("Expected splice_region for Splice_Site, got %s", result.Variant.Consequence)
	}

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "splice_region") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected a warning about the splice mapping")
	}
}

func TestExtractGenericFragment(t *testing.T) {
	payload := `{
		"variant": {
			"gene": "TP53",
			"chromosome": "17",
			"position": 7675088,
			"ref": "C",
			"alt": "T",
			"consequence": "missense"
		}
	}`

	result, name, err := New().FromBytes([]byte(payload), "tp53.json")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if name != "generic" {
		t.Errorf("Expected generic adapter, got %s", name)
	}
	if result.Variant.Gene != "TP53" {
		t.Errorf("Expected gene TP53, got %s", result.Variant.Gene)
	}
	if result.Evidence == nil || result.Evidence.SchemaVersion != "v1" {
		t.Error("Expected an empty v1 bundle to be backfilled")
	}

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "no evidence bundle") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected a warning about the missing evidence bundle")
	}
}

func TestExtractRejectsNonVariantPayload(t *testing.T) {
	_, _, err := New().FromBytes([]byte(`{"hello": "world"}`), "")
	if err == nil {
		t.Fatal("Expected an error for a payload without a variant")
	}
	if !strings.Contains(err.Error(), "does not describe a variant") {
		t.Errorf("Expected a variant error, got %v", err)
	}
}

func TestExtractFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "braf.vep.json")
	if err := os.WriteFile(path, []byte(vepBRAF), 0644); err != nil {
		t.Fatal(err)
	}

	result, name, err := New().FromFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if name != "vep" {
		t.Errorf("Expected vep adapter, got %s", name)
	}
	if result.Variant.Key() != "BRAF:7:140753336A>T" {
		t.Errorf("Unexpected variant key %s", result.Variant.Key())
	}

	if _, _, err := New().FromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
