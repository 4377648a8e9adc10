package model

import "time"

// SourceRef pins an evidence item to the knowledge base snapshot it came from.
// Identical refs across runs are a precondition for reproducible output.
type SourceRef struct {
	Name        string    `json:"name" validate:"required"` // e.g. "gnomad", "clinvar", "cancerhotspots"
	Version     string    `json:"version,omitempty"`        // KB snapshot or release tag
	RetrievedAt time.Time `json:"retrieved_at,omitempty"`   // when the collector fetched it
}

// ID returns the ref in "name@version" form for audit trails.
func (s SourceRef) ID() string {
	if s.Version == "" {
		return s.Name
	}
	return s.Name + "@" + s.Version
}

// EvidenceBundle is the caller-assembled snapshot of everything the engine is
// allowed to know about one variant. Every category is optional; a nil
// category means "not looked up", which criteria treat differently from a
// negative finding. The engine performs no I/O of its own.
type EvidenceBundle struct {
	SchemaVersion string                `json:"schema_version" validate:"required"`
	Gene          *GeneEvidence         `json:"gene,omitempty"`
	Population    *PopulationEvidence   `json:"population,omitempty"`
	Hotspot       *HotspotEvidence      `json:"hotspot,omitempty"`
	Clinical      *ClinicalEvidence     `json:"clinical,omitempty"`
	Functional    *FunctionalEvidence   `json:"functional,omitempty"`
	Therapies     []TherapeuticEvidence `json:"therapies,omitempty" validate:"dive"`
	Sample        *SampleEvidence       `json:"sample,omitempty"`
}

// Sources returns the refs of every populated category, in a fixed order.
func (b *EvidenceBundle) Sources() []SourceRef {
	var refs []SourceRef
	if b.Gene != nil {
		refs = append(refs, b.Gene.Source)
	}
	if b.Population != nil {
		refs = append(refs, b.Population.Source)
	}
	if b.Hotspot != nil {
		refs = append(refs, b.Hotspot.Source)
	}
	if b.Clinical != nil {
		refs = append(refs, b.Clinical.Source)
	}
	if b.Functional != nil {
		refs = append(refs, b.Functional.Source)
	}
	for _, t := range b.Therapies {
		refs = append(refs, t.Source)
	}
	if b.Sample != nil {
		refs = append(refs, b.Sample.Source)
	}
	return refs
}

// GeneRole classifies a gene's role in tumorigenesis.
type GeneRole string

const (
	RoleTumorSuppressor GeneRole = "tumor_suppressor"
	RoleOncogene        GeneRole = "oncogene"
	RoleDual            GeneRole = "dual" // acts as both, e.g. NOTCH1
	RoleUnknown         GeneRole = "unknown"
)

// SuppressorLike reports whether loss-of-function is a plausible driver
// mechanism for the gene.
func (r GeneRole) SuppressorLike() bool {
	return r == RoleTumorSuppressor || r == RoleDual
}

// OncogeneLike reports whether activation is a plausible driver mechanism.
func (r GeneRole) OncogeneLike() bool {
	return r == RoleOncogene || r == RoleDual
}

// DomainRegion is a functionally critical protein region in gene-level
// annotation, in protein coordinates.
type DomainRegion struct {
	Name  string `json:"name" validate:"required"`
	Start int    `json:"start" validate:"gt=0"`
	End   int    `json:"end" validate:"gtefield=Start"`
}

// Contains reports whether a residue position falls inside the region.
func (d DomainRegion) Contains(pos int) bool {
	return pos >= d.Start && pos <= d.End
}

// GeneEvidence is gene-level knowledge: role, critical domains and the cancer
// types the gene is an established driver in.
type GeneEvidence struct {
	Source                 SourceRef      `json:"source"`
	Role                   GeneRole       `json:"role" validate:"oneof=tumor_suppressor oncogene dual unknown"`
	CriticalDomains        []DomainRegion `json:"critical_domains,omitempty" validate:"dive"`
	MalignancyAssociations []string       `json:"malignancy_associations,omitempty"` // cancer types, lowercase
}

// PopulationEvidence summarizes a population allele-frequency lookup.
type PopulationEvidence struct {
	Source          SourceRef `json:"source"`
	AlleleFrequency float64   `json:"allele_frequency" validate:"gte=0,lte=1"` // highest credible population AF
	Covered         bool      `json:"covered"`                                 // locus adequately sequenced in the DB
	Absent          bool      `json:"absent"`                                  // covered but allele never observed
}

// HotspotEvidence summarizes recurrence of the variant position across large
// tumor cohorts.
type HotspotEvidence struct {
	Source       SourceRef `json:"source"`
	SampleCount  int       `json:"sample_count" validate:"gte=0"`            // tumors with a variant at this residue
	TotalSamples int       `json:"total_samples,omitempty" validate:"gte=0"` // cohort size, 0 = unknown
	QValue       *float64  `json:"q_value,omitempty" validate:"omitempty,gte=0,lte=1"`
	InHotspot    bool      `json:"in_hotspot"` // position called a statistical hotspot by the source
}

// ClinicalSignificance is the aggregate assertion from a clinical variant
// database such as ClinVar.
type ClinicalSignificance string

const (
	SignificancePathogenic       ClinicalSignificance = "pathogenic"
	SignificanceLikelyPathogenic ClinicalSignificance = "likely_pathogenic"
	SignificanceUncertain        ClinicalSignificance = "uncertain"
	SignificanceLikelyBenign     ClinicalSignificance = "likely_benign"
	SignificanceBenign           ClinicalSignificance = "benign"
	SignificanceConflicting      ClinicalSignificance = "conflicting"
)

// Pathogenic reports an asserted pathogenic or likely pathogenic call.
func (s ClinicalSignificance) Pathogenic() bool {
	return s == SignificancePathogenic || s == SignificanceLikelyPathogenic
}

// ClinicalEvidence summarizes clinical variant-database assertions for the
// variant or for other variants producing the same protein change.
type ClinicalEvidence struct {
	Source                SourceRef            `json:"source"`
	Significance          ClinicalSignificance `json:"significance" validate:"omitempty,oneof=pathogenic likely_pathogenic uncertain likely_benign benign conflicting"`
	ReviewStatus          string               `json:"review_status,omitempty"` // source-native review tier
	SameAAChangeOncogenic bool                 `json:"same_aa_change_oncogenic"`
	GuidelineOncogenic    bool                 `json:"guideline_oncogenic"` // recognized oncogenic by a professional guideline
	GermlinePathogenic    bool                 `json:"germline_pathogenic"` // pathogenic germline assertion exists for the allele
}

// FunctionalSupport grades wet-lab functional study results.
type FunctionalSupport string

const (
	SupportEstablishedOncogenic FunctionalSupport = "established_oncogenic" // well-established functional impact
	SupportModerateOncogenic    FunctionalSupport = "moderate_oncogenic"    // supportive but not definitive
	SupportNeutral              FunctionalSupport = "neutral"               // well-established no damaging effect
	SupportConflicting          FunctionalSupport = "conflicting"
	SupportNone                 FunctionalSupport = "none"
)

// FunctionalEvidence combines in-silico predictor consensus with wet-lab
// functional study results.
type FunctionalEvidence struct {
	Source             SourceRef         `json:"source"`
	DamagingPredictors int               `json:"damaging_predictors" validate:"gte=0"`
	BenignPredictors   int               `json:"benign_predictors" validate:"gte=0"`
	TotalPredictors    int               `json:"total_predictors" validate:"gte=0"`
	ConsensusScore     *float64          `json:"consensus_score,omitempty" validate:"omitempty,gte=0,lte=1"` // normalized damage likelihood
	SpliceImpact       *float64          `json:"splice_impact,omitempty" validate:"omitempty,gte=0,lte=1"`   // splice-disruption delta
	StudySupport       FunctionalSupport `json:"study_support,omitempty" validate:"omitempty,oneof=established_oncogenic moderate_oncogenic neutral conflicting none"`
}

// TherapeuticLevel ranks the regulatory maturity of a drug association.
type TherapeuticLevel string

const (
	LevelApproved      TherapeuticLevel = "approved"       // regulator-approved biomarker in the indication
	LevelGuideline     TherapeuticLevel = "guideline"      // professional practice guideline
	LevelClinicalTrial TherapeuticLevel = "clinical_trial" // well-powered investigational evidence
	LevelPreclinical   TherapeuticLevel = "preclinical"
	LevelCaseReport    TherapeuticLevel = "case_report"
)

// TherapeuticEvidence links the variant to one therapy in one indication.
type TherapeuticEvidence struct {
	Source     SourceRef        `json:"source"`
	Therapy    string           `json:"therapy" validate:"required"`
	CancerType string           `json:"cancer_type" validate:"required"` // indication the level applies to
	Level      TherapeuticLevel `json:"level" validate:"oneof=approved guideline clinical_trial preclinical case_report"`
	Resistance bool             `json:"resistance,omitempty"` // association predicts resistance, not response
}

// SampleEvidence carries the per-sample measurements used for somatic
// confidence: allele fraction, purity and local genomic context.
type SampleEvidence struct {
	Source               SourceRef `json:"source"`
	VAF                  float64   `json:"vaf" validate:"gte=0,lte=1"` // variant allele fraction in tumor
	Depth                int       `json:"depth,omitempty" validate:"gte=0"`
	Purity               *float64  `json:"purity,omitempty" validate:"omitempty,gt=0,lte=1"` // tumor cell fraction, nil = not estimated
	LOH                  *bool     `json:"loh,omitempty"`                                    // loss of heterozygosity at the locus
	SignatureConcordance *float64  `json:"signature_concordance,omitempty" validate:"omitempty,gte=0,lte=1"`
}
