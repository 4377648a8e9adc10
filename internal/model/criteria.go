package model

// CriterionID names one oncogenicity criterion. Oncogenic-side IDs start
// with O, benign-side IDs with SB; the suffix encodes the default strength.
type CriterionID string

const (
	// Oncogenic side.
	OVS1 CriterionID = "OVS1" // null variant in a tumor suppressor
	OS1  CriterionID = "OS1"  // same amino acid change as an established oncogenic variant
	OS2  CriterionID = "OS2"  // recognized oncogenic by professional guidelines
	OS3  CriterionID = "OS3"  // well-established cancer hotspot
	OM1  CriterionID = "OM1"  // critical functional domain
	OM2  CriterionID = "OM2"  // functional studies support oncogenicity
	OM3  CriterionID = "OM3"  // moderately recurrent hotspot
	OM4  CriterionID = "OM4"  // protein length change in a cancer gene
	OP1  CriterionID = "OP1"  // computational consensus predicts damage
	OP2  CriterionID = "OP2"  // gene is a driver in this cancer type
	OP3  CriterionID = "OP3"  // hotspot with low recurrence
	OP4  CriterionID = "OP4"  // absent from population databases

	// Benign side.
	SBVS1 CriterionID = "SBVS1" // very common in the population
	SBS1  CriterionID = "SBS1"  // common in the population
	SBS2  CriterionID = "SBS2"  // functional studies show no effect
	SBP1  CriterionID = "SBP1"  // computational consensus predicts no impact
	SBP2  CriterionID = "SBP2"  // silent variant without splice impact
)

// Strength is the evidence strength tier a criterion carries when met.
type Strength string

const (
	StrengthVeryStrong Strength = "very_strong"
	StrengthStrong     Strength = "strong"
	StrengthModerate   Strength = "moderate"
	StrengthSupporting Strength = "supporting"
)

// AtLeastStrong reports whether the tier is Strong or VeryStrong. The
// conflict resolver treats these as anchor evidence.
func (s Strength) AtLeastStrong() bool {
	return s == StrengthStrong || s == StrengthVeryStrong
}

// Direction tells which side of the classification a criterion argues for.
type Direction string

const (
	DirectionOncogenic Direction = "oncogenic"
	DirectionBenign    Direction = "benign"
)

// CriterionResult records one criterion evaluation. Every evaluated
// criterion produces a result, met or not, so the audit trail shows what
// was considered and why it did or did not fire.
type CriterionResult struct {
	ID           CriterionID `json:"id"`
	Met          bool        `json:"met"`
	Strength     Strength    `json:"strength"`
	Direction    Direction   `json:"direction"`
	Rationale    string      `json:"rationale"`               // human-readable justification
	EvidenceRefs []string    `json:"evidence_refs,omitempty"` // SourceRef IDs backing the call
}

// WeightAdjustment documents a conflict-resolver change to the applied
// weight of one met criterion.
type WeightAdjustment struct {
	Criterion CriterionID `json:"criterion"`
	Original  float64     `json:"original"`
	Applied   float64     `json:"applied"`
	Reason    string      `json:"reason"`
}
