package model

// Variant identifies a single somatic variant call, annotated and immutable.
type Variant struct {
	Gene            string      `json:"gene"`                       // HUGO symbol, e.g. "BRAF"
	Chromosome      string      `json:"chromosome"`                 // e.g. "7"
	Position        int64       `json:"position"`                   // 1-based genomic coordinate
	Ref             string      `json:"ref"`                        // reference allele
	Alt             string      `json:"alt"`                        // alternate allele
	Consequence     Consequence `json:"consequence"`                // transcript consequence
	ProteinChange   string      `json:"protein_change,omitempty"`   // HGVS p. notation, e.g. "p.Val600Glu"
	ProteinPosition int         `json:"protein_position,omitempty"` // affected residue (0 = unknown)
	Transcript      string      `json:"transcript,omitempty"`       // transcript accession
}

// Key returns a stable identity string for logs and report filenames.
func (v Variant) Key() string {
	return v.Gene + ":" + v.Chromosome + ":" + itoa64(v.Position) + v.Ref + ">" + v.Alt
}

func itoa64(n int64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Consequence is the predicted transcript consequence of a variant.
type Consequence string

const (
	ConsequenceMissense       Consequence = "missense"
	ConsequenceNonsense       Consequence = "nonsense"
	ConsequenceFrameshift     Consequence = "frameshift"
	ConsequenceSpliceAcceptor Consequence = "splice_acceptor"
	ConsequenceSpliceDonor    Consequence = "splice_donor"
	ConsequenceSpliceRegion   Consequence = "splice_region"
	ConsequenceStartLost      Consequence = "start_lost"
	ConsequenceStopLost       Consequence = "stop_lost"
	ConsequenceInframeIndel   Consequence = "inframe_indel"
	ConsequenceSynonymous     Consequence = "synonymous"
	ConsequenceUTR            Consequence = "utr"
	ConsequenceIntronic       Consequence = "intronic"
)

// KnownConsequences lists every consequence value accepted in input documents.
var KnownConsequences = []Consequence{
	ConsequenceMissense, ConsequenceNonsense, ConsequenceFrameshift,
	ConsequenceSpliceAcceptor, ConsequenceSpliceDonor, ConsequenceSpliceRegion,
	ConsequenceStartLost, ConsequenceStopLost, ConsequenceInframeIndel,
	ConsequenceSynonymous, ConsequenceUTR, ConsequenceIntronic,
}

// IsLossOfFunction reports whether the consequence implies a null allele
// (truncating, frameshift or splice-disrupting).
func (c Consequence) IsLossOfFunction() bool {
	switch c {
	case ConsequenceNonsense, ConsequenceFrameshift,
		ConsequenceSpliceAcceptor, ConsequenceSpliceDonor, ConsequenceStartLost:
		return true
	}
	return false
}

// IsProteinLengthChanging reports in-frame indels and stop-loss events that
// alter protein length without abolishing the product.
func (c Consequence) IsProteinLengthChanging() bool {
	return c == ConsequenceInframeIndel || c == ConsequenceStopLost
}

// AnalysisContext distinguishes tumor-only from tumor-normal sequencing runs.
// The distinction changes evidence weighting, not formula shape.
type AnalysisContext string

const (
	TumorOnly   AnalysisContext = "TUMOR_ONLY"
	TumorNormal AnalysisContext = "TUMOR_NORMAL"
)

// Valid reports whether the analysis context is one of the two supported modes.
func (a AnalysisContext) Valid() bool {
	return a == TumorOnly || a == TumorNormal
}

// CancerContext carries the disease context a variant is classified under.
type CancerContext struct {
	CancerType string          `json:"cancer_type"`      // e.g. "melanoma"
	Analysis   AnalysisContext `json:"analysis_context"` // TUMOR_ONLY or TUMOR_NORMAL
}
