package adapters

import (
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// consequenceTerms maps annotator vocabulary onto the engine's consequence
// set. Ensembl sequence-ontology terms and MAF variant classifications
// both appear; lookups are case-insensitive.
var consequenceTerms = map[string]model.Consequence{
	// Sequence-ontology terms as VEP emits them
	"missense_variant":        model.ConsequenceMissense,
	"stop_gained":             model.ConsequenceNonsense,
	"frameshift_variant":      model.ConsequenceFrameshift,
	"splice_acceptor_variant": model.ConsequenceSpliceAcceptor,
	"splice_donor_variant":    model.ConsequenceSpliceDonor,
	"splice_region_variant":   model.ConsequenceSpliceRegion,
	"start_lost":              model.ConsequenceStartLost,
	"stop_lost":               model.ConsequenceStopLost,
	"inframe_insertion":       model.ConsequenceInframeIndel,
	"inframe_deletion":        model.ConsequenceInframeIndel,
	"synonymous_variant":      model.ConsequenceSynonymous,
	"5_prime_utr_variant":     model.ConsequenceUTR,
	"3_prime_utr_variant":     model.ConsequenceUTR,
	"intron_variant":          model.ConsequenceIntronic,

	// MAF variant classifications
	"missense_mutation":      model.ConsequenceMissense,
	"nonsense_mutation":      model.ConsequenceNonsense,
	"nonstop_mutation":       model.ConsequenceStopLost,
	"frame_shift_del":        model.ConsequenceFrameshift,
	"frame_shift_ins":        model.ConsequenceFrameshift,
	"in_frame_del":           model.ConsequenceInframeIndel,
	"in_frame_ins":           model.ConsequenceInframeIndel,
	"splice_site":            model.ConsequenceSpliceRegion,
	"splice_region":          model.ConsequenceSpliceRegion,
	"translation_start_site": model.ConsequenceStartLost,
	"silent":                 model.ConsequenceSynonymous,
	"5'utr":                  model.ConsequenceUTR,
	"3'utr":                  model.ConsequenceUTR,
	"intron":                 model.ConsequenceIntronic,
}

// consequenceRank orders consequences by functional severity so multi-term
// annotations resolve to the most consequential mapping.
var consequenceRank = map[model.Consequence]int{
	model.ConsequenceFrameshift:     12,
	model.ConsequenceNonsense:       11,
	model.ConsequenceSpliceAcceptor: 10,
	model.ConsequenceSpliceDonor:    9,
	model.ConsequenceStartLost:      8,
	model.ConsequenceStopLost:       7,
	model.ConsequenceInframeIndel:   6,
	model.ConsequenceMissense:       5,
	model.ConsequenceSpliceRegion:   4,
	model.ConsequenceSynonymous:     3,
	model.ConsequenceUTR:            2,
	model.ConsequenceIntronic:       1,
}

// NormalizeConsequence maps a single annotator term to the engine
// vocabulary.
func NormalizeConsequence(term string) (model.Consequence, bool) {
	c, ok := consequenceTerms[strings.ToLower(strings.TrimSpace(term))]
	return c, ok
}

// PickConsequence resolves a multi-term annotation to its most severe
// recognized consequence.
func PickConsequence(terms []string) (model.Consequence, bool) {
	var best model.Consequence
	found := false

	for _, term := range terms {
		c, ok := NormalizeConsequence(term)
		if !ok {
			continue
		}
		if !found || consequenceRank[c] > consequenceRank[best] {
			best = c
			found = true
		}
	}

	return best, found
}
