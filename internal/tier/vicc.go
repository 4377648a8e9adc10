package tier

import "github.com/ChromatinCloud/Arti-sub001/internal/model"

// VICC implements the CGC/VICC actionability tiers (Tier A through E).
type VICC struct{}

// NewVICC creates the CGC/VICC strategy.
func NewVICC() *VICC {
	return &VICC{}
}

func viccLadder() ladder {
	return ladder{
		id:         model.FrameworkVICC,
		tiers:      []string{"Tier A", "Tier B", "Tier C", "Tier D", "Tier E"},
		benignTier: "Tier E",
		vusTier:    "Tier E",
		byTherapy: map[therapyClass]string{
			therapyApprovedSame:  "Tier A",
			therapyGuideline:     "Tier A",
			therapyApprovedOther: "Tier C",
			therapyTrial:         "Tier B",
			therapyPreclinical:   "Tier D",
			therapyNone:          "Tier E",
		},
		actionable: 2,
		potential:  2,
	}
}

// ID returns the framework identifier.
func (v *VICC) ID() model.FrameworkID {
	return model.FrameworkVICC
}

// Assign maps the inputs onto the CGC/VICC tier ladder.
func (v *VICC) Assign(in Input) model.TierResult {
	return assign(viccLadder(), in)
}
