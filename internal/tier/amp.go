package tier

import "github.com/ChromatinCloud/Arti-sub001/internal/model"

// AMP implements the AMP/ASCO/CAP four-tier system (Tier IA through IV).
type AMP struct{}

// NewAMP creates the AMP/ASCO/CAP strategy.
func NewAMP() *AMP {
	return &AMP{}
}

func ampLadder() ladder {
	return ladder{
		id:         model.FrameworkAMP,
		tiers:      []string{"Tier IA", "Tier IB", "Tier IIC", "Tier IID", "Tier III", "Tier IV"},
		benignTier: "Tier IV",
		vusTier:    "Tier III",
		byTherapy: map[therapyClass]string{
			therapyApprovedSame:  "Tier IA",
			therapyGuideline:     "Tier IB",
			therapyApprovedOther: "Tier IIC",
			therapyTrial:         "Tier IIC",
			therapyPreclinical:   "Tier IID",
			therapyNone:          "Tier III",
		},
		actionable: 2,
		potential:  2,
	}
}

// ID returns the framework identifier.
func (a *AMP) ID() model.FrameworkID {
	return model.FrameworkAMP
}

// Assign maps the inputs onto the AMP tier ladder.
func (a *AMP) Assign(in Input) model.TierResult {
	return assign(ampLadder(), in)
}
