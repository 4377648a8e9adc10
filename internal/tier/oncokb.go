package tier

import "github.com/ChromatinCloud/Arti-sub001/internal/model"

// OncoKB implements an OncoKB-style therapeutic level ladder (Level 1
// through Level 4 plus None).
type OncoKB struct{}

// NewOncoKB creates the OncoKB-style strategy.
func NewOncoKB() *OncoKB {
	return &OncoKB{}
}

func oncokbLadder() ladder {
	return ladder{
		id:         model.FrameworkOncoKB,
		tiers:      []string{"Level 1", "Level 2", "Level 3A", "Level 3B", "Level 4", "None"},
		benignTier: "None",
		vusTier:    "None",
		byTherapy: map[therapyClass]string{
			therapyApprovedSame:  "Level 1",
			therapyGuideline:     "Level 2",
			therapyApprovedOther: "Level 3B",
			therapyTrial:         "Level 3A",
			therapyPreclinical:   "Level 4",
			therapyNone:          "None",
		},
		actionable: 2,
		potential:  3,
	}
}

// ID returns the framework identifier.
func (o *OncoKB) ID() model.FrameworkID {
	return model.FrameworkOncoKB
}

// Assign maps the inputs onto the OncoKB-style level ladder.
func (o *OncoKB) Assign(in Input) model.TierResult {
	return assign(oncokbLadder(), in)
}
