package tier

import "github.com/ChromatinCloud/Arti-sub001/internal/model"

// New creates the strategy for a framework identifier. Unknown frameworks
// return a ConfigurationError so callers fail before any tiering runs.
func New(id model.FrameworkID) (Framework, error) {
	switch id {
	case model.FrameworkAMP:
		return NewAMP(), nil
	case model.FrameworkVICC:
		return NewVICC(), nil
	case model.FrameworkOncoKB:
		return NewOncoKB(), nil
	default:
		return nil, &model.ConfigurationError{
			Parameter: "frameworks",
			Value:     string(id),
			Reason:    "unknown guideline framework (supported: amp_asco_cap, cgc_vicc, oncokb)",
		}
	}
}
