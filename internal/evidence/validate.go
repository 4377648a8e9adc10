// Package evidence is the caller-side intake layer: it validates evidence
// bundles before they reach the engine and collects them from pluggable
// knowledge-base sources. The classification core never performs I/O; this
// package is where fetching, caching and rate limiting live.
package evidence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// BundleSchemaVersion is the bundle layout this engine understands.
const BundleSchemaVersion = "v1"

// validate is a single package-level instance; it caches struct metadata.
var validate = validator.New()

// ValidateBundle checks an evidence bundle for malformed values. A non-nil
// error is always a *model.ValidationError and means the bundle must not be
// classified; partial acceptance would silently skew the verdict.
func ValidateBundle(b *model.EvidenceBundle) error {
	if b == nil {
		return &model.ValidationError{Category: "bundle", Field: "bundle", Reason: "no evidence bundle supplied"}
	}
	if b.SchemaVersion != BundleSchemaVersion {
		return &model.ValidationError{
			Category: "bundle",
			Field:    "schema_version",
			Value:    b.SchemaVersion,
			Reason:   fmt.Sprintf("unsupported schema version (expected %s)", BundleSchemaVersion),
		}
	}
	if err := validate.Struct(b); err != nil {
		return structError(err)
	}
	if err := checkHotspot(b.Hotspot); err != nil {
		return err
	}
	return checkFunctional(b.Functional)
}

// ValidateVariant checks the variant description itself.
func ValidateVariant(v model.Variant) error {
	if strings.TrimSpace(v.Gene) == "" {
		return &model.ValidationError{Category: "variant", Field: "gene", Reason: "gene symbol is required"}
	}
	if v.Ref == "" && v.Alt == "" {
		return &model.ValidationError{Category: "variant", Field: "ref", Reason: "at least one of ref/alt alleles is required"}
	}
	if v.Position < 0 {
		return &model.ValidationError{Category: "variant", Field: "position", Value: v.Position, Reason: "negative genomic position"}
	}
	if !knownConsequence(v.Consequence) {
		return &model.ValidationError{Category: "variant", Field: "consequence", Value: string(v.Consequence), Reason: "unknown consequence term"}
	}
	return nil
}

func knownConsequence(c model.Consequence) bool {
	for _, k := range model.KnownConsequences {
		if c == k {
			return true
		}
	}
	return false
}

// structError converts the first tag violation into a ValidationError so
// callers get one precise field path instead of a joined wall of text.
func structError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		constraint := fe.Tag()
		if fe.Param() != "" {
			constraint += "=" + fe.Param()
		}
		return &model.ValidationError{
			Category: "bundle",
			Field:    strings.TrimPrefix(fe.Namespace(), "EvidenceBundle."),
			Value:    fe.Value(),
			Reason:   fmt.Sprintf("violates %s", constraint),
		}
	}
	return fmt.Errorf("validate bundle: %w", err)
}

// checkHotspot covers cross-field constraints tags cannot express.
func checkHotspot(h *model.HotspotEvidence) error {
	if h == nil {
		return nil
	}
	if h.TotalSamples > 0 && h.SampleCount > h.TotalSamples {
		return &model.ValidationError{
			Category: "hotspot",
			Field:    "sample_count",
			Value:    h.SampleCount,
			Reason:   fmt.Sprintf("exceeds cohort size %d", h.TotalSamples),
		}
	}
	return nil
}

func checkFunctional(f *model.FunctionalEvidence) error {
	if f == nil {
		return nil
	}
	if f.TotalPredictors > 0 && f.DamagingPredictors+f.BenignPredictors > f.TotalPredictors {
		return &model.ValidationError{
			Category: "functional",
			Field:    "total_predictors",
			Value:    f.TotalPredictors,
			Reason: fmt.Sprintf("fewer than damaging %d + benign %d",
				f.DamagingPredictors, f.BenignPredictors),
		}
	}
	return nil
}
