package model

import "fmt"

// ValidationError reports a malformed or out-of-range value in an input
// document. Classification fails atomically on the first one raised; no
// partial result is produced.
type ValidationError struct {
	Category string // evidence category or input section, e.g. "population"
	Field    string // offending field, e.g. "allele_frequency"
	Value    any    // the rejected value
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("invalid %s=%v: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s.%s=%v: %s", e.Category, e.Field, e.Value, e.Reason)
}

// ConfigurationError reports an unusable engine configuration, such as a
// negative threshold or weights that do not sum to one.
type ConfigurationError struct {
	Parameter string
	Value     any
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s=%v: %s", e.Parameter, e.Value, e.Reason)
}
