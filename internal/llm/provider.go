// Package llm drafts optional narrative summaries of classification
// results. Narratives are advisory text for the review sheet: they are
// generated after classification finishes and never feed back into it.
package llm

import (
	"context"
	"fmt"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize drafts a narrative for the classification result with strict source citation
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for narrative generation
type SummarizeRequest struct {
	// Result is the finished classification to narrate
	Result *model.ClassificationResult

	// EvidenceSources is the STRICT allowlist of knowledge source IDs
	// (SourceRef "name@version" form) the LLM can cite. This prevents
	// hallucination - the narrative cannot reference any source not in
	// this list.
	EvidenceSources []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's narrative output
type SummarizeResponse struct {
	// Summary is the generated narrative text
	Summary string

	// CitedSources are the source IDs the LLM actually cited (for verification)
	CitedSources []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictEvidence enforces the source allowlist (should always be true)
	StrictEvidence bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "", // Disabled by default
		Model:          "",
		Timeout:        30,
		StrictEvidence: true, // CRITICAL: Always enforce
		MaxTokens:      1000,
	}
}

// BuildPrompt constructs the default narrative prompt with strict source citation
func BuildPrompt(result *model.ClassificationResult, sources []string) string {
	prompt := fmt.Sprintf(`You are drafting the narrative section of a somatic variant review sheet. The classification below came from a deterministic rule engine - your narrative describes it and NEVER changes it.

CRITICAL RULES:
1. You MUST ONLY cite knowledge sources from this allowed list, in square brackets like [gnomad@4.1]:
%s

2. DO NOT infer, speculate, or cite literature beyond this list.
3. If evidence is missing for a point, state that explicitly.
4. Report classes, tiers and scores exactly as given. Never soften, upgrade or second-guess them.
5. Never recommend treatment - describe the evidence and the assigned tiers only.

Classification Summary:
- Variant: %s %s
- Cancer type: %s (%s)
- Oncogenicity: %s (confidence %.2f)
- Somatic confidence: %.2f
- Criteria met: %d of %d
- Framework concordance: %.2f

Assigned Tiers:
`, joinSources(sources), result.Variant.Key(), result.Variant.ProteinChange,
		result.CancerType, result.Analysis,
		result.Oncogenicity.Classification, result.Oncogenicity.Confidence,
		result.Somatic.Score,
		countMet(result.Audit.Criteria), len(result.Audit.Criteria),
		result.Concordance)

	for _, tr := range result.Tiers {
		line := fmt.Sprintf("- %s: %s", tr.Framework, tr.Tier)
		if len(tr.Flags) > 0 {
			line += fmt.Sprintf(" (%s)", joinFlags(tr.Flags))
		}
		prompt += line + "\n"
	}

	prompt += "\nProvide a 3-5 sentence narrative suitable for a molecular pathology review, citing sources in square brackets."

	return prompt
}

// Helper functions

func joinSources(sources []string) string {
	if len(sources) == 0 {
		return "(No knowledge sources available)"
	}
	result := ""
	for i, src := range sources {
		if i >= 20 { // Limit to first 20 to avoid token bloat
			result += fmt.Sprintf("\n... and %d more sources", len(sources)-20)
			break
		}
		result += fmt.Sprintf("\n- [%s]", src)
	}
	return result
}

func countMet(criteria []model.CriterionResult) int {
	count := 0
	for _, c := range criteria {
		if c.Met {
			count++
		}
	}
	return count
}

func joinFlags(flags []model.TierFlag) string {
	result := ""
	for i, f := range flags {
		if i > 0 {
			result += ", "
		}
		result += string(f)
	}
	return result
}
