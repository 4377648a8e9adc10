package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Summarizer orchestrates narrative generation for classification results.
// A nil provider means narratives are disabled; every failure degrades to a
// warning so a broken LLM setup never fails a classification run.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer from configuration. An empty provider
// name yields a disabled summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider's name, or "" when disabled.
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary drafts a narrative for a finished classification. It never
// returns an error for provider failures: the narrative is advisory, so
// problems surface as warnings on the summary instead of failing the run.
func (s *Summarizer) GenerateSummary(ctx context.Context, result *model.ClassificationResult) (*model.NarrativeSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &model.NarrativeSummary{
			Enabled:        false,
			Provider:       s.provider.Name(),
			StrictEvidence: s.config.StrictEvidence,
			Warnings: []string{
				fmt.Sprintf("LLM provider '%s' is not available - narrative skipped", s.provider.Name()),
			},
		}, nil
	}

	allowlist := sourceAllowlist(result)

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Result:          result,
		EvidenceSources: allowlist,
		Model:           s.config.Model,
		MaxTokens:       s.config.MaxTokens,
	})
	if err != nil {
		return &model.NarrativeSummary{
			Enabled:        true,
			Provider:       s.provider.Name(),
			Model:          s.config.Model,
			StrictEvidence: s.config.StrictEvidence,
			Warnings: []string{
				fmt.Sprintf("Narrative generation failed: %v", err),
			},
		}, nil
	}

	return &model.NarrativeSummary{
		Enabled:        true,
		Provider:       s.provider.Name(),
		Model:          resp.Model,
		StrictEvidence: s.config.StrictEvidence,
		SummaryMD:      resp.Summary,
		Warnings: []string{
			fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
			fmt.Sprintf("Verified %d citations against %d allowed sources", len(resp.CitedSources), len(allowlist)),
		},
	}, nil
}

// sourceAllowlist collects the IDs of every knowledge source the audit trail
// consulted, deduplicated in first-seen order. The narrative may cite these
// and nothing else.
func sourceAllowlist(result *model.ClassificationResult) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, rec := range result.Audit.EvidenceUsed {
		id := rec.Source.ID()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		sources = append(sources, id)
	}
	return sources
}

// RenderSeparateMarkdown renders the narrative as a standalone Markdown
// document, clearly marked as generated content. Returns "" when the
// narrative is nil or disabled.
func RenderSeparateMarkdown(summary *model.NarrativeSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("# LLM Narrative\n\n")
	sb.WriteString("> GENERATED CONTENT - advisory only. The classification, tiers and\n")
	sb.WriteString("> scores were determined independently of this narrative and never\n")
	sb.WriteString("> change because of it.\n\n")

	sb.WriteString(fmt.Sprintf("- Provider: %s\n", summary.Provider))
	if summary.Model != "" {
		sb.WriteString(fmt.Sprintf("- Model: %s\n", summary.Model))
	}
	sb.WriteString(fmt.Sprintf("- Strict Evidence Mode: %t\n\n", summary.StrictEvidence))

	if summary.SummaryMD != "" {
		sb.WriteString(summary.SummaryMD)
		sb.WriteString("\n")
	} else {
		sb.WriteString("_No summary generated._\n")
	}

	if len(summary.Warnings) > 0 {
		sb.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}

	return sb.String()
}
