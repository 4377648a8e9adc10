package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ChromatinCloud/Arti-sub001/internal/llm"
	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// EngineVersion identifies this build in result envelopes and footers.
const EngineVersion = "arti v0.3.0"

// Renderer writes classification outcomes to disk. The JSON envelope is
// the canonical record; Markdown is the human review sheet.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the outcome as a ResultEnvelope. Per-run metadata (ID,
// timestamp, narrative) lives on the envelope so the embedded result stays
// byte-identical across reruns of the same input.
func (r *Renderer) RenderJSON(outcome *Outcome, path string) error {
	env := model.ResultEnvelope{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Engine:    EngineVersion,
		Result:    *outcome.Result,
		Narrative: outcome.Narrative,
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the human review sheet: verdicts, the somatic
// confidence breakdown, per-framework tiers and the consulted sources.
// The JSON envelope keeps the complete audit trail.
func (r *Renderer) RenderMarkdown(outcome *Outcome, path string) error {
	result := outcome.Result

	var sb strings.Builder

	sb.WriteString("# Variant Review Sheet\n\n")
	sb.WriteString(fmt.Sprintf("**%s**", result.Variant.Key()))
	if result.Variant.ProteinChange != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", result.Variant.ProteinChange))
	}
	sb.WriteString(fmt.Sprintf("  \nCancer type: %s  \nAnalysis: %s\n\n", result.CancerType, result.Analysis))

	r.writeOncogenicity(&sb, result)
	r.writeSomaticConfidence(&sb, result)
	r.writeTiers(&sb, result)
	r.writeSources(&sb, result)

	if r.includeFooter {
		sb.WriteString("---\n\n")
		sb.WriteString(fmt.Sprintf("Generated by %s. The classification is deterministic for identical inputs and configuration; the JSON envelope holds the complete audit trail.\n", EngineVersion))
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write review sheet: %w", err)
	}
	return nil
}

func (r *Renderer) writeOncogenicity(sb *strings.Builder, result *model.ClassificationResult) {
	call := result.Oncogenicity

	sb.WriteString("## Oncogenicity\n\n")
	sb.WriteString(fmt.Sprintf("- Classification: **%s**\n", call.Classification))
	sb.WriteString(fmt.Sprintf("- Confidence: %.2f\n", call.Confidence))
	sb.WriteString(fmt.Sprintf("- Combination rule: %s\n", call.RuleID))
	sb.WriteString(fmt.Sprintf("- Points: %.1f oncogenic / %.1f benign\n", call.OncogenicPoints, call.BenignPoints))
	if call.Conflict {
		sb.WriteString("- Conflicting evidence in both directions; see weight adjustments below\n")
	}
	sb.WriteString("\n")

	if len(call.MetCriteria) > 0 {
		sb.WriteString("| Criterion | Strength | Rationale |\n")
		sb.WriteString("|---|---|---|\n")
		for _, c := range call.MetCriteria {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", c.ID, c.Strength, mdCell(c.Rationale)))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No criteria met.\n\n")
	}

	for _, adj := range call.WeightAdjustments {
		sb.WriteString(fmt.Sprintf("- Weight adjusted for %s: %.1f to %.1f (%s)\n", adj.Criterion, adj.Original, adj.Applied, adj.Reason))
	}
	if len(call.WeightAdjustments) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Evaluated %d criteria in total; the JSON audit trail records every one.\n\n", len(result.Audit.Criteria)))
}

func (r *Renderer) writeSomaticConfidence(sb *strings.Builder, result *model.ClassificationResult) {
	somatic := result.Somatic

	sb.WriteString("## Somatic Confidence\n\n")
	sb.WriteString(fmt.Sprintf("- Score: %.2f\n", somatic.Score))
	if somatic.PurityEstimated {
		sb.WriteString("- Tumor purity was not provided; a default estimate was substituted\n")
	}
	if somatic.ContextUnavailable {
		sb.WriteString("- No genomic context evidence contributed; weights were renormalized\n")
	}
	sb.WriteString("\n")

	if len(somatic.Breakdown) > 0 {
		sb.WriteString("| Component | Value | Weight | Rationale |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, c := range somatic.Breakdown {
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %s |\n", c.Name, c.Value, c.Weight, mdCell(c.Rationale)))
		}
		sb.WriteString("\n")
	}
}

func (r *Renderer) writeTiers(sb *strings.Builder, result *model.ClassificationResult) {
	sb.WriteString("## Actionability Tiers\n\n")
	sb.WriteString("| Framework | Tier | Confidence | Flags |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, t := range result.Tiers {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %s |\n", t.Framework, t.Tier, t.Confidence, tierFlags(t)))
	}
	sb.WriteString(fmt.Sprintf("\nFramework concordance: %.2f\n\n", result.Concordance))

	for _, t := range result.Tiers {
		sb.WriteString(fmt.Sprintf("### %s\n\n", t.Framework))
		if t.Justification != "" {
			sb.WriteString(t.Justification + "\n\n")
		}
		for _, rule := range t.Rules {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", rule.Rule, rule.Description))
		}
		if len(t.Rules) > 0 {
			sb.WriteString("\n")
		}
	}
}

func (r *Renderer) writeSources(sb *strings.Builder, result *model.ClassificationResult) {
	if len(result.Audit.EvidenceUsed) == 0 {
		return
	}

	sb.WriteString("## Evidence Sources\n\n")
	for _, rec := range result.Audit.EvidenceUsed {
		sb.WriteString(fmt.Sprintf("- %s (%s): %s\n", rec.Source.ID(), rec.Category, rec.Summary))
	}
	sb.WriteString("\n")
}

// RenderNarrative writes the LLM narrative as its own Markdown file so
// generated text never mixes with the deterministic review sheet. No-op
// when the outcome carries no renderable narrative.
func (r *Renderer) RenderNarrative(outcome *Outcome, path string) error {
	md := llm.RenderSeparateMarkdown(outcome.Narrative)
	if md == "" {
		return nil
	}
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write narrative: %w", err)
	}
	return nil
}

// RenderOutcome writes the JSON envelope and, when mdPath is set, the
// review sheet. A narrative lands next to the sheet with a .llm suffix;
// the JSON envelope embeds it either way.
func (p *Pipeline) RenderOutcome(outcome *Outcome, jsonPath, mdPath string, verbose bool) error {
	renderer := NewRenderer(p.cfg.Output.IncludeFooter)

	if err := renderer.RenderJSON(outcome, jsonPath); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", jsonPath)
	}

	if mdPath != "" {
		if err := renderer.RenderMarkdown(outcome, mdPath); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Review sheet: %s\n", mdPath)
		}

		if outcome.Narrative != nil && outcome.Narrative.Enabled {
			narrativePath := narrativePathFor(mdPath)
			if err := renderer.RenderNarrative(outcome, narrativePath); err != nil {
				return err
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "✓ LLM narrative: %s\n", narrativePath)
			}
		}
	}

	return nil
}

func narrativePathFor(mdPath string) string {
	ext := filepath.Ext(mdPath)
	return strings.TrimSuffix(mdPath, ext) + ".llm" + ext
}

// mdCell keeps free text from breaking Markdown table rows.
func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func tierFlags(t model.TierResult) string {
	if len(t.Flags) == 0 {
		return "-"
	}
	parts := make([]string, len(t.Flags))
	for i, f := range t.Flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
