package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ChromatinCloud/Arti-sub001/internal/model"
	"github.com/ChromatinCloud/Arti-sub001/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <request>",
	Short: "Classify a single variant request document",
	Long: `Classify reads one variant request document (JSON or YAML) and:
- Evaluates the 17 oncogenicity criteria against the evidence bundle
- Combines met criteria into an oncogenicity classification
- Scores Dynamic Somatic Confidence for the analysis context
- Assigns actionability tiers for each requested framework
- Writes a JSON result envelope and an optional Markdown review sheet

The request document names the variant, the cancer context, the evidence
bundle, and the frameworks to tier under.

Example:
  arti classify variant.json
  arti classify variant.yaml --json result.json --md review.md
  arti classify variant.json --llm --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	// Output flags
	classifyCmd.Flags().StringVar(&outJSON, "json", "result.json", "output JSON path")
	classifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown review sheet path (optional)")
	classifyCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable provenance footer in Markdown review sheets")

	// Runtime flags
	classifyCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall classification timeout (narrative drafting counts against it)")

	// LLM flags
	classifyCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	classifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	classifyCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runClassify(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Classifying: %s\n", path)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintln(os.Stderr)
	}

	// Build configuration from file plus flags
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// Configure LLM if enabled
	if llmEnabled {
		if err := applyLLMEnv(cfg); err != nil {
			return err
		}
	}

	// Create pipeline
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Evaluating evidence...\n")
	}

	outcome, err := p.ClassifyFile(ctx, path)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if verbose {
		result := outcome.Result
		fmt.Fprintf(os.Stderr, "✓ Oncogenicity: %s (confidence %.2f)\n", result.Oncogenicity.Classification, result.Oncogenicity.Confidence)
		fmt.Fprintf(os.Stderr, "✓ Somatic confidence: %.2f\n", result.Somatic.Score)
		fmt.Fprintf(os.Stderr, "✓ Assigned tiers for %d frameworks\n", len(result.Tiers))
		if outcome.Narrative != nil && outcome.Narrative.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM narrative using %s/%s\n", outcome.Narrative.Provider, outcome.Narrative.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderOutcome(outcome, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// applyLLMEnv enables the narrative provider selected by flags and wires
// its credentials from the environment. API keys never come from config
// files.
func applyLLMEnv(cfg *model.Config) error {
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.StrictEvidence = true // Always enforce

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return nil
}
