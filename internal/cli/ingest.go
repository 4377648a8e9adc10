package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChromatinCloud/Arti-sub001/internal/extract"
	"github.com/ChromatinCloud/Arti-sub001/internal/model"
	"github.com/ChromatinCloud/Arti-sub001/internal/pipeline"
	"github.com/ChromatinCloud/Arti-sub001/internal/score"
)

var (
	ingestOut        string
	ingestCancerType string
	ingestContext    string
	ingestFrameworks []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <annotation-file>",
	Short: "Convert annotator output into a classification request",
	Long: `Convert raw annotator output into a classification request document.

Supported payloads:
  - Ensembl VEP JSON output (single record or array)
  - MAF rows (tab-separated, first data row is extracted)
  - Request fragments (JSON with a variant and optional evidence bundle)

The extracted evidence is graded for completeness and the report is
printed to stderr, so low-evidence requests are visible before they are
classified. The request document itself goes to --out.`,
	Example: `  arti ingest braf.vep.json --cancer-type melanoma
  arti ingest cohort.maf --cancer-type "lung adenocarcinoma" --analysis TUMOR_NORMAL -o kras.json`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestOut, "out", "o", "", "output request file (default: <input>.request.json)")
	ingestCmd.Flags().StringVar(&ingestCancerType, "cancer-type", "", "cancer type the variant was observed in (required)")
	ingestCmd.Flags().StringVar(&ingestContext, "analysis", string(model.TumorOnly), "analysis context (TUMOR_ONLY or TUMOR_NORMAL)")
	ingestCmd.Flags().StringSliceVar(&ingestFrameworks, "frameworks", nil, "frameworks to request (default: all)")

	if err := ingestCmd.MarkFlagRequired("cancer-type"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	input := args[0]

	analysis := model.AnalysisContext(strings.ToUpper(strings.TrimSpace(ingestContext)))
	if !analysis.Valid() {
		return fmt.Errorf("invalid analysis context %q (TUMOR_ONLY or TUMOR_NORMAL)", ingestContext)
	}

	result, adapterName, err := extract.New().FromFile(input)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %s using the %s adapter\n", result.Variant.Key(), adapterName)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "⚠️  %s\n", warning)
	}

	completeness := score.NewAssessor().Assess(result.Variant, result.Evidence)
	fmt.Fprintf(os.Stderr, "Evidence completeness: %d/100 (%s)\n", completeness.Index, completeness.Band)
	for _, signal := range completeness.Signals {
		if signal.Severity == score.SeverityInfo {
			continue
		}
		fmt.Fprintf(os.Stderr, "  [%s] %s\n", signal.Severity, signal.Description)
	}

	request := &pipeline.Request{
		Variant:    result.Variant,
		Evidence:   result.Evidence,
		CancerType: strings.ToLower(strings.TrimSpace(ingestCancerType)),
		Analysis:   analysis,
	}
	for _, f := range ingestFrameworks {
		request.Frameworks = append(request.Frameworks, model.FrameworkID(f))
	}

	out := ingestOut
	if out == "" {
		base := filepath.Base(input)
		out = strings.TrimSuffix(base, filepath.Ext(base)) + ".request.json"
	}

	data, err := json.MarshalIndent(request, "", "  ")
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write request: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", out)
	if verbose {
		fmt.Fprintf(os.Stderr, "  Classify with: arti classify %s\n", out)
	}

	return nil
}
