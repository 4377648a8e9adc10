package adapters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/evidence"
	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// proteinPosRe pulls the residue number out of HGVSp_Short notation such
// as "p.V600E" or "p.T790_C797del".
var proteinPosRe = regexp.MustCompile(`[0-9]+`)

// mafRequiredColumns are the columns a MAF row needs before extraction
// can identify a variant.
var mafRequiredColumns = []string{
	"hugo_symbol",
	"chromosome",
	"start_position",
	"reference_allele",
	"tumor_seq_allele2",
	"variant_classification",
}

// MAFAdapter extracts variants from Mutation Annotation Format rows
type MAFAdapter struct{}

// NewMAFAdapter creates a new MAF adapter
func NewMAFAdapter() *MAFAdapter {
	return &MAFAdapter{}
}

// Name returns the adapter name
func (a *MAFAdapter) Name() string {
	return "maf"
}

// CanHandle checks the extension and the tab-separated header
func (a *MAFAdapter) CanHandle(data []byte, filename string) bool {
	if strings.HasSuffix(strings.ToLower(filename), ".maf") {
		return true
	}
	header := headerLine(data)
	return strings.Contains(header, "\t") && strings.Contains(strings.ToLower(header), "hugo_symbol")
}

// Extract maps the first MAF data row to a variant and evidence bundle.
func (a *MAFAdapter) Extract(data []byte) (*Result, error) {
	header, rows := splitMAF(data)
	if header == nil {
		return nil, fmt.Errorf("MAF payload has no header line")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("MAF payload has no variant rows")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range mafRequiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("MAF header missing %s column", required)
		}
	}

	result := &Result{
		Evidence: &model.EvidenceBundle{SchemaVersion: evidence.BundleSchemaVersion},
	}
	if len(rows) > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("payload holds %d variant rows, extracted the first", len(rows)))
	}

	row := rows[0]
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	position, err := strconv.ParseInt(field("start_position"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse Start_Position: %w", err)
	}

	classification := field("variant_classification")
	cons, ok := NormalizeConsequence(classification)
	if !ok {
		return nil, fmt.Errorf("unrecognized variant classification %q", classification)
	}
	if strings.EqualFold(classification, "Splice_Site") {
		result.Warnings = append(result.Warnings,
			"Splice_Site does not distinguish acceptor from donor, mapped to splice_region")
	}

	result.Variant = model.Variant{
		Gene:          field("hugo_symbol"),
		Chromosome:    strings.TrimPrefix(field("chromosome"), "chr"),
		Position:      position,
		Ref:           field("reference_allele"),
		Alt:           field("tumor_seq_allele2"),
		Consequence:   cons,
		ProteinChange: field("hgvsp_short"),
		Transcript:    field("transcript_id"),
	}
	if m := proteinPosRe.FindString(result.Variant.ProteinChange); m != "" {
		if residue, err := strconv.Atoi(m); err == nil {
			result.Variant.ProteinPosition = residue
		}
	}

	a.extractSample(field, result)

	return result, nil
}

// extractSample derives the tumor VAF from the read-count columns when
// both are present and consistent.
func (a *MAFAdapter) extractSample(field func(string) string, result *Result) {
	depthStr := field("t_depth")
	altStr := field("t_alt_count")
	if depthStr == "" || altStr == "" {
		return
	}

	depth, errDepth := strconv.Atoi(depthStr)
	altCount, errAlt := strconv.Atoi(altStr)
	if errDepth != nil || errAlt != nil || depth <= 0 || altCount < 0 || altCount > depth {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("unusable read counts t_depth=%q t_alt_count=%q, sample evidence skipped", depthStr, altStr))
		return
	}

	result.Evidence.Sample = &model.SampleEvidence{
		Source: model.SourceRef{Name: "maf"},
		VAF:    float64(altCount) / float64(depth),
		Depth:  depth,
	}
}

// splitMAF separates the header from the data rows, skipping comment and
// blank lines.
func splitMAF(data []byte) (header []string, rows [][]string) {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if header == nil {
			header = fields
			continue
		}
		rows = append(rows, fields)
	}
	return header, rows
}
