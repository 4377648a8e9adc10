package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChromatinCloud/Arti-sub001/internal/pipeline"
)

// Classifier classifies one request document; satisfied by
// *pipeline.Pipeline.
type Classifier interface {
	ClassifyFile(ctx context.Context, path string) (*pipeline.Outcome, error)
}

// ClassifyJob classifies a single request document.
type ClassifyJob struct {
	Path       string
	Classifier Classifier
}

// Execute runs the job. Failures are carried in the result so the batch
// keeps going.
func (j *ClassifyJob) Execute(ctx context.Context) Result {
	outcome, err := j.Classifier.ClassifyFile(ctx, j.Path)
	if err != nil {
		return &ClassifyResult{Path: j.Path, Error: err}
	}
	return &ClassifyResult{Path: j.Path, Outcome: outcome}
}

// ClassifyResult is the per-document outcome. Error is set when this
// request failed while the rest of the batch continued.
type ClassifyResult struct {
	Path    string
	Outcome *pipeline.Outcome
	Error   error
}

// Err reports the job failure, if any.
func (r *ClassifyResult) Err() error {
	return r.Error
}

// BatchProcessor classifies many request documents concurrently.
type BatchProcessor struct {
	classifier  Classifier
	concurrency int
}

// NewBatchProcessor creates a batch processor over the given classifier.
func NewBatchProcessor(classifier Classifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		classifier:  classifier,
		concurrency: concurrency,
	}
}

// ProcessPaths classifies the given request documents. Results arrive in
// completion order; callers that need input order sort by Path.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*ClassifyResult {
	if len(paths) == 0 {
		return []*ClassifyResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&ClassifyJob{Path: path, Classifier: b.classifier})
	}

	results := pool.Wait()

	classifyResults := make([]*ClassifyResult, len(results))
	for i, result := range results {
		classifyResults[i] = result.(*ClassifyResult)
	}

	return classifyResults
}

// ProcessManifest reads a manifest of request document paths and
// classifies them all.
func (b *BatchProcessor) ProcessManifest(ctx context.Context, manifestPath string) ([]*ClassifyResult, error) {
	paths, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadManifest reads request document paths from a manifest, one per line.
// Blank lines and # comments are skipped; duplicates collapse to the first
// occurrence. Relative paths resolve against the manifest's directory.
func ReadManifest(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	dir := filepath.Dir(path)

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(dir, line)
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return paths, nil
}

// Summary aggregates batch counts for reporting.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Summarize tallies a finished batch.
func Summarize(results []*ClassifyResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Error != nil {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	return s
}
