// Package pipeline wires request documents through the classification
// engine and optional narrative generation. The engine stays pure; all
// file access and provider calls happen here.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ChromatinCloud/Arti-sub001/internal/engine"
	"github.com/ChromatinCloud/Arti-sub001/internal/llm"
	"github.com/ChromatinCloud/Arti-sub001/internal/logging"
	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

// Pipeline runs the full request path for one variant at a time. Batch
// callers share a single Pipeline across workers; it holds no per-request
// state.
type Pipeline struct {
	engine     *engine.Engine
	summarizer *llm.Summarizer
	cfg        *model.Config
	log        *slog.Logger
}

// NewPipeline builds the request path from configuration. The narrative
// summarizer is optional; a misconfigured provider disables narratives
// with a warning instead of failing classification.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	log := logging.New("pipeline")

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			log.Warn("narrative provider disabled", "provider", cfg.LLM.Provider, "error", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{engine: eng, summarizer: summarizer, cfg: cfg, log: log}, nil
}

// Outcome pairs a classified request with its optional narrative.
type Outcome struct {
	Request   *Request
	Result    *model.ClassificationResult
	Narrative *model.NarrativeSummary
}

// ClassifyFile loads one request document and classifies it.
func (p *Pipeline) ClassifyFile(ctx context.Context, path string) (*Outcome, error) {
	req, err := LoadRequest(path)
	if err != nil {
		return nil, fmt.Errorf("load request: %w", err)
	}
	return p.ClassifyRequest(ctx, req)
}

// ClassifyRequest runs one request through the engine. The narrative is
// drafted after classification and never feeds back into the result.
func (p *Pipeline) ClassifyRequest(ctx context.Context, req *Request) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := p.engine.Classify(req.Variant, req.Evidence, req.Context(), req.Frameworks)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	outcome := &Outcome{Request: req, Result: result}

	if p.summarizer != nil && p.summarizer.IsEnabled() {
		narrative, err := p.summarizer.GenerateSummary(ctx, result)
		if err != nil {
			p.log.Warn("narrative generation failed", "variant", req.Variant.Key(), "error", err)
		} else if narrative != nil {
			outcome.Narrative = narrative
		}
	}

	return outcome, nil
}
