package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/ppiankov/vouch/internal/evidence"
	"github.com/ppiankov/vouch/internal/extract"
	"github.com/ppiankov/vouch/internal/llm"
	"github.com/ppiankov/vouch/internal/model"
	"github.com/ppiankov/vouch/internal/normalize"
	"github.com/ppiankov/vouch/internal/verdict"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Extractor produces the fact record for a listing URL
type Extractor interface {
	Extract(ctx context.Context, rawURL string) (*model.FactRecord, error)
}

// Gatherer collects brand and seller evidence; it never fails
type Gatherer interface {
	Gather(ctx context.Context, facts *model.FactRecord) model.EvidenceBundle
}

// Synthesizer produces a verdict or nil
type Synthesizer interface {
	Synthesize(ctx context.Context, c verdict.Context) *model.Verdict
}

// Pipeline orchestrates one listing check: extract, simplify the title,
// gather evidence, synthesize a verdict. It holds no per-request state
// and is safe for concurrent use.
type Pipeline struct {
	extractor   Extractor
	gatherer    Gatherer
	synthesizer Synthesizer
	logger      *zap.Logger
}

// New creates a pipeline from its stages
func New(extractor Extractor, gatherer Gatherer, synthesizer Synthesizer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		extractor:   extractor,
		gatherer:    gatherer,
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// NewPipeline wires the default stages from configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reasoning, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: reasoning provider")
	}
	if reasoning == nil {
		logger.Warn("no reasoning provider configured; every check will fail at the decision step")
	}

	search, err := llm.NewProvider(llm.ConfigFromModel(cfg.Search, cfg.HTTP))
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: search provider")
	}
	if search == nil {
		logger.Info("no search provider configured; verdicts will be made without evidence")
	} else if search.Name() == "ollama" {
		logger.Warn("ollama cannot search the web; evidence will come from model memory")
	}

	fetcher := NewFetcherFromConfig(cfg.HTTP)

	return New(
		extract.NewFactExtractor(fetcher, logger.Named("extract")),
		evidence.NewGatherer(search, cfg.Search.MaxTokens, logger.Named("evidence")),
		verdict.NewSynthesizer(reasoning, cfg.LLM.MaxTokens, logger.Named("verdict")),
		logger,
	), nil
}

// Check runs the pipeline for one URL. Every failure is wrapped around
// exactly one of the Err* sentinels; use KindOf to classify it.
func (p *Pipeline) Check(ctx context.Context, rawURL string) (result *model.CheckResult, err error) {
	start := time.Now()
	log := p.logger.With(zap.String("url", rawURL))

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = eris.Wrapf(ErrUnexpected, "panic: %v", r)
		}
		switch kind := KindOf(err); kind {
		case KindNone:
			log.Info("check complete",
				zap.String("label", string(result.AIResult.Status)),
				zap.Duration("elapsed", time.Since(start)))
		case KindUnexpected:
			log.Error("check failed", zap.Stringer("kind", kind), zap.Error(err))
		default:
			log.Warn("check failed", zap.Stringer("kind", kind), zap.Error(err))
		}
	}()

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, eris.Wrap(ErrInvalidInput, "empty url")
	}

	facts, err := p.extractor.Extract(ctx, rawURL)
	if err != nil {
		return nil, eris.Wrapf(ErrExtractionFailed, "extract: %v", err)
	}
	if facts == nil || facts.Title == nil {
		return nil, eris.Wrap(ErrExtractionFailed, "no product title recovered")
	}

	title := normalize.Title(model.Deref(facts.Title))
	if title == nil {
		title = facts.Title
	}

	bundle := p.gatherer.Gather(ctx, facts)

	v := p.synthesizer.Synthesize(ctx, verdict.NewContext(facts, title, bundle))
	if v == nil {
		return nil, eris.Wrap(ErrSynthesisFailed, "no verdict")
	}

	return &model.CheckResult{
		AIResult: model.AIResult{
			Status: v.Label,
			Title:  *title,
			Reason: v.Reason,
		},
		Extracted: *facts,
		Evidence:  bundle,
	}, nil
}
