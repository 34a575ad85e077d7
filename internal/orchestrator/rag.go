package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Yates-Labs/folio/internal/document"
	"github.com/Yates-Labs/folio/internal/logger"
	"github.com/Yates-Labs/folio/internal/rag"
)

var (
	ErrUnknownStrategy    = errors.New("unknown segmentation strategy")
	ErrSituatorRequired   = errors.New("annotation requires a generation provider")
	ErrConflictingOffsets = errors.New("skip and resume are mutually exclusive")
)

// Strategy selects how passages are windowed before indexing.
type Strategy string

const (
	// StrategyPlain indexes passages without scene context.
	StrategyPlain Strategy = "plain"

	// StrategyScene pairs every passage with the text of its scene.
	StrategyScene Strategy = "scene"
)

// JobSpec holds the parameters of one batch indexing job.
type JobSpec struct {
	Technique    rag.Technique
	Strategy     Strategy
	Annotate     bool
	Skip         int
	Resume       bool
	Instructions string
}

// PresetFor returns the usual job for a technique: plain passages for the
// plain technique and annotated scene windows for the contextual one.
func PresetFor(technique rag.Technique) JobSpec {
	spec := JobSpec{Technique: technique, Strategy: StrategyPlain}
	if technique == rag.TechniqueContextual {
		spec.Strategy = StrategyScene
		spec.Annotate = true
	}
	return spec
}

// Validate rejects contradictory job settings.
func (s JobSpec) Validate() error {
	switch s.Strategy {
	case StrategyPlain, StrategyScene:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, s.Strategy)
	}
	if s.Resume && s.Skip > 0 {
		return ErrConflictingOffsets
	}
	if s.Skip < 0 {
		return fmt.Errorf("skip must not be negative, got %d", s.Skip)
	}
	return nil
}

// Windows segments r and windows the passages according to strategy.
func Windows(r io.Reader, markers document.Markers, strategy Strategy) (document.WindowSource, error) {
	passages := document.Segment(r, markers)
	switch strategy {
	case StrategyPlain:
		return document.NewPlainWindows(passages), nil
	case StrategyScene:
		return document.NewSceneAggregator(passages), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// Index runs a batch job over the document read from r.
func (p *Pipeline) Index(ctx context.Context, r io.Reader, spec JobSpec) (rag.IndexResult, error) {
	if err := spec.Validate(); err != nil {
		return rag.IndexResult{}, err
	}

	var annotator rag.Annotator = rag.IdentityAnnotator{}
	if spec.Annotate {
		if p.situator == nil {
			return rag.IndexResult{}, ErrSituatorRequired
		}
		annotator = rag.NewContextAnnotator(p.situator, spec.Instructions)
	}

	src, err := Windows(r, p.config.Markers(), spec.Strategy)
	if err != nil {
		return rag.IndexResult{}, err
	}

	ctx = logger.WithTechnique(ctx, spec.Technique.String())
	slog.InfoContext(ctx, "starting index job",
		"strategy", string(spec.Strategy),
		"annotate", spec.Annotate,
		"skip", spec.Skip,
		"resume", spec.Resume,
	)

	return p.indexer.Run(ctx, src, rag.Job{
		Technique:     spec.Technique,
		Annotator:     annotator,
		Skip:          spec.Skip,
		Resume:        spec.Resume,
		ProgressEvery: p.config.ProgressEvery,
	})
}

// Query returns the chunks of technique most similar to query.
// A nil opts uses the configured threshold and limit.
func (p *Pipeline) Query(ctx context.Context, technique rag.Technique, query string, opts *rag.SearchOptions) ([]rag.Match, error) {
	ctx = logger.WithTechnique(ctx, technique.String())

	var (
		matches []rag.Match
		err     error
	)
	if opts == nil {
		matches, err = p.retriever.Retrieve(ctx, technique, query)
	} else {
		matches, err = p.retriever.RetrieveWithOptions(ctx, technique, query, *opts)
	}
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "query complete", "matches", len(matches))
	return matches, nil
}

// Count returns the number of committed records for technique, which is
// the offset a resumed job starts from.
func (p *Pipeline) Count(ctx context.Context, technique rag.Technique) (int, error) {
	return p.vectorStore.Count(ctx, technique)
}

// SearchOptions returns the configured retrieval bounds.
func (p *Pipeline) SearchOptions() rag.SearchOptions {
	return p.retriever.Options()
}
