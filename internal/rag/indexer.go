package rag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Yates-Labs/folio/internal/document"
)

// Job describes one batch indexing run.
type Job struct {
	// Technique tags every stored record
	Technique Technique

	// Annotator produces the embedded text; nil embeds passages as is
	Annotator Annotator

	// Skip is the number of leading passages to pass over without work
	Skip int

	// Resume replaces Skip with the store's committed record count for Technique
	Resume bool

	// ProgressEvery sets how often progress is logged at info level (0 disables)
	ProgressEvery int
}

// IndexResult summarizes a run.
type IndexResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Stored    int `json:"stored"`
}

// IndexError reports the passage index at which a run halted.
// Rerunning with Skip set to Index resumes without duplicating records.
type IndexError struct {
	Index int
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("indexing halted at passage %d: %v", e.Index, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// Indexer embeds windows and commits one record per passage.
type Indexer struct {
	embedder    Embedder
	vectorStore VectorStore
}

// NewIndexer creates a new Indexer instance.
func NewIndexer(embedder Embedder, vectorStore VectorStore) (*Indexer, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}
	if vectorStore == nil {
		return nil, fmt.Errorf("vector store cannot be nil")
	}

	return &Indexer{
		embedder:    embedder,
		vectorStore: vectorStore,
	}, nil
}

// Run consumes src in order. Passages before the skip offset are read but
// neither annotated nor embedded. Every other passage is annotated, embedded
// and inserted before the next one is read. The first failure halts the run
// with an *IndexError.
func (ix *Indexer) Run(ctx context.Context, src document.WindowSource, job Job) (IndexResult, error) {
	var result IndexResult

	annotator := job.Annotator
	if annotator == nil {
		annotator = IdentityAnnotator{}
	}

	skip := job.Skip
	if job.Resume {
		count, err := ix.vectorStore.Count(ctx, job.Technique)
		if err != nil {
			return result, fmt.Errorf("failed to compute resume offset: %w", err)
		}
		skip = count
		slog.InfoContext(ctx, "resuming from committed records", "skip", skip)
	}
	if skip < 0 {
		return result, fmt.Errorf("skip must not be negative, got %d", skip)
	}

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return result, &IndexError{Index: index, Err: err}
		}

		w, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, &IndexError{Index: index, Err: err}
		}
		result.Processed++

		if index < skip {
			result.Skipped++
			continue
		}

		if err := ix.indexOne(ctx, w, job.Technique, annotator); err != nil {
			return result, &IndexError{Index: index, Err: err}
		}
		result.Stored++

		slog.DebugContext(ctx, "stored passage", "index", index, "length", len(w.Passage))
		if job.ProgressEvery > 0 && result.Stored%job.ProgressEvery == 0 {
			slog.InfoContext(ctx, "indexing progress", "index", index, "stored", result.Stored)
		}
	}

	slog.InfoContext(ctx, "indexing complete",
		"processed", result.Processed,
		"skipped", result.Skipped,
		"stored", result.Stored,
	)
	return result, nil
}

func (ix *Indexer) indexOne(ctx context.Context, w document.Window, technique Technique, annotator Annotator) error {
	text, err := annotator.Annotate(ctx, w)
	if err != nil {
		return err
	}

	vector, err := EmbedOne(ctx, ix.embedder, text)
	if err != nil {
		return err
	}

	return ix.vectorStore.Insert(ctx, Record{
		Technique: technique,
		Vector:    vector,
		Chunk:     w.Passage,
	})
}
