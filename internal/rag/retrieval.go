package rag

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptyQuery = errors.New("query cannot be empty")
)

// Retriever provides thresholded semantic retrieval over stored passages.
type Retriever struct {
	embedder    Embedder
	vectorStore VectorStore
	opts        SearchOptions
}

// NewRetriever creates a new Retriever instance with default search bounds.
func NewRetriever(embedder Embedder, vectorStore VectorStore, opts SearchOptions) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}
	if vectorStore == nil {
		return nil, fmt.Errorf("vector store cannot be nil")
	}
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", opts.Limit)
	}

	return &Retriever{
		embedder:    embedder,
		vectorStore: vectorStore,
		opts:        opts,
	}, nil
}

// Options returns the retriever's default search bounds.
func (r *Retriever) Options() SearchOptions {
	return r.opts
}

// Retrieve returns the stored chunks of technique most similar to query.
// An empty result is not an error.
func (r *Retriever) Retrieve(ctx context.Context, technique Technique, query string) ([]Match, error) {
	return r.RetrieveWithOptions(ctx, technique, query, r.opts)
}

// RetrieveWithOptions is Retrieve with explicit search bounds.
func (r *Retriever) RetrieveWithOptions(ctx context.Context, technique Technique, query string, opts SearchOptions) ([]Match, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", opts.Limit)
	}

	queryVector, err := EmbedOne(ctx, r.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := r.vectorStore.Search(ctx, technique, queryVector, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search for query: %w", err)
	}
	if matches == nil {
		matches = []Match{}
	}

	return matches, nil
}
