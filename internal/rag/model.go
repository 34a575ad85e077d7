package rag

import (
	"context"
	"errors"
	"fmt"
)

// Technique tags records so plain and contextual embeddings can share a store.
type Technique int16

const (
	// TechniquePlain embeds the bare passage text.
	TechniquePlain Technique = 1

	// TechniqueContextual embeds the passage followed by a situating blurb.
	TechniqueContextual Technique = 2
)

// String returns a short name for known techniques and the number otherwise.
func (t Technique) String() string {
	switch t {
	case TechniquePlain:
		return "plain"
	case TechniqueContextual:
		return "contextual"
	default:
		return fmt.Sprintf("technique-%d", int16(t))
	}
}

// Common errors for vector store operations
var (
	ErrInvalidDimension = errors.New("invalid vector dimension")
	ErrInsertFailed     = errors.New("failed to insert record")
	ErrSearchFailed     = errors.New("failed to search vectors")
	ErrCountFailed      = errors.New("failed to count records")
	ErrConnectionFailed = errors.New("failed to connect to vector store")
)

// Record is a persisted embedding. Chunk always holds the original passage
// text, never the annotated text that was embedded.
type Record struct {
	Technique Technique `json:"technique"`
	Vector    []float32 `json:"-"`
	Chunk     string    `json:"chunk"`
}

// Match is a retrieved chunk with its similarity to the query.
// Similarity is the inner product of the query and stored vectors.
type Match struct {
	Chunk      string  `json:"chunk"`
	Similarity float64 `json:"similarity"`
}

// SearchOptions bounds a similarity search.
type SearchOptions struct {
	// Threshold is a strict lower bound on similarity
	Threshold float64 `json:"threshold"`

	// Limit caps the number of matches returned
	Limit int `json:"limit"`
}

// DefaultSearchOptions returns the standard relevance threshold and result cap.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Threshold: 0.5,
		Limit:     20,
	}
}

// VectorStore defines the interface for append-only embedding storage and
// thresholded similarity search
type VectorStore interface {
	// Insert durably commits a single record before returning
	Insert(ctx context.Context, record Record) error

	// Search returns records of the technique whose similarity to vector
	// exceeds opts.Threshold, ordered by descending similarity, at most opts.Limit
	Search(ctx context.Context, technique Technique, vector []float32, opts SearchOptions) ([]Match, error)

	// Count returns the number of committed records for a technique
	Count(ctx context.Context, technique Technique) (int, error)

	// Close releases resources and closes connections
	Close() error
}

// Chunks extracts the raw chunk text from matches, preserving order.
func Chunks(matches []Match) []string {
	chunks := make([]string, len(matches))
	for i, m := range matches {
		chunks[i] = m.Chunk
	}
	return chunks
}
