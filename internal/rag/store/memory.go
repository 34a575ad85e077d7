package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Yates-Labs/folio/internal/rag"
)

// MemoryStore is an in-process vector store using brute-force inner product.
// Records are lost when the process exits.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	records   []rag.Record
}

// NewMemoryStore creates an empty store for vectors of the given width.
func NewMemoryStore(dimension int) (*MemoryStore, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: %d", rag.ErrInvalidDimension, dimension)
	}
	return &MemoryStore{dimension: dimension}, nil
}

// Insert appends a copy of record.
func (s *MemoryStore) Insert(ctx context.Context, record rag.Record) error {
	if len(record.Vector) != s.dimension {
		return fmt.Errorf("%w: expected %d, got %d", rag.ErrInvalidDimension, s.dimension, len(record.Vector))
	}

	record.Vector = append([]float32(nil), record.Vector...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Search scores every record of technique and keeps those above the threshold.
// Ties keep insertion order.
func (s *MemoryStore) Search(ctx context.Context, technique rag.Technique, vector []float32, opts rag.SearchOptions) ([]rag.Match, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", rag.ErrInvalidDimension, s.dimension, len(vector))
	}

	s.mu.RLock()
	matches := []rag.Match{}
	for _, r := range s.records {
		if r.Technique != technique {
			continue
		}
		if sim := rag.InnerProduct(r.Vector, vector); sim > opts.Threshold {
			matches = append(matches, rag.Match{Chunk: r.Chunk, Similarity: sim})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if opts.Limit >= 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, nil
}

// Count returns the number of records stored for technique.
func (s *MemoryStore) Count(ctx context.Context, technique rag.Technique) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.records {
		if r.Technique == technique {
			n++
		}
	}
	return n, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
