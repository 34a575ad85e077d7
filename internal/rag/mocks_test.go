package rag

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/Yates-Labs/folio/internal/document"
	"github.com/Yates-Labs/folio/internal/generation"
)

// mockEmbedder implements Embedder interface for testing
type mockEmbedder struct {
	embedFunc func(ctx context.Context, texts []string) ([]EmbeddingRecord, error)
	dimension int
	calls     []string
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([]EmbeddingRecord, error) {
	m.calls = append(m.calls, texts...)
	if m.embedFunc != nil {
		return m.embedFunc(ctx, texts)
	}
	// Default: bag-of-bytes vectors, normalized so identical texts score 1
	records := make([]EmbeddingRecord, len(texts))
	for i, text := range texts {
		records[i] = EmbeddingRecord{
			Text:      text,
			Embedding: bagOfBytes(text, m.GetDimension()),
			Index:     i,
			Model:     "mock",
		}
	}
	return records, nil
}

func (m *mockEmbedder) GetModel() string {
	return "mock"
}

func (m *mockEmbedder) GetDimension() int {
	if m.dimension == 0 {
		return 8
	}
	return m.dimension
}

func bagOfBytes(text string, dim int) []float32 {
	v := make([]float32, dim)
	for _, b := range []byte(strings.ToLower(text)) {
		v[int(b)%dim]++
	}
	return Normalize(v)
}

// mockVectorStore implements VectorStore interface for testing
type mockVectorStore struct {
	records    []Record
	insertFunc func(ctx context.Context, record Record) error
	searchFunc func(ctx context.Context, technique Technique, vector []float32, opts SearchOptions) ([]Match, error)
	countFunc  func(ctx context.Context, technique Technique) (int, error)
	closeFunc  func() error
}

func (m *mockVectorStore) Insert(ctx context.Context, record Record) error {
	if m.insertFunc != nil {
		if err := m.insertFunc(ctx, record); err != nil {
			return err
		}
	}
	m.records = append(m.records, record)
	return nil
}

func (m *mockVectorStore) Search(ctx context.Context, technique Technique, vector []float32, opts SearchOptions) ([]Match, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, technique, vector, opts)
	}

	var matches []Match
	for _, r := range m.records {
		if r.Technique != technique {
			continue
		}
		if sim := InnerProduct(r.Vector, vector); sim > opts.Threshold {
			matches = append(matches, Match{Chunk: r.Chunk, Similarity: sim})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, nil
}

func (m *mockVectorStore) Count(ctx context.Context, technique Technique) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, technique)
	}
	n := 0
	for _, r := range m.records {
		if r.Technique == technique {
			n++
		}
	}
	return n, nil
}

func (m *mockVectorStore) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

// sliceWindows replays a fixed list of windows, then err or io.EOF.
type sliceWindows struct {
	windows []document.Window
	err     error
	reads   int
}

func newSliceWindows(passages ...string) *sliceWindows {
	windows := make([]document.Window, len(passages))
	for i, p := range passages {
		windows[i] = document.Window{Scene: "In Act I,Scene I\n" + p, Passage: p}
	}
	return &sliceWindows{windows: windows}
}

func (s *sliceWindows) Next() (document.Window, error) {
	if len(s.windows) == 0 {
		if s.err != nil {
			return document.Window{}, s.err
		}
		return document.Window{}, io.EOF
	}
	s.reads++
	w := s.windows[0]
	s.windows = s.windows[1:]
	return w, nil
}

// mockSituator implements generation.Situator for testing
type mockSituator struct {
	situateFunc func(ctx context.Context, req generation.SituateRequest) (string, error)
	requests    []generation.SituateRequest
}

func (m *mockSituator) Situate(ctx context.Context, req generation.SituateRequest) (string, error) {
	m.requests = append(m.requests, req)
	if m.situateFunc != nil {
		return m.situateFunc(ctx, req)
	}
	return "situated", nil
}
