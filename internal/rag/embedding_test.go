package rag

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestNewOpenAIEmbedder_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewOpenAIEmbedder("", "", "text-embedding-3-small", 1536)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNewOpenAIEmbedder_InvalidDimension(t *testing.T) {
	_, err := NewOpenAIEmbedder("sk-test", "", "text-embedding-3-small", 0)
	if !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("expected ErrInvalidDimension, got %v", err)
	}
}

func TestOpenAIEmbedder_Accessors(t *testing.T) {
	embedder, err := NewOpenAIEmbedder("sk-test", "http://localhost:1234/v1", "text-embedding-3-large", 3072)
	if err != nil {
		t.Fatalf("failed to create embedder: %v", err)
	}

	if embedder.GetModel() != "text-embedding-3-large" {
		t.Errorf("GetModel() = %q, want %q", embedder.GetModel(), "text-embedding-3-large")
	}
	if embedder.GetDimension() != 3072 {
		t.Errorf("GetDimension() = %d, want %d", embedder.GetDimension(), 3072)
	}

	if _, err := embedder.Embed(context.Background(), nil); !errors.Is(err, ErrEmptyTexts) {
		t.Errorf("expected ErrEmptyTexts, got %v", err)
	}
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	// Skip if no API key
	if os.Getenv("OPENAI_API_KEY") == "" {
		t.Skip("OPENAI_API_KEY not set")
	}

	embedder, err := NewOpenAIEmbedder("", os.Getenv("OPENAI_BASE_URL"), "text-embedding-3-small", 1536)
	if err != nil {
		t.Fatalf("failed to create embedder: %v", err)
	}

	texts := []string{"Who's there?", "Nay, answer me."}
	records, err := embedder.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(records) != len(texts) {
		t.Errorf("expected %d records, got %d", len(texts), len(records))
	}
	for i, record := range records {
		if record.Text != texts[i] {
			t.Errorf("record[%d].Text = %q, want %q", i, record.Text, texts[i])
		}
		if len(record.Embedding) != 1536 {
			t.Errorf("record[%d] embedding dimension = %d, want 1536", i, len(record.Embedding))
		}
	}
}

func TestNewGeminiEmbedder_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := NewGeminiEmbedder(context.Background(), "", "gemini-embedding-001", 768)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestEmbedOne(t *testing.T) {
	t.Run("returns vector", func(t *testing.T) {
		v, err := EmbedOne(context.Background(), &mockEmbedder{}, "text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(v) != 8 {
			t.Errorf("Expected 8 dimensions, got %d", len(v))
		}
	})

	t.Run("empty response", func(t *testing.T) {
		embedder := &mockEmbedder{embedFunc: func(ctx context.Context, texts []string) ([]EmbeddingRecord, error) {
			return nil, nil
		}}
		if _, err := EmbedOne(context.Background(), embedder, "text"); !errors.Is(err, ErrEmbeddingFailed) {
			t.Errorf("expected ErrEmbeddingFailed, got %v", err)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		embedder := &mockEmbedder{embedFunc: func(ctx context.Context, texts []string) ([]EmbeddingRecord, error) {
			return []EmbeddingRecord{{Embedding: []float32{1}}}, nil
		}}
		if _, err := EmbedOne(context.Background(), embedder, "text"); !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("expected ErrInvalidDimension, got %v", err)
		}
	})
}
