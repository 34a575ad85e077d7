package rag

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder implements Embedder using Google's Gemini API.
// Vectors are normalized to unit length so inner product equals cosine similarity.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewGeminiEmbedder creates a Gemini embedder. An empty apiKey falls back to GEMINI_API_KEY.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, dimension int) (*GeminiEmbedder, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dimension)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiEmbedder{
		client:    client,
		model:     model,
		dimension: dimension,
	}, nil
}

// GetModel returns the embedding model identifier
func (g *GeminiEmbedder) GetModel() string {
	return g.model
}

// GetDimension returns the embedding vector dimension
func (g *GeminiEmbedder) GetDimension() int {
	return g.dimension
}

// Embed generates one embedding per text, one request at a time.
func (g *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([]EmbeddingRecord, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyTexts
	}

	em := g.client.EmbeddingModel(g.model)
	records := make([]EmbeddingRecord, 0, len(texts))

	for i, text := range texts {
		slog.DebugContext(ctx, "embedding content", "model", g.model, "length", len(text))
		res, err := em.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
		}
		if res.Embedding == nil {
			return nil, fmt.Errorf("%w: empty embedding for text %d", ErrEmbeddingFailed, i)
		}

		values := res.Embedding.Values
		if len(values) < g.dimension {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidDimension, g.dimension, len(values))
		}

		records = append(records, EmbeddingRecord{
			Text:      text,
			Embedding: Normalize(values[:g.dimension]),
			Index:     i,
			Model:     g.model,
		})
	}

	return records, nil
}

// Close releases the underlying client.
func (g *GeminiEmbedder) Close() error {
	return g.client.Close()
}
