// Package orchestrator wires configured providers and stores into the
// segmentation, indexing and retrieval pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Yates-Labs/folio/internal/config"
	"github.com/Yates-Labs/folio/internal/generation"
	"github.com/Yates-Labs/folio/internal/rag"
	"github.com/Yates-Labs/folio/internal/rag/store"
)

// Pipeline owns the embedder, vector store and situator for one command run.
type Pipeline struct {
	config      *config.Config
	embedder    rag.Embedder
	vectorStore rag.VectorStore
	situator    generation.Situator
	indexer     *rag.Indexer
	retriever   *rag.Retriever
	closers     []io.Closer
}

// NewPipeline builds providers and the vector store selected by cfg.
func NewPipeline(ctx context.Context, cfg *config.Config) (*Pipeline, error) {
	if err := cfg.ValidateProvider(); err != nil {
		return nil, err
	}

	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	if c, ok := embedder.(io.Closer); ok {
		closers = append(closers, c)
	}

	situator, err := newSituator(ctx, cfg, &closers)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to create LLM: %w", err)
	}

	vectorStore, err := NewVectorStore(ctx, cfg)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}

	p, err := NewPipelineWith(cfg, embedder, vectorStore, situator)
	if err != nil {
		vectorStore.Close()
		closeAll()
		return nil, err
	}
	p.closers = closers

	slog.DebugContext(ctx, "pipeline ready",
		"provider", cfg.Provider,
		"store", cfg.Store,
		"embedding_model", embedder.GetModel(),
		"dimension", embedder.GetDimension(),
	)
	return p, nil
}

// NewPipelineWith assembles a pipeline from already constructed parts.
// situator may be nil when no job annotates passages.
func NewPipelineWith(cfg *config.Config, embedder rag.Embedder, vectorStore rag.VectorStore, situator generation.Situator) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	indexer, err := rag.NewIndexer(embedder, vectorStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer: %w", err)
	}

	retriever, err := rag.NewRetriever(embedder, vectorStore, cfg.SearchOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create retriever: %w", err)
	}

	return &Pipeline{
		config:      cfg,
		embedder:    embedder,
		vectorStore: vectorStore,
		situator:    situator,
		indexer:     indexer,
		retriever:   retriever,
	}, nil
}

// NewVectorStore opens the store backend selected by cfg.
func NewVectorStore(ctx context.Context, cfg *config.Config) (rag.VectorStore, error) {
	switch cfg.Store {
	case config.StorePgVector:
		return store.OpenPgVector(ctx, cfg.DatabaseURL, cfg.EmbeddingDimension)
	case config.StoreMilvus:
		return store.NewMilvusStore(ctx, cfg.MilvusConfig())
	case config.StoreMemory:
		return store.NewMemoryStore(cfg.EmbeddingDimension)
	default:
		return nil, fmt.Errorf("%w: FOLIO_STORE=%q", config.ErrInvalidValue, cfg.Store)
	}
}

func newEmbedder(ctx context.Context, cfg *config.Config) (rag.Embedder, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return rag.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	case config.ProviderGemini:
		return rag.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	default:
		return nil, fmt.Errorf("%w: FOLIO_PROVIDER=%q", config.ErrInvalidValue, cfg.Provider)
	}
}

func newSituator(ctx context.Context, cfg *config.Config, closers *[]io.Closer) (generation.Situator, error) {
	llmConfig := cfg.LLMConfig()

	var llm generation.LLM
	switch cfg.Provider {
	case config.ProviderOpenAI:
		openaiLLM, err := generation.NewOpenAILLM(llmConfig)
		if err != nil {
			return nil, err
		}
		llm = openaiLLM
	case config.ProviderGemini:
		geminiLLM, err := generation.NewGeminiLLM(ctx, llmConfig)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, geminiLLM)
		llm = geminiLLM
	default:
		return nil, fmt.Errorf("%w: FOLIO_PROVIDER=%q", config.ErrInvalidValue, cfg.Provider)
	}

	return generation.NewContextualizer(llm, llmConfig), nil
}

// Close releases resources held by the pipeline.
func (p *Pipeline) Close() error {
	var errs []error
	if p.vectorStore != nil {
		errs = append(errs, p.vectorStore.Close())
	}
	for _, c := range p.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
