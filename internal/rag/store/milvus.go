package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/Yates-Labs/folio/internal/rag"
)

var (
	ErrMissingClient = errors.New("milvus client not connected")
	ErrChunkTooLong  = errors.New("chunk exceeds milvus varchar limit")
)

// MaxChunkLength is the max_length of the chunk VarChar field, in bytes.
const MaxChunkLength = 65535

// MilvusConfig holds configuration for Milvus connection and collection
type MilvusConfig struct {
	Address        string // Milvus server address (e.g., "localhost:19530")
	CollectionName string // Name of the collection
	Dimension      int    // Vector dimension (e.g., 1536 for text-embedding-3-small)

	// HNSW index parameters
	M              int // HNSW M parameter (default: 16)
	EfConstruction int // HNSW efConstruction (default: 256)
}

// DefaultMilvusConfig returns the default local configuration
func DefaultMilvusConfig() MilvusConfig {
	return MilvusConfig{
		Address:        "localhost:19530",
		CollectionName: "folio_embeddings",
		Dimension:      1536,
		M:              16,
		EfConstruction: 256,
	}
}

// MilvusStore implements rag.VectorStore using Milvus with the inner product metric
type MilvusStore struct {
	client client.Client
	config MilvusConfig
}

// NewMilvusStore creates a new Milvus vector store instance
// Connects to Milvus and ensures the collection exists with proper schema
func NewMilvusStore(ctx context.Context, config MilvusConfig) (*MilvusStore, error) {
	if config.Dimension <= 0 {
		return nil, fmt.Errorf("%w: %d", rag.ErrInvalidDimension, config.Dimension)
	}

	c, err := client.NewGrpcClient(ctx, config.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrConnectionFailed, err)
	}

	store := &MilvusStore{
		client: c,
		config: config,
	}

	if err := store.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return store, nil
}

// ensureCollection creates the collection with schema if it doesn't exist
func (m *MilvusStore) ensureCollection(ctx context.Context) error {
	has, err := m.client.HasCollection(ctx, m.config.CollectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !has {
		schema := &entity.Schema{
			CollectionName: m.config.CollectionName,
			AutoID:         true,
			Fields: []*entity.Field{
				{
					Name:       "id",
					DataType:   entity.FieldTypeInt64,
					PrimaryKey: true,
					AutoID:     true,
				},
				{
					Name:     "technique",
					DataType: entity.FieldTypeInt16,
				},
				{
					Name:     "chunk",
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": fmt.Sprintf("%d", MaxChunkLength),
					},
				},
				{
					Name:     "embedding",
					DataType: entity.FieldTypeFloatVector,
					TypeParams: map[string]string{
						"dim": fmt.Sprintf("%d", m.config.Dimension),
					},
				},
			},
		}

		if err := m.client.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		idx, err := entity.NewIndexHNSW(entity.IP, m.config.M, m.config.EfConstruction)
		if err != nil {
			return fmt.Errorf("failed to create index config: %w", err)
		}

		if err := m.client.CreateIndex(ctx, m.config.CollectionName, "embedding", idx, false); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := m.client.LoadCollection(ctx, m.config.CollectionName, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	return nil
}

// Insert writes one record and flushes so it is durable on return
func (m *MilvusStore) Insert(ctx context.Context, record rag.Record) error {
	if m.client == nil {
		return ErrMissingClient
	}
	if err := m.validateRecord(record); err != nil {
		return err
	}

	columns := []entity.Column{
		entity.NewColumnInt16("technique", []int16{int16(record.Technique)}),
		entity.NewColumnVarChar("chunk", []string{record.Chunk}),
		entity.NewColumnFloatVector("embedding", m.config.Dimension, [][]float32{record.Vector}),
	}

	if _, err := m.client.Insert(ctx, m.config.CollectionName, "", columns...); err != nil {
		return fmt.Errorf("%w: %v", rag.ErrInsertFailed, err)
	}

	if err := m.client.Flush(ctx, m.config.CollectionName, false); err != nil {
		return fmt.Errorf("%w: flush: %v", rag.ErrInsertFailed, err)
	}

	return nil
}

func (m *MilvusStore) validateRecord(record rag.Record) error {
	if len(record.Vector) != m.config.Dimension {
		return fmt.Errorf("%w: expected %d, got %d", rag.ErrInvalidDimension, m.config.Dimension, len(record.Vector))
	}
	if len(record.Chunk) > MaxChunkLength {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrChunkTooLong, len(record.Chunk), MaxChunkLength)
	}
	return nil
}

// Search performs a top-K inner product search restricted to one technique
func (m *MilvusStore) Search(ctx context.Context, technique rag.Technique, vector []float32, opts rag.SearchOptions) ([]rag.Match, error) {
	if m.client == nil {
		return nil, ErrMissingClient
	}
	if len(vector) != m.config.Dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", rag.ErrInvalidDimension, m.config.Dimension, len(vector))
	}
	if opts.Limit <= 0 {
		return []rag.Match{}, nil
	}

	// ef must be at least topK
	ef := 64
	if opts.Limit > ef {
		ef = opts.Limit
	}
	sp, err := entity.NewIndexHNSWSearchParam(ef)
	if err != nil {
		return nil, fmt.Errorf("failed to create search params: %w", err)
	}

	results, err := m.client.Search(
		ctx,
		m.config.CollectionName,
		nil, // partition names
		techniqueExpr(technique),
		[]string{"chunk"},
		[]entity.Vector{entity.FloatVector(vector)},
		"embedding",
		entity.IP,
		opts.Limit,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrSearchFailed, err)
	}

	return matchesFromResults(results, opts.Threshold), nil
}

// Count returns the number of records stored for technique
func (m *MilvusStore) Count(ctx context.Context, technique rag.Technique) (int, error) {
	if m.client == nil {
		return 0, ErrMissingClient
	}

	results, err := m.client.Query(
		ctx,
		m.config.CollectionName,
		nil, // partition names
		techniqueExpr(technique),
		[]string{"count(*)"},
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", rag.ErrCountFailed, err)
	}

	for _, column := range results {
		if column.Name() != "count(*)" {
			continue
		}
		if counts, ok := column.(*entity.ColumnInt64); ok && len(counts.Data()) > 0 {
			return int(counts.Data()[0]), nil
		}
	}

	return 0, fmt.Errorf("%w: count(*) missing from result", rag.ErrCountFailed)
}

// Close releases resources and closes the Milvus connection
func (m *MilvusStore) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

func techniqueExpr(technique rag.Technique) string {
	return fmt.Sprintf("technique == %d", int16(technique))
}

// matchesFromResults keeps hits strictly above threshold. Milvus returns IP
// hits best first, so order is preserved.
func matchesFromResults(results []client.SearchResult, threshold float64) []rag.Match {
	matches := []rag.Match{}
	if len(results) == 0 {
		return matches
	}

	var chunks []string
	for _, field := range results[0].Fields {
		if field.Name() == "chunk" {
			if col, ok := field.(*entity.ColumnVarChar); ok {
				chunks = col.Data()
			}
		}
	}

	for i := 0; i < results[0].ResultCount && i < len(chunks); i++ {
		score := float64(results[0].Scores[i])
		if score <= threshold {
			continue
		}
		matches = append(matches, rag.Match{Chunk: chunks[i], Similarity: score})
	}

	return matches
}
