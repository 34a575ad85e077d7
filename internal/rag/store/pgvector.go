package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/Yates-Labs/folio/internal/rag"
)

const (
	insertEmbeddingSQL = `INSERT INTO embeddings (technique, value, chunk) VALUES ($1, $2, $3)`

	// <#> is the negative inner product, so similarity is its negation
	searchEmbeddingsSQL = `SELECT chunk, (value <#> $1) * -1 AS similarity FROM embeddings
WHERE technique = $2 AND (value <#> $1) * -1 > $3
ORDER BY value <#> $1 LIMIT $4`

	countEmbeddingsSQL = `SELECT COUNT(*) FROM embeddings WHERE technique = $1`

	// atttypmod is -1 for an untyped vector column and the width otherwise
	columnWidthSQL = `SELECT atttypmod FROM pg_attribute WHERE attrelid = 'embeddings'::regclass AND attname = 'value'`

	alterWidthSQL = `ALTER TABLE embeddings ALTER COLUMN value TYPE vector(%d)`
)

// PgVectorStore implements rag.VectorStore on PostgreSQL with the pgvector extension.
// Every insert runs outside a transaction, so it is committed when Insert returns.
type PgVectorStore struct {
	db        *sql.DB
	dimension int
	ownsDB    bool
}

// NewPgVectorStore wraps an open database whose schema is already migrated.
func NewPgVectorStore(db *sql.DB, dimension int) (*PgVectorStore, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: %d", rag.ErrInvalidDimension, dimension)
	}
	return &PgVectorStore{db: db, dimension: dimension}, nil
}

// OpenPgVector connects to dsn, verifies the connection and applies migrations.
func OpenPgVector(ctx context.Context, dsn string, dimension int) (*PgVectorStore, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: %d", rag.ErrInvalidDimension, dimension)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrConnectionFailed, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", rag.ErrConnectionFailed, err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := EnsureDimension(ctx, db, dimension); err != nil {
		db.Close()
		return nil, err
	}

	return &PgVectorStore{db: db, dimension: dimension, ownsDB: true}, nil
}

// EnsureDimension pins the value column to dimension. The migrations create
// an untyped column, which is altered in place on first open; a column fixed
// to another width is rejected.
func EnsureDimension(ctx context.Context, db *sql.DB, dimension int) error {
	var width int
	if err := db.QueryRowContext(ctx, columnWidthSQL).Scan(&width); err != nil {
		return fmt.Errorf("failed to read vector width: %w", err)
	}

	switch {
	case width == dimension:
		return nil
	case width > 0:
		return fmt.Errorf("%w: column holds %d-dimensional vectors, configured %d", rag.ErrInvalidDimension, width, dimension)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf(alterWidthSQL, dimension)); err != nil {
		return fmt.Errorf("failed to set vector width: %w", err)
	}
	return nil
}

// Insert commits a single record.
func (s *PgVectorStore) Insert(ctx context.Context, record rag.Record) error {
	if len(record.Vector) != s.dimension {
		return fmt.Errorf("%w: expected %d, got %d", rag.ErrInvalidDimension, s.dimension, len(record.Vector))
	}

	if _, err := s.db.ExecContext(ctx, insertEmbeddingSQL,
		int16(record.Technique),
		pgvector.NewVector(record.Vector),
		record.Chunk,
	); err != nil {
		return fmt.Errorf("%w: %v", rag.ErrInsertFailed, err)
	}
	return nil
}

// Search ranks records of technique by inner product with vector.
func (s *PgVectorStore) Search(ctx context.Context, technique rag.Technique, vector []float32, opts rag.SearchOptions) ([]rag.Match, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", rag.ErrInvalidDimension, s.dimension, len(vector))
	}

	rows, err := s.db.QueryContext(ctx, searchEmbeddingsSQL,
		pgvector.NewVector(vector),
		int16(technique),
		opts.Threshold,
		opts.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrSearchFailed, err)
	}
	defer rows.Close()

	matches := []rag.Match{}
	for rows.Next() {
		var m rag.Match
		if err := rows.Scan(&m.Chunk, &m.Similarity); err != nil {
			return nil, fmt.Errorf("%w: %v", rag.ErrSearchFailed, err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrSearchFailed, err)
	}

	return matches, nil
}

// Count returns the number of records stored for technique.
func (s *PgVectorStore) Count(ctx context.Context, technique rag.Technique) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countEmbeddingsSQL, int16(technique)).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", rag.ErrCountFailed, err)
	}
	return n, nil
}

// Close closes the database when the store opened it.
func (s *PgVectorStore) Close() error {
	if s.ownsDB && s.db != nil {
		return s.db.Close()
	}
	return nil
}
