// Package pgvector stores records in PostgreSQL with the pgvector extension
// and lets the database do the nearest-neighbor ranking.
package pgvector

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"docrag/internal/vectorstore"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, dsn string, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("pgvector store needs a positive embedding dimension, got %d", dimension)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres failed: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx, dimension); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate vector_records failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context, dimension int) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS vector_records (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			chunk_index INT NOT NULL DEFAULT 0,
			start_offset INT NOT NULL DEFAULT 0,
			end_offset INT NOT NULL DEFAULT 0,
			embedding vector(%d),
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`, dimension),
		`CREATE INDEX IF NOT EXISTS idx_vector_records_embedding
			ON vector_records USING hnsw (embedding vector_cosine_ops)`,
	}
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	for _, r := range records {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO vector_records (id, content, source, chunk_index, start_offset, end_offset, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				content = EXCLUDED.content,
				source = EXCLUDED.source,
				chunk_index = EXCLUDED.chunk_index,
				start_offset = EXCLUDED.start_offset,
				end_offset = EXCLUDED.end_offset,
				embedding = EXCLUDED.embedding
		`, r.ID, r.Content, r.Metadata.Source, r.Metadata.ChunkIndex, r.Metadata.Start, r.Metadata.End,
			formatEmbedding(r.Embedding))
		if err != nil {
			return fmt.Errorf("upsert vector record %s failed: %w", r.ID, err)
		}
	}
	return nil
}

func (s *Store) Query(ctx context.Context, embedding []float32, topK int) ([]vectorstore.Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, source, chunk_index, start_offset, end_offset,
		       1 - (embedding <=> $1) AS score
		FROM vector_records
		ORDER BY embedding <=> $1
		LIMIT $2
	`, formatEmbedding(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("query vector records failed: %w", err)
	}
	defer rows.Close()

	var matches []vectorstore.Match
	for rows.Next() {
		var m vectorstore.Match
		if err := rows.Scan(
			&m.Record.ID,
			&m.Record.Content,
			&m.Record.Metadata.Source,
			&m.Record.Metadata.ChunkIndex,
			&m.Record.Metadata.Start,
			&m.Record.Metadata.End,
			&m.Score,
		); err != nil {
			return nil, fmt.Errorf("scan vector record failed: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *Store) Close() error { return s.db.Close() }

// formatEmbedding renders the pgvector literal: "[0.1,0.2,0.3]".
func formatEmbedding(embedding []float32) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
