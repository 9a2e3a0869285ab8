// Package mysqlvec stores chunk records in MySQL through gorm. Embeddings
// are kept as JSON text for portability; ranking happens client-side with
// cosine similarity, which is fine at the corpus sizes this service targets.
package mysqlvec

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"docrag/internal/vectorstore"
)

type chunkRow struct {
	ID          string    `gorm:"primaryKey;size:64"`
	Content     string    `gorm:"type:text;not null"`
	Source      string    `gorm:"size:512;index"`
	ChunkIndex  int       `gorm:"not null"`
	StartOffset int       `gorm:"not null"`
	EndOffset   int       `gorm:"not null"`
	Embedding   string    `gorm:"type:mediumtext"` // JSON array of float32
	CreatedAt   time.Time
}

func (chunkRow) TableName() string { return "vector_records" }

type Store struct {
	db *gorm.DB
}

func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open mysql failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get mysql sql db failed: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping mysql failed: %w", err)
	}

	if err := db.AutoMigrate(&chunkRow{}); err != nil {
		return nil, fmt.Errorf("auto migrate vector_records failed: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]chunkRow, len(records))
	for i, r := range records {
		emb, err := json.Marshal(r.Embedding)
		if err != nil {
			return fmt.Errorf("marshal embedding failed: %w", err)
		}
		rows[i] = chunkRow{
			ID:          r.ID,
			Content:     r.Content,
			Source:      r.Metadata.Source,
			ChunkIndex:  r.Metadata.ChunkIndex,
			StartOffset: r.Metadata.Start,
			EndOffset:   r.Metadata.End,
			Embedding:   string(emb),
		}
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("upsert vector records failed: %w", err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, embedding []float32, topK int) ([]vectorstore.Match, error) {
	var rows []chunkRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list vector records failed: %w", err)
	}

	matches := make([]vectorstore.Match, 0, len(rows))
	for _, row := range rows {
		var vec []float32
		if row.Embedding != "" {
			if err := json.Unmarshal([]byte(row.Embedding), &vec); err != nil {
				continue
			}
		}
		matches = append(matches, vectorstore.Match{
			Record: vectorstore.Record{
				ID:        row.ID,
				Content:   row.Content,
				Embedding: vec,
				Metadata: vectorstore.Metadata{
					Source:     row.Source,
					ChunkIndex: row.ChunkIndex,
					Start:      row.StartOffset,
					End:        row.EndOffset,
				},
			},
			Score: vectorstore.Cosine(embedding, vec),
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
