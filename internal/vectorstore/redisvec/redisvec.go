// Package redisvec keeps records in Redis, one JSON value per record plus a
// set of known IDs. Queries load the corpus and rank client-side, the same
// brute-force approach as the memory backend but with shared persistence.
package redisvec

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"docrag/internal/config"
	"docrag/internal/vectorstore"
)

type Store struct {
	client    *redisv9.Client
	keyPrefix string
}

func New(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	client := redisv9.NewClient(&redisv9.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "docrag"
	}
	return &Store{client: client, keyPrefix: prefix}, nil
}

func (s *Store) recordKey(id string) string { return s.keyPrefix + ":chunk:" + id }

func (s *Store) indexKey() string { return s.keyPrefix + ":chunks" }

func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	for _, r := range records {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal record failed: %w", err)
		}
		pipe.Set(ctx, s.recordKey(r.ID), payload, 0)
		pipe.SAdd(ctx, s.indexKey(), r.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis upsert failed: %w", err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, embedding []float32, topK int) ([]vectorstore.Match, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list record ids failed: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load records failed: %w", err)
	}

	matches := make([]vectorstore.Match, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var rec vectorstore.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		matches = append(matches, vectorstore.Match{
			Record: rec,
			Score:  vectorstore.Cosine(embedding, rec.Embedding),
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

func (s *Store) Close() error { return s.client.Close() }
