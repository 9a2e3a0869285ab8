// Package memory is a brute-force in-process vector store for local
// development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"docrag/internal/vectorstore"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]vectorstore.Record
}

func New() *Store {
	return &Store{records: make(map[string]vectorstore.Record)}
}

func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.ID] = r
	}
	return nil
}

func (s *Store) Query(ctx context.Context, embedding []float32, topK int) ([]vectorstore.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]vectorstore.Match, 0, len(s.records))
	for _, r := range s.records {
		matches = append(matches, vectorstore.Match{
			Record: r,
			Score:  vectorstore.Cosine(embedding, r.Embedding),
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

func (s *Store) Close() error { return nil }

// Count reports how many records the store holds.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
