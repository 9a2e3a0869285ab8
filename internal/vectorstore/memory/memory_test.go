package memory

import (
	"context"
	"testing"

	"docrag/internal/vectorstore"
)

func record(id string, vec []float32) vectorstore.Record {
	return vectorstore.Record{
		ID:        id,
		Content:   "content of " + id,
		Embedding: vec,
		Metadata:  vectorstore.Metadata{Source: "test", ChunkIndex: 0},
	}
}

func TestQueryRanksByScore(t *testing.T) {
	s := New()
	ctx := context.Background()
	err := s.Upsert(ctx, []vectorstore.Record{
		record("far", []float32{0, 1, 0}),
		record("near", []float32{1, 0.1, 0}),
		record("exact", []float32{1, 0, 0}),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	matches, err := s.Query(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Record.ID != "exact" {
		t.Errorf("best match = %q, want exact", matches[0].Record.ID)
	}
	if matches[0].Score < matches[1].Score {
		t.Error("matches not ordered by descending score")
	}
}

func TestQueryReturnsFewerThanTopK(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Upsert(ctx, []vectorstore.Record{record("only", []float32{1, 0})}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	matches, err := s.Query(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("expected the single stored record, got %d matches", len(matches))
	}
}

func TestQueryEmptyStore(t *testing.T) {
	s := New()
	matches, err := s.Query(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("empty store should return no matches, got %d", len(matches))
	}
}

func TestUpsertReplacesByID(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Upsert(ctx, []vectorstore.Record{record("a", []float32{1, 0})})
	_ = s.Upsert(ctx, []vectorstore.Record{record("a", []float32{0, 1})})
	if s.Count() != 1 {
		t.Errorf("upsert with same id should replace, count = %d", s.Count())
	}
}
