// Package qdrant is a minimal REST client for a Qdrant collection. It
// assumes cosine distance and creates the collection if it does not exist.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"docrag/internal/config"
	"docrag/internal/vectorstore"
)

type Store struct {
	endpoint   string
	apiKey     string
	collection string
	client     *http.Client
}

// New builds the client and ensures the collection exists with the configured
// embedding dimension. Qdrant answers 200 for an already existing collection
// with the same schema.
func New(ctx context.Context, cfg config.QdrantConfig, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("qdrant store needs a positive embedding dimension, got %d", dimension)
	}
	s := &Store{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := s.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", s.endpoint, s.collection), body, nil); err != nil {
		return nil, fmt.Errorf("ensure qdrant collection: %w", err)
	}
	return s, nil
}

func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}
	points := make([]map[string]any, len(records))
	for i, r := range records {
		points[i] = map[string]any{
			"id":     r.ID,
			"vector": r.Embedding,
			"payload": map[string]any{
				"content":     r.Content,
				"source":      r.Metadata.Source,
				"chunk_index": r.Metadata.ChunkIndex,
				"start":       r.Metadata.Start,
				"end":         r.Metadata.End,
			},
		}
	}
	body := map[string]any{"points": points}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.endpoint, s.collection)
	return s.doJSON(ctx, http.MethodPut, url, body, nil)
}

func (s *Store) Query(ctx context.Context, embedding []float32, topK int) ([]vectorstore.Match, error) {
	req := map[string]any{
		"vector":       embedding,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      string         `json:"id"`
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.endpoint, s.collection)
	if err := s.doJSON(ctx, http.MethodPost, url, req, &resp); err != nil {
		return nil, err
	}

	matches := make([]vectorstore.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		rec := vectorstore.Record{ID: r.ID}
		if v, ok := r.Payload["content"].(string); ok {
			rec.Content = v
		}
		if v, ok := r.Payload["source"].(string); ok {
			rec.Metadata.Source = v
		}
		if v, ok := r.Payload["chunk_index"].(float64); ok {
			rec.Metadata.ChunkIndex = int(v)
		}
		if v, ok := r.Payload["start"].(float64); ok {
			rec.Metadata.Start = int(v)
		}
		if v, ok := r.Payload["end"].(float64); ok {
			rec.Metadata.End = int(v)
		}
		matches = append(matches, vectorstore.Match{Record: rec, Score: r.Score})
	}
	return matches, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) doJSON(ctx context.Context, method, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal qdrant request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build qdrant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
