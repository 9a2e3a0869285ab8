// Package vectorstore defines the persisted record shape and the interface
// every vector store backend implements. Concrete backends live in
// subpackages and are selected by configuration at startup.
package vectorstore

import "context"

// Metadata locates a chunk inside its source document. Offsets are rune
// offsets into the original text and are the authoritative position of a
// chunk; insertion order inside a backend is not.
type Metadata struct {
	Source     string `json:"source"`
	ChunkIndex int    `json:"chunk_index"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// Record is the persisted unit: one chunk, its embedding, and where it came
// from. Records are written once and never mutated.
type Record struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
	Metadata  Metadata  `json:"metadata"`
}

// Match is a retrieved record with its similarity score.
type Match struct {
	Record Record  `json:"record"`
	Score  float32 `json:"score"`
}

// Store is the capability a backend provides. Query returns matches ordered
// by descending score; it returns fewer than topK matches when the store
// holds fewer records, and the order of equal scores is backend-defined.
type Store interface {
	Upsert(ctx context.Context, records []Record) error
	Query(ctx context.Context, embedding []float32, topK int) ([]Match, error)
	Close() error
}
