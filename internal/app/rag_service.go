package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"docrag/internal/ai"
	"docrag/internal/chunker"
	"docrag/internal/prompt"
	"docrag/internal/vectorstore"
)

const embeddingBatchSize = 10 // many embedding APIs limit batch size

// Embedder produces fixed-dimension vectors for text. Dimension must match
// between ingestion and query or retrieval is meaningless.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator answers an assembled prompt.
type Generator interface {
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
}

type RAGService struct {
	store     vectorstore.Store
	embedder  Embedder
	generator Generator
	window    int
	overlap   int
	topK      int
}

func NewRAGService(store vectorstore.Store, embedder Embedder, generator Generator, window, overlap, topK int) *RAGService {
	return &RAGService{
		store:     store,
		embedder:  embedder,
		generator: generator,
		window:    window,
		overlap:   overlap,
		topK:      topK,
	}
}

type IngestInput struct {
	Text   string
	Source string
}

type IngestResult struct {
	ChunksIngested int `json:"chunks_ingested"`
}

// Ingest splits the text into overlapping chunks, embeds every chunk, and
// writes the records to the vector store in one logical batch. Any provider
// failure fails the whole request before the store is touched.
func (s *RAGService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}
	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = "inline"
	}

	chunks := chunker.Split(text, s.window, s.overlap)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: text produced no chunks", ErrInvalidInput)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	var embeddings [][]float32
	for i := 0; i < len(texts); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := s.embedder.EmbedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, wrap(ErrEmbeddingProvider, err)
		}
		embeddings = append(embeddings, batch...)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks", ErrEmbeddingProvider, len(embeddings), len(chunks))
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, c := range chunks {
		records[i] = vectorstore.Record{
			ID:        recordID(source, c),
			Content:   c.Text,
			Embedding: embeddings[i],
			Metadata: vectorstore.Metadata{
				Source:     source,
				ChunkIndex: c.Index,
				Start:      c.Start,
				End:        c.End,
			},
		}
	}
	if err := s.store.Upsert(ctx, records); err != nil {
		return nil, wrap(ErrStoreWrite, err)
	}

	return &IngestResult{ChunksIngested: len(records)}, nil
}

type AskInput struct {
	Question string
	TopK     int // 0 = configured default
}

type SourceRef struct {
	ID    string  `json:"id"`
	Score float32 `json:"score"`
}

type AskResult struct {
	Answer  string      `json:"answer"`
	Sources []SourceRef `json:"sources"`
}

// Ask embeds the question, retrieves the top-K nearest chunks, and asks the
// generation provider for an answer grounded in them. When retrieval returns
// nothing, generation still runs with a prompt noting the empty context.
func (s *RAGService) Ask(ctx context.Context, input AskInput) (*AskResult, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrInvalidInput)
	}

	topK := input.TopK
	if topK <= 0 {
		topK = s.topK
	}

	queryEmb, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, wrap(ErrEmbeddingProvider, err)
	}

	matches, err := s.store.Query(ctx, queryEmb, topK)
	if err != nil {
		return nil, wrap(ErrStoreQuery, err)
	}

	contexts := make([]string, len(matches))
	sources := make([]SourceRef, len(matches))
	for i, m := range matches {
		contexts[i] = m.Record.Content
		sources[i] = SourceRef{ID: m.Record.ID, Score: m.Score}
	}

	system, user := prompt.Build(contexts, question)
	answer, err := s.generator.Complete(ctx, []ai.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		return nil, wrap(ErrGenerationProvider, err)
	}

	return &AskResult{
		Answer:  strings.TrimSpace(answer),
		Sources: sources,
	}, nil
}

// recordID derives a stable UUID from the source, chunk index, and a content
// prefix, so re-ingesting the same document overwrites rather than duplicates.
func recordID(source string, c chunker.Chunk) string {
	prefix := c.Text
	if len(prefix) > 100 {
		prefix = prefix[:100]
	}
	name := fmt.Sprintf("%s-%d-%s", source, c.Index, prefix)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
