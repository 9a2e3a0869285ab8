package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"docrag/internal/pkg/htmlextract"
	"docrag/internal/pkg/webfetch"
)

// PageFetcher downloads a documentation page.
type PageFetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

type SkippedURL struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

type URLIngestResult struct {
	Ingested int          `json:"ingested"`
	Skipped  []SkippedURL `json:"skipped"`
}

// IngestURLs fetches each page, extracts its text, and runs the normal
// ingestion path with the URL as the record source. Pages that 404 or hold
// no extractable text are skipped and reported; other failures abort the
// whole request.
func (s *RAGService) IngestURLs(ctx context.Context, fetcher PageFetcher, urls []string) (*URLIngestResult, error) {
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			cleaned = append(cleaned, u)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: no urls provided", ErrInvalidInput)
	}

	result := &URLIngestResult{Skipped: []SkippedURL{}}
	for _, url := range cleaned {
		markup, err := fetcher.Get(ctx, url)
		if err != nil {
			if errors.Is(err, webfetch.ErrNotFound) {
				log.Printf("url skipped: %s (404)", url)
				result.Skipped = append(result.Skipped, SkippedURL{URL: url, Status: "404"})
				continue
			}
			return nil, wrap(ErrSourceFetch, err)
		}

		page, err := htmlextract.Extract(markup)
		if err != nil || strings.TrimSpace(page.Text) == "" {
			log.Printf("url skipped: %s (no extractable text)", url)
			result.Skipped = append(result.Skipped, SkippedURL{URL: url, Status: "empty"})
			continue
		}

		ingested, err := s.Ingest(ctx, IngestInput{Text: page.Text, Source: url})
		if err != nil {
			return nil, err
		}
		result.Ingested += ingested.ChunksIngested
	}
	return result, nil
}
