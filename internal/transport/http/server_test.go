package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docrag/internal/ai"
	"docrag/internal/app"
	"docrag/internal/bootstrap"
	"docrag/internal/config"
	"docrag/internal/pkg/webfetch"
	"docrag/internal/vectorstore/memory"
)

type stubEmbedder struct {
	err error
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []float32{1, 0, 0}, nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

type stubGenerator struct{}

func (g *stubGenerator) Complete(ctx context.Context, messages []ai.ChatMessage) (string, error) {
	return "stubbed answer", nil
}

type stubFetcher struct {
	pages map[string]string
}

func (f *stubFetcher) Get(ctx context.Context, url string) (string, error) {
	if page, ok := f.pages[url]; ok {
		return page, nil
	}
	return "", webfetch.ErrNotFound
}

func testRouter(t *testing.T, emb app.Embedder) (*bootstrap.App, http.Handler) {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{
			Name:    "docrag",
			Env:     "test",
			GinMode: "test",
		},
		Chunking:  config.ChunkingConfig{WindowSize: 50, Overlap: 10},
		Retrieval: config.RetrievalConfig{TopK: 3},
		Store:     config.StoreConfig{Kind: config.StoreKindMemory},
	}
	store := memory.New()
	svc := app.NewRAGService(store, emb, &stubGenerator{}, cfg.Chunking.WindowSize, cfg.Chunking.Overlap, cfg.Retrieval.TopK)
	a := &bootstrap.App{
		Config:  cfg,
		Store:   store,
		Service: svc,
		Fetcher: &stubFetcher{pages: map[string]string{
			"https://docs.example.com/checkout": "<html><body><h1>Checkout</h1><p>Create a session.</p></body></html>",
		}},
		StartedAt: time.Now(),
	}
	return a, NewRouter(a)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIngestEndpoint(t *testing.T) {
	_, router := testRouter(t, &stubEmbedder{})
	w := doJSON(t, router, http.MethodPost, "/ingest",
		`{"text": "Stripe lets you create a Checkout Session via the API."}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		ChunksIngested int `json:"chunks_ingested"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ChunksIngested != 1 {
		t.Errorf("chunks_ingested = %d, want 1", resp.ChunksIngested)
	}
}

func TestIngestEndpointEmptyText(t *testing.T) {
	_, router := testRouter(t, &stubEmbedder{})
	for _, body := range []string{`{"text": ""}`, `{"text": "   "}`, `not json`} {
		w := doJSON(t, router, http.MethodPost, "/ingest", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
		if !strings.Contains(w.Body.String(), "InvalidInput") {
			t.Errorf("body %q: error kind missing from %s", body, w.Body.String())
		}
	}
}

func TestIngestEndpointEmbeddingFailure(t *testing.T) {
	a, router := testRouter(t, &stubEmbedder{err: errors.New("upstream 500")})
	w := doJSON(t, router, http.MethodPost, "/ingest", `{"text": "some document"}`)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if !strings.Contains(w.Body.String(), "EmbeddingProviderError") {
		t.Errorf("error kind missing from %s", w.Body.String())
	}
	if store, ok := a.Store.(*memory.Store); ok && store.Count() != 0 {
		t.Error("store gained records despite embedding failure")
	}
}

func TestQueryEndpoint(t *testing.T) {
	_, router := testRouter(t, &stubEmbedder{})
	if w := doJSON(t, router, http.MethodPost, "/ingest", `{"text": "checkout docs", "source": "stripe"}`); w.Code != http.StatusOK {
		t.Fatalf("ingest failed: %s", w.Body.String())
	}

	w := doJSON(t, router, http.MethodPost, "/query", `{"question": "how do sessions work?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Answer  string `json:"answer"`
		Sources []struct {
			ID    string  `json:"id"`
			Score float32 `json:"score"`
		} `json:"sources"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Answer != "stubbed answer" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].ID == "" {
		t.Errorf("sources = %+v, want the single ingested chunk", resp.Sources)
	}
}

func TestQueryEndpointEmptyQuestion(t *testing.T) {
	_, router := testRouter(t, &stubEmbedder{})
	w := doJSON(t, router, http.MethodPost, "/query", `{"question": "  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestIngestURLsEndpoint(t *testing.T) {
	_, router := testRouter(t, &stubEmbedder{})
	w := doJSON(t, router, http.MethodPost, "/ingest/urls",
		`{"urls": ["https://docs.example.com/checkout", "https://docs.example.com/missing"]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Status   string `json:"status"`
		Ingested int    `json:"ingested"`
		Skipped  []struct {
			URL    string `json:"url"`
			Status string `json:"status"`
		} `json:"skipped"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Ingested != 1 {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Skipped) != 1 || resp.Skipped[0].Status != "404" {
		t.Errorf("skipped = %+v, want one 404 entry", resp.Skipped)
	}
}

func TestIngestURLsAllSkipped(t *testing.T) {
	_, router := testRouter(t, &stubEmbedder{})
	w := doJSON(t, router, http.MethodPost, "/ingest/urls", `{"urls": ["https://docs.example.com/missing"]}`)
	if w.Code != http.StatusMultiStatus {
		t.Errorf("status = %d, want 207", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"skipped"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func doPDFUpload(t *testing.T, router http.Handler, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/ingest/pdf", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadPDFRejectsMissingFile(t *testing.T) {
	_, router := testRouter(t, &stubEmbedder{})
	w := doPDFUpload(t, router, "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "missing file") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestUploadPDFRejectsWrongExtension(t *testing.T) {
	_, router := testRouter(t, &stubEmbedder{})
	w := doPDFUpload(t, router, "notes.txt", []byte("plain text"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "only PDF files are allowed") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestUploadPDFRejectsUnparsableContent(t *testing.T) {
	a, router := testRouter(t, &stubEmbedder{})
	w := doPDFUpload(t, router, "broken.pdf", []byte("not actually a pdf"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "InvalidInput") {
		t.Errorf("body = %s", w.Body.String())
	}
	if store, ok := a.Store.(*memory.Store); ok && store.Count() != 0 {
		t.Error("store gained records from a rejected upload")
	}
}

func TestHealthz(t *testing.T) {
	_, router := testRouter(t, &stubEmbedder{})
	w := doJSON(t, router, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"store_kind":"memory"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
