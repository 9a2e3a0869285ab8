package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"docrag/internal/app"
	"docrag/internal/pkg/pdfextract"
	"docrag/internal/transport/http/response"
)

type RAGHandler struct {
	ragService *app.RAGService
	fetcher    app.PageFetcher
}

type IngestRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type QueryRequest struct {
	Question string `json:"question"`
}

type IngestURLsRequest struct {
	URLs []string `json:"urls"`
}

func NewRAGHandler(ragService *app.RAGService, fetcher app.PageFetcher) *RAGHandler {
	return &RAGHandler{ragService: ragService, fetcher: fetcher}
}

// Ingest handles POST /ingest: {"text": ..., "source"?: ...} ->
// {"chunks_ingested": n}.
func (h *RAGHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.KindInvalidInput, "invalid request payload")
		return
	}

	result, err := h.ragService.Ingest(c.Request.Context(), app.IngestInput{
		Text:   req.Text,
		Source: req.Source,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Query handles POST /query: {"question": ...} ->
// {"answer": ..., "sources": [{"id", "score"}]}.
func (h *RAGHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.KindInvalidInput, "invalid request payload")
		return
	}

	result, err := h.ragService.Ask(c.Request.Context(), app.AskInput{Question: req.Question})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadPDF handles POST /ingest/pdf: multipart form with "file" (PDF) and
// optional "source"; extracts text and runs the normal ingestion path.
func (h *RAGHandler) UploadPDF(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.KindInvalidInput, "missing file")
		return
	}
	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".pdf" {
		response.Error(c, http.StatusBadRequest, response.KindInvalidInput, "only PDF files are allowed")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindInternal, "failed to read file")
		return
	}
	defer f.Close()

	text, err := pdfextract.Text(f)
	if err != nil {
		if errors.Is(err, pdfextract.ErrTooLarge) {
			response.Error(c, http.StatusBadRequest, response.KindInvalidInput, "file too large (max 10MB)")
			return
		}
		response.Error(c, http.StatusBadRequest, response.KindInvalidInput, "failed to extract text from PDF: "+err.Error())
		return
	}
	if text == "" {
		response.Error(c, http.StatusBadRequest, response.KindInvalidInput, "PDF contains no extractable text")
		return
	}

	source := strings.TrimSpace(c.PostForm("source"))
	if source == "" {
		source = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	}

	result, err := h.ragService.Ingest(c.Request.Context(), app.IngestInput{
		Text:   text,
		Source: source,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// IngestURLs handles POST /ingest/urls: {"urls": [...]}. Returns 207 when
// every URL was skipped, 200 otherwise.
func (h *RAGHandler) IngestURLs(c *gin.Context) {
	var req IngestURLsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.KindInvalidInput, "invalid request payload")
		return
	}

	result, err := h.ragService.IngestURLs(c.Request.Context(), h.fetcher, req.URLs)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	status := http.StatusOK
	state := "ok"
	if result.Ingested == 0 && len(result.Skipped) > 0 {
		status = http.StatusMultiStatus
		state = "skipped"
	}
	c.JSON(status, gin.H{
		"status":   state,
		"ingested": result.Ingested,
		"skipped":  result.Skipped,
	})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.KindInvalidInput, err.Error())
	case errors.Is(err, app.ErrEmbeddingProvider):
		response.Error(c, http.StatusBadGateway, response.KindEmbeddingProvider, err.Error())
	case errors.Is(err, app.ErrGenerationProvider):
		response.Error(c, http.StatusBadGateway, response.KindGenerationProvider, err.Error())
	case errors.Is(err, app.ErrStoreWrite):
		response.Error(c, http.StatusBadGateway, response.KindStoreWrite, err.Error())
	case errors.Is(err, app.ErrStoreQuery):
		response.Error(c, http.StatusBadGateway, response.KindStoreQuery, err.Error())
	case errors.Is(err, app.ErrSourceFetch):
		response.Error(c, http.StatusBadGateway, response.KindSourceFetch, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.KindInternal, "request failed")
	}
}
