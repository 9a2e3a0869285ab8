package response

import "github.com/gin-gonic/gin"

// Error kind names surfaced in error bodies.
const (
	KindInvalidInput       = "InvalidInput"
	KindEmbeddingProvider  = "EmbeddingProviderError"
	KindGenerationProvider = "GenerationProviderError"
	KindStoreWrite         = "StoreWriteError"
	KindStoreQuery         = "StoreQueryError"
	KindSourceFetch        = "SourceFetchError"
	KindInternal           = "InternalError"
)

// Error writes the uniform error body: {"error": kind, "message": ...}.
func Error(c *gin.Context, httpStatus int, kind, message string) {
	c.JSON(httpStatus, gin.H{
		"error":   kind,
		"message": message,
	})
}
