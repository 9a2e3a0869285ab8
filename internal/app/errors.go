package app

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the transport layer. Handlers map ErrInvalidInput
// to 400 and the provider/store kinds to 502.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmbeddingProvider  = errors.New("embedding provider failure")
	ErrGenerationProvider = errors.New("generation provider failure")
	ErrStoreWrite         = errors.New("vector store write failure")
	ErrStoreQuery         = errors.New("vector store query failure")
	ErrSourceFetch        = errors.New("source fetch failure")
)

func wrap(kind, cause error) error {
	return fmt.Errorf("%w: %v", kind, cause)
}
