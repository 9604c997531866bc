package embedding

import "context"

// Task types hint providers about how the embedding will be used. Some
// backends (Gemini-style APIs) produce asymmetric embeddings for documents
// vs queries; others ignore the hint.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings.
// The same provider instance must be used for ingestion and query embedding
// so both sides agree on the vector width.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}
