// Package retrieve wraps index queries with k selection and source-document
// de-duplication.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ei-coach-be/pkg/embedding"
	"ei-coach-be/pkg/rag"
	"ei-coach-be/pkg/vecindex"
)

// ErrNotReady is returned when no index has been built or loaded yet.
var ErrNotReady = errors.New("retriever not ready: no index published")

// Config encapsulates retrieval parameters.
type Config struct {
	TopK     int
	Slack    int     // extra candidates fetched to survive de-duplication
	MinScore float64 // similarity floor; weaker hits are dropped, not errored
}

// DefaultConfig mirrors the corpus defaults: k=5 with generous slack.
func DefaultConfig() Config {
	return Config{
		TopK:     5,
		Slack:    5,
		MinScore: 0.35,
	}
}

// Retriever resolves a query string against the current index snapshot.
type Retriever struct {
	handle   *vecindex.Handle
	embedder embedding.EmbeddingProvider
	cfg      Config
	logger   *log.Logger
}

func NewRetriever(handle *vecindex.Handle, embedder embedding.EmbeddingProvider, cfg Config, logger *log.Logger) *Retriever {
	return &Retriever{
		handle:   handle,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger,
	}
}

// Search embeds the query and returns up to k chunks ranked by similarity,
// with at most one chunk per source document. An empty result is not an
// error: it means the index is ready but nothing scored above the floor, and
// the synthesizer degrades gracefully.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]rag.Chunk, error) {
	snapshot := r.handle.Snapshot()
	if snapshot == nil {
		return nil, ErrNotReady
	}
	if k <= 0 {
		k = r.cfg.TopK
	}

	res, err := r.embedder.Generate(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, rag.WrapTimeout(err, "embed query")
	}

	scored, err := snapshot.Query(res.Embedding.Values, k+r.cfg.Slack)
	if err != nil {
		return nil, fmt.Errorf("index query: %w", err)
	}

	// Results arrive ranked descending, so the first hit per source document
	// is its best one.
	var chunks []rag.Chunk
	seen := make(map[string]bool)
	for _, hit := range scored {
		if hit.Score < r.cfg.MinScore {
			r.logger.Printf("[DEBUG] Candidate %s: score=%.4f [FILTERED]", hit.Chunk.Id, hit.Score)
			continue
		}
		if seen[hit.Chunk.SourceDocId] {
			continue
		}
		seen[hit.Chunk.SourceDocId] = true
		chunks = append(chunks, hit.Chunk)
		r.logger.Printf("[DEBUG] Candidate %s: score=%.4f [KEEP]", hit.Chunk.Id, hit.Score)
		if len(chunks) == k {
			break
		}
	}

	return chunks, nil
}
