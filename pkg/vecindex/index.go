package vecindex

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"ei-coach-be/pkg/rag"
)

var (
	// ErrIndexEmpty is returned by Query when nothing has been ingested.
	ErrIndexEmpty = errors.New("index is empty")
	// ErrDimensionMismatch is returned when a vector's width disagrees with
	// the index's configured embedding dimension. Fatal to the index
	// instance when raised during ingestion; requires re-ingestion.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Scored is a single query hit: a chunk with its similarity score.
type Scored struct {
	Chunk rag.Chunk
	Score float64 // cosine similarity, higher is more similar
}

// Index is an append-only collection of (vector, chunk) pairs supporting
// cosine nearest-neighbor queries. An Index is built once by ingestion and
// then read-only: the service layer publishes it through a Handle and never
// mutates a published instance, so concurrent readers need no locking.
type Index struct {
	dim     int
	chunks  []rag.Chunk
	vectors [][]float32
}

// New creates an empty index with the given embedding width.
func New(dim int) *Index {
	return &Index{dim: dim}
}

// Dim returns the configured embedding width.
func (ix *Index) Dim() int { return ix.dim }

// Len returns the number of indexed chunks.
func (ix *Index) Len() int { return len(ix.chunks) }

// SourceDocCount returns the number of distinct source documents indexed.
func (ix *Index) SourceDocCount() int {
	seen := make(map[string]struct{}, len(ix.chunks))
	for _, c := range ix.chunks {
		seen[c.SourceDocId] = struct{}{}
	}
	return len(seen)
}

// Ingest appends chunks with their vectors. Every vector must match the
// configured width and every chunk must carry a source document id.
func (ix *Index) Ingest(chunks []rag.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("%w: chunk %q has width %d, index expects %d",
				ErrDimensionMismatch, chunks[i].Id, len(v), ix.dim)
		}
		if chunks[i].SourceDocId == "" {
			return fmt.Errorf("chunk %q has empty source_doc_id", chunks[i].Id)
		}
	}
	ix.chunks = append(ix.chunks, chunks...)
	ix.vectors = append(ix.vectors, vectors...)
	return nil
}

// Query returns the k most similar chunks, ranked by cosine similarity
// descending. Ties keep original insertion order (stable sort).
func (ix *Index) Query(vector []float32, k int) ([]Scored, error) {
	if len(ix.chunks) == 0 {
		return nil, ErrIndexEmpty
	}
	if len(vector) != ix.dim {
		return nil, fmt.Errorf("%w: query width %d, index expects %d",
			ErrDimensionMismatch, len(vector), ix.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	results := make([]Scored, len(ix.chunks))
	for i := range ix.chunks {
		results[i] = Scored{
			Chunk: ix.chunks[i],
			Score: cosineSimilarity(vector, ix.vectors[i]),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
