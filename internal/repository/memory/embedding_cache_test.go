package memory

import (
	"context"
	"testing"
	"time"

	"ei-coach-be/pkg/embedding"
)

type countingEmbedder struct {
	calls int
}

func (c *countingEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	c.calls++
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0}},
	}, nil
}

func TestCachedEmbedderQueryHit(t *testing.T) {
	inner := &countingEmbedder{}
	cached := NewCachedEmbedder(inner, time.Minute)

	for i := 0; i < 3; i++ {
		res, err := cached.Generate(context.Background(), "self_regulation anger 2min exercise", embedding.TaskQuery)
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Embedding.Values) != 2 {
			t.Fatalf("unexpected embedding %v", res.Embedding.Values)
		}
	}

	if inner.calls != 1 {
		t.Errorf("inner embedder called %d times, want 1 (cache hit)", inner.calls)
	}
}

func TestCachedEmbedderDistinctQueries(t *testing.T) {
	inner := &countingEmbedder{}
	cached := NewCachedEmbedder(inner, time.Minute)

	_, _ = cached.Generate(context.Background(), "query one", embedding.TaskQuery)
	_, _ = cached.Generate(context.Background(), "query two", embedding.TaskQuery)

	if inner.calls != 2 {
		t.Errorf("inner embedder called %d times, want 2", inner.calls)
	}
}

func TestCachedEmbedderSkipsDocuments(t *testing.T) {
	inner := &countingEmbedder{}
	cached := NewCachedEmbedder(inner, time.Minute)

	for i := 0; i < 3; i++ {
		_, _ = cached.Generate(context.Background(), "same document", embedding.TaskDocument)
	}

	if inner.calls != 3 {
		t.Errorf("document embeddings must bypass the cache, got %d calls", inner.calls)
	}
}
