package retrieve

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ei-coach-be/pkg/embedding"
	"ei-coach-be/pkg/rag"
	"ei-coach-be/pkg/vecindex"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: f.vec},
	}, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func chunk(id, doc string) rag.Chunk {
	return rag.Chunk{Id: id, Text: id, Facet: rag.FacetSelfRegulation, Duration: rag.DurationTwoMin, SourceDocId: doc}
}

func buildHandle(t *testing.T, chunks []rag.Chunk, vectors [][]float32) *vecindex.Handle {
	t.Helper()
	ix := vecindex.New(2)
	if err := ix.Ingest(chunks, vectors); err != nil {
		t.Fatal(err)
	}
	h := vecindex.NewHandle()
	h.Swap(ix)
	return h
}

func TestSearchNotReady(t *testing.T) {
	r := NewRetriever(vecindex.NewHandle(), &fakeEmbedder{vec: []float32{1, 0}}, DefaultConfig(), testLogger())
	_, err := r.Search(context.Background(), "query", 3)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("Search without index = %v, want ErrNotReady", err)
	}
}

func TestSearchDeduplicatesBySourceDoc(t *testing.T) {
	h := buildHandle(t,
		[]rag.Chunk{chunk("a1", "doc1"), chunk("a2", "doc1"), chunk("b1", "doc2"), chunk("c1", "doc3")},
		[][]float32{{1, 0}, {0.99, 0.01}, {0.9, 0.1}, {0.8, 0.2}},
	)
	r := NewRetriever(h, &fakeEmbedder{vec: []float32{1, 0}}, DefaultConfig(), testLogger())

	got, err := r.Search(context.Background(), "query", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d chunks, want 3", len(got))
	}
	seen := map[string]bool{}
	for _, c := range got {
		if seen[c.SourceDocId] {
			t.Errorf("duplicate source doc %s in results", c.SourceDocId)
		}
		seen[c.SourceDocId] = true
	}
	// doc1's best chunk wins
	if got[0].Id != "a1" {
		t.Errorf("first result = %s, want a1", got[0].Id)
	}
}

func TestSearchRespectsK(t *testing.T) {
	h := buildHandle(t,
		[]rag.Chunk{chunk("a", "doc1"), chunk("b", "doc2"), chunk("c", "doc3")},
		[][]float32{{1, 0}, {0.9, 0.1}, {0.8, 0.2}},
	)
	r := NewRetriever(h, &fakeEmbedder{vec: []float32{1, 0}}, DefaultConfig(), testLogger())

	got, err := r.Search(context.Background(), "query", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
}

func TestSearchScoreFloorYieldsEmptyNotError(t *testing.T) {
	h := buildHandle(t,
		[]rag.Chunk{chunk("a", "doc1"), chunk("b", "doc2")},
		[][]float32{{0, 1}, {-1, 0}},
	)
	cfg := DefaultConfig()
	cfg.MinScore = 0.5
	r := NewRetriever(h, &fakeEmbedder{vec: []float32{1, 0}}, cfg, testLogger())

	got, err := r.Search(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("weak matches must not error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d chunks, want 0", len(got))
	}
}

func TestSearchEmbedderFailure(t *testing.T) {
	h := buildHandle(t,
		[]rag.Chunk{chunk("a", "doc1")},
		[][]float32{{1, 0}},
	)
	r := NewRetriever(h, &fakeEmbedder{err: context.DeadlineExceeded}, DefaultConfig(), testLogger())

	_, err := r.Search(context.Background(), "query", 1)
	if !errors.Is(err, rag.ErrTimeout) {
		t.Fatalf("embedder deadline should surface as ErrTimeout, got %v", err)
	}
}

func TestSearchZeroKUsesDefault(t *testing.T) {
	h := buildHandle(t,
		[]rag.Chunk{chunk("a", "doc1"), chunk("b", "doc2")},
		[][]float32{{1, 0}, {0.9, 0.1}},
	)
	cfg := DefaultConfig()
	cfg.TopK = 1
	r := NewRetriever(h, &fakeEmbedder{vec: []float32{1, 0}}, cfg, testLogger())

	got, err := r.Search(context.Background(), "query", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want configured TopK of 1", len(got))
	}
}
