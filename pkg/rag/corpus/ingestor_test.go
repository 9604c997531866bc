package corpus

import (
	"context"
	"errors"
	"testing"

	"ei-coach-be/pkg/embedding"
	"ei-coach-be/pkg/rag"
)

type fakeEmbedder struct {
	dim      int
	failText string
	calls    int
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.failText != "" && text == f.failText {
		return nil, errors.New("embedding backend down")
	}
	vec := make([]float32, f.dim)
	vec[0] = 1
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: vec},
	}, nil
}

func doc(id, format, content string) RawDocument {
	return RawDocument{
		DocId:       id,
		Format:      format,
		Content:     content,
		Facet:       rag.FacetSelfRegulation,
		Duration:    rag.DurationTwoMin,
		ContextTags: []string{"work"},
	}
}

func TestIngestFilesHappyPath(t *testing.T) {
	ing := NewIngestor(&fakeEmbedder{dim: 4}, 4, 50, 10)

	ix, statuses, err := ing.IngestFiles(context.Background(), []RawDocument{
		doc("doc1", "text", "Pause before responding. Name the feeling out loud."),
		doc("doc2", "markdown", "# Breathing\n**Box breathing** calms the body."),
	})
	if err != nil {
		t.Fatal(err)
	}
	if ix.Len() == 0 {
		t.Fatal("no chunks indexed")
	}
	if ix.SourceDocCount() != 2 {
		t.Errorf("SourceDocCount = %d, want 2", ix.SourceDocCount())
	}
	for _, st := range statuses {
		if st.Err != nil {
			t.Errorf("doc %s failed: %v", st.DocId, st.Err)
		}
		if st.Chunks == 0 {
			t.Errorf("doc %s produced no chunks", st.DocId)
		}
	}
}

func TestIngestFilesUnsupportedFormat(t *testing.T) {
	ing := NewIngestor(&fakeEmbedder{dim: 4}, 4, 50, 10)

	ix, statuses, err := ing.IngestFiles(context.Background(), []RawDocument{
		doc("bad", "pdf", "binary"),
		doc("good", "text", "A usable exercise description."),
	})
	if err != nil {
		t.Fatal(err)
	}

	var badStatus, goodStatus *FileStatus
	for i := range statuses {
		switch statuses[i].DocId {
		case "bad":
			badStatus = &statuses[i]
		case "good":
			goodStatus = &statuses[i]
		}
	}
	if badStatus == nil || !errors.Is(badStatus.Err, ErrUnsupportedFormat) {
		t.Errorf("bad doc should report ErrUnsupportedFormat, got %+v", badStatus)
	}
	if goodStatus == nil || goodStatus.Err != nil {
		t.Errorf("good doc should survive a bad sibling, got %+v", goodStatus)
	}
	if ix.Len() == 0 {
		t.Error("good doc's chunks should be indexed")
	}
}

func TestIngestFilesEmbedFailureIsPerFile(t *testing.T) {
	content := "short text"
	ing := NewIngestor(&fakeEmbedder{dim: 4, failText: content}, 4, 500, 0)

	_, statuses, err := ing.IngestFiles(context.Background(), []RawDocument{
		doc("failing", "text", content),
		doc("working", "text", "different text that embeds fine"),
	})
	if err != nil {
		t.Fatal(err)
	}

	failed := 0
	for _, st := range statuses {
		if st.Err != nil {
			failed++
			if st.DocId != "failing" {
				t.Errorf("wrong doc failed: %s", st.DocId)
			}
		}
	}
	if failed != 1 {
		t.Errorf("failed docs = %d, want 1", failed)
	}
}

func TestIngestFilesMissingDocId(t *testing.T) {
	ing := NewIngestor(&fakeEmbedder{dim: 4}, 4, 50, 10)
	_, statuses, err := ing.IngestFiles(context.Background(), []RawDocument{
		doc("", "text", "content"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 1 || statuses[0].Err == nil {
		t.Errorf("doc without id should fail, got %+v", statuses)
	}
}

func TestIngestFilesChunkMetadataPreserved(t *testing.T) {
	ing := NewIngestor(&fakeEmbedder{dim: 2}, 2, 1000, 0)

	ix, _, err := ing.IngestFiles(context.Background(), []RawDocument{
		doc("doc1", "text", "one small exercise"),
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := ix.Query([]float32{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	c := got[0].Chunk
	if c.Facet != rag.FacetSelfRegulation || c.Duration != rag.DurationTwoMin || c.SourceDocId != "doc1" {
		t.Errorf("metadata lost on chunk: %+v", c)
	}
	if len(c.ContextTags) != 1 || c.ContextTags[0] != "work" {
		t.Errorf("context tags lost: %v", c.ContextTags)
	}
	if c.Id == "" {
		t.Error("chunk id not assigned")
	}
}
