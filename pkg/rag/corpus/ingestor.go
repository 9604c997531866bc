// Package corpus turns raw exercise documents into indexed chunks.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ei-coach-be/pkg/embedding"
	"ei-coach-be/pkg/rag"
	"ei-coach-be/pkg/utils"
	"ei-coach-be/pkg/vecindex"

	"github.com/google/uuid"
)

// ErrUnsupportedFormat marks a file whose content type cannot be parsed.
// Reported per file; it never aborts the rest of the batch.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// RawDocument is one uploaded corpus document with the metadata every
// derived chunk inherits.
type RawDocument struct {
	DocId       string
	Format      string // "text" | "markdown"
	Content     string
	Facet       rag.FacetTag
	Duration    rag.DurationTag
	ContextTags []string
}

// FileStatus reports the ingestion outcome for one document.
type FileStatus struct {
	DocId  string
	Chunks int
	Err    error
}

// Ingestor splits documents, embeds the chunks and builds a fresh index.
type Ingestor struct {
	embedder  embedding.EmbeddingProvider
	dim       int
	chunkSize int
	overlap   int
}

func NewIngestor(embedder embedding.EmbeddingProvider, dim, chunkSize, overlap int) *Ingestor {
	return &Ingestor{
		embedder:  embedder,
		dim:       dim,
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// IngestFiles builds a new index from the given documents. One bad file does
// not abort the others: its status carries the error and ingestion continues.
// The returned index fully replaces any prior generation; callers publish it
// atomically through a vecindex.Handle.
func (ing *Ingestor) IngestFiles(ctx context.Context, files []RawDocument) (*vecindex.Index, []FileStatus, error) {
	ix := vecindex.New(ing.dim)
	statuses := make([]FileStatus, 0, len(files))

	for _, file := range files {
		status := FileStatus{DocId: file.DocId}

		chunks, vectors, err := ing.ingestFile(ctx, file)
		if err != nil {
			status.Err = err
			statuses = append(statuses, status)
			continue
		}

		if err := ix.Ingest(chunks, vectors); err != nil {
			// A dimension mismatch here poisons the whole index instance;
			// surface it to the caller instead of publishing a broken index.
			if errors.Is(err, vecindex.ErrDimensionMismatch) {
				return nil, statuses, err
			}
			status.Err = err
			statuses = append(statuses, status)
			continue
		}

		status.Chunks = len(chunks)
		statuses = append(statuses, status)
	}

	return ix, statuses, nil
}

func (ing *Ingestor) ingestFile(ctx context.Context, file RawDocument) ([]rag.Chunk, [][]float32, error) {
	if file.DocId == "" {
		return nil, nil, fmt.Errorf("document has no doc_id")
	}

	text, err := extractText(file)
	if err != nil {
		return nil, nil, err
	}

	pieces := utils.SplitText(text, ing.chunkSize, ing.overlap)

	chunks := make([]rag.Chunk, 0, len(pieces))
	vectors := make([][]float32, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		res, err := ing.embedder.Generate(ctx, piece, embedding.TaskDocument)
		if err != nil {
			return nil, nil, rag.WrapTimeout(err, "embed chunk")
		}

		chunks = append(chunks, rag.Chunk{
			Id:          uuid.New().String(),
			Text:        piece,
			Facet:       file.Facet,
			Duration:    file.Duration,
			ContextTags: file.ContextTags,
			SourceDocId: file.DocId,
		})
		vectors = append(vectors, res.Embedding.Values)
	}

	return chunks, vectors, nil
}

// extractText parses the document body according to its declared format.
func extractText(file RawDocument) (string, error) {
	switch strings.ToLower(strings.TrimSpace(file.Format)) {
	case "text", "txt", "":
		return file.Content, nil
	case "markdown", "md":
		return stripMarkdown(file.Content), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, file.Format)
	}
}

// stripMarkdown removes the markers that would pollute embeddings; the plain
// wording is what carries the signal.
func stripMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, "#> ")
		trimmed = strings.ReplaceAll(trimmed, "**", "")
		trimmed = strings.ReplaceAll(trimmed, "`", "")
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}
