package vecindex

import (
	"encoding/json"
	"fmt"

	"ei-coach-be/pkg/blob"
	"ei-coach-be/pkg/rag"
)

// snapshotFile is the serialized index layout. Chunks and vectors are stored
// in insertion order so a loaded index reproduces identical query results,
// including tie-breaking.
type snapshotFile struct {
	Dim     int         `json:"dim"`
	Chunks  []rag.Chunk `json:"chunks"`
	Vectors [][]float32 `json:"vectors"`
}

// Persist writes the index state to the blob store under the given location,
// fully replacing any prior snapshot there.
func Persist(ix *Index, store blob.Store, location string) error {
	data, err := json.Marshal(snapshotFile{
		Dim:     ix.dim,
		Chunks:  ix.chunks,
		Vectors: ix.vectors,
	})
	if err != nil {
		return fmt.Errorf("encode index snapshot: %w", err)
	}
	if err := store.Write(location, data); err != nil {
		return fmt.Errorf("write index snapshot %q: %w", location, err)
	}
	return nil
}

// Load restores an index from the blob store. Returns (nil, nil) when no
// snapshot exists at the location; the caller starts with an unpublished
// index in that case.
func Load(store blob.Store, location string) (*Index, error) {
	exists, err := store.Exists(location)
	if err != nil {
		return nil, fmt.Errorf("probe index snapshot %q: %w", location, err)
	}
	if !exists {
		return nil, nil
	}

	data, err := store.Read(location)
	if err != nil {
		return nil, fmt.Errorf("read index snapshot %q: %w", location, err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode index snapshot %q: %w", location, err)
	}
	if len(file.Chunks) != len(file.Vectors) {
		return nil, fmt.Errorf("corrupt snapshot %q: %d chunks, %d vectors",
			location, len(file.Chunks), len(file.Vectors))
	}

	ix := New(file.Dim)
	if err := ix.Ingest(file.Chunks, file.Vectors); err != nil {
		return nil, fmt.Errorf("restore snapshot %q: %w", location, err)
	}
	return ix, nil
}
