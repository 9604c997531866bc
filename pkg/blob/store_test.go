package blob

import (
	"errors"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Read("index/snapshot.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read missing = %v, want ErrNotFound", err)
	}
	exists, err := store.Exists("index/snapshot.json")
	if err != nil || exists {
		t.Fatalf("Exists missing = %v, %v", exists, err)
	}

	payload := []byte(`{"dim":2}`)
	if err := store.Write("index/snapshot.json", payload); err != nil {
		t.Fatal(err)
	}

	got, err := store.Read("index/snapshot.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Errorf("Read = %q, want %q", got, payload)
	}

	// Overwrite replaces fully.
	if err := store.Write("index/snapshot.json", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	got, _ = store.Read("index/snapshot.json")
	if string(got) != "v2" {
		t.Errorf("overwrite failed, got %q", got)
	}
}

func TestFSStorePathTraversalConfined(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Write("../escape.json", []byte("x")); err != nil {
		t.Fatal(err)
	}
	// The cleaned location must resolve inside the base directory.
	exists, err := store.Exists("escape.json")
	if err != nil || !exists {
		t.Errorf("traversal location not confined to base dir: %v, %v", exists, err)
	}
}

func TestMemStoreIsolation(t *testing.T) {
	store := NewMemStore()
	original := []byte("data")
	if err := store.Write("k", original); err != nil {
		t.Fatal(err)
	}
	original[0] = 'X'

	got, err := store.Read("k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "data" {
		t.Errorf("stored blob aliased caller's slice: %q", got)
	}
}
