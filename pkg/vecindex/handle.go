package vecindex

import "sync/atomic"

// Handle is the process-wide reference to the current index. Ingestion builds
// a fresh Index and publishes it with Swap; request handlers take a Snapshot
// at request start and keep using it even if a rebuild lands mid-request. No
// reader ever observes a partially-built index.
type Handle struct {
	current atomic.Pointer[Index]
}

func NewHandle() *Handle {
	return &Handle{}
}

// Snapshot returns the currently published index, or nil when none has been
// built or loaded yet.
func (h *Handle) Snapshot() *Index {
	return h.current.Load()
}

// Swap atomically publishes a new index. The previous index is released to
// the garbage collector once in-flight readers drop their snapshots.
func (h *Handle) Swap(ix *Index) {
	h.current.Store(ix)
}

// Ready reports whether an index with at least one chunk is published.
func (h *Handle) Ready() bool {
	ix := h.current.Load()
	return ix != nil && ix.Len() > 0
}
