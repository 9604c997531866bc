package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"

	"ei-coach-be/pkg/embedding"
)

// CachedEmbedder memoizes query embeddings. Composed queries repeat heavily
// (few facets times few durations), so a short-lived cache removes most
// round-trips to the embedding provider. Document embeddings are not cached;
// ingestion is rare and each document is seen once.
type CachedEmbedder struct {
	inner embedding.EmbeddingProvider
	cache *cache.Cache
}

func NewCachedEmbedder(inner embedding.EmbeddingProvider, ttl time.Duration) *CachedEmbedder {
	c := cache.New(ttl, 10*time.Minute)
	return &CachedEmbedder{
		inner: inner,
		cache: c,
	}
}

func (e *CachedEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if taskType != embedding.TaskQuery {
		return e.inner.Generate(ctx, text, taskType)
	}

	key := cacheKey(text)
	if x, found := e.cache.Get(key); found {
		return x.(*embedding.EmbeddingResponse), nil
	}

	res, err := e.inner.Generate(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	e.cache.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
