package embedding

import (
	"context"
	"sync"
	"time"

	"groupRecommender/pkg/logger"
	"groupRecommender/pkg/metrics"

	"golang.org/x/sync/singleflight"
)

// VectorStore is the shared second cache level, normally Redis.
type VectorStore interface {
	GetMany(ctx context.Context, model string, texts []string) ([][]float32, error)
	SetMany(ctx context.Context, model string, texts []string, vectors [][]float32, ttl time.Duration) error
}

// Cached memoizes a provider in process and, when a store is given, in a
// shared store. Store failures are logged and bypassed. Concurrent misses for
// the same text share one upstream call.
type Cached struct {
	next  Provider
	store VectorStore
	ttl   time.Duration

	mu     sync.RWMutex
	memory map[string][]float32
	group  singleflight.Group
}

// maxMemoryEntries bounds the in-process map; it is reset wholesale when full.
const maxMemoryEntries = 50000

func NewCached(next Provider, store VectorStore, ttl time.Duration) *Cached {
	return &Cached{
		next:   next,
		store:  store,
		ttl:    ttl,
		memory: make(map[string][]float32),
	}
}

func (c *Cached) Dimension() int {
	return c.next.Dimension()
}

func (c *Cached) ModelID() string {
	return c.next.ModelID()
}

func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	key := NormalizeText(text)
	if vec, ok := c.fromMemory(key); ok {
		return vec, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		vectors, err := c.fill(ctx, []string{key})
		if err != nil {
			return nil, err
		}
		return vectors[0], nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

// EmbedBatch resolves what it can from memory, then the store, and sends the
// rest upstream in a single batch.
func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var missing []string
	positions := map[string][]int{}
	for i, t := range texts {
		key := NormalizeText(t)
		if vec, ok := c.fromMemory(key); ok {
			out[i] = vec
			continue
		}
		if _, seen := positions[key]; !seen {
			missing = append(missing, key)
		}
		positions[key] = append(positions[key], i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vectors, err := c.fill(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, key := range missing {
		for _, i := range positions[key] {
			out[i] = vectors[j]
		}
	}

	return out, nil
}

// fill looks keys up in the store and embeds whatever is still missing.
func (c *Cached) fill(ctx context.Context, keys []string) ([][]float32, error) {
	model := c.next.ModelID()
	out := make([][]float32, len(keys))

	if c.store != nil {
		stored, err := c.store.GetMany(ctx, model, keys)
		if err != nil {
			logger.Warn("embedding store lookup failed", "error", err)
		} else {
			for i, vec := range stored {
				if vec != nil {
					out[i] = vec
					c.remember(keys[i], vec)
				}
			}
		}
	}

	var idx []int
	var texts []string
	for i, vec := range out {
		if vec == nil {
			idx = append(idx, i)
			texts = append(texts, keys[i])
		}
	}
	metrics.EmbeddingCacheLookups.WithLabelValues("store", "hit").Add(float64(len(keys) - len(texts)))
	metrics.EmbeddingCacheLookups.WithLabelValues("store", "miss").Add(float64(len(texts)))
	if len(texts) == 0 {
		return out, nil
	}

	vectors, err := c.next.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	for j, i := range idx {
		out[i] = vectors[j]
		c.remember(keys[i], vectors[j])
	}

	if c.store != nil {
		if err := c.store.SetMany(ctx, model, texts, vectors, c.ttl); err != nil {
			logger.Warn("embedding store write failed", "error", err, "count", len(texts))
		}
	}

	return out, nil
}

func (c *Cached) fromMemory(key string) ([]float32, bool) {
	c.mu.RLock()
	vec, ok := c.memory[key]
	c.mu.RUnlock()

	result := "miss"
	if ok {
		result = "hit"
	}
	metrics.EmbeddingCacheLookups.WithLabelValues("memory", result).Inc()
	return vec, ok
}

func (c *Cached) remember(key string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.memory) >= maxMemoryEntries {
		c.memory = make(map[string][]float32)
	}
	c.memory[key] = vec
}
