package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// VectorRepository caches embedding vectors keyed by model and text.
type VectorRepository struct {
	client *redis.Client
}

func NewVectorRepository(client *redis.Client) *VectorRepository {
	return &VectorRepository{
		client: client,
	}
}

// VectorKey is "embedding:{model}:{sha256(text)}" so arbitrary text never
// leaks into key names.
func VectorKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("embedding:%s:%s", model, hex.EncodeToString(sum[:]))
}

func (r *VectorRepository) Get(ctx context.Context, model, text string) ([]float32, error) {
	val, err := r.client.Get(ctx, VectorKey(model, text)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vector from Redis: %w", err)
	}

	var vec []float32
	if err := json.Unmarshal(val, &vec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vector: %w", err)
	}

	return vec, nil
}

// GetMany returns one entry per text, nil where the cache has nothing usable.
func (r *VectorRepository) GetMany(ctx context.Context, model string, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = VectorKey(model, t)
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get vectors from Redis: %w", err)
	}

	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var vec []float32
		if err := json.Unmarshal([]byte(s), &vec); err != nil || len(vec) == 0 {
			continue
		}
		out[i] = vec
	}

	return out, nil
}

func (r *VectorRepository) Set(ctx context.Context, model, text string, vec []float32, ttl time.Duration) error {
	return r.SetMany(ctx, model, []string{text}, [][]float32{vec}, ttl)
}

// SetMany writes all vectors in one pipeline.
func (r *VectorRepository) SetMany(ctx context.Context, model string, texts []string, vectors [][]float32, ttl time.Duration) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("got %d vectors for %d texts", len(vectors), len(texts))
	}
	if len(texts) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for i, t := range texts {
		data, err := json.Marshal(vectors[i])
		if err != nil {
			return fmt.Errorf("failed to marshal vector: %w", err)
		}
		pipe.Set(ctx, VectorKey(model, t), data, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store vectors in Redis: %w", err)
	}

	return nil
}

// Delete drops a cached vector, used when a group description changes.
func (r *VectorRepository) Delete(ctx context.Context, model, text string) error {
	if err := r.client.Del(ctx, VectorKey(model, text)).Err(); err != nil {
		return fmt.Errorf("failed to delete vector: %w", err)
	}
	return nil
}
