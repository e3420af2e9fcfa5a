package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*VectorRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewVectorRepository(client), mr
}

func TestVectorKey(t *testing.T) {
	k := VectorKey("mini", "hiking")
	assert.Equal(t, k, VectorKey("mini", "hiking"))
	assert.NotEqual(t, k, VectorKey("other", "hiking"))
	assert.NotEqual(t, k, VectorKey("mini", "Hiking"))
	assert.Contains(t, k, "embedding:mini:")
	assert.NotContains(t, k, "hiking")
}

func TestVectorRoundTrip(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "mini", "hiking", []float32{0.5, -0.25, 1}, time.Hour))

	got, err := repo.Get(ctx, "mini", "hiking")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.25, 1}, got)
	assert.Equal(t, time.Hour, mr.TTL(VectorKey("mini", "hiking")))

	missing, err := repo.Get(ctx, "mini", "chess")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestVectorGetMany(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetMany(ctx, "mini", []string{"a", "c"}, [][]float32{{1}, {3}}, 0))
	require.NoError(t, mr.Set(VectorKey("mini", "d"), "not json"))

	got, err := repo.GetMany(ctx, "mini", []string{"a", "b", "c", "d"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, nil, {3}, nil}, got)

	empty, err := repo.GetMany(ctx, "mini", nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestVectorSetManyLengthMismatch(t *testing.T) {
	repo, _ := newTestRepo(t)
	err := repo.SetMany(context.Background(), "mini", []string{"a"}, nil, 0)
	assert.Error(t, err)
}

func TestVectorDelete(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "mini", "a", []float32{1}, 0))
	require.NoError(t, repo.Delete(ctx, "mini", "a"))
	assert.False(t, mr.Exists(VectorKey("mini", "a")))
}

func TestVectorRedisDown(t *testing.T) {
	repo, mr := newTestRepo(t)
	mr.Close()

	_, err := repo.Get(context.Background(), "mini", "a")
	assert.Error(t, err)
	_, err = repo.GetMany(context.Background(), "mini", []string{"a"})
	assert.Error(t, err)
}
