package redis

import (
	"testing"

	"groupRecommender/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &config.Config{Redis: config.RedisConfig{
		RedisHost: mr.Host(),
		RedisPort: mr.Port(),
	}}

	client, err := NewRedisClient(cfg)
	require.NoError(t, err)
	assert.NoError(t, CloseRedisClient(client))
}

func TestNewRedisClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	cfg := &config.Config{Redis: config.RedisConfig{RedisHost: host, RedisPort: port}}

	_, err := NewRedisClient(cfg)
	assert.Error(t, err)
}

func TestCloseNilClient(t *testing.T) {
	assert.NoError(t, CloseRedisClient(nil))
}
