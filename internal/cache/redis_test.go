package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable points at a closed port so every command fails fast.
func unreachable(prefix string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewRedisWithClient(client, prefix)
}

func TestRedis_Key(t *testing.T) {
	c := unreachable("caixa:")
	assert.Equal(t, "caixa:report:1", c.key("report:1"))
}

func TestRedis_Unavailable(t *testing.T) {
	ctx := context.Background()
	c := unreachable("caixa:")
	defer c.client.Close()

	t.Run("Get", func(t *testing.T) {
		var dst map[string]int
		hit, err := c.Get(ctx, "report:1", &dst)
		assert.False(t, hit)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache get report:1")
	})

	t.Run("Set", func(t *testing.T) {
		err := c.Set(ctx, "report:1", map[string]int{"a": 1}, time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache set report:1")
	})

	t.Run("Set encode failure", func(t *testing.T) {
		err := c.Set(ctx, "report:1", make(chan int), time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache encode")
	})

	t.Run("Delete", func(t *testing.T) {
		assert.Error(t, c.Delete(ctx, "report:1"))
		assert.NoError(t, c.Delete(ctx))
	})

	t.Run("Borrowed client is not closed", func(t *testing.T) {
		assert.NoError(t, c.Close())
	})
}

func TestNewRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	c, err := NewRedis(ctx, Config{Addr: "127.0.0.1:1"})
	assert.Nil(t, c)
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var n Noop

	require.NoError(t, n.Set(ctx, "k", 1, time.Minute))
	var dst int
	hit, err := n.Get(ctx, "k", &dst)
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, n.Delete(ctx, "k"))
}
