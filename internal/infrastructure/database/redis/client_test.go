package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/errors"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient(config.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestNewClient_ConnectionFailed(t *testing.T) {
	c, err := NewClient(config.RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond}, logging.NewNopLogger())
	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheError))
}

func TestClient_Operations(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.SetBytes(ctx, "a:1", []byte("one"), time.Minute))
	require.NoError(t, c.SetBytes(ctx, "a:2", []byte("two"), time.Minute))
	require.NoError(t, c.SetBytes(ctx, "b:1", []byte("three"), 0))

	v, err := c.GetBytes(ctx, "a:1")
	require.NoError(t, err)
	assert.Equal(t, "one", string(v))
	assert.Equal(t, time.Minute, mr.TTL("a:1"))

	n, err := c.DeleteByPrefix(ctx, "a:")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.False(t, mr.Exists("a:2"))
	assert.True(t, mr.Exists("b:1"))

	require.NoError(t, c.Del(ctx, "b:1"))
	assert.False(t, mr.Exists("b:1"))
}

func TestClient_Closed(t *testing.T) {
	c, _ := newTestClient(t)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.GetBytes(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClientClosed)
	assert.ErrorIs(t, c.Ping(context.Background()), ErrClientClosed)
}
