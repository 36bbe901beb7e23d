package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-gateway/pkg/kvstore"
)

func setupMiniredis(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, New(client, Config{Prefix: "test:", TTL: ttl})
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, s := setupMiniredis(t, time.Minute)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	assert.True(t, mr.Exists("test:k"), "keys must carry the prefix")
	assert.Equal(t, time.Minute, mr.TTL("test:k"))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	existed, err := s.Delete(ctx, "k")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.Delete(ctx, "k")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestStore_ReplaceAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr, s := setupMiniredis(t, time.Minute)

	ok, err := s.Replace(ctx, "ghost", []byte("x"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("test:ghost"))

	require.NoError(t, s.Set(ctx, "k", []byte("v1")))
	mr.FastForward(50 * time.Second)

	ok, err = s.Replace(ctx, "k", []byte("v2"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("test:k"), "replace refreshes the ttl")

	mr.FastForward(2 * time.Minute)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := Connect(context.Background(), ConnConfig{Addr: addr})
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = Connect(context.Background(), ConnConfig{Addr: addr})
	assert.Error(t, err)
}
