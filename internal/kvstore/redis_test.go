package kvstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewRedisStore(newTestRedis(t), "session:")

	assert.True(t, s.Set(ctx, "user", fakeDoc{Name: "ana", Count: 1}))

	var got fakeDoc
	assert.True(t, s.Get(ctx, "user", &got))
	assert.Equal(t, "ana", got.Name)

	assert.True(t, s.Remove(ctx, "user"))
	assert.False(t, s.Get(ctx, "user", &got))
}

func TestRedisStoreClearOnlyTouchesPrefix(t *testing.T) {
	ctx := context.Background()
	rdb := newTestRedis(t)

	session := NewRedisStore(rdb, "session:")
	other := NewRedisStore(rdb, "other:")

	session.Set(ctx, "user", "u1")
	session.Set(ctx, "lastPlaylist", "p1")
	other.Set(ctx, "keep", "v")

	assert.True(t, session.Clear(ctx))

	var v string
	assert.False(t, session.Get(ctx, "user", &v))
	assert.False(t, session.Get(ctx, "lastPlaylist", &v))
	assert.True(t, other.Get(ctx, "keep", &v))
	assert.Equal(t, "v", v)
}

func TestRedisStoreUnavailableServer(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(rdb, "session:")
	mr.Close()

	// storage down: every call degrades to false, nothing panics
	assert.False(t, s.Set(ctx, "k", 1))
	var n int
	assert.False(t, s.Get(ctx, "k", &n))
	assert.False(t, s.Remove(ctx, "k"))
	assert.False(t, s.Clear(ctx))
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(rdb, "session:")

	require.NoError(t, mr.Set("session:user", "{not json"))

	var got fakeDoc
	assert.False(t, s.Get(ctx, "user", &got))
}
