package credential

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedisSource(t *testing.T) (*RedisSource, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Skipf("miniredis unavailable: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSource(client, ""), mr
}

func TestRedisSourceRoundTrip(t *testing.T) {
	src, mr := newTestRedisSource(t)
	ctx := context.Background()

	loaded, err := src.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)

	require.NoError(t, src.Save(ctx, Credential{AccessToken: "A1", RefreshToken: "R1"}))
	require.True(t, mr.Exists(DefaultRedisKey))
	require.Zero(t, mr.TTL(DefaultRedisKey))

	loaded, err = src.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "A1", loaded.AccessToken)

	require.NoError(t, src.Clear(ctx))
	require.False(t, mr.Exists(DefaultRedisKey))
}

func TestRedisSourceTTLWithoutRefreshToken(t *testing.T) {
	src, mr := newTestRedisSource(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	src.now = fixedClock(now)
	ctx := context.Background()

	require.NoError(t, src.Save(ctx, Credential{AccessToken: "A1", ExpiresAt: now.Add(time.Minute)}))
	require.Equal(t, time.Minute, mr.TTL(DefaultRedisKey))

	mr.FastForward(2 * time.Minute)
	loaded, err := src.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)

	// already expired credentials are not written
	require.NoError(t, src.Save(ctx, Credential{AccessToken: "A0", ExpiresAt: now.Add(-time.Second)}))
	require.False(t, mr.Exists(DefaultRedisKey))
}

func TestStoreWithRedisSource(t *testing.T) {
	src, _ := newTestRedisSource(t)
	s := NewStore(WithSource(src))
	s.Set("A1", "R1", time.Hour)

	again := NewStore(WithSource(src))
	require.NoError(t, again.Restore(context.Background()))
	require.Equal(t, "A1", again.AccessToken())
	require.Equal(t, "redis:"+DefaultRedisKey, again.SourceName())
}
