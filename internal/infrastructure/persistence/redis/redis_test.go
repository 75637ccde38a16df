package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "sbooks:session:42", sessionKey(42))
	assert.Equal(t, "sbooks:catalog:genres", genresKey())
	assert.Equal(t, "sbooks:catalog:top_favorites:10", topFavoritesKey(10))

	k := blacklistKey("header.payload.signature")
	assert.Len(t, k, len("sbooks:blacklist:")+64, "token取sha256摘要")
	assert.Equal(t, k, blacklistKey("header.payload.signature"))
	assert.NotEqual(t, k, blacklistKey("other"))
}

// newTestClient 需要真实的Redis，设置SBOOKS_TEST_REDIS_ADDR后运行（如localhost:6379）
// 测试使用15号库并在开始前清空
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("SBOOKS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("未设置SBOOKS_TEST_REDIS_ADDR，跳过Redis测试")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSessionStore(t *testing.T) {
	client := newTestClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	loginAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSession(ctx, 7, Session{Username: "alice", ClientIP: "10.0.0.1", LoginAt: loginAt}, time.Minute))

	t.Run("读取会话", func(t *testing.T) {
		sess, err := store.GetSession(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "alice", sess.Username)
		assert.True(t, loginAt.Equal(sess.LoginAt))

		ttl := client.TTL(ctx, sessionKey(7)).Val()
		assert.Greater(t, ttl, time.Duration(0), "会话应设置过期时间")
	})

	t.Run("删除后读取返回未登录", func(t *testing.T) {
		require.NoError(t, store.DeleteSession(ctx, 7))
		_, err := store.GetSession(ctx, 7)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("黑名单", func(t *testing.T) {
		revoked, err := store.IsRevoked(ctx, "token-a")
		require.NoError(t, err)
		assert.False(t, revoked)

		require.NoError(t, store.Revoke(ctx, "token-a", time.Minute))
		revoked, err = store.IsRevoked(ctx, "token-a")
		require.NoError(t, err)
		assert.True(t, revoked)
	})
}

func TestCatalogCache(t *testing.T) {
	client := newTestClient(t)
	cache := NewCatalogCache(client)
	ctx := context.Background()

	_, ok, err := cache.Genres(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "初始未命中")

	require.NoError(t, cache.SetGenres(ctx, []string{"Fantasy", "Sci-Fi"}, time.Minute))
	genres, ok, err := cache.Genres(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Fantasy", "Sci-Fi"}, genres)

	require.NoError(t, cache.SetTopFavorites(ctx, 10, []uint{3, 1, 2}, time.Minute))
	got, ok, err := cache.TopFavorites(ctx, 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []uint{3, 1, 2}, got, "保持排行顺序")

	_, ok, err = cache.TopFavorites(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok, "不同limit是不同的key")

	t.Run("Invalidate清除全部检索缓存，不影响其他key", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "sbooks:session:1", "x", time.Minute).Err())
		require.NoError(t, cache.Invalidate(ctx))

		_, ok, _ := cache.Genres(ctx)
		assert.False(t, ok)
		_, ok, _ = cache.TopFavorites(ctx, 10)
		assert.False(t, ok)
		assert.Equal(t, int64(1), client.Exists(ctx, "sbooks:session:1").Val())
	})
}
