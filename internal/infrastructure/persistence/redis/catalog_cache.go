package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/sbooks/internal/domain/catalog"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
	"github.com/xiebiao/sbooks/pkg/metrics"
)

const catalogPrefix = keyPrefix + "catalog:"

// CatalogCache 图书分类、收藏排行缓存（JSON）
//   - sbooks:catalog:genres
//   - sbooks:catalog:top_favorites:{limit}
type CatalogCache struct {
	client *redis.Client
}

var _ catalog.Cache = (*CatalogCache)(nil)

// NewCatalogCache 创建检索缓存
func NewCatalogCache(client *redis.Client) *CatalogCache {
	return &CatalogCache{client: client}
}

func genresKey() string {
	return catalogPrefix + "genres"
}

func topFavoritesKey(limit int) string {
	return catalogPrefix + "top_favorites:" + strconv.Itoa(limit)
}

func (c *CatalogCache) Genres(ctx context.Context) ([]string, bool, error) {
	var genres []string
	ok, err := c.get(ctx, "genres", genresKey(), &genres)
	return genres, ok, err
}

func (c *CatalogCache) SetGenres(ctx context.Context, genres []string, ttl time.Duration) error {
	return c.set(ctx, genresKey(), genres, ttl)
}

// TopFavorites 缓存值为排好序的图书ID
func (c *CatalogCache) TopFavorites(ctx context.Context, limit int) ([]uint, bool, error) {
	var ids []uint
	ok, err := c.get(ctx, "top_favorites", topFavoritesKey(limit), &ids)
	return ids, ok, err
}

func (c *CatalogCache) SetTopFavorites(ctx context.Context, limit int, ids []uint, ttl time.Duration) error {
	return c.set(ctx, topFavoritesKey(limit), ids, ttl)
}

// Invalidate SCAN出所有检索缓存key后UNLINK，不使用KEYS避免阻塞
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, catalogPrefix+"*", 100).Result()
		if err != nil {
			return apperrors.WithCode(apperrors.ErrCodeRedisError, "扫描缓存失败", err)
		}
		if len(keys) > 0 {
			if err := c.client.Unlink(ctx, keys...).Err(); err != nil {
				return apperrors.WithCode(apperrors.ErrCodeRedisError, "清除缓存失败", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (c *CatalogCache) get(ctx context.Context, name, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"cache": name, "result": "miss"})
		return false, nil
	case err != nil:
		metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"cache": name, "result": "error"})
		return false, apperrors.WithCode(apperrors.ErrCodeRedisError, "读取缓存失败", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// 格式不兼容的旧数据按未命中处理，随后会被覆盖
		metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"cache": name, "result": "miss"})
		return false, nil
	}
	metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"cache": name, "result": "hit"})
	return true, nil
}

func (c *CatalogCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(err, "序列化缓存失败")
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, "写入缓存失败", err)
	}
	return nil
}
