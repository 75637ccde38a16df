package catalog

import (
	"context"
	"time"

	"github.com/xiebiao/sbooks/internal/domain/shared"
)

// Repository 检索查询（只读）
type Repository interface {
	// Search 先计数再排序分页，Total为分页前的匹配数
	Search(ctx context.Context, f Filter) ([]BookCard, int64, error)

	// Card 单本图书的列表行，不存在返回errors.ErrBookNotFound
	Card(ctx context.Context, id uint) (*BookCard, error)

	// Cards 按ids顺序返回列表行，已删除的图书跳过
	Cards(ctx context.Context, ids []uint) ([]BookCard, error)

	// Suggest 书名或作者名匹配，按浏览量降序
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)

	// TopFavorites 至少被收藏一次的图书，按收藏数、浏览量降序
	TopFavorites(ctx context.Context, limit int) ([]BookCard, error)

	// Genres 去重后的分类，按字母序
	Genres(ctx context.Context) ([]string, error)

	// Related 同作者或同分类的其他图书，按浏览量降序
	Related(ctx context.Context, bookID uint, authorID *uint, genre string, limit int) ([]BookCard, error)

	// ByAuthor 作者的图书，最新在前
	ByAuthor(ctx context.Context, authorID uint, page shared.Page) ([]BookCard, int64, error)

	// FavoritesOf 用户收藏的图书，最近收藏在前
	FavoritesOf(ctx context.Context, userID uint, page shared.Page) ([]BookCard, int64, error)
}

// FavoriteLookup 批量判断收藏状态
type FavoriteLookup interface {
	FavoritedAmong(ctx context.Context, userID uint, bookIDs []uint) (map[uint]bool, error)
}

// Cache 检索结果缓存，未命中返回ok=false
// 收藏排行只缓存排好序的图书ID，评分、评论数等聚合字段每次读取时重新计算
type Cache interface {
	Genres(ctx context.Context) (genres []string, ok bool, err error)
	SetGenres(ctx context.Context, genres []string, ttl time.Duration) error
	TopFavorites(ctx context.Context, limit int) (ids []uint, ok bool, err error)
	SetTopFavorites(ctx context.Context, limit int, ids []uint, ttl time.Duration) error
	// Invalidate 图书或收藏变化后清除全部检索缓存
	Invalidate(ctx context.Context) error
}

// NopCache 不缓存
type NopCache struct{}

func (NopCache) Genres(context.Context) ([]string, bool, error) { return nil, false, nil }

func (NopCache) SetGenres(context.Context, []string, time.Duration) error { return nil }

func (NopCache) TopFavorites(context.Context, int) ([]uint, bool, error) { return nil, false, nil }

func (NopCache) SetTopFavorites(context.Context, int, []uint, time.Duration) error { return nil }

func (NopCache) Invalidate(context.Context) error { return nil }
