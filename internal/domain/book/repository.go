package book

import (
	"context"
)

// Repository 图书仓储接口，不存在时返回errors.ErrBookNotFound
type Repository interface {
	Create(ctx context.Context, book *Book) error

	FindByID(ctx context.Context, id uint) (*Book, error)

	Update(ctx context.Context, book *Book) error

	// Delete 删除图书及其评论、投票、收藏（调用方负责开启事务）
	Delete(ctx context.Context, id uint) error

	// Exists 图书是否存在
	Exists(ctx context.Context, id uint) (bool, error)

	// IncrementViewCount 原子递增浏览次数
	IncrementViewCount(ctx context.Context, id uint) error
}
