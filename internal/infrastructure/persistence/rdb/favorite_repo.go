package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/sbooks/internal/domain/favorite"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository 创建收藏仓储
func NewFavoriteRepository(db *gorm.DB) favorite.Repository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, bookID uint) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&FavoriteModel{}).Where("user_id = ? AND book_id = ?", userID, bookID).Count(&n).Error
	if err != nil {
		return false, dbError(err, "查询收藏失败")
	}
	return n > 0, nil
}

// Insert 主键(user_id, book_id)冲突时返回ErrDuplicateEntry
func (r *favoriteRepository) Insert(ctx context.Context, f *favorite.Favorite) error {
	model := &FavoriteModel{UserID: f.UserID, BookID: f.BookID, CreatedAt: f.CreatedAt}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrDuplicateEntry
		}
		return dbError(err, "收藏失败")
	}
	return nil
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, bookID uint) (int64, error) {
	res := conn(ctx, r.db).Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&FavoriteModel{})
	if res.Error != nil {
		return 0, dbError(res.Error, "取消收藏失败")
	}
	return res.RowsAffected, nil
}

func (r *favoriteRepository) FavoritedAmong(ctx context.Context, userID uint, bookIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	var ids []uint
	err := conn(ctx, r.db).Model(&FavoriteModel{}).
		Where("user_id = ? AND book_id IN ?", userID, bookIDs).
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, dbError(err, "查询收藏状态失败")
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *favoriteRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&FavoriteModel{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, dbError(err, "统计收藏失败")
	}
	return n, nil
}
