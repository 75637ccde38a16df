// Package favorite 收藏
package favorite

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/sbooks/internal/domain/book"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// Favorite 用户收藏的图书，(UserID, BookID)唯一
type Favorite struct {
	UserID    uint
	BookID    uint
	CreatedAt time.Time
}

// Repository 收藏仓储
type Repository interface {
	Exists(ctx context.Context, userID, bookID uint) (bool, error)

	// Insert 违反唯一约束时返回errors.ErrDuplicateEntry
	Insert(ctx context.Context, f *Favorite) error

	// Delete 返回删除的行数
	Delete(ctx context.Context, userID, bookID uint) (int64, error)

	// FavoritedAmong 给定图书中被用户收藏的ID集合
	FavoritedAmong(ctx context.Context, userID uint, bookIDs []uint) (map[uint]bool, error)

	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// Service 收藏服务
type Service interface {
	// Toggle 已收藏则取消，未收藏则收藏，返回操作后的状态；图书不存在返回NotFound
	Toggle(ctx context.Context, userID, bookID uint) (bool, error)

	// Remove 取消收藏，不存在时不报错
	Remove(ctx context.Context, userID, bookID uint) error
}

type service struct {
	repo  Repository
	books book.Repository
	tx    shared.Transactor
}

// NewService 创建收藏服务
func NewService(repo Repository, books book.Repository, tx shared.Transactor) Service {
	return &service{repo: repo, books: books, tx: tx}
}

func (s *service) Toggle(ctx context.Context, userID, bookID uint) (bool, error) {
	var favorited bool
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.books.Exists(ctx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrBookNotFound
		}

		exists, err := s.repo.Exists(ctx, userID, bookID)
		if err != nil {
			return err
		}
		if exists {
			if _, err := s.repo.Delete(ctx, userID, bookID); err != nil {
				return err
			}
			favorited = false
			return nil
		}

		favorited = true
		return s.repo.Insert(ctx, &Favorite{UserID: userID, BookID: bookID, CreatedAt: time.Now()})
	})

	// 并发插入输了的一方：对方已经写入收藏，视为已收藏
	// 冲突错误会先让事务回滚，PostgreSQL下失败语句之后事务不可再用
	if errors.Is(err, apperrors.ErrDuplicateEntry) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return favorited, nil
}

func (s *service) Remove(ctx context.Context, userID, bookID uint) error {
	_, err := s.repo.Delete(ctx, userID, bookID)
	return err
}
