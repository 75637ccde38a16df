// Package author 作者领域
package author

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/sbooks/internal/domain/shared"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// Author 作者
type Author struct {
	ID        uint
	Name      string
	Bio       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WithBookCount 作者及其图书数量（作者列表使用）
type WithBookCount struct {
	Author
	BookCount int64
}

// BookRef 图书引用
type BookRef struct {
	ID        uint
	Title     string
	Favorites int64
}

// Stats 作者统计
type Stats struct {
	TotalBooks     int64
	TotalViews     int64
	TotalFavorites int64
	TotalReviews   int64   // 顶层评论数
	AverageRating  float64 // 该作者所有图书顶层评分的平均值，无评分为0
	TopGenres      []string
	MostFavorited  *BookRef
}

// Repository 作者仓储，不存在时返回errors.ErrAuthorNotFound
type Repository interface {
	Create(ctx context.Context, a *Author) error
	FindByID(ctx context.Context, id uint) (*Author, error)
	Update(ctx context.Context, a *Author) error
	Delete(ctx context.Context, id uint) error

	// ListWithBooks 至少有一本书的作者，按名称升序
	ListWithBooks(ctx context.Context) ([]WithBookCount, error)

	CountBooks(ctx context.Context, id uint) (int64, error)

	Stats(ctx context.Context, id uint) (*Stats, error)
}

// Service 作者领域服务
type Service interface {
	Create(ctx context.Context, name, bio string) (*Author, error)
	Update(ctx context.Context, id uint, name, bio string) (*Author, error)
	// Delete 作者名下有图书时返回ErrDependencyExists
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*Author, error)
	ListWithBooks(ctx context.Context) ([]WithBookCount, error)
	Stats(ctx context.Context, id uint) (*Stats, error)
}

type service struct {
	repo Repository
	tx   shared.Transactor
}

// NewService 创建作者服务
func NewService(repo Repository, tx shared.Transactor) Service {
	return &service{repo: repo, tx: tx}
}

func (s *service) Create(ctx context.Context, name, bio string) (*Author, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	a := &Author{Name: name, Bio: strings.TrimSpace(bio), CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Update(ctx context.Context, id uint, name, bio string) (*Author, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Name = name
	a.Bio = strings.TrimSpace(bio)
	a.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return err
		}
		n, err := s.repo.CountBooks(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.ErrDependencyExists
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *service) Get(ctx context.Context, id uint) (*Author, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListWithBooks(ctx context.Context) ([]WithBookCount, error) {
	return s.repo.ListWithBooks(ctx)
}

func (s *service) Stats(ctx context.Context, id uint) (*Stats, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, id)
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.Invalid("作者名称不能为空")
	}
	if len([]rune(name)) > 100 {
		return "", apperrors.Invalid("作者名称不能超过100个字符")
	}
	return name, nil
}
