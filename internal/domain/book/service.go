package book

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/sbooks/internal/domain/author"
	"github.com/xiebiao/sbooks/internal/domain/publisher"
	"github.com/xiebiao/sbooks/internal/domain/shared"
)

// Service 图书领域服务（管理端维护图书）
type Service interface {
	// Create 创建图书，引用的作者/出版社不存在时返回NotFound
	Create(ctx context.Context, in Input, createdBy uint) (*Book, error)

	Update(ctx context.Context, id uint, in Input) (*Book, error)

	// Delete 在一个事务内删除图书及其评论、投票、收藏
	Delete(ctx context.Context, id uint) error

	Get(ctx context.Context, id uint) (*Book, error)

	// RecordView 浏览次数+1
	RecordView(ctx context.Context, id uint) error
}

type service struct {
	repo       Repository
	authors    author.Repository
	publishers publisher.Repository
	tx         shared.Transactor
}

// NewService 创建图书领域服务
func NewService(repo Repository, authors author.Repository, publishers publisher.Repository, tx shared.Transactor) Service {
	return &service{repo: repo, authors: authors, publishers: publishers, tx: tx}
}

func (s *service) Create(ctx context.Context, in Input, createdBy uint) (*Book, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}
	b := NewBook(in, createdBy)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, id uint, in Input) (*Book, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}
	b.Apply(in)
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

func (s *service) Get(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) RecordView(ctx context.Context, id uint) error {
	return s.repo.IncrementViewCount(ctx, id)
}

func (s *service) checkRefs(ctx context.Context, in Input) error {
	if in.AuthorID != nil {
		if _, err := s.authors.FindByID(ctx, *in.AuthorID); err != nil {
			return err
		}
	}
	if in.PublisherID != nil {
		if _, err := s.publishers.FindByID(ctx, *in.PublisherID); err != nil {
			return err
		}
	}
	return nil
}

// normalize 校验并清理输入
func normalize(in Input) (Input, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Genre = strings.TrimSpace(in.Genre)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	if in.Title == "" {
		return in, ErrEmptyTitle
	}
	if len([]rune(in.Title)) > 200 {
		return in, ErrTitleTooLong
	}
	if in.Price < 0 {
		return in, ErrInvalidPrice
	}
	if in.PublishedYear < 0 || in.PublishedYear > time.Now().Year()+1 {
		return in, ErrInvalidYear
	}
	return in, nil
}
