// Package publisher 出版社领域
package publisher

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/sbooks/internal/domain/shared"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// Publisher 出版社
type Publisher struct {
	ID        uint
	Name      string
	Website   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository 出版社仓储，不存在时返回errors.ErrPublisherNotFound
type Repository interface {
	Create(ctx context.Context, p *Publisher) error
	FindByID(ctx context.Context, id uint) (*Publisher, error)
	Update(ctx context.Context, p *Publisher) error
	Delete(ctx context.Context, id uint) error
	// List 按名称升序
	List(ctx context.Context) ([]*Publisher, error)
	CountBooks(ctx context.Context, id uint) (int64, error)
}

// Service 出版社领域服务
type Service interface {
	Create(ctx context.Context, name, website string) (*Publisher, error)
	Update(ctx context.Context, id uint, name, website string) (*Publisher, error)
	// Delete 出版社名下有图书时返回ErrDependencyExists
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*Publisher, error)
}

type service struct {
	repo Repository
	tx   shared.Transactor
}

// NewService 创建出版社服务
func NewService(repo Repository, tx shared.Transactor) Service {
	return &service{repo: repo, tx: tx}
}

func (s *service) Create(ctx context.Context, name, website string) (*Publisher, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Invalid("出版社名称不能为空")
	}
	now := time.Now()
	p := &Publisher{Name: name, Website: strings.TrimSpace(website), CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id uint, name, website string) (*Publisher, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Invalid("出版社名称不能为空")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.Website = strings.TrimSpace(website)
	p.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
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

func (s *service) List(ctx context.Context) ([]*Publisher, error) {
	return s.repo.List(ctx)
}
