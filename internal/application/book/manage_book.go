package book

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appaudit "github.com/xiebiao/sbooks/internal/application/audit"
	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/book"
	"github.com/xiebiao/sbooks/internal/domain/catalog"
	"github.com/xiebiao/sbooks/internal/domain/identity"
)

// ManageBookUseCase 管理员图书维护（新增、修改、删除）
// 1. 每个操作先校验Admin角色
// 2. 写入成功后清除分类、热门收藏缓存，清除失败只记日志
// 3. 记录ADMIN活动
type ManageBookUseCase struct {
	bookService book.Service
	cache       catalog.Cache
	recorder    *appaudit.Recorder
	logger      *zap.Logger
}

// NewManageBookUseCase 创建图书维护用例
func NewManageBookUseCase(bookService book.Service, cache catalog.Cache, recorder *appaudit.Recorder, logger *zap.Logger) *ManageBookUseCase {
	return &ManageBookUseCase{
		bookService: bookService,
		cache:       cache,
		recorder:    recorder,
		logger:      logger,
	}
}

// BookRequest 新增/修改图书请求
type BookRequest struct {
	Title         string
	Description   string
	PublishedYear int
	Genre         string
	Price         int64 // 价格(分)
	ImageURL      string
	AuthorID      *uint
	PublisherID   *uint
}

func (r BookRequest) input() book.Input {
	return book.Input{
		Title:         r.Title,
		Description:   r.Description,
		PublishedYear: r.PublishedYear,
		Genre:         r.Genre,
		Price:         r.Price,
		ImageURL:      r.ImageURL,
		AuthorID:      r.AuthorID,
		PublisherID:   r.PublisherID,
	}
}

// BookInfo 图书DTO
type BookInfo struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	PublishedYear int    `json:"published_year"`
	Genre         string `json:"genre"`
	Price         int64  `json:"price"` // 价格(分)
	ViewCount     int64  `json:"view_count"`
	ImageURL      string `json:"image_url"`
	AuthorID      *uint  `json:"author_id,omitempty"`
	PublisherID   *uint  `json:"publisher_id,omitempty"`
	CreatedBy     *uint  `json:"created_by,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// NewBookInfo 领域实体 → DTO
func NewBookInfo(b *book.Book) *BookInfo {
	return &BookInfo{
		ID:            b.ID,
		Title:         b.Title,
		Description:   b.Description,
		PublishedYear: b.PublishedYear,
		Genre:         b.Genre,
		Price:         b.Price,
		ViewCount:     b.ViewCount,
		ImageURL:      b.ImageURL,
		AuthorID:      b.AuthorID,
		PublisherID:   b.PublisherID,
		CreatedBy:     b.CreatedBy,
		CreatedAt:     b.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Create 新增图书，CreatedBy为当前管理员
func (uc *ManageBookUseCase) Create(ctx context.Context, actor *identity.Principal, req BookRequest) (*BookInfo, error) {
	if err := identity.RequireRole(actor, identity.RoleAdmin); err != nil {
		return nil, err
	}
	b, err := uc.bookService.Create(ctx, req.input(), actor.UserID)
	if err != nil {
		return nil, err
	}
	uc.afterWrite(ctx, actor, fmt.Sprintf("create book %d", b.ID))
	return NewBookInfo(b), nil
}

// Update 修改图书
func (uc *ManageBookUseCase) Update(ctx context.Context, actor *identity.Principal, id uint, req BookRequest) (*BookInfo, error) {
	if err := identity.RequireRole(actor, identity.RoleAdmin); err != nil {
		return nil, err
	}
	b, err := uc.bookService.Update(ctx, id, req.input())
	if err != nil {
		return nil, err
	}
	uc.afterWrite(ctx, actor, fmt.Sprintf("update book %d", id))
	return NewBookInfo(b), nil
}

// Delete 删除图书，评论、投票、收藏在同一事务中删除
func (uc *ManageBookUseCase) Delete(ctx context.Context, actor *identity.Principal, id uint) error {
	if err := identity.RequireRole(actor, identity.RoleAdmin); err != nil {
		return err
	}
	if err := uc.bookService.Delete(ctx, id); err != nil {
		return err
	}
	uc.afterWrite(ctx, actor, fmt.Sprintf("delete book %d", id))
	return nil
}

func (uc *ManageBookUseCase) afterWrite(ctx context.Context, actor *identity.Principal, detail string) {
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("清除目录缓存失败", zap.String("op", detail), zap.Error(err))
	}
	uc.recorder.Activity(ctx, actor.UserID, audit.ActivityAdmin, detail)
}
