package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/sbooks/internal/domain/book"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// bookRepository 图书仓储实现
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return dbError(err, "创建图书失败")
	}
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, dbError(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 更新图书信息，浏览次数和创建人不随之修改
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	err := conn(ctx, r.db).Model(&BookModel{}).Where("id = ?", b.ID).Updates(map[string]any{
		"title":          b.Title,
		"description":    b.Description,
		"published_year": b.PublishedYear,
		"genre":          b.Genre,
		"price":          b.Price,
		"image_url":      b.ImageURL,
		"author_id":      b.AuthorID,
		"publisher_id":   b.PublisherID,
		"updated_at":     b.UpdatedAt,
	}).Error
	if err != nil {
		return dbError(err, "更新图书失败")
	}
	return nil
}

// Delete 删除图书及其评论、投票、收藏
// 必须由调用方在事务中调用，中途失败时整体回滚
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	db := conn(ctx, r.db)

	reviewIDs := db.Model(&ReviewModel{}).Select("id").Where("book_id = ?", id)
	if err := db.Where("review_id IN (?)", reviewIDs).Delete(&ReviewVoteModel{}).Error; err != nil {
		return dbError(err, "删除图书评论投票失败")
	}
	if err := db.Where("book_id = ?", id).Delete(&ReviewModel{}).Error; err != nil {
		return dbError(err, "删除图书评论失败")
	}
	if err := db.Where("book_id = ?", id).Delete(&FavoriteModel{}).Error; err != nil {
		return dbError(err, "删除图书收藏失败")
	}

	res := db.Delete(&BookModel{}, id)
	if res.Error != nil {
		return dbError(res.Error, "删除图书失败")
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&BookModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, dbError(err, "查询图书失败")
	}
	return n > 0, nil
}

// IncrementViewCount UPDATE books SET view_count = view_count + 1 WHERE id = ?
// 不修改updated_at
func (r *bookRepository) IncrementViewCount(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Model(&BookModel{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return dbError(res.Error, "更新浏览次数失败")
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrBookNotFound
	}
	return nil
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
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
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Description:   model.Description,
		PublishedYear: model.PublishedYear,
		Genre:         model.Genre,
		Price:         model.Price,
		ViewCount:     model.ViewCount,
		ImageURL:      model.ImageURL,
		AuthorID:      model.AuthorID,
		PublisherID:   model.PublisherID,
		CreatedBy:     model.CreatedBy,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
