package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/sbooks/internal/domain/author"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) author.Repository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(ctx context.Context, a *author.Author) error {
	model := &AuthorModel{Name: a.Name, Bio: a.Bio, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return dbError(err, "创建作者失败")
	}
	a.ID = model.ID
	return nil
}

func (r *authorRepository) FindByID(ctx context.Context, id uint) (*author.Author, error) {
	var model AuthorModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrAuthorNotFound
		}
		return nil, dbError(err, "查询作者失败")
	}
	return toAuthorEntity(&model), nil
}

func (r *authorRepository) Update(ctx context.Context, a *author.Author) error {
	err := conn(ctx, r.db).Model(&AuthorModel{}).Where("id = ?", a.ID).Updates(map[string]any{
		"name":       a.Name,
		"bio":        a.Bio,
		"updated_at": a.UpdatedAt,
	}).Error
	if err != nil {
		return dbError(err, "更新作者失败")
	}
	return nil
}

// Delete 删除作者，残留的图书引用置空
func (r *authorRepository) Delete(ctx context.Context, id uint) error {
	db := conn(ctx, r.db)
	if err := db.Model(&BookModel{}).Where("author_id = ?", id).UpdateColumn("author_id", nil).Error; err != nil {
		return dbError(err, "解除图书作者关联失败")
	}
	res := db.Delete(&AuthorModel{}, id)
	if res.Error != nil {
		return dbError(res.Error, "删除作者失败")
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAuthorNotFound
	}
	return nil
}

func (r *authorRepository) ListWithBooks(ctx context.Context) ([]author.WithBookCount, error) {
	var rows []struct {
		AuthorModel
		BookCount int64
	}
	err := conn(ctx, r.db).Table("authors").
		Select("authors.id, authors.name, authors.bio, authors.created_at, authors.updated_at, COUNT(books.id) AS book_count").
		Joins("JOIN books ON books.author_id = authors.id").
		Group("authors.id, authors.name, authors.bio, authors.created_at, authors.updated_at").
		Order("authors.name ASC, authors.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "查询作者列表失败")
	}

	out := make([]author.WithBookCount, len(rows))
	for i := range rows {
		out[i] = author.WithBookCount{Author: *toAuthorEntity(&rows[i].AuthorModel), BookCount: rows[i].BookCount}
	}
	return out, nil
}

func (r *authorRepository) CountBooks(ctx context.Context, id uint) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&BookModel{}).Where("author_id = ?", id).Count(&n).Error; err != nil {
		return 0, dbError(err, "统计作者图书失败")
	}
	return n, nil
}

// Stats 作者统计
func (r *authorRepository) Stats(ctx context.Context, id uint) (*author.Stats, error) {
	db := conn(ctx, r.db)
	s := &author.Stats{TopGenres: []string{}}

	var books struct {
		Total int64
		Views int64
	}
	if err := db.Model(&BookModel{}).
		Select("COUNT(*) AS total, COALESCE(SUM(view_count), 0) AS views").
		Where("author_id = ?", id).
		Scan(&books).Error; err != nil {
		return nil, dbError(err, "统计作者图书失败")
	}
	s.TotalBooks, s.TotalViews = books.Total, books.Views
	if s.TotalBooks == 0 {
		return s, nil
	}

	authored := db.Model(&BookModel{}).Select("id").Where("author_id = ?", id)

	if err := db.Model(&FavoriteModel{}).Where("book_id IN (?)", authored).Count(&s.TotalFavorites).Error; err != nil {
		return nil, dbError(err, "统计作者收藏失败")
	}

	var reviews struct {
		Total   int64
		Average float64
	}
	if err := db.Model(&ReviewModel{}).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS average").
		Where("book_id IN (?) AND parent_review_id IS NULL", authored).
		Scan(&reviews).Error; err != nil {
		return nil, dbError(err, "统计作者评论失败")
	}
	s.TotalReviews, s.AverageRating = reviews.Total, reviews.Average

	if err := db.Model(&BookModel{}).
		Where("author_id = ? AND genre <> ''", id).
		Group("genre").
		Order("COUNT(*) DESC, genre ASC").
		Limit(5).
		Pluck("genre", &s.TopGenres).Error; err != nil {
		return nil, dbError(err, "统计作者分类失败")
	}

	var top author.BookRef
	if err := db.Table("books").
		Select("books.id, books.title, (SELECT COUNT(*) FROM favorites f WHERE f.book_id = books.id) AS favorites").
		Where("books.author_id = ?", id).
		Order("favorites DESC, books.id ASC").
		Limit(1).
		Scan(&top).Error; err != nil {
		return nil, dbError(err, "查询最受欢迎图书失败")
	}
	s.MostFavorited = &top
	return s, nil
}

func toAuthorEntity(model *AuthorModel) *author.Author {
	return &author.Author{
		ID:        model.ID,
		Name:      model.Name,
		Bio:       model.Bio,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
