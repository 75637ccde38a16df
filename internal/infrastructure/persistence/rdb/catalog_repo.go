package rdb

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/sbooks/internal/domain/catalog"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// 列表行的投影：平均评分、评论数只统计顶层评论，聚合在查询时计算
const (
	averageRatingExpr = "(SELECT COALESCE(AVG(r.rating), 0) FROM reviews r WHERE r.book_id = books.id AND r.parent_review_id IS NULL AND r.rating IS NOT NULL)"
	reviewCountExpr   = "(SELECT COUNT(*) FROM reviews r WHERE r.book_id = books.id AND r.parent_review_id IS NULL)"
	favoriteCountExpr = "(SELECT COUNT(*) FROM favorites f WHERE f.book_id = books.id)"

	cardColumns = "books.id, books.title, books.description, books.published_year, books.genre, books.price, " +
		"books.image_url, books.author_id, COALESCE(authors.name, '') AS author_name, " +
		"books.publisher_id, COALESCE(publishers.name, '') AS publisher_name, " +
		"books.view_count, books.created_at, books.updated_at, " +
		averageRatingExpr + " AS average_rating, " +
		reviewCountExpr + " AS review_count, " +
		favoriteCountExpr + " AS favorite_count"
)

// 每种排序都以books.id ASC兜底，保证分页结果稳定
var sortOrders = map[catalog.SortKey]string{
	catalog.SortNewest:    "books.created_at DESC, books.id ASC",
	catalog.SortOldest:    "books.created_at ASC, books.id ASC",
	catalog.SortTitle:     "books.title ASC, books.id ASC",
	catalog.SortRating:    "average_rating DESC, books.id ASC",
	catalog.SortFavorites: "favorite_count DESC, books.id ASC",
}

type cardRow struct {
	ID            uint
	Title         string
	Description   string
	PublishedYear int
	Genre         string
	Price         int64
	ImageURL      string
	AuthorID      *uint
	AuthorName    string
	PublisherID   *uint
	PublisherName string
	ViewCount     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	AverageRating float64
	ReviewCount   int64
	FavoriteCount int64
}

// catalogRepository 图书检索（只读）
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建检索仓储
func NewCatalogRepository(db *gorm.DB) catalog.Repository {
	return &catalogRepository{db: db}
}

// books 基础查询：books LEFT JOIN authors, publishers
func (r *catalogRepository) books(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Table("books").
		Joins("LEFT JOIN authors ON authors.id = books.author_id").
		Joins("LEFT JOIN publishers ON publishers.id = books.publisher_id")
}

// filtered 各字段AND，同一字段的多个取值IN（即OR）
func (r *catalogRepository) filtered(ctx context.Context, f catalog.Filter) *gorm.DB {
	q := r.books(ctx)
	if f.Query != "" {
		like := likePattern(f.Query)
		q = q.Where("(LOWER(books.title) LIKE ? ESCAPE '!' OR LOWER(COALESCE(authors.name, '')) LIKE ? ESCAPE '!')", like, like)
	}
	if len(f.AuthorIDs) > 0 {
		q = q.Where("books.author_id IN ?", f.AuthorIDs)
	}
	if len(f.Genres) > 0 {
		q = q.Where("books.genre IN ?", f.Genres)
	}
	if f.MinPrice != nil {
		q = q.Where("books.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("books.price <= ?", *f.MaxPrice)
	}
	if f.MinYear != nil {
		q = q.Where("books.published_year >= ?", *f.MinYear)
	}
	if f.MaxYear != nil {
		q = q.Where("books.published_year <= ?", *f.MaxYear)
	}
	if f.CreatedFrom != nil {
		q = q.Where("books.created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedBefore != nil {
		q = q.Where("books.created_at < ?", *f.CreatedBefore)
	}
	return q
}

// Search 过滤 → 计数 → 排序 → 分页 → 投影
func (r *catalogRepository) Search(ctx context.Context, f catalog.Filter) ([]catalog.BookCard, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "查询图书总数失败")
	}
	if total == 0 || f.Offset() >= int(total) {
		return []catalog.BookCard{}, total, nil
	}

	order, ok := sortOrders[f.SortBy]
	if !ok {
		order = sortOrders[catalog.SortNewest]
	}
	cards, err := r.scanCards(r.filtered(ctx, f).Select(cardColumns).Order(order).Limit(f.PageSize).Offset(f.Offset()))
	if err != nil {
		return nil, 0, dbError(err, "查询图书列表失败")
	}
	return cards, total, nil
}

func (r *catalogRepository) Card(ctx context.Context, id uint) (*catalog.BookCard, error) {
	cards, err := r.scanCards(r.books(ctx).Select(cardColumns).Where("books.id = ?", id).Limit(1))
	if err != nil {
		return nil, dbError(err, "查询图书失败")
	}
	if len(cards) == 0 {
		return nil, apperrors.ErrBookNotFound
	}
	return &cards[0], nil
}

func (r *catalogRepository) Cards(ctx context.Context, ids []uint) ([]catalog.BookCard, error) {
	if len(ids) == 0 {
		return []catalog.BookCard{}, nil
	}
	rows, err := r.scanCards(r.books(ctx).Select(cardColumns).Where("books.id IN ?", ids))
	if err != nil {
		return nil, dbError(err, "查询图书失败")
	}
	byID := make(map[uint]catalog.BookCard, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}
	cards := make([]catalog.BookCard, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func (r *catalogRepository) Suggest(ctx context.Context, query string, limit int) ([]catalog.Suggestion, error) {
	like := likePattern(query)
	out := []catalog.Suggestion{}
	err := r.books(ctx).
		Select("books.id, books.title, COALESCE(authors.name, '') AS author_name, books.image_url, "+averageRatingExpr+" AS average_rating").
		Where("LOWER(books.title) LIKE ? ESCAPE '!' OR LOWER(COALESCE(authors.name, '')) LIKE ? ESCAPE '!'", like, like).
		Order("books.view_count DESC, books.id ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, dbError(err, "查询搜索建议失败")
	}
	return out, nil
}

func (r *catalogRepository) TopFavorites(ctx context.Context, limit int) ([]catalog.BookCard, error) {
	cards, err := r.scanCards(r.books(ctx).
		Select(cardColumns).
		Where("EXISTS (SELECT 1 FROM favorites fx WHERE fx.book_id = books.id)").
		Order("favorite_count DESC, books.view_count DESC, books.id ASC").
		Limit(limit))
	if err != nil {
		return nil, dbError(err, "查询收藏排行失败")
	}
	return cards, nil
}

func (r *catalogRepository) Genres(ctx context.Context) ([]string, error) {
	genres := []string{}
	err := conn(ctx, r.db).Model(&BookModel{}).
		Distinct("genre").
		Where("genre <> ''").
		Order("genre ASC").
		Pluck("genre", &genres).Error
	if err != nil {
		return nil, dbError(err, "查询图书分类失败")
	}
	return genres, nil
}

// Related 同作者或同分类的其他图书
func (r *catalogRepository) Related(ctx context.Context, bookID uint, authorID *uint, genre string, limit int) ([]catalog.BookCard, error) {
	q := r.books(ctx).Select(cardColumns).Where("books.id <> ?", bookID)
	switch {
	case authorID != nil && genre != "":
		q = q.Where("(books.author_id = ? OR books.genre = ?)", *authorID, genre)
	case authorID != nil:
		q = q.Where("books.author_id = ?", *authorID)
	case genre != "":
		q = q.Where("books.genre = ?", genre)
	default:
		return []catalog.BookCard{}, nil
	}

	cards, err := r.scanCards(q.Order("books.view_count DESC, books.id ASC").Limit(limit))
	if err != nil {
		return nil, dbError(err, "查询相关图书失败")
	}
	return cards, nil
}

func (r *catalogRepository) ByAuthor(ctx context.Context, authorID uint, page shared.Page) ([]catalog.BookCard, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&BookModel{}).Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "查询作者图书总数失败")
	}

	cards, err := r.scanCards(r.books(ctx).
		Select(cardColumns).
		Where("books.author_id = ?", authorID).
		Order("books.created_at DESC, books.id ASC").
		Limit(page.PageSize).
		Offset(page.Offset()))
	if err != nil {
		return nil, 0, dbError(err, "查询作者图书失败")
	}
	return cards, total, nil
}

// FavoritesOf 用户收藏的图书，最近收藏在前
func (r *catalogRepository) FavoritesOf(ctx context.Context, userID uint, page shared.Page) ([]catalog.BookCard, int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&FavoriteModel{}).
		Joins("JOIN books ON books.id = favorites.book_id").
		Where("favorites.user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, dbError(err, "查询收藏总数失败")
	}

	cards, err := r.scanCards(r.books(ctx).
		Select(cardColumns).
		Joins("JOIN favorites mine ON mine.book_id = books.id AND mine.user_id = ?", userID).
		Order("mine.created_at DESC, books.id ASC").
		Limit(page.PageSize).
		Offset(page.Offset()))
	if err != nil {
		return nil, 0, dbError(err, "查询收藏图书失败")
	}
	return cards, total, nil
}

func (r *catalogRepository) scanCards(q *gorm.DB) ([]catalog.BookCard, error) {
	var rows []cardRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	cards := make([]catalog.BookCard, len(rows))
	for i := range rows {
		cards[i] = toCard(&rows[i])
	}
	return cards, nil
}

func toCard(row *cardRow) catalog.BookCard {
	return catalog.BookCard{
		ID:            row.ID,
		Title:         row.Title,
		Description:   row.Description,
		PublishedYear: row.PublishedYear,
		Genre:         row.Genre,
		Price:         row.Price,
		ImageURL:      row.ImageURL,
		AuthorID:      row.AuthorID,
		AuthorName:    row.AuthorName,
		PublisherID:   row.PublisherID,
		PublisherName: row.PublisherName,
		AverageRating: row.AverageRating,
		ReviewCount:   row.ReviewCount,
		FavoriteCount: row.FavoriteCount,
		ViewCount:     row.ViewCount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

// likeEscaper 以!作转义符，MySQL、PostgreSQL、SQLite写法一致
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern 小写并转义后包成%q%，配合 ESCAPE '!' 按字面匹配
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}
