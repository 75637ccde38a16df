package rdb

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/sbooks/internal/domain/report"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建统计仓储
func NewReportRepository(db *gorm.DB) report.Repository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Totals(ctx context.Context) (report.Totals, error) {
	db := conn(ctx, r.db)
	var t report.Totals
	counts := []struct {
		model any
		dest  *int64
	}{
		{&BookModel{}, &t.Books},
		{&AuthorModel{}, &t.Authors},
		{&PublisherModel{}, &t.Publishers},
		{&UserModel{}, &t.Users},
		{&ReviewModel{}, &t.Reviews},
		{&FavoriteModel{}, &t.Favorites},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return t, dbError(err, "统计总数失败")
		}
	}
	return t, nil
}

func (r *reportRepository) TopViewed(ctx context.Context, limit int) ([]report.ViewedBook, error) {
	out := []report.ViewedBook{}
	err := conn(ctx, r.db).Model(&BookModel{}).
		Select("id, title, view_count").
		Order("view_count DESC, id ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, dbError(err, "查询浏览排行失败")
	}
	return out, nil
}

// TopSearchTerms 搜索词不区分大小写合并计数
func (r *reportRepository) TopSearchTerms(ctx context.Context, limit int) ([]report.SearchTerm, error) {
	var rows []struct {
		Term string
		Hits int64
	}
	err := conn(ctx, r.db).Model(&SearchLogModel{}).
		Select("LOWER(query) AS term, COUNT(*) AS hits").
		Group("LOWER(query)").
		Order("hits DESC, term ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "查询热门搜索失败")
	}

	out := make([]report.SearchTerm, len(rows))
	for i, row := range rows {
		out[i] = report.SearchTerm{Query: row.Term, Count: row.Hits}
	}
	return out, nil
}

func (r *reportRepository) GenreStats(ctx context.Context, limit int) ([]report.GenreStat, error) {
	out := []report.GenreStat{}
	err := conn(ctx, r.db).Model(&BookModel{}).
		Select("genre, COUNT(*) AS book_count, COALESCE(SUM(view_count), 0) AS total_views").
		Where("genre <> ''").
		Group("genre").
		Order("book_count DESC, genre ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, dbError(err, "查询分类统计失败")
	}
	return out, nil
}

func (r *reportRepository) BooksCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var created []time.Time
	err := conn(ctx, r.db).Model(&BookModel{}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &created).Error
	if err != nil {
		return nil, dbError(err, "查询新增图书失败")
	}
	return created, nil
}
