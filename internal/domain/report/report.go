// Package report 管理后台统计
package report

import (
	"context"
	"time"
)

// Totals 各表总数
type Totals struct {
	Books      int64 `json:"books"`
	Authors    int64 `json:"authors"`
	Publishers int64 `json:"publishers"`
	Users      int64 `json:"users"`
	Reviews    int64 `json:"reviews"`
	Favorites  int64 `json:"favorites"`
}

// ViewedBook 浏览量排行
type ViewedBook struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	ViewCount int64  `json:"view_count"`
}

// SearchTerm 热门搜索词
type SearchTerm struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// GenreStat 分类统计
type GenreStat struct {
	Genre      string `json:"genre"`
	BookCount  int64  `json:"book_count"`
	TotalViews int64  `json:"total_views"`
}

// MonthCount 按月新增图书
type MonthCount struct {
	Month string `json:"month"` // 2006-01
	Count int64  `json:"count"`
}

// Dashboard 后台首页数据
type Dashboard struct {
	Totals         Totals       `json:"totals"`
	TopViewed      []ViewedBook `json:"top_viewed"`
	TopSearchTerms []SearchTerm `json:"top_search_terms"`
	Genres         []GenreStat  `json:"genres"`
	MonthlyBooks   []MonthCount `json:"monthly_books"`
}

// Repository 统计查询
type Repository interface {
	Totals(ctx context.Context) (Totals, error)
	TopViewed(ctx context.Context, limit int) ([]ViewedBook, error)
	TopSearchTerms(ctx context.Context, limit int) ([]SearchTerm, error)
	GenreStats(ctx context.Context, limit int) ([]GenreStat, error)
	// BooksCreatedSince 返回since之后创建的图书时间，按月汇总由调用方完成
	BooksCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

// Months 从now所在月往前共n个月（含当月），旧的在前
func Months(now time.Time, n int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = first.AddDate(0, -i, 0).Format("2006-01")
	}
	return out
}

// MonthlyCounts 把时间点按月计数，没有数据的月份为0
func MonthlyCounts(now time.Time, n int, created []time.Time) []MonthCount {
	months := Months(now, n)
	idx := make(map[string]int, n)
	out := make([]MonthCount, n)
	for i, m := range months {
		idx[m] = i
		out[i] = MonthCount{Month: m}
	}
	for _, t := range created {
		if i, ok := idx[t.In(now.Location()).Format("2006-01")]; ok {
			out[i].Count++
		}
	}
	return out
}
