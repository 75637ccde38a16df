// Package catalog 图书检索管道：过滤、计数、排序、分页、投影为列表行
package catalog

import (
	"strings"
	"time"

	"github.com/xiebiao/sbooks/internal/domain/shared"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// SortKey 排序键
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortTitle     SortKey = "title"
	SortRating    SortKey = "rating"
	SortFavorites SortKey = "favorites"
)

// ParseSortKey 空串默认newest
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortTitle, SortRating, SortFavorites:
		return k, nil
	default:
		return "", apperrors.Invalid("不支持的排序方式: " + s)
	}
}

// Filter 检索条件
// 各字段之间为AND，同一字段的多个取值之间为OR；零值字段不参与过滤
type Filter struct {
	Query         string // 书名或作者名子串，不区分大小写
	AuthorIDs     []uint
	Genres        []string
	MinPrice      *int64
	MaxPrice      *int64
	MinYear       *int
	MaxYear       *int
	CreatedFrom   *time.Time // 含
	CreatedBefore *time.Time // 不含
	SortBy        SortKey
	shared.Page
}

// Validate 检查分页与区间，分页上限由调用方限制
func (f *Filter) Validate() error {
	if err := f.Page.Validate(); err != nil {
		return err
	}
	if f.SortBy == "" {
		f.SortBy = SortNewest
	}
	if _, err := ParseSortKey(string(f.SortBy)); err != nil {
		return err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return apperrors.Invalid("最低价格不能高于最高价格")
	}
	if f.MinYear != nil && f.MaxYear != nil && *f.MinYear > *f.MaxYear {
		return apperrors.Invalid("起始年份不能晚于结束年份")
	}
	if f.CreatedFrom != nil && f.CreatedBefore != nil && !f.CreatedFrom.Before(*f.CreatedBefore) {
		return apperrors.Invalid("起始日期不能晚于结束日期")
	}
	f.Query = strings.TrimSpace(f.Query)
	return nil
}

// NextDay 取t所在日期的次日零点，用于把含当天的结束日期转成不含的上界
func NextDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
	return &next
}
