// Package shared 各领域共用的小类型：事务接口、分页参数
package shared

import (
	"context"

	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// Transactor 事务执行器，由infrastructure层实现
// fn内使用的ctx携带事务，仓储方法从ctx取出事务连接；fn返回错误时整体回滚
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Page 分页参数（页码从1开始）
type Page struct {
	Page     int
	PageSize int
}

// Validate 页码或每页数量小于1时返回参数错误
func (p Page) Validate() error {
	if p.Page < 1 {
		return apperrors.Invalid("页码必须大于0")
	}
	if p.PageSize < 1 {
		return apperrors.Invalid("每页数量必须大于0")
	}
	return nil
}

// Offset 偏移量
func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Normalize 调用方使用：0表示缺省（第1页、默认每页数量），并限制最大每页数量
// 负数原样保留，由Validate返回参数错误
func Normalize(page, pageSize, defaultSize, maxSize int) Page {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return Page{Page: page, PageSize: pageSize}
}

// Result 分页查询结果
type Result[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// NewResult 创建分页结果，items为nil时返回空切片
func NewResult[T any](items []T, total int64, page Page) *Result[T] {
	if items == nil {
		items = []T{}
	}
	return &Result[T]{Items: items, Total: total, Page: page.Page, PageSize: page.PageSize}
}
