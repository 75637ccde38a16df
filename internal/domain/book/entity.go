package book

import (
	"time"
)

// Book 图书实体（聚合根）
// 价格使用int64存储"分"为单位；作者、出版社、创建人均可为空，
// 被引用实体删除时引用置空，不级联删除图书
type Book struct {
	ID            uint
	Title         string
	Description   string
	PublishedYear int
	Genre         string
	Price         int64 // 价格（分）
	ViewCount     int64 // 浏览次数，只增不减
	ImageURL      string
	AuthorID      *uint
	PublisherID   *uint
	CreatedBy     *uint
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Input 创建/更新图书的参数
type Input struct {
	Title         string
	Description   string
	PublishedYear int
	Genre         string
	Price         int64
	ImageURL      string
	AuthorID      *uint
	PublisherID   *uint
}

// NewBook 创建新图书（工厂方法）
func NewBook(in Input, createdBy uint) *Book {
	now := time.Now()
	b := &Book{CreatedAt: now}
	b.apply(in, now)
	if createdBy != 0 {
		b.CreatedBy = &createdBy
	}
	return b
}

// Apply 用新参数覆盖图书信息
func (b *Book) Apply(in Input) {
	b.apply(in, time.Now())
}

func (b *Book) apply(in Input, now time.Time) {
	b.Title = in.Title
	b.Description = in.Description
	b.PublishedYear = in.PublishedYear
	b.Genre = in.Genre
	b.Price = in.Price
	b.ImageURL = in.ImageURL
	b.AuthorID = in.AuthorID
	b.PublisherID = in.PublisherID
	b.UpdatedAt = now
}
