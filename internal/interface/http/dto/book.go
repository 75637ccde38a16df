package dto

import "time"

// SearchBooksQuery 图书检索参数
// 多值参数重复传递：?author_id=1&author_id=2&genre=科幻
type SearchBooksQuery struct {
	Q           string     `form:"q" binding:"max=255" example:"三体"`
	AuthorIDs   []uint     `form:"author_id"`
	Genres      []string   `form:"genre"`
	MinPrice    *int64     `form:"min_price" example:"1000"` // 分
	MaxPrice    *int64     `form:"max_price" example:"5000"` // 分
	MinYear     *int       `form:"min_year" example:"2000"`
	MaxYear     *int       `form:"max_year" example:"2024"`
	CreatedFrom *time.Time `form:"created_from" time_format:"2006-01-02" time_utc:"1"`
	CreatedTo   *time.Time `form:"created_to" time_format:"2006-01-02" time_utc:"1"`
	Sort        string     `form:"sort" binding:"sortkey" example:"rating"`
	PageQuery
}

// SuggestQuery 搜索联想参数
type SuggestQuery struct {
	Q     string `form:"q" example:"三"`
	Limit int    `form:"limit" example:"10"`
}

// BookRequest 管理员新增/修改图书
type BookRequest struct {
	Title         string `json:"title" binding:"required,notblank,max=200" example:"三体"`
	Description   string `json:"description" binding:"max=5000"`
	PublishedYear int    `json:"published_year" binding:"min=0" example:"2008"`
	Genre         string `json:"genre" binding:"max=50" example:"科幻"`
	Price         int64  `json:"price" binding:"min=0" example:"2300"` // 价格(分)
	ImageURL      string `json:"image_url" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
	AuthorID      *uint  `json:"author_id" example:"1"`
	PublisherID   *uint  `json:"publisher_id" example:"1"`
}

// AuthorRequest 管理员新增/修改作者
type AuthorRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100" example:"刘慈欣"`
	Bio  string `json:"bio" binding:"max=5000"`
}

// PublisherRequest 管理员新增/修改出版社
type PublisherRequest struct {
	Name    string `json:"name" binding:"required,notblank,max=100" example:"重庆出版社"`
	Website string `json:"website" binding:"omitempty,url,max=255"`
}
