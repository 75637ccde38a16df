package catalog

import (
	"time"
)

// BookCard 图书列表行
type BookCard struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PublishedYear int       `json:"published_year"`
	Genre         string    `json:"genre"`
	Price         int64     `json:"price"`
	ImageURL      string    `json:"image_url"`
	AuthorID      *uint     `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	PublisherID   *uint     `json:"publisher_id"`
	PublisherName string    `json:"publisher_name"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int64     `json:"review_count"`
	FavoriteCount int64     `json:"favorite_count"`
	IsFavorited   bool      `json:"is_favorited"`
	ViewCount     int64     `json:"view_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Suggestion 搜索联想条目
type Suggestion struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	AuthorName    string  `json:"author_name"`
	ImageURL      string  `json:"image_url"`
	AverageRating float64 `json:"average_rating"`
}

// Result 分页结果
type Result struct {
	Items    []BookCard
	Total    int64
	Page     int
	PageSize int
}

func bookIDs(cards []BookCard) []uint {
	ids := make([]uint, len(cards))
	for i := range cards {
		ids[i] = cards[i].ID
	}
	return ids
}
