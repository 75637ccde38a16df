package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/sbooks/internal/domain/author"
	"github.com/xiebiao/sbooks/internal/domain/catalog"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/publisher"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	"github.com/xiebiao/sbooks/internal/infrastructure/config"
)

// SuggestBooksUseCase 搜索联想
type SuggestBooksUseCase struct {
	catalog catalog.Service
	cfg     config.CatalogConfig
}

func NewSuggestBooksUseCase(svc catalog.Service, cfg config.CatalogConfig) *SuggestBooksUseCase {
	return &SuggestBooksUseCase{catalog: svc, cfg: cfg}
}

// Execute limit<=0或超过上限时取配置值
func (uc *SuggestBooksUseCase) Execute(ctx context.Context, query string, limit int) ([]catalog.Suggestion, error) {
	if limit <= 0 || limit > uc.cfg.SuggestionLimit {
		limit = uc.cfg.SuggestionLimit
	}
	return uc.catalog.Suggest(ctx, query, limit)
}

// TopFavoritesUseCase 收藏排行（缓存）
type TopFavoritesUseCase struct {
	catalog catalog.Service
	cache   catalog.Cache
	cfg     config.CatalogConfig
	logger  *zap.Logger
}

func NewTopFavoritesUseCase(svc catalog.Service, cache catalog.Cache, cfg config.CatalogConfig, logger *zap.Logger) *TopFavoritesUseCase {
	return &TopFavoritesUseCase{catalog: svc, cache: cache, cfg: cfg, logger: logger}
}

// Execute 缓存命中时只复用排行顺序，列表行按ID重新查询
func (uc *TopFavoritesUseCase) Execute(ctx context.Context, viewer *identity.Principal) ([]catalog.BookCard, error) {
	limit := uc.cfg.TopFavoritesLimit
	ids, ok, err := uc.cache.TopFavorites(ctx, limit)
	if err != nil {
		uc.logger.Warn("读取缓存失败", zap.String("cache", "top_favorites"), zap.Error(err))
	}
	if ok {
		return uc.catalog.Cards(ctx, ids, viewer.ViewerID())
	}

	cards, err := uc.catalog.TopFavorites(ctx, limit)
	if err != nil {
		return nil, err
	}
	ids = make([]uint, len(cards))
	for i := range cards {
		ids[i] = cards[i].ID
	}
	if err := uc.cache.SetTopFavorites(ctx, limit, ids, uc.cfg.TopFavCacheTTL); err != nil {
		uc.logger.Warn("写入缓存失败", zap.String("cache", "top_favorites"), zap.Error(err))
	}
	if err := uc.catalog.MarkFavorited(ctx, cards, viewer.ViewerID()); err != nil {
		return nil, err
	}
	return cards, nil
}

// ListGenresUseCase 图书分类（缓存）
type ListGenresUseCase struct {
	catalog catalog.Service
	cache   catalog.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

func NewListGenresUseCase(svc catalog.Service, cache catalog.Cache, cfg config.CatalogConfig, logger *zap.Logger) *ListGenresUseCase {
	return &ListGenresUseCase{catalog: svc, cache: cache, ttl: cfg.GenresCacheTTL, logger: logger}
}

func (uc *ListGenresUseCase) Execute(ctx context.Context) ([]string, error) {
	return cached(ctx, uc.logger, "genres",
		uc.cache.Genres,
		uc.catalog.Genres,
		func(ctx context.Context, v []string) error { return uc.cache.SetGenres(ctx, v, uc.ttl) },
	)
}

// AuthorItem 作者列表条目
type AuthorItem struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	BookCount int64  `json:"book_count"`
}

// ListAuthorsUseCase 有图书的作者，按名称排序
type ListAuthorsUseCase struct {
	authors author.Service
}

func NewListAuthorsUseCase(authors author.Service) *ListAuthorsUseCase {
	return &ListAuthorsUseCase{authors: authors}
}

func (uc *ListAuthorsUseCase) Execute(ctx context.Context) ([]AuthorItem, error) {
	rows, err := uc.authors.ListWithBooks(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]AuthorItem, len(rows))
	for i, r := range rows {
		items[i] = AuthorItem{ID: r.ID, Name: r.Name, Bio: r.Bio, BookCount: r.BookCount}
	}
	return items, nil
}

// AuthorDetailResponse 作者详情与统计
type AuthorDetailResponse struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Bio            string          `json:"bio"`
	TotalBooks     int64           `json:"total_books"`
	TotalViews     int64           `json:"total_views"`
	TotalFavorites int64           `json:"total_favorites"`
	TotalReviews   int64           `json:"total_reviews"`
	AverageRating  float64         `json:"average_rating"`
	TopGenres      []string        `json:"top_genres"`
	MostFavorited  *author.BookRef `json:"most_favorited,omitempty"`
}

// GetAuthorUseCase 作者详情
type GetAuthorUseCase struct {
	authors author.Service
}

func NewGetAuthorUseCase(authors author.Service) *GetAuthorUseCase {
	return &GetAuthorUseCase{authors: authors}
}

func (uc *GetAuthorUseCase) Execute(ctx context.Context, id uint) (*AuthorDetailResponse, error) {
	a, err := uc.authors.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st, err := uc.authors.Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AuthorDetailResponse{
		ID:             a.ID,
		Name:           a.Name,
		Bio:            a.Bio,
		TotalBooks:     st.TotalBooks,
		TotalViews:     st.TotalViews,
		TotalFavorites: st.TotalFavorites,
		TotalReviews:   st.TotalReviews,
		AverageRating:  st.AverageRating,
		TopGenres:      st.TopGenres,
		MostFavorited:  st.MostFavorited,
	}, nil
}

// ListAuthorBooksUseCase 作者的图书，最新在前
type ListAuthorBooksUseCase struct {
	authors author.Service
	catalog catalog.Service
	cfg     config.CatalogConfig
}

func NewListAuthorBooksUseCase(authors author.Service, svc catalog.Service, cfg config.CatalogConfig) *ListAuthorBooksUseCase {
	return &ListAuthorBooksUseCase{authors: authors, catalog: svc, cfg: cfg}
}

type ListAuthorBooksRequest struct {
	AuthorID uint
	Page     int
	PageSize int
	Viewer   *identity.Principal
}

func (uc *ListAuthorBooksUseCase) Execute(ctx context.Context, req ListAuthorBooksRequest) (*PageResult, error) {
	if _, err := uc.authors.Get(ctx, req.AuthorID); err != nil {
		return nil, err
	}
	page := shared.Normalize(req.Page, req.PageSize, uc.cfg.DefaultPageSize, uc.cfg.MaxPageSize)
	res, err := uc.catalog.ByAuthor(ctx, req.AuthorID, page, req.Viewer.ViewerID())
	if err != nil {
		return nil, err
	}
	return NewPageResult(res), nil
}

// PublisherItem 出版社条目
type PublisherItem struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website"`
}

// ListPublishersUseCase 出版社列表
type ListPublishersUseCase struct {
	publishers publisher.Service
}

func NewListPublishersUseCase(publishers publisher.Service) *ListPublishersUseCase {
	return &ListPublishersUseCase{publishers: publishers}
}

func (uc *ListPublishersUseCase) Execute(ctx context.Context) ([]PublisherItem, error) {
	rows, err := uc.publishers.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]PublisherItem, len(rows))
	for i, p := range rows {
		items[i] = PublisherItem{ID: p.ID, Name: p.Name, Website: p.Website}
	}
	return items, nil
}
