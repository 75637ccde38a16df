package catalog

import (
	"context"
	"strings"

	"github.com/xiebiao/sbooks/internal/domain/shared"
)

// DefaultSuggestionLimit 联想结果默认条数
const DefaultSuggestionLimit = 10

// Service 图书检索服务
type Service interface {
	// Search 按过滤条件检索，viewerID为0表示匿名（IsFavorited全为false）
	Search(ctx context.Context, f Filter, viewerID uint) (*Result, error)

	Card(ctx context.Context, bookID, viewerID uint) (*BookCard, error)

	// Cards 按给定顺序投影列表行并填充收藏状态
	Cards(ctx context.Context, ids []uint, viewerID uint) ([]BookCard, error)

	// Suggest 空白查询直接返回空列表，不访问存储
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)

	TopFavorites(ctx context.Context, limit int) ([]BookCard, error)

	Genres(ctx context.Context) ([]string, error)

	Related(ctx context.Context, card *BookCard, limit int) ([]BookCard, error)

	ByAuthor(ctx context.Context, authorID uint, page shared.Page, viewerID uint) (*Result, error)

	FavoritesOf(ctx context.Context, userID uint, page shared.Page) (*Result, error)

	// MarkFavorited 一次查询填充IsFavorited
	MarkFavorited(ctx context.Context, cards []BookCard, viewerID uint) error
}

type service struct {
	repo      Repository
	favorites FavoriteLookup
}

// NewService 创建检索服务
func NewService(repo Repository, favorites FavoriteLookup) Service {
	return &service{repo: repo, favorites: favorites}
}

func (s *service) Search(ctx context.Context, f Filter, viewerID uint) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	cards, total, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := s.MarkFavorited(ctx, cards, viewerID); err != nil {
		return nil, err
	}
	return &Result{Items: cards, Total: total, Page: f.Page.Page, PageSize: f.PageSize}, nil
}

func (s *service) Card(ctx context.Context, bookID, viewerID uint) (*BookCard, error) {
	card, err := s.repo.Card(ctx, bookID)
	if err != nil {
		return nil, err
	}
	one := []BookCard{*card}
	if err := s.MarkFavorited(ctx, one, viewerID); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *service) Cards(ctx context.Context, ids []uint, viewerID uint) ([]BookCard, error) {
	cards, err := s.repo.Cards(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := s.MarkFavorited(ctx, cards, viewerID); err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *service) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Suggestion{}, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	return s.repo.Suggest(ctx, query, limit)
}

func (s *service) TopFavorites(ctx context.Context, limit int) ([]BookCard, error) {
	return s.repo.TopFavorites(ctx, limit)
}

func (s *service) Genres(ctx context.Context) ([]string, error) {
	return s.repo.Genres(ctx)
}

func (s *service) Related(ctx context.Context, card *BookCard, limit int) ([]BookCard, error) {
	if card.AuthorID == nil && card.Genre == "" {
		return []BookCard{}, nil
	}
	return s.repo.Related(ctx, card.ID, card.AuthorID, card.Genre, limit)
}

func (s *service) ByAuthor(ctx context.Context, authorID uint, page shared.Page, viewerID uint) (*Result, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	cards, total, err := s.repo.ByAuthor(ctx, authorID, page)
	if err != nil {
		return nil, err
	}
	if err := s.MarkFavorited(ctx, cards, viewerID); err != nil {
		return nil, err
	}
	return &Result{Items: cards, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}

func (s *service) FavoritesOf(ctx context.Context, userID uint, page shared.Page) (*Result, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	cards, total, err := s.repo.FavoritesOf(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		cards[i].IsFavorited = true
	}
	return &Result{Items: cards, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}

func (s *service) MarkFavorited(ctx context.Context, cards []BookCard, viewerID uint) error {
	if viewerID == 0 || len(cards) == 0 {
		return nil
	}
	set, err := s.favorites.FavoritedAmong(ctx, viewerID, bookIDs(cards))
	if err != nil {
		return err
	}
	for i := range cards {
		cards[i].IsFavorited = set[cards[i].ID]
	}
	return nil
}
