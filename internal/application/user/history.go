package user

import (
	"context"

	appcatalog "github.com/xiebiao/sbooks/internal/application/catalog"
	appreview "github.com/xiebiao/sbooks/internal/application/review"
	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/catalog"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	"github.com/xiebiao/sbooks/internal/infrastructure/config"
)

// HistoryRequest 个人历史列表的分页参数
type HistoryRequest struct {
	Page     int
	PageSize int
	Actor    *identity.Principal
}

func (r HistoryRequest) page(cfg config.CatalogConfig) shared.Page {
	return shared.Normalize(r.Page, r.PageSize, cfg.DefaultPageSize, cfg.MaxPageSize)
}

// ListMyFavoritesUseCase 我的收藏，最近收藏在前
type ListMyFavoritesUseCase struct {
	catalog catalog.Service
	cfg     config.CatalogConfig
}

func NewListMyFavoritesUseCase(svc catalog.Service, cfg config.CatalogConfig) *ListMyFavoritesUseCase {
	return &ListMyFavoritesUseCase{catalog: svc, cfg: cfg}
}

func (uc *ListMyFavoritesUseCase) Execute(ctx context.Context, req HistoryRequest) (*appcatalog.PageResult, error) {
	userID, err := identity.RequireUser(req.Actor)
	if err != nil {
		return nil, err
	}
	res, err := uc.catalog.FavoritesOf(ctx, userID, req.page(uc.cfg))
	if err != nil {
		return nil, err
	}
	return appcatalog.NewPageResult(res), nil
}

// ListMyReviewsUseCase 我的评论，最新在前
type ListMyReviewsUseCase struct {
	reviews review.Service
	cfg     config.CatalogConfig
}

func NewListMyReviewsUseCase(reviews review.Service, cfg config.CatalogConfig) *ListMyReviewsUseCase {
	return &ListMyReviewsUseCase{reviews: reviews, cfg: cfg}
}

func (uc *ListMyReviewsUseCase) Execute(ctx context.Context, req HistoryRequest) (*shared.Result[appreview.UserReviewItem], error) {
	userID, err := identity.RequireUser(req.Actor)
	if err != nil {
		return nil, err
	}
	page := req.page(uc.cfg)
	rows, total, err := uc.reviews.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return shared.NewResult(appreview.NewUserReviewItems(rows), total, page), nil
}

// ListMySearchesUseCase 我的搜索历史，最新在前
type ListMySearchesUseCase struct {
	audits audit.Repository
	cfg    config.CatalogConfig
}

func NewListMySearchesUseCase(audits audit.Repository, cfg config.CatalogConfig) *ListMySearchesUseCase {
	return &ListMySearchesUseCase{audits: audits, cfg: cfg}
}

func (uc *ListMySearchesUseCase) Execute(ctx context.Context, req HistoryRequest) (*shared.Result[audit.SearchLog], error) {
	userID, err := identity.RequireUser(req.Actor)
	if err != nil {
		return nil, err
	}
	page := req.page(uc.cfg)
	if err := page.Validate(); err != nil {
		return nil, err
	}
	logs, total, err := uc.audits.SearchesByUser(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return shared.NewResult(logs, total, page), nil
}
