package catalog

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	appreview "github.com/xiebiao/sbooks/internal/application/review"
	"github.com/xiebiao/sbooks/internal/domain/book"
	"github.com/xiebiao/sbooks/internal/domain/catalog"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/internal/infrastructure/config"
	"github.com/xiebiao/sbooks/pkg/tracing"
)

// GetBookDetailUseCase 图书详情
// 1. 浏览次数+1（图书不存在返回NotFound）
// 2. 查询列表行（含收藏状态）
// 3. 并发查询评分汇总、评论树、相关图书
type GetBookDetailUseCase struct {
	books   book.Service
	catalog catalog.Service
	reviews review.Service
	cfg     config.CatalogConfig
}

func NewGetBookDetailUseCase(books book.Service, svc catalog.Service, reviews review.Service, cfg config.CatalogConfig) *GetBookDetailUseCase {
	return &GetBookDetailUseCase{books: books, catalog: svc, reviews: reviews, cfg: cfg}
}

type GetBookDetailRequest struct {
	BookID uint
	Viewer *identity.Principal
}

type BookDetailResponse struct {
	Book    catalog.BookCard       `json:"book"`
	Rating  *review.RatingSummary  `json:"rating"`
	Reviews []appreview.ThreadItem `json:"reviews"`
	Related []catalog.BookCard     `json:"related"`
}

func (uc *GetBookDetailUseCase) Execute(ctx context.Context, req GetBookDetailRequest) (resp *BookDetailResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "catalog.Detail", attribute.Int("book_id", int(req.BookID)))
	defer func() { tracing.End(span, err) }()

	viewerID := req.Viewer.ViewerID()
	if err := uc.books.RecordView(ctx, req.BookID); err != nil {
		return nil, err
	}
	card, err := uc.catalog.Card(ctx, req.BookID, viewerID)
	if err != nil {
		return nil, err
	}

	resp = &BookDetailResponse{Book: *card}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resp.Rating, err = uc.reviews.Summary(gctx, req.BookID)
		return err
	})
	g.Go(func() error {
		nodes, err := uc.reviews.Threads(gctx, req.BookID, viewerID)
		if err != nil {
			return err
		}
		resp.Reviews = appreview.NewThreadItems(nodes)
		return nil
	})
	g.Go(func() error {
		related, err := uc.catalog.Related(gctx, card, uc.cfg.RelatedLimit)
		if err != nil {
			return err
		}
		if err := uc.catalog.MarkFavorited(gctx, related, viewerID); err != nil {
			return err
		}
		resp.Related = related
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}
