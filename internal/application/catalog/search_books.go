package catalog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	appaudit "github.com/xiebiao/sbooks/internal/application/audit"
	"github.com/xiebiao/sbooks/internal/domain/catalog"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	"github.com/xiebiao/sbooks/internal/infrastructure/config"
	"github.com/xiebiao/sbooks/pkg/metrics"
	"github.com/xiebiao/sbooks/pkg/tracing"
)

// SearchBooksUseCase 图书检索
// 非空查询词异步写入搜索日志，写入失败不影响检索结果
type SearchBooksUseCase struct {
	catalog  catalog.Service
	recorder *appaudit.Recorder
	cfg      config.CatalogConfig
}

// NewSearchBooksUseCase 创建检索用例
func NewSearchBooksUseCase(svc catalog.Service, recorder *appaudit.Recorder, cfg config.CatalogConfig) *SearchBooksUseCase {
	return &SearchBooksUseCase{catalog: svc, recorder: recorder, cfg: cfg}
}

// SearchBooksRequest 检索请求，Page/PageSize为0时取默认值
type SearchBooksRequest struct {
	Query       string
	AuthorIDs   []uint
	Genres      []string
	MinPrice    *int64
	MaxPrice    *int64
	MinYear     *int
	MaxYear     *int
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	SortBy      string
	Page        int
	PageSize    int
	Viewer      *identity.Principal
}

// PageResult 分页的图书列表
type PageResult = shared.Result[catalog.BookCard]

// NewPageResult 转换检索结果
func NewPageResult(r *catalog.Result) *PageResult {
	return shared.NewResult(r.Items, r.Total, shared.Page{Page: r.Page, PageSize: r.PageSize})
}

// Execute 执行检索
func (uc *SearchBooksUseCase) Execute(ctx context.Context, req SearchBooksRequest) (resp *PageResult, err error) {
	sortBy, err := catalog.ParseSortKey(req.SortBy)
	if err != nil {
		return nil, err
	}
	f := catalog.Filter{
		Query:         req.Query,
		AuthorIDs:     req.AuthorIDs,
		Genres:        req.Genres,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		MinYear:       req.MinYear,
		MaxYear:       req.MaxYear,
		CreatedFrom:   req.CreatedFrom,
		CreatedBefore: catalog.NextDay(req.CreatedTo),
		SortBy:        sortBy,
		Page:          shared.Normalize(req.Page, req.PageSize, uc.cfg.DefaultPageSize, uc.cfg.MaxPageSize),
	}

	ctx, span := tracing.StartSpan(ctx, "catalog.Search",
		attribute.String("sort", string(sortBy)),
		attribute.Int("page", f.Page.Page),
	)
	defer func() { tracing.End(span, err) }()

	start := time.Now()
	res, err := uc.catalog.Search(ctx, f, req.Viewer.ViewerID())
	metrics.ObserveHistogramVec(metrics.CatalogQueryDuration, map[string]string{"sort": string(sortBy)}, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	uc.recorder.Search(ctx, req.Viewer.ViewerID(), req.Query)
	return NewPageResult(res), nil
}
