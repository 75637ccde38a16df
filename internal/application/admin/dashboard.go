package admin

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/report"
)

const (
	dashboardTopViewed = 5
	dashboardTopTerms  = 5
	dashboardGenres    = 10
	dashboardMonths    = 6
)

// DashboardUseCase 后台首页统计，各项查询并发执行
type DashboardUseCase struct {
	reports report.Repository
	now     func() time.Time
}

func NewDashboardUseCase(reports report.Repository) *DashboardUseCase {
	return &DashboardUseCase{reports: reports, now: time.Now}
}

func (uc *DashboardUseCase) Execute(ctx context.Context, actor *identity.Principal) (*report.Dashboard, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	now := uc.now()
	months := report.Months(now, dashboardMonths)
	since, err := time.ParseInLocation("2006-01", months[0], now.Location())
	if err != nil {
		return nil, err
	}

	var (
		d       report.Dashboard
		created []time.Time
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Totals, err = uc.reports.Totals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.TopViewed, err = uc.reports.TopViewed(gctx, dashboardTopViewed)
		return err
	})
	g.Go(func() error {
		var err error
		d.TopSearchTerms, err = uc.reports.TopSearchTerms(gctx, dashboardTopTerms)
		return err
	})
	g.Go(func() error {
		var err error
		d.Genres, err = uc.reports.GenreStats(gctx, dashboardGenres)
		return err
	})
	g.Go(func() error {
		var err error
		created, err = uc.reports.BooksCreatedSince(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.MonthlyBooks = report.MonthlyCounts(now, dashboardMonths, created)
	if d.TopViewed == nil {
		d.TopViewed = []report.ViewedBook{}
	}
	if d.TopSearchTerms == nil {
		d.TopSearchTerms = []report.SearchTerm{}
	}
	if d.Genres == nil {
		d.Genres = []report.GenreStat{}
	}
	return &d, nil
}
