package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/xiebiao/sbooks/internal/application/apptest"
	appcatalog "github.com/xiebiao/sbooks/internal/application/catalog"
	"github.com/xiebiao/sbooks/internal/domain/catalog"
	catalogmocks "github.com/xiebiao/sbooks/internal/domain/catalog/mocks"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb/rdbtest"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

type fixture struct {
	env       *apptest.Env
	tolkien   uint
	rowling   uint
	hobbit    uint
	lotr      uint
	potter    uint
	publisher uint
}

// newFixture 三本书，收藏数5/0/2
func newFixture(t *testing.T) *fixture {
	env := apptest.New(t)
	f := &fixture{env: env}
	f.tolkien = rdbtest.Author(t, env.DB, "J.R.R. Tolkien")
	f.rowling = rdbtest.Author(t, env.DB, "J.K. Rowling")
	f.publisher = rdbtest.Publisher(t, env.DB, "企鹅出版社")

	f.hobbit = env.Book(t, rdb.BookModel{Title: "The Hobbit", Genre: "Fantasy", Price: 3900, PublishedYear: 1937, AuthorID: &f.tolkien, PublisherID: &f.publisher})
	f.lotr = env.Book(t, rdb.BookModel{Title: "The Lord of the Rings", Genre: "Fantasy", Price: 9900, PublishedYear: 1954, AuthorID: &f.tolkien})
	f.potter = env.Book(t, rdb.BookModel{Title: "Harry Potter", Genre: "Children", Price: 5900, PublishedYear: 1997, AuthorID: &f.rowling})

	for i := 0; i < 5; i++ {
		uid := rdbtest.User(t, env.DB, "fan"+string(rune('a'+i)))
		rdbtest.Favorite(t, env.DB, uid, f.hobbit)
		if i < 2 {
			rdbtest.Favorite(t, env.DB, uid, f.potter)
		}
	}
	return f
}

func ids(cards []catalog.BookCard) []uint {
	out := make([]uint, len(cards))
	for i := range cards {
		out[i] = cards[i].ID
	}
	return out
}

func TestSearchBooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	search := appcatalog.NewSearchBooksUseCase(f.env.Catalog, f.env.Recorder, f.env.Catalogs)

	t.Run("按收藏数排序取前两本", func(t *testing.T) {
		got, err := search.Execute(ctx, appcatalog.SearchBooksRequest{SortBy: "favorites", Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Total)
		assert.Equal(t, []uint{f.hobbit, f.potter}, ids(got.Items))
		assert.Equal(t, int64(5), got.Items[0].FavoriteCount)
	})

	t.Run("缺省分页与上限", func(t *testing.T) {
		got, err := search.Execute(ctx, appcatalog.SearchBooksRequest{PageSize: 500})
		require.NoError(t, err)
		assert.Equal(t, 1, got.Page)
		assert.Equal(t, 50, got.PageSize)
	})

	t.Run("负页码", func(t *testing.T) {
		_, err := search.Execute(ctx, appcatalog.SearchBooksRequest{Page: -1})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
	})

	t.Run("不支持的排序", func(t *testing.T) {
		_, err := search.Execute(ctx, appcatalog.SearchBooksRequest{SortBy: "price"})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
	})

	t.Run("查询词写入搜索日志", func(t *testing.T) {
		viewer := f.env.UserPrincipal(t, "reader")
		got, err := search.Execute(ctx, appcatalog.SearchBooksRequest{Query: "tolkien", Viewer: viewer})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{f.hobbit, f.lotr}, ids(got.Items))

		_, err = search.Execute(ctx, appcatalog.SearchBooksRequest{Query: "   "})
		require.NoError(t, err)

		f.env.Recorder.Wait()
		logs, total, err := f.env.AuditRepo.SearchesByUser(ctx, viewer.UserID, shared.Page{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "tolkien", logs[0].Query)

		var all int64
		require.NoError(t, f.env.DB.Model(&rdb.SearchLogModel{}).Count(&all).Error)
		assert.Equal(t, int64(1), all, "空白查询不记录")
	})

	t.Run("登录用户的收藏状态", func(t *testing.T) {
		viewer := f.env.UserPrincipal(t, "collector")
		rdbtest.Favorite(t, f.env.DB, viewer.UserID, f.lotr)

		got, err := search.Execute(ctx, appcatalog.SearchBooksRequest{SortBy: "title", Viewer: viewer})
		require.NoError(t, err)
		for _, c := range got.Items {
			assert.Equal(t, c.ID == f.lotr, c.IsFavorited, c.Title)
		}
	})
}

func TestGetBookDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	detail := appcatalog.NewGetBookDetailUseCase(f.env.Books, f.env.Catalog, f.env.Reviews, f.env.Catalogs)

	reviewer := rdbtest.User(t, f.env.DB, "reviewer")
	rdbtest.Review(t, f.env.DB, f.hobbit, reviewer, 4)

	got, err := detail.Execute(ctx, appcatalog.GetBookDetailRequest{BookID: f.hobbit})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Book.ViewCount, "浏览次数+1")
	assert.Equal(t, "企鹅出版社", got.Book.PublisherName)
	assert.InDelta(t, 4.0, got.Rating.Average, 1e-9)
	assert.Equal(t, int64(1), got.Rating.Distribution[4])
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, "reviewer", got.Reviews[0].Username)
	assert.Equal(t, []uint{f.lotr}, ids(got.Related), "同作者或同分类，不含自身")

	again, err := detail.Execute(ctx, appcatalog.GetBookDetailRequest{BookID: f.hobbit})
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Book.ViewCount)

	_, err = detail.Execute(ctx, appcatalog.GetBookDetailRequest{BookID: 999})
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func TestSuggestAndAuthors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("联想", func(t *testing.T) {
		suggest := appcatalog.NewSuggestBooksUseCase(f.env.Catalog, f.env.Catalogs)
		got, err := suggest.Execute(ctx, "the", 0)
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = suggest.Execute(ctx, "the", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)

		got, err = suggest.Execute(ctx, " ", 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("作者列表与详情", func(t *testing.T) {
		rdbtest.Author(t, f.env.DB, "没有作品的作者")
		authors, err := appcatalog.NewListAuthorsUseCase(f.env.Authors).Execute(ctx)
		require.NoError(t, err)
		require.Len(t, authors, 2)
		assert.Equal(t, "J.K. Rowling", authors[0].Name)
		assert.Equal(t, int64(2), authors[1].BookCount)

		d, err := appcatalog.NewGetAuthorUseCase(f.env.Authors).Execute(ctx, f.tolkien)
		require.NoError(t, err)
		assert.Equal(t, int64(2), d.TotalBooks)
		assert.Equal(t, int64(5), d.TotalFavorites)
		require.NotNil(t, d.MostFavorited)
		assert.Equal(t, f.hobbit, d.MostFavorited.ID)

		_, err = appcatalog.NewGetAuthorUseCase(f.env.Authors).Execute(ctx, 999)
		assert.ErrorIs(t, err, apperrors.ErrAuthorNotFound)
	})

	t.Run("作者的图书", func(t *testing.T) {
		uc := appcatalog.NewListAuthorBooksUseCase(f.env.Authors, f.env.Catalog, f.env.Catalogs)
		got, err := uc.Execute(ctx, appcatalog.ListAuthorBooksRequest{AuthorID: f.tolkien})
		require.NoError(t, err)
		assert.Equal(t, []uint{f.lotr, f.hobbit}, ids(got.Items), "最新在前")

		_, err = uc.Execute(ctx, appcatalog.ListAuthorBooksRequest{AuthorID: 999})
		assert.ErrorIs(t, err, apperrors.ErrAuthorNotFound)
	})

	t.Run("出版社", func(t *testing.T) {
		got, err := appcatalog.NewListPublishersUseCase(f.env.Publishers).Execute(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "企鹅出版社", got[0].Name)
	})
}

func TestCachedReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("分类未命中时查询并回填", func(t *testing.T) {
		cache := catalogmocks.NewMockCache(gomock.NewController(t))
		cache.EXPECT().Genres(gomock.Any()).Return(nil, false, nil)
		cache.EXPECT().SetGenres(gomock.Any(), []string{"Children", "Fantasy"}, f.env.Catalogs.GenresCacheTTL).Return(nil)

		got, err := appcatalog.NewListGenresUseCase(f.env.Catalog, cache, f.env.Catalogs, logger).Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Children", "Fantasy"}, got)
	})

	t.Run("分类命中不查库", func(t *testing.T) {
		cache := catalogmocks.NewMockCache(gomock.NewController(t))
		cache.EXPECT().Genres(gomock.Any()).Return([]string{"Cached"}, true, nil)

		got, err := appcatalog.NewListGenresUseCase(f.env.Catalog, cache, f.env.Catalogs, logger).Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Cached"}, got)
	})

	t.Run("缓存故障降级查库", func(t *testing.T) {
		cache := catalogmocks.NewMockCache(gomock.NewController(t))
		cache.EXPECT().TopFavorites(gomock.Any(), 10).Return(nil, false, errors.New("redis down"))
		cache.EXPECT().SetTopFavorites(gomock.Any(), 10, gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		got, err := appcatalog.NewTopFavoritesUseCase(f.env.Catalog, cache, f.env.Catalogs, logger).Execute(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []uint{f.hobbit, f.potter}, ids(got), "至少收藏一次，按收藏数降序")
	})

	t.Run("命中后填充当前用户收藏状态", func(t *testing.T) {
		viewer := f.env.UserPrincipal(t, "viewer")
		rdbtest.Favorite(t, f.env.DB, viewer.UserID, f.potter)

		cache := catalogmocks.NewMockCache(gomock.NewController(t))
		cache.EXPECT().TopFavorites(gomock.Any(), 10).Return([]uint{f.hobbit, f.potter}, true, nil)

		got, err := appcatalog.NewTopFavoritesUseCase(f.env.Catalog, cache, f.env.Catalogs, logger).Execute(ctx, viewer)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.False(t, got[0].IsFavorited)
		assert.True(t, got[1].IsFavorited)
	})

	t.Run("未命中时缓存排好序的ID", func(t *testing.T) {
		cache := catalogmocks.NewMockCache(gomock.NewController(t))
		cache.EXPECT().TopFavorites(gomock.Any(), 10).Return(nil, false, nil)
		cache.EXPECT().SetTopFavorites(gomock.Any(), 10, []uint{f.hobbit, f.potter}, f.env.Catalogs.TopFavCacheTTL).Return(nil)

		_, err := appcatalog.NewTopFavoritesUseCase(f.env.Catalog, cache, f.env.Catalogs, logger).Execute(ctx, nil)
		require.NoError(t, err)
	})

	t.Run("命中后评分和评论数重新计算", func(t *testing.T) {
		critic := rdbtest.User(t, f.env.DB, "critic")
		rdbtest.Review(t, f.env.DB, f.potter, critic, 2)

		cache := catalogmocks.NewMockCache(gomock.NewController(t))
		cache.EXPECT().TopFavorites(gomock.Any(), 10).Return([]uint{f.potter, 999999, f.hobbit}, true, nil)

		got, err := appcatalog.NewTopFavoritesUseCase(f.env.Catalog, cache, f.env.Catalogs, logger).Execute(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []uint{f.potter, f.hobbit}, ids(got), "保持缓存顺序，不存在的ID跳过")
		assert.Equal(t, int64(1), got[0].ReviewCount)
		assert.InDelta(t, 2.0, got[0].AverageRating, 0.001)
		assert.Equal(t, "J.K. Rowling", got[0].AuthorName)
		t.Logf("✓ 缓存命中返回最新聚合: rating=%.1f reviews=%d", got[0].AverageRating, got[0].ReviewCount)
	})
}
