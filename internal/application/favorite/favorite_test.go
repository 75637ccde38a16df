package favorite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/xiebiao/sbooks/internal/application/apptest"
	"github.com/xiebiao/sbooks/internal/application/favorite"
	catalogmocks "github.com/xiebiao/sbooks/internal/domain/catalog/mocks"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

func TestToggleFavorite(t *testing.T) {
	env := apptest.New(t)
	ctx := context.Background()
	alice := env.UserPrincipal(t, "alice")
	bookID := env.Book(t, rdb.BookModel{Title: "平凡的世界"})

	cache := catalogmocks.NewMockCache(gomock.NewController(t))
	toggle := favorite.NewToggleFavoriteUseCase(env.Favorites, cache, env.Recorder, zap.NewNop())

	count := func() int64 {
		var n int64
		require.NoError(t, env.DB.Model(&rdb.FavoriteModel{}).Where("user_id = ? AND book_id = ?", alice.UserID, bookID).Count(&n).Error)
		return n
	}

	t.Run("奇数次后已收藏，偶数次后未收藏", func(t *testing.T) {
		cache.EXPECT().Invalidate(gomock.Any()).Return(nil).Times(5)
		for i := 1; i <= 5; i++ {
			got, err := toggle.Execute(ctx, favorite.ToggleFavoriteRequest{BookID: bookID, Actor: alice})
			require.NoError(t, err)
			assert.Equal(t, i%2 == 1, got.Favorited)
			assert.Equal(t, int64(i%2), count())
		}
	})

	t.Run("缓存清除失败不影响结果", func(t *testing.T) {
		cache.EXPECT().Invalidate(gomock.Any()).Return(errors.New("redis down"))
		got, err := toggle.Execute(ctx, favorite.ToggleFavoriteRequest{BookID: bookID, Actor: alice})
		require.NoError(t, err)
		assert.False(t, got.Favorited)
	})

	t.Run("图书不存在返回NotFound", func(t *testing.T) {
		_, err := toggle.Execute(ctx, favorite.ToggleFavoriteRequest{BookID: 999, Actor: alice})
		assert.ErrorIs(t, err, apperrors.ErrBookNotFound)

		var n int64
		require.NoError(t, env.DB.Model(&rdb.FavoriteModel{}).Where("book_id = ?", 999).Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("匿名不能收藏", func(t *testing.T) {
		_, err := toggle.Execute(ctx, favorite.ToggleFavoriteRequest{BookID: bookID})
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestRemoveFavorite(t *testing.T) {
	env := apptest.New(t)
	ctx := context.Background()
	bob := env.UserPrincipal(t, "bob")
	bookID := env.Book(t, rdb.BookModel{Title: "红楼梦"})

	cache := catalogmocks.NewMockCache(gomock.NewController(t))
	cache.EXPECT().Invalidate(gomock.Any()).Return(nil).AnyTimes()
	toggle := favorite.NewToggleFavoriteUseCase(env.Favorites, cache, env.Recorder, zap.NewNop())
	remove := favorite.NewRemoveFavoriteUseCase(env.Favorites, cache, zap.NewNop())

	_, err := toggle.Execute(ctx, favorite.ToggleFavoriteRequest{BookID: bookID, Actor: bob})
	require.NoError(t, err)

	require.NoError(t, remove.Execute(ctx, favorite.ToggleFavoriteRequest{BookID: bookID, Actor: bob}))
	require.NoError(t, remove.Execute(ctx, favorite.ToggleFavoriteRequest{BookID: bookID, Actor: bob}), "未收藏时不报错")

	var n int64
	require.NoError(t, env.DB.Model(&rdb.FavoriteModel{}).Count(&n).Error)
	assert.Zero(t, n)
}
