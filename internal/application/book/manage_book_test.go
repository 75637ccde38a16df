package book_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/xiebiao/sbooks/internal/application/apptest"
	appbook "github.com/xiebiao/sbooks/internal/application/book"
	"github.com/xiebiao/sbooks/internal/domain/catalog"
	catalogmocks "github.com/xiebiao/sbooks/internal/domain/catalog/mocks"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb/rdbtest"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

func TestManageBook(t *testing.T) {
	env := apptest.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	cache := catalogmocks.NewMockCache(ctrl)

	admin := env.AdminPrincipal(t, "admin")
	reader := env.UserPrincipal(t, "reader")
	authorID := rdbtest.Author(t, env.DB, "刘慈欣")
	uc := appbook.NewManageBookUseCase(env.Books, cache, env.Recorder, zap.NewNop())

	t.Run("普通用户无权限", func(t *testing.T) {
		_, err := uc.Create(ctx, reader, appbook.BookRequest{Title: "三体"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		_, err = uc.Create(ctx, nil, appbook.BookRequest{Title: "三体"})
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	var bookID uint
	t.Run("新增图书清除缓存", func(t *testing.T) {
		cache.EXPECT().Invalidate(gomock.Any()).Return(nil)
		info, err := uc.Create(ctx, admin, appbook.BookRequest{
			Title: "  三体 ", Genre: "科幻", Price: 2300, PublishedYear: 2008, AuthorID: &authorID,
		})
		require.NoError(t, err)
		assert.Equal(t, "三体", info.Title)
		require.NotNil(t, info.CreatedBy)
		assert.Equal(t, admin.UserID, *info.CreatedBy)
		bookID = info.ID
	})

	t.Run("作者不存在", func(t *testing.T) {
		missing := uint(999)
		_, err := uc.Create(ctx, admin, appbook.BookRequest{Title: "球状闪电", AuthorID: &missing})
		assert.ErrorIs(t, err, apperrors.ErrAuthorNotFound)
	})

	t.Run("修改图书时缓存失败不影响结果", func(t *testing.T) {
		cache.EXPECT().Invalidate(gomock.Any()).Return(errors.New("redis down"))
		info, err := uc.Update(ctx, admin, bookID, appbook.BookRequest{Title: "三体I", Genre: "科幻", Price: 2500})
		require.NoError(t, err)
		assert.Equal(t, int64(2500), info.Price)
		assert.Nil(t, info.AuthorID)
	})

	t.Run("删除图书级联删除评论和收藏", func(t *testing.T) {
		reviewID := rdbtest.Review(t, env.DB, bookID, reader.UserID, 5)
		rdbtest.Reply(t, env.DB, reviewID, bookID, admin.UserID)
		rdbtest.Favorite(t, env.DB, reader.UserID, bookID)

		cache.EXPECT().Invalidate(gomock.Any()).Return(nil)
		require.NoError(t, uc.Delete(ctx, admin, bookID))

		var n int64
		require.NoError(t, env.DB.Model(&rdb.ReviewModel{}).Where("book_id = ?", bookID).Count(&n).Error)
		assert.Zero(t, n)
		require.NoError(t, env.DB.Model(&rdb.FavoriteModel{}).Where("book_id = ?", bookID).Count(&n).Error)
		assert.Zero(t, n)

		assert.ErrorIs(t, uc.Delete(ctx, admin, bookID), apperrors.ErrBookNotFound)
	})

	env.Recorder.Wait()
	n, err := env.AuditRepo.CountActivities(ctx, admin.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	t.Logf("✓ 管理员活动: %d", n)
}

func TestManageBook_NopCache(t *testing.T) {
	env := apptest.New(t)
	admin := env.AdminPrincipal(t, "admin")
	uc := appbook.NewManageBookUseCase(env.Books, catalog.NopCache{}, env.Recorder, zap.NewNop())

	_, err := uc.Create(context.Background(), admin, appbook.BookRequest{Title: "", Price: 100})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))

	_, err = uc.Create(context.Background(), admin, appbook.BookRequest{Title: "负价格", Price: -1})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
}
