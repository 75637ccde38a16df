package rdb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/sbooks/internal/domain/book"
	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb/rdbtest"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

func TestBookRepository_CRUD(t *testing.T) {
	db := rdbtest.New(t)
	repo := rdb.NewBookRepository(db)
	ctx := context.Background()

	authorID := rdbtest.Author(t, db, "Rob Pike")
	b := book.NewBook(book.Input{Title: "The Go Programming Language", Genre: "Programming", Price: 7900, AuthorID: &authorID}, 1)
	require.NoError(t, repo.Create(ctx, b))
	require.NotZero(t, b.ID)

	t.Run("Update可以清空作者", func(t *testing.T) {
		b.Apply(book.Input{Title: "TGPL", Genre: "Programming", Price: 8900})
		require.NoError(t, repo.Update(ctx, b))

		got, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "TGPL", got.Title)
		assert.Nil(t, got.AuthorID)
		require.NotNil(t, got.CreatedBy)
		assert.Equal(t, uint(1), *got.CreatedBy)
	})

	t.Run("浏览次数原子加一", func(t *testing.T) {
		require.NoError(t, repo.IncrementViewCount(ctx, b.ID))
		require.NoError(t, repo.IncrementViewCount(ctx, b.ID))
		got, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.ViewCount)

		assert.ErrorIs(t, repo.IncrementViewCount(ctx, 9999), apperrors.ErrBookNotFound)
	})

	t.Run("Exists", func(t *testing.T) {
		ok, err := repo.Exists(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists(ctx, 9999)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestBookRepository_DeleteCascade(t *testing.T) {
	db := rdbtest.New(t)
	repo := rdb.NewBookRepository(db)
	reviews := rdb.NewReviewRepository(db)
	tx := rdb.NewTxManager(db)
	ctx := context.Background()

	target := rdbtest.Book(t, db, rdb.BookModel{Title: "待删除"})
	kept := rdbtest.Book(t, db, rdb.BookModel{Title: "保留"})

	r1 := rdbtest.Review(t, db, target, 1, 5)
	rdbtest.Reply(t, db, r1, target, 2)
	r2 := rdbtest.Review(t, db, kept, 1, 4)
	require.NoError(t, reviews.CreateVote(ctx, &review.Vote{UserID: 2, ReviewID: r1, Type: review.VoteLike}))
	require.NoError(t, reviews.CreateVote(ctx, &review.Vote{UserID: 2, ReviewID: r2, Type: review.VoteLike}))
	rdbtest.Favorite(t, db, 1, target)
	rdbtest.Favorite(t, db, 1, kept)

	require.NoError(t, tx.Transaction(ctx, func(ctx context.Context) error {
		return repo.Delete(ctx, target)
	}))

	count := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), count(&rdb.BookModel{}))
	assert.Equal(t, int64(1), count(&rdb.ReviewModel{}))
	assert.Equal(t, int64(1), count(&rdb.ReviewVoteModel{}))
	assert.Equal(t, int64(1), count(&rdb.FavoriteModel{}))

	err := tx.Transaction(ctx, func(ctx context.Context) error {
		return repo.Delete(ctx, target)
	})
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func TestTxManager_Rollback(t *testing.T) {
	db := rdbtest.New(t)
	repo := rdb.NewBookRepository(db)
	tx := rdb.NewTxManager(db)
	ctx := context.Background()

	err := tx.Transaction(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, book.NewBook(book.Input{Title: "回滚"}, 0)); err != nil {
			return err
		}
		return apperrors.ErrDependencyExists
	})
	assert.ErrorIs(t, err, apperrors.ErrDependencyExists)

	var n int64
	require.NoError(t, db.Model(&rdb.BookModel{}).Count(&n).Error)
	assert.Zero(t, n, "事务内的写入应全部回滚")
}
