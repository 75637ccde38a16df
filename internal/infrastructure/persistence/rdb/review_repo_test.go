package rdb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb/rdbtest"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

func TestReviewRepository_TopLevelUnique(t *testing.T) {
	db := rdbtest.New(t)
	repo := rdb.NewReviewRepository(db)
	ctx := context.Background()

	userID := rdbtest.User(t, db, "alice")
	bookID := rdbtest.Book(t, db, rdb.BookModel{Title: "Go语言圣经"})

	first := review.NewTopLevel(bookID, userID, 5, "很好")
	require.NoError(t, repo.Create(ctx, first))

	t.Run("同一用户对同一本书的第二条顶层评论违反唯一约束", func(t *testing.T) {
		err := repo.Create(ctx, review.NewTopLevel(bookID, userID, 3, "再来一条"))
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
	})

	t.Run("回复不受唯一约束限制", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, review.NewReply(first, userID, "补充一")))
		require.NoError(t, repo.Create(ctx, review.NewReply(first, userID, "补充二")))
	})

	t.Run("FindTopLevel", func(t *testing.T) {
		got, err := repo.FindTopLevel(ctx, bookID, userID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)

		_, err = repo.FindTopLevel(ctx, bookID, userID+100)
		assert.ErrorIs(t, err, apperrors.ErrReviewNotFound)
	})
}

func TestReviewRepository_AdjustCounters(t *testing.T) {
	db := rdbtest.New(t)
	repo := rdb.NewReviewRepository(db)
	ctx := context.Background()

	id := rdbtest.Review(t, db, 1, 1, 4)

	require.NoError(t, repo.AdjustCounters(ctx, id, 1, 1))
	require.NoError(t, repo.AdjustCounters(ctx, id, 1, 0))
	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.LikeCount)
	assert.Equal(t, int64(1), got.DislikeCount)

	t.Run("计数不会小于0", func(t *testing.T) {
		require.NoError(t, repo.AdjustCounters(ctx, id, -5, -1))
		require.NoError(t, repo.AdjustCounters(ctx, id, 0, -1))
		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, got.LikeCount)
		assert.Zero(t, got.DislikeCount)
	})

	t.Run("评论不存在", func(t *testing.T) {
		assert.ErrorIs(t, repo.AdjustCounters(ctx, 9999, 1, 0), apperrors.ErrReviewNotFound)
	})
}

func TestReviewRepository_DeleteTree(t *testing.T) {
	db := rdbtest.New(t)
	repo := rdb.NewReviewRepository(db)
	ctx := context.Background()

	root := rdbtest.Review(t, db, 1, 1, 5)
	a := rdbtest.Reply(t, db, root, 1, 2)
	rdbtest.Reply(t, db, root, 1, 3)
	rdbtest.Reply(t, db, a, 1, 1) // 回复的回复
	other := rdbtest.Review(t, db, 1, 2, 3)

	require.NoError(t, repo.CreateVote(ctx, &review.Vote{UserID: 2, ReviewID: a, Type: review.VoteLike}))
	require.NoError(t, repo.CreateVote(ctx, &review.Vote{UserID: 3, ReviewID: other, Type: review.VoteLike}))

	n, err := repo.DeleteTree(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n, "顶层评论及其三条后代回复都应删除")

	var remaining, votes int64
	require.NoError(t, db.Model(&rdb.ReviewModel{}).Count(&remaining).Error)
	require.NoError(t, db.Model(&rdb.ReviewVoteModel{}).Count(&votes).Error)
	assert.Equal(t, int64(1), remaining)
	assert.Equal(t, int64(1), votes, "其他评论的投票不受影响")

	_, err = repo.DeleteTree(ctx, root)
	assert.ErrorIs(t, err, apperrors.ErrReviewNotFound)
	t.Logf("✓ 删除评论树: %d条", n)
}

func TestReviewRepository_ListAndSummary(t *testing.T) {
	db := rdbtest.New(t)
	repo := rdb.NewReviewRepository(db)
	ctx := context.Background()

	alice := rdbtest.User(t, db, "alice")
	bob := rdbtest.User(t, db, "bob")
	carol := rdbtest.User(t, db, "carol")
	bookID := rdbtest.Book(t, db, rdb.BookModel{Title: "Redis设计与实现"})

	r1 := rdbtest.Review(t, db, bookID, alice, 5)
	rdbtest.Review(t, db, bookID, bob, 3)
	rdbtest.Review(t, db, bookID, carol, 4)
	rdbtest.Reply(t, db, r1, bookID, bob)

	t.Run("评分汇总只统计顶层评论", func(t *testing.T) {
		s, err := repo.RatingSummary(ctx, bookID)
		require.NoError(t, err)
		assert.InDelta(t, 4.0, s.Average, 1e-9)
		assert.Equal(t, int64(3), s.Count)
		assert.Equal(t, int64(1), s.Distribution[5])
		assert.Equal(t, int64(0), s.Distribution[1])
	})

	t.Run("没有评论的图书", func(t *testing.T) {
		s, err := repo.RatingSummary(ctx, 9999)
		require.NoError(t, err)
		assert.Zero(t, s.Average)
		assert.Zero(t, s.Count)
	})

	t.Run("ListByBook带用户名", func(t *testing.T) {
		views, err := repo.ListByBook(ctx, bookID)
		require.NoError(t, err)
		require.Len(t, views, 4)
		assert.Equal(t, "alice", views[0].Username)

		roots := review.BuildThreads(views, nil)
		require.Len(t, roots, 3)
	})

	t.Run("ListByUser带书名", func(t *testing.T) {
		items, total, err := repo.ListByUser(ctx, bob, shared.Page{Page: 1, PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, items, 1)
		assert.Equal(t, "Redis设计与实现", items[0].BookTitle)
	})
}

func TestReviewRepository_Votes(t *testing.T) {
	db := rdbtest.New(t)
	repo := rdb.NewReviewRepository(db)
	ctx := context.Background()

	r1 := rdbtest.Review(t, db, 1, 1, 5)
	r2 := rdbtest.Review(t, db, 1, 2, 4)

	v, err := repo.FindVote(ctx, 3, r1)
	require.NoError(t, err)
	assert.Nil(t, v, "没有投票时返回nil")

	require.NoError(t, repo.CreateVote(ctx, &review.Vote{UserID: 3, ReviewID: r1, Type: review.VoteLike}))
	require.NoError(t, repo.CreateVote(ctx, &review.Vote{UserID: 3, ReviewID: r2, Type: review.VoteDislike}))
	require.NoError(t, repo.CreateVote(ctx, &review.Vote{UserID: 4, ReviewID: r1, Type: review.VoteLike}))

	t.Run("重复投票违反主键", func(t *testing.T) {
		err := repo.CreateVote(ctx, &review.Vote{UserID: 3, ReviewID: r1, Type: review.VoteDislike})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
	})

	t.Run("修改投票方向", func(t *testing.T) {
		require.NoError(t, repo.UpdateVote(ctx, &review.Vote{UserID: 4, ReviewID: r1, Type: review.VoteDislike}))
		v, err := repo.FindVote(ctx, 4, r1)
		require.NoError(t, err)
		assert.Equal(t, review.VoteDislike, v.Type)
	})

	t.Run("VotesByUser", func(t *testing.T) {
		votes, err := repo.VotesByUser(ctx, 3, []uint{r1, r2, 999})
		require.NoError(t, err)
		assert.Equal(t, map[uint]review.VoteType{r1: review.VoteLike, r2: review.VoteDislike}, votes)

		empty, err := repo.VotesByUser(ctx, 3, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("RecountVotes按投票表重算", func(t *testing.T) {
		require.NoError(t, repo.RecountVotes(ctx, r1))
		got, err := repo.FindByID(ctx, r1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.LikeCount)
		assert.Equal(t, int64(1), got.DislikeCount)
	})

	t.Run("删除投票", func(t *testing.T) {
		require.NoError(t, repo.DeleteVote(ctx, 3, r1))
		v, err := repo.FindVote(ctx, 3, r1)
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}
