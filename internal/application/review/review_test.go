package review_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/sbooks/internal/application/apptest"
	"github.com/xiebiao/sbooks/internal/application/review"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/rdb"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

func TestSubmitAndReply(t *testing.T) {
	env := apptest.New(t)
	ctx := context.Background()
	alice := env.UserPrincipal(t, "alice")
	bob := env.UserPrincipal(t, "bob")
	bookID := env.Book(t, rdb.BookModel{Title: "三体"})

	submit := review.NewSubmitReviewUseCase(env.Reviews, env.Recorder)
	reply := review.NewReplyReviewUseCase(env.Reviews, env.Recorder)

	t.Run("匿名提交被拒绝", func(t *testing.T) {
		_, err := submit.Execute(ctx, review.SubmitReviewRequest{BookID: bookID, Rating: 5})
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("提交两次只保留一条", func(t *testing.T) {
		first, err := submit.Execute(ctx, review.SubmitReviewRequest{BookID: bookID, Rating: 3, Comment: "一般", Actor: alice})
		require.NoError(t, err)
		assert.True(t, first.Created)

		second, err := submit.Execute(ctx, review.SubmitReviewRequest{BookID: bookID, Rating: 5, Comment: "重读后改观", Actor: alice})
		require.NoError(t, err)
		assert.False(t, second.Created)
		assert.Equal(t, first.Review.ID, second.Review.ID)
		assert.Equal(t, 5, *second.Review.Rating)

		var n int64
		require.NoError(t, env.DB.Model(&rdb.ReviewModel{}).Where("book_id = ?", bookID).Count(&n).Error)
		assert.Equal(t, int64(1), n)
	})

	t.Run("评分越界不修改数据", func(t *testing.T) {
		_, err := submit.Execute(ctx, review.SubmitReviewRequest{BookID: bookID, Rating: 6, Actor: alice})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))

		var m rdb.ReviewModel
		require.NoError(t, env.DB.Where("book_id = ? AND user_id = ?", bookID, alice.UserID).First(&m).Error)
		assert.Equal(t, 5, *m.Rating)
	})

	t.Run("图书不存在", func(t *testing.T) {
		_, err := submit.Execute(ctx, review.SubmitReviewRequest{BookID: 999, Rating: 4, Actor: alice})
		assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
	})

	t.Run("回复", func(t *testing.T) {
		var parent rdb.ReviewModel
		require.NoError(t, env.DB.Where("user_id = ?", alice.UserID).First(&parent).Error)

		got, err := reply.Execute(ctx, review.ReplyReviewRequest{ParentID: parent.ID, Comment: " 同意 ", Actor: bob})
		require.NoError(t, err)
		assert.Equal(t, bookID, got.BookID)
		assert.Equal(t, "同意", got.Comment)
		assert.Nil(t, got.Rating)

		_, err = reply.Execute(ctx, review.ReplyReviewRequest{ParentID: parent.ID, Comment: "   ", Actor: bob})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))

		_, err = reply.Execute(ctx, review.ReplyReviewRequest{ParentID: 999, Comment: "hi", Actor: bob})
		assert.ErrorIs(t, err, apperrors.ErrReviewNotFound)
	})

	env.Recorder.Wait()
	n, err := env.AuditRepo.CountActivities(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "两次提交各记录一条活动")
}

func TestVoteSequence(t *testing.T) {
	env := apptest.New(t)
	ctx := context.Background()
	author := env.UserPrincipal(t, "author")
	voter := env.UserPrincipal(t, "voter")
	bookID := env.Book(t, rdb.BookModel{Title: "活着"})

	res, err := review.NewSubmitReviewUseCase(env.Reviews, env.Recorder).
		Execute(ctx, review.SubmitReviewRequest{BookID: bookID, Rating: 4, Actor: author})
	require.NoError(t, err)
	reviewID := res.Review.ID

	vote := review.NewVoteReviewUseCase(env.Reviews)
	steps := []struct {
		typ      string
		vote     string
		likes    int64
		dislikes int64
	}{
		{"like", "like", 1, 0},
		{"dislike", "dislike", 0, 1},
		{"dislike", "none", 0, 0},
	}
	for _, s := range steps {
		got, err := vote.Execute(ctx, review.VoteReviewRequest{ReviewID: reviewID, Type: s.typ, Actor: voter})
		require.NoError(t, err)
		assert.Equal(t, s.vote, got.Vote)
		assert.Equal(t, s.likes, got.LikeCount)
		assert.Equal(t, s.dislikes, got.DislikeCount)
	}

	var votes int64
	require.NoError(t, env.DB.Model(&rdb.ReviewVoteModel{}).Where("review_id = ?", reviewID).Count(&votes).Error)
	assert.Zero(t, votes)

	t.Run("非法投票类型", func(t *testing.T) {
		_, err := vote.Execute(ctx, review.VoteReviewRequest{ReviewID: reviewID, Type: "love", Actor: voter})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
	})

	t.Run("评论不存在", func(t *testing.T) {
		_, err := vote.Execute(ctx, review.VoteReviewRequest{ReviewID: 999, Type: "like", Actor: voter})
		assert.ErrorIs(t, err, apperrors.ErrReviewNotFound)
	})

	t.Run("匿名投票", func(t *testing.T) {
		_, err := vote.Execute(ctx, review.VoteReviewRequest{ReviewID: reviewID, Type: "like"})
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestDeleteAndList(t *testing.T) {
	env := apptest.New(t)
	ctx := context.Background()
	owner := env.UserPrincipal(t, "owner")
	other := env.UserPrincipal(t, "other")
	admin := env.AdminPrincipal(t, "admin")
	bookID := env.Book(t, rdb.BookModel{Title: "围城"})

	submit := review.NewSubmitReviewUseCase(env.Reviews, env.Recorder)
	reply := review.NewReplyReviewUseCase(env.Reviews, env.Recorder)
	list := review.NewListBookReviewsUseCase(env.Reviews, env.Books)
	del := review.NewDeleteReviewUseCase(env.Reviews)

	root, err := submit.Execute(ctx, review.SubmitReviewRequest{BookID: bookID, Rating: 5, Actor: owner})
	require.NoError(t, err)
	r1, err := reply.Execute(ctx, review.ReplyReviewRequest{ParentID: root.Review.ID, Comment: "第一条回复", Actor: other})
	require.NoError(t, err)
	_, err = reply.Execute(ctx, review.ReplyReviewRequest{ParentID: root.Review.ID, Comment: "第二条回复", Actor: owner})
	require.NoError(t, err)
	_, err = review.NewVoteReviewUseCase(env.Reviews).Execute(ctx, review.VoteReviewRequest{ReviewID: r1.ID, Type: "like", Actor: owner})
	require.NoError(t, err)

	t.Run("评论树与当前用户投票", func(t *testing.T) {
		got, err := list.Execute(ctx, review.ListBookReviewsRequest{BookID: bookID, Viewer: owner})
		require.NoError(t, err)
		require.Len(t, got.Reviews, 1)
		assert.Equal(t, int64(1), got.Summary.Count)
		assert.InDelta(t, 5.0, got.Summary.Average, 1e-9)

		replies := got.Reviews[0].Replies
		require.Len(t, replies, 2)
		assert.Equal(t, "第一条回复", replies[0].Comment)
		assert.Equal(t, "other", replies[0].Username)
		assert.Equal(t, "like", replies[0].ViewerVote)
		assert.Equal(t, "none", replies[1].ViewerVote)
	})

	t.Run("匿名查看", func(t *testing.T) {
		got, err := list.Execute(ctx, review.ListBookReviewsRequest{BookID: bookID})
		require.NoError(t, err)
		assert.Equal(t, "none", got.Reviews[0].Replies[0].ViewerVote)

		_, err = list.Execute(ctx, review.ListBookReviewsRequest{BookID: 999})
		assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
	})

	t.Run("他人不能删除", func(t *testing.T) {
		_, err := del.Execute(ctx, review.DeleteReviewRequest{ReviewID: root.Review.ID, Actor: other})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("管理员删除父评论连同回复", func(t *testing.T) {
		got, err := del.Execute(ctx, review.DeleteReviewRequest{ReviewID: root.Review.ID, Actor: admin})
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Deleted)

		var n int64
		require.NoError(t, env.DB.Model(&rdb.ReviewModel{}).Count(&n).Error)
		assert.Zero(t, n)
		require.NoError(t, env.DB.Model(&rdb.ReviewVoteModel{}).Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("未登录删除", func(t *testing.T) {
		_, err := del.Execute(ctx, review.DeleteReviewRequest{ReviewID: 1, Actor: &identity.Principal{}})
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}
