package review

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRating(t *testing.T) {
	for _, r := range []int{1, 3, 5} {
		assert.NoError(t, ValidateRating(r))
	}
	for _, r := range []int{0, 6, -1} {
		assert.Error(t, ValidateRating(r))
	}
}

func TestNormalizeComment(t *testing.T) {
	t.Run("回复要求非空", func(t *testing.T) {
		_, err := NormalizeComment("  \t\n", true)
		assert.Error(t, err)
	})

	t.Run("顶层评论允许为空", func(t *testing.T) {
		c, err := NormalizeComment("   ", false)
		require.NoError(t, err)
		assert.Empty(t, c)
	})

	t.Run("超长", func(t *testing.T) {
		_, err := NormalizeComment(strings.Repeat("书", 2001), false)
		assert.Error(t, err)
	})
}

func TestNewRatingSummary(t *testing.T) {
	t.Run("5,3,4平均为4", func(t *testing.T) {
		s := NewRatingSummary(map[int]int64{5: 1, 3: 1, 4: 1}, 3)
		assert.InDelta(t, 4.0, s.Average, 1e-9)
		assert.Equal(t, int64(3), s.Count)
		assert.Equal(t, int64(0), s.Distribution[1])
		assert.Len(t, s.Distribution, 5)
	})

	t.Run("无评分为0", func(t *testing.T) {
		s := NewRatingSummary(nil, 0)
		assert.Zero(t, s.Average)
	})
}

func TestNewReply(t *testing.T) {
	parent := NewTopLevel(7, 1, 5, "好书")
	parent.ID = 42

	reply := NewReply(parent, 2, "同意")
	assert.Equal(t, uint(7), reply.BookID)
	require.NotNil(t, reply.ParentReviewID)
	assert.Equal(t, uint(42), *reply.ParentReviewID)
	assert.Nil(t, reply.Rating)
	assert.False(t, reply.IsTopLevel())
}

func TestBuildThreads(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	id := func(v uint) *uint { return &v }
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	views := []View{
		{Review: Review{ID: 1, CreatedAt: at(0)}},
		{Review: Review{ID: 2, CreatedAt: at(10)}},
		{Review: Review{ID: 3, ParentReviewID: id(1), CreatedAt: at(5)}},
		{Review: Review{ID: 4, ParentReviewID: id(1), CreatedAt: at(2)}},
		{Review: Review{ID: 5, ParentReviewID: id(3), CreatedAt: at(6)}},
		{Review: Review{ID: 6, ParentReviewID: id(99), CreatedAt: at(7)}},
	}
	roots := BuildThreads(views, map[uint]VoteType{3: VoteLike})

	require.Len(t, roots, 2)
	assert.Equal(t, uint(2), roots[0].ID, "顶层评论最新在前")
	assert.Equal(t, uint(1), roots[1].ID)

	replies := roots[1].Replies
	require.Len(t, replies, 2)
	assert.Equal(t, uint(4), replies[0].ID, "回复按时间正序")
	assert.Equal(t, uint(3), replies[1].ID)
	assert.Equal(t, VoteLike, replies[1].ViewerVote)

	require.Len(t, replies[1].Replies, 1)
	assert.Equal(t, uint(5), replies[1].Replies[0].ID)

	assert.Empty(t, BuildThreads(nil, nil))
}
