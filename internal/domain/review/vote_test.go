package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		name         string
		current      VoteType
		desired      VoteType
		next         VoteType
		like, unlike int
	}{
		{"无投票点赞", VoteNone, VoteLike, VoteLike, 1, 0},
		{"无投票点踩", VoteNone, VoteDislike, VoteDislike, 0, 1},
		{"再次点赞取消", VoteLike, VoteLike, VoteNone, -1, 0},
		{"再次点踩取消", VoteDislike, VoteDislike, VoteNone, 0, -1},
		{"点赞改点踩", VoteLike, VoteDislike, VoteDislike, -1, 1},
		{"点踩改点赞", VoteDislike, VoteLike, VoteLike, 1, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, like, dislike := Transition(tc.current, tc.desired)
			assert.Equal(t, tc.next, next)
			assert.Equal(t, tc.like, like)
			assert.Equal(t, tc.unlike, dislike)
		})
	}
}

func TestTransition_SequenceNetZero(t *testing.T) {
	// like → dislike → none 计数净变化为0
	state := VoteNone
	var likes, dislikes int
	for _, desired := range []VoteType{VoteLike, VoteDislike, VoteDislike} {
		next, l, d := Transition(state, desired)
		state, likes, dislikes = next, likes+l, dislikes+d
	}
	assert.Equal(t, VoteNone, state)
	assert.Zero(t, likes)
	assert.Zero(t, dislikes)
}

func TestParseVoteType(t *testing.T) {
	v, err := ParseVoteType("like")
	require.NoError(t, err)
	assert.Equal(t, VoteLike, v)

	v, err = ParseVoteType("dislike")
	require.NoError(t, err)
	assert.Equal(t, VoteDislike, v)

	_, err = ParseVoteType("love")
	assert.Error(t, err)

	assert.Equal(t, "none_to_like", TransitionLabel(VoteNone, VoteLike))
}
