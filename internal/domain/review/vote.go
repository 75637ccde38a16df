package review

import (
	"time"

	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// VoteType 投票方向
type VoteType int8

const (
	VoteNone    VoteType = 0
	VoteLike    VoteType = 1
	VoteDislike VoteType = -1
)

func (v VoteType) String() string {
	switch v {
	case VoteLike:
		return "like"
	case VoteDislike:
		return "dislike"
	default:
		return "none"
	}
}

// ParseVoteType 解析like/dislike
func ParseVoteType(s string) (VoteType, error) {
	switch s {
	case "like":
		return VoteLike, nil
	case "dislike":
		return VoteDislike, nil
	default:
		return VoteNone, apperrors.Invalid("投票类型必须是like或dislike")
	}
}

// Vote 用户对评论的投票，(UserID, ReviewID)唯一
type Vote struct {
	UserID    uint
	ReviewID  uint
	Type      VoteType
	CreatedAt time.Time
}

// Transition 投票状态机
//
//	当前   期望     结果     like  dislike
//	none   like     like     +1    0
//	none   dislike  dislike  0     +1
//	like   like     none     -1    0
//	like   dislike  dislike  -1    +1
//	(dislike对称)
func Transition(current, desired VoteType) (next VoteType, likeDelta, dislikeDelta int) {
	switch {
	case current == desired:
		next = VoteNone
	default:
		next = desired
	}

	likeDelta = delta(current, next, VoteLike)
	dislikeDelta = delta(current, next, VoteDislike)
	return next, likeDelta, dislikeDelta
}

func delta(from, to, kind VoteType) int {
	d := 0
	if from == kind {
		d--
	}
	if to == kind {
		d++
	}
	return d
}

// TransitionLabel 指标标签，如none_to_like
func TransitionLabel(from, to VoteType) string {
	return from.String() + "_to_" + to.String()
}
