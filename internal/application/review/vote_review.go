package review

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/pkg/metrics"
	"github.com/xiebiao/sbooks/pkg/tracing"
)

// VoteReviewUseCase 点赞/点踩
// 重复投同一类型表示取消，投相反类型表示改投
type VoteReviewUseCase struct {
	reviews review.Service
}

func NewVoteReviewUseCase(reviews review.Service) *VoteReviewUseCase {
	return &VoteReviewUseCase{reviews: reviews}
}

// VoteReviewRequest Type取值like/dislike
type VoteReviewRequest struct {
	ReviewID uint
	Type     string
	Actor    *identity.Principal
}

// VoteReviewResponse 投票后的计数与当前用户的投票状态
type VoteReviewResponse struct {
	ReviewID     uint   `json:"review_id"`
	Vote         string `json:"vote"` // none | like | dislike
	LikeCount    int64  `json:"like_count"`
	DislikeCount int64  `json:"dislike_count"`
}

func (uc *VoteReviewUseCase) Execute(ctx context.Context, req VoteReviewRequest) (resp *VoteReviewResponse, err error) {
	userID, err := identity.RequireUser(req.Actor)
	if err != nil {
		return nil, err
	}
	desired, err := review.ParseVoteType(req.Type)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "review.Vote",
		attribute.Int("review_id", int(req.ReviewID)),
		attribute.String("vote", req.Type),
	)
	defer func() { tracing.End(span, err) }()

	res, err := uc.reviews.Vote(ctx, req.ReviewID, userID, desired)
	if err != nil {
		return nil, err
	}
	metrics.IncCounterVec(metrics.ReviewVotesTotal, map[string]string{
		"transition": review.TransitionLabel(res.Previous, res.Current),
	})

	return &VoteReviewResponse{
		ReviewID:     res.ReviewID,
		Vote:         res.Current.String(),
		LikeCount:    res.LikeCount,
		DislikeCount: res.DislikeCount,
	}, nil
}
