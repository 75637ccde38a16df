package review

import (
	"context"

	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/pkg/metrics"
)

// DeleteReviewUseCase 删除评论（作者本人或管理员），回复一并删除
type DeleteReviewUseCase struct {
	reviews review.Service
}

func NewDeleteReviewUseCase(reviews review.Service) *DeleteReviewUseCase {
	return &DeleteReviewUseCase{reviews: reviews}
}

type DeleteReviewRequest struct {
	ReviewID uint
	Actor    *identity.Principal
}

type DeleteReviewResponse struct {
	Deleted int64 `json:"deleted"` // 删除的评论数（含回复）
}

func (uc *DeleteReviewUseCase) Execute(ctx context.Context, req DeleteReviewRequest) (*DeleteReviewResponse, error) {
	n, err := uc.reviews.Delete(ctx, req.ReviewID, req.Actor)
	if err != nil {
		return nil, err
	}
	metrics.IncCounterVec(metrics.ReviewWritesTotal, map[string]string{"action": "delete"})
	return &DeleteReviewResponse{Deleted: n}, nil
}
