package review

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	appaudit "github.com/xiebiao/sbooks/internal/application/audit"
	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/pkg/metrics"
	"github.com/xiebiao/sbooks/pkg/tracing"
)

// SubmitReviewUseCase 提交或修改顶层评论（每人每书一条）
type SubmitReviewUseCase struct {
	reviews  review.Service
	recorder *appaudit.Recorder
}

// NewSubmitReviewUseCase 创建提交评论用例
func NewSubmitReviewUseCase(reviews review.Service, recorder *appaudit.Recorder) *SubmitReviewUseCase {
	return &SubmitReviewUseCase{reviews: reviews, recorder: recorder}
}

// SubmitReviewRequest 提交评论请求
type SubmitReviewRequest struct {
	BookID  uint
	Rating  int
	Comment string
	Actor   *identity.Principal
}

// SubmitReviewResponse 提交评论响应，Created=false表示覆盖了原评论
type SubmitReviewResponse struct {
	Review  ReviewInfo `json:"review"`
	Created bool       `json:"created"`
}

// Execute 执行提交
func (uc *SubmitReviewUseCase) Execute(ctx context.Context, req SubmitReviewRequest) (resp *SubmitReviewResponse, err error) {
	userID, err := identity.RequireUser(req.Actor)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "review.Submit", attribute.Int("book_id", int(req.BookID)))
	defer func() { tracing.End(span, err) }()

	res, err := uc.reviews.Submit(ctx, req.BookID, userID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	action := "update"
	if res.Created {
		action = "create"
	}
	metrics.IncCounterVec(metrics.ReviewWritesTotal, map[string]string{"action": action})
	uc.recorder.Activity(ctx, userID, audit.ActivityReview, fmt.Sprintf("%s review on book %d", action, req.BookID))

	return &SubmitReviewResponse{Review: NewReviewInfo(res.Review), Created: res.Created}, nil
}
