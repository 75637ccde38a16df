package review

import (
	"context"
	"fmt"

	appaudit "github.com/xiebiao/sbooks/internal/application/audit"
	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/pkg/metrics"
)

// ReplyReviewUseCase 回复评论
type ReplyReviewUseCase struct {
	reviews  review.Service
	recorder *appaudit.Recorder
}

func NewReplyReviewUseCase(reviews review.Service, recorder *appaudit.Recorder) *ReplyReviewUseCase {
	return &ReplyReviewUseCase{reviews: reviews, recorder: recorder}
}

type ReplyReviewRequest struct {
	ParentID uint
	Comment  string
	Actor    *identity.Principal
}

func (uc *ReplyReviewUseCase) Execute(ctx context.Context, req ReplyReviewRequest) (*ReviewInfo, error) {
	userID, err := identity.RequireUser(req.Actor)
	if err != nil {
		return nil, err
	}

	reply, err := uc.reviews.Reply(ctx, req.ParentID, userID, req.Comment)
	if err != nil {
		return nil, err
	}

	metrics.IncCounterVec(metrics.ReviewWritesTotal, map[string]string{"action": "reply"})
	uc.recorder.Activity(ctx, userID, audit.ActivityReply, fmt.Sprintf("reply to review %d", req.ParentID))

	info := NewReviewInfo(reply)
	return &info, nil
}
