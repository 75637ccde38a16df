package review

import (
	"context"

	"github.com/xiebiao/sbooks/internal/domain/shared"
)

// Repository 评论仓储，评论不存在时返回errors.ErrReviewNotFound
type Repository interface {
	FindByID(ctx context.Context, id uint) (*Review, error)

	// LockByID 行锁读取（SELECT ... FOR UPDATE），必须在事务内调用
	LockByID(ctx context.Context, id uint) (*Review, error)

	// FindTopLevel 用户对图书的顶层评论
	FindTopLevel(ctx context.Context, bookID, userID uint) (*Review, error)

	// Create 违反顶层评论唯一约束时返回errors.ErrDuplicateEntry
	Create(ctx context.Context, r *Review) error

	// Update 更新评分、内容、更新时间
	Update(ctx context.Context, r *Review) error

	// DeleteTree 删除评论及其所有后代回复和相关投票，返回删除的评论数
	DeleteTree(ctx context.Context, id uint) (int64, error)

	// ListByBook 一次查询取出图书的全部评论（含回复）
	ListByBook(ctx context.Context, bookID uint) ([]View, error)

	// ListByUser 用户的评论历史，最新在前
	ListByUser(ctx context.Context, userID uint, page shared.Page) ([]UserReview, int64, error)

	// FindVote 没有投票时返回nil, nil
	FindVote(ctx context.Context, userID, reviewID uint) (*Vote, error)
	CreateVote(ctx context.Context, v *Vote) error
	UpdateVote(ctx context.Context, v *Vote) error
	DeleteVote(ctx context.Context, userID, reviewID uint) error

	// AdjustCounters 原子调整计数，结果不小于0
	AdjustCounters(ctx context.Context, reviewID uint, likeDelta, dislikeDelta int) error

	RatingSummary(ctx context.Context, bookID uint) (*RatingSummary, error)

	// VotesByUser 用户在给定评论上的投票
	VotesByUser(ctx context.Context, userID uint, reviewIDs []uint) (map[uint]VoteType, error)

	// RecountVotes 按投票表重算计数
	RecountVotes(ctx context.Context, reviewID uint) error
}
