package review

import (
	"context"
	"errors"

	"github.com/ecodeclub/ekit/slice"

	"github.com/xiebiao/sbooks/internal/domain/book"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// SubmitResult 提交顶层评论的结果
type SubmitResult struct {
	Review  *Review
	Created bool // false表示覆盖了已有评论
}

// VoteResult 投票后的状态
type VoteResult struct {
	ReviewID     uint
	Previous     VoteType
	Current      VoteType
	LikeCount    int64
	DislikeCount int64
}

// Service 评论与投票引擎
type Service interface {
	// Submit 提交或覆盖用户对图书的顶层评论
	Submit(ctx context.Context, bookID, userID uint, rating int, comment string) (*SubmitResult, error)

	// Reply 回复评论，内容为空返回参数错误，父评论不存在返回NotFound
	Reply(ctx context.Context, parentID, userID uint, comment string) (*Review, error)

	// Vote 点赞/点踩切换
	Vote(ctx context.Context, reviewID, userID uint, desired VoteType) (*VoteResult, error)

	// Delete 评论作者或管理员可删除，连同所有回复一起删除
	Delete(ctx context.Context, reviewID uint, actor *identity.Principal) (int64, error)

	// Threads 图书的评论树，viewerID非0时附带其投票状态
	Threads(ctx context.Context, bookID, viewerID uint) ([]*Node, error)

	Summary(ctx context.Context, bookID uint) (*RatingSummary, error)

	ListByUser(ctx context.Context, userID uint, page shared.Page) ([]UserReview, int64, error)

	// Recount 按投票表修复计数
	Recount(ctx context.Context, reviewID uint) error
}

type service struct {
	repo  Repository
	books book.Repository
	tx    shared.Transactor
}

// NewService 创建评论服务
func NewService(repo Repository, books book.Repository, tx shared.Transactor) Service {
	return &service{repo: repo, books: books, tx: tx}
}

func (s *service) Submit(ctx context.Context, bookID, userID uint, rating int, comment string) (*SubmitResult, error) {
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	comment, err := NormalizeComment(comment, false)
	if err != nil {
		return nil, err
	}

	// 两个请求同时插入时，后提交的一方触发唯一约束，重新走一次更新分支
	var res *SubmitResult
	for attempt := 0; attempt < 2; attempt++ {
		res, err = s.upsert(ctx, bookID, userID, rating, comment)
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			break
		}
	}
	return res, err
}

func (s *service) upsert(ctx context.Context, bookID, userID uint, rating int, comment string) (*SubmitResult, error) {
	var res *SubmitResult
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.books.Exists(ctx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrBookNotFound
		}

		existing, err := s.repo.FindTopLevel(ctx, bookID, userID)
		switch {
		case err == nil:
			existing.Revise(rating, comment)
			if err := s.repo.Update(ctx, existing); err != nil {
				return err
			}
			res = &SubmitResult{Review: existing}
			return nil
		case !errors.Is(err, apperrors.ErrReviewNotFound):
			return err
		}

		r := NewTopLevel(bookID, userID, rating, comment)
		if err := s.repo.Create(ctx, r); err != nil {
			return err
		}
		res = &SubmitResult{Review: r, Created: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Reply(ctx context.Context, parentID, userID uint, comment string) (*Review, error) {
	comment, err := NormalizeComment(comment, true)
	if err != nil {
		return nil, err
	}

	var reply *Review
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		parent, err := s.repo.FindByID(ctx, parentID)
		if err != nil {
			return err
		}
		reply = NewReply(parent, userID, comment)
		return s.repo.Create(ctx, reply)
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *service) Vote(ctx context.Context, reviewID, userID uint, desired VoteType) (*VoteResult, error) {
	if desired != VoteLike && desired != VoteDislike {
		return nil, apperrors.Invalid("投票类型必须是like或dislike")
	}

	var res *VoteResult
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		// 锁住评论行，同一评论上的投票串行执行
		r, err := s.repo.LockByID(ctx, reviewID)
		if err != nil {
			return err
		}

		existing, err := s.repo.FindVote(ctx, userID, reviewID)
		if err != nil {
			return err
		}
		current := VoteNone
		if existing != nil {
			current = existing.Type
		}

		next, likeDelta, dislikeDelta := Transition(current, desired)
		switch {
		case next == VoteNone:
			err = s.repo.DeleteVote(ctx, userID, reviewID)
		case current == VoteNone:
			err = s.repo.CreateVote(ctx, &Vote{UserID: userID, ReviewID: reviewID, Type: next})
		default:
			existing.Type = next
			err = s.repo.UpdateVote(ctx, existing)
		}
		if err != nil {
			return err
		}

		if err := s.repo.AdjustCounters(ctx, reviewID, likeDelta, dislikeDelta); err != nil {
			return err
		}

		res = &VoteResult{
			ReviewID:     reviewID,
			Previous:     current,
			Current:      next,
			LikeCount:    max(0, r.LikeCount+int64(likeDelta)),
			DislikeCount: max(0, r.DislikeCount+int64(dislikeDelta)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, reviewID uint, actor *identity.Principal) (int64, error) {
	userID, err := identity.RequireUser(actor)
	if err != nil {
		return 0, err
	}

	var deleted int64
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		r, err := s.repo.FindByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if r.UserID != userID && !actor.HasRole(identity.RoleAdmin) {
			return apperrors.ErrForbidden
		}
		deleted, err = s.repo.DeleteTree(ctx, reviewID)
		return err
	})
	return deleted, err
}

func (s *service) Threads(ctx context.Context, bookID, viewerID uint) ([]*Node, error) {
	views, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	var votes map[uint]VoteType
	if viewerID != 0 && len(views) > 0 {
		ids := slice.Map(views, func(_ int, v View) uint { return v.ID })
		votes, err = s.repo.VotesByUser(ctx, viewerID, ids)
		if err != nil {
			return nil, err
		}
	}
	return BuildThreads(views, votes), nil
}

func (s *service) Summary(ctx context.Context, bookID uint) (*RatingSummary, error) {
	return s.repo.RatingSummary(ctx, bookID)
}

func (s *service) ListByUser(ctx context.Context, userID uint, page shared.Page) ([]UserReview, int64, error) {
	if err := page.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByUser(ctx, userID, page)
}

func (s *service) Recount(ctx context.Context, reviewID uint) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, reviewID); err != nil {
			return err
		}
		return s.repo.RecountVotes(ctx, reviewID)
	})
}
