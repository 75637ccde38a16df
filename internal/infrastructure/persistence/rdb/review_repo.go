package rdb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// reviewRepository 评论与投票仓储
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评论仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	return r.first(conn(ctx, r.db), id)
}

// LockByID SELECT ... FOR UPDATE
// sqlite不支持行锁，单连接下事务本身已经串行
func (r *reviewRepository) LockByID(ctx context.Context, id uint) (*review.Review, error) {
	db := conn(ctx, r.db)
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.first(db, id)
}

func (r *reviewRepository) first(db *gorm.DB, id uint) (*review.Review, error) {
	var model ReviewModel
	if err := db.First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, dbError(err, "查询评论失败")
	}
	return toReviewEntity(&model), nil
}

func (r *reviewRepository) FindTopLevel(ctx context.Context, bookID, userID uint) (*review.Review, error) {
	var model ReviewModel
	err := conn(ctx, r.db).Where("top_level_key = ?", TopLevelKey(bookID, userID)).First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, dbError(err, "查询评论失败")
	}
	return toReviewEntity(&model), nil
}

func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := toReviewModel(rv)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrDuplicateEntry
		}
		return dbError(err, "创建评论失败")
	}
	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	rv.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, rv *review.Review) error {
	err := conn(ctx, r.db).Model(&ReviewModel{}).Where("id = ?", rv.ID).Updates(map[string]any{
		"rating":     rv.Rating,
		"comment":    rv.Comment,
		"updated_at": rv.UpdatedAt,
	}).Error
	if err != nil {
		return dbError(err, "更新评论失败")
	}
	return nil
}

// DeleteTree 逐层收集后代回复ID，再一次性删除投票和评论
func (r *reviewRepository) DeleteTree(ctx context.Context, id uint) (int64, error) {
	db := conn(ctx, r.db)

	all := []uint{id}
	frontier := []uint{id}
	for len(frontier) > 0 {
		var children []uint
		if err := db.Model(&ReviewModel{}).Where("parent_review_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
			return 0, dbError(err, "查询回复失败")
		}
		all = append(all, children...)
		frontier = children
	}

	if err := db.Where("review_id IN ?", all).Delete(&ReviewVoteModel{}).Error; err != nil {
		return 0, dbError(err, "删除评论投票失败")
	}
	res := db.Where("id IN ?", all).Delete(&ReviewModel{})
	if res.Error != nil {
		return 0, dbError(res.Error, "删除评论失败")
	}
	if res.RowsAffected == 0 {
		return 0, apperrors.ErrReviewNotFound
	}
	return res.RowsAffected, nil
}

type reviewViewRow struct {
	ReviewModel
	Username string
}

// ListByBook 一次查询取出全部评论及评论者用户名，由调用方组装成树
func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]review.View, error) {
	var rows []reviewViewRow
	err := conn(ctx, r.db).Table("reviews").
		Select("reviews.*, COALESCE(users.username, '') AS username").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.book_id = ?", bookID).
		Order("reviews.created_at ASC, reviews.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "查询图书评论失败")
	}

	views := make([]review.View, len(rows))
	for i := range rows {
		views[i] = review.View{Review: *toReviewEntity(&rows[i].ReviewModel), Username: rows[i].Username}
	}
	return views, nil
}

type userReviewRow struct {
	ReviewModel
	BookTitle string
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uint, page shared.Page) ([]review.UserReview, int64, error) {
	db := conn(ctx, r.db)

	var total int64
	if err := db.Model(&ReviewModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "查询评论总数失败")
	}

	var rows []userReviewRow
	err := db.Table("reviews").
		Select("reviews.*, COALESCE(books.title, '') AS book_title").
		Joins("LEFT JOIN books ON books.id = reviews.book_id").
		Where("reviews.user_id = ?", userID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Limit(page.PageSize).
		Offset(page.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, dbError(err, "查询用户评论失败")
	}

	out := make([]review.UserReview, len(rows))
	for i := range rows {
		out[i] = review.UserReview{Review: *toReviewEntity(&rows[i].ReviewModel), BookTitle: rows[i].BookTitle}
	}
	return out, total, nil
}

func (r *reviewRepository) FindVote(ctx context.Context, userID, reviewID uint) (*review.Vote, error) {
	var model ReviewVoteModel
	err := conn(ctx, r.db).Where("user_id = ? AND review_id = ?", userID, reviewID).First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, dbError(err, "查询投票失败")
	}
	return &review.Vote{
		UserID:    model.UserID,
		ReviewID:  model.ReviewID,
		Type:      review.VoteType(model.VoteType),
		CreatedAt: model.CreatedAt,
	}, nil
}

func (r *reviewRepository) CreateVote(ctx context.Context, v *review.Vote) error {
	model := &ReviewVoteModel{UserID: v.UserID, ReviewID: v.ReviewID, VoteType: int8(v.Type)}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrDuplicateEntry
		}
		return dbError(err, "创建投票失败")
	}
	v.CreatedAt = model.CreatedAt
	return nil
}

// UpdateVote 修改投票方向并刷新投票时间
func (r *reviewRepository) UpdateVote(ctx context.Context, v *review.Vote) error {
	v.CreatedAt = time.Now()
	err := conn(ctx, r.db).Model(&ReviewVoteModel{}).
		Where("user_id = ? AND review_id = ?", v.UserID, v.ReviewID).
		Updates(map[string]any{"vote_type": int8(v.Type), "created_at": v.CreatedAt}).Error
	if err != nil {
		return dbError(err, "更新投票失败")
	}
	return nil
}

func (r *reviewRepository) DeleteVote(ctx context.Context, userID, reviewID uint) error {
	err := conn(ctx, r.db).Where("user_id = ? AND review_id = ?", userID, reviewID).Delete(&ReviewVoteModel{}).Error
	if err != nil {
		return dbError(err, "删除投票失败")
	}
	return nil
}

// AdjustCounters UPDATE reviews SET like_count = CASE WHEN like_count + ? < 0 THEN 0 ELSE like_count + ? END ...
// 不修改updated_at
func (r *reviewRepository) AdjustCounters(ctx context.Context, reviewID uint, likeDelta, dislikeDelta int) error {
	updates := map[string]any{}
	if likeDelta != 0 {
		updates["like_count"] = flooredAdd("like_count", likeDelta)
	}
	if dislikeDelta != 0 {
		updates["dislike_count"] = flooredAdd("dislike_count", dislikeDelta)
	}
	if len(updates) == 0 {
		return nil
	}

	res := conn(ctx, r.db).Model(&ReviewModel{}).Where("id = ?", reviewID).UpdateColumns(updates)
	if res.Error != nil {
		return dbError(res.Error, "更新评论计数失败")
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrReviewNotFound
	}
	return nil
}

func flooredAdd(column string, delta int) clause.Expr {
	return gorm.Expr(fmt.Sprintf("CASE WHEN %[1]s + ? < 0 THEN 0 ELSE %[1]s + ? END", column), delta, delta)
}

func (r *reviewRepository) RatingSummary(ctx context.Context, bookID uint) (*review.RatingSummary, error) {
	db := conn(ctx, r.db)

	var rows []struct {
		Rating int
		Total  int64
	}
	err := db.Model(&ReviewModel{}).
		Select("rating, COUNT(*) AS total").
		Where("book_id = ? AND parent_review_id IS NULL AND rating IS NOT NULL", bookID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "统计评分失败")
	}

	var count int64
	if err := db.Model(&ReviewModel{}).Where("book_id = ? AND parent_review_id IS NULL", bookID).Count(&count).Error; err != nil {
		return nil, dbError(err, "统计评论数失败")
	}

	dist := make(map[int]int64, len(rows))
	for _, row := range rows {
		dist[row.Rating] = row.Total
	}
	return review.NewRatingSummary(dist, count), nil
}

func (r *reviewRepository) VotesByUser(ctx context.Context, userID uint, reviewIDs []uint) (map[uint]review.VoteType, error) {
	out := make(map[uint]review.VoteType, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return out, nil
	}

	var models []ReviewVoteModel
	err := conn(ctx, r.db).Where("user_id = ? AND review_id IN ?", userID, reviewIDs).Find(&models).Error
	if err != nil {
		return nil, dbError(err, "查询用户投票失败")
	}
	for _, m := range models {
		out[m.ReviewID] = review.VoteType(m.VoteType)
	}
	return out, nil
}

// RecountVotes 按投票表重算计数（修复数据用）
func (r *reviewRepository) RecountVotes(ctx context.Context, reviewID uint) error {
	db := conn(ctx, r.db)

	var likes, dislikes int64
	if err := db.Model(&ReviewVoteModel{}).Where("review_id = ? AND vote_type = ?", reviewID, int8(review.VoteLike)).Count(&likes).Error; err != nil {
		return dbError(err, "统计点赞失败")
	}
	if err := db.Model(&ReviewVoteModel{}).Where("review_id = ? AND vote_type = ?", reviewID, int8(review.VoteDislike)).Count(&dislikes).Error; err != nil {
		return dbError(err, "统计点踩失败")
	}

	err := db.Model(&ReviewModel{}).Where("id = ?", reviewID).
		UpdateColumns(map[string]any{"like_count": likes, "dislike_count": dislikes}).Error
	if err != nil {
		return dbError(err, "重算评论计数失败")
	}
	return nil
}

// TopLevelKey 顶层评论唯一键
func TopLevelKey(bookID, userID uint) string {
	return fmt.Sprintf("%d:%d", bookID, userID)
}

func toReviewModel(rv *review.Review) *ReviewModel {
	model := &ReviewModel{
		ID:             rv.ID,
		BookID:         rv.BookID,
		UserID:         rv.UserID,
		ParentReviewID: rv.ParentReviewID,
		Comment:        rv.Comment,
		Rating:         rv.Rating,
		LikeCount:      rv.LikeCount,
		DislikeCount:   rv.DislikeCount,
		CreatedAt:      rv.CreatedAt,
		UpdatedAt:      rv.UpdatedAt,
	}
	if rv.IsTopLevel() {
		key := TopLevelKey(rv.BookID, rv.UserID)
		model.TopLevelKey = &key
	}
	return model
}

func toReviewEntity(model *ReviewModel) *review.Review {
	return &review.Review{
		ID:             model.ID,
		BookID:         model.BookID,
		UserID:         model.UserID,
		ParentReviewID: model.ParentReviewID,
		Comment:        model.Comment,
		Rating:         model.Rating,
		LikeCount:      model.LikeCount,
		DislikeCount:   model.DislikeCount,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
