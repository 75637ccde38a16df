// Package review 评论与投票领域
//
// 每个用户对每本书最多一条顶层评论（带评分），回复挂在任意评论下形成树。
// 评论行上的LikeCount/DislikeCount与review_votes表在同一事务内双写，
// 两者始终一致；RecountVotes仅用于修复和测试。
package review

import (
	"strings"
	"time"

	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

const (
	MinRating = 1
	MaxRating = 5

	maxCommentLen = 2000
)

// Review 评论（顶层评论或回复）
type Review struct {
	ID             uint
	BookID         uint
	UserID         uint
	ParentReviewID *uint
	Comment        string
	Rating         *int // 顶层评论必填，回复为nil
	LikeCount      int64
	DislikeCount   int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsTopLevel 是否顶层评论
func (r *Review) IsTopLevel() bool {
	return r.ParentReviewID == nil
}

// NewTopLevel 创建顶层评论
func NewTopLevel(bookID, userID uint, rating int, comment string) *Review {
	now := time.Now()
	return &Review{
		BookID:    bookID,
		UserID:    userID,
		Comment:   comment,
		Rating:    &rating,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewReply 创建回复，BookID取自父评论
func NewReply(parent *Review, userID uint, comment string) *Review {
	now := time.Now()
	parentID := parent.ID
	return &Review{
		BookID:         parent.BookID,
		UserID:         userID,
		ParentReviewID: &parentID,
		Comment:        comment,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Revise 覆盖评分和内容
func (r *Review) Revise(rating int, comment string) {
	r.Rating = &rating
	r.Comment = comment
	r.UpdatedAt = time.Now()
}

// ValidateRating 评分必须在[1,5]
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return apperrors.Invalid("评分必须在1到5之间")
	}
	return nil
}

// NormalizeComment 去除首尾空白并检查长度
func NormalizeComment(comment string, required bool) (string, error) {
	comment = strings.TrimSpace(comment)
	if required && comment == "" {
		return "", apperrors.Invalid("回复内容不能为空")
	}
	if len([]rune(comment)) > maxCommentLen {
		return "", apperrors.Invalid("评论内容不能超过2000个字符")
	}
	return comment, nil
}

// View 评论及评论者用户名（列表展示用）
type View struct {
	Review
	Username string
}

// UserReview 用户评论历史条目
type UserReview struct {
	Review
	BookTitle string
}

// RatingSummary 图书评分汇总，只统计顶层评论
type RatingSummary struct {
	Average      float64       `json:"average"`
	Count        int64         `json:"count"`
	Distribution map[int]int64 `json:"distribution"` // 1-5星各自的数量
}

// NewRatingSummary 由各星级数量计算汇总
func NewRatingSummary(dist map[int]int64, reviewCount int64) *RatingSummary {
	s := &RatingSummary{Count: reviewCount, Distribution: make(map[int]int64, MaxRating)}
	var rated, sum int64
	for star := MinRating; star <= MaxRating; star++ {
		n := dist[star]
		s.Distribution[star] = n
		rated += n
		sum += n * int64(star)
	}
	if rated > 0 {
		s.Average = float64(sum) / float64(rated)
	}
	return s
}
