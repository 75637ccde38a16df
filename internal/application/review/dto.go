package review

import (
	"time"

	"github.com/xiebiao/sbooks/internal/domain/review"
)

// ReviewInfo 单条评论
type ReviewInfo struct {
	ID             uint      `json:"id"`
	BookID         uint      `json:"book_id"`
	UserID         uint      `json:"user_id"`
	ParentReviewID *uint     `json:"parent_review_id,omitempty"`
	Comment        string    `json:"comment"`
	Rating         *int      `json:"rating,omitempty"`
	LikeCount      int64     `json:"like_count"`
	DislikeCount   int64     `json:"dislike_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ThreadItem 评论树节点，ViewerVote为当前用户的投票（none/like/dislike）
type ThreadItem struct {
	ReviewInfo
	Username   string       `json:"username"`
	ViewerVote string       `json:"viewer_vote"`
	Replies    []ThreadItem `json:"replies"`
}

// UserReviewItem 用户评论历史条目
type UserReviewItem struct {
	ReviewInfo
	BookTitle string `json:"book_title"`
}

func NewReviewInfo(r *review.Review) ReviewInfo {
	return ReviewInfo{
		ID:             r.ID,
		BookID:         r.BookID,
		UserID:         r.UserID,
		ParentReviewID: r.ParentReviewID,
		Comment:        r.Comment,
		Rating:         r.Rating,
		LikeCount:      r.LikeCount,
		DislikeCount:   r.DislikeCount,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// NewThreadItems 转换评论树，空树返回空切片
func NewThreadItems(nodes []*review.Node) []ThreadItem {
	items := make([]ThreadItem, len(nodes))
	for i, n := range nodes {
		items[i] = ThreadItem{
			ReviewInfo: NewReviewInfo(&n.Review),
			Username:   n.Username,
			ViewerVote: n.ViewerVote.String(),
			Replies:    NewThreadItems(n.Replies),
		}
	}
	return items
}

func NewUserReviewItems(rows []review.UserReview) []UserReviewItem {
	items := make([]UserReviewItem, len(rows))
	for i := range rows {
		items[i] = UserReviewItem{ReviewInfo: NewReviewInfo(&rows[i].Review), BookTitle: rows[i].BookTitle}
	}
	return items
}
