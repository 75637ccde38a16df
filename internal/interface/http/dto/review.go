package dto

// SubmitReviewRequest 提交或修改顶层评论
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5" example:"5"`
	Comment string `json:"comment" binding:"max=5000" example:"硬核科幻"`
}

// ReplyRequest 回复评论
type ReplyRequest struct {
	Comment string `json:"comment" binding:"required,notblank,max=5000" example:"同意"`
}

// VoteRequest 投票，重复同类型投票会取消
type VoteRequest struct {
	Type string `json:"type" binding:"required,oneof=like dislike" example:"like"`
}
