// Package audit 搜索日志与用户活动日志（只追加）
package audit

import (
	"context"
	"time"

	"github.com/xiebiao/sbooks/internal/domain/shared"
)

// 活动类型
const (
	ActivityRegister       = "REGISTER"
	ActivityLogin          = "LOGIN"
	ActivityLogout         = "LOGOUT"
	ActivityPasswordChange = "PASSWORD_CHANGE"
	ActivityProfileUpdate  = "PROFILE_UPDATE"
	ActivityReview         = "REVIEW"
	ActivityReply          = "REPLY"
	ActivityFavorite       = "FAVORITE"
	ActivityAdmin          = "ADMIN"
)

// SearchLog 搜索记录，匿名搜索UserID为nil
type SearchLog struct {
	ID        uint      `json:"id"`
	UserID    *uint     `json:"user_id,omitempty"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityLog 用户活动记录
type ActivityLog struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Type      string    `json:"type"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository 日志仓储
type Repository interface {
	SaveSearch(ctx context.Context, log *SearchLog) error
	SaveActivity(ctx context.Context, log *ActivityLog) error
	// SearchesByUser 用户的搜索历史，最新在前
	SearchesByUser(ctx context.Context, userID uint, page shared.Page) ([]SearchLog, int64, error)
	CountActivities(ctx context.Context, userID uint) (int64, error)
}

// Sink 审计事件的写入端（直接写库或经消息队列）
type Sink interface {
	RecordSearch(ctx context.Context, log SearchLog) error
	RecordActivity(ctx context.Context, log ActivityLog) error
}
