package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/shared"
)

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository 创建日志仓储
func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &auditRepository{db: db}
}

func (r *auditRepository) SaveSearch(ctx context.Context, log *audit.SearchLog) error {
	model := &SearchLogModel{UserID: log.UserID, Query: log.Query, CreatedAt: log.CreatedAt}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return dbError(err, "保存搜索日志失败")
	}
	log.ID = model.ID
	log.CreatedAt = model.CreatedAt
	return nil
}

func (r *auditRepository) SaveActivity(ctx context.Context, log *audit.ActivityLog) error {
	model := &ActivityLogModel{UserID: log.UserID, ActivityType: log.Type, Detail: log.Detail, CreatedAt: log.CreatedAt}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return dbError(err, "保存活动日志失败")
	}
	log.ID = model.ID
	log.CreatedAt = model.CreatedAt
	return nil
}

func (r *auditRepository) SearchesByUser(ctx context.Context, userID uint, page shared.Page) ([]audit.SearchLog, int64, error) {
	query := conn(ctx, r.db).Model(&SearchLogModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "查询搜索记录总数失败")
	}

	var models []SearchLogModel
	if err := query.Order("created_at DESC, id DESC").Limit(page.PageSize).Offset(page.Offset()).Find(&models).Error; err != nil {
		return nil, 0, dbError(err, "查询搜索记录失败")
	}

	logs := make([]audit.SearchLog, len(models))
	for i, m := range models {
		logs[i] = audit.SearchLog{ID: m.ID, UserID: m.UserID, Query: m.Query, CreatedAt: m.CreatedAt}
	}
	return logs, total, nil
}

func (r *auditRepository) CountActivities(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&ActivityLogModel{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, dbError(err, "统计活动日志失败")
	}
	return n, nil
}
