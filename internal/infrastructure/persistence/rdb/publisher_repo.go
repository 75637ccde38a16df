package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/sbooks/internal/domain/publisher"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

type publisherRepository struct {
	db *gorm.DB
}

// NewPublisherRepository 创建出版社仓储
func NewPublisherRepository(db *gorm.DB) publisher.Repository {
	return &publisherRepository{db: db}
}

func (r *publisherRepository) Create(ctx context.Context, p *publisher.Publisher) error {
	model := &PublisherModel{Name: p.Name, Website: p.Website, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return dbError(err, "创建出版社失败")
	}
	p.ID = model.ID
	return nil
}

func (r *publisherRepository) FindByID(ctx context.Context, id uint) (*publisher.Publisher, error) {
	var model PublisherModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrPublisherNotFound
		}
		return nil, dbError(err, "查询出版社失败")
	}
	return toPublisherEntity(&model), nil
}

func (r *publisherRepository) Update(ctx context.Context, p *publisher.Publisher) error {
	err := conn(ctx, r.db).Model(&PublisherModel{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":       p.Name,
		"website":    p.Website,
		"updated_at": p.UpdatedAt,
	}).Error
	if err != nil {
		return dbError(err, "更新出版社失败")
	}
	return nil
}

func (r *publisherRepository) Delete(ctx context.Context, id uint) error {
	db := conn(ctx, r.db)
	if err := db.Model(&BookModel{}).Where("publisher_id = ?", id).UpdateColumn("publisher_id", nil).Error; err != nil {
		return dbError(err, "解除图书出版社关联失败")
	}
	res := db.Delete(&PublisherModel{}, id)
	if res.Error != nil {
		return dbError(res.Error, "删除出版社失败")
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrPublisherNotFound
	}
	return nil
}

func (r *publisherRepository) List(ctx context.Context) ([]*publisher.Publisher, error) {
	var models []PublisherModel
	if err := conn(ctx, r.db).Order("name ASC, id ASC").Find(&models).Error; err != nil {
		return nil, dbError(err, "查询出版社列表失败")
	}
	out := make([]*publisher.Publisher, len(models))
	for i := range models {
		out[i] = toPublisherEntity(&models[i])
	}
	return out, nil
}

func (r *publisherRepository) CountBooks(ctx context.Context, id uint) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&BookModel{}).Where("publisher_id = ?", id).Count(&n).Error; err != nil {
		return 0, dbError(err, "统计出版社图书失败")
	}
	return n, nil
}

func toPublisherEntity(model *PublisherModel) *publisher.Publisher {
	return &publisher.Publisher{
		ID:        model.ID,
		Name:      model.Name,
		Website:   model.Website,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
