package rdb

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	"github.com/xiebiao/sbooks/internal/domain/user"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// userRepository 用户仓储实现
// 用户名、邮箱唯一性由数据库UNIQUE索引保证，冲突时转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}

	// 用户与角色关联一起写入；已在外层事务中时GORM使用Savepoint
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return replaceRoles(tx, model.ID, u.Roles)
	})
	if err != nil {
		if isDuplicateError(err) {
			return duplicateUserError(err)
		}
		return dbError(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.findOne(ctx, conn(ctx, r.db).Where("id = ?", id))
}

func (r *userRepository) FindByLogin(ctx context.Context, login string) (*user.User, error) {
	return r.findOne(ctx, conn(ctx, r.db).Where("email = ? OR username = ?", login, login))
}

func (r *userRepository) findOne(ctx context.Context, query *gorm.DB) (*user.User, error) {
	var model UserModel
	if err := query.First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, dbError(err, "查询用户失败")
	}

	roles, err := r.rolesOf(ctx, []uint{model.ID})
	if err != nil {
		return nil, err
	}
	return toUserEntity(&model, roles[model.ID]), nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	err := conn(ctx, r.db).Model(&UserModel{}).Where("id = ?", u.ID).Updates(map[string]any{
		"email":         u.Email,
		"full_name":     u.FullName,
		"password_hash": u.PasswordHash,
		"is_active":     u.IsActive,
		"updated_at":    u.UpdatedAt,
	}).Error
	if err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return dbError(err, "更新用户失败")
	}
	return nil
}

func (r *userRepository) SetRoles(ctx context.Context, id uint, roles []string) error {
	if err := replaceRoles(conn(ctx, r.db), id, roles); err != nil {
		return dbError(err, "设置用户角色失败")
	}
	return nil
}

// replaceRoles 覆盖用户角色，角色不存在时自动创建
func replaceRoles(tx *gorm.DB, userID uint, roles []string) error {
	if err := tx.Where("user_id = ?", userID).Delete(&UserRoleModel{}).Error; err != nil {
		return err
	}
	for _, name := range roles {
		var role RoleModel
		if err := tx.Where(RoleModel{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
		if err := tx.Create(&UserRoleModel{UserID: userID, RoleID: role.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepository) CountDependents(ctx context.Context, id uint) (user.Dependents, error) {
	var d user.Dependents
	db := conn(ctx, r.db)
	if err := db.Model(&BookModel{}).Where("created_by = ?", id).Count(&d.Books).Error; err != nil {
		return d, dbError(err, "统计用户图书失败")
	}
	if err := db.Model(&ReviewModel{}).Where("user_id = ?", id).Count(&d.Reviews).Error; err != nil {
		return d, dbError(err, "统计用户评论失败")
	}
	if err := db.Model(&FavoriteModel{}).Where("user_id = ?", id).Count(&d.Favorites).Error; err != nil {
		return d, dbError(err, "统计用户收藏失败")
	}
	return d, nil
}

// Delete 删除用户及其角色关联、日志；用户在他人评论上的投票一并撤销并回退计数
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		votes := tx.Model(&ReviewVoteModel{}).Select("review_id").Where("user_id = ?", id)
		if err := tx.Model(&ReviewModel{}).Where("id IN (?)", votes).UpdateColumns(map[string]any{
			"like_count":    gorm.Expr(revokeVotesExpr("like_count"), id, int8(review.VoteLike)),
			"dislike_count": gorm.Expr(revokeVotesExpr("dislike_count"), id, int8(review.VoteDislike)),
		}).Error; err != nil {
			return err
		}

		for _, model := range []any{&ReviewVoteModel{}, &UserRoleModel{}, &SearchLogModel{}, &ActivityLogModel{}} {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&UserModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return dbError(err, "删除用户失败")
	}
	return nil
}

func revokeVotesExpr(column string) string {
	return column + " - (SELECT COUNT(*) FROM review_votes v WHERE v.review_id = reviews.id AND v.user_id = ? AND v.vote_type = ?)"
}

func (r *userRepository) List(ctx context.Context, keyword string, page shared.Page) ([]*user.User, int64, error) {
	query := conn(ctx, r.db).Model(&UserModel{})
	if keyword != "" {
		like := likePattern(keyword)
		query = query.Where("LOWER(username) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!'", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "查询用户总数失败")
	}

	var models []UserModel
	if err := query.Order("id ASC").Limit(page.PageSize).Offset(page.Offset()).Find(&models).Error; err != nil {
		return nil, 0, dbError(err, "查询用户列表失败")
	}

	ids := make([]uint, len(models))
	for i := range models {
		ids[i] = models[i].ID
	}
	roles, err := r.rolesOf(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i], roles[models[i].ID])
	}
	return users, total, nil
}

// rolesOf 批量查询用户角色
func (r *userRepository) rolesOf(ctx context.Context, userIDs []uint) (map[uint][]string, error) {
	out := make(map[uint][]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		UserID uint
		Name   string
	}
	err := conn(ctx, r.db).Table("user_roles").
		Select("user_roles.user_id, roles.name").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id IN ?", userIDs).
		Order("roles.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "查询用户角色失败")
	}
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Name)
	}
	return out, nil
}

func duplicateUserError(err error) error {
	if strings.Contains(err.Error(), "username") {
		return apperrors.ErrUsernameDuplicate
	}
	return apperrors.ErrEmailDuplicate
}

func toUserEntity(model *UserModel, roles []string) *user.User {
	if roles == nil {
		roles = []string{}
	}
	return &user.User{
		ID:           model.ID,
		Username:     model.Username,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		FullName:     model.FullName,
		IsActive:     model.IsActive,
		Roles:        roles,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
