package user

import (
	"context"

	"github.com/xiebiao/sbooks/internal/domain/shared"
)

// Repository 用户仓储接口
// 不存在时返回errors.ErrUserNotFound；邮箱/用户名冲突时返回ErrEmailDuplicate/ErrUsernameDuplicate
type Repository interface {
	Create(ctx context.Context, user *User) error

	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByLogin 按邮箱或用户名查找
	FindByLogin(ctx context.Context, login string) (*User, error)

	// Update 更新用户名以外的资料字段（邮箱、姓名、密码、启用状态）
	Update(ctx context.Context, user *User) error

	// SetRoles 覆盖用户角色
	SetRoles(ctx context.Context, id uint, roles []string) error

	// CountDependents 统计用户名下的图书、评论、收藏
	CountDependents(ctx context.Context, id uint) (Dependents, error)

	// Delete 删除用户及其角色关联、搜索日志、活动日志
	Delete(ctx context.Context, id uint) error

	// List 分页查询，keyword匹配用户名或邮箱
	List(ctx context.Context, keyword string, page shared.Page) ([]*User, int64, error)
}
