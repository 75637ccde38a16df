package user

import (
	"slices"
	"time"

	"github.com/xiebiao/sbooks/internal/domain/identity"
)

// User 用户实体（聚合根）
// 密码只保存bcrypt哈希；角色通过users-roles多对多关联
type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	IsActive     bool
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser 创建新用户（工厂方法），默认启用并拥有User角色
func NewUser(username, email, passwordHash, fullName string) *User {
	now := time.Now()
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		IsActive:     true,
		Roles:        []string{identity.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasRole 是否拥有角色
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// Principal 转换为请求身份
func (u *User) Principal() *identity.Principal {
	return &identity.Principal{UserID: u.ID, Username: u.Username, Roles: slices.Clone(u.Roles)}
}

// UpdateProfile 更新资料，空值表示不修改
func (u *User) UpdateProfile(fullName, email string) {
	if fullName != "" {
		u.FullName = fullName
	}
	if email != "" {
		u.Email = email
	}
	u.UpdatedAt = time.Now()
}

// Dependents 用户名下的关联数据数量，任意一项大于0时不允许删除用户
type Dependents struct {
	Books     int64
	Reviews   int64
	Favorites int64
}

// Any 是否存在关联数据
func (d Dependents) Any() bool {
	return d.Books > 0 || d.Reviews > 0 || d.Favorites > 0
}
