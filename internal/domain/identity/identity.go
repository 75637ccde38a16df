// Package identity 请求身份：由HTTP中间件从Token解析，显式传入每个需要鉴权的操作
package identity

import (
	"context"
	"slices"

	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// KnownRoles 系统支持的角色
var KnownRoles = []string{RoleAdmin, RoleUser}

// Principal 当前请求的调用者，匿名访问时为nil
type Principal struct {
	UserID   uint
	Username string
	Roles    []string
}

// Authenticated 是否已登录
func (p *Principal) Authenticated() bool {
	return p != nil && p.UserID != 0
}

// HasRole 是否拥有指定角色
func (p *Principal) HasRole(role string) bool {
	if !p.Authenticated() {
		return false
	}
	return slices.Contains(p.Roles, role)
}

// ViewerID 匿名时返回0
func (p *Principal) ViewerID() uint {
	if !p.Authenticated() {
		return 0
	}
	return p.UserID
}

// RequireUser 写操作要求已登录，返回用户ID
func RequireUser(p *Principal) (uint, error) {
	if !p.Authenticated() {
		return 0, apperrors.ErrUnauthorized
	}
	return p.UserID, nil
}

// RequireRole 要求已登录且拥有指定角色
func RequireRole(p *Principal, role string) error {
	if !p.Authenticated() {
		return apperrors.ErrUnauthorized
	}
	if !p.HasRole(role) {
		return apperrors.ErrForbidden
	}
	return nil
}

type ctxKey struct{}

// WithPrincipal 把身份放入ctx
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext 取出身份，没有时返回nil
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(ctxKey{}).(*Principal)
	return p
}
