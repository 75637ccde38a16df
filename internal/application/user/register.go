package user

import (
	"context"

	appaudit "github.com/xiebiao/sbooks/internal/application/audit"
	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 1. 调用领域服务完成校验、密码加密、默认角色
// 2. 记录注册活动
type RegisterUseCase struct {
	userService user.Service
	recorder    *appaudit.Recorder
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, recorder *appaudit.Recorder) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		recorder:    recorder,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, user.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Activity(ctx, u.ID, audit.ActivityRegister, "")
	info := NewUserInfo(u)
	return &info, nil
}

// =========================================
// 应用层DTO（数据传输对象）
// =========================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	FullName string
}

// UserInfo 用户信息（不含密码）
type UserInfo struct {
	ID        uint     `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	IsActive  bool     `json:"is_active"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"created_at"`
}

// NewUserInfo 领域实体 → DTO
func NewUserInfo(u *user.User) UserInfo {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		Roles:     roles,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
