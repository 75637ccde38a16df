package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	appaudit "github.com/xiebiao/sbooks/internal/application/audit"
	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/user"
	"github.com/xiebiao/sbooks/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/sbooks/pkg/jwt"
)

// SessionStore 会话与Token黑名单（*redis.SessionStore实现）
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, sess redis.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// LoginUseCase 用户登录用例
// 1. 按邮箱或用户名验证密码（停用账号拒绝登录）
// 2. 生成携带角色的JWT Token对
// 3. 保存会话到Redis，记录登录活动
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore SessionStore
	recorder     *appaudit.Recorder
	logger       *zap.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore SessionStore,
	recorder *appaudit.Recorder,
	logger *zap.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		recorder:     recorder,
		logger:       logger,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证密码
	u, err := uc.userService.Authenticate(ctx, req.Login, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成Token对
	tokenPair, err := uc.jwtManager.GenerateToken(jwt.Subject{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    u.Roles,
	})
	if err != nil {
		return nil, err
	}

	// 3. 会话有效期 = Refresh Token有效期，保存失败不影响登录
	sess := redis.Session{Username: u.Username, ClientIP: req.ClientIP, LoginAt: time.Now()}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sess, uc.jwtManager.RefreshTokenTTL()); err != nil {
		uc.logger.Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}
	uc.recorder.Activity(ctx, u.ID, audit.ActivityLogin, "ip="+req.ClientIP)

	return &LoginResponse{
		User:         NewUserInfo(u),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore SessionStore
	jwtManager   *jwt.Manager
	recorder     *appaudit.Recorder
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore SessionStore, jwtManager *jwt.Manager, recorder *appaudit.Recorder) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore, jwtManager: jwtManager, recorder: recorder}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, actor *identity.Principal, accessToken string) error {
	userID, err := identity.RequireUser(actor)
	if err != nil {
		return err
	}

	// 1. 删除会话
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}

	// 2. Access Token加入黑名单，过期时间与Token有效期一致
	if err := uc.sessionStore.Revoke(ctx, accessToken, uc.jwtManager.AccessTokenTTL()); err != nil {
		return err
	}

	uc.recorder.Activity(ctx, userID, audit.ActivityLogout, "")
	return nil
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求，Login为邮箱或用户名
type LoginRequest struct {
	Login    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // Access Token过期时间（秒）
}
