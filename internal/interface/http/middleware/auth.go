package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/sbooks/internal/domain/identity"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
	"github.com/xiebiao/sbooks/pkg/jwt"
	"github.com/xiebiao/sbooks/pkg/response"
)

const (
	principalKey   = "principal"
	accessTokenKey = "access_token"
)

var errTokenFormat = apperrors.New(apperrors.ErrCodeInvalidToken, "Token格式错误")

// TokenBlacklist 已登出Token查询（*redis.SessionStore实现）
type TokenBlacklist interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Token（Authorization: Bearer <token>）
// 2. 检查Token黑名单
// 3. 验证Token，把身份（含角色）注入gin.Context和request context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			if c.GetHeader("Authorization") == "" {
				response.Error(c, apperrors.ErrUnauthorized)
			} else {
				response.Error(c, errTokenFormat)
			}
			c.Abort()
			return
		}

		p, err := m.authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		setPrincipal(c, p, token)
		c.Next()
	}
}

// OptionalAuth 可选登录
// 有合法Token时注入身份，否则按匿名用户继续（公开接口用于填充is_favorited、viewer_vote）
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if p, err := m.authenticate(c.Request.Context(), token); err == nil {
				setPrincipal(c, p, token)
			}
		}
		c.Next()
	}
}

// RequireRole 要求拥有角色，需放在RequireAuth之后
// 用例内部仍会再次校验
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := identity.RequireRole(GetPrincipal(c), role); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(ctx context.Context, token string) (*identity.Principal, error) {
	// 已登出或被强制失效的Token
	revoked, err := m.blacklist.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}

	claims, err := m.jwtManager.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &identity.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Roles:    claims.Roles,
	}, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setPrincipal(c *gin.Context, p *identity.Principal, token string) {
	c.Set(principalKey, p)
	c.Set(accessTokenKey, token)
	c.Request = c.Request.WithContext(identity.WithPrincipal(c.Request.Context(), p))
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetPrincipal 当前请求身份，匿名时返回nil
func GetPrincipal(c *gin.Context) *identity.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*identity.Principal); ok {
			return p
		}
	}
	return nil
}

// GetUserID 当前登录用户ID，匿名时返回0
func GetUserID(c *gin.Context) uint {
	return GetPrincipal(c).ViewerID()
}

// GetAccessToken 当前请求的Access Token（登出时加入黑名单）
func GetAccessToken(c *gin.Context) string {
	return c.GetString(accessTokenKey)
}
