package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/sbooks/pkg/errors"
	"github.com/xiebiao/sbooks/pkg/ratelimit"
	"github.com/xiebiao/sbooks/pkg/response"
)

// ErrTooManyRequests 限流拒绝
var ErrTooManyRequests = apperrors.New(apperrors.ErrCodeTooManyRequests, "请求过于频繁，请稍后再试")

// RateLimit 按客户端IP限流，limiter为nil时不限流
func RateLimit(limiter *ratelimit.KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow(c.ClientIP()) {
			response.Error(c, ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
