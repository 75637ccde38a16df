package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/sbooks/pkg/metrics"
)

// Metrics HTTP指标中间件，path使用路由模板（/books/:id）避免标签爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.IncGauge(metrics.HTTPRequestsInProgress)
		start := time.Now()

		c.Next()

		metrics.DecGauge(metrics.HTTPRequestsInProgress)
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, labels, time.Since(start).Seconds())
		labels["status"] = strconv.Itoa(c.Writer.Status())
		metrics.IncCounterVec(metrics.HTTPRequestsTotal, labels)
	}
}
