package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fernandezlibros/ebookstore/pkg/metrics"
)

// Metrics HTTP请求指标中间件
// 教学要点:
// 1. path标签使用路由模板(c.FullPath())而不是真实URL,
//    否则/api/v1/books/1、/api/v1/books/2会产生无界的标签基数
// 2. in-progress用Gauge,进来+1出去-1
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncGauge(metrics.HTTPRequestsInProgress)
		defer metrics.DecGauge(metrics.HTTPRequestsInProgress)

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown" // 未匹配路由(404)
		}

		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		})
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}
