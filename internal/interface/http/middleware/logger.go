package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/response"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// slowRequest 超过该耗时的请求记为慢请求
const slowRequest = 3 * time.Second

// Logger 请求日志中间件
//
// 1. 复用客户端传入的X-Request-ID，没有则生成一个
// 2. 请求级Entry同时写入gin.Context和request context，后续Handler、ViewState都能取到
// 3. 请求结束后输出一条结构化日志（方法、路由、状态码、耗时、会话ID）
func Logger(base logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		entry := base.WithField("request_id", requestID)
		c.Set(response.LoggerKey, logrus.FieldLogger(entry))
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), entry))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   latency.String(),
			"client_ip": c.ClientIP(),
		}
		if id := GetSessionID(c); id != "" {
			fields["session"] = id
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case c.Writer.Status() >= 500:
			entry.WithFields(fields).Error("request completed")
		case latency > slowRequest:
			entry.WithFields(fields).Warn("slow request")
		default:
			entry.WithFields(fields).Info("request completed")
		}
	}
}

// GetRequestID 从Context获取请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}
