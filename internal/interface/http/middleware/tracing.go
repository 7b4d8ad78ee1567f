package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/storefront/pkg/tracing"
)

const tracerName = "storefront/http"

// TraceIDHeader 链路ID响应头
const TraceIDHeader = "X-Trace-ID"

// Tracing 为每个请求创建一个Server Span
// 未启用追踪时全局TracerProvider是no-op，这里的开销可以忽略
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		spanName := c.Request.Method + " " + c.FullPath()
		ctx, span := tracing.StartSpan(c.Request.Context(), tracerName, spanName,
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
		)
		if id := tracing.ExtractTraceID(ctx); id != "" {
			c.Header(TraceIDHeader, id)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}
