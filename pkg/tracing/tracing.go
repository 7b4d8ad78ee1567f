// Package tracing 提供基于OpenTelemetry的链路追踪
//
// # 追踪示例
//
//	Trace: 浏览器挂载商品列表（TraceID=abc123）
//	├─ Span1: POST /api/v1/storefront/mount（耗时320ms）
//	│  └─ Span2: searchspring.Search q=sunglasses page=1（耗时300ms）← 瓶颈在外部搜索API
//	总耗时：320ms
//
// # 使用示例
//
//	// 1. 启动时初始化（未启用时返回空操作的shutdown）
//	shutdown, err := tracing.InitTracer(tracing.Options{
//	    ServiceName: "storefront",
//	    Endpoint:    "localhost:4317",
//	    Enabled:     true,
//	})
//	defer shutdown(context.Background())
//
//	// 2. 业务代码创建Span
//	ctx, span := tracing.StartSpan(ctx, "searchspring", "Search")
//	defer span.End()
//
//	// 3. 失败时记录错误
//	tracing.RecordError(span, err)
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Options 追踪初始化参数
type Options struct {
	ServiceName string
	Endpoint    string  // OTLP gRPC端点，如 localhost:4317
	SampleRatio float64 // 采样率，<=0 或 >=1 时全量采样
	Enabled     bool
}

// InitTracer 初始化全局TracerProvider
//
// 返回的shutdown必须在程序退出前调用，确保最后一批Span被发送
func InitTracer(opts Options) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !opts.Enabled {
		return noop, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. 创建OTLP gRPC Exporter
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(opts.Endpoint),
		otlptracegrpc.WithInsecure(), // 禁用TLS（生产环境应启用）
	)
	if err != nil {
		return noop, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// 2. 创建Resource（资源属性）
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// 3. 创建并设置全局Tracer Provider
	tp := NewProvider(res, sdktrace.NewBatchSpanProcessor(exporter), opts.SampleRatio)
	otel.SetTracerProvider(tp)

	// 4. 设置全局上下文传播器（W3C Trace Context + Baggage）
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	// 5. 返回关闭函数
	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// NewProvider 按采样率构建TracerProvider
// 单独导出便于测试注入内存SpanProcessor
func NewProvider(res *resource.Resource, processor sdktrace.SpanProcessor, ratio float64) *sdktrace.TracerProvider {
	sampler := sdktrace.AlwaysSample()
	if ratio > 0 && ratio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sampler),
		sdktrace.WithSpanProcessor(processor),
	}
	if res != nil {
		opts = append(opts, sdktrace.WithResource(res))
	}
	return sdktrace.NewTracerProvider(opts...)
}

// StartSpan 创建Span
// 如果ctx包含父Span，新Span自动成为子Span
func StartSpan(ctx context.Context, tracerName, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName, opts...)
}

// RecordError 记录错误并把Span标记为失败，err为nil时标记成功
func RecordError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// ExtractTraceID 从Context提取TraceID（用于日志关联）
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
