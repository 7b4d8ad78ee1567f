// Package logger 基于logrus的结构化日志
//
// 约定：
// 1. 进程内只构建一个*logrus.Logger，通过依赖注入传递
// 2. 请求级字段（request_id、session、trace_id）挂在*logrus.Entry上，经Context向下传递
// 3. 不记录敏感信息和完整请求体
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Options 日志配置
type Options struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
}

// New 按配置构建Logger
func New(opts Options) (*logrus.Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(defaultString(opts.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", opts.Level, err)
	}
	log.SetLevel(level)
	log.SetReportCaller(opts.EnableCaller)

	switch strings.ToLower(opts.Format) {
	case "json":
		// 字段名与日志平台约定保持一致
		log.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		})
	case "", "console", "text":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006/01/02 15:04:05.000",
		})
	default:
		return nil, fmt.Errorf("无效的日志格式: %s", opts.Format)
	}

	out, err := openOutput(opts.Output)
	if err != nil {
		return nil, err
	}
	log.SetOutput(out)

	return log, nil
}

// Discard 丢弃所有输出的Logger（测试用）
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func openOutput(output string) (io.Writer, error) {
	switch output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		return f, nil
	}
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

type ctxKeyLog struct{}

// WithContext 把请求级Entry放入Context
func WithContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKeyLog{}, entry)
}

// FromContext 取出请求级Entry，不存在时使用fallback
func FromContext(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if entry, ok := ctx.Value(ctxKeyLog{}).(*logrus.Entry); ok {
		return entry
	}
	return fallback
}
