package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	_ "github.com/xiebiao/storefront/docs"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/tracing"
)

// @title           Storefront API
// @version         1.0
// @description     店铺页面服务：商品搜索、分页、购物车。页面状态保存在服务端会话中，通过Cookie关联。
// @host            localhost:8080
// @BasePath        /

// main 主程序入口
// 说明：依赖由wire_gen.go中生成的InitializeApp组装，修改依赖后重新运行wire
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 指标与链路追踪
	metrics.InitMetrics()
	shutdownTracer, err := tracing.InitTracer(tracing.Options{
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
		Enabled:     cfg.Tracing.Enabled,
	})
	if err != nil {
		log.Fatalf("初始化链路追踪失败: %v", err)
	}

	// 3. 依赖注入（手动组装）
	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		log.Fatalf("初始化应用失败: %v", err)
	}
	defer cleanup()

	app.Log.WithFields(logrus.Fields{
		"port":          cfg.Server.Port,
		"mode":          cfg.Server.Mode,
		"session_store": cfg.Session.Store,
		"site_id":       cfg.Search.SiteID,
		"events":        cfg.MQ.Enabled,
		"tracing":       cfg.Tracing.Enabled,
	}).Info("配置加载成功")

	// 4. 空闲会话回收
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go app.Sessions.Run(ctx)

	// 5. 启动HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		app.Log.WithField("addr", srv.Addr).Info("服务启动成功")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 6. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("正在优雅关闭服务...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Log.WithError(err).Error("HTTP服务器强制关闭")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		app.Log.WithError(err).Warn("关闭链路追踪失败")
	}
	app.Log.Info("服务已关闭")
}
