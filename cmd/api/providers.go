package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/storefront/internal/application/storefront"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/infrastructure/events"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/storefront/internal/infrastructure/searchspring"
	"github.com/xiebiao/storefront/internal/interface/http/handler"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/internal/interface/http/router"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Config   *config.Config
	Log      logrus.FieldLogger
	Engine   *gin.Engine
	Sessions *storefront.SessionManager
}

// 以下Provider由wire.go声明，wire_gen.go按依赖顺序调用

func provideLogger(cfg *config.Config) (logrus.FieldLogger, error) {
	log, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

// provideFetcher 商品搜索（Searchspring）
func provideFetcher(cfg *config.Config, log logrus.FieldLogger) product.Fetcher {
	return searchspring.NewClient(searchspring.Config{
		Endpoint:           cfg.Search.Endpoint,
		SiteID:             cfg.Search.SiteID,
		Timeout:            cfg.Search.Timeout,
		BreakerMaxFailures: cfg.Search.BreakerMaxFailures,
		BreakerOpenTimeout: cfg.Search.BreakerOpenTimeout,
	}, log.WithField("component", "searchspring"))
}

// provideSnapshotStore 会话快照存储
// session.store=redis时连接Redis，否则使用进程内存储
func provideSnapshotStore(cfg *config.Config, log logrus.FieldLogger) (storefront.SnapshotStore, func(), error) {
	if cfg.Session.Store != config.StoreRedis {
		return storefront.NewMemoryStore(), func() {}, nil
	}

	client, err := redis.NewClient(context.Background(), cfg.Redis, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("close redis client failed")
		}
	}
	return redis.NewSnapshotStore(client), cleanup, nil
}

// provideEventPublisher 购物车事件发布
// mq.enabled=false时不发布
func provideEventPublisher(cfg *config.Config, log logrus.FieldLogger) (storefront.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return storefront.NoopPublisher{}, func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log.WithField("component", "mq"))
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.WithError(err).Warn("close mq publisher failed")
		}
	}
	return events.NewCartPublisher(pub), cleanup, nil
}

func provideSessionManager(
	cfg *config.Config,
	fetcher product.Fetcher,
	store storefront.SnapshotStore,
	publisher storefront.EventPublisher,
	log logrus.FieldLogger,
) *storefront.SessionManager {
	return storefront.NewSessionManager(storefront.SessionConfig{
		TTL:           cfg.Session.TTL,
		SweepInterval: cfg.Session.SweepInterval,
		FetchWindow:   cfg.Search.DedupWindow,
	}, fetcher, store, publisher, log)
}

func provideSessionMiddleware(cfg *config.Config, manager *storefront.SessionManager) *middleware.SessionMiddleware {
	return middleware.NewSessionMiddleware(manager, middleware.SessionOptions{
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.CookieSecure,
		TTL:        cfg.Session.TTL,
	})
}

func provideEngine(
	cfg *config.Config,
	log logrus.FieldLogger,
	h *handler.StorefrontHandler,
	sessions *middleware.SessionMiddleware,
) *gin.Engine {
	return router.New(router.Options{
		Mode:          cfg.Server.Mode,
		EnableSwagger: cfg.Server.Mode != gin.ReleaseMode,
		CORS:          cfg.CORS,
	}, log, h, sessions)
}

func provideApp(cfg *config.Config, log logrus.FieldLogger, engine *gin.Engine, sessions *storefront.SessionManager) *App {
	return &App{
		Config:   cfg,
		Log:      log,
		Engine:   engine,
		Sessions: sessions,
	}
}
