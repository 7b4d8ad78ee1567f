//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/interface/http/handler"
)

// infrastructureSet 基础设施层依赖
// 包含：日志、商品搜索客户端、会话快照存储、事件发布
var infrastructureSet = wire.NewSet(
	provideLogger,
	provideFetcher,
	provideSnapshotStore,
	provideEventPublisher,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	provideSessionManager,
)

// interfaceSet 接口层依赖
// 包含：会话中间件、Handler、Gin引擎
var interfaceSet = wire.NewSet(
	provideSessionMiddleware,
	handler.NewStorefrontHandler,
	provideEngine,
)

// InitializeApp 初始化整个应用
// 返回的cleanup负责关闭Redis连接和MQ连接
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		applicationSet,
		interfaceSet,
		provideApp,
	)
	return nil, nil, nil
}
