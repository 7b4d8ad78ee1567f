package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/interface/http/handler"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// Options 路由选项
type Options struct {
	Mode          string // debug | release | test
	EnableSwagger bool
	CORS          config.CORSConfig
}

// New 创建Gin引擎并注册全部路由
//
// 中间件顺序：Recovery → CORS → Tracing → Logger → Metrics → Session（仅业务路由）
func New(opts Options, log logrus.FieldLogger, h *handler.StorefrontHandler, sessions *middleware.SessionMiddleware) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.CORS(opts.CORS),
		middleware.Tracing(),
		middleware.Logger(log),
		middleware.Metrics(),
	)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档: http://localhost:8080/swagger/index.html
	// 生产环境建议关闭
	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	v1.Use(sessions.Handle())
	{
		v1.POST("/sessions", h.NewSession)

		page := v1.Group("/storefront")
		{
			page.GET("", h.GetView)
			page.POST("/mount", h.Mount)
		}

		search := v1.Group("/search")
		{
			search.POST("", h.SubmitSearch)
			search.PUT("/term", h.SetSearchTerm)
			search.POST("/quick-filter", h.SelectQuickFilter)
			search.PUT("/page", h.GoToPage)
			search.POST("/page/prev", h.PrevPage)
			search.POST("/page/next", h.NextPage)
		}

		cart := v1.Group("/cart")
		{
			cart.POST("/items", h.AddToCart)
			cart.POST("/items/:id/decrement", h.RemoveFromCart)
			cart.DELETE("/items/:id", h.DeleteFromCart)
			cart.POST("/drawer/open", h.OpenCart)
			cart.POST("/drawer/close", h.CloseCart)
		}
	}

	return r
}
