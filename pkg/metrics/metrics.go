// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
// - Counter（计数器）：只增不减，如商品搜索次数、加购次数
// - Gauge（仪表盘）：可增可减，如活跃会话数、熔断器状态
// - Histogram（直方图）：观测值分布，如搜索接口耗时
//
// # 使用示例
//
//	// 1. 启动时初始化一次
//	metrics.InitMetrics()
//
//	// 2. 暴露/metrics端点
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 业务代码记录指标
//	start := time.Now()
//	page, err := fetcher.Search(ctx, "jeans", 1)
//	metrics.ObserveProductFetch(resultLabel(err), time.Since(start))
//
// # 命名规范
//
// 1. Counter以`_total`结尾
// 2. Histogram以单位结尾（`_seconds`）
// 3. 标签只用有限取值（result、action），不要用会话ID、搜索词做标签
//
// 未调用InitMetrics时所有Observe/Inc辅助函数都是空操作，
// 方便单元测试直接构造业务对象。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method、path（路由模板，不含参数值）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 商品搜索指标

	// ProductFetchesTotal 商品搜索请求总数（Counter）
	// 标签：result（success/network_error/request_failed/malformed_response）
	ProductFetchesTotal *prometheus.CounterVec

	// ProductFetchDuration 商品搜索耗时（Histogram）
	// 外部API，桶设置：50ms、100ms、250ms、500ms、1s、2.5s、5s、10s
	ProductFetchDuration prometheus.Histogram

	// ProductFetchesSuppressed 被去重窗口拦截的搜索次数（Counter）
	ProductFetchesSuppressed prometheus.Counter

	// 购物车指标

	// CartActionsTotal 购物车操作总数（Counter）
	// 标签：action（ADD_ITEM/REMOVE_ITEM/DELETE_ITEM）
	CartActionsTotal *prometheus.CounterVec

	// 会话指标

	// SessionsActive 当前活跃的页面会话数（Gauge）
	SessionsActive prometheus.Gauge

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，使用promauto注册到默认Registry
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 商品搜索指标
	ProductFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_fetches_total",
			Help: "商品搜索请求总数",
		},
		[]string{"result"},
	)

	ProductFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "product_fetch_duration_seconds",
			Help:    "商品搜索耗时（秒）",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ProductFetchesSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "product_fetches_suppressed_total",
			Help: "去重窗口内被抑制的商品搜索次数",
		},
	)

	// 购物车指标
	CartActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_actions_total",
			Help: "购物车操作总数",
		},
		[]string{"action"},
	)

	// 会话指标
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_sessions_active",
			Help: "当前活跃的页面会话数",
		},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)
}

// =========================================
// 通用辅助函数
// =========================================

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	if gauge == nil {
		return
	}
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}

// =========================================
// 业务辅助函数
// =========================================

// ObserveProductFetch 记录一次商品搜索的结果和耗时
func ObserveProductFetch(result string, elapsed time.Duration) {
	IncCounterVec(ProductFetchesTotal, map[string]string{"result": result})
	ObserveHistogram(ProductFetchDuration, elapsed.Seconds())
}

// IncFetchSuppressed 记录一次被去重窗口拦截的搜索
func IncFetchSuppressed() {
	IncCounter(ProductFetchesSuppressed)
}

// IncCartAction 记录一次购物车操作
func IncCartAction(action string) {
	IncCounterVec(CartActionsTotal, map[string]string{"action": action})
}

// SetBreakerState 记录熔断器状态
func SetBreakerState(name string, state int) {
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": name}, float64(state))
}

// IncBreakerRequest 记录熔断器请求结果
func IncBreakerRequest(name, result string) {
	IncCounterVec(CircuitBreakerRequests, map[string]string{"name": name, "result": result})
}

// IncMessagePublished 记录一次消息发布
func IncMessagePublished(exchange, routingKey string) {
	IncCounterVec(MessagesPublishedTotal, map[string]string{"exchange": exchange, "routing_key": routingKey})
}
