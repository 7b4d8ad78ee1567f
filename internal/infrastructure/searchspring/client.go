package searchspring

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/tracing"
)

const (
	// DefaultEndpoint Searchspring搜索接口
	DefaultEndpoint = "https://api.searchspring.net/api/search/search.json"
	// DefaultSiteID 店铺站点ID
	DefaultSiteID = "scmq7n"

	tracerName  = "searchspring"
	breakerName = "searchspring"

	// maxBodyBytes 单页结果的响应体上限
	maxBodyBytes = 8 << 20
)

// Config Searchspring客户端配置
type Config struct {
	Endpoint string
	SiteID   string
	Timeout  time.Duration

	// 熔断器：连续失败BreakerMaxFailures次后打开，BreakerOpenTimeout后进入半开
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

// Client 基于HTTP的商品搜索实现
// 实现product.Fetcher接口
//
// 设计说明：
// 1. 相同(query,page)的并发请求用singleflight合并成一次外部调用（跨会话）
// 2. 外部调用经过gobreaker熔断，熔断打开时直接返回NetworkError
// 3. 每次调用一个Span，结果计入Prometheus
type Client struct {
	endpoint string
	siteID   string
	http     *http.Client
	sf       singleflight.Group
	cb       *gobreaker.CircuitBreaker
	log      logrus.FieldLogger
}

// Option 客户端可选项
type Option func(*Client)

// WithHTTPClient 替换底层HTTP客户端（测试或自定义Transport）
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient 创建Searchspring客户端
func NewClient(cfg Config, log logrus.FieldLogger, opts ...Option) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.SiteID == "" {
		cfg.SiteID = DefaultSiteID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerMaxFailures == 0 {
		cfg.BreakerMaxFailures = 5
	}
	if cfg.BreakerOpenTimeout <= 0 {
		cfg.BreakerOpenTimeout = 30 * time.Second
	}

	c := &Client{
		endpoint: cfg.Endpoint,
		siteID:   cfg.SiteID,
		http:     &http.Client{Timeout: cfg.Timeout},
		log:      log,
	}

	maxFailures := cfg.BreakerMaxFailures
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// 只有网络错误和5xx算作失败，4xx和格式错误说明对端是活的
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, product.ErrMalformedResponse) {
				return true
			}
			var rf *product.RequestFailedError
			if errors.As(err, &rf) {
				return rf.StatusCode < http.StatusInternalServerError
			}
			return false
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithField("breaker", name).Warnf("CircuitBreaker state changed from %s to %s", from, to)
			metrics.SetBreakerState(name, breakerStateValue(to))
		},
	})
	metrics.SetBreakerState(breakerName, breakerStateValue(gobreaker.StateClosed))

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search 请求一页搜索结果
func (c *Client) Search(ctx context.Context, query string, page int) (*product.Page, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "searchspring.Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.query", query),
		attribute.Int("search.page", page),
	)

	key := query + "|" + strconv.Itoa(page)
	v, err, shared := c.sf.Do(key, func() (interface{}, error) {
		return c.execute(ctx, query, page)
	})
	span.SetAttributes(attribute.Bool("search.shared", shared))
	tracing.RecordError(span, err)
	if err != nil {
		return nil, err
	}

	// 共享结果时每个调用方拿到独立的切片，避免互相影响
	res := v.(*product.Page)
	out := &product.Page{
		Results:    append([]product.Product(nil), res.Results...),
		TotalPages: res.TotalPages,
	}
	if out.Results == nil {
		out.Results = []product.Product{}
	}
	return out, nil
}

// execute 经熔断器执行一次外部调用并记录指标
func (c *Client) execute(ctx context.Context, query string, page int) (*product.Page, error) {
	start := time.Now()

	v, err := c.cb.Execute(func() (interface{}, error) {
		return c.do(ctx, query, page)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.IncBreakerRequest(breakerName, "rejected")
		err = product.NewNetworkError(err)
	} else if err != nil {
		metrics.IncBreakerRequest(breakerName, "failure")
	} else {
		metrics.IncBreakerRequest(breakerName, "success")
	}

	metrics.ObserveProductFetch(resultLabel(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	return v.(*product.Page), nil
}

// do 发起HTTP请求并解析响应
func (c *Client) do(ctx context.Context, query string, page int) (*product.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(query, page), nil)
	if err != nil {
		return nil, product.NewNetworkError(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, product.NewNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, product.NewRequestFailed(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, product.NewNetworkError(err)
	}
	return decode(body)
}

// buildURL 拼接查询参数，query做URL编码
func (c *Client) buildURL(query string, page int) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("resultsFormat", "native")
	params.Set("page", strconv.Itoa(page))
	params.Set("siteId", c.siteID)
	return c.endpoint + "?" + params.Encode()
}

// searchResponse 只解析用到的字段
// 字段保持原始JSON,逐个宽松解析，单个字段类型不对不影响整页
type searchResponse struct {
	Results    json.RawMessage `json:"results"`
	Pagination json.RawMessage `json:"pagination"`
}

type rawPagination struct {
	TotalPages json.RawMessage `json:"totalPages"`
}

// rawProduct native格式的商品，数值字段可能是数字也可能是字符串(包括空串)
type rawProduct struct {
	ID                json.RawMessage `json:"id"`
	Name              json.RawMessage `json:"name"`
	Price             json.RawMessage `json:"price"`
	MSRP              json.RawMessage `json:"msrp"`
	ImageURL          json.RawMessage `json:"imageUrl"`
	ThumbnailImageURL json.RawMessage `json:"thumbnailImageUrl"`
}

// decode 解析响应体
// 只有body不是合法JSON时返回ErrMalformedResponse，其余情况降级：
// - results缺失或不是数组→空列表，数组中不是对象的元素跳过
// - price无法解析→0，msrp无法解析→视为缺失
// - totalPages缺失、不是整数或<1→1
func decode(body []byte) (*product.Page, error) {
	if !json.Valid(body) {
		return nil, product.NewMalformedResponse(errors.New("decode search response: invalid JSON"))
	}

	page := &product.Page{
		Results:    []product.Product{},
		TotalPages: 1,
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		// 合法JSON但顶层不是对象
		return page, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(sr.Results, &items); err == nil {
		for _, item := range items {
			if p, ok := decodeProduct(item); ok {
				page.Results = append(page.Results, p)
			}
		}
	}

	var pg rawPagination
	if err := json.Unmarshal(sr.Pagination, &pg); err == nil {
		if n, ok := parseInt(pg.TotalPages); ok && n > 1 {
			page.TotalPages = n
		}
	}
	return page, nil
}

func decodeProduct(data json.RawMessage) (product.Product, bool) {
	var raw rawProduct
	if err := json.Unmarshal(data, &raw); err != nil {
		return product.Product{}, false
	}

	p := product.Product{
		ID:                product.ID(parseString(raw.ID)),
		Name:              parseString(raw.Name),
		ImageURL:          parseString(raw.ImageURL),
		ThumbnailImageURL: parseString(raw.ThumbnailImageURL),
	}
	if price, ok := parseDecimal(raw.Price); ok {
		p.Price = price
	}
	if msrp, ok := parseDecimal(raw.MSRP); ok {
		p.MSRP = decimal.NewNullDecimal(msrp)
	}
	return p, true
}

// parseString 字符串原样返回，数字转成文本，其他类型→""
func parseString(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		return n.String()
	}
	return ""
}

// parseDecimal 接受数字和数字字符串，空串、null和非数字返回false
func parseDecimal(data json.RawMessage) (decimal.Decimal, bool) {
	text := strings.TrimSpace(parseString(data))
	if text == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseInt 接受整数和整数字符串("3"),小数和其他类型返回false
func parseInt(data json.RawMessage) (int, bool) {
	text := strings.TrimSpace(parseString(data))
	if text == "" {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, product.ErrRequestFailed):
		return "request_failed"
	case errors.Is(err, product.ErrMalformedResponse):
		return "malformed_response"
	default:
		return "network_error"
	}
}

// breakerStateValue 转换为指标值：0=CLOSED, 1=OPEN, 2=HALF_OPEN
func breakerStateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
