// Package fetchguard 抑制短时间内重复的商品拉取
//
// 背景：
// 视图重新挂载（同一页面会话里客户端重复attach）时，同一个
// "查询词|页码" 可能在几毫秒内被请求两次。Guard只记住最近一次
// 拉取的键和时间，同键且间隔小于窗口（默认5000ms）时跳过。
//
// 它不是请求缓存：
// - 不同的键永远放行
// - 同一个键超过窗口后再次放行
// - 被跳过的请求不会刷新记录的时间
//
// 使用方式：
//
//	guard := fetchguard.New(fetchguard.DefaultWindow)
//	if !guard.Allow(search.FetchKey(query, page)) {
//	    return // 重复请求，直接忽略
//	}
package fetchguard

import (
	"sync"
	"time"
)

// DefaultWindow 去重窗口
const DefaultWindow = 5000 * time.Millisecond

// Record 最近一次拉取记录（单槽，不保留历史）
type Record struct {
	Key string
	At  time.Time
}

// Option Guard配置项
type Option func(*Guard)

// WithClock 注入时钟（测试使用）
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

// Guard 单槽去重器
// 由页面会话持有并注入到视图中，视图重新挂载时共享同一个Guard
type Guard struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	last   Record
	filled bool
}

// New 创建Guard，window<=0时使用DefaultWindow
func New(window time.Duration, opts ...Option) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}
	g := &Guard{
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Allow 使用内部时钟判断是否放行
func (g *Guard) Allow(key string) bool {
	return g.AllowAt(key, g.now())
}

// AllowAt 判断key在now时刻是否放行
// 返回false表示重复请求已被抑制（记录保持不变）
// 返回true时用 {key, now} 覆盖记录
func (g *Guard) AllowAt(key string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.filled && g.last.Key == key && now.Sub(g.last.At) < g.window {
		return false
	}

	g.last = Record{Key: key, At: now}
	g.filled = true
	return true
}

// Last 返回最近一次放行的记录
func (g *Guard) Last() (Record, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last, g.filled
}

// Reset 清空记录
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = Record{}
	g.filled = false
}
