package search

import (
	"strconv"
	"strings"
)

// DefaultQuery 首次进入页面时使用的查询词(保证首屏有商品)
const DefaultQuery = "sunglasses"

// QuickFilters 快捷筛选按钮(固定标签集合)
var QuickFilters = []string{"shoes", "sunglasses", "jeans", "hats"}

// IsQuickFilter 判断标签是否属于快捷筛选
func IsQuickFilter(label string) bool {
	for _, f := range QuickFilters {
		if f == label {
			return true
		}
	}
	return false
}

// State 搜索状态快照
// 设计说明:
// 1. SearchTerm是展示用的词,EffectiveQuery是真正发给搜索API的词
// 2. EffectiveQuery只在显式搜索动作(提交/快捷筛选)时变化,翻页不影响它
// 3. Signal在每次显式搜索时递增,即使查询词不变也能触发重新拉取
type State struct {
	SearchTerm     string `json:"search_term"`
	EffectiveQuery string `json:"effective_query"`
	CurrentPage    int    `json:"current_page"`
	TotalPages     int    `json:"total_pages"`
	Signal         uint64 `json:"search_signal"`
}

// FetchKey 去重用的请求键: effectiveQuery|currentPage
func (s State) FetchKey() string {
	return FetchKey(s.EffectiveQuery, s.CurrentPage)
}

// FetchKey 由查询词和页码拼出请求键
func FetchKey(query string, page int) string {
	return query + "|" + strconv.Itoa(page)
}

// Coordinator 搜索协调器
// 非并发安全,由持有它的ViewState加锁保护
type Coordinator struct {
	state State
}

// NewCoordinator 创建协调器(初始查询为sunglasses,第1页)
func NewCoordinator() *Coordinator {
	return &Coordinator{state: State{
		SearchTerm:     DefaultQuery,
		EffectiveQuery: DefaultQuery,
		CurrentPage:    1,
		TotalPages:     1,
	}}
}

// Restore 从快照恢复协调器(会话重建时使用)
func Restore(s State) *Coordinator {
	if s.CurrentPage < 1 {
		s.CurrentPage = 1
	}
	if s.TotalPages < 1 {
		s.TotalPages = 1
	}
	return &Coordinator{state: s}
}

// State 返回当前状态的副本
func (c *Coordinator) State() State {
	return c.state
}

// SetSearchTerm 只更新展示词,不影响EffectiveQuery,也不触发拉取
func (c *Coordinator) SetSearchTerm(term string) {
	c.state.SearchTerm = term
}

// SetCurrentPage 设置当前页
// 调用方负责保证 1 <= n <= TotalPages,这里不再裁剪
func (c *Coordinator) SetCurrentPage(n int) {
	c.state.CurrentPage = n
}

// SetTotalPages 记录搜索结果的总页数(<1按1处理)
func (c *Coordinator) SetTotalPages(n int) {
	if n < 1 {
		n = 1
	}
	c.state.TotalPages = n
}

// TriggerSearch 显式触发搜索
// - override非nil(包括空字符串)时 EffectiveQuery = *override
// - override为nil时 EffectiveQuery = 当前SearchTerm
// - Signal无条件+1
// 不重置页码,需要回到第1页的调用方自行SetCurrentPage(1)
func (c *Coordinator) TriggerSearch(override *string) {
	if override != nil {
		c.state.EffectiveQuery = *override
	} else {
		c.state.EffectiveQuery = c.state.SearchTerm
	}
	c.state.Signal++
}

// Submit 提交搜索框内容
// 去除首尾空白 → 更新展示词 → 回到第1页 → 触发搜索(空字符串同样有效)
func (c *Coordinator) Submit(input string) {
	q := strings.TrimSpace(input)
	c.state.SearchTerm = q
	c.state.CurrentPage = 1
	c.TriggerSearch(&q)
}

// SelectQuickFilter 点击快捷筛选
// 等价于手动提交该标签: 展示词=标签, 页码=1, 触发搜索
func (c *Coordinator) SelectQuickFilter(label string) {
	c.state.SearchTerm = label
	c.state.CurrentPage = 1
	c.TriggerSearch(&label)
}

// HasPrev 是否可以向前翻页
func (s State) HasPrev() bool {
	return s.CurrentPage > 1
}

// HasNext 是否可以向后翻页
func (s State) HasNext() bool {
	return s.CurrentPage < s.TotalPages
}

// InRange 页码是否在 [1, TotalPages] 之内
func (s State) InRange(page int) bool {
	return page >= 1 && page <= s.TotalPages
}
