package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestNewCoordinator(t *testing.T) {
	s := NewCoordinator().State()

	assert.Equal(t, "sunglasses", s.SearchTerm)
	assert.Equal(t, "sunglasses", s.EffectiveQuery)
	assert.Equal(t, 1, s.CurrentPage)
	assert.Equal(t, uint64(0), s.Signal)
	assert.Equal(t, "sunglasses|1", s.FetchKey())
}

func TestSetSearchTerm(t *testing.T) {
	c := NewCoordinator()

	c.SetSearchTerm("boots")

	s := c.State()
	assert.Equal(t, "boots", s.SearchTerm)
	assert.Equal(t, "sunglasses", s.EffectiveQuery, "展示词变化不应影响实际查询词")
	assert.Equal(t, uint64(0), s.Signal, "展示词变化不应触发搜索")
}

func TestTriggerSearch(t *testing.T) {
	t.Run("override为nil时使用展示词", func(t *testing.T) {
		c := NewCoordinator()
		c.SetSearchTerm("boots")

		c.TriggerSearch(nil)

		assert.Equal(t, "boots", c.State().EffectiveQuery)
		assert.Equal(t, uint64(1), c.State().Signal)
	})

	t.Run("空字符串override同样生效", func(t *testing.T) {
		c := NewCoordinator()

		c.TriggerSearch(strPtr(""))
		c.TriggerSearch(strPtr(""))

		assert.Equal(t, "", c.State().EffectiveQuery)
		assert.Equal(t, uint64(2), c.State().Signal, "查询词不变时信号也要递增")
	})

	t.Run("不重置页码", func(t *testing.T) {
		c := NewCoordinator()
		c.SetTotalPages(5)
		c.SetCurrentPage(3)

		c.TriggerSearch(strPtr("jeans"))

		assert.Equal(t, 3, c.State().CurrentPage)
	})
}

func TestSetCurrentPage_DoesNotTouchQuery(t *testing.T) {
	c := NewCoordinator()
	c.SetTotalPages(4)
	before := c.State()

	c.SetCurrentPage(4)

	after := c.State()
	assert.Equal(t, 4, after.CurrentPage)
	assert.Equal(t, before.EffectiveQuery, after.EffectiveQuery)
	assert.Equal(t, before.Signal, after.Signal)
}

func TestSubmit(t *testing.T) {
	c := NewCoordinator()
	c.SetTotalPages(9)
	c.SetCurrentPage(7)

	c.Submit("  jeans ")

	s := c.State()
	assert.Equal(t, "jeans", s.SearchTerm)
	assert.Equal(t, "jeans", s.EffectiveQuery)
	assert.Equal(t, 1, s.CurrentPage)
	assert.Equal(t, uint64(1), s.Signal)
	assert.Equal(t, "jeans|1", s.FetchKey())
}

func TestSelectQuickFilter(t *testing.T) {
	c := NewCoordinator()
	c.SetTotalPages(3)
	c.SetCurrentPage(2)

	c.SelectQuickFilter("hats")
	c.SelectQuickFilter("hats")

	s := c.State()
	assert.Equal(t, "hats", s.SearchTerm)
	assert.Equal(t, "hats", s.EffectiveQuery)
	assert.Equal(t, 1, s.CurrentPage)
	assert.Equal(t, uint64(2), s.Signal)
}

func TestIsQuickFilter(t *testing.T) {
	assert.True(t, IsQuickFilter("jeans"))
	assert.False(t, IsQuickFilter("Jeans"))
	assert.False(t, IsQuickFilter(""))
}

func TestRestore(t *testing.T) {
	c := Restore(State{SearchTerm: "x", EffectiveQuery: "y", Signal: 9})

	s := c.State()
	assert.Equal(t, 1, s.CurrentPage)
	assert.Equal(t, 1, s.TotalPages)
	assert.Equal(t, uint64(9), s.Signal)
}

func TestPageBounds(t *testing.T) {
	s := State{CurrentPage: 1, TotalPages: 3}
	assert.False(t, s.HasPrev())
	assert.True(t, s.HasNext())
	assert.True(t, s.InRange(3))
	assert.False(t, s.InRange(4))
	assert.False(t, s.InRange(0))

	s.CurrentPage = 3
	assert.True(t, s.HasPrev())
	assert.False(t, s.HasNext())
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           []int
	}{
		{"只有一页", 1, 1, []int{1}},
		{"首页", 1, 10, []int{1, 2, 3, 4, 5}},
		{"中间", 5, 10, []int{3, 4, 5, 6, 7}},
		{"靠近末尾左移", 9, 10, []int{6, 7, 8, 9, 10}},
		{"总页数不足5", 2, 3, []int{1, 2, 3}},
		{"总页数为0按1处理", 1, 0, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageWindow(tt.current, tt.total))
		})
	}
}
