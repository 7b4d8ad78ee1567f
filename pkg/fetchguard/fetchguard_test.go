package fetchguard

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 可手动拨动的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestGuard_Window(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	g := New(DefaultWindow, WithClock(clock.Now))

	require.True(t, g.Allow("jeans|1"), "t=0 首次请求应放行")

	clock.Advance(2000 * time.Millisecond)
	assert.False(t, g.Allow("jeans|1"), "t=2000ms 同键应被抑制")

	clock.Advance(4000 * time.Millisecond)
	assert.True(t, g.Allow("jeans|1"), "t=6000ms 超出窗口应放行")
}

func TestGuard_SuppressedDoesNotRefresh(t *testing.T) {
	t0 := time.Unix(0, 0)
	g := New(DefaultWindow)

	require.True(t, g.AllowAt("k", t0))
	require.False(t, g.AllowAt("k", t0.Add(4000*time.Millisecond)))

	// 被抑制的请求不刷新时间戳,窗口仍从t0起算
	assert.True(t, g.AllowAt("k", t0.Add(5000*time.Millisecond)), "恰好5000ms应放行")

	last, ok := g.Last()
	require.True(t, ok)
	assert.Equal(t, t0.Add(5000*time.Millisecond), last.At)
}

func TestGuard_DifferentKeys(t *testing.T) {
	t0 := time.Unix(0, 0)
	g := New(DefaultWindow)

	assert.True(t, g.AllowAt("jeans|1", t0))
	assert.True(t, g.AllowAt("jeans|2", t0.Add(time.Millisecond)), "不同键应放行")
	// 单槽: 记录已被jeans|2覆盖,jeans|1再次放行
	assert.True(t, g.AllowAt("jeans|1", t0.Add(2*time.Millisecond)))
}

func TestGuard_Reset(t *testing.T) {
	t0 := time.Unix(0, 0)
	g := New(0)

	require.True(t, g.AllowAt("k", t0))
	g.Reset()

	_, ok := g.Last()
	assert.False(t, ok)
	assert.True(t, g.AllowAt("k", t0.Add(time.Millisecond)))
}

func TestGuard_Concurrent(t *testing.T) {
	g := New(DefaultWindow)
	var allowed int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Allow("sunglasses|1") {
				atomic.AddInt32(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), allowed, "并发的同键请求只应放行一次")
}
