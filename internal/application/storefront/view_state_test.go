package storefront

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/pkg/fetchguard"
	"github.com/xiebiao/storefront/pkg/logger"
)

// fetchCall 一次Search调用的参数
type fetchCall struct {
	query string
	page  int
}

// fakeFetcher 记录调用并按query返回预设结果
type fakeFetcher struct {
	mu      sync.Mutex
	calls   []fetchCall
	results map[string]*product.Page
	err     error
	// 非nil时Search在返回前等待
	gate chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{results: make(map[string]*product.Page)}
}

func (f *fakeFetcher) Search(ctx context.Context, query string, page int) (*product.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{query: query, page: page})
	gate, err := f.gate, f.err
	res, ok := f.results[query]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return &product.Page{Results: []product.Product{}, TotalPages: 1}, nil
	}
	return res, nil
}

func (f *fakeFetcher) Calls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.calls...)
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []CartEvent
	err    error
}

func (p *recordingPublisher) PublishCartEvent(_ context.Context, e CartEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func newView(f product.Fetcher, opts ...ViewOption) *ViewState {
	opts = append([]ViewOption{WithLogger(logger.Discard())}, opts...)
	return NewViewState("s-1", f, fetchguard.New(fetchguard.DefaultWindow), opts...)
}

func products(ids ...string) []product.Product {
	out := make([]product.Product, len(ids))
	for i, id := range ids {
		out[i] = product.Product{ID: product.ID(id), Name: "item " + id, Price: decimal.RequireFromString("10.00")}
	}
	return out
}

// 场景A: 首次加载只拉取一次sunglasses第1页(即使重复挂载)
func TestViewState_ScenarioA_InitialLoadOnce(t *testing.T) {
	f := newFakeFetcher()
	f.results["sunglasses"] = &product.Page{Results: products("1", "2"), TotalPages: 4}
	v := newView(f)

	v.Mount(context.Background())
	v.Mount(context.Background()) // 重复挂载

	calls := f.Calls()
	require.Len(t, calls, 1, "重复挂载只应拉取一次")
	assert.Equal(t, fetchCall{query: "sunglasses", page: 1}, calls[0])

	view := v.Snapshot()
	assert.Len(t, view.Products, 2)
	assert.Equal(t, 4, view.Search.TotalPages)
	assert.False(t, view.Loading)
}

// 场景B: 同一商品加购两次 → 一行,数量2,总额39.98
func TestViewState_ScenarioB_AddTwice(t *testing.T) {
	v := newView(newFakeFetcher())
	line := cart.Line{ID: "p1", Name: "Hat", Price: decimal.RequireFromString("19.99")}

	v.AddToCart(context.Background(), line)
	v.AddToCart(context.Background(), line)

	view := v.Snapshot()
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, 2, view.Cart.Lines[0].Quantity)
	assert.Equal(t, 2, view.Cart.Count)
	assert.Equal(t, "39.98", view.Cart.Total)
}

// 场景C: 提交搜索jeans → 页码回到1,拉取jeans|1,商品列表为返回结果
func TestViewState_ScenarioC_SubmitSearch(t *testing.T) {
	f := newFakeFetcher()
	f.results["sunglasses"] = &product.Page{Results: products("s1"), TotalPages: 5}
	f.results["jeans"] = &product.Page{Results: products("j1", "j2", "j3"), TotalPages: 2}
	v := newView(f)
	ctx := context.Background()

	v.Mount(ctx)
	require.NoError(t, v.GoToPage(ctx, 3))

	v.SubmitSearch(ctx, "  jeans ")

	calls := f.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, fetchCall{query: "jeans", page: 1}, calls[2])

	view := v.Snapshot()
	assert.Equal(t, "jeans", view.Search.EffectiveQuery)
	assert.Equal(t, "jeans", view.Search.SearchTerm)
	assert.Equal(t, 1, view.Search.CurrentPage)
	assert.Equal(t, 2, view.Search.TotalPages)
	require.Len(t, view.Products, 3)
	assert.Equal(t, "j1", view.Products[0].ID)
}

// 场景D: 拉取失败 → 商品列表为空, loading=false, 不向调用方返回错误
func TestViewState_ScenarioD_FetchFailure(t *testing.T) {
	f := newFakeFetcher()
	f.results["sunglasses"] = &product.Page{Results: products("1"), TotalPages: 3}
	v := newView(f)
	ctx := context.Background()

	v.Mount(ctx)
	require.Len(t, v.Snapshot().Products, 1)

	f.mu.Lock()
	f.err = product.NewRequestFailed(500)
	f.mu.Unlock()

	v.SubmitSearch(ctx, "hats")

	view := v.Snapshot()
	assert.Empty(t, view.Products)
	assert.NotNil(t, view.Products)
	assert.False(t, view.Loading)
	assert.Equal(t, 3, view.Search.TotalPages, "失败时不修改totalPages")
}

func TestViewState_Sync(t *testing.T) {
	t.Run("依赖元组不变时不拉取", func(t *testing.T) {
		f := newFakeFetcher()
		v := newView(f)

		v.Sync(context.Background())
		v.Sync(context.Background())
		v.SetSearchTerm(context.Background(), "typing...")
		v.Sync(context.Background())

		assert.Len(t, f.Calls(), 1)
		assert.Equal(t, "typing...", v.Snapshot().Search.SearchTerm)
		assert.Equal(t, "sunglasses", v.Snapshot().Search.EffectiveQuery)
	})

	t.Run("相同查询重复提交在窗口内被抑制", func(t *testing.T) {
		f := newFakeFetcher()
		v := newView(f)
		ctx := context.Background()

		v.SubmitSearch(ctx, "jeans")
		v.SubmitSearch(ctx, "jeans")

		assert.Len(t, f.Calls(), 1, "5000ms内相同键应被FetchGuard抑制")
		assert.Equal(t, uint64(2), v.Snapshot().Search.Signal)
	})

	t.Run("超出窗口后相同查询重新拉取", func(t *testing.T) {
		now := time.Unix(1700000000, 0)
		clock := func() time.Time { return now }
		f := newFakeFetcher()
		v := NewViewState("s-1", f, fetchguard.New(fetchguard.DefaultWindow, fetchguard.WithClock(clock)), WithLogger(logger.Discard()))
		ctx := context.Background()

		v.SubmitSearch(ctx, "jeans")
		now = now.Add(6 * time.Second)
		v.SubmitSearch(ctx, "jeans")

		assert.Len(t, f.Calls(), 2)
	})

	t.Run("空字符串搜索有效", func(t *testing.T) {
		f := newFakeFetcher()
		v := newView(f)

		v.SubmitSearch(context.Background(), "   ")

		calls := f.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "", calls[0].query)
	})
}

func TestViewState_LoadingDuringFetch(t *testing.T) {
	f := newFakeFetcher()
	f.gate = make(chan struct{})
	v := newView(f)

	done := make(chan struct{})
	go func() {
		v.Mount(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return len(f.Calls()) == 1 }, time.Second, time.Millisecond)
	assert.True(t, v.Snapshot().Loading, "拉取进行中loading应为true")

	close(f.gate)
	<-done
	assert.False(t, v.Snapshot().Loading)
}

func TestViewState_FetchSurvivesCancel(t *testing.T) {
	f := newFakeFetcher()
	f.results["sunglasses"] = &product.Page{Results: products("1"), TotalPages: 1}
	v := newView(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v.Mount(ctx)

	assert.Len(t, v.Snapshot().Products, 1, "调用方取消不应中断拉取")
}

func TestViewState_Pagination(t *testing.T) {
	f := newFakeFetcher()
	f.results["sunglasses"] = &product.Page{Results: products("1"), TotalPages: 3}
	v := newView(f)
	ctx := context.Background()
	v.Mount(ctx)

	t.Run("边界", func(t *testing.T) {
		assert.ErrorIs(t, v.PrevPage(ctx), ErrPageOutOfRange)
		assert.ErrorIs(t, v.GoToPage(ctx, 0), ErrPageOutOfRange)
		assert.ErrorIs(t, v.GoToPage(ctx, 4), ErrPageOutOfRange)
	})

	t.Run("翻页不改变effectiveQuery", func(t *testing.T) {
		require.NoError(t, v.NextPage(ctx))
		require.NoError(t, v.NextPage(ctx))
		assert.ErrorIs(t, v.NextPage(ctx), ErrPageOutOfRange)

		view := v.Snapshot()
		assert.Equal(t, 3, view.Search.CurrentPage)
		assert.Equal(t, "sunglasses", view.Search.EffectiveQuery)
		assert.True(t, view.Search.HasPrev)
		assert.False(t, view.Search.HasNext)
		assert.Equal(t, []int{1, 2, 3}, view.Search.Pages)

		calls := f.Calls()
		assert.Equal(t, fetchCall{query: "sunglasses", page: 3}, calls[len(calls)-1])
	})

	t.Run("上一页", func(t *testing.T) {
		require.NoError(t, v.PrevPage(ctx))
		assert.Equal(t, 2, v.Snapshot().Search.CurrentPage)
	})
}

func TestViewState_QuickFilter(t *testing.T) {
	f := newFakeFetcher()
	v := newView(f)
	ctx := context.Background()

	require.NoError(t, v.SelectQuickFilter(ctx, "hats"))
	assert.ErrorIs(t, v.SelectQuickFilter(ctx, "gloves"), ErrUnknownFilter)

	view := v.Snapshot()
	assert.Equal(t, "hats", view.Search.SearchTerm)
	assert.Equal(t, "hats", view.Search.EffectiveQuery)
	assert.Equal(t, 1, view.Search.CurrentPage)
	assert.Equal(t, []string{"shoes", "sunglasses", "jeans", "hats"}, view.QuickFilters)
	assert.Equal(t, []fetchCall{{query: "hats", page: 1}}, f.Calls())
}

func TestViewState_Cart(t *testing.T) {
	ctx := context.Background()
	hat := cart.Line{ID: "p1", Name: "Hat", Price: decimal.RequireFromString("19.99")}
	shoe := cart.Line{ID: "p2", Name: "Shoe", Price: decimal.RequireFromString("5"), Image: "shoe.jpg"}

	t.Run("减少与删除", func(t *testing.T) {
		v := newView(newFakeFetcher())
		v.AddToCart(ctx, hat)
		v.AddToCart(ctx, hat)
		v.AddToCart(ctx, shoe)

		v.RemoveFromCart(ctx, "p1")
		view := v.Snapshot()
		require.Len(t, view.Cart.Lines, 2)
		assert.Equal(t, 1, view.Cart.Lines[0].Quantity)

		v.RemoveFromCart(ctx, "p1")
		view = v.Snapshot()
		require.Len(t, view.Cart.Lines, 1)
		assert.Equal(t, "p2", view.Cart.Lines[0].ID)

		v.DeleteFromCart(ctx, "p2")
		v.DeleteFromCart(ctx, "p2")
		view = v.Snapshot()
		assert.Empty(t, view.Cart.Lines)
		assert.Equal(t, "0.00", view.Cart.Total)
	})

	t.Run("购物车行缺图使用占位图", func(t *testing.T) {
		v := newView(newFakeFetcher())
		v.AddToCart(ctx, hat)
		v.AddToCart(ctx, shoe)

		lines := v.Snapshot().Cart.Lines
		assert.Equal(t, product.PlaceholderImage, lines[0].Image)
		assert.Equal(t, "shoe.jpg", lines[1].Image)
		assert.Equal(t, "5.00", lines[1].Price)
	})

	t.Run("抽屉开关", func(t *testing.T) {
		v := newView(newFakeFetcher())
		v.OpenCart(ctx)
		assert.True(t, v.Snapshot().Cart.Open)
		v.CloseCart(ctx)
		assert.False(t, v.Snapshot().Cart.Open)
	})

	t.Run("未知动作为no-op", func(t *testing.T) {
		pub := &recordingPublisher{}
		v := newView(newFakeFetcher(), WithEvents(pub))
		v.AddToCart(ctx, hat)

		v.Dispatch(ctx, cart.Action{Type: "CLEAR_ALL"})
		v.RemoveFromCart(ctx, "missing")

		assert.Equal(t, 1, v.Snapshot().Cart.Count)
		assert.Len(t, pub.events, 1, "no-op动作不应发布事件")
	})
}

func TestViewState_AddProductToCart(t *testing.T) {
	f := newFakeFetcher()
	f.results["sunglasses"] = &product.Page{Results: []product.Product{{
		ID:                "42",
		Name:              "Aviator",
		Price:             decimal.RequireFromString("48"),
		ImageURL:          "big.jpg",
		ThumbnailImageURL: "thumb.jpg",
	}}, TotalPages: 1}
	v := newView(f)
	ctx := context.Background()
	v.Mount(ctx)

	require.NoError(t, v.AddProductToCart(ctx, "42"))
	assert.ErrorIs(t, v.AddProductToCart(ctx, "43"), ErrProductNotListed)

	view := v.Snapshot()
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, "thumb.jpg", view.Cart.Lines[0].Image)
	assert.Equal(t, "48.00", view.Cart.Lines[0].Price)
	require.Len(t, view.Products, 1)
	assert.True(t, view.Products[0].InCart)
	assert.Equal(t, 1, view.Products[0].Quantity)
}

func TestViewState_ProductItems(t *testing.T) {
	f := newFakeFetcher()
	f.results["sunglasses"] = &product.Page{Results: []product.Product{
		{ID: "1", Name: "Sale", Price: decimal.RequireFromString("30"), MSRP: decimal.NewNullDecimal(decimal.RequireFromString("45.5"))},
		{ID: "2", Name: "Regular", Price: decimal.RequireFromString("30"), MSRP: decimal.NewNullDecimal(decimal.RequireFromString("30"))},
	}, TotalPages: 1}
	v := newView(f)
	v.Mount(context.Background())

	items := v.Snapshot().Products
	require.Len(t, items, 2)
	require.NotNil(t, items[0].MSRP)
	assert.Equal(t, "45.50", *items[0].MSRP)
	assert.Nil(t, items[1].MSRP)
	assert.Equal(t, product.PlaceholderImage, items[0].Image)
}

func TestViewState_Events(t *testing.T) {
	pub := &recordingPublisher{}
	v := newView(newFakeFetcher(), WithEvents(pub))
	ctx := context.Background()
	hat := cart.Line{ID: "p1", Name: "Hat", Price: decimal.RequireFromString("19.99")}

	v.AddToCart(ctx, hat)
	v.AddToCart(ctx, hat)
	v.RemoveFromCart(ctx, "p1")
	v.DeleteFromCart(ctx, "p1")

	require.Len(t, pub.events, 4)
	assert.Equal(t, EventItemAdded, pub.events[0].Type)
	assert.Equal(t, 2, pub.events[1].Quantity)
	assert.Equal(t, "39.98", pub.events[1].CartTotal)
	assert.Equal(t, EventItemRemoved, pub.events[2].Type)
	assert.Equal(t, 1, pub.events[2].Quantity)
	assert.Equal(t, EventItemDeleted, pub.events[3].Type)
	assert.Equal(t, 0, pub.events[3].Quantity)
	assert.Equal(t, 0, pub.events[3].CartCount)
	assert.Equal(t, "s-1", pub.events[3].SessionID)

	t.Run("发布失败不影响购物车", func(t *testing.T) {
		failing := &recordingPublisher{err: errors.New("broker down")}
		v := newView(newFakeFetcher(), WithEvents(failing))

		v.AddToCart(ctx, hat)
		assert.Equal(t, 1, v.Snapshot().Cart.Count)
	})
}

func TestViewState_Persist(t *testing.T) {
	var (
		mu    sync.Mutex
		saved []Snapshot
	)
	persist := func(_ context.Context, snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		saved = append(saved, snap)
	}

	f := newFakeFetcher()
	f.results["jeans"] = &product.Page{TotalPages: 7}
	v := newView(f, WithPersist(persist))
	ctx := context.Background()

	v.SubmitSearch(ctx, "jeans")
	v.AddToCart(ctx, cart.Line{ID: "p1", Price: decimal.NewFromInt(1)})

	require.NotEmpty(t, saved)
	last := saved[len(saved)-1]
	assert.Equal(t, "jeans", last.Search.EffectiveQuery)
	assert.Equal(t, 7, last.Search.TotalPages)
	assert.Len(t, last.Cart, 1)

	t.Run("从快照恢复", func(t *testing.T) {
		restored := newView(newFakeFetcher(), WithSnapshot(last))

		view := restored.Snapshot()
		assert.Equal(t, "jeans", view.Search.EffectiveQuery)
		assert.Equal(t, 1, view.Cart.Count)
		assert.Empty(t, view.Products, "商品列表不恢复,挂载时重新拉取")
	})
}

func TestViewState_PersistOrdering(t *testing.T) {
	var (
		mu    sync.Mutex
		saved []Snapshot
	)
	entered := make(chan struct{}, 1)
	gate := make(chan struct{})
	first := true
	persist := func(_ context.Context, snap Snapshot) {
		mu.Lock()
		block := first
		first = false
		mu.Unlock()

		// 第一次保存卡住,模拟慢存储
		if block {
			entered <- struct{}{}
			<-gate
		}

		mu.Lock()
		defer mu.Unlock()
		saved = append(saved, snap)
	}

	v := newView(newFakeFetcher(), WithPersist(persist))
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		v.AddToCart(ctx, cart.Line{ID: "p1", Price: decimal.NewFromInt(1)})
	}()
	<-entered

	// 第一次保存未完成时发生第二次变更,调用方不被阻塞
	v.AddToCart(ctx, cart.Line{ID: "p2", Price: decimal.NewFromInt(2)})
	assert.Equal(t, 2, v.Snapshot().Cart.Count)

	close(gate)
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, saved)
	last := saved[len(saved)-1]
	assert.Len(t, last.Cart, 2, "最后保存的快照必须是最新状态")
	for i := 1; i < len(saved); i++ {
		assert.Greater(t, saved[i].Version, saved[i-1].Version, "快照按版本递增保存")
	}
}

func TestViewState_SaveDropsStaleVersion(t *testing.T) {
	var saved []Snapshot
	v := newView(newFakeFetcher(), WithPersist(func(_ context.Context, snap Snapshot) {
		saved = append(saved, snap)
	}))
	ctx := context.Background()

	v.AddToCart(ctx, cart.Line{ID: "p1", Price: decimal.NewFromInt(1)})
	v.AddToCart(ctx, cart.Line{ID: "p2", Price: decimal.NewFromInt(1)})
	require.Len(t, saved, 2)

	// 晚到的旧快照被丢弃
	v.save(ctx, saved[0])
	assert.Len(t, saved, 2)

	t.Run("恢复后版本继续递增", func(t *testing.T) {
		var after []Snapshot
		restored := newView(newFakeFetcher(), WithSnapshot(saved[1]), WithPersist(func(_ context.Context, snap Snapshot) {
			after = append(after, snap)
		}))

		restored.OpenCart(ctx)
		require.Len(t, after, 1)
		assert.Greater(t, after[0].Version, saved[1].Version)
	})
}

func TestViewState_RestoreNormalizesCart(t *testing.T) {
	snap := Snapshot{
		Cart: cart.Cart{
			{ID: "p1", Name: "帽子", Price: decimal.NewFromInt(10), Quantity: 1},
			{ID: "p1", Name: "帽子", Price: decimal.NewFromInt(10), Quantity: 2},
			{ID: "p2", Price: decimal.NewFromInt(5), Quantity: 0},
			{ID: "p3", Price: decimal.NewFromInt(5), Quantity: -1},
		},
	}

	v := newView(newFakeFetcher(), WithSnapshot(snap))

	view := v.Snapshot()
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, "p1", view.Cart.Lines[0].ID)
	assert.Equal(t, 3, view.Cart.Lines[0].Quantity)
	assert.Equal(t, 3, view.Cart.Count)

	// 恢复后的购物车继续遵守reducer规则
	v.RemoveFromCart(context.Background(), "p1")
	assert.Equal(t, 2, v.Snapshot().Cart.Count)
}
