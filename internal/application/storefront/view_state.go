package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/search"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/fetchguard"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/tracing"
)

const tracerName = "storefront"

// fetchDeps 拉取副作用的依赖元组
// 元组不变时Sync不做任何事,与页面只在依赖变化时重新执行副作用一致
type fetchDeps struct {
	query  string
	page   int
	signal uint64
}

// ViewState 一个页面会话的视图状态
// 设计说明:
// 1. 持有购物车、搜索协调器、商品列表、loading和购物车抽屉状态
// 2. 拉取流程: 依赖变化 → FetchGuard去重 → loading=true → 调用Fetcher → 写回结果 → loading=false
// 3. 不取消进行中的请求: 两次拉取重叠时,后返回的结果覆盖先返回的
// 4. 拉取失败不向调用方返回错误,商品列表降级为空
//
// 并发: 所有状态读写持有mu;外部调用期间释放锁,其他动作不被阻塞
type ViewState struct {
	mu sync.Mutex

	sessionID string
	cart      cart.Cart
	search    *search.Coordinator
	products  []product.Product
	loading   bool
	cartOpen  bool

	// 当前挂载最近一次看到的依赖元组
	lastDeps fetchDeps
	seen     bool

	guard   *fetchguard.Guard
	fetcher product.Fetcher
	events  EventPublisher
	log     logrus.FieldLogger
	persist func(ctx context.Context, snap Snapshot)
	now     func() time.Time

	// 快照版本,每次状态变更在mu内递增
	version uint64

	// 保存队列: 同一时刻只有一个保存者,期间到达的快照只保留最新的一份
	saveMu  sync.Mutex
	saving  bool
	pending *Snapshot
	saved   uint64
}

// ViewOption ViewState可选项
type ViewOption func(*ViewState)

// WithEvents 注入购物车事件发布者
func WithEvents(p EventPublisher) ViewOption {
	return func(v *ViewState) {
		v.events = p
	}
}

// WithLogger 注入日志
func WithLogger(log logrus.FieldLogger) ViewOption {
	return func(v *ViewState) {
		v.log = log
	}
}

// WithSnapshot 从快照恢复购物车和搜索状态(会话重建)
func WithSnapshot(snap Snapshot) ViewOption {
	return func(v *ViewState) {
		v.cart = cart.Normalize(snap.Cart)
		v.search = search.Restore(snap.Search)
		v.cartOpen = snap.CartOpen
		v.version = snap.Version
		v.saved = snap.Version
	}
}

// WithPersist 状态变更后的回调(用于镜像到快照存储)
func WithPersist(fn func(ctx context.Context, snap Snapshot)) ViewOption {
	return func(v *ViewState) {
		v.persist = fn
	}
}

// NewViewState 创建视图状态
// guard由调用方持有并传入,同一会话的多次挂载共享同一个guard
func NewViewState(sessionID string, fetcher product.Fetcher, guard *fetchguard.Guard, opts ...ViewOption) *ViewState {
	v := &ViewState{
		sessionID: sessionID,
		cart:      cart.Cart{},
		search:    search.NewCoordinator(),
		products:  []product.Product{},
		guard:     guard,
		fetcher:   fetcher,
		events:    NoopPublisher{},
		log:       logrus.StandardLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.WithField("session", sessionID)
	return v
}

// SessionID 会话ID
func (v *ViewState) SessionID() string {
	return v.sessionID
}

// =========================================
// 拉取编排
// =========================================

// Mount 页面(重新)挂载
// 忘记上次看到的依赖元组后执行Sync;短时间内的重复挂载由FetchGuard吸收
func (v *ViewState) Mount(ctx context.Context) {
	v.mu.Lock()
	v.seen = false
	v.mu.Unlock()

	v.Sync(ctx)
}

// Sync 拉取副作用
// 依赖元组(effectiveQuery, currentPage, signal)与上次相同时直接返回
func (v *ViewState) Sync(ctx context.Context) {
	v.mu.Lock()
	st := v.search.State()
	deps := fetchDeps{query: st.EffectiveQuery, page: st.CurrentPage, signal: st.Signal}
	if v.seen && v.lastDeps == deps {
		v.mu.Unlock()
		return
	}
	v.lastDeps, v.seen = deps, true

	// 1. 计算请求键
	key := st.FetchKey()

	// 2. 去重窗口内的相同请求直接跳过,不改变loading
	if !v.guard.Allow(key) {
		v.mu.Unlock()
		metrics.IncFetchSuppressed()
		v.log.WithField("key", key).Debug("duplicate fetch suppressed")
		return
	}

	// 3. 标记加载中
	v.loading = true
	v.mu.Unlock()

	// 4-6. 调用外部搜索并写回
	v.fetch(ctx, deps)
}

// fetch 执行一次拉取并写回结果
// 与请求的取消解耦: 调用方断开连接时拉取仍会完成并写回
func (v *ViewState) fetch(ctx context.Context, deps fetchDeps) {
	ctx, span := tracing.StartSpan(context.WithoutCancel(ctx), tracerName, "storefront.Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", v.sessionID),
		attribute.String("search.query", deps.query),
		attribute.Int("search.page", deps.page),
	)

	page, err := v.fetcher.Search(ctx, deps.query, deps.page)

	v.mu.Lock()
	if err != nil {
		// 5b. 失败降级为空列表,只记录日志
		v.products = []product.Product{}
		v.logFetchError(deps, err)
	} else {
		// 5a. 成功: 替换商品列表并记录总页数
		v.products = page.Results
		if v.products == nil {
			v.products = []product.Product{}
		}
		v.search.SetTotalPages(page.TotalPages)
	}

	// 6. 无论成功失败都结束加载
	v.loading = false
	snap := v.nextSnapshotLocked()
	v.mu.Unlock()

	// totalPages可能变化
	v.save(ctx, snap)
}

func (v *ViewState) logFetchError(deps fetchDeps, err error) {
	fields := logrus.Fields{
		"query": deps.query,
		"page":  deps.page,
	}
	if appErr := apperrors.GetAppError(err); appErr != nil {
		fields["error_code"] = appErr.Code
	}
	var rf *product.RequestFailedError
	if errors.As(err, &rf) {
		fields["status_code"] = rf.StatusCode
	}
	v.log.WithFields(fields).WithError(err).Warn("Error fetching products")
}

// =========================================
// 搜索动作
// =========================================

// SetSearchTerm 只更新搜索框显示的文字,不触发拉取
func (v *ViewState) SetSearchTerm(ctx context.Context, term string) {
	v.mu.Lock()
	v.search.SetSearchTerm(term)
	snap := v.nextSnapshotLocked()
	v.mu.Unlock()

	v.save(ctx, snap)
}

// SubmitSearch 提交搜索(空字符串同样有效)
func (v *ViewState) SubmitSearch(ctx context.Context, term string) {
	v.mu.Lock()
	v.search.Submit(term)
	snap := v.nextSnapshotLocked()
	v.mu.Unlock()

	v.save(ctx, snap)
	v.Sync(ctx)
}

// SelectQuickFilter 点击快捷筛选
func (v *ViewState) SelectQuickFilter(ctx context.Context, label string) error {
	if !search.IsQuickFilter(label) {
		return ErrUnknownFilter
	}

	v.mu.Lock()
	v.search.SelectQuickFilter(label)
	snap := v.nextSnapshotLocked()
	v.mu.Unlock()

	v.save(ctx, snap)
	v.Sync(ctx)
	return nil
}

// GoToPage 跳转到指定页,n必须在 [1, totalPages] 之内
func (v *ViewState) GoToPage(ctx context.Context, n int) error {
	v.mu.Lock()
	if !v.search.State().InRange(n) {
		v.mu.Unlock()
		return ErrPageOutOfRange
	}
	v.search.SetCurrentPage(n)
	snap := v.nextSnapshotLocked()
	v.mu.Unlock()

	v.save(ctx, snap)
	v.Sync(ctx)
	return nil
}

// NextPage 下一页(已在最后一页时返回ErrPageOutOfRange)
func (v *ViewState) NextPage(ctx context.Context) error {
	v.mu.Lock()
	next := v.search.State().CurrentPage + 1
	v.mu.Unlock()

	return v.GoToPage(ctx, next)
}

// PrevPage 上一页(已在第一页时返回ErrPageOutOfRange)
func (v *ViewState) PrevPage(ctx context.Context) error {
	v.mu.Lock()
	prev := v.search.State().CurrentPage - 1
	v.mu.Unlock()

	return v.GoToPage(ctx, prev)
}

// =========================================
// 购物车动作
// =========================================

// AddToCart 加购一件
func (v *ViewState) AddToCart(ctx context.Context, line cart.Line) {
	v.Dispatch(ctx, cart.Action{Type: cart.ActionAddItem, Line: line})
}

// AddProductToCart 按商品ID加购当前结果页中的商品
// 加购使用缩略图,其次大图
func (v *ViewState) AddProductToCart(ctx context.Context, productID string) error {
	v.mu.Lock()
	var (
		line  cart.Line
		found bool
	)
	for _, p := range v.products {
		if string(p.ID) == productID {
			line = cart.Line{ID: productID, Name: p.Name, Price: p.Price, Image: p.Image()}
			found = true
			break
		}
	}
	v.mu.Unlock()

	if !found {
		return ErrProductNotListed
	}
	v.AddToCart(ctx, line)
	return nil
}

// RemoveFromCart 减少一件(数量为1时移除整行)
func (v *ViewState) RemoveFromCart(ctx context.Context, id string) {
	v.Dispatch(ctx, cart.Action{Type: cart.ActionRemoveItem, ID: id})
}

// DeleteFromCart 删除整行
func (v *ViewState) DeleteFromCart(ctx context.Context, id string) {
	v.Dispatch(ctx, cart.Action{Type: cart.ActionDeleteItem, ID: id})
}

// Dispatch 把动作交给购物车reducer
// 未知动作和不存在的ID都是no-op,不发布事件
func (v *ViewState) Dispatch(ctx context.Context, action cart.Action) {
	v.mu.Lock()
	before := v.cart
	v.cart = cart.Reduce(v.cart, action)
	changed := !sameCart(before, v.cart)

	var (
		event CartEvent
		snap  Snapshot
	)
	if changed {
		id := action.ID
		if action.Type == cart.ActionAddItem {
			id = action.Line.ID
		}
		line, _ := v.cart.Find(id)
		event = CartEvent{
			Type:      eventType(action.Type),
			SessionID: v.sessionID,
			ProductID: id,
			Quantity:  line.Quantity,
			CartCount: v.cart.Count(),
			CartTotal: cart.FormatMoney(v.cart.Total()),
			At:        v.now(),
		}
		snap = v.nextSnapshotLocked()
	}
	v.mu.Unlock()

	if !changed {
		return
	}

	metrics.IncCartAction(string(action.Type))
	v.save(ctx, snap)
	if err := v.events.PublishCartEvent(ctx, event); err != nil {
		v.log.WithError(err).WithField("event", event.Type).Warn("publish cart event failed")
	}
}

// OpenCart 打开购物车抽屉
func (v *ViewState) OpenCart(ctx context.Context) {
	v.setCartOpen(ctx, true)
}

// CloseCart 关闭购物车抽屉
func (v *ViewState) CloseCart(ctx context.Context) {
	v.setCartOpen(ctx, false)
}

func (v *ViewState) setCartOpen(ctx context.Context, open bool) {
	v.mu.Lock()
	v.cartOpen = open
	snap := v.nextSnapshotLocked()
	v.mu.Unlock()

	v.save(ctx, snap)
}

// =========================================
// 读取
// =========================================

// Snapshot 当前视图
func (v *ViewState) Snapshot() View {
	v.mu.Lock()
	defer v.mu.Unlock()

	return buildView(v.sessionID, v.cart, v.search.State(), v.products, v.loading, v.cartOpen)
}

// State 可持久化的会话状态
func (v *ViewState) State() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.snapshotLocked()
}

func (v *ViewState) snapshotLocked() Snapshot {
	return Snapshot{
		Version:  v.version,
		Cart:     append(cart.Cart{}, v.cart...),
		Search:   v.search.State(),
		CartOpen: v.cartOpen,
	}
}

// nextSnapshotLocked 状态已变更,递增版本后取快照
func (v *ViewState) nextSnapshotLocked() Snapshot {
	v.version++
	return v.snapshotLocked()
}

// save 按版本顺序把快照交给persist
// 快照在mu内取得、在mu外保存,两个重叠的动作可能以相反的顺序到达这里:
// 1. 版本不高于已保存或已排队的快照时直接丢弃
// 2. 已有保存者时只替换排队的快照并返回,不阻塞调用方
// 3. 否则成为保存者,循环保存直到队列为空
func (v *ViewState) save(ctx context.Context, snap Snapshot) {
	if v.persist == nil {
		return
	}

	v.saveMu.Lock()
	if snap.Version <= v.saved || (v.pending != nil && snap.Version <= v.pending.Version) {
		v.saveMu.Unlock()
		return
	}
	v.pending = &snap
	if v.saving {
		v.saveMu.Unlock()
		return
	}
	v.saving = true
	for v.pending != nil {
		next := *v.pending
		v.pending = nil
		v.saveMu.Unlock()

		v.persist(ctx, next)

		v.saveMu.Lock()
		v.saved = next.Version
	}
	v.saving = false
	v.saveMu.Unlock()
}

// sameCart reducer对no-op返回同一个切片
func sameCart(a, b cart.Cart) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
