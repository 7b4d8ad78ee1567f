package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/pkg/fetchguard"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// SnapshotStore 会话快照存储端口
// Load在快照不存在时返回(nil, nil)
type SnapshotStore interface {
	Save(ctx context.Context, sessionID string, snap Snapshot, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (*Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// SessionConfig 会话管理配置
type SessionConfig struct {
	TTL           time.Duration // 空闲多久后回收
	SweepInterval time.Duration // 回收扫描间隔
	FetchWindow   time.Duration // 去重窗口,默认5000ms
}

// Session 一个浏览器页面对应一个会话
// 每个会话独占一个ViewState和一个FetchGuard
type Session struct {
	ID    string
	View  *ViewState
	Guard *fetchguard.Guard

	lastSeen time.Time
}

// SessionManager 页面会话管理
// 设计说明:
// 1. 会话保存在进程内存中,按ID索引
// 2. 空闲超过TTL的会话由Run启动的后台goroutine回收
// 3. 配置了SnapshotStore时,每次状态变更都镜像一份快照;
//    内存中找不到但存储中有快照的会话会被重建(购物车+搜索状态,商品列表在挂载时重新拉取)
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cfg     SessionConfig
	fetcher product.Fetcher
	store   SnapshotStore
	events  EventPublisher
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewSessionManager 创建会话管理器
// store和events可以为nil
func NewSessionManager(cfg SessionConfig, fetcher product.Fetcher, store SnapshotStore, events EventPublisher, log logrus.FieldLogger) *SessionManager {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.FetchWindow <= 0 {
		cfg.FetchWindow = fetchguard.DefaultWindow
	}
	if events == nil {
		events = NoopPublisher{}
	}

	return &SessionManager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		fetcher:  fetcher,
		store:    store,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// Create 创建新会话
func (m *SessionManager) Create(ctx context.Context) *Session {
	s := m.newSession(uuid.NewString(), nil)
	return m.insert(s)
}

// Get 获取会话
// 1. 内存命中 → 刷新活跃时间后返回
// 2. 快照存储命中 → 用同一ID重建
// 3. 都未命中 → 新建会话并生成新ID
// 客户端提交的ID只有在服务端确实存在对应会话时才会被沿用
func (m *SessionManager) Get(ctx context.Context, id string) *Session {
	if id != "" {
		m.mu.Lock()
		if s, ok := m.sessions[id]; ok {
			s.lastSeen = m.now()
			m.mu.Unlock()
			return s
		}
		m.mu.Unlock()
	}

	if _, err := uuid.Parse(id); err != nil || m.store == nil {
		return m.Create(ctx)
	}

	snap, err := m.store.Load(ctx, id)
	if err != nil {
		// 存储不可用时退化为新会话
		m.log.WithError(err).WithField("session", id).Warn("load session snapshot failed")
		return m.Create(ctx)
	}
	if snap == nil {
		return m.Create(ctx)
	}

	return m.insert(m.newSession(id, snap))
}

// Delete 删除会话(内存和快照)
func (m *SessionManager) Delete(ctx context.Context, id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	metrics.SetGauge(metrics.SessionsActive, float64(len(m.sessions)))
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Delete(ctx, id); err != nil {
			m.log.WithError(err).WithField("session", id).Warn("delete session snapshot failed")
		}
	}
}

// Len 当前内存中的会话数
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run 启动空闲会话回收,ctx取消时退出
func (m *SessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.log.WithField("evicted", n).Debug("idle sessions evicted")
			}
		}
	}
}

// Sweep 回收空闲超过TTL的会话,返回回收数量
// 快照存储中的数据由存储自己的TTL过期
func (m *SessionManager) Sweep() int {
	if p, ok := m.store.(interface{ Purge() int }); ok {
		p.Purge()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deadline := m.now().Add(-m.cfg.TTL)
	evicted := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(deadline) {
			delete(m.sessions, id)
			evicted++
		}
	}
	metrics.SetGauge(metrics.SessionsActive, float64(len(m.sessions)))
	return evicted
}

func (m *SessionManager) newSession(id string, snap *Snapshot) *Session {
	guard := fetchguard.New(m.cfg.FetchWindow)
	opts := []ViewOption{
		WithLogger(m.log),
		WithEvents(m.events),
	}
	if snap != nil {
		opts = append(opts, WithSnapshot(*snap))
	}
	if m.store != nil {
		opts = append(opts, WithPersist(m.persistFunc(id)))
	}

	return &Session{
		ID:       id,
		View:     NewViewState(id, m.fetcher, guard, opts...),
		Guard:    guard,
		lastSeen: m.now(),
	}
}

// insert 并发Get同一ID时以先插入的为准
func (m *SessionManager) insert(s *Session) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[s.ID]; ok {
		existing.lastSeen = m.now()
		return existing
	}
	m.sessions[s.ID] = s
	metrics.SetGauge(metrics.SessionsActive, float64(len(m.sessions)))
	return s
}

func (m *SessionManager) persistFunc(id string) func(ctx context.Context, snap Snapshot) {
	return func(ctx context.Context, snap Snapshot) {
		if err := m.store.Save(context.WithoutCancel(ctx), id, snap, m.cfg.TTL); err != nil {
			m.log.WithError(err).WithField("session", id).Warn("save session snapshot failed")
		}
	}
}

// =========================================
// 内存快照存储
// =========================================

// MemoryStore 进程内快照存储(单实例部署默认使用)
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	snap      Snapshot
	expiresAt time.Time
}

// NewMemoryStore 创建内存快照存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// Save 保存快照
func (s *MemoryStore) Save(_ context.Context, sessionID string, snap Snapshot, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[sessionID] = memoryItem{snap: snap, expiresAt: s.now().Add(ttl)}
	return nil
}

// Load 读取快照,不存在或已过期返回(nil, nil)
func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[sessionID]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(item.expiresAt) {
		delete(s.items, sessionID)
		return nil, nil
	}
	snap := item.snap
	return &snap, nil
}

// Delete 删除快照
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, sessionID)
	return nil
}

// Purge 清理已过期的快照,返回清理数量
func (s *MemoryStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	purged := 0
	for id, item := range s.items {
		if !now.Before(item.expiresAt) {
			delete(s.items, id)
			purged++
		}
	}
	return purged
}
