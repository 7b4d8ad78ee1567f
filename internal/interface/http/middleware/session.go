package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/storefront/internal/application/storefront"
)

const sessionKey = "storefront_session"

// SessionOptions 会话Cookie配置
type SessionOptions struct {
	CookieName string
	Secure     bool
	TTL        time.Duration // Cookie有效期与会话空闲TTL一致
}

// SessionMiddleware 页面会话中间件
// 设计说明：
// 1. 从Cookie读取会话ID，交给SessionManager查找/重建/新建
// 2. 每次请求都回写Cookie（滑动过期）
// 3. 会话注入gin.Context，Handler通过MustGetSession获取
type SessionMiddleware struct {
	manager *storefront.SessionManager
	opts    SessionOptions
}

// NewSessionMiddleware 创建会话中间件
func NewSessionMiddleware(manager *storefront.SessionManager, opts SessionOptions) *SessionMiddleware {
	if opts.CookieName == "" {
		opts.CookieName = "storefront_session"
	}
	return &SessionMiddleware{manager: manager, opts: opts}
}

// Handle 绑定当前请求的会话
func (m *SessionMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(m.opts.CookieName)
		s := m.manager.Get(c.Request.Context(), id)
		m.Bind(c, s)
		c.Next()
	}
}

// Bind 把会话写入Context并下发Cookie
// 新建会话的Handler也通过它切换当前请求的会话
func (m *SessionMiddleware) Bind(c *gin.Context, s *storefront.Session) {
	c.Set(sessionKey, s)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, s.ID, int(m.opts.TTL.Seconds()), "/", "", m.opts.Secure, true)
}

// Manager 会话管理器
func (m *SessionMiddleware) Manager() *storefront.SessionManager {
	return m.manager
}

// GetSession 从Context获取当前会话，不存在返回nil
func GetSession(c *gin.Context) *storefront.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*storefront.Session); ok {
			return s
		}
	}
	return nil
}

// GetSessionID 当前会话ID，没有会话时返回空字符串
func GetSessionID(c *gin.Context) string {
	if s := GetSession(c); s != nil {
		return s.ID
	}
	return ""
}

// MustGetSession 从Context获取会话（不存在则panic）
// 说明：用于已经挂载了SessionMiddleware的路由
func MustGetSession(c *gin.Context) *storefront.Session {
	s := GetSession(c)
	if s == nil {
		panic("session not found in context")
	}
	return s
}
