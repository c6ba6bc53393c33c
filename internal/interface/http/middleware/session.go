package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/fernandezlibros/ebookstore/pkg/response"
	"github.com/fernandezlibros/ebookstore/pkg/token"
)

// SessionMiddleware 游客会话中间件
// 设计说明：
// 1. 本店不要求注册登录,第一次访问时自动签发会话令牌写入Cookie
// 2. 后续请求凭Cookie找回自己的购物车和订单
// 3. 令牌过期/损坏时直接换发新会话(旧购物车随TTL自然过期)
type SessionMiddleware struct {
	tokenManager *token.Manager
	cookieName   string
}

// NewSessionMiddleware 创建会话中间件
func NewSessionMiddleware(tokenManager *token.Manager, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{
		tokenManager: tokenManager,
		cookieName:   cookieName,
	}
}

// EnsureSession 保证请求携带有效会话
// 使用方式：
//
//	api := r.Group("/api/v1")
//	api.Use(sessionMiddleware.EnsureSession())
//	api.GET("/cart", cartHandler.GetCart)
func (m *SessionMiddleware) EnsureSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 尝试从Cookie读取令牌
		cookie, err := c.Cookie(m.cookieName)
		if err == nil && cookie != "" {
			sessionID, parseErr := m.tokenManager.Parse(cookie)
			if parseErr == nil {
				// 令牌有效,注入会话ID
				c.Set("session_id", sessionID)
				c.Next()
				return
			}
			// 过期或损坏:不报错,落到下面换发新会话
		}

		// 2. 签发新会话
		sessionID, err := token.NewSessionID()
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		tokenString, err := m.tokenManager.Issue(sessionID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		// 3. 写入HttpOnly Cookie
		// 学习要点:HttpOnly防止脚本读取,SameSite默认Lax防CSRF
		maxAge := int(m.tokenManager.Expire().Seconds())
		c.SetCookie(m.cookieName, tokenString, maxAge, "/", "", false, true)

		c.Set("session_id", sessionID)
		c.Next()
	}
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetSessionID 从Context获取当前会话ID
func GetSessionID(c *gin.Context) string {
	if v, exists := c.Get("session_id"); exists {
		if sid, ok := v.(string); ok {
			return sid
		}
	}
	return ""
}

// MustGetSessionID 从Context获取会话ID（如果不存在则panic）
// 说明：用于已经通过EnsureSession中间件的Handler
func MustGetSessionID(c *gin.Context) string {
	sid := GetSessionID(c)
	if sid == "" {
		panic("session_id not found in context")
	}
	return sid
}

// =========================================
// 学习要点总结
// =========================================
//
// 1. 为什么用Cookie而不是Authorization头?
//    - 游客没有"登录"动作,无从拿到令牌再放进头里
//    - Cookie由浏览器自动携带,前端零改动
//
// 2. 令牌失效的处理策略
//    - 登录系统:令牌失效 → 401,强制重新登录
//    - 游客会话:令牌失效 → 静默换发,体验无感
//
// 3. c.Abort() vs c.Next()
//    - c.Abort(): 终止后续Handler执行（签发失败这种服务端错误）
//    - c.Next(): 继续执行后续Handler
