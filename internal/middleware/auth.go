package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/suiyuan/blog-ai/internal/model"
	"github.com/suiyuan/blog-ai/internal/service"
	"github.com/suiyuan/blog-ai/internal/service/thread"
)

// AuthMiddleware 认证中间件
// 提供有效 JWT 时作为登录用户；否则以 X-Session-ID 头作为匿名会话身份
func AuthMiddleware(svc *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			user, err := svc.Auth.ValidateToken(c.Request.Context(), token)
			if err == nil {
				c.Set("user", user)
				c.Set("user_id", user.ID)
				c.Next()
				return
			}
			// Token 无效，退回匿名身份
		}

		// 匿名会话令牌由客户端生成并保存，没有则下发一个
		sessionID := c.GetHeader("X-Session-ID")
		if sessionID == "" {
			sessionID = thread.NewSessionToken()
			c.Header("X-Session-ID", sessionID)
		}
		c.Set("session_id", sessionID)
		c.Next()
	}
}

// RequireAuth 要求有效认证的中间件
// 必须提供有效的 JWT token，否则返回 401
func RequireAuth(svc *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{
				"code":    -1,
				"message": "Missing Authorization header",
			})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(401, gin.H{
				"code":    -1,
				"message": "Invalid Authorization header format",
			})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := svc.Auth.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(401, gin.H{
				"code":    -1,
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// RequireAdmin 要求管理员身份，必须在 RequireAuth 之后使用
func RequireAdmin(svc *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok || !svc.Auth.IsAdmin(user.Email) {
			c.JSON(403, gin.H{
				"code":    -1,
				"message": "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCurrentUser 从上下文获取当前用户
func GetCurrentUser(c *gin.Context) (*model.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}

// GetUserID 从上下文获取当前用户ID
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}

// GetIdentity 从上下文解析线程归属身份
func GetIdentity(c *gin.Context) (thread.Identity, bool) {
	if userID, ok := GetUserID(c); ok {
		return thread.Authenticated(userID), true
	}
	if sessionID, exists := c.Get("session_id"); exists {
		if id, ok := sessionID.(string); ok && id != "" {
			return thread.Anonymous(id), true
		}
	}
	return thread.Identity{}, false
}
