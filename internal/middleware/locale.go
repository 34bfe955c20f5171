package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	localeCookieName   = "locale"
	localeCookieMaxAge = 30 * 24 * 60 * 60 // 30 天
)

// LocaleMiddleware 语言偏好中间件
// 优先使用 cookie 中保存的偏好，query 参数 ?locale= 可以更新它
func LocaleMiddleware(defaultLocale string) gin.HandlerFunc {
	if defaultLocale == "" {
		defaultLocale = "zh"
	}
	return func(c *gin.Context) {
		locale := c.Query("locale")
		if locale != "" {
			c.SetCookie(localeCookieName, locale, localeCookieMaxAge, "/", "", false, false)
		} else {
			if saved, err := c.Cookie(localeCookieName); err == nil && saved != "" {
				locale = saved
			} else {
				locale = defaultLocale
			}
		}
		c.Set("locale", locale)
		c.Next()
	}
}

// GetLocale 从上下文获取语言偏好
func GetLocale(c *gin.Context) string {
	if locale, exists := c.Get("locale"); exists {
		if l, ok := locale.(string); ok {
			return l
		}
	}
	return ""
}
