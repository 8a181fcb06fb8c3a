package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/service"
)

// SessionCookieName 是承载会话令牌的 Cookie 名。
const SessionCookieName = "session"

// ErrMissingSessionToken 表示请求既没有会话 Cookie 也没有 Bearer 头
var ErrMissingSessionToken = errors.New("missing session token")

// SessionAuth 返回一个 Gin 中间件，把会话令牌解析为当前用户。
// 令牌优先从 Cookie 读取，其次是 Authorization: Bearer 头。
// 解析成功后把 user_id 和 session_id 写入请求上下文，
// 身份只通过上下文传递，不存在任何全局的 "当前用户"。
func SessionAuth(authService *service.AuthService) gin.HandlerFunc {
	if authService == nil {
		panic("AuthService cannot be nil for SessionAuth middleware")
	}

	return func(c *gin.Context) {
		// 1. 从请求提取令牌
		tokenStr, err := ExtractToken(c)
		if err != nil {
			logrus.Debug("SessionAuth middleware: No session token on request")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort() // 终止请求处理链
			return
		}

		// 2. 解析令牌并验证会话仍然有效
		userID, sessionID, err := authService.ResolveSession(c.Request.Context(), tokenStr)
		if err != nil {
			logrus.WithError(err).Warn("SessionAuth middleware: Invalid session")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		// 3. 将身份存储在 Gin 上下文中，供后续处理程序使用
		c.Set("user_id", userID)
		c.Set("session_id", sessionID)
		logrus.WithField("user_id", userID).Debug("SessionAuth middleware: User authenticated")

		c.Next()
	}
}

// ExtractToken 从 Cookie 或 Authorization 头提取会话令牌。
// 登出处理器也使用它，所以是导出的。
func ExtractToken(c *gin.Context) (string, error) {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingSessionToken
	}
	// Authorization header 格式应为 "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMissingSessionToken
	}
	return parts[1], nil
}
