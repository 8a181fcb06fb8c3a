package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/middleware"
	"taskboard/internal/service"
)

// AuthHandler 封装了与用户认证相关的 HTTP 处理逻辑
type AuthHandler struct {
	authService  *service.AuthService
	cookieMaxAge int // 会话 Cookie 的 Max-Age（秒），与会话 TTL 一致
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService, sessionTTLHours int) *AuthHandler {
	if authService == nil {
		panic("AuthService cannot be nil for AuthHandler")
	}
	if sessionTTLHours <= 0 {
		sessionTTLHours = 24
	}
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: sessionTTLHours * 3600,
	}
}

// RegisterRequest 定义注册请求的结构体，接受 JSON 或表单
type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	// 1. 绑定并验证输入
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Register: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	// 2. 调用 Service 层处理注册逻辑
	newUser, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)

	// 3. 处理 Service 返回的错误
	if err != nil {
		logCtx := logrus.WithFields(logrus.Fields{"username": req.Username, "email": req.Email})
		if errors.Is(err, service.ErrDuplicateUsername) {
			logCtx.WithError(err).Warn("Handler.Register: Username already taken")
		} else {
			logCtx.WithError(err).Error("Handler.Register: Registration failed")
		}
		HandleServiceError(c, err)
		return
	}

	// 4. 注册成功响应（不包含密码等敏感信息）
	logrus.WithField("user_id", newUser.ID).Info("Handler.Register: User registered successfully")
	c.JSON(http.StatusOK, gin.H{
		"message": "User registered successfully",
		"user_id": newUser.ID,
	})
}

// LoginRequest 定义登录请求的结构体
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse 定义登录成功的响应结构体
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login 处理用户登录请求。
// 成功时把会话令牌写进 Cookie，同时在响应体返回（供 API 客户端用 Bearer 头）。
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: username and password required"})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logrus.WithError(err).WithField("username", req.Username).Warn("Handler.Login: Login failed")
		HandleServiceError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookieName, token, h.cookieMaxAge, "/", "", false, true)

	logrus.WithField("username", req.Username).Info("Handler.Login: User logged in successfully")
	c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   token,
	})
}

// Logout 使当前会话失效。
// 不挂认证中间件：没有会话、会话已过期或已登出的请求同样返回成功（幂等）。
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenStr, err := middleware.ExtractToken(c)
	if err == nil && tokenStr != "" {
		_, sessionID, resolveErr := h.authService.ResolveSession(c.Request.Context(), tokenStr)
		if resolveErr == nil {
			if logoutErr := h.authService.Logout(c.Request.Context(), sessionID); logoutErr != nil {
				logrus.WithError(logoutErr).Error("Handler.Logout: Failed to invalidate session")
				HandleServiceError(c, logoutErr)
				return
			}
		}
		// 令牌无效或会话已消失：登出目标已达成，继续按成功处理
	}

	// 清除客户端 Cookie
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
