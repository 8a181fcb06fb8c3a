package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// currentUserID 从请求上下文取出认证中间件写入的用户 ID。
// 取不到说明路由配置错了（处理器挂在了中间件外面），返回 500。
func currentUserID(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		logrus.Error("Handler: User ID not found in context")
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		logrus.Error("Handler: User ID in context is not uint")
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return 0, false
	}
	return userID, true
}
