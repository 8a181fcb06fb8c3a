// Package websocket 处理通知流的 WebSocket 升级请求。
package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"taskboard/internal/hub"
)

// NotificationStreamHandler 负责把认证过的连接升级为 WebSocket
// 并注册到 Hub，之后该用户的新通知会被实时推送到这条连接。
type NotificationStreamHandler struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub
}

// NewNotificationStreamHandler 创建 NotificationStreamHandler 实例
func NewNotificationStreamHandler(h *hub.Hub) *NotificationStreamHandler {
	if h == nil {
		panic("Hub cannot be nil for NotificationStreamHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// 允许所有来源连接 (生产环境应配置具体的允许来源)
		CheckOrigin: func(r *http.Request) bool {
			// TODO: Implement proper origin checking for production
			return true
		},
	}

	return &NotificationStreamHandler{
		upgrader: upgrader,
		hub:      h,
	}
}

// HandleConnection 处理 GET /ws/notifications
func (h *NotificationStreamHandler) HandleConnection(c *gin.Context) {
	// 1. 获取认证用户 ID (由 SessionAuth 中间件设置)
	userIDAny, exists := c.Get("user_id")
	if !exists {
		logrus.Warn("WS Handler: User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return // 返回 HTTP 错误，因为此时还未升级到 WebSocket
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		logrus.Error("WS Handler: User ID in context is not uint")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	// 2. 升级 HTTP 连接到 WebSocket
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 方法会自动发送 HTTP 错误响应，这里只需要记录日志
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}
	logCtx.Info("WS Handler: Connection upgraded to WebSocket")

	// 3. 创建 Client 并注册到 Hub
	client := hub.NewClient(h.hub, conn, userID)
	registerMsg := hub.HubMessage{
		Type:   "register",
		UserID: userID,
		Client: client,
	}
	if !h.hub.QueueMessage(registerMsg) {
		logCtx.Error("WS Handler: Hub message channel full, failed to register client")
		client.CloseConn()
		return
	}

	// 4. 启动客户端的读写 Goroutine
	client.Run()
	logCtx.Info("WS Handler: Client read/write pumps started")
}
