// Package hub 维护已连接的 WebSocket 客户端，并把 Redis 频道上
// 发布的通知实时推送给对应用户的连接。
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// 包级别的 WebSocket 常量，供 hub 和 client 包内使用
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// HubMessage 定义了在 Hub 内部通道传递的消息类型
type HubMessage struct {
	Type   string  // "register", "unregister"
	UserID uint    // 客户端的用户 ID
	Client *Client // 要注册/注销的客户端
}

// Hub 维护活跃客户端集合并转发通知推送。
// 通知由 Worker 通过 Redis 频道发布，Hub 订阅该频道并按
// 用户 ID 分发给已连接的客户端；同一进程内外的发布者一视同仁。
type Hub struct {
	// 内部通道，处理所有来自 Client 的注册/注销事件
	messageChan chan HubMessage

	// 客户端集合，按 UserID 组织
	// map[userID]map[*Client]bool
	clients   map[uint]map[*Client]bool
	clientsMu sync.RWMutex

	rdb       *redis.Client
	keyPrefix string
	pubsub    *redis.PubSub

	stopOnce sync.Once
	done     chan struct{}
}

// NewHub 创建并返回一个新的 Hub 实例
func NewHub(rdb *redis.Client, keyPrefix string) *Hub {
	if rdb == nil {
		panic("redis client cannot be nil for Hub")
	}
	if keyPrefix == "" {
		keyPrefix = "tb:"
	}
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		clients:     make(map[uint]map[*Client]bool),
		rdb:         rdb,
		keyPrefix:   keyPrefix,
		done:        make(chan struct{}),
	}
}

// Run 启动 Hub 的主事件处理循环。
// 它应该在一个单独的 goroutine 中运行。
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")

	// 订阅通知频道；ctx 用 Background，订阅的生命周期由 Stop 控制
	h.pubsub = h.rdb.Subscribe(context.Background(), notificationChannel(h.keyPrefix))
	pushChan := h.pubsub.Channel()
	log.Info("Hub is running...")

	for {
		select {
		case msg, ok := <-h.messageChan:
			if !ok {
				log.Info("Hub is shutting down...")
				return
			}
			switch msg.Type {
			case "register":
				h.registerClient(msg.Client)
			case "unregister":
				h.unregisterClient(msg.Client)
			default:
				log.Warnf("Hub: Received unknown message type: %s from user %d", msg.Type, msg.UserID)
			}
		case pushMsg, ok := <-pushChan:
			if !ok {
				log.Info("Hub: Pub/Sub channel closed")
				return
			}
			h.deliverPush([]byte(pushMsg.Payload))
		case <-h.done:
			log.Info("Hub is shutting down...")
			return
		}
	}
}

// Stop 停止事件循环并取消 Redis 订阅。
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		if h.pubsub != nil {
			if err := h.pubsub.Close(); err != nil {
				logrus.WithError(err).Warn("Hub: Error closing pub/sub subscription")
			}
		}
		close(h.done)
	})
}

// QueueMessage 将消息放入 Hub 的处理队列 (非阻塞)。
// 这是 Client 向 Hub 发送消息的安全方式。
// 返回 true 如果消息成功入队，false 如果队列已满。
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithFields(logrus.Fields{
			"message_type": msg.Type,
			"user_id":      msg.UserID,
		}).Warn("Hub message channel full, dropping message")
		return false
	}
}

// registerClient 处理客户端注册逻辑
func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to register a nil client")
		return
	}
	userID := client.UserID()
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "action": "registerClient"})

	h.clientsMu.Lock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[*Client]bool)
	}
	h.clients[userID][client] = true
	h.clientsMu.Unlock()
	logCtx.Info("Client registered to Hub")
}

// unregisterClient 处理客户端注销逻辑
func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to unregister a nil client")
		return
	}
	userID := client.UserID()
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "action": "unregisterClient"})

	h.clientsMu.Lock()
	if userClients, exists := h.clients[userID]; exists {
		if _, clientExists := userClients[client]; clientExists {
			delete(userClients, client)

			// 关闭此客户端的 send 通道，这将导致其 WritePump 退出
			select {
			case <-client.send:
				logCtx.Warn("Client send channel already closed or has data during unregister")
			default:
				close(client.send)
			}

			if len(userClients) == 0 {
				delete(h.clients, userID)
			}
		} else {
			logCtx.Warn("Client not found during unregister")
		}
	} else {
		logCtx.Warn("No clients registered for user during unregister")
	}
	h.clientsMu.Unlock()
	logCtx.Info("Client unregistered from Hub")
}

// deliverPush 解析频道消息并分发给目标用户的所有连接
func (h *Hub) deliverPush(payload []byte) {
	var push NotificationPush
	if err := json.Unmarshal(payload, &push); err != nil {
		logrus.WithError(err).Warn("Hub: Failed to unmarshal notification push payload")
		return
	}

	h.clientsMu.RLock()
	userClients, ok := h.clients[push.UserID]
	// 创建接收者列表的副本，避免长时间持有锁
	clientsToSend := make([]*Client, 0, len(userClients))
	if ok {
		for client := range userClients {
			clientsToSend = append(clientsToSend, client)
		}
	}
	h.clientsMu.RUnlock()

	if len(clientsToSend) == 0 {
		// 用户当前没有连接，通知仍在数据库里等待拉取
		return
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"user_id":         push.UserID,
		"recipient_count": len(clientsToSend),
	})
	logCtx.Debug("Delivering notification push to clients")

	for _, client := range clientsToSend {
		// 非阻塞发送，避免单个慢客户端阻塞分发
		select {
		case client.send <- payload:
		default:
			logCtx.Warn("Client send channel full during push, skipping this client")
		}
	}
}
