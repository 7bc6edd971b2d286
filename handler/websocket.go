package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"wegram_server/middleware"
	"wegram_server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	onlineKeyTTL   = 30 * time.Second
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 跨域由部署层控制
	},
}

// Frame WebSocket 推送帧
type Frame struct {
	Type string      `json:"type"` // 'message' | 'notification'
	Data interface{} `json:"data"`
}

// Hub 在线连接管理：本地连接表 + Redis 在线状态键
// 推送是尽力而为的——用户不在线就只留未读，不排队不重试
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
	rdb     *redis.Client
}

type Client struct {
	hub    *Hub
	userID uuid.UUID
	conn   *websocket.Conn

	// sendMu 保护 send 和 closed：推送和关闭可能来自不同 goroutine，
	// 没有这层保护会往已关闭的 channel 发送
	sendMu sync.Mutex
	send   chan []byte
	closed bool
}

// trySend 非阻塞投递，连接已关闭或缓冲满时丢帧
func (c *Client) trySend(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		// 发送缓冲满说明连接已经不健康，丢帧不阻塞
		return false
	}
}

// closeSend 幂等关闭发送 channel
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
		rdb:     rdb,
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	if old, ok := h.clients[client.userID]; ok {
		// 同一用户的新连接顶掉旧连接
		old.closeSend()
	}
	h.clients[client.userID] = client
	h.mu.Unlock()

	h.setOnline(client.userID)
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if current, ok := h.clients[client.userID]; ok && current == client {
		delete(h.clients, client.userID)
	}
	h.mu.Unlock()

	client.closeSend()

	if h.rdb != nil {
		h.rdb.Del(context.Background(), "online:"+client.userID.String())
	}
}

func (h *Hub) setOnline(userID uuid.UUID) {
	if h.rdb != nil {
		h.rdb.Set(context.Background(), "online:"+userID.String(), "1", onlineKeyTTL)
	}
}

// IsUserOnline 在线检查：优先 Redis，Redis 不可用时退化为本地连接表
func (h *Hub) IsUserOnline(userID uuid.UUID) bool {
	if h.rdb != nil {
		n, err := h.rdb.Exists(context.Background(), "online:"+userID.String()).Result()
		if err == nil {
			return n > 0
		}
	}

	h.mu.RLock()
	_, ok := h.clients[userID]
	h.mu.RUnlock()
	return ok
}

// SendNotification 推送通知帧，返回是否投递到了本地连接
func (h *Hub) SendNotification(userID uuid.UUID, notification interface{}) bool {
	return h.push(userID, Frame{Type: "notification", Data: notification})
}

// SendMessage 推送私信帧
func (h *Hub) SendMessage(userID uuid.UUID, message interface{}) bool {
	return h.push(userID, Frame{Type: "message", Data: message})
}

func (h *Hub) push(userID uuid.UUID, frame Frame) bool {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return false
	}

	return client.trySend(data)
}

// ForceOffline 登出时清除在线状态并断开连接
func (h *Hub) ForceOffline(userID uuid.UUID) {
	h.mu.Lock()
	client, ok := h.clients[userID]
	if ok {
		delete(h.clients, userID)
	}
	h.mu.Unlock()

	if ok {
		client.closeSend()
	}

	if h.rdb != nil {
		h.rdb.Del(context.Background(), "online:"+userID.String())
	}
}

// HandleWebSocket WebSocket 入口：?token= 认证后升级连接
func HandleWebSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.Unauthorized(c, "missing token")
			return
		}

		userID, err := middleware.ValidateToken(token)
		if err != nil {
			utils.Unauthorized(c, "invalid token")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[ERROR] WebSocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			hub:    hub,
			userID: userID,
			conn:   conn,
			send:   make(chan []byte, sendBufferSize),
		}
		hub.register(client)

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.hub.setOnline(c.userID)
		return nil
	})

	for {
		// 入站帧只用于保活，业务操作走 HTTP API
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
		c.hub.setOnline(c.userID)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
