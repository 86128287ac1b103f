// Package websocket 提供注册表事件的实时推送
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/weisyn/mintregistry/internal/api/websocket/types"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
)

const (
	// sendQueueSize 每个连接的待发送消息上限
	sendQueueSize = 64
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = pongWait * 9 / 10
	maxMessageLen = 4096
)

// Server WebSocket服务器
type Server struct {
	logger   log.Logger
	manager  *SubscriptionManager
	upgrader websocket.Upgrader
}

// NewServer 创建WebSocket服务器
func NewServer(logger log.Logger, manager *SubscriptionManager) *Server {
	return &Server{
		logger:  logger,
		manager: manager,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// 只读推送，不携带凭据
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// client 一个 WebSocket 连接
//
// gorilla 连接只允许一个并发写者，所有写入都经过 send 队列交给 writePump。
type client struct {
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
}

// enqueue 非阻塞入队，队列满或连接已关闭返回 false
func (c *client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// HandleWebSocket 处理WebSocket连接（Gin Handler）
func (s *Server) HandleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warnf("WebSocket 升级失败: %v", err)
		return
	}

	cl := newClient(conn)
	go s.writePump(cl)
	defer func() {
		removed := s.manager.CleanupByClient(cl)
		cl.close()
		s.logger.Debugf("WebSocket 连接关闭 %s，清理 %d 个订阅", conn.RemoteAddr(), removed)
	}()

	conn.SetReadLimit(maxMessageLen)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warnf("WebSocket 连接异常关闭: %v", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		s.handleMessage(cl, message)
	}
}

// writePump 串行写出队列中的消息，并定期发送 ping
func (s *Server) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case data := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				cl.close()
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cl.close()
				return
			}
		case <-cl.done:
			_ = cl.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (s *Server) handleMessage(cl *client, message []byte) {
	var request types.Request
	if err := json.Unmarshal(message, &request); err != nil {
		s.reply(cl, types.Response{Error: &types.Error{Code: types.CodeParseError, Message: "Parse error"}})
		return
	}

	switch request.Method {
	case types.MethodSubscribe:
		// 参数：[eventType, ...]，为空订阅全部
		var params []string
		if len(request.Params) > 0 {
			if err := json.Unmarshal(request.Params, &params); err != nil {
				s.replyError(cl, request.ID, types.CodeInvalidParams, "Invalid params", nil)
				return
			}
		}
		id, err := s.manager.Subscribe(cl, params)
		if err != nil {
			s.replyError(cl, request.ID, types.CodeInvalidParams, "Failed to subscribe", err.Error())
			return
		}
		s.reply(cl, types.Response{ID: request.ID, Result: id})

	case types.MethodUnsubscribe:
		var params []string
		if err := json.Unmarshal(request.Params, &params); err != nil || len(params) == 0 {
			s.replyError(cl, request.ID, types.CodeInvalidParams, "Missing subscription ID", nil)
			return
		}
		s.reply(cl, types.Response{ID: request.ID, Result: s.manager.Unsubscribe(cl, params[0])})

	default:
		s.replyError(cl, request.ID, types.CodeMethodNotFound, "Method not found", nil)
	}
}

func (s *Server) replyError(cl *client, id interface{}, code int, message string, data interface{}) {
	s.reply(cl, types.Response{ID: id, Error: &types.Error{Code: code, Message: message, Data: data}})
}

func (s *Server) reply(cl *client, resp types.Response) {
	resp.JSONRPC = "2.0"
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Errorf("序列化响应失败: %v", err)
		return
	}
	if !cl.enqueue(data) {
		s.logger.Warnf("响应入队失败，连接可能已关闭")
	}
}

// RegisterRoutes 注册WebSocket路由
func (s *Server) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/events", s.HandleWebSocket)
}
