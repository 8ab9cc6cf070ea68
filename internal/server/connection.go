package server

import (
	"log"
	"net/http"

	"github.com/palemoky/tarneeb/internal/protocol"
	"github.com/palemoky/tarneeb/internal/types"
)

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientIP := GetClientIP(r)

	// 连接数限制检查
	select {
	case s.semaphore <- struct{}{}:
		// 成功获取信号量，连接结束后释放
		defer func() { <-s.semaphore }()
	default:
		log.Printf("🚫 达到最大连接数限制 (%d), IP: %s", s.maxConnections, clientIP)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}

	// 来源验证
	if !s.originChecker.Check(r) {
		log.Printf("🚫 来源验证失败: %s (IP: %s)", r.Header.Get("Origin"), clientIP)
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	// 速率限制检查
	if !s.rateLimiter.Allow(clientIP) {
		log.Printf("🚫 IP %s 请求过于频繁", clientIP)
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	// 创建客户端
	client := NewClient(s, conn)
	client.IP = clientIP
	s.registerClient(client)

	// 创建会话
	sess := s.sessionManager.CreateSession(client.ID, client.Name)

	// 发送连接成功消息（包含重连令牌）
	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:       client.ID,
		PlayerName:     client.Name,
		ReconnectToken: sess.ReconnectToken,
	}))

	log.Printf("✅ 玩家 %s (%s) 已连接", client.Name, client.ID)

	// 启动客户端读写协程
	go client.ReadPump()
	go client.WritePump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	id, name := client.GetID(), client.GetName()

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[id]; ok {
		delete(s.clients, id)
		log.Printf("❌ 玩家 %s (%s) 已断开", name, id)
	}
}

// --- types.ServerInterface 实现 ---

func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

func (s *Server) GetClientByID(id string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if c, ok := s.clients[id]; ok {
		return c
	}
	return nil
}

func (s *Server) RegisterClient(id string, client types.ClientInterface) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if c, ok := client.(*Client); ok {
		s.clients[id] = c
	}
}

func (s *Server) UnregisterClient(id string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, id)
}
