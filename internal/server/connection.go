package server

import (
	"net/http"

	"github.com/palemoky/mahjong-scoreboard/internal/logger"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
	"github.com/palemoky/mahjong-scoreboard/internal/server/core"
)

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientIP := core.GetClientIP(r)

	if s.IsShuttingDown() {
		logger.Info(ctx).Str("ip", clientIP).Msg("🔧 服务器正在关闭，拒绝新连接")
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}

	if s.rateLimiter.IsBanned(clientIP) {
		logger.Warn(ctx).Str("ip", clientIP).Msg("🚫 封禁期间拒绝连接")
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}
	if !s.rateLimiter.Allow(clientIP) {
		logger.Warn(ctx).Str("ip", clientIP).Msg("🚫 连接过于频繁")
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	// 来源校验失败时 Upgrade 会返回 403
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("ip", clientIP).Str("origin", r.Header.Get("Origin")).Msg("WebSocket 升级失败")
		return
	}

	client := NewClient(s, conn)
	client.IP = clientIP
	s.registerClient(client)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		ClientID: client.ID,
	}))
	logger.Info(ctx).Str("client", client.ID).Str("ip", clientIP).Msg("✅ 客户端已连接")

	go client.ReadPump()
	go client.WritePump()
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		logger.L().Info().Str("client", client.ID).Msg("❌ 客户端已断开")
	}
}
