package server

import (
	"github.com/palemoky/mahjong-scoreboard/internal/game/session"
	"github.com/palemoky/mahjong-scoreboard/internal/logger"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol/codec"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol/convert"
	"github.com/palemoky/mahjong-scoreboard/internal/types"
)

// GetOnlineCount 获取在线连接数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Subscribe 订阅对局推送
func (s *Server) Subscribe(client types.ClientInterface, sessionID string) {
	c, ok := client.(*Client)
	if !ok {
		return
	}
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	subs, ok := s.subscriptions[sessionID]
	if !ok {
		subs = make(map[string]*Client)
		s.subscriptions[sessionID] = subs
	}
	subs[c.ID] = c
}

// Unsubscribe 取消订阅
func (s *Server) Unsubscribe(client types.ClientInterface, sessionID string) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.removeSubscriber(sessionID, client.GetID())
}

// SubscriberCount 对局的订阅者数量
func (s *Server) SubscriberCount(sessionID string) int {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	return len(s.subscriptions[sessionID])
}

// PublishDeleted 通知订阅者对局已删除并清空订阅
func (s *Server) PublishDeleted(sessionID string) {
	msg := protocol.MustNewMessage(protocol.MsgSessionDeleted, protocol.SessionDeletedPayload{SessionID: sessionID})
	if n := s.SubscriberCount(sessionID); n > 0 {
		logger.L().Debug().Str("session", sessionID).Int("subscribers", n).Msg("通知订阅者对局已删除")
	}
	s.publish(sessionID, msg)

	s.subsMu.Lock()
	delete(s.subscriptions, sessionID)
	s.subsMu.Unlock()
}

// Broadcast 广播消息给所有客户端
func (s *Server) Broadcast(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	if err != nil {
		logger.L().Error().Err(err).Msg("广播编码失败")
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for _, c := range s.clients {
		c.SendRaw(data)
	}
}

// publishUpdate 对局变更回调，快照只编码一次
func (s *Server) publishUpdate(snapshot *session.Session) {
	msg := protocol.MustNewMessage(protocol.MsgSessionUpdate, protocol.SessionUpdatePayload{
		Session: convert.SessionToResponse(snapshot),
	})
	s.publish(snapshot.ID, msg)
}

func (s *Server) publish(sessionID string, msg *protocol.Message) {
	s.subsMu.RLock()
	subs := make([]*Client, 0, len(s.subscriptions[sessionID]))
	for _, c := range s.subscriptions[sessionID] {
		subs = append(subs, c)
	}
	s.subsMu.RUnlock()
	if len(subs) == 0 {
		return
	}

	data, err := codec.Encode(msg)
	if err != nil {
		logger.L().Error().Err(err).Str("session", sessionID).Msg("推送编码失败")
		return
	}
	for _, c := range subs {
		c.SendRaw(data)
	}
}

// unsubscribeAll 移除客户端的全部订阅
func (s *Server) unsubscribeAll(c *Client) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for sessionID := range s.subscriptions {
		s.removeSubscriber(sessionID, c.ID)
	}
}

// removeSubscriber 调用方须持有 subsMu
func (s *Server) removeSubscriber(sessionID, clientID string) {
	subs, ok := s.subscriptions[sessionID]
	if !ok {
		return
	}
	delete(subs, clientID)
	if len(subs) == 0 {
		delete(s.subscriptions, sessionID)
	}
}
