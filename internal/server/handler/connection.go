package handler

import (
	"context"
	"time"

	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol/convert"
	"github.com/palemoky/mahjong-scoreboard/internal/types"
)

// handlePing 处理心跳消息
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleSubscribe 订阅对局，回复当前快照
func (h *Handler) handleSubscribe(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.SubscribePayload](msg)
	if err != nil || payload.SessionID == "" {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	s, err := h.manager.GetSession(context.Background(), payload.SessionID)
	if err != nil {
		client.SendMessage(errorMessage(err))
		return
	}

	h.server.Subscribe(client, s.ID)
	client.SendMessage(protocol.MustNewMessage(protocol.MsgSubscribed, protocol.SessionUpdatePayload{
		Session: convert.SessionToResponse(s),
	}))
}

// handleUnsubscribe 取消订阅
func (h *Handler) handleUnsubscribe(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.SubscribePayload](msg)
	if err != nil || payload.SessionID == "" {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	h.server.Unsubscribe(client, payload.SessionID)
	client.SendMessage(protocol.MustNewMessage(protocol.MsgUnsubscribed, protocol.SubscribePayload{
		SessionID: payload.SessionID,
	}))
}
