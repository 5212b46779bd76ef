// Package handler 处理 REST 请求与 WebSocket 消息
package handler

import (
	"context"

	"github.com/palemoky/mahjong-scoreboard/internal/config"
	"github.com/palemoky/mahjong-scoreboard/internal/game/session"
	"github.com/palemoky/mahjong-scoreboard/internal/logger"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
	"github.com/palemoky/mahjong-scoreboard/internal/storage"
	"github.com/palemoky/mahjong-scoreboard/internal/types"
)

// Leaderboard 排行榜查询
type Leaderboard interface {
	GetLeaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error)
	GetPlayerStats(ctx context.Context, name string) (*storage.PlayerStats, error)
	GetPlayerRank(ctx context.Context, name string) (int64, error)
}

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server      types.ServerInterface
	Manager     *session.Manager
	Leaderboard Leaderboard // 未启用 Redis 时为 nil
	Game        config.GameConfig
}

// Handler 消息处理器
type Handler struct {
	server      types.ServerInterface
	manager     *session.Manager
	leaderboard Leaderboard
	game        config.GameConfig
	handlers    map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的 WebSocket 处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:      deps.Server,
		manager:     deps.Manager,
		leaderboard: deps.Leaderboard,
		game:        deps.Game,
	}
	if h.game.StartingScore == 0 {
		h.game = config.Default().Game
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化 WebSocket 消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		protocol.MsgPing:        h.handlePing,
		protocol.MsgSubscribe:   h.handleSubscribe,
		protocol.MsgUnsubscribe: h.handleUnsubscribe,
	}
}

// Handle 处理 WebSocket 消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	logger.Warn(context.Background()).
		Str("type", string(msg.Type)).
		Str("client", client.GetID()).
		Int("payload_bytes", len(msg.Payload)).
		Msg("⚠️ 未知消息类型")
	client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}
