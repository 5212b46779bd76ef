package types

import (
	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	IsShuttingDown() bool
	GetOnlineCount() int
	Subscribe(client ClientInterface, sessionID string)
	Unsubscribe(client ClientInterface, sessionID string)
	PublishDeleted(sessionID string)
}

// ClientInterface 定义客户端接口
type ClientInterface interface {
	GetID() string
	SendMessage(msg *protocol.Message)
	Close()
}
