// Package ui 计分板终端界面入口
package ui

import (
	"github.com/palemoky/mahjong-scoreboard/internal/transport"
	"github.com/palemoky/mahjong-scoreboard/internal/ui/model"
)

// NewScoreboard 创建连接到 serverURL 并订阅 sessionID 的计分板
func NewScoreboard(serverURL, sessionID string) *model.ScoreboardModel {
	c := transport.NewClient(serverURL)
	c.StartHeartbeat()
	return model.NewScoreboardModel(c, sessionID)
}
