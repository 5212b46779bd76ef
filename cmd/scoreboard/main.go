package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/mahjong-scoreboard/internal/logger"
	"github.com/palemoky/mahjong-scoreboard/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:1780", "服务器地址")
	sessionID := flag.String("session", "", "要观看的对局 ID")
	flag.Parse()

	if *sessionID == "" {
		fmt.Fprintln(os.Stderr, "用法: scoreboard -session <对局 ID> [-server host:port]")
		os.Exit(2)
	}

	if err := logger.InitClient(); err != nil {
		log.Printf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)
	model := ui.NewScoreboard(serverURL, *sessionID)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("启动计分板时出错: %v（日志: %s）", err, logger.GetLogPath())
	}
}
