package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/palemoky/mahjong-scoreboard/internal/config"
	"github.com/palemoky/mahjong-scoreboard/internal/logger"
	"github.com/palemoky/mahjong-scoreboard/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	envPath := flag.String("env", ".env", ".env 文件路径")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		log.Printf("加载 .env 失败: %v", err)
	}

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
		if err := cfg.ApplyEnv(); err != nil {
			log.Fatalf("环境变量无效: %v", err)
		}
	}

	if err := logger.Init(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Console: true,
	}); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 创建服务器
	srv, err := server.NewServer(ctx, cfg)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("创建服务器失败")
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info().Msg("🀄 计分服务器启动中...")
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	// 优雅关闭
	logger.L().Info().Msg("正在关闭服务器...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error().Err(err).Msg("关闭服务器出错")
	}
}
