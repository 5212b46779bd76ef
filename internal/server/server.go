// Package server 提供计分板的 REST API 与 WebSocket 实时推送
package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/mahjong-scoreboard/internal/config"
	"github.com/palemoky/mahjong-scoreboard/internal/game/session"
	"github.com/palemoky/mahjong-scoreboard/internal/logger"
	"github.com/palemoky/mahjong-scoreboard/internal/server/core"
	"github.com/palemoky/mahjong-scoreboard/internal/server/handler"
	"github.com/palemoky/mahjong-scoreboard/internal/storage"
)

// Server HTTP + WebSocket 服务器
type Server struct {
	config      *config.Config
	redis       *redis.Client // 未启用时为 nil
	store       *storage.RedisStore
	leaderboard *storage.LeaderboardManager
	manager     *session.Manager
	handler     *handler.Handler
	upgrader    websocket.Upgrader

	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 对局 ID → 订阅该对局的客户端
	subscriptions map[string]map[string]*Client
	subsMu        sync.RWMutex

	// 安全组件
	rateLimiter    *core.RateLimiter
	originChecker  *core.OriginChecker
	messageLimiter *core.MessageRateLimiter
	ipFilter       *core.IPFilter

	httpServer   *http.Server
	shuttingDown atomic.Bool
	stopMonitor  chan struct{}
	stopOnce     sync.Once
}

// NewServer 按配置连接 Redis 并恢复已保存的对局
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}
	}

	s := New(cfg, rdb)
	if _, err := s.manager.Restore(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("恢复对局失败，以空状态启动")
	}
	return s, nil
}

// New 创建服务器实例，rdb 为 nil 时只在内存中保存对局
func New(cfg *config.Config, rdb *redis.Client) *Server {
	s := &Server{
		config:        cfg,
		redis:         rdb,
		clients:       make(map[string]*Client),
		subscriptions: make(map[string]map[string]*Client),
		rateLimiter: core.NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		originChecker:  core.NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: core.NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		ipFilter:       core.NewIPFilter(cfg.Security.AllowedIPs, cfg.Security.BlockedIPs),
		stopMonitor:    make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originChecker.Check,
	}

	var deps handler.HandlerDeps
	if rdb != nil {
		s.store = storage.NewRedisStore(rdb, cfg.Redis.SessionTTL())
		s.leaderboard = storage.NewLeaderboardManager(rdb)
		s.manager = session.NewManager(s.store, s.leaderboard)
		deps.Leaderboard = s.leaderboard
	} else {
		s.manager = session.NewManager(nil, nil)
	}
	s.manager.Subscribe(s.publishUpdate)

	deps.Server = s
	deps.Manager = s.manager
	deps.Game = cfg.Game
	s.handler = handler.NewHandler(deps)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.L().Info().
		Int("rate_per_second", cfg.Security.RateLimit.MaxPerSecond).
		Int("message_per_second", cfg.Security.MessageLimit.MaxPerSecond).
		Bool("redis", rdb != nil).
		Msg("🔒 安全配置已加载")
	return s
}

// Manager 对局管理器
func (s *Server) Manager() *session.Manager {
	return s.manager
}

// Start 启动服务器，阻塞直到关闭
func (s *Server) Start() error {
	go s.monitorStats()

	logger.L().Info().Str("addr", s.httpServer.Addr).Int("cpus", runtime.NumCPU()).Msg("🚀 服务器已启动")
	return s.httpServer.ListenAndServe()
}
