package server

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/palemoky/mahjong-scoreboard/internal/logger"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
)

// monitorInterval 状态监控间隔
const monitorInterval = 30 * time.Second

// monitorStats 定期输出服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopMonitor:
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			total, active := s.manager.Count()

			logger.L().Info().
				Int("online", s.GetOnlineCount()).
				Int("sessions", total).
				Int("active_sessions", active).
				Int("goroutines", runtime.NumGoroutine()).
				Float64("mem_mb", float64(m.Alloc)/1024/1024).
				Msg("📊 [监控]")
		}
	}
}

// IsShuttingDown 是否正在关闭
func (s *Server) IsShuttingDown() bool {
	return s.shuttingDown.Load()
}

// Shutdown 优雅关闭：拒绝新连接，通知客户端，等待进行中的请求结束，再关闭 Redis
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.shuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	logger.Info(ctx).Msg("🔧 开始优雅关闭")

	s.Broadcast(protocol.MustNewMessage(protocol.MsgServerShutdown, nil))

	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	s.clientsMu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.RUnlock()
	for _, c := range clients {
		c.Close()
	}

	s.stopOnce.Do(func() { close(s.stopMonitor) })
	s.rateLimiter.Stop()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	logger.Info(ctx).Msg("服务器已关闭")
	return errors.Join(errs...)
}
