package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/palemoky/mahjong-scoreboard/internal/logger"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol/codec"
)

// Routes 构建 HTTP 路由
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(logger.HTTPMiddleware)
	r.Use(s.ipFilter.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.Security.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", logger.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimiter.Middleware)
		s.handler.Mount(r)
	})
	return r
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	total, active := s.manager.Count()
	resp := protocol.HealthResponse{
		Status:         "ok",
		Redis:          "disabled",
		Sessions:       total,
		ActiveSessions: active,
		Clients:        s.GetOnlineCount(),
	}

	status := http.StatusOK
	if s.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			resp.Status = "degraded"
			resp.Redis = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Redis = "ok"
		}
	}
	if s.IsShuttingDown() {
		resp.Status = "shutting_down"
		status = http.StatusServiceUnavailable
	}

	data, err := codec.EncodeJSON(resp)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
