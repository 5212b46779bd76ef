package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/palemoky/mahjong-scoreboard/internal/apperrors"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol/convert"
)

// --- 排行榜处理 ---

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
)

// Leaderboard GET /api/leaderboard?limit=
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if h.leaderboard == nil {
		writeLeaderboardDisabled(w)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > maxLeaderboardLimit {
		limit = defaultLeaderboardLimit
	}

	entries, err := h.leaderboard.GetLeaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.LeaderboardToResponse(entries))
}

// PlayerStats GET /api/leaderboard/{name}
func (h *Handler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	if h.leaderboard == nil {
		writeLeaderboardDisabled(w)
		return
	}

	name := chi.URLParam(r, "name")
	stats, err := h.leaderboard.GetPlayerStats(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if stats == nil {
		writeError(w, r, apperrors.ErrPlayerNotFound.Withf("no stats for %s", name))
		return
	}

	rank, err := h.leaderboard.GetPlayerRank(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.PlayerStatsToResponse(stats, rank))
}

func writeLeaderboardDisabled(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, protocol.ErrorPayload{
		Code:    protocol.ErrCodeUnknown,
		Message: "排行榜未启用",
	})
}
