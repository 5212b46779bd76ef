package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/palemoky/mahjong-scoreboard/internal/apperrors"
	"github.com/palemoky/mahjong-scoreboard/internal/game/session"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol/convert"
)

// Mount 注册 REST 路由
func (h *Handler) Mount(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/", h.ListSessions)
		r.Get("/search", h.SearchSession)
		r.Get("/player/{name}", h.SessionsByPlayer)
		r.Get("/active/{name}", h.ActiveSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DeleteSession)
			r.Get("/history", h.History)
			r.Post("/round", h.RecordWin)
			r.Post("/draw", h.RecordDraw)
			r.Post("/riichi", h.DeclareRiichi)
			r.Post("/end", h.EndSession)
		})
	})
	r.Get("/yaku", h.Yaku)
	r.Get("/leaderboard", h.Leaderboard)
	r.Get("/leaderboard/{name}", h.PlayerStats)
}

// CreateSession POST /api/games
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req protocol.CreateSessionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cfg, err := convert.RulesFromRequest(h.game.DefaultRules, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.manager.CreateSession(r.Context(), req.PlayerNames, convert.StartingScore(&req, h.game.StartingScore), &cfg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, convert.SessionToResponse(s))
}

// ListSessions GET /api/games
func (h *Handler) ListSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, convert.SessionsToSummaries(h.manager.ListSessions()))
}

// GetSession GET /api/games/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.SessionToResponse(s))
}

// DeleteSession DELETE /api/games/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.manager.DeleteSession(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	if h.server != nil {
		h.server.PublishDeleted(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// History GET /api/games/{id}/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.HistoryFromSession(s))
}

// RecordWin POST /api/games/{id}/round
func (h *Handler) RecordWin(w http.ResponseWriter, r *http.Request) {
	var req protocol.RecordWinRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	results, s, err := h.manager.RecordWin(r.Context(), chi.URLParam(r, "id"), convert.WinnersFromRequest(req.Winners), req.LoserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol.RoundConclusionResponse{
		Results:       convert.HandResultsToResponse(results),
		SessionStatus: string(s.Status),
	})
}

// RecordDraw POST /api/games/{id}/draw
func (h *Handler) RecordDraw(w http.ResponseWriter, r *http.Request) {
	var req protocol.RecordDrawRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	drawType := session.DrawType(strings.ToLower(strings.TrimSpace(req.DrawType)))
	result, s, err := h.manager.RecordDraw(r.Context(), chi.URLParam(r, "id"), drawType, req.TenpaiPlayerIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.DrawToResponse(result, s.Honba, s.Status))
}

// DeclareRiichi POST /api/games/{id}/riichi
func (h *Handler) DeclareRiichi(w http.ResponseWriter, r *http.Request) {
	var req protocol.DeclareRiichiRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	s, err := h.manager.DeclareRiichi(r.Context(), chi.URLParam(r, "id"), req.PlayerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.SessionToResponse(s))
}

// EndSession POST /api/games/{id}/end
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.EndSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.SessionToResponse(s))
}

// SessionsByPlayer GET /api/games/player/{name}
func (h *Handler) SessionsByPlayer(w http.ResponseWriter, r *http.Request) {
	list := h.manager.SessionsByPlayerName(chi.URLParam(r, "name"))
	writeJSON(w, http.StatusOK, convert.SessionsToSummaries(list))
}

// ActiveSession GET /api/games/active/{name}
func (h *Handler) ActiveSession(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s, ok := h.manager.ActiveSessionByPlayerName(name)
	if !ok {
		writeError(w, r, apperrors.ErrSessionNotFound.Withf("no active session for %s", name))
		return
	}
	writeJSON(w, http.StatusOK, convert.SessionToResponse(s))
}

// SearchSession GET /api/games/search?players=a,b,c,d
func (h *Handler) SearchSession(w http.ResponseWriter, r *http.Request) {
	names := strings.Split(r.URL.Query().Get("players"), ",")
	s, ok := h.manager.SessionByAllPlayers(names)
	if !ok {
		writeError(w, r, apperrors.ErrSessionNotFound.Withf("players=%s", r.URL.Query().Get("players")))
		return
	}
	writeJSON(w, http.StatusOK, convert.SessionToResponse(s))
}

// Yaku GET /api/yaku
func (h *Handler) Yaku(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, convert.YakuCatalogue())
}
