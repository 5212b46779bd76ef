// Package convert 在领域模型与协议 DTO 之间转换
package convert

import (
	"strings"

	"github.com/palemoky/mahjong-scoreboard/internal/apperrors"
	"github.com/palemoky/mahjong-scoreboard/internal/game/rules"
	"github.com/palemoky/mahjong-scoreboard/internal/game/session"
	"github.com/palemoky/mahjong-scoreboard/internal/game/yaku"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
	"github.com/palemoky/mahjong-scoreboard/internal/storage"
)

// DefaultFu 未填写符数时的默认值
const DefaultFu = 30

// --- 请求 → 领域 ---

// RulesFromRequest 以 base 为默认规则，合并请求中填写的规则项。
// uma 填写时必须恰好四项
func RulesFromRequest(base rules.Rules, req *protocol.CreateSessionRequest) (rules.Rules, error) {
	r := base
	if req.TargetScore != 0 {
		r.TargetScore = req.TargetScore
	}
	if req.Uma != nil {
		if len(req.Uma) != len(r.Uma) {
			return rules.Rules{}, apperrors.ErrInvalidRules.Withf("uma len=%d", len(req.Uma))
		}
		copy(r.Uma[:], req.Uma)
	}
	if req.Length != "" {
		r.Length = rules.GameLength(strings.ToLower(req.Length))
	}

	for _, toggle := range []struct {
		src *bool
		dst *bool
	}{
		{req.Kiriage, &r.Kiriage},
		{req.Atamahane, &r.Atamahane},
		{req.KazoeYakuman, &r.KazoeYakuman},
		{req.DoubleYakuman, &r.DoubleYakuman},
		{req.CompositeYakuman, &r.CompositeYakuman},
		{req.Bankruptcy, &r.Bankruptcy},
		{req.AbortiveDraws, &r.AbortiveDraws},
		{req.Pao, &r.Pao},
	} {
		if toggle.src != nil {
			*toggle.dst = *toggle.src
		}
	}
	return r, nil
}

// StartingScore 请求中的起始点数，未填写时返回 def
func StartingScore(req *protocol.CreateSessionRequest, def int) int {
	if req.StartingScore == 0 {
		return def
	}
	return req.StartingScore
}

// WinnersFromRequest 转换和牌申报，未填写的符数按 30 处理
func WinnersFromRequest(reqs []protocol.WinnerRequest) []session.WinEntry {
	entries := make([]session.WinEntry, len(reqs))
	for i, w := range reqs {
		fu := DefaultFu
		if w.Fu != nil {
			fu = *w.Fu
		}
		entries[i] = session.WinEntry{
			PlayerID:    w.WinnerID,
			Han:         w.Han,
			Fu:          fu,
			Yaku:        w.Yaku,
			PaoPlayerID: w.PaoPlayerID,
		}
	}
	return entries
}

// --- 领域 → 响应 ---

// PlayerToResponse 转换玩家信息
func PlayerToResponse(p *session.Player) protocol.PlayerResponse {
	return protocol.PlayerResponse{
		ID:           p.ID,
		Name:         p.Name,
		Score:        p.Score,
		SeatWind:     p.SeatWind.String(),
		RiichiSticks: p.RiichiSticks,
		RonWins:      p.RonWins,
		TsumoWins:    p.TsumoWins,
		DealIns:      p.DealIns,
		RiichiCount:  p.RiichiCount,
	}
}

// RulesToResponse 转换规则
func RulesToResponse(r rules.Rules) protocol.RulesResponse {
	return protocol.RulesResponse{
		Kiriage:          r.Kiriage,
		Atamahane:        r.Atamahane,
		KazoeYakuman:     r.KazoeYakuman,
		DoubleYakuman:    r.DoubleYakuman,
		CompositeYakuman: r.CompositeYakuman,
		Bankruptcy:       r.Bankruptcy,
		AbortiveDraws:    r.AbortiveDraws,
		Pao:              r.Pao,
		TargetScore:      r.TargetScore,
		Uma:              r.Uma[:],
		Length:           string(r.Length),
	}
}

// SessionToResponse 转换对局详情
func SessionToResponse(s *session.Session) protocol.SessionResponse {
	resp := protocol.SessionResponse{
		ID:          s.ID,
		Players:     make([]protocol.PlayerResponse, len(s.Players)),
		RoundNumber: s.RoundNumber,
		RoundWind:   s.RoundWind.String(),
		DealerIndex: s.DealerIndex,
		Kyoku:       s.DealerIndex + 1,
		Honba:       s.Honba,
		Pot:         s.Pot,
		Status:      string(s.Status),
		Rules:       RulesToResponse(s.Rules),
		WinnerID:    s.WinnerID,
		CreatedAt:   s.CreatedAt.UnixMilli(),
	}
	if r := s.CurrentRound(); r != nil {
		resp.KyokuName = r.Name()
	}
	if !s.CompletedAt.IsZero() {
		resp.CompletedAt = s.CompletedAt.UnixMilli()
	}
	for i := range s.Players {
		resp.Players[i] = PlayerToResponse(&s.Players[i])
	}

	for _, fs := range s.FinalScores {
		entry := protocol.RankingEntry{
			Place:         fs.Place,
			RawScore:      fs.RawScore,
			AdjustedScore: fs.AdjustedScore,
			FinalScore:    fs.FinalScore,
		}
		if p, ok := s.Player(fs.PlayerID); ok {
			entry.Player = PlayerToResponse(p)
		}
		resp.Ranking = append(resp.Ranking, entry)
	}
	return resp
}

// SessionToSummary 转换对局列表项
func SessionToSummary(s *session.Session) protocol.SessionSummaryResponse {
	resp := protocol.SessionSummaryResponse{
		ID:        s.ID,
		Players:   make([]protocol.PlayerSummary, len(s.Players)),
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.UnixMilli(),
	}
	if !s.CompletedAt.IsZero() {
		resp.CompletedAt = s.CompletedAt.UnixMilli()
	}
	for i, p := range s.Players {
		resp.Players[i] = protocol.PlayerSummary{
			Name:        p.Name,
			Score:       p.Score,
			RonWins:     p.RonWins,
			TsumoWins:   p.TsumoWins,
			DealIns:     p.DealIns,
			RiichiCount: p.RiichiCount,
		}
	}
	return resp
}

// SessionsToSummaries 批量转换对局列表
func SessionsToSummaries(list []*session.Session) []protocol.SessionSummaryResponse {
	result := make([]protocol.SessionSummaryResponse, len(list))
	for i, s := range list {
		result[i] = SessionToSummary(s)
	}
	return result
}

// HandResultToResponse 转换和牌结果
func HandResultToResponse(h session.HandResult) protocol.HandResultResponse {
	list := h.Yaku
	if list == nil {
		list = []yaku.Yaku{}
	}
	return protocol.HandResultResponse{
		ID:           h.ID,
		WinnerID:     h.WinnerID,
		LoserID:      h.LoserID,
		Han:          h.Han,
		Fu:           h.Fu,
		PointsWon:    h.PointsWon,
		HonbaBonus:   h.HonbaBonus,
		Yaku:         list,
		IsTsumo:      h.IsTsumo(),
		CollectedPot: h.CollectedPot,
		PotPoints:    h.PotPoints,
		PaoPlayerID:  h.PaoPlayerID,
	}
}

// HandResultsToResponse 批量转换和牌结果
func HandResultsToResponse(results []session.HandResult) []protocol.HandResultResponse {
	out := make([]protocol.HandResultResponse, len(results))
	for i, h := range results {
		out[i] = HandResultToResponse(h)
	}
	return out
}

// DrawToResponse 转换流局结果。status 为空时不输出
func DrawToResponse(d *session.DrawResult, honba int, status session.Status) *protocol.DrawConclusionResponse {
	if d == nil {
		return nil
	}
	ready := d.ReadyIDs
	if ready == nil {
		ready = []string{}
	}
	return &protocol.DrawConclusionResponse{
		ID:              d.ID,
		DrawType:        string(d.Type),
		TenpaiPlayerIDs: ready,
		Honba:           honba,
		SessionStatus:   string(status),
	}
}

// HistoryFromSession 转换对局历史
func HistoryFromSession(s *session.Session) protocol.HistoryResponse {
	resp := protocol.HistoryResponse{
		SessionID: s.ID,
		Rounds:    make([]protocol.RoundResponse, len(s.Rounds)),
	}
	for i, r := range s.Rounds {
		resp.Rounds[i] = protocol.RoundResponse{
			RoundNumber: r.Number,
			RoundWind:   r.Wind.String(),
			DealerIndex: r.DealerIndex,
			Kyoku:       r.Kyoku(),
			KyokuName:   r.Name(),
			Honba:       r.Honba,
			HandResults: HandResultsToResponse(r.Hands),
			DrawResult:  DrawToResponse(r.Draw, r.Honba, ""),
		}
	}
	return resp
}

// YakuCatalogue 役种目录
func YakuCatalogue() []protocol.YakuResponse {
	all := yaku.All()
	out := make([]protocol.YakuResponse, len(all))
	for i, y := range all {
		out[i] = protocol.YakuResponse{
			Name:        y.String(),
			HanValue:    y.HanValue(),
			Description: y.Description(),
			Yakuman:     y.IsYakuman(),
		}
	}
	return out
}

// --- 排行榜 ---

// LeaderboardToResponse 转换排行榜
func LeaderboardToResponse(entries []storage.LeaderboardEntry) []protocol.LeaderboardEntry {
	out := make([]protocol.LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = protocol.LeaderboardEntry(e)
	}
	return out
}

// PlayerStatsToResponse 转换玩家统计
func PlayerStatsToResponse(stats *storage.PlayerStats, rank int64) protocol.PlayerStatsResponse {
	return protocol.PlayerStatsResponse{
		PlayerName:   stats.PlayerName,
		Rank:         rank,
		TotalGames:   stats.TotalGames,
		Placements:   stats.Placements,
		AveragePlace: stats.AveragePlace(),
		TotalScore:   stats.TotalScore,
		RonWins:      stats.RonWins,
		TsumoWins:    stats.TsumoWins,
		DealIns:      stats.DealIns,
		RiichiCount:  stats.RiichiCount,
		BestScore:    stats.BestScore,
	}
}
