package session

import (
	"slices"
	"time"

	"github.com/palemoky/mahjong-scoreboard/internal/apperrors"
	"github.com/palemoky/mahjong-scoreboard/internal/storage"
)

// ToData 转换为可序列化的快照
func (s *Session) ToData() *storage.SessionData {
	data := &storage.SessionData{
		ID:            s.ID,
		Players:       make([]storage.PlayerData, 0, SeatCount),
		Rounds:        make([]storage.RoundData, 0, len(s.Rounds)),
		RoundNumber:   s.RoundNumber,
		RoundWind:     int(s.RoundWind),
		DealerIndex:   s.DealerIndex,
		Honba:         s.Honba,
		Pot:           s.Pot,
		Status:        string(s.Status),
		Rules:         s.Rules,
		StartingScore: s.StartingScore,
		WinnerID:      s.WinnerID,
		CreatedAt:     unixMilli(s.CreatedAt),
		CompletedAt:   unixMilli(s.CompletedAt),
	}

	for _, p := range s.Players {
		data.Players = append(data.Players, storage.PlayerData{
			ID:           p.ID,
			Name:         p.Name,
			Score:        p.Score,
			SeatWind:     int(p.SeatWind),
			RiichiSticks: p.RiichiSticks,
			RonWins:      p.RonWins,
			TsumoWins:    p.TsumoWins,
			DealIns:      p.DealIns,
			RiichiCount:  p.RiichiCount,
		})
	}

	for _, r := range s.Rounds {
		rd := storage.RoundData{
			Number:      r.Number,
			Wind:        int(r.Wind),
			DealerIndex: r.DealerIndex,
			Honba:       r.Honba,
		}
		for _, h := range r.Hands {
			rd.Hands = append(rd.Hands, storage.HandResultData{
				ID:           h.ID,
				WinnerID:     h.WinnerID,
				LoserID:      h.LoserID,
				Han:          h.Han,
				Fu:           h.Fu,
				PointsWon:    h.PointsWon,
				HonbaBonus:   h.HonbaBonus,
				Yaku:         slices.Clone(h.Yaku),
				PaoPlayerID:  h.PaoPlayerID,
				CollectedPot: h.CollectedPot,
				PotPoints:    h.PotPoints,
				RecordedAt:   unixMilli(h.RecordedAt),
			})
		}
		if r.Draw != nil {
			rd.Draw = &storage.DrawResultData{
				ID:         r.Draw.ID,
				Type:       string(r.Draw.Type),
				ReadyIDs:   slices.Clone(r.Draw.ReadyIDs),
				RecordedAt: unixMilli(r.Draw.RecordedAt),
			}
		}
		data.Rounds = append(data.Rounds, rd)
	}

	for _, f := range s.FinalScores {
		data.FinalScores = append(data.FinalScores, storage.FinalScoreData(f))
	}

	return data
}

// FromData 从快照重建对局
func FromData(data *storage.SessionData) (*Session, error) {
	if data == nil || len(data.Players) != SeatCount {
		return nil, apperrors.Wrap(apperrors.KindInvalidRequest, "对局快照不完整", apperrors.ErrInvalidPlayers)
	}

	s := &Session{
		ID:            data.ID,
		RoundNumber:   data.RoundNumber,
		RoundWind:     Wind(data.RoundWind),
		DealerIndex:   data.DealerIndex,
		Honba:         data.Honba,
		Pot:           data.Pot,
		Status:        Status(data.Status),
		Rules:         data.Rules,
		StartingScore: data.StartingScore,
		WinnerID:      data.WinnerID,
		CreatedAt:     fromUnixMilli(data.CreatedAt),
		CompletedAt:   fromUnixMilli(data.CompletedAt),
		Rounds:        make([]Round, 0, len(data.Rounds)),
	}

	for i, p := range data.Players {
		s.Players[i] = Player{
			ID:           p.ID,
			Name:         p.Name,
			Score:        p.Score,
			SeatWind:     Wind(p.SeatWind),
			RiichiSticks: p.RiichiSticks,
			RonWins:      p.RonWins,
			TsumoWins:    p.TsumoWins,
			DealIns:      p.DealIns,
			RiichiCount:  p.RiichiCount,
		}
	}

	for _, rd := range data.Rounds {
		r := Round{
			Number:      rd.Number,
			Wind:        Wind(rd.Wind),
			DealerIndex: rd.DealerIndex,
			Honba:       rd.Honba,
		}
		for _, h := range rd.Hands {
			r.Hands = append(r.Hands, HandResult{
				ID:           h.ID,
				WinnerID:     h.WinnerID,
				LoserID:      h.LoserID,
				Han:          h.Han,
				Fu:           h.Fu,
				PointsWon:    h.PointsWon,
				HonbaBonus:   h.HonbaBonus,
				Yaku:         slices.Clone(h.Yaku),
				PaoPlayerID:  h.PaoPlayerID,
				CollectedPot: h.CollectedPot,
				PotPoints:    h.PotPoints,
				RecordedAt:   fromUnixMilli(h.RecordedAt),
			})
		}
		if rd.Draw != nil {
			r.Draw = &DrawResult{
				ID:         rd.Draw.ID,
				Type:       DrawType(rd.Draw.Type),
				ReadyIDs:   slices.Clone(rd.Draw.ReadyIDs),
				RecordedAt: fromUnixMilli(rd.Draw.RecordedAt),
			}
		}
		s.Rounds = append(s.Rounds, r)
	}

	for _, f := range data.FinalScores {
		s.FinalScores = append(s.FinalScores, FinalScoreEntry(f))
	}

	if err := s.validateRestored(); err != nil {
		return nil, err
	}
	return s, nil
}

// validateRestored 校验快照中的下标与状态，防止损坏数据在后续操作中越界
func (s *Session) validateRestored() error {
	if s.Status != StatusInProgress && s.Status != StatusCompleted {
		return apperrors.ErrCorruptSnapshot.Withf("status=%q", s.Status)
	}
	if s.DealerIndex < 0 || s.DealerIndex >= SeatCount {
		return apperrors.ErrCorruptSnapshot.Withf("dealer_index=%d", s.DealerIndex)
	}
	if !s.RoundWind.Valid() {
		return apperrors.ErrCorruptSnapshot.Withf("round_wind=%d", s.RoundWind)
	}
	if s.Honba < 0 || s.Pot < 0 {
		return apperrors.ErrCorruptSnapshot.Withf("honba=%d pot=%d", s.Honba, s.Pot)
	}
	if s.Status == StatusInProgress && len(s.Rounds) == 0 {
		return apperrors.ErrCorruptSnapshot.Withf("in progress without rounds")
	}
	if err := s.Rules.Validate(s.StartingScore); err != nil {
		return apperrors.Wrap(apperrors.KindInvalidRequest, "对局快照规则不合法", err)
	}

	seen := make(map[string]bool, SeatCount)
	for i, p := range s.Players {
		if p.ID == "" || seen[p.ID] {
			return apperrors.ErrCorruptSnapshot.Withf("seat %d id=%q", i, p.ID)
		}
		seen[p.ID] = true
		if !p.SeatWind.Valid() || p.RiichiSticks < 0 {
			return apperrors.ErrCorruptSnapshot.Withf("seat %d wind=%d sticks=%d", i, p.SeatWind, p.RiichiSticks)
		}
	}
	for _, r := range s.Rounds {
		if r.DealerIndex < 0 || r.DealerIndex >= SeatCount || !r.Wind.Valid() {
			return apperrors.ErrCorruptSnapshot.Withf("round %d dealer=%d wind=%d", r.Number, r.DealerIndex, r.Wind)
		}
	}
	return nil
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromUnixMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
