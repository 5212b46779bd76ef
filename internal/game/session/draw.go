package session

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/mahjong-scoreboard/internal/apperrors"
)

// NotenPenaltyPool 荒牌流局罚符总额
const NotenPenaltyPool = 3000

// RecordDraw 记录流局，readyIDs 为听牌玩家
func (s *Session) RecordDraw(drawType DrawType, readyIDs []string) (*DrawResult, error) {
	if s.IsCompleted() {
		return nil, apperrors.ErrSessionCompleted
	}
	if !drawType.Valid() {
		return nil, apperrors.ErrInvalidDrawType.Withf("type=%q", drawType)
	}
	if drawType.IsAbortive() && !s.Rules.AbortiveDraws {
		return nil, apperrors.ErrAbortiveDisabled.Withf("type=%s", drawType)
	}

	var ready [SeatCount]bool
	readyCount := 0
	for _, id := range readyIDs {
		idx := s.PlayerIndex(id)
		if idx < 0 {
			return nil, apperrors.ErrPlayerNotFound.Withf("ready %s", id)
		}
		if ready[idx] {
			return nil, apperrors.ErrDuplicatePlayer.Withf("ready %s", id)
		}
		ready[idx] = true
		readyCount++
	}

	if drawType == DrawExhaustive {
		s.applyNotenPenalty(ready, readyCount)
	}

	result := &DrawResult{
		ID:         uuid.New().String(),
		Type:       drawType,
		ReadyIDs:   slices.Clone(readyIDs),
		RecordedAt: time.Now(),
	}
	s.CurrentRound().Draw = result

	s.advance(ready[s.DealerIndex], true)
	s.checkBankruptcy()

	out := *result
	out.ReadyIDs = slices.Clone(result.ReadyIDs)
	return &out, nil
}

// applyNotenPenalty 不听者平摊支付，听牌者平分。整除余数不再分配
func (s *Session) applyNotenPenalty(ready [SeatCount]bool, readyCount int) {
	if readyCount == 0 || readyCount == SeatCount {
		return
	}
	receive := NotenPenaltyPool / readyCount
	pay := NotenPenaltyPool / (SeatCount - readyCount)
	for i := range s.Players {
		if ready[i] {
			s.Players[i].Score += receive
		} else {
			s.Players[i].Score -= pay
		}
	}
}
