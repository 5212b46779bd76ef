package session

import "github.com/palemoky/mahjong-scoreboard/internal/apperrors"

// RiichiStickValue 每根立直棒的点数
const RiichiStickValue = 1000

// DeclareRiichi 立直：玩家立直棒 +1，供托 +1。点数在结算时扣除
func (s *Session) DeclareRiichi(playerID string) error {
	if s.IsCompleted() {
		return apperrors.ErrSessionCompleted
	}
	p, ok := s.Player(playerID)
	if !ok {
		return apperrors.ErrPlayerNotFound.Withf("player %s", playerID)
	}
	p.RiichiSticks++
	p.RiichiCount++
	s.Pot++
	return nil
}

// settleSticks 扣除所有立直棒，供托全部归 collector，返回其收取的点数
func (s *Session) settleSticks(collector int) int {
	for i := range s.Players {
		p := &s.Players[i]
		if p.RiichiSticks > 0 {
			p.Score -= p.RiichiSticks * RiichiStickValue
			p.RiichiSticks = 0
		}
	}
	collected := s.Pot * RiichiStickValue
	s.Players[collector].Score += collected
	s.Pot = 0
	return collected
}
