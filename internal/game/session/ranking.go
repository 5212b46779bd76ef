package session

import (
	"math"
	"slices"
	"time"

	"github.com/palemoky/mahjong-scoreboard/internal/apperrors"
)

// End 手动结束对局
func (s *Session) End() error {
	if s.IsCompleted() {
		return apperrors.ErrSessionCompleted
	}
	s.finish()
	return nil
}

// finish 结束对局：剩余供托与立直棒归最高分者，然后计算终局排名
func (s *Session) finish() {
	s.Status = StatusCompleted
	s.CompletedAt = time.Now()

	top := 0
	for i := 1; i < SeatCount; i++ {
		if s.Players[i].Score > s.Players[top].Score {
			top = i
		}
	}
	s.WinnerID = s.Players[top].ID
	s.settleSticks(top)

	s.FinalScores = s.rank()
}

// rank 按点数降序排名，同分按座位顺序。一位吸收取整误差，总和恒为 0
func (s *Session) rank() []FinalScoreEntry {
	order := []int{0, 1, 2, 3}
	slices.SortStableFunc(order, func(a, b int) int {
		return s.Players[b].Score - s.Players[a].Score
	})

	target := s.Rules.TargetScore
	oka := (target - s.StartingScore) * SeatCount

	entries := make([]FinalScoreEntry, SeatCount)
	others := 0
	for place, idx := range order {
		p := s.Players[idx]
		adjusted := p.Score - target
		if place == 0 {
			adjusted += oka
		}
		final := roundHalfDown(float64(adjusted)/1000) + s.Rules.Uma[place]
		if place > 0 {
			others += final
		}
		entries[place] = FinalScoreEntry{
			PlayerID:      p.ID,
			PlayerName:    p.Name,
			RawScore:      p.Score,
			AdjustedScore: adjusted,
			FinalScore:    final,
			Place:         place + 1,
		}
	}
	entries[0].FinalScore = -others
	return entries
}

// roundHalfDown 五舍：4.5 -> 4，-4.5 -> -5
func roundHalfDown(x float64) int {
	return int(math.Ceil(x - 0.5))
}
