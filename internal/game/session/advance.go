package session

// advance 推进到下一局。dealerStays 为连庄；afterDraw 时本场始终 +1 且轮庄不清零
func (s *Session) advance(dealerStays, afterDraw bool) {
	if afterDraw || dealerStays {
		s.Honba++
	}

	if !dealerStays {
		s.DealerIndex = (s.DealerIndex + 1) % SeatCount
		for i := range s.Players {
			s.Players[i].SeatWind = s.Players[i].SeatWind.Next()
		}
		if !afterDraw {
			s.Honba = 0
		}

		if s.DealerIndex == 0 {
			s.RoundWind = s.RoundWind.Next()
			if int(s.RoundWind) == s.Rules.EndWind() {
				s.finish()
				return
			}
		}
	}

	s.RoundNumber++
	s.startRound()
}

// checkBankruptcy 击飞规则下有人点数为负即结束
func (s *Session) checkBankruptcy() {
	if !s.Rules.Bankruptcy || s.IsCompleted() {
		return
	}
	for i := range s.Players {
		if s.Players[i].Score < 0 {
			s.finish()
			return
		}
	}
}
