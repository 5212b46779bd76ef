package session

// ledger 暂存一次结算的全部变动，校验与查表都通过后再一次性写入
type ledger struct {
	delta     [SeatCount]int
	ronWins   [SeatCount]int
	tsumoWins [SeatCount]int
	dealIns   [SeatCount]int
}

func (l *ledger) transfer(from, to, amount int) {
	l.delta[from] -= amount
	l.delta[to] += amount
}

func (l *ledger) commit(s *Session) {
	for i := range s.Players {
		p := &s.Players[i]
		p.Score += l.delta[i]
		p.RonWins += l.ronWins[i]
		p.TsumoWins += l.tsumoWins[i]
		p.DealIns += l.dealIns[i]
	}
}
