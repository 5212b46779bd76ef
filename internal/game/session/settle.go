package session

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/mahjong-scoreboard/internal/apperrors"
	"github.com/palemoky/mahjong-scoreboard/internal/game/scoring"
	"github.com/palemoky/mahjong-scoreboard/internal/game/yaku"
)

const (
	// MaxRonWinners 一炮最多三响
	MaxRonWinners = 3

	honbaRonBonus   = 300
	honbaTsumoShare = 100
	kazoeCapHan     = 12
)

// resolvedWin 校验后的和牌申报
type resolvedWin struct {
	WinEntry
	idx int
	pao int // 包牌者座位，-1 表示无
}

// RecordWin 结算一次和牌，loserID 为空表示自摸。返回按优先顺序排列的结果
func (s *Session) RecordWin(winners []WinEntry, loserID string) ([]HandResult, error) {
	ordered, loser, err := s.resolveWinners(winners, loserID)
	if err != nil {
		return nil, err
	}
	tsumo := loser < 0

	var l ledger
	results := make([]HandResult, 0, len(ordered))
	dealerWon := false
	now := time.Now()

	for i, w := range ordered {
		first := i == 0
		isDealer := w.idx == s.DealerIndex
		if isDealer {
			dealerWon = true
		}

		han := s.effectiveHan(w.Han, w.Yaku)
		mult := 1
		if han >= yaku.YakumanHan {
			mult = s.yakumanMultiplier(w.Yaku)
		}

		pay, err := scoring.Payment(han, w.Fu, isDealer, tsumo, SeatCount, s.Rules.Kiriage, mult)
		if err != nil {
			return nil, err
		}

		honba := 0
		if first {
			honba = s.Honba
		}

		hr := HandResult{
			ID:         uuid.New().String(),
			WinnerID:   w.PlayerID,
			Han:        han,
			Fu:         w.Fu,
			HonbaBonus: honba * honbaRonBonus,
			Yaku:       slices.Clone(w.Yaku),
			RecordedAt: now,
		}
		if !tsumo {
			hr.LoserID = s.Players[loser].ID
		}

		// 包牌只对最近的和牌者生效，包牌者即放铳者时按普通荣和处理
		pao := first && s.Rules.Pao && w.pao >= 0 && w.pao != loser
		switch {
		case pao && tsumo:
			ron, err := scoring.Payment(han, w.Fu, isDealer, false, SeatCount, s.Rules.Kiriage, mult)
			if err != nil {
				return nil, err
			}
			l.transfer(w.pao, w.idx, ron.Ron+hr.HonbaBonus)
			hr.PointsWon = ron.Ron
			hr.PaoPlayerID = w.PaoPlayerID
		case pao:
			half := roundUp100(pay.Ron / 2)
			l.transfer(loser, w.idx, half)
			l.transfer(w.pao, w.idx, half+hr.HonbaBonus)
			hr.PointsWon = half * 2
			hr.PaoPlayerID = w.PaoPlayerID
		case tsumo:
			for j := range s.Players {
				if j == w.idx {
					continue
				}
				amount := pay.TsumoFromNonDealer
				if j == s.DealerIndex && !isDealer {
					amount = pay.TsumoFromDealer
				}
				l.transfer(j, w.idx, amount+honba*honbaTsumoShare)
			}
			hr.PointsWon = pay.Total
			hr.HonbaBonus = honba * honbaTsumoShare * (SeatCount - 1)
		default:
			l.transfer(loser, w.idx, pay.Ron+hr.HonbaBonus)
			hr.PointsWon = pay.Ron
		}

		if tsumo {
			l.tsumoWins[w.idx]++
		} else {
			l.ronWins[w.idx]++
		}
		results = append(results, hr)
	}

	if !tsumo {
		l.dealIns[loser]++
	}

	// 以下不会失败
	l.commit(s)
	results[0].PotPoints = s.settleSticks(ordered[0].idx)
	results[0].CollectedPot = true

	round := s.CurrentRound()
	round.Hands = append(round.Hands, results...)

	s.advance(dealerWon, false)
	s.checkBankruptcy()

	out := make([]HandResult, len(results))
	for i, hr := range results {
		hr.Yaku = slices.Clone(hr.Yaku)
		out[i] = hr
	}
	return out, nil
}

// resolveWinners 校验申报并按放铳者逆时针距离排序，返回放铳者座位（自摸为 -1）
func (s *Session) resolveWinners(winners []WinEntry, loserID string) ([]resolvedWin, int, error) {
	if s.IsCompleted() {
		return nil, -1, apperrors.ErrSessionCompleted
	}
	if len(winners) == 0 {
		return nil, -1, apperrors.ErrNoWinners
	}

	loser := -1
	if loserID != "" {
		loser = s.PlayerIndex(loserID)
		if loser < 0 {
			return nil, -1, apperrors.ErrUnknownPlayer.Withf("loser %s", loserID)
		}
		if len(winners) > MaxRonWinners {
			return nil, -1, apperrors.ErrTooManyWinners.Withf("got %d", len(winners))
		}
	} else if len(winners) > 1 {
		return nil, -1, apperrors.ErrMultiTsumo.Withf("got %d", len(winners))
	}

	resolved := make([]resolvedWin, 0, len(winners))
	seen := make(map[int]bool, len(winners))
	for _, w := range winners {
		idx := s.PlayerIndex(w.PlayerID)
		switch {
		case idx < 0:
			return nil, -1, apperrors.ErrUnknownPlayer.Withf("winner %s", w.PlayerID)
		case seen[idx]:
			return nil, -1, apperrors.ErrDuplicatePlayer.Withf("winner %s", w.PlayerID)
		case idx == loser:
			return nil, -1, apperrors.ErrLoserIsWinner
		case w.Han < 1:
			return nil, -1, apperrors.ErrInvalidHan.Withf("han=%d", w.Han)
		case w.Fu < 0:
			return nil, -1, apperrors.ErrInvalidFu.Withf("fu=%d", w.Fu)
		case len(w.Yaku) == 0:
			return nil, -1, apperrors.ErrMissingYaku
		}
		for _, y := range w.Yaku {
			if !y.Valid() {
				return nil, -1, apperrors.ErrUnknownYaku.Withf("yaku=%d", int(y))
			}
		}
		seen[idx] = true

		// 包牌规则关闭时忽略责任者
		pao := -1
		if s.Rules.Pao && w.PaoPlayerID != "" {
			pao = s.PlayerIndex(w.PaoPlayerID)
			if pao < 0 {
				return nil, -1, apperrors.ErrUnknownPlayer.Withf("pao %s", w.PaoPlayerID)
			}
			if pao == idx {
				return nil, -1, apperrors.ErrPaoIsWinner
			}
		}
		resolved = append(resolved, resolvedWin{WinEntry: w, idx: idx, pao: pao})
	}

	// 同一次和牌中，责任者不能同时是另一名和牌者
	for _, w := range resolved {
		if w.pao >= 0 && seen[w.pao] {
			return nil, -1, apperrors.ErrPaoIsWinner.Withf("pao %s also won", w.PaoPlayerID)
		}
	}

	if loser >= 0 && len(resolved) > 1 {
		slices.SortStableFunc(resolved, func(a, b resolvedWin) int {
			return seatDistance(loser, a.idx) - seatDistance(loser, b.idx)
		})
		if s.Rules.Atamahane {
			resolved = resolved[:1]
		}
	}
	return resolved, loser, nil
}

// effectiveHan 未开启累计役满且没有真正的役满时，番数封顶三倍满
func (s *Session) effectiveHan(han int, list []yaku.Yaku) int {
	if !s.Rules.KazoeYakuman && han >= yaku.YakumanHan && !slices.ContainsFunc(list, yaku.Yaku.IsActualYakuman) {
		return kazoeCapHan
	}
	return han
}

// yakumanMultiplier 役满倍数，只统计真正的役满
func (s *Session) yakumanMultiplier(list []yaku.Yaku) int {
	mult := 0
	hasDouble := false
	for _, y := range list {
		if !y.IsActualYakuman() {
			continue
		}
		value := 1
		if s.Rules.DoubleYakuman && y.IsDoubleYakuman() {
			value = 2
			hasDouble = true
		}
		mult += value
	}

	switch {
	case mult == 0:
		return 1
	case s.Rules.CompositeYakuman:
		return mult
	case hasDouble:
		return 2
	default:
		return 1
	}
}

// seatDistance 从放铳者起逆时针的座位距离
func seatDistance(loser, winner int) int {
	return (winner - loser + SeatCount) % SeatCount
}

func roundUp100(v int) int {
	return (v + 99) / 100 * 100
}
