// Package scoring 根据番符查表计算和牌点数。
package scoring

import (
	"github.com/palemoky/mahjong-scoreboard/internal/apperrors"
)

// 满贯及以上的番数阈值
const (
	ManganHan    = 5
	HanemanHan   = 6
	BaimanHan    = 8
	SanbaimanHan = 11
	YakumanHan   = 13

	DefaultSeatCount = 4
)

// Result 点数计算结果
type Result struct {
	Han   int    `json:"han"` // 切上、溢出修正后的番数
	Fu    int    `json:"fu"`
	Limit string `json:"limit,omitempty"`

	Total int `json:"total"` // 和牌者收入合计
	Ron   int `json:"ron,omitempty"`

	// 自摸：庄家自摸时 TsumoFromDealer 为 0，其余每家支付 TsumoFromNonDealer
	TsumoFromDealer    int `json:"tsumo_from_dealer,omitempty"`
	TsumoFromNonDealer int `json:"tsumo_from_non_dealer,omitempty"`
}

// Payment 计算一次和牌的点数
func Payment(han, fu int, isDealer, isSelfDraw bool, seatCount int, kiriage bool, yakumanMultiplier int) (Result, error) {
	if han < 1 {
		return Result{}, apperrors.ErrInvalidHan.Withf("han=%d", han)
	}
	if fu < 0 {
		return Result{}, apperrors.ErrInvalidFu.Withf("fu=%d", fu)
	}
	if seatCount < 2 {
		seatCount = DefaultSeatCount
	}
	if yakumanMultiplier < 1 {
		yakumanMultiplier = 1
	}

	han = effectiveHan(han, fu, kiriage)
	res := Result{Han: han, Fu: fu, Limit: LimitName(han)}

	if han >= ManganHan {
		base := limitBase(han)
		if han >= YakumanHan {
			base *= yakumanMultiplier
		}
		res.fromBase(base, isDealer, isSelfDraw, seatCount)
		return res, nil
	}

	if err := res.lookup(han, fu, isDealer, isSelfDraw, seatCount); err != nil {
		return Result{}, err
	}
	return res, nil
}

// effectiveHan 处理切上满贯和点数表溢出
func effectiveHan(han, fu int, kiriage bool) int {
	if kiriage && ((han == 4 && fu == 30) || (han == 3 && fu == 60)) {
		return ManganHan
	}
	if (han == 3 && fu >= 70) || (han == 4 && fu >= 40) {
		return ManganHan
	}
	return han
}

// limitBase 满贯及以上的基本点
func limitBase(han int) int {
	switch {
	case han >= YakumanHan:
		return 8000
	case han >= SanbaimanHan:
		return 6000
	case han >= BaimanHan:
		return 4000
	case han >= HanemanHan:
		return 3000
	default:
		return 2000
	}
}

// fromBase 满贯以上按基本点直接换算，结果均为 100 的整数倍
func (r *Result) fromBase(base int, isDealer, isSelfDraw bool, seatCount int) {
	switch {
	case !isSelfDraw && isDealer:
		r.Ron = base * 6
	case !isSelfDraw:
		r.Ron = base * 4
	case isDealer:
		r.TsumoFromNonDealer = base * 2
	default:
		r.TsumoFromDealer = base * 2
		r.TsumoFromNonDealer = base
	}
	r.total(isDealer, isSelfDraw, seatCount)
}

func (r *Result) lookup(han, fu int, isDealer, isSelfDraw bool, seatCount int) error {
	var ok bool
	switch {
	case !isSelfDraw && isDealer:
		r.Ron, ok = dealerRon[han][fu]
	case !isSelfDraw:
		r.Ron, ok = nonDealerRon[han][fu]
	case isDealer:
		r.TsumoFromNonDealer, ok = dealerTsumo[han][fu]
	default:
		var split tsumoSplit
		split, ok = nonDealerTsumo[han][fu]
		r.TsumoFromDealer, r.TsumoFromNonDealer = split.dealer, split.nonDealer
	}
	if !ok {
		return apperrors.ErrNoPaymentEntry.Withf("han=%d fu=%d", han, fu)
	}
	r.total(isDealer, isSelfDraw, seatCount)
	return nil
}

func (r *Result) total(isDealer, isSelfDraw bool, seatCount int) {
	switch {
	case !isSelfDraw:
		r.Total = r.Ron
	case isDealer:
		r.Total = r.TsumoFromNonDealer * (seatCount - 1)
	default:
		r.Total = r.TsumoFromDealer + r.TsumoFromNonDealer*(seatCount-2)
	}
}

// BasePoints 基本点：符 × 2^(番+2)，满贯以下封顶 2000
func BasePoints(han, fu int) int {
	if han < 1 {
		return 0
	}
	han = effectiveHan(han, fu, false)
	if han >= ManganHan {
		return limitBase(han)
	}
	return min(fu<<(han+2), 2000)
}

// LimitName 满贯级别名称，满贯以下返回空串
func LimitName(han int) string {
	switch {
	case han >= YakumanHan:
		return "yakuman"
	case han >= SanbaimanHan:
		return "sanbaiman"
	case han >= BaimanHan:
		return "baiman"
	case han >= HanemanHan:
		return "haneman"
	case han >= ManganHan:
		return "mangan"
	default:
		return ""
	}
}
