// Package yaku 定义役种目录：番数、说明以及役满分类。
package yaku

import (
	"errors"
	"fmt"
)

// Yaku 役种
type Yaku int

// 役种常量，顺序即目录顺序
const (
	// 一番
	Riichi        Yaku = iota // 立直
	Tsumo                     // 门前清自摸和
	Tanyao                    // 断幺九
	Yakuhai                   // 役牌
	Chankan                   // 抢杠
	Rinshankaihou             // 岭上开花
	Haitei                    // 海底摸月
	Houtei                    // 河底捞鱼
	Pinfu                     // 平和
	Ippatsu                   // 一发
	Iipeikou                  // 一杯口

	// 二番
	Toitoi         // 对对和
	Sanankou       // 三暗刻
	Sanshoku       // 三色同顺
	Sanshokudoukou // 三色同刻
	Sankantsu      // 三杠子
	Honroutou      // 混老头
	Chanta         // 混全带幺九
	Shousangen     // 小三元
	Ittsuu         // 一气通贯

	// 三番
	Ryanpeikou // 二杯口
	Honitsu    // 混一色
	Junchan    // 纯全带幺九

	// 满贯级
	Nagashimangan // 流局满贯
	Chinitsu      // 清一色

	// 役满
	Tenhou              // 天和
	Chiihou             // 地和
	Daisangen           // 大三元
	Daisuushii          // 大四喜（双倍）
	Shousuushii         // 小四喜
	Suuankou            // 四暗刻
	Chinroutou          // 清老头
	Suukantsu           // 四杠子
	Tsuuiisou           // 字一色
	Ryuuiisou           // 绿一色
	Kokushimusou        // 国士无双
	Chuuren             // 九莲宝灯
	Kazoeyakuman        // 累计役满
	SuuankouTanki       // 四暗刻单骑（双倍）
	KokushiJuusanmen    // 国士无双十三面（双倍）
	JunseiChuurenpoutou // 纯正九莲宝灯（双倍）

	// 宝牌
	Aka  // 赤宝牌
	Dora // 宝牌
	Ura  // 里宝牌

	count
)

// YakumanHan 役满番数阈值
const YakumanHan = 13

// ErrUnknownYaku 未知役种名称
var ErrUnknownYaku = errors.New("未知役种")

// All 按目录顺序返回全部役种
func All() []Yaku {
	all := make([]Yaku, 0, count)
	for y := Riichi; y < count; y++ {
		all = append(all, y)
	}
	return all
}

// Valid 是否为已定义役种
func (y Yaku) Valid() bool {
	return y >= Riichi && y < count
}

// HanValue 役种番数
func (y Yaku) HanValue() int {
	switch y {
	case Riichi, Tsumo, Tanyao, Yakuhai, Chankan, Rinshankaihou, Haitei, Houtei, Pinfu, Ippatsu, Iipeikou:
		return 1
	case Toitoi, Sanankou, Sanshoku, Sanshokudoukou, Sankantsu, Honroutou, Chanta, Shousangen, Ittsuu:
		return 2
	case Ryanpeikou, Honitsu, Junchan:
		return 3
	case Nagashimangan:
		return 5
	case Chinitsu:
		return 6
	case Tenhou, Chiihou, Daisangen, Daisuushii, Shousuushii, Suuankou, Chinroutou, Suukantsu,
		Tsuuiisou, Ryuuiisou, Kokushimusou, Chuuren, Kazoeyakuman, SuuankouTanki, KokushiJuusanmen,
		JunseiChuurenpoutou:
		return YakumanHan
	case Aka, Dora, Ura:
		return 1
	default:
		return 0
	}
}

// Description 役种英文说明
func (y Yaku) Description() string {
	switch y {
	case Riichi:
		return "Declare a ready hand with a closed hand"
	case Tsumo:
		return "Win by self-draw with a closed hand"
	case Tanyao:
		return "All simples, no terminals or honors"
	case Yakuhai:
		return "Triplet of dragons, seat wind or round wind"
	case Chankan:
		return "Win on a tile used to extend a kan"
	case Rinshankaihou:
		return "Win on the replacement tile after a kan"
	case Haitei:
		return "Win by self-draw on the last tile of the wall"
	case Houtei:
		return "Win on the last discard of the round"
	case Pinfu:
		return "All sequences with a two-sided wait and a valueless pair"
	case Ippatsu:
		return "Win within one go-around after riichi"
	case Iipeikou:
		return "Two identical sequences in a closed hand"
	case Toitoi:
		return "All triplets"
	case Sanankou:
		return "Three concealed triplets"
	case Sanshoku:
		return "Same sequence in all three suits"
	case Sanshokudoukou:
		return "Same triplet in all three suits"
	case Sankantsu:
		return "Three kans"
	case Honroutou:
		return "Only terminals and honors"
	case Chanta:
		return "Every set and the pair contain a terminal or honor"
	case Shousangen:
		return "Two dragon triplets and a dragon pair"
	case Ittsuu:
		return "Straight from 1 to 9 in one suit"
	case Ryanpeikou:
		return "Two pairs of identical sequences"
	case Honitsu:
		return "One suit plus honors"
	case Junchan:
		return "Every set and the pair contain a terminal"
	case Nagashimangan:
		return "Only terminals and honors discarded, none called, at an exhaustive draw"
	case Chinitsu:
		return "One suit only"
	case Tenhou:
		return "Dealer wins on the initial deal"
	case Chiihou:
		return "Non-dealer wins on the first draw"
	case Daisangen:
		return "Triplets of all three dragons"
	case Daisuushii:
		return "Triplets of all four winds"
	case Shousuushii:
		return "Three wind triplets and a wind pair"
	case Suuankou:
		return "Four concealed triplets"
	case Chinroutou:
		return "Only terminals"
	case Suukantsu:
		return "Four kans"
	case Tsuuiisou:
		return "Only honors"
	case Ryuuiisou:
		return "Only green tiles"
	case Kokushimusou:
		return "One of each terminal and honor plus one pair"
	case Chuuren:
		return "1112345678999 in one suit plus any tile of that suit"
	case Kazoeyakuman:
		return "Thirteen or more han counted from ordinary yaku"
	case SuuankouTanki:
		return "Four concealed triplets on a pair wait"
	case KokushiJuusanmen:
		return "Thirteen orphans on a thirteen-sided wait"
	case JunseiChuurenpoutou:
		return "Nine gates on a nine-sided wait"
	case Aka:
		return "Red five"
	case Dora:
		return "Dora indicator bonus"
	case Ura:
		return "Hidden dora bonus after riichi"
	default:
		return ""
	}
}

// IsBonus 是否为宝牌（不构成役）
func (y Yaku) IsBonus() bool {
	switch y {
	case Aka, Dora, Ura:
		return true
	default:
		return false
	}
}

// IsYakuman 是否为役满级役种（含累计役满）
func (y Yaku) IsYakuman() bool {
	return y.Valid() && !y.IsBonus() && y.HanValue() >= YakumanHan
}

// IsActualYakuman 是否为真正的役满（累计役满不算）
func (y Yaku) IsActualYakuman() bool {
	return y.IsYakuman() && y != Kazoeyakuman
}

// IsDoubleYakuman 是否为双倍役满役种
func (y Yaku) IsDoubleYakuman() bool {
	switch y {
	case SuuankouTanki, KokushiJuusanmen, JunseiChuurenpoutou, Daisuushii:
		return true
	default:
		return false
	}
}

// String 返回线上传输用的名称
func (y Yaku) String() string {
	switch y {
	case Riichi:
		return "riichi"
	case Tsumo:
		return "tsumo"
	case Tanyao:
		return "tanyao"
	case Yakuhai:
		return "yakuhai"
	case Chankan:
		return "chankan"
	case Rinshankaihou:
		return "rinshan_kaihou"
	case Haitei:
		return "haitei"
	case Houtei:
		return "houtei"
	case Pinfu:
		return "pinfu"
	case Ippatsu:
		return "ippatsu"
	case Iipeikou:
		return "iipeikou"
	case Toitoi:
		return "toitoi"
	case Sanankou:
		return "sanankou"
	case Sanshoku:
		return "sanshoku"
	case Sanshokudoukou:
		return "sanshoku_doukou"
	case Sankantsu:
		return "sankantsu"
	case Honroutou:
		return "honroutou"
	case Chanta:
		return "chanta"
	case Shousangen:
		return "shousangen"
	case Ittsuu:
		return "ittsuu"
	case Ryanpeikou:
		return "ryanpeikou"
	case Honitsu:
		return "honitsu"
	case Junchan:
		return "junchan"
	case Nagashimangan:
		return "nagashi_mangan"
	case Chinitsu:
		return "chinitsu"
	case Tenhou:
		return "tenhou"
	case Chiihou:
		return "chiihou"
	case Daisangen:
		return "daisangen"
	case Daisuushii:
		return "daisuushii"
	case Shousuushii:
		return "shousuushii"
	case Suuankou:
		return "suuankou"
	case Chinroutou:
		return "chinroutou"
	case Suukantsu:
		return "suukantsu"
	case Tsuuiisou:
		return "tsuuiisou"
	case Ryuuiisou:
		return "ryuuiisou"
	case Kokushimusou:
		return "kokushi_musou"
	case Chuuren:
		return "chuuren_poutou"
	case Kazoeyakuman:
		return "kazoe_yakuman"
	case SuuankouTanki:
		return "suuankou_tanki"
	case KokushiJuusanmen:
		return "kokushi_juusanmen"
	case JunseiChuurenpoutou:
		return "junsei_chuuren_poutou"
	case Aka:
		return "aka"
	case Dora:
		return "dora"
	case Ura:
		return "ura"
	default:
		return fmt.Sprintf("yaku(%d)", int(y))
	}
}

var byName = func() map[string]Yaku {
	m := make(map[string]Yaku, count)
	for _, y := range All() {
		m[y.String()] = y
	}
	return m
}()

// Parse 按名称解析役种
func Parse(name string) (Yaku, error) {
	if y, ok := byName[name]; ok {
		return y, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownYaku, name)
}

// MarshalText 实现 encoding.TextMarshaler
func (y Yaku) MarshalText() ([]byte, error) {
	if !y.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownYaku, int(y))
	}
	return []byte(y.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (y *Yaku) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*y = parsed
	return nil
}

// TotalHan 累加役种番数
func TotalHan(list []Yaku) int {
	total := 0
	for _, y := range list {
		total += y.HanValue()
	}
	return total
}
