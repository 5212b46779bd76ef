// Package rules 定义对局规则配置，创建后不可变更。
package rules

import (
	"github.com/palemoky/mahjong-scoreboard/internal/apperrors"
)

// 点数范围
const (
	MinScore = 1000
	MaxScore = 100000

	DefaultStartingScore = 25000
	DefaultTargetScore   = 30000
)

// GameLength 对局长度
type GameLength string

const (
	Hanchan GameLength = "hanchan" // 半庄：东南两场
	Tonpuu  GameLength = "tonpuu"  // 东风战：仅东场
)

// Rules 对局规则
type Rules struct {
	Kiriage          bool       `json:"kiriage" yaml:"kiriage"`                     // 切上满贯
	Atamahane        bool       `json:"atamahane" yaml:"atamahane"`                 // 头跳，一炮多响只算最近的一家
	KazoeYakuman     bool       `json:"kazoe_yakuman" yaml:"kazoe_yakuman"`         // 累计役满
	DoubleYakuman    bool       `json:"double_yakuman" yaml:"double_yakuman"`       // 双倍役满
	CompositeYakuman bool       `json:"composite_yakuman" yaml:"composite_yakuman"` // 复合役满
	Bankruptcy       bool       `json:"bankruptcy" yaml:"bankruptcy"`               // 击飞
	AbortiveDraws    bool       `json:"abortive_draws" yaml:"abortive_draws"`       // 途中流局
	Pao              bool       `json:"pao" yaml:"pao"`                             // 包牌
	TargetScore      int        `json:"target_score" yaml:"target_score"`           // 返点
	Uma              [4]int     `json:"uma" yaml:"uma"`                             // 顺位马，按名次 1..4
	Length           GameLength `json:"length" yaml:"length"`
}

// Default 返回默认规则
func Default() Rules {
	return Rules{
		KazoeYakuman:     true,
		CompositeYakuman: true,
		Bankruptcy:       true,
		AbortiveDraws:    true,
		TargetScore:      DefaultTargetScore,
		Uma:              [4]int{30, 10, -10, -30},
		Length:           Hanchan,
	}
}

// Validate 校验规则与起始点数
func (r Rules) Validate(startingScore int) error {
	if startingScore < MinScore || startingScore > MaxScore {
		return apperrors.ErrInvalidScore.Withf("starting_score=%d", startingScore)
	}
	if r.TargetScore < MinScore || r.TargetScore > MaxScore {
		return apperrors.ErrInvalidRules.Withf("target_score=%d", r.TargetScore)
	}
	switch r.Length {
	case Hanchan, Tonpuu, "":
	default:
		return apperrors.ErrInvalidRules.Withf("length=%q", r.Length)
	}
	return nil
}

// EndWind 场风推进到该风时对局结束，0..3 对应东南西北
func (r Rules) EndWind() int {
	if r.Length == Tonpuu {
		return 1
	}
	return 2
}
