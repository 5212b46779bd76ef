package session

import (
	"fmt"
	"time"

	"github.com/palemoky/mahjong-scoreboard/internal/game/yaku"
)

// SeatCount 固定四人
const SeatCount = 4

// Wind 风位，东南西北循环
type Wind int

const (
	East Wind = iota
	South
	West
	North
)

// Next 下一个风位
func (w Wind) Next() Wind {
	return (w + 1) % SeatCount
}

// Valid 是否为东南西北之一
func (w Wind) Valid() bool {
	return w >= East && w <= North
}

func (w Wind) String() string {
	switch w {
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	case North:
		return "North"
	default:
		return fmt.Sprintf("Wind(%d)", int(w))
	}
}

// Status 对局状态
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// DrawType 流局类型
type DrawType string

const (
	DrawExhaustive    DrawType = "exhaustive"     // 荒牌流局
	DrawFourKan       DrawType = "four_kan"       // 四杠散了
	DrawFourRiichi    DrawType = "four_riichi"    // 四家立直
	DrawNineTerminals DrawType = "nine_terminals" // 九种九牌
	DrawFourWind      DrawType = "four_wind"      // 四风连打
	DrawTripleRon     DrawType = "triple_ron"     // 三家和了
)

// Valid 是否为已知流局类型
func (d DrawType) Valid() bool {
	switch d {
	case DrawExhaustive, DrawFourKan, DrawFourRiichi, DrawNineTerminals, DrawFourWind, DrawTripleRon:
		return true
	default:
		return false
	}
}

// IsAbortive 是否为途中流局
func (d DrawType) IsAbortive() bool {
	return d.Valid() && d != DrawExhaustive
}

// Player 对局中的玩家，座位顺序在创建时固定
type Player struct {
	ID           string
	Name         string
	Score        int
	SeatWind     Wind
	RiichiSticks int
	RonWins      int
	TsumoWins    int
	DealIns      int
	RiichiCount  int
}

// WinEntry 一名和牌者的申报
type WinEntry struct {
	PlayerID    string
	Han         int
	Fu          int
	Yaku        []yaku.Yaku
	PaoPlayerID string // 包牌者，可为空
}

// HandResult 一次和牌的结算结果
type HandResult struct {
	ID           string
	WinnerID     string
	LoserID      string // 为空表示自摸
	Han          int    // 累计役满上限处理后的番数
	Fu           int
	PointsWon    int // 和牌点数，不含本场与供托
	HonbaBonus   int
	Yaku         []yaku.Yaku
	PaoPlayerID  string
	CollectedPot bool
	PotPoints    int
	RecordedAt   time.Time
}

// IsTsumo 是否自摸
func (h HandResult) IsTsumo() bool {
	return h.LoserID == ""
}

// DrawResult 流局结果
type DrawResult struct {
	ID         string
	Type       DrawType
	ReadyIDs   []string // 听牌者
	RecordedAt time.Time
}

// Round 一局
type Round struct {
	Number      int
	Wind        Wind
	DealerIndex int
	Honba       int // 开局时的本场数
	Hands       []HandResult
	Draw        *DrawResult
}

// Kyoku 局数，1..4
func (r Round) Kyoku() int {
	return r.DealerIndex + 1
}

// Name 例如 "East 1"
func (r Round) Name() string {
	return fmt.Sprintf("%s %d", r.Wind, r.Kyoku())
}

// Concluded 是否已有结果
func (r Round) Concluded() bool {
	return len(r.Hands) > 0 || r.Draw != nil
}

// FinalScoreEntry 终局排名
type FinalScoreEntry struct {
	PlayerID      string
	PlayerName    string
	RawScore      int
	AdjustedScore int // 减去返点，一位另加 oka
	FinalScore    int // 千点取整并加马
	Place         int
}
