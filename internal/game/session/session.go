// Package session 实现半庄计分：和牌结算、流局、立直棒、庄家轮换与终局排名。
//
// Session 本身不加锁，调用方须保证同一对局的操作串行执行，Manager 负责这一点。
package session

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/mahjong-scoreboard/internal/apperrors"
	"github.com/palemoky/mahjong-scoreboard/internal/game/rules"
)

// Session 一场半庄
type Session struct {
	ID            string
	Players       [SeatCount]Player
	Rounds        []Round
	RoundNumber   int
	RoundWind     Wind
	DealerIndex   int
	Honba         int
	Pot           int // 供托立直棒数量
	Status        Status
	Rules         rules.Rules
	StartingScore int
	FinalScores   []FinalScoreEntry
	WinnerID      string
	CreatedAt     time.Time
	CompletedAt   time.Time
}

// New 创建对局，玩家按传入顺序就座，依次为东南西北
func New(names []string, startingScore int, r *rules.Rules) (*Session, error) {
	if len(names) != SeatCount {
		return nil, apperrors.ErrInvalidPlayers.Withf("got %d", len(names))
	}

	cfg := rules.Default()
	if r != nil {
		cfg = *r
	}
	if cfg.Length == "" {
		cfg.Length = rules.Hanchan
	}
	if err := cfg.Validate(startingScore); err != nil {
		return nil, err
	}

	s := &Session{
		ID:            uuid.New().String(),
		RoundNumber:   1,
		RoundWind:     East,
		Status:        StatusInProgress,
		Rules:         cfg,
		StartingScore: startingScore,
		CreatedAt:     time.Now(),
	}

	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, apperrors.ErrInvalidPlayers.Withf("seat %d has no name", i)
		}
		s.Players[i] = Player{
			ID:       uuid.New().String(),
			Name:     name,
			Score:    startingScore,
			SeatWind: Wind(i),
		}
	}

	s.startRound()
	return s, nil
}

// IsCompleted 是否已结束
func (s *Session) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// Dealer 当前庄家
func (s *Session) Dealer() *Player {
	return &s.Players[s.DealerIndex]
}

// CurrentRound 当前局（最后一局）
func (s *Session) CurrentRound() *Round {
	if len(s.Rounds) == 0 {
		return nil
	}
	return &s.Rounds[len(s.Rounds)-1]
}

// PlayerIndex 返回玩家座位，不存在返回 -1
func (s *Session) PlayerIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// Player 按 ID 查找玩家
func (s *Session) Player(id string) (*Player, bool) {
	idx := s.PlayerIndex(id)
	if idx < 0 {
		return nil, false
	}
	return &s.Players[idx], true
}

// HasPlayerNamed 是否有同名玩家（不区分大小写）
func (s *Session) HasPlayerNamed(name string) bool {
	for i := range s.Players {
		if strings.EqualFold(s.Players[i].Name, name) {
			return true
		}
	}
	return false
}

// TotalSticks 所有玩家手上的立直棒
func (s *Session) TotalSticks() int {
	total := 0
	for i := range s.Players {
		total += s.Players[i].RiichiSticks
	}
	return total
}

// Clone 深拷贝，供锁外读取
func (s *Session) Clone() *Session {
	c := *s
	c.Rounds = make([]Round, len(s.Rounds))
	for i, r := range s.Rounds {
		c.Rounds[i] = r.clone()
	}
	c.FinalScores = slices.Clone(s.FinalScores)
	return &c
}

func (r Round) clone() Round {
	c := r
	c.Hands = slices.Clone(r.Hands)
	for i := range c.Hands {
		c.Hands[i].Yaku = slices.Clone(c.Hands[i].Yaku)
	}
	if r.Draw != nil {
		d := *r.Draw
		d.ReadyIDs = slices.Clone(r.Draw.ReadyIDs)
		c.Draw = &d
	}
	return c
}

func (s *Session) startRound() {
	s.Rounds = append(s.Rounds, Round{
		Number:      s.RoundNumber,
		Wind:        s.RoundWind,
		DealerIndex: s.DealerIndex,
		Honba:       s.Honba,
	})
}
