// Package storage 提供对局快照与排行榜的 Redis 存储。
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/mahjong-scoreboard/internal/game/rules"
	"github.com/palemoky/mahjong-scoreboard/internal/game/yaku"
)

const (
	// Redis key 前缀
	sessionKeyPrefix = "session:"

	// DefaultSessionExpiration 对局快照默认保留时长
	DefaultSessionExpiration = 7 * 24 * time.Hour
)

// SessionData 对局快照（用于 Redis 序列化）
type SessionData struct {
	ID            string           `json:"id"`
	Players       []PlayerData     `json:"players"`
	Rounds        []RoundData      `json:"rounds"`
	RoundNumber   int              `json:"round_number"`
	RoundWind     int              `json:"round_wind"`
	DealerIndex   int              `json:"dealer_index"`
	Honba         int              `json:"honba"`
	Pot           int              `json:"pot"`
	Status        string           `json:"status"`
	Rules         rules.Rules      `json:"rules"`
	StartingScore int              `json:"starting_score"`
	FinalScores   []FinalScoreData `json:"final_scores,omitempty"`
	WinnerID      string           `json:"winner_id,omitempty"`
	CreatedAt     int64            `json:"created_at"`
	CompletedAt   int64            `json:"completed_at,omitempty"`
}

// PlayerData 玩家数据
type PlayerData struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Score        int    `json:"score"`
	SeatWind     int    `json:"seat_wind"`
	RiichiSticks int    `json:"riichi_sticks"`
	RonWins      int    `json:"ron_wins"`
	TsumoWins    int    `json:"tsumo_wins"`
	DealIns      int    `json:"deal_ins"`
	RiichiCount  int    `json:"riichi_count"`
}

// RoundData 单局数据
type RoundData struct {
	Number      int              `json:"number"`
	Wind        int              `json:"wind"`
	DealerIndex int              `json:"dealer_index"`
	Honba       int              `json:"honba"`
	Hands       []HandResultData `json:"hands,omitempty"`
	Draw        *DrawResultData  `json:"draw,omitempty"`
}

// HandResultData 和牌结果
type HandResultData struct {
	ID           string      `json:"id"`
	WinnerID     string      `json:"winner_id"`
	LoserID      string      `json:"loser_id,omitempty"`
	Han          int         `json:"han"`
	Fu           int         `json:"fu"`
	PointsWon    int         `json:"points_won"`
	HonbaBonus   int         `json:"honba_bonus"`
	Yaku         []yaku.Yaku `json:"yaku"`
	PaoPlayerID  string      `json:"pao_player_id,omitempty"`
	CollectedPot bool        `json:"collected_pot"`
	PotPoints    int         `json:"pot_points,omitempty"`
	RecordedAt   int64       `json:"recorded_at"`
}

// DrawResultData 流局结果
type DrawResultData struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	ReadyIDs   []string `json:"ready_ids"`
	RecordedAt int64    `json:"recorded_at"`
}

// FinalScoreData 终局排名
type FinalScoreData struct {
	PlayerID      string `json:"player_id"`
	PlayerName    string `json:"player_name"`
	RawScore      int    `json:"raw_score"`
	AdjustedScore int    `json:"adjusted_score"`
	FinalScore    int    `json:"final_score"`
	Place         int    `json:"place"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client     *redis.Client
	expiration time.Duration
}

// NewRedisStore 创建 Redis 存储，expiration <= 0 时使用默认值
func NewRedisStore(client *redis.Client, expiration time.Duration) *RedisStore {
	if expiration <= 0 {
		expiration = DefaultSessionExpiration
	}
	return &RedisStore{client: client, expiration: expiration}
}

// SaveSession 保存对局快照
func (rs *RedisStore) SaveSession(ctx context.Context, data *SessionData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化对局数据失败: %w", err)
	}

	return rs.client.Set(ctx, sessionKeyPrefix+data.ID, jsonData, rs.expiration).Err()
}

// LoadSession 加载对局快照，不存在时返回 nil, nil
func (rs *RedisStore) LoadSession(ctx context.Context, id string) (*SessionData, error) {
	data, err := rs.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var sessionData SessionData
	if err := json.Unmarshal(data, &sessionData); err != nil {
		return nil, fmt.Errorf("反序列化对局数据失败: %w", err)
	}
	return &sessionData, nil
}

// DeleteSession 删除对局快照
func (rs *RedisStore) DeleteSession(ctx context.Context, id string) error {
	return rs.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// ListSessionIDs 列出所有对局 ID
func (rs *RedisStore) ListSessionIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := rs.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(sessionKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
