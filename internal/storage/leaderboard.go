package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	playerStatsKey   = "player:stats:"
	leaderboardKey   = "leaderboard:total"
	recordedKey      = "leaderboard:recorded:"
	recordedDuration = 30 * 24 * time.Hour
)

// PlayerStats 玩家累计统计，以玩家名为键
type PlayerStats struct {
	PlayerName string `json:"player_name"`

	TotalGames int    `json:"total_games"`
	Placements [4]int `json:"placements"`  // 一位到四位的次数
	TotalScore int    `json:"total_score"` // 累计终局得点（含马）

	RonWins     int `json:"ron_wins"`
	TsumoWins   int `json:"tsumo_wins"`
	DealIns     int `json:"deal_ins"`
	RiichiCount int `json:"riichi_count"`
	BestScore   int `json:"best_score"` // 最高终局素点

	LastPlayedAt int64 `json:"last_played_at"`
	CreatedAt    int64 `json:"created_at"`
}

// AveragePlace 平均顺位
func (ps *PlayerStats) AveragePlace() float64 {
	if ps.TotalGames == 0 {
		return 0
	}
	sum := 0
	for i, n := range ps.Placements {
		sum += (i + 1) * n
	}
	return float64(sum) / float64(ps.TotalGames)
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	PlayerName   string  `json:"player_name"`
	TotalScore   int     `json:"total_score"`
	TotalGames   int     `json:"total_games"`
	FirstPlaces  int     `json:"first_places"`
	AveragePlace float64 `json:"average_place"`
}

// LeaderboardManager 排行榜管理器
type LeaderboardManager struct {
	redis *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client}
}

func statsMember(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetPlayerStats 获取玩家统计，不存在时返回 nil, nil
func (lm *LeaderboardManager) GetPlayerStats(ctx context.Context, name string) (*PlayerStats, error) {
	data, err := lm.redis.Get(ctx, playerStatsKey+statsMember(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SavePlayerStats 保存玩家统计
func (lm *LeaderboardManager) SavePlayerStats(ctx context.Context, stats *PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return lm.redis.Set(ctx, playerStatsKey+statsMember(stats.PlayerName), data, 0).Err()
}

// RecordSession 记录一场已结束对局，同一对局只记录一次
func (lm *LeaderboardManager) RecordSession(ctx context.Context, data *SessionData) error {
	if data == nil || len(data.FinalScores) == 0 {
		return nil
	}

	first, err := lm.redis.SetNX(ctx, recordedKey+data.ID, 1, recordedDuration).Result()
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	players := make(map[string]PlayerData, len(data.Players))
	for _, p := range data.Players {
		players[p.ID] = p
	}

	now := time.Now().Unix()
	for _, entry := range data.FinalScores {
		stats, err := lm.GetPlayerStats(ctx, entry.PlayerName)
		if err != nil {
			return err
		}
		if stats == nil {
			stats = &PlayerStats{PlayerName: entry.PlayerName, CreatedAt: now, BestScore: entry.RawScore}
		}

		p := players[entry.PlayerID]
		stats.PlayerName = entry.PlayerName
		stats.TotalGames++
		if entry.Place >= 1 && entry.Place <= len(stats.Placements) {
			stats.Placements[entry.Place-1]++
		}
		stats.TotalScore += entry.FinalScore
		stats.RonWins += p.RonWins
		stats.TsumoWins += p.TsumoWins
		stats.DealIns += p.DealIns
		stats.RiichiCount += p.RiichiCount
		stats.BestScore = max(stats.BestScore, entry.RawScore)
		stats.LastPlayedAt = now

		if err := lm.SavePlayerStats(ctx, stats); err != nil {
			return err
		}
		if err := lm.redis.ZAdd(ctx, leaderboardKey, redis.Z{
			Score:  float64(stats.TotalScore),
			Member: statsMember(stats.PlayerName),
		}).Err(); err != nil {
			return err
		}
	}
	return nil
}

// GetLeaderboard 获取排行榜（从高到低）
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	results, err := lm.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, result := range results {
		member, _ := result.Member.(string)
		stats, err := lm.GetPlayerStats(ctx, member)
		if err != nil || stats == nil {
			continue
		}

		entries = append(entries, LeaderboardEntry{
			Rank:         i + 1,
			PlayerName:   stats.PlayerName,
			TotalScore:   int(result.Score),
			TotalGames:   stats.TotalGames,
			FirstPlaces:  stats.Placements[0],
			AveragePlace: stats.AveragePlace(),
		})
	}
	return entries, nil
}

// GetPlayerRank 获取玩家排名，未上榜返回 -1
func (lm *LeaderboardManager) GetPlayerRank(ctx context.Context, name string) (int64, error) {
	rank, err := lm.redis.ZRevRank(ctx, leaderboardKey, statsMember(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil
}
