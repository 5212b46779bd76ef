package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLeaderboardManager(t *testing.T) (*LeaderboardManager, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return NewLeaderboardManager(client), mr
}

func completedSessionData(id string) *SessionData {
	data := sampleSessionData(id)
	data.Status = "completed"
	data.FinalScores = []FinalScoreData{
		{PlayerID: "p1", PlayerName: "Alice", RawScore: 33000, AdjustedScore: 23000, FinalScore: 53, Place: 1},
		{PlayerID: "p3", PlayerName: "Carol", RawScore: 25000, AdjustedScore: -5000, FinalScore: 5, Place: 2},
		{PlayerID: "p4", PlayerName: "Dave", RawScore: 25000, AdjustedScore: -5000, FinalScore: -15, Place: 3},
		{PlayerID: "p2", PlayerName: "Bob", RawScore: 17000, AdjustedScore: -13000, FinalScore: -43, Place: 4},
	}
	return data
}

func TestLeaderboard_RecordSession_NewPlayers(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, lm.RecordSession(ctx, completedSessionData("g1")))

	stats, err := lm.GetPlayerStats(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, "Alice", stats.PlayerName)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, [4]int{1, 0, 0, 0}, stats.Placements)
	assert.Equal(t, 53, stats.TotalScore)
	assert.Equal(t, 1, stats.RonWins)
	assert.Equal(t, 33000, stats.BestScore)
	assert.InDelta(t, 1.0, stats.AveragePlace(), 0.001)

	bob, err := lm.GetPlayerStats(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, 1, bob.DealIns)
	assert.Equal(t, [4]int{0, 0, 0, 1}, bob.Placements)
}

func TestLeaderboard_RecordSession_OncePerSession(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	data := completedSessionData("g1")
	require.NoError(t, lm.RecordSession(ctx, data))
	require.NoError(t, lm.RecordSession(ctx, data))

	stats, err := lm.GetPlayerStats(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalGames)

	require.NoError(t, lm.RecordSession(ctx, completedSessionData("g2")))
	stats, err = lm.GetPlayerStats(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalGames)
	assert.Equal(t, 106, stats.TotalScore)
}

func TestLeaderboard_RecordSession_SkipsUnfinished(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, lm.RecordSession(ctx, nil))
	require.NoError(t, lm.RecordSession(ctx, sampleSessionData("open")))
	assert.Empty(t, mr.Keys())
}

func TestLeaderboard_GetLeaderboardAndRank(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, lm.RecordSession(ctx, completedSessionData("g1")))

	entries, err := lm.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "Alice", entries[0].PlayerName)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 53, entries[0].TotalScore)
	assert.Equal(t, 1, entries[0].FirstPlaces)
	assert.Equal(t, "Bob", entries[3].PlayerName)

	top, err := lm.GetLeaderboard(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	rank, err := lm.GetPlayerRank(ctx, "BOB")
	require.NoError(t, err)
	assert.Equal(t, int64(4), rank)

	rank, err = lm.GetPlayerRank(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), rank)
}

func TestPlayerStats_AveragePlace(t *testing.T) {
	t.Parallel()

	assert.Zero(t, (&PlayerStats{}).AveragePlace())
	stats := &PlayerStats{TotalGames: 4, Placements: [4]int{1, 1, 1, 1}}
	assert.InDelta(t, 2.5, stats.AveragePlace(), 0.001)
}
