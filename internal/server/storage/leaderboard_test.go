package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
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

	lm := NewLeaderboardManager(client)
	return lm, mr
}

func TestLeaderboard_RecordRoundResult_NewPlayer(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	// Record result for new player
	// Bidder, Win
	err := lm.RecordRoundResult(ctx, "p1", "Player1", true, true)
	assert.NoError(t, err)

	stats, err := lm.GetPlayerStats(ctx, "p1")
	assert.NoError(t, err)

	assert.Equal(t, "p1", stats.PlayerID)
	assert.Equal(t, 1, stats.TotalRounds)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.BidRounds)
	assert.Equal(t, 1, stats.BidWins)
	assert.Equal(t, 25, stats.Score) // WinAsBidder = 25
	assert.Equal(t, 1, stats.CurrentStreak)
}

func TestLeaderboard_RecordRoundResult_Update(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	// Initial record (Defender Win) -> Score 15
	err := lm.RecordRoundResult(ctx, "p1", "Player1", false, true)
	assert.NoError(t, err)

	// Second record (Bidder Loss) -> Score 15 - 20 = -5 -> 0 (min 0)
	err = lm.RecordRoundResult(ctx, "p1", "Player1", true, false)
	assert.NoError(t, err)

	stats, err := lm.GetPlayerStats(ctx, "p1")
	assert.NoError(t, err)

	assert.Equal(t, 2, stats.TotalRounds)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 0, stats.Score)
	assert.Equal(t, -1, stats.CurrentStreak)
}

func TestLeaderboard_StreakBonus(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	// Win 3 times as Defender:
	// 1st: 15, streak 1
	// 2nd: 30, streak 2
	// 3rd: 30 + 15 + 5 = 50, streak 3 (StreakBonus3 kicks in)
	for i := 0; i < 3; i++ {
		err := lm.RecordRoundResult(ctx, "p1", "Player1", false, true)
		assert.NoError(t, err)
	}

	stats, _ := lm.GetPlayerStats(ctx, "p1")
	assert.Equal(t, 50, stats.Score)
	assert.Equal(t, 3, stats.CurrentStreak)
}

func TestLeaderboard_GetLeaderboard(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	// p1: Score 25, p2: Score 15
	err := lm.RecordRoundResult(ctx, "p1", "Player1", true, true)
	assert.NoError(t, err)
	err = lm.RecordRoundResult(ctx, "p2", "Player2", false, true)
	assert.NoError(t, err)

	entries, err := lm.GetLeaderboard(ctx, 0, 10)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Equal(t, "p1", entries[0].PlayerID) // Rank 1
	assert.Equal(t, 25, entries[0].Score)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "p2", entries[1].PlayerID) // Rank 2
	assert.Equal(t, 15, entries[1].Score)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboard_GetLeaderboard_Offset(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	err := lm.RecordRoundResult(ctx, "p1", "Player1", true, true) // 25
	assert.NoError(t, err)
	err = lm.RecordRoundResult(ctx, "p2", "Player2", false, true) // 15
	assert.NoError(t, err)

	entries, err := lm.GetLeaderboard(ctx, 1, 10)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "p2", entries[0].PlayerID)
	assert.Equal(t, 2, entries[0].Rank)
}

func TestLeaderboard_GetPlayerRank(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	err := lm.RecordRoundResult(ctx, "p1", "Player1", true, true) // Score 25
	assert.NoError(t, err)
	err = lm.RecordRoundResult(ctx, "p2", "Player2", false, true) // Score 15
	assert.NoError(t, err)

	rank, err := lm.GetPlayerRank(ctx, "p1")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rank)

	rank, err = lm.GetPlayerRank(ctx, "p2")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), rank)

	rank, err = lm.GetPlayerRank(ctx, "p3")
	assert.NoError(t, err)
	assert.Equal(t, int64(-1), rank) // 未上榜
}

func TestLeaderboard_GetPlayerStats_NotFound(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()

	stats, err := lm.GetPlayerStats(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, stats)
}
