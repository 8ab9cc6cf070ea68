//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/tarneeb/internal/server/storage"
)

// MockLeaderboard 排行榜 mock
type MockLeaderboard struct {
	mock.Mock
}

func (m *MockLeaderboard) RecordRoundResult(ctx context.Context, playerID, playerName string, wasBidder, won bool) error {
	args := m.Called(ctx, playerID, playerName, wasBidder, won)
	return args.Error(0)
}

func (m *MockLeaderboard) GetPlayerStats(ctx context.Context, playerID string) (*storage.PlayerStats, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PlayerStats), args.Error(1)
}

func (m *MockLeaderboard) GetPlayerRank(ctx context.Context, playerID string) (int64, error) {
	args := m.Called(ctx, playerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaderboard) GetLeaderboard(ctx context.Context, offset, limit int) ([]*storage.LeaderboardEntry, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboard) TotalPlayers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
