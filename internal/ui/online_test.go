package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/tarneeb/internal/protocol"
)

func TestNewOnlineModel_Defaults(t *testing.T) {
	t.Parallel()
	m := NewOnlineModel("ws://localhost:8080/ws")

	assert.Equal(t, PhaseConnecting, m.phase)
	assert.NotNil(t, m.state)
	assert.NotNil(t, m.client)
	assert.Equal(t, -1, m.state.MySeat)
}

func TestSyncPhase_MapsServerPhases(t *testing.T) {
	t.Parallel()
	tests := []struct {
		server   string
		expected GamePhase
	}{
		{"WAITING", PhaseWaiting},
		{"DEALER_SELECT", PhaseDealing},
		{"DEALING_1", PhaseDealing},
		{"BIDDING", PhaseBidding},
		{"TRUMP_SELECT", PhaseTrumpSelect},
		{"DEALING_2", PhaseDealing},
		{"PLAYING", PhasePlaying},
		{"GAME_OVER", PhaseGameOver},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			t.Parallel()
			m := NewOnlineModel("ws://localhost:8080/ws")
			m.state.Phase = tt.server
			m.syncPhase()
			assert.Equal(t, tt.expected, m.phase)
		})
	}
}

func TestSyncPhase_SetsDefaultBidOnEnteringBidding(t *testing.T) {
	t.Parallel()
	m := NewOnlineModel("ws://localhost:8080/ws")

	m.state.Phase = "BIDDING"
	m.state.HighestBid = protocol.BidInfo{Amount: 6, Seat: -1}
	m.syncPhase()
	assert.Equal(t, 7, m.bidAmount, "floor bid is 6, so first valid bid is 7")

	// A higher standing bid raises the default
	m.state.HighestBid = protocol.BidInfo{Amount: 9, Seat: 2}
	m.syncPhase()
	assert.Equal(t, 10, m.bidAmount)
}

func TestMinBid(t *testing.T) {
	t.Parallel()
	m := NewOnlineModel("ws://localhost:8080/ws")

	m.state.HighestBid = protocol.BidInfo{Amount: 6, Seat: -1}
	assert.Equal(t, 7, m.minBid())

	m.state.HighestBid = protocol.BidInfo{Amount: 12, Seat: 0}
	assert.Equal(t, 13, m.minBid())
}

func TestSyncPhase_ClampsCursorToHand(t *testing.T) {
	t.Parallel()
	m := NewOnlineModel("ws://localhost:8080/ws")
	m.cursor = 10
	m.state.Phase = "PLAYING"
	m.syncPhase()
	assert.Equal(t, 0, m.cursor)
}

func TestView_LobbyShowsMenu(t *testing.T) {
	t.Parallel()
	m := NewOnlineModel("ws://localhost:8080/ws")
	m.phase = PhaseLobby
	m.playerName = "快乐的🐱"

	view := m.View()
	assert.Contains(t, view, "创建房间")
	assert.Contains(t, view, "排行榜")
	assert.Contains(t, view, "快乐的🐱")
}

func TestView_LeaderboardRendersEntries(t *testing.T) {
	t.Parallel()
	m := NewOnlineModel("ws://localhost:8080/ws")
	m.phase = PhaseLeaderboard
	m.leaderboard = []protocol.LeaderboardEntryPayload{
		{Rank: 1, PlayerName: "Alice", Score: 80, Wins: 3, WinRate: 100},
		{Rank: 2, PlayerName: "Bob", Score: 50, Wins: 2, WinRate: 66.7},
	}
	m.leaderboardTotal = 2

	view := m.View()
	assert.Contains(t, view, "🥇")
	assert.Contains(t, view, "Alice")
	assert.Contains(t, view, "🥈")
	assert.Contains(t, view, "共 2 名玩家上榜")
}
