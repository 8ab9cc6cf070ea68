package handler

import (
	"context"
	"time"

	"github.com/palemoky/tarneeb/internal/logger"
	"github.com/palemoky/tarneeb/internal/protocol"
	"github.com/palemoky/tarneeb/internal/types"
)

const (
	statsQueryTimeout  = 3 * time.Second
	leaderboardMaxSize = 50 // 单次最多返回的条目数
)

// handleGetStats 查询个人统计
func (h *Handler) handleGetStats(client types.ClientInterface) {
	ctx, cancel := context.WithTimeout(context.Background(), statsQueryTimeout)
	defer cancel()

	playerID := client.GetID()
	stats, err := h.leaderboard.GetPlayerStats(ctx, playerID)
	if err != nil {
		logger.LogError("查询玩家统计失败: %v", err)
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "查询统计失败"))
		return
	}

	// 没打过牌的玩家返回空统计
	payload := protocol.PlayerStatsPayload{
		PlayerID:   playerID,
		PlayerName: client.GetName(),
	}
	if stats != nil {
		payload.PlayerName = stats.PlayerName
		payload.TotalRounds = stats.TotalRounds
		payload.Wins = stats.Wins
		payload.Losses = stats.Losses
		payload.BidRounds = stats.BidRounds
		payload.BidWins = stats.BidWins
		payload.Score = stats.Score
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgStatsResult, payload))
}

// handleGetLeaderboard 查询排行榜
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	offset, limit := 0, 10
	if payload, err := protocol.ParsePayload[protocol.GetLeaderboardPayload](msg); err == nil {
		if payload.Offset > 0 {
			offset = payload.Offset
		}
		if payload.Limit > 0 {
			limit = payload.Limit
		}
	}
	if limit > leaderboardMaxSize {
		limit = leaderboardMaxSize
	}

	ctx, cancel := context.WithTimeout(context.Background(), statsQueryTimeout)
	defer cancel()

	entries, err := h.leaderboard.GetLeaderboard(ctx, offset, limit)
	if err != nil {
		logger.LogError("查询排行榜失败: %v", err)
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "查询排行榜失败"))
		return
	}

	total, err := h.leaderboard.TotalPlayers(ctx)
	if err != nil {
		logger.LogError("查询排行榜人数失败: %v", err)
		total = int64(len(entries))
	}

	payload := protocol.LeaderboardPayload{
		Entries: make([]protocol.LeaderboardEntryPayload, 0, len(entries)),
		Total:   int(total),
	}
	for _, e := range entries {
		payload.Entries = append(payload.Entries, protocol.LeaderboardEntryPayload{
			Rank:       e.Rank,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Score:      e.Score,
			Wins:       e.Wins,
			WinRate:    e.WinRate,
		})
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgLeaderboardResult, payload))
}
