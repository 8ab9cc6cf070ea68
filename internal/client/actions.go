package client

import (
	"time"

	"github.com/palemoky/tarneeb/internal/game/card"
	"github.com/palemoky/tarneeb/internal/protocol"
)

// --- 便捷方法 ---

// CreateRoom 创建房间
func (c *Client) CreateRoom() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgCreateRoom, nil))
}

// JoinRoom 加入房间
func (c *Client) JoinRoom(roomCode string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: roomCode,
	}))
}

// LeaveRoom 离开房间
func (c *Client) LeaveRoom() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgLeaveRoom, nil))
}

// SwitchSeat 换座位（仅限等待阶段）
func (c *Client) SwitchSeat(targetSeat int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgSwitchSeat, protocol.SwitchSeatPayload{
		TargetSeat: targetSeat,
	}))
}

// StartGame 开始游戏
func (c *Client) StartGame() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgStartGame, nil))
}

// Bid 叫牌，amount 为 0 表示过牌
func (c *Client) Bid(amount int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgBid, protocol.BidPayload{
		Amount: amount,
	}))
}

// Pass 过牌
func (c *Client) Pass() error {
	return c.Bid(0)
}

// SelectTrump 选将牌花色
func (c *Client) SelectTrump(suit card.Suit) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgSelectTrump, protocol.SelectTrumpPayload{
		Suit: suit.Code(),
	}))
}

// PlayCard 出牌
func (c *Client) PlayCard(cardToPlay card.Card) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPlayCard, protocol.PlayCardPayload{
		Card: protocol.CardToInfo(cardToPlay),
	}))
}

// NextRound 下一轮（保留积分）
func (c *Client) NextRound() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgNextRound, nil))
}

// RestartGame 重新开局（清零积分）
func (c *Client) RestartGame() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgRestartGame, nil))
}

// GetStats 获取个人统计
func (c *Client) GetStats() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGetStats, nil))
}

// GetLeaderboard 获取排行榜
func (c *Client) GetLeaderboard(offset, limit int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{
		Offset: offset,
		Limit:  limit,
	}))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}
