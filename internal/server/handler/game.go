package handler

import (
	"github.com/palemoky/tarneeb/internal/game/card"
	"github.com/palemoky/tarneeb/internal/protocol"
	"github.com/palemoky/tarneeb/internal/types"
)

// 游戏内操作只做解码和房间查找，规则校验全部在房间内完成；
// 不合规的操作会被房间静默忽略，不再下发错误

// handleStartGame 处理开始游戏
func (h *Handler) handleStartGame(client types.ClientInterface) {
	r, ok := h.roomOf(client)
	if !ok {
		return
	}
	r.HandleStartGame(client.GetID())
}

// handleBid 处理叫牌
func (h *Handler) handleBid(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.BidPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r, ok := h.roomOf(client)
	if !ok {
		return
	}
	r.HandleBid(client.GetID(), payload.Amount)
}

// handleSelectTrump 处理选将牌
func (h *Handler) handleSelectTrump(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.SelectTrumpPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	suit, err := card.SuitFromCode(payload.Suit)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r, ok := h.roomOf(client)
	if !ok {
		return
	}
	r.HandleSelectTrump(client.GetID(), suit)
}

// handlePlayCard 处理出牌
func (h *Handler) handlePlayCard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PlayCardPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	c, err := protocol.InfoToCard(payload.Card)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r, ok := h.roomOf(client)
	if !ok {
		return
	}
	r.HandlePlayCard(client.GetID(), c)
}

// handleRestartGame 处理重新开局
func (h *Handler) handleRestartGame(client types.ClientInterface) {
	r, ok := h.roomOf(client)
	if !ok {
		return
	}
	r.HandleRestart(client.GetID())
}

// handleNextRound 处理下一轮
func (h *Handler) handleNextRound(client types.ClientInterface) {
	r, ok := h.roomOf(client)
	if !ok {
		return
	}
	r.HandleNextRound(client.GetID())
}
