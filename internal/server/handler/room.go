package handler

import (
	"errors"

	"github.com/palemoky/tarneeb/internal/apperrors"
	"github.com/palemoky/tarneeb/internal/protocol"
	"github.com/palemoky/tarneeb/internal/types"
)

// handleCreateRoom 处理创建房间
func (h *Handler) handleCreateRoom(client types.ClientInterface) {
	// 如果已在房间中，先离开
	if client.GetRoom() != "" {
		h.roomManager.LeaveRoom(client.GetID())
		client.SetRoom("")
	}

	r, player, err := h.roomManager.CreateRoom(client)
	if err != nil {
		h.sendGameError(client, err)
		return
	}

	client.SetRoom(r.Code)
	h.sessionManager.SetRoom(client.GetID(), r.Code)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: r.Code,
		Player:   r.PlayerInfo(player.ID),
	}))
}

// handleJoinRoom 处理加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// 如果已在房间中，先离开
	if client.GetRoom() != "" {
		h.roomManager.LeaveRoom(client.GetID())
		client.SetRoom("")
	}

	r, player, err := h.roomManager.JoinRoom(payload.RoomCode, client)
	if err != nil {
		h.sendGameError(client, err)
		return
	}

	client.SetRoom(r.Code)
	h.sessionManager.SetRoom(client.GetID(), r.Code)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode: r.Code,
		Player:   r.PlayerInfo(player.ID),
		Players:  r.PlayerInfos(),
	}))
}

// handleLeaveRoom 处理离开房间
func (h *Handler) handleLeaveRoom(client types.ClientInterface) {
	h.roomManager.LeaveRoom(client.GetID())
	client.SetRoom("")
	h.sessionManager.SetRoom(client.GetID(), "")
}

// handleSwitchSeat 处理换座位
func (h *Handler) handleSwitchSeat(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.SwitchSeatPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r, ok := h.roomOf(client)
	if !ok {
		return
	}
	r.HandleSwitchSeat(client.GetID(), payload.TargetSeat)
}

// sendGameError 把业务错误转成协议错误下发
func (h *Handler) sendGameError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(protocol.NewErrorMessage(gameErr.Code))
		return
	}
	client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}
