package handler

import (
	"log"

	"github.com/palemoky/tarneeb/internal/game/room"
	"github.com/palemoky/tarneeb/internal/protocol"
	"github.com/palemoky/tarneeb/internal/server/session"
	"github.com/palemoky/tarneeb/internal/server/storage"
	"github.com/palemoky/tarneeb/internal/types"
)

// Deps 处理器依赖
type Deps struct {
	Server         types.ServerInterface
	RoomManager    *room.RoomManager
	Leaderboard    *storage.LeaderboardManager
	SessionManager *session.SessionManager
}

// Handler 消息处理器
type Handler struct {
	server         types.ServerInterface
	roomManager    *room.RoomManager
	leaderboard    *storage.LeaderboardManager
	sessionManager *session.SessionManager
	handlers       map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		server:         deps.Server,
		roomManager:    deps.RoomManager,
		leaderboard:    deps.Leaderboard,
		sessionManager: deps.SessionManager,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing:      h.handlePing,
		protocol.MsgReconnect: h.handleReconnect,

		// 房间操作
		protocol.MsgCreateRoom: func(c types.ClientInterface, _ *protocol.Message) { h.handleCreateRoom(c) },
		protocol.MsgJoinRoom:   h.handleJoinRoom,
		protocol.MsgLeaveRoom:  func(c types.ClientInterface, _ *protocol.Message) { h.handleLeaveRoom(c) },
		protocol.MsgSwitchSeat: h.handleSwitchSeat,

		// 游戏操作
		protocol.MsgStartGame:   func(c types.ClientInterface, _ *protocol.Message) { h.handleStartGame(c) },
		protocol.MsgBid:         h.handleBid,
		protocol.MsgSelectTrump: h.handleSelectTrump,
		protocol.MsgPlayCard:    h.handlePlayCard,
		protocol.MsgRestartGame: func(c types.ClientInterface, _ *protocol.Message) { h.handleRestartGame(c) },
		protocol.MsgNextRound:   func(c types.ClientInterface, _ *protocol.Message) { h.handleNextRound(c) },

		// 信息查询
		protocol.MsgGetStats:       func(c types.ClientInterface, _ *protocol.Message) { h.handleGetStats(c) },
		protocol.MsgGetLeaderboard: h.handleGetLeaderboard,
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if fn, ok := h.handlers[msg.Type]; ok {
		fn(client, msg)
		return
	}

	log.Printf("⚠️  未知消息类型: '%s' (来自玩家: %s, ID: %s)", msg.Type, client.GetName(), client.GetID())
	client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// roomOf 查找客户端所在房间，找不到时回错误消息
func (h *Handler) roomOf(client types.ClientInterface) (*room.Room, bool) {
	r, ok := h.roomManager.GetRoom(client.GetRoom())
	if !ok {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return nil, false
	}
	return r, true
}
