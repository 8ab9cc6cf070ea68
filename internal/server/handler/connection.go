package handler

import (
	"log"
	"time"

	"github.com/palemoky/tarneeb/internal/protocol"
	"github.com/palemoky/tarneeb/internal/types"
)

// handlePing 处理心跳消息
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	// 立即回复 pong
	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleReconnect 处理断线重连
func (h *Handler) handleReconnect(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.ReconnectPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// 验证重连令牌
	if !h.sessionManager.CanReconnect(payload.Token, payload.PlayerID) {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "重连令牌无效或已过期"))
		return
	}

	sess := h.sessionManager.GetSession(payload.PlayerID)
	if sess == nil {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "会话不存在"))
		return
	}

	// 新连接接管旧玩家身份：换掉注册表里的临时 ID
	oldID := client.GetID()
	h.server.UnregisterClient(oldID)
	h.sessionManager.DeleteSession(oldID)
	client.SetIdentity(sess.PlayerID, sess.PlayerName)
	h.server.RegisterClient(sess.PlayerID, client)

	// 标记会话上线
	h.sessionManager.SetOnline(sess.PlayerID)

	reconnected := protocol.ReconnectedPayload{
		PlayerID:   sess.PlayerID,
		PlayerName: sess.PlayerName,
	}

	// 如果此前在房间中，把新连接重新挂回座位（会随之下发状态快照）
	if sess.RoomCode != "" {
		if r, ok := h.roomManager.GetRoom(sess.RoomCode); ok {
			if _, err := r.AddPlayer(client); err == nil {
				client.SetRoom(sess.RoomCode)
				reconnected.RoomCode = sess.RoomCode
			}
		}
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgReconnected, reconnected))

	log.Printf("🔄 玩家 %s (%s) 重连成功", sess.PlayerName, sess.PlayerID)
}
