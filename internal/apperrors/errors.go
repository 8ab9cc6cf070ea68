package apperrors

import (
	"github.com/palemoky/tarneeb/internal/protocol"
)

// GameError 游戏错误（房间和会话共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrRoomNotFound = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull     = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrNotInRoom    = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrGameStarted  = &GameError{Code: protocol.ErrCodeGameStarted, Message: "游戏已开始"}
)
