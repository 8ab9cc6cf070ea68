package protocol

// 错误码
const (
	ErrCodeUnknown      = 1000
	ErrCodeInvalidMsg   = 1001
	ErrCodeRateLimit    = 1002 // 速率限制
	ErrCodeRoomNotFound = 2001
	ErrCodeRoomFull     = 2002
	ErrCodeNotInRoom    = 2003
	ErrCodeGameStarted  = 2004 // 游戏已开始，无法加入
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:      "未知错误",
	ErrCodeInvalidMsg:   "无效的消息格式",
	ErrCodeRateLimit:    "请求过于频繁",
	ErrCodeRoomNotFound: "房间不存在",
	ErrCodeRoomFull:     "房间已满",
	ErrCodeNotInRoom:    "您不在房间中",
	ErrCodeGameStarted:  "游戏已开始",
}
