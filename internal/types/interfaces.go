package types

import (
	"github.com/palemoky/tarneeb/internal/protocol"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	GetOnlineCount() int
	GetClientByID(id string) ClientInterface
	RegisterClient(id string, client ClientInterface)
	UnregisterClient(id string)
}

// ClientInterface 定义客户端接口
type ClientInterface interface {
	GetID() string
	GetName() string
	GetRoom() string
	SetRoom(code string)
	// SetIdentity 重连时让新连接接管旧玩家的身份
	SetIdentity(id, name string)
	SendMessage(msg *protocol.Message)
	Close()
}
