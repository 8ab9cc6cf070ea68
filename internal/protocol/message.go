package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgReconnect MessageType = "reconnect" // 断线重连
	MsgPing      MessageType = "ping"      // 心跳 ping

	// 房间操作
	MsgCreateRoom MessageType = "create_room" // 创建房间
	MsgJoinRoom   MessageType = "join_room"   // 加入房间
	MsgLeaveRoom  MessageType = "leave_room"  // 离开房间
	MsgSwitchSeat MessageType = "switch_seat" // 换座位（仅限等待阶段）

	// 游戏操作
	MsgStartGame   MessageType = "start_game"   // 开始游戏
	MsgBid         MessageType = "bid"          // 叫牌
	MsgSelectTrump MessageType = "select_trump" // 选将牌花色
	MsgPlayCard    MessageType = "play_card"    // 出牌
	MsgRestartGame MessageType = "restart_game" // 重新开局（清零积分）
	MsgNextRound   MessageType = "next_round"   // 下一轮（保留积分）

	// 信息查询
	MsgGetStats       MessageType = "get_stats"       // 获取个人统计
	MsgGetLeaderboard MessageType = "get_leaderboard" // 获取排行榜
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected     MessageType = "connected"      // 连接成功
	MsgReconnected   MessageType = "reconnected"    // 重连成功
	MsgPong          MessageType = "pong"           // 心跳 pong
	MsgPlayerOffline MessageType = "player_offline" // 玩家掉线通知
	MsgPlayerOnline  MessageType = "player_online"  // 玩家上线通知

	// 房间相关
	MsgRoomCreated MessageType = "room_created" // 房间创建成功
	MsgRoomJoined  MessageType = "room_joined"  // 加入房间成功

	// 游戏流程
	MsgGameStarting   MessageType = "game_starting"   // 游戏即将开始
	MsgDealerSelected MessageType = "dealer_selected" // 庄家确定
	MsgTrickCollected MessageType = "trick_collected" // 本墩收牌
	MsgGameState      MessageType = "game_state"      // 游戏状态快照（按玩家视角裁剪）

	// 排行榜
	MsgStatsResult       MessageType = "stats_result"       // 个人统计结果
	MsgLeaderboardResult MessageType = "leaderboard_result" // 排行榜结果

	// 错误
	MsgError MessageType = "error" // 错误消息
)
