package protocol

// CardInfo 牌的线路表示（花色单字母编码 + 牌面值字符串）
type CardInfo struct {
	Suit string `json:"suit"` // "S"/"H"/"D"/"C"
	Rank string `json:"rank"` // "2".."10","J","Q","K","A"
}

// AvatarInfo 装饰性头像（不参与任何游戏逻辑）
type AvatarInfo struct {
	Base      string `json:"base"`      // 动物底图
	Accessory string `json:"accessory"` // 配饰
	Type      string `json:"type"`      // 配饰位置：eyes/head/ears/neck
}

// PlayerInfo 玩家公开信息
// Hand 仅在快照属于玩家本人时填充，其他玩家只能看到 HandCount
type PlayerInfo struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Team      int        `json:"team"` // 1 或 2（由座位奇偶决定）
	Seat      int        `json:"seat"` // 0-3
	Connected bool       `json:"connected"`
	Avatar    AvatarInfo `json:"avatar"`
	Hand      []CardInfo `json:"hand,omitempty"`
	HandCount int        `json:"hand_count"`
}

// BidInfo 当前最高叫牌
type BidInfo struct {
	Amount int `json:"amount"` // 7-13，6 表示起叫底线（尚无人叫牌）
	Seat   int `json:"seat"`   // -1 表示尚无人叫牌
}

// TrickPlay 一墩中的单次出牌
type TrickPlay struct {
	Seat int      `json:"seat"`
	Card CardInfo `json:"card"`
}

// RoundOutcome 一轮结束时的结算信息
type RoundOutcome struct {
	WinningTeam int  `json:"winning_team"`
	BiddingTeam int  `json:"bidding_team"`
	BidAmount   int  `json:"bid_amount"`
	TricksWon   int  `json:"tricks_won"`
	Success     bool `json:"success"`
	RunnerScore int  `json:"runner_score"`
	RunnerTeam  int  `json:"runner_team"`
}

// --- 客户端请求 Payloads ---

// ReconnectPayload 断线重连请求
type ReconnectPayload struct {
	Token    string `json:"token"`     // 重连令牌
	PlayerID string `json:"player_id"` // 玩家 ID
}

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
}

// SwitchSeatPayload 换座位请求
type SwitchSeatPayload struct {
	TargetSeat int `json:"target_seat"` // 0-3
}

// BidPayload 叫牌请求
type BidPayload struct {
	Amount int `json:"amount"` // 0 表示过牌，否则必须大于当前最高叫牌
}

// SelectTrumpPayload 选将牌请求
type SelectTrumpPayload struct {
	Suit string `json:"suit"` // "S"/"H"/"D"/"C"
}

// PlayCardPayload 出牌请求
type PlayCardPayload struct {
	Card CardInfo `json:"card"`
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Offset int `json:"offset"` // 偏移量
	Limit  int `json:"limit"`  // 数量
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ReconnectToken string `json:"reconnect_token"` // 重连令牌
}

// ReconnectedPayload 重连成功响应
type ReconnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	RoomCode   string `json:"room_code,omitempty"` // 如果在房间中
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// PlayerOfflinePayload 玩家掉线通知
type PlayerOfflinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Seat       int    `json:"seat"`
}

// PlayerOnlinePayload 玩家上线通知
type PlayerOnlinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Seat       int    `json:"seat"`
}

// RoomCreatedPayload 房间创建成功响应
type RoomCreatedPayload struct {
	RoomCode string     `json:"room_code"`
	Player   PlayerInfo `json:"player"`
}

// RoomJoinedPayload 加入房间成功响应
type RoomJoinedPayload struct {
	RoomCode string       `json:"room_code"`
	Player   PlayerInfo   `json:"player"`
	Players  []PlayerInfo `json:"players"` // 房间内所有玩家
}

// DealerSelectedPayload 庄家确定通知
type DealerSelectedPayload struct {
	DealerIndex int `json:"dealer_index"` // 庄家座位号
}

// TrickCollectedPayload 收墩通知
type TrickCollectedPayload struct {
	WinnerIndex int `json:"winner_index"` // 赢下本墩的座位号
}

// GameStatePayload 游戏状态快照（按请求玩家视角裁剪）
type GameStatePayload struct {
	RoomCode           string        `json:"room_code"`
	Phase              string        `json:"phase"`
	Players            []PlayerInfo  `json:"players"`
	DealerIndex        int           `json:"dealer_index"`         // -1 表示尚未选庄
	CurrentTurnIndex   int           `json:"current_turn_index"`   // -1 表示无人行动（如定墩期间）
	CurrentBidderIndex int           `json:"current_bidder_index"` // -1 表示不在叫牌阶段
	HighestBid         BidInfo       `json:"highest_bid"`
	TrumpSuit          string        `json:"trump_suit,omitempty"` // 叫牌结束前不下发
	Trick              []TrickPlay   `json:"trick"`
	TricksWon          map[int]int   `json:"tricks_won"` // 队伍 → 本轮已赢墩数
	MySeat             int           `json:"my_seat"`
	LeadSuit           string        `json:"lead_suit,omitempty"`
	Outcome            *RoundOutcome `json:"outcome,omitempty"` // 仅在 GAME_OVER 阶段
	RunnerScore        int           `json:"runner_score"`
	RunnerTeam         int           `json:"runner_team"` // -1 表示尚未确定
}

// PlayerStatsPayload 个人统计结果
type PlayerStatsPayload struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	TotalRounds int    `json:"total_rounds"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	BidRounds   int    `json:"bid_rounds"` // 作为叫牌方的轮数
	BidWins     int    `json:"bid_wins"`   // 叫牌成功次数
	Score       int    `json:"score"`
}

// LeaderboardEntryPayload 排行榜条目
type LeaderboardEntryPayload struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
}

// LeaderboardPayload 排行榜结果
type LeaderboardPayload struct {
	Entries []LeaderboardEntryPayload `json:"entries"`
	Total   int                       `json:"total"`
}

// ErrorPayload 错误消息
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
