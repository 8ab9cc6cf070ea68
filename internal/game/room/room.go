package room

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/palemoky/tarneeb/internal/apperrors"
	"github.com/palemoky/tarneeb/internal/game/card"
	"github.com/palemoky/tarneeb/internal/protocol"
	"github.com/palemoky/tarneeb/internal/types"
)

const (
	// MaxPlayers 每桌固定 4 人，两两对家
	MaxPlayers = 4

	// 叫牌底线：最低有效叫牌为 bidFloor+1
	bidFloor = 6
	// 庄家被迫叫牌时的自动叫牌数
	forcedDealerBid = 7
	// 一轮共 13 墩
	totalTricks = 13

	// 两次发牌的张数
	firstDealCount  = 5
	secondDealCount = 8
)

// TeamForSeat 座位到队伍的固定映射：偶数座位 1 队，奇数座位 2 队
func TeamForSeat(seat int) int {
	if seat%2 == 0 {
		return 1
	}
	return 2
}

// opposingTeam 返回对方队伍
func opposingTeam(team int) int {
	if team == 1 {
		return 2
	}
	return 1
}

// Player 房间中的玩家
type Player struct {
	ID        string                // 稳定的玩家 ID（重连后不变）
	Name      string                // 显示昵称
	Client    types.ClientInterface // 当前连接，掉线后为旧句柄
	Team      int                   // 1 或 2，由座位奇偶决定
	Seat      int                   // 0-3
	Hand      []card.Card           // 手牌，只由发牌/出牌修改
	Connected bool                  // 是否在线
	Avatar    protocol.AvatarInfo   // 装饰性头像
}

// Bid 一次叫牌（数量 + 座位）
type Bid struct {
	Amount int
	Seat   int
}

// TrickPlay 一墩中的一次出牌
type TrickPlay struct {
	Seat int
	Card card.Card
}

// RoundRecorder 记录每轮结算结果（排行榜等），允许为 nil
type RoundRecorder interface {
	RecordRoundResult(ctx context.Context, playerID, playerName string, wasBidder, won bool) error
}

// Room 游戏房间，一桌一局的聚合根
// 所有修改都在 mu 之下串行执行，定时器回调同样经过 mu 进入
type Room struct {
	Code      string
	CreatedAt time.Time

	phase   Phase
	players []*Player // 始终按座位升序
	deck    card.Deck // 未发出的牌

	dealerIndex        int            // 庄家座位，-1 表示尚未选庄
	currentTurnIndex   int            // 当前出牌座位，-1 表示无人行动
	currentBidderIndex int            // 当前叫牌座位，-1 表示不在叫牌阶段
	bids               map[string]int // 玩家 ID → 叫牌数（0 为过牌）
	highestBid         Bid
	trumpSuit          card.Suit
	trick              []TrickPlay
	leadSuit           card.Suit
	tricksWon          map[int]int // 队伍 → 本轮已赢墩数

	// 跨轮持续的计分状态
	runnerScore int
	runnerTeam  int // -1 表示尚未确定
	dealerTeam  int
	outcome     *protocol.RoundOutcome

	sched        Scheduler
	delays       Delays
	rng          *rand.Rand
	recorder     RoundRecorder
	lastActivity time.Time

	mu sync.Mutex
}

// NewRoom 创建一个新房间
func NewRoom(code string, sched Scheduler, delays Delays, rng *rand.Rand, recorder RoundRecorder) *Room {
	return &Room{
		Code:               code,
		CreatedAt:          time.Now(),
		phase:              PhaseWaiting,
		players:            make([]*Player, 0, MaxPlayers),
		bids:               make(map[string]int),
		dealerIndex:        -1,
		currentTurnIndex:   -1,
		currentBidderIndex: -1,
		highestBid:         Bid{Amount: bidFloor, Seat: -1},
		trumpSuit:          card.NoSuit,
		leadSuit:           card.NoSuit,
		tricksWon:          map[int]int{1: 0, 2: 0},
		runnerTeam:         -1,
		dealerTeam:         -1,
		sched:              sched,
		delays:             delays,
		rng:                rng,
		recorder:           recorder,
		lastActivity:       time.Now(),
	}
}

// AddPlayer 加入或重连一个玩家
// 同一玩家 ID 再次加入视为重连：重新绑定连接句柄，游戏状态不变
func (r *Room) AddPlayer(client types.ClientInterface) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastActivity = time.Now()

	if existing := r.playerByID(client.GetID()); existing != nil {
		existing.Client = client
		existing.Connected = true
		r.broadcastEvent(protocol.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
			PlayerID:   existing.ID,
			PlayerName: existing.Name,
			Seat:       existing.Seat,
		}))
		r.broadcastState()
		return existing, nil
	}

	if len(r.players) >= MaxPlayers {
		return nil, apperrors.ErrRoomFull
	}
	if r.phase != PhaseWaiting {
		return nil, apperrors.ErrGameStarted
	}

	seat := r.lowestFreeSeat()
	player := &Player{
		ID:        client.GetID(),
		Name:      client.GetName(),
		Client:    client,
		Team:      TeamForSeat(seat),
		Seat:      seat,
		Connected: true,
		Avatar:    randomAvatar(r.rng),
	}

	r.players = append(r.players, player)
	r.sortPlayers()
	r.broadcastState()
	return player, nil
}

// HandleDisconnect 玩家掉线：只标记离线并通知房间，不改动任何游戏状态
func (r *Room) HandleDisconnect(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player := r.playerByID(playerID)
	if player == nil {
		return
	}

	player.Connected = false
	r.broadcastEvent(protocol.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Seat:       player.Seat,
	}))
	r.broadcastState()
}

// HandleSwitchSeat 等待阶段换座位；目标座位有人则互换
func (r *Room) HandleSwitchSeat(playerID string, targetSeat int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseWaiting {
		return
	}
	if targetSeat < 0 || targetSeat >= MaxPlayers {
		return
	}

	player := r.playerByID(playerID)
	if player == nil || player.Seat == targetSeat {
		return
	}

	r.lastActivity = time.Now()

	if target := r.playerBySeat(targetSeat); target != nil {
		player.Seat, target.Seat = target.Seat, player.Seat
		target.Team = TeamForSeat(target.Seat)
	} else {
		player.Seat = targetSeat
	}
	player.Team = TeamForSeat(player.Seat)

	r.sortPlayers()
	r.broadcastState()
}

// HandleLeave 玩家主动离开
// 等待阶段直接腾出座位；开局后不能退出，只能按掉线处理
func (r *Room) HandleLeave(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player := r.playerByID(playerID)
	if player == nil {
		return
	}

	r.lastActivity = time.Now()

	if r.phase != PhaseWaiting {
		player.Connected = false
		r.broadcastEvent(protocol.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Seat:       player.Seat,
		}))
		r.broadcastState()
		return
	}

	for i, p := range r.players {
		if p.ID == playerID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	r.broadcastState()
}

// --- 只读访问（给传输层和测试用） ---

// Phase 返回当前阶段
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// PlayerCount 返回房间人数
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// HasPlayer 判断玩家是否在房间中
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerByID(playerID) != nil
}

// AllOffline 判断房间内是否已无在线玩家
func (r *Room) AllOffline() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.Connected {
			return false
		}
	}
	return true
}

// LastActivity 返回最近一次有效操作的时间
func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}

// PlayerInfos 返回房间内所有玩家的公开信息（按座位排序）
func (r *Room) PlayerInfos() []protocol.PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := make([]protocol.PlayerInfo, len(r.players))
	for i, p := range r.players {
		infos[i] = r.publicInfo(p)
	}
	return infos
}

// --- 内部辅助（调用方必须持有 r.mu） ---

func (r *Room) playerByID(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) playerBySeat(seat int) *Player {
	for _, p := range r.players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

func (r *Room) lowestFreeSeat() int {
	taken := make(map[int]bool, len(r.players))
	for _, p := range r.players {
		taken[p.Seat] = true
	}
	seat := 0
	for taken[seat] {
		seat++
	}
	return seat
}

func (r *Room) sortPlayers() {
	sort.Slice(r.players, func(i, j int) bool {
		return r.players[i].Seat < r.players[j].Seat
	})
}

// schedule 注册一个延时任务；回调必须自行加锁并校验阶段
func (r *Room) schedule(d time.Duration, fn func()) {
	r.sched.After(d, fn)
}

// broadcastEvent 把同一条消息发给所有在线玩家
func (r *Room) broadcastEvent(msg *protocol.Message) {
	for _, p := range r.players {
		if p.Connected {
			p.Client.SendMessage(msg)
		}
	}
}
