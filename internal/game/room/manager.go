package room

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/palemoky/tarneeb/internal/apperrors"
	"github.com/palemoky/tarneeb/internal/logger"
	"github.com/palemoky/tarneeb/internal/types"
)

// 房间码字符集：大写字母 + 数字，去掉易混淆的 0/O/1/I
const roomCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const roomCodeLength = 6

// cleanupInterval 空闲房间巡检周期
const cleanupInterval = time.Minute

// RoomManager 管理所有活跃房间
type RoomManager struct {
	rooms map[string]*Room
	mu    sync.RWMutex

	sched       Scheduler
	delays      Delays
	rng         *rand.Rand // 只在 mu 之下使用
	recorder    RoundRecorder
	roomTimeout time.Duration
}

// NewRoomManager 创建房间管理器
func NewRoomManager(sched Scheduler, delays Delays, rng *rand.Rand, recorder RoundRecorder, roomTimeout time.Duration) *RoomManager {
	return &RoomManager{
		rooms:       make(map[string]*Room),
		sched:       sched,
		delays:      delays,
		rng:         rng,
		recorder:    recorder,
		roomTimeout: roomTimeout,
	}
}

// CreateRoom 创建新房间并让创建者入座
func (m *RoomManager) CreateRoom(client types.ClientInterface) (*Room, *Player, error) {
	m.mu.Lock()
	code := m.generateCode()
	roomRng := rand.New(rand.NewPCG(m.rng.Uint64(), m.rng.Uint64()))
	newRoom := NewRoom(code, m.sched, m.delays, roomRng, m.recorder)
	m.rooms[code] = newRoom
	m.mu.Unlock()

	player, err := newRoom.AddPlayer(client)
	if err != nil {
		return nil, nil, err
	}

	logger.LogInfo("🏠 房间 %s 已创建，创建者 %s", code, client.GetName())
	return newRoom, player, nil
}

// JoinRoom 按房间码加入
func (m *RoomManager) JoinRoom(code string, client types.ClientInterface) (*Room, *Player, error) {
	m.mu.RLock()
	r, ok := m.rooms[code]
	m.mu.RUnlock()

	if !ok {
		return nil, nil, apperrors.ErrRoomNotFound
	}

	player, err := r.AddPlayer(client)
	if err != nil {
		return nil, nil, err
	}
	return r, player, nil
}

// GetRoom 按房间码查找
func (m *RoomManager) GetRoom(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

// GetRoomByPlayerID 查找玩家所在的房间
func (m *RoomManager) GetRoomByPlayerID(playerID string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rooms {
		if r.HasPlayer(playerID) {
			return r, true
		}
	}
	return nil, false
}

// RemoveRoom 删除房间
func (m *RoomManager) RemoveRoom(code string) {
	m.mu.Lock()
	delete(m.rooms, code)
	m.mu.Unlock()
}

// RoomCount 返回当前活跃房间数
func (m *RoomManager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// LeaveRoom 玩家主动离开：等待阶段直接移除座位，开局后视为掉线
// 房间空了就顺手删掉
func (m *RoomManager) LeaveRoom(playerID string) {
	r, ok := m.GetRoomByPlayerID(playerID)
	if !ok {
		return
	}

	r.HandleLeave(playerID)
	if r.PlayerCount() == 0 {
		m.RemoveRoom(r.Code)
		logger.LogInfo("🧹 房间 %s 已空，移除", r.Code)
	}
}

// StartCleanupLoop 启动空闲房间回收循环，ctx 取消时退出
func (m *RoomManager) StartCleanupLoop(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.cleanupIdleRooms()
			}
		}
	}()
}

// cleanupIdleRooms 回收超时无活动且已无在线玩家的房间
func (m *RoomManager) cleanupIdleRooms() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for code, r := range m.rooms {
		if r.PlayerCount() == 0 ||
			(r.AllOffline() && now.Sub(r.LastActivity()) > m.roomTimeout) {
			delete(m.rooms, code)
			logger.LogInfo("🧹 空闲房间 %s 已回收", code)
		}
	}
}

// generateCode 生成未被占用的房间码，调用方必须持有 m.mu
func (m *RoomManager) generateCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeCharset[m.rng.IntN(len(roomCodeCharset))]
		}
		if _, exists := m.rooms[string(code)]; !exists {
			return string(code)
		}
	}
}
