package room

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/tarneeb/internal/apperrors"
	"github.com/palemoky/tarneeb/internal/testutil"
)

func newTestManager() *RoomManager {
	return NewRoomManager(NewManualScheduler(), DefaultDelays(), newTestRng(), nil, 10*time.Minute)
}

func TestManager_CreateRoom(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	creator := &testutil.SimpleClient{ID: "p0", Name: "玩家0"}

	r, player, err := m.CreateRoom(creator)
	require.NoError(t, err)
	assert.Len(t, r.Code, roomCodeLength)
	assert.Equal(t, 0, player.Seat)
	assert.Equal(t, 1, m.RoomCount())

	// 房间码只包含无歧义字符
	for _, ch := range r.Code {
		assert.True(t, strings.ContainsRune(roomCodeCharset, ch), "unexpected char %q", ch)
	}
}

func TestManager_JoinRoom(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	r, _, err := m.CreateRoom(&testutil.SimpleClient{ID: "p0", Name: "玩家0"})
	require.NoError(t, err)

	joined, player, err := m.JoinRoom(r.Code, &testutil.SimpleClient{ID: "p1", Name: "玩家1"})
	require.NoError(t, err)
	assert.Equal(t, r.Code, joined.Code)
	assert.Equal(t, 1, player.Seat)
}

func TestManager_JoinRoom_NotFound(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	_, _, err := m.JoinRoom("NOPE42", &testutil.SimpleClient{ID: "p1"})
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

func TestManager_JoinRoom_Full(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	r, _, err := m.CreateRoom(&testutil.SimpleClient{ID: "p0"})
	require.NoError(t, err)
	for i := 1; i < MaxPlayers; i++ {
		_, _, err := m.JoinRoom(r.Code, &testutil.SimpleClient{ID: string(rune('a' + i))})
		require.NoError(t, err)
	}

	_, _, err = m.JoinRoom(r.Code, &testutil.SimpleClient{ID: "extra"})
	assert.ErrorIs(t, err, apperrors.ErrRoomFull)
}

func TestManager_GetRoomByPlayerID(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	r, _, err := m.CreateRoom(&testutil.SimpleClient{ID: "p0"})
	require.NoError(t, err)

	found, ok := m.GetRoomByPlayerID("p0")
	require.True(t, ok)
	assert.Equal(t, r.Code, found.Code)

	_, ok = m.GetRoomByPlayerID("stranger")
	assert.False(t, ok)
}

func TestManager_LeaveRoom_RemovesEmptyRoom(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	r, _, err := m.CreateRoom(&testutil.SimpleClient{ID: "p0"})
	require.NoError(t, err)

	m.LeaveRoom("p0")

	_, ok := m.GetRoom(r.Code)
	assert.False(t, ok)
	assert.Equal(t, 0, m.RoomCount())
}

func TestManager_CleanupIdleRooms(t *testing.T) {
	t.Parallel()

	m := NewRoomManager(NewManualScheduler(), DefaultDelays(), newTestRng(), nil, time.Minute)
	r, _, err := m.CreateRoom(&testutil.SimpleClient{ID: "p0"})
	require.NoError(t, err)

	// 在线玩家的房间即便超时也不回收
	r.mu.Lock()
	r.lastActivity = time.Now().Add(-time.Hour)
	r.mu.Unlock()
	m.cleanupIdleRooms()
	_, ok := m.GetRoom(r.Code)
	assert.True(t, ok)

	// 全员掉线且超时的房间被回收
	r.HandleDisconnect("p0")
	r.mu.Lock()
	r.lastActivity = time.Now().Add(-time.Hour)
	r.mu.Unlock()
	m.cleanupIdleRooms()
	_, ok = m.GetRoom(r.Code)
	assert.False(t, ok)
}

func TestManager_RoomCodesUnique(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	codes := make(map[string]bool)
	for i := 0; i < 50; i++ {
		r, _, err := m.CreateRoom(&testutil.SimpleClient{ID: string(rune('A' + i))})
		require.NoError(t, err)
		assert.False(t, codes[r.Code])
		codes[r.Code] = true
	}
}
