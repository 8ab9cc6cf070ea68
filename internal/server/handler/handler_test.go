package handler

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/palemoky/tarneeb/internal/game/room"
	"github.com/palemoky/tarneeb/internal/protocol"
	"github.com/palemoky/tarneeb/internal/server/session"
	"github.com/palemoky/tarneeb/internal/server/storage"
	"github.com/palemoky/tarneeb/internal/testutil"
)

// testEnv 搭建一套带内存 Redis 的完整处理器环境
type testEnv struct {
	handler *Handler
	rooms   *room.RoomManager
	sched   *room.ManualScheduler
	server  *testutil.MockServer
	session *session.SessionManager
	board   *storage.LeaderboardManager
	mr      *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	board := storage.NewLeaderboardManager(rdb)

	sched := room.NewManualScheduler()
	rng := rand.New(rand.NewPCG(3, 9))
	rooms := room.NewRoomManager(sched, room.DefaultDelays(), rng, board, 10*time.Minute)

	srv := new(testutil.MockServer)
	sm := session.NewSessionManager(nil)

	h := NewHandler(Deps{
		Server:         srv,
		RoomManager:    rooms,
		Leaderboard:    board,
		SessionManager: sm,
	})

	return &testEnv{
		handler: h,
		rooms:   rooms,
		sched:   sched,
		server:  srv,
		session: sm,
		board:   board,
		mr:      mr,
	}
}

func newHandlerClient(id, name string) *testutil.SimpleClient {
	return &testutil.SimpleClient{ID: id, Name: name}
}

func msgOf(t *testing.T, msgType protocol.MessageType, payload any) *protocol.Message {
	t.Helper()
	msg, err := protocol.NewMessage(msgType, payload)
	assert.NoError(t, err)
	return msg
}

func TestHandler_CreateRoom(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := newHandlerClient("p1", "玩家一")

	env.handler.Handle(c, &protocol.Message{Type: protocol.MsgCreateRoom})

	created := c.LastMessageOfType(protocol.MsgRoomCreated)
	assert.NotNil(t, created, "creator should receive room_created")

	payload, err := protocol.ParsePayload[protocol.RoomCreatedPayload](created)
	assert.NoError(t, err)
	assert.Len(t, payload.RoomCode, 6)
	assert.Equal(t, "p1", payload.Player.ID)
	assert.Equal(t, 0, payload.Player.Seat)
	assert.Equal(t, payload.RoomCode, c.GetRoom())
}

func TestHandler_JoinRoom(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	host := newHandlerClient("p1", "玩家一")
	env.handler.Handle(host, &protocol.Message{Type: protocol.MsgCreateRoom})
	created, _ := protocol.ParsePayload[protocol.RoomCreatedPayload](host.LastMessageOfType(protocol.MsgRoomCreated))

	guest := newHandlerClient("p2", "玩家二")
	env.handler.Handle(guest, msgOf(t, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: created.RoomCode}))

	joined := guest.LastMessageOfType(protocol.MsgRoomJoined)
	assert.NotNil(t, joined)

	payload, err := protocol.ParsePayload[protocol.RoomJoinedPayload](joined)
	assert.NoError(t, err)
	assert.Equal(t, created.RoomCode, payload.RoomCode)
	assert.Len(t, payload.Players, 2)
	assert.Equal(t, created.RoomCode, guest.GetRoom())
}

func TestHandler_JoinRoom_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := newHandlerClient("p1", "玩家一")

	env.handler.Handle(c, msgOf(t, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: "NOPE42"}))

	errMsg := c.LastMessageOfType(protocol.MsgError)
	assert.NotNil(t, errMsg)

	payload, err := protocol.ParsePayload[protocol.ErrorPayload](errMsg)
	assert.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeRoomNotFound, payload.Code)
}

func TestHandler_GameAction_NotInRoom(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := newHandlerClient("p1", "玩家一")

	env.handler.Handle(c, &protocol.Message{Type: protocol.MsgStartGame})

	errMsg := c.LastMessageOfType(protocol.MsgError)
	assert.NotNil(t, errMsg)

	payload, err := protocol.ParsePayload[protocol.ErrorPayload](errMsg)
	assert.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotInRoom, payload.Code)
}

func TestHandler_UnknownMessage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := newHandlerClient("p1", "玩家一")

	env.handler.Handle(c, &protocol.Message{Type: "teleport"})

	errMsg := c.LastMessageOfType(protocol.MsgError)
	assert.NotNil(t, errMsg)

	payload, err := protocol.ParsePayload[protocol.ErrorPayload](errMsg)
	assert.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, payload.Code)
}

func TestHandler_Ping(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := newHandlerClient("p1", "玩家一")

	env.handler.Handle(c, msgOf(t, protocol.MsgPing, protocol.PingPayload{Timestamp: 12345}))

	pong := c.LastMessageOfType(protocol.MsgPong)
	assert.NotNil(t, pong)

	payload, err := protocol.ParsePayload[protocol.PongPayload](pong)
	assert.NoError(t, err)
	assert.Equal(t, int64(12345), payload.ClientTimestamp)
	assert.Greater(t, payload.ServerTimestamp, int64(0))
}

func TestHandler_StartGame_ThroughDispatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	clients := make([]*testutil.SimpleClient, 4)

	host := newHandlerClient("p0", "玩家零")
	env.handler.Handle(host, &protocol.Message{Type: protocol.MsgCreateRoom})
	created, _ := protocol.ParsePayload[protocol.RoomCreatedPayload](host.LastMessageOfType(protocol.MsgRoomCreated))
	clients[0] = host

	for i := 1; i < 4; i++ {
		c := newHandlerClient("p"+string(rune('0'+i)), "玩家")
		env.handler.Handle(c, msgOf(t, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: created.RoomCode}))
		clients[i] = c
	}

	env.handler.Handle(host, &protocol.Message{Type: protocol.MsgStartGame})

	r, ok := env.rooms.GetRoom(created.RoomCode)
	assert.True(t, ok)
	assert.Equal(t, room.PhaseDealerSelect, r.Phase())

	// 推进选庄和发牌的定时任务，进入叫牌阶段
	env.sched.RunNext()
	env.sched.RunNext()
	env.sched.RunNext()
	assert.Equal(t, room.PhaseBidding, r.Phase())

	// 每个玩家都应收到游戏开始通知和至少一份状态快照
	for _, c := range clients {
		assert.Equal(t, 1, c.CountMessagesOfType(protocol.MsgGameStarting))
		assert.Greater(t, c.CountMessagesOfType(protocol.MsgGameState), 0)
	}
}

func TestHandler_Reconnect(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// 旧连接建立会话后掉线
	sess := env.session.CreateSession("old-player", "老玩家")
	env.session.SetOffline("old-player")

	// 新连接带着临时身份发起重连
	fresh := newHandlerClient("temp-uuid", "临时昵称")
	env.server.On("UnregisterClient", "temp-uuid").Once()
	env.server.On("RegisterClient", "old-player", fresh).Once()

	env.handler.Handle(fresh, msgOf(t, protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    sess.ReconnectToken,
		PlayerID: "old-player",
	}))

	reconnected := fresh.LastMessageOfType(protocol.MsgReconnected)
	assert.NotNil(t, reconnected)

	payload, err := protocol.ParsePayload[protocol.ReconnectedPayload](reconnected)
	assert.NoError(t, err)
	assert.Equal(t, "old-player", payload.PlayerID)
	assert.Equal(t, "老玩家", payload.PlayerName)
	assert.Empty(t, payload.RoomCode)

	// 新连接已接管旧身份
	assert.Equal(t, "old-player", fresh.GetID())
	assert.Equal(t, "老玩家", fresh.GetName())
	assert.True(t, env.session.IsOnline("old-player"))
	env.server.AssertExpectations(t)
}

func TestHandler_Reconnect_BackIntoRoom(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// 老玩家建房后掉线
	old := newHandlerClient("old-player", "老玩家")
	env.handler.Handle(old, &protocol.Message{Type: protocol.MsgCreateRoom})
	created, _ := protocol.ParsePayload[protocol.RoomCreatedPayload](old.LastMessageOfType(protocol.MsgRoomCreated))

	sess := env.session.CreateSession("old-player", "老玩家")
	env.session.SetRoom("old-player", created.RoomCode)
	env.session.SetOffline("old-player")

	r, _ := env.rooms.GetRoom(created.RoomCode)
	r.HandleDisconnect("old-player")

	fresh := newHandlerClient("temp-uuid", "临时昵称")
	env.server.On("UnregisterClient", mock.Anything).Maybe()
	env.server.On("RegisterClient", mock.Anything, mock.Anything).Maybe()

	env.handler.Handle(fresh, msgOf(t, protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    sess.ReconnectToken,
		PlayerID: "old-player",
	}))

	payload, err := protocol.ParsePayload[protocol.ReconnectedPayload](fresh.LastMessageOfType(protocol.MsgReconnected))
	assert.NoError(t, err)
	assert.Equal(t, created.RoomCode, payload.RoomCode)
	assert.Equal(t, created.RoomCode, fresh.GetRoom())

	// 重连后应收到房间状态快照
	assert.Greater(t, fresh.CountMessagesOfType(protocol.MsgGameState), 0)
}

func TestHandler_Reconnect_InvalidToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.session.CreateSession("old-player", "老玩家")
	env.session.SetOffline("old-player")

	fresh := newHandlerClient("temp-uuid", "临时昵称")
	env.handler.Handle(fresh, msgOf(t, protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    "bogus-token",
		PlayerID: "old-player",
	}))

	errMsg := fresh.LastMessageOfType(protocol.MsgError)
	assert.NotNil(t, errMsg)
	// 身份未被接管
	assert.Equal(t, "temp-uuid", fresh.GetID())
}

func TestHandler_GetStats_NewPlayer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := newHandlerClient("p1", "玩家一")

	env.handler.Handle(c, &protocol.Message{Type: protocol.MsgGetStats})

	stats := c.LastMessageOfType(protocol.MsgStatsResult)
	assert.NotNil(t, stats)

	payload, err := protocol.ParsePayload[protocol.PlayerStatsPayload](stats)
	assert.NoError(t, err)
	assert.Equal(t, "p1", payload.PlayerID)
	assert.Equal(t, 0, payload.TotalRounds)
	assert.Equal(t, 0, payload.Score)
}

func TestHandler_GetStats_AfterRounds(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	assert.NoError(t, env.board.RecordRoundResult(ctx, "p1", "玩家一", true, true))
	assert.NoError(t, env.board.RecordRoundResult(ctx, "p1", "玩家一", false, false))

	c := newHandlerClient("p1", "玩家一")
	env.handler.Handle(c, &protocol.Message{Type: protocol.MsgGetStats})

	payload, err := protocol.ParsePayload[protocol.PlayerStatsPayload](c.LastMessageOfType(protocol.MsgStatsResult))
	assert.NoError(t, err)
	assert.Equal(t, 2, payload.TotalRounds)
	assert.Equal(t, 1, payload.Wins)
	assert.Equal(t, 1, payload.Losses)
	assert.Equal(t, 1, payload.BidRounds)
	assert.Equal(t, 1, payload.BidWins)
}

func TestHandler_GetLeaderboard(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	for i, id := range []string{"p1", "p2", "p3"} {
		// 让 p3 胜场最多，排名最高
		for range i + 1 {
			assert.NoError(t, env.board.RecordRoundResult(ctx, id, "玩家"+id, true, true))
		}
	}

	c := newHandlerClient("viewer", "围观者")
	env.handler.Handle(c, msgOf(t, protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{Offset: 0, Limit: 2}))

	payload, err := protocol.ParsePayload[protocol.LeaderboardPayload](c.LastMessageOfType(protocol.MsgLeaderboardResult))
	assert.NoError(t, err)
	assert.Equal(t, 3, payload.Total)
	assert.Len(t, payload.Entries, 2)
	assert.Equal(t, "p3", payload.Entries[0].PlayerID)
	assert.Equal(t, 1, payload.Entries[0].Rank)
	assert.Equal(t, "p2", payload.Entries[1].PlayerID)
}

func TestHandler_GetLeaderboard_DefaultPaging(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := newHandlerClient("viewer", "围观者")

	// 空 payload 也应返回空榜而不是报错
	env.handler.Handle(c, &protocol.Message{Type: protocol.MsgGetLeaderboard, Payload: []byte("{}")})

	payload, err := protocol.ParsePayload[protocol.LeaderboardPayload](c.LastMessageOfType(protocol.MsgLeaderboardResult))
	assert.NoError(t, err)
	assert.Equal(t, 0, payload.Total)
	assert.Empty(t, payload.Entries)
}

func TestHandler_LeaveRoom_RemovesEmptyRoom(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := newHandlerClient("p1", "玩家一")

	env.handler.Handle(c, &protocol.Message{Type: protocol.MsgCreateRoom})
	assert.Equal(t, 1, env.rooms.RoomCount())

	env.handler.Handle(c, &protocol.Message{Type: protocol.MsgLeaveRoom})
	assert.Equal(t, 0, env.rooms.RoomCount())
	assert.Empty(t, c.GetRoom())
}
