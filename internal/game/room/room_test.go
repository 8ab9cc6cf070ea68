package room

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/tarneeb/internal/apperrors"
	"github.com/palemoky/tarneeb/internal/game/card"
	"github.com/palemoky/tarneeb/internal/protocol"
	"github.com/palemoky/tarneeb/internal/testutil"
)

func newTestRng() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

// newWaitingRoom 创建一个坐满 4 人的等待阶段房间
func newWaitingRoom(t *testing.T) (*Room, *ManualScheduler, []*testutil.SimpleClient) {
	t.Helper()

	sched := NewManualScheduler()
	r := NewRoom("TEST01", sched, DefaultDelays(), newTestRng(), nil)

	clients := make([]*testutil.SimpleClient, MaxPlayers)
	for i := range clients {
		clients[i] = &testutil.SimpleClient{
			ID:   fmt.Sprintf("p%d", i),
			Name: fmt.Sprintf("玩家%d", i),
		}
		_, err := r.AddPlayer(clients[i])
		require.NoError(t, err)
	}
	return r, sched, clients
}

// advanceToBidding 开局并跑完选庄/首次发牌的定时任务
func advanceToBidding(t *testing.T, r *Room, sched *ManualScheduler) {
	t.Helper()
	r.HandleStartGame("p0")
	sched.RunAll()
	require.Equal(t, PhaseBidding, r.Phase())
}

// passAround 按叫牌顺序让每人过牌（庄家最后会被强制叫 7）
func passAround(t *testing.T, r *Room) {
	t.Helper()
	for i := 0; i < MaxPlayers; i++ {
		p := r.playerBySeat(r.currentBidderIndex)
		require.NotNil(t, p)
		r.HandleBid(p.ID, 0)
	}
}

// allCards 收集房间里所有手牌和剩余牌堆
func allCards(r *Room) []card.Card {
	var cards []card.Card
	for _, p := range r.players {
		cards = append(cards, p.Hand...)
	}
	cards = append(cards, r.deck...)
	return cards
}

// assertConservation 断言全场 52 张牌互不重复
func assertConservation(t *testing.T, r *Room) {
	t.Helper()
	cards := allCards(r)
	require.Len(t, cards, card.DeckSize)
	seen := make(map[card.Card]bool, card.DeckSize)
	for _, c := range cards {
		assert.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
}

func TestRoom_AddPlayer_SeatsAndTeams(t *testing.T) {
	t.Parallel()

	r, _, _ := newWaitingRoom(t)

	require.Equal(t, MaxPlayers, r.PlayerCount())
	for i, p := range r.players {
		assert.Equal(t, i, p.Seat)
		assert.Equal(t, TeamForSeat(i), p.Team)
	}
	// 偶数座位 1 队，奇数座位 2 队
	assert.Equal(t, 1, r.players[0].Team)
	assert.Equal(t, 2, r.players[1].Team)
	assert.Equal(t, 1, r.players[2].Team)
	assert.Equal(t, 2, r.players[3].Team)
}

func TestRoom_AddPlayer_Full(t *testing.T) {
	t.Parallel()

	r, _, _ := newWaitingRoom(t)

	_, err := r.AddPlayer(&testutil.SimpleClient{ID: "p5", Name: "玩家5"})
	assert.ErrorIs(t, err, apperrors.ErrRoomFull)
}

func TestRoom_AddPlayer_AfterStart(t *testing.T) {
	t.Parallel()

	sched := NewManualScheduler()
	r := NewRoom("TEST01", sched, DefaultDelays(), newTestRng(), nil)
	for i := 0; i < 3; i++ {
		_, err := r.AddPlayer(&testutil.SimpleClient{ID: fmt.Sprintf("p%d", i)})
		require.NoError(t, err)
	}

	// 人未满无法开局，再坐满后开局
	r.HandleStartGame("p0")
	require.Equal(t, PhaseWaiting, r.Phase())

	_, err := r.AddPlayer(&testutil.SimpleClient{ID: "p3"})
	require.NoError(t, err)
	r.HandleStartGame("p0")
	require.Equal(t, PhaseDealerSelect, r.Phase())

	_, err = r.AddPlayer(&testutil.SimpleClient{ID: "p9"})
	assert.ErrorIs(t, err, apperrors.ErrGameStarted)
}

func TestRoom_AddPlayer_Reconnect(t *testing.T) {
	t.Parallel()

	r, sched, _ := newWaitingRoom(t)
	advanceToBidding(t, r, sched)

	r.HandleDisconnect("p2")
	assert.False(t, r.players[2].Connected)

	// 同一 ID 重新加入视为重连，座位和手牌保持不变
	newConn := &testutil.SimpleClient{ID: "p2", Name: "玩家2"}
	p, err := r.AddPlayer(newConn)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Seat)
	assert.Len(t, p.Hand, firstDealCount)
	assert.True(t, p.Connected)

	// 重连的连接收到一份带自己手牌的快照
	state := newConn.LastMessageOfType(protocol.MsgGameState)
	require.NotNil(t, state)
}

func TestRoom_Disconnect_NotifiesOthers(t *testing.T) {
	t.Parallel()

	r, _, clients := newWaitingRoom(t)

	r.HandleDisconnect("p1")

	msg := clients[0].LastMessageOfType(protocol.MsgPlayerOffline)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.PlayerOfflinePayload](msg)
	require.NoError(t, err)
	assert.Equal(t, "p1", payload.PlayerID)
	assert.Equal(t, 1, payload.Seat)
}

func TestRoom_SwitchSeat(t *testing.T) {
	t.Parallel()

	r, _, _ := newWaitingRoom(t)

	// 与 p3 换座：双方座位和队伍互换
	r.HandleSwitchSeat("p0", 3)
	p0 := r.playerByID("p0")
	p3 := r.playerByID("p3")
	assert.Equal(t, 3, p0.Seat)
	assert.Equal(t, 2, p0.Team)
	assert.Equal(t, 0, p3.Seat)
	assert.Equal(t, 1, p3.Team)
}

func TestRoom_SwitchSeat_RejectedAfterStart(t *testing.T) {
	t.Parallel()

	r, sched, _ := newWaitingRoom(t)
	advanceToBidding(t, r, sched)

	before := r.playerByID("p0").Seat
	r.HandleSwitchSeat("p0", (before+1)%MaxPlayers)
	assert.Equal(t, before, r.playerByID("p0").Seat)
}

func TestRoom_Leave_WaitingFreesSeat(t *testing.T) {
	t.Parallel()

	r, _, _ := newWaitingRoom(t)

	r.HandleLeave("p1")
	assert.Equal(t, 3, r.PlayerCount())
	assert.Nil(t, r.playerByID("p1"))

	// 空出的 1 号座位会分给下一个加入的玩家
	p, err := r.AddPlayer(&testutil.SimpleClient{ID: "p9", Name: "玩家9"})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Seat)
}

func TestRoom_Leave_MidGameMarksOffline(t *testing.T) {
	t.Parallel()

	r, sched, _ := newWaitingRoom(t)
	advanceToBidding(t, r, sched)

	r.HandleLeave("p1")
	p := r.playerByID("p1")
	require.NotNil(t, p, "开局后离开不应腾出座位")
	assert.False(t, p.Connected)
}

func TestRoom_StartGame_DealsFiveThenBidding(t *testing.T) {
	t.Parallel()

	r, sched, clients := newWaitingRoom(t)

	r.HandleStartGame("p0")
	require.Equal(t, PhaseDealerSelect, r.Phase())

	// game_starting 广播给了所有人
	for _, c := range clients {
		assert.Equal(t, 1, c.CountMessagesOfType(protocol.MsgGameStarting))
	}

	sched.RunAll()
	require.Equal(t, PhaseBidding, r.Phase())

	// 庄家已定且跑分方是庄家的对家队伍
	require.GreaterOrEqual(t, r.dealerIndex, 0)
	require.Less(t, r.dealerIndex, MaxPlayers)
	assert.Equal(t, TeamForSeat(r.dealerIndex), r.dealerTeam)
	assert.Equal(t, opposingTeam(r.dealerTeam), r.runnerTeam)

	// 每人 5 张，牌堆剩 32 张，全场无重复
	for _, p := range r.players {
		assert.Len(t, p.Hand, firstDealCount)
	}
	assert.Len(t, r.deck, card.DeckSize-MaxPlayers*firstDealCount)
	assertConservation(t, r)

	// 叫牌从庄家下家开始
	assert.Equal(t, (r.dealerIndex+1)%MaxPlayers, r.currentBidderIndex)

	for _, c := range clients {
		assert.Equal(t, 1, c.CountMessagesOfType(protocol.MsgDealerSelected))
	}
}

func TestRoom_StartGame_SameSeedSameDeal(t *testing.T) {
	t.Parallel()

	deal := func() [][]card.Card {
		sched := NewManualScheduler()
		r := NewRoom("TEST01", sched, DefaultDelays(), rand.New(rand.NewPCG(42, 1)), nil)
		for i := 0; i < MaxPlayers; i++ {
			_, err := r.AddPlayer(&testutil.SimpleClient{ID: fmt.Sprintf("p%d", i)})
			require.NoError(t, err)
		}
		r.HandleStartGame("p0")
		sched.RunAll()
		hands := make([][]card.Card, MaxPlayers)
		for i, p := range r.players {
			hands[i] = append([]card.Card(nil), p.Hand...)
		}
		return hands
	}

	assert.Equal(t, deal(), deal())
}

func TestRoom_Bidding_ForcedDealerBid(t *testing.T) {
	t.Parallel()

	r, sched, _ := newWaitingRoom(t)
	advanceToBidding(t, r, sched)

	// 三家过牌后轮到庄家，庄家过牌被转为强制叫 7
	passAround(t, r)

	require.Equal(t, PhaseTrumpSelect, r.Phase())
	assert.Equal(t, forcedDealerBid, r.highestBid.Amount)
	assert.Equal(t, r.dealerIndex, r.highestBid.Seat)
	assert.Equal(t, r.dealerIndex, r.currentTurnIndex)
}

func TestRoom_Bidding_HigherBidWins(t *testing.T) {
	t.Parallel()

	r, sched, _ := newWaitingRoom(t)
	advanceToBidding(t, r, sched)

	first := r.currentBidderIndex
	firstPlayer := r.playerBySeat(first)
	r.HandleBid(firstPlayer.ID, 8)
	assert.Equal(t, Bid{Amount: 8, Seat: first}, r.highestBid)

	second := r.currentBidderIndex
	secondPlayer := r.playerBySeat(second)
	r.HandleBid(secondPlayer.ID, 9)
	assert.Equal(t, Bid{Amount: 9, Seat: second}, r.highestBid)

	// 其余两家过牌（有人叫过牌，庄家可以正常过）
	r.HandleBid(r.playerBySeat(r.currentBidderIndex).ID, 0)
	r.HandleBid(r.playerBySeat(r.currentBidderIndex).ID, 0)

	require.Equal(t, PhaseTrumpSelect, r.Phase())
	assert.Equal(t, second, r.highestBid.Seat)
}

func TestRoom_Bidding_Rejections(t *testing.T) {
	t.Parallel()

	r, sched, _ := newWaitingRoom(t)
	advanceToBidding(t, r, sched)

	first := r.currentBidderIndex
	firstPlayer := r.playerBySeat(first)

	// 未轮到的玩家叫牌被忽略
	other := r.playerBySeat((first + 1) % MaxPlayers)
	r.HandleBid(other.ID, 8)
	assert.Equal(t, first, r.currentBidderIndex)
	assert.Equal(t, -1, r.highestBid.Seat)

	// 低于底线、超过 13 的叫牌都被忽略
	r.HandleBid(firstPlayer.ID, bidFloor)
	assert.Equal(t, first, r.currentBidderIndex)
	r.HandleBid(firstPlayer.ID, totalTricks+1)
	assert.Equal(t, first, r.currentBidderIndex)

	// 合法叫牌后，后续叫牌必须更高
	r.HandleBid(firstPlayer.ID, 9)
	nextPlayer := r.playerBySeat(r.currentBidderIndex)
	r.HandleBid(nextPlayer.ID, 9)
	assert.Equal(t, Bid{Amount: 9, Seat: first}, r.highestBid)
}

func TestRoom_TrumpSelect_DealsRemainingCards(t *testing.T) {
	t.Parallel()

	r, sched, _ := newWaitingRoom(t)
	advanceToBidding(t, r, sched)
	passAround(t, r)
	require.Equal(t, PhaseTrumpSelect, r.Phase())

	winner := r.playerBySeat(r.highestBid.Seat)

	// 非叫牌胜者选将被忽略
	other := r.playerBySeat((r.highestBid.Seat + 1) % MaxPlayers)
	r.HandleSelectTrump(other.ID, card.Heart)
	require.Equal(t, PhaseTrumpSelect, r.Phase())

	r.HandleSelectTrump(winner.ID, card.Heart)
	require.Equal(t, PhaseDealing2, r.Phase())
	assert.Equal(t, card.Heart, r.trumpSuit)

	// 补发后每人 13 张，牌堆发空
	for _, p := range r.players {
		assert.Len(t, p.Hand, totalTricks)
	}
	assert.Empty(t, r.deck)
	assertConservation(t, r)

	sched.RunAll()
	require.Equal(t, PhasePlaying, r.Phase())
	assert.Equal(t, r.highestBid.Seat, r.currentTurnIndex)
}

func TestRoom_View_HandRedaction(t *testing.T) {
	t.Parallel()

	r, sched, _ := newWaitingRoom(t)
	advanceToBidding(t, r, sched)

	view := r.ViewFor("p0")
	assert.Equal(t, "BIDDING", view.Phase)
	for _, p := range view.Players {
		if p.ID == "p0" {
			assert.Len(t, p.Hand, firstDealCount)
		} else {
			assert.Nil(t, p.Hand, "其他玩家的手牌不应下发")
		}
		assert.Equal(t, firstDealCount, p.HandCount)
	}
	assert.Equal(t, 0, view.MySeat)
}

func TestRoom_View_TrumpHiddenUntilSelected(t *testing.T) {
	t.Parallel()

	r, sched, _ := newWaitingRoom(t)
	advanceToBidding(t, r, sched)

	assert.Empty(t, r.ViewFor("p0").TrumpSuit)

	passAround(t, r)
	winner := r.playerBySeat(r.highestBid.Seat)
	r.HandleSelectTrump(winner.ID, card.Spade)
	sched.RunAll()

	assert.Equal(t, "S", r.ViewFor("p0").TrumpSuit)
}
