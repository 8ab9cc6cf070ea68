package client

import (
	"encoding/json"
	"sort"

	"github.com/palemoky/tarneeb/internal/game/card"
	"github.com/palemoky/tarneeb/internal/protocol"
)

// GameState 客户端侧的对局状态，由服务器快照驱动
type GameState struct {
	// 本家数据
	Hand   []card.Card
	MySeat int

	// 房间内玩家
	Players []protocol.PlayerInfo

	// 对局进度
	RoomCode           string
	Phase              string
	DealerIndex        int
	CurrentTurnIndex   int
	CurrentBidderIndex int
	HighestBid         protocol.BidInfo
	TrumpSuit          card.Suit
	Trick              []protocol.TrickPlay
	LeadSuit           card.Suit
	TricksWon          map[int]int

	// 跑分
	RunnerScore int
	RunnerTeam  int

	// 结算
	Outcome *protocol.RoundOutcome

	// 记牌器
	SuitTracker *SuitTracker
}

// NewGameState 创建对局状态
func NewGameState() *GameState {
	return &GameState{
		MySeat:      -1,
		DealerIndex: -1,
		TrumpSuit:   card.NoSuit,
		LeadSuit:    card.NoSuit,
		RunnerTeam:  -1,
		SuitTracker: NewSuitTracker(),
	}
}

// ApplySnapshot 用服务器下发的快照覆盖本地状态
func (gs *GameState) ApplySnapshot(payload *protocol.GameStatePayload) {
	prevPhase := gs.Phase

	gs.RoomCode = payload.RoomCode
	gs.Phase = payload.Phase
	gs.Players = payload.Players
	gs.MySeat = payload.MySeat
	gs.DealerIndex = payload.DealerIndex
	gs.CurrentTurnIndex = payload.CurrentTurnIndex
	gs.CurrentBidderIndex = payload.CurrentBidderIndex
	gs.HighestBid = payload.HighestBid
	gs.TricksWon = payload.TricksWon
	gs.RunnerScore = payload.RunnerScore
	gs.RunnerTeam = payload.RunnerTeam
	gs.Outcome = payload.Outcome

	gs.TrumpSuit = suitFromWire(payload.TrumpSuit)
	gs.LeadSuit = suitFromWire(payload.LeadSuit)

	// 新一轮发牌时重置记牌器
	if payload.Phase != prevPhase && payload.Phase == "DEALING_1" {
		gs.SuitTracker.Reset()
	}

	gs.Trick = payload.Trick
	for _, tp := range payload.Trick {
		if c, err := protocol.InfoToCard(tp.Card); err == nil {
			gs.SuitTracker.MarkPlayed(c)
		}
	}

	gs.Hand = nil
	for _, p := range payload.Players {
		if p.Seat != payload.MySeat {
			continue
		}
		for _, info := range p.Hand {
			if c, err := protocol.InfoToCard(info); err == nil {
				gs.Hand = append(gs.Hand, c)
			}
		}
	}
	gs.SortHand()
}

// ApplyMessage 处理快照和关键事件消息，返回是否改变了状态
func (gs *GameState) ApplyMessage(msg *protocol.Message) bool {
	switch msg.Type {
	case protocol.MsgGameState:
		var payload protocol.GameStatePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return false
		}
		gs.ApplySnapshot(&payload)
		return true

	case protocol.MsgRoomCreated:
		var payload protocol.RoomCreatedPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return false
		}
		gs.Reset()
		gs.RoomCode = payload.RoomCode
		gs.MySeat = payload.Player.Seat
		return true

	case protocol.MsgRoomJoined:
		var payload protocol.RoomJoinedPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return false
		}
		gs.Reset()
		gs.RoomCode = payload.RoomCode
		gs.MySeat = payload.Player.Seat
		gs.Players = payload.Players
		return true

	case protocol.MsgDealerSelected:
		var payload protocol.DealerSelectedPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return false
		}
		gs.DealerIndex = payload.DealerIndex
		return true
	}

	return false
}

// MyTurn 是否轮到本家行动
func (gs *GameState) MyTurn() bool {
	if gs.MySeat < 0 {
		return false
	}
	if gs.Phase == "BIDDING" {
		return gs.CurrentBidderIndex == gs.MySeat
	}
	return gs.CurrentTurnIndex == gs.MySeat
}

// MyTeam 本家所在队伍，未入座返回 -1
func (gs *GameState) MyTeam() int {
	if gs.MySeat < 0 {
		return -1
	}
	if gs.MySeat%2 == 0 {
		return 1
	}
	return 2
}

// PlayerAt 按座位查玩家
func (gs *GameState) PlayerAt(seat int) *protocol.PlayerInfo {
	for i := range gs.Players {
		if gs.Players[i].Seat == seat {
			return &gs.Players[i]
		}
	}
	return nil
}

// SortHand 按花色分组、组内从大到小排序
func (gs *GameState) SortHand() {
	sort.Slice(gs.Hand, func(i, j int) bool {
		if gs.Hand[i].Suit != gs.Hand[j].Suit {
			return gs.Hand[i].Suit < gs.Hand[j].Suit
		}
		return gs.Hand[i].Rank > gs.Hand[j].Rank
	})
}

// Reset 清空对局状态
func (gs *GameState) Reset() {
	gs.Hand = nil
	gs.Players = nil
	gs.RoomCode = ""
	gs.Phase = ""
	gs.MySeat = -1
	gs.DealerIndex = -1
	gs.CurrentTurnIndex = -1
	gs.CurrentBidderIndex = -1
	gs.HighestBid = protocol.BidInfo{}
	gs.TrumpSuit = card.NoSuit
	gs.Trick = nil
	gs.LeadSuit = card.NoSuit
	gs.TricksWon = nil
	gs.RunnerScore = 0
	gs.RunnerTeam = -1
	gs.Outcome = nil
	gs.SuitTracker = NewSuitTracker()
}

func suitFromWire(code string) card.Suit {
	if code == "" {
		return card.NoSuit
	}
	s, err := card.SuitFromCode(code)
	if err != nil {
		return card.NoSuit
	}
	return s
}
