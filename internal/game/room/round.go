package room

import (
	"sort"
	"time"

	"github.com/palemoky/tarneeb/internal/game/card"
	"github.com/palemoky/tarneeb/internal/protocol"
)

// HandleStartGame 房间满员后由任意玩家发起开局
func (r *Room) HandleStartGame(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseWaiting {
		return
	}
	if r.playerByID(playerID) == nil {
		return
	}
	if len(r.players) != MaxPlayers {
		return
	}

	r.lastActivity = time.Now()
	r.phase = PhaseDealerSelect
	r.broadcastEvent(protocol.MustNewMessage(protocol.MsgGameStarting, struct{}{}))
	r.broadcastState()

	// 先让客户端展示"正在选庄"，延时后再揭晓庄家
	r.schedule(r.delays.DealerReveal, r.pickRandomDealer)
}

// pickRandomDealer 随机选庄并确定跑分方（庄家的对家队伍）
func (r *Room) pickRandomDealer() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseDealerSelect {
		return
	}

	r.dealerIndex = r.rng.IntN(MaxPlayers)
	r.dealerTeam = TeamForSeat(r.dealerIndex)
	r.runnerTeam = opposingTeam(r.dealerTeam)

	r.broadcastEvent(protocol.MustNewMessage(protocol.MsgDealerSelected, protocol.DealerSelectedPayload{
		DealerIndex: r.dealerIndex,
	}))
	r.broadcastState()

	r.schedule(r.delays.DealerDeal, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.phase != PhaseDealerSelect {
			return
		}
		r.startRound()
	})
}

// startRound 开始新的一轮：重置单轮状态、洗牌、发前 5 张后进入叫牌
// 调用方必须持有 r.mu，且庄家已确定
func (r *Room) startRound() {
	r.bids = make(map[string]int)
	r.highestBid = Bid{Amount: bidFloor, Seat: -1}
	r.trumpSuit = card.NoSuit
	r.trick = nil
	r.leadSuit = card.NoSuit
	r.tricksWon = map[int]int{1: 0, 2: 0}
	r.outcome = nil
	r.currentTurnIndex = -1
	r.currentBidderIndex = -1

	for _, p := range r.players {
		p.Hand = nil
	}

	r.deck = card.NewDeck()
	r.deck.Shuffle(r.rng)

	r.phase = PhaseDealing1
	r.dealCards(firstDealCount)
	r.broadcastState()

	r.schedule(r.delays.Bidding, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.phase != PhaseDealing1 {
			return
		}
		r.phase = PhaseBidding
		r.currentBidderIndex = (r.dealerIndex + 1) % MaxPlayers
		r.broadcastState()
	})
}

// dealCards 按座位顺序给每人发 count 张，调用方必须持有 r.mu
func (r *Room) dealCards(count int) {
	for _, p := range r.players {
		p.Hand = append(p.Hand, r.deck[:count]...)
		r.deck = r.deck[count:]
		sortHand(p.Hand)
	}
}

// sortHand 按花色分组、组内点数从大到小，便于客户端展示
func sortHand(hand []card.Card) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit != hand[j].Suit {
			return hand[i].Suit < hand[j].Suit
		}
		return hand[i].Rank > hand[j].Rank
	})
}

// HandleBid 处理一次叫牌（amount 为 0 表示过牌）
// 叫牌从庄家下家开始，每人依次表态一次，庄家最后表态；
// 若轮到庄家时无人叫牌，庄家的过牌会被转为强制叫 7
func (r *Room) HandleBid(playerID string, amount int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseBidding {
		return
	}

	player := r.playerByID(playerID)
	if player == nil || player.Seat != r.currentBidderIndex {
		return
	}
	if _, alreadyBid := r.bids[playerID]; alreadyBid {
		return
	}

	isDealer := player.Seat == r.dealerIndex

	if amount == 0 {
		if isDealer && r.highestBid.Seat == -1 {
			amount = forcedDealerBid
		}
	} else {
		if amount <= r.highestBid.Amount || amount > totalTricks {
			return
		}
	}

	r.lastActivity = time.Now()
	r.bids[playerID] = amount
	if amount > 0 {
		r.highestBid = Bid{Amount: amount, Seat: player.Seat}
	}

	if isDealer {
		// 庄家是最后一位叫牌者，叫牌阶段结束
		r.currentBidderIndex = -1
		r.phase = PhaseTrumpSelect
		r.currentTurnIndex = r.highestBid.Seat
	} else {
		r.currentBidderIndex = (r.currentBidderIndex + 1) % MaxPlayers
	}
	r.broadcastState()
}

// HandleSelectTrump 叫牌胜者选定将牌，随后补发剩余 8 张并进入出牌阶段
func (r *Room) HandleSelectTrump(playerID string, suit card.Suit) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseTrumpSelect {
		return
	}

	player := r.playerByID(playerID)
	if player == nil || player.Seat != r.highestBid.Seat {
		return
	}
	if suit < card.Spade || suit > card.Club {
		return
	}

	r.lastActivity = time.Now()
	r.trumpSuit = suit
	r.phase = PhaseDealing2
	r.currentTurnIndex = -1
	r.dealCards(secondDealCount)
	r.broadcastState()

	r.schedule(r.delays.SecondDeal, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.phase != PhaseDealing2 {
			return
		}
		r.phase = PhasePlaying
		r.currentTurnIndex = r.highestBid.Seat
		r.broadcastState()
	})
}
