package room

import (
	"time"

	"github.com/palemoky/tarneeb/internal/game/card"
	"github.com/palemoky/tarneeb/internal/protocol"
)

// HandlePlayCard 处理一次出牌
// 合法性校验：轮到该玩家、牌在手中、有首攻花色时必须跟牌
func (r *Room) HandlePlayCard(playerID string, c card.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhasePlaying {
		return
	}

	player := r.playerByID(playerID)
	if player == nil || player.Seat != r.currentTurnIndex {
		return
	}

	handIndex := indexOfCard(player.Hand, c)
	if handIndex == -1 {
		return
	}
	if !r.followsSuit(player, c) {
		return
	}

	r.lastActivity = time.Now()
	player.Hand = append(player.Hand[:handIndex], player.Hand[handIndex+1:]...)

	if len(r.trick) == 0 {
		r.leadSuit = c.Suit
	}
	r.trick = append(r.trick, TrickPlay{Seat: player.Seat, Card: c})

	if len(r.trick) == MaxPlayers {
		r.currentTurnIndex = -1
		r.broadcastState()
		// 让打满的一墩在桌上停留片刻再收走
		r.schedule(r.delays.TrickPause, r.collectTrick)
		return
	}

	r.currentTurnIndex = (r.currentTurnIndex + 1) % MaxPlayers
	r.broadcastState()
}

// followsSuit 校验跟牌规则：手中有首攻花色时必须出该花色
// 调用方必须持有 r.mu
func (r *Room) followsSuit(player *Player, c card.Card) bool {
	if r.leadSuit == card.NoSuit || len(r.trick) == 0 {
		return true
	}
	if c.Suit == r.leadSuit {
		return true
	}
	for _, held := range player.Hand {
		if held.Suit == r.leadSuit {
			return false
		}
	}
	return true
}

// collectTrick 定时器回调：判定本墩归属并推进到下一墩或结算
func (r *Room) collectTrick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhasePlaying || len(r.trick) != MaxPlayers {
		return
	}

	winnerSeat := r.trickWinner()
	winnerTeam := TeamForSeat(winnerSeat)
	r.tricksWon[winnerTeam]++

	r.broadcastEvent(protocol.MustNewMessage(protocol.MsgTrickCollected, protocol.TrickCollectedPayload{
		WinnerIndex: winnerSeat,
	}))

	r.trick = nil
	r.leadSuit = card.NoSuit

	if done, winningTeam := r.roundDecided(); done {
		r.endRound(winningTeam)
		return
	}

	// 收墩动画播完后再把先手交给赢家
	r.schedule(r.delays.PostTrick, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.phase != PhasePlaying {
			return
		}
		r.currentTurnIndex = winnerSeat
		r.broadcastState()
	})
}

// trickWinner 扫描当前一墩找出最大牌的座位，调用方必须持有 r.mu
func (r *Room) trickWinner() int {
	var best *card.Card
	winnerSeat := -1
	for _, tp := range r.trick {
		c := tp.Card
		if card.Beats(c, best, r.trumpSuit, r.leadSuit) {
			best = &c
			winnerSeat = tp.Seat
		}
	}
	return winnerSeat
}

// roundDecided 判断本轮胜负是否已无悬念，可以提前结束：
//   - 叫牌方已拿满所叫墩数 → 叫牌方胜
//   - 对方拿到的墩数已让叫牌方无法达标 → 叫牌方负
//
// 调用方必须持有 r.mu
func (r *Room) roundDecided() (bool, int) {
	bidTeam := TeamForSeat(r.highestBid.Seat)
	oppTeam := opposingTeam(bidTeam)

	if r.tricksWon[bidTeam] >= r.highestBid.Amount {
		return true, bidTeam
	}
	if r.tricksWon[oppTeam] > totalTricks-r.highestBid.Amount {
		return true, oppTeam
	}
	return false, 0
}

func indexOfCard(hand []card.Card, c card.Card) int {
	for i, held := range hand {
		if held == c {
			return i
		}
	}
	return -1
}
