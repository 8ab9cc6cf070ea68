package client

import "github.com/palemoky/tarneeb/internal/game/card"

// cardsPerSuit 每门花色的张数
const cardsPerSuit = 13

// SuitTracker 记牌器：跟踪各花色已打出的牌
// 同一张牌重复标记只计一次，快照重放是安全的
type SuitTracker struct {
	seen   map[card.Card]bool
	played map[card.Suit]int
}

// NewSuitTracker 创建记牌器
func NewSuitTracker() *SuitTracker {
	st := &SuitTracker{}
	st.Reset()
	return st
}

// Reset 清空记录（新一轮开始时调用）
func (st *SuitTracker) Reset() {
	st.seen = make(map[card.Card]bool)
	st.played = map[card.Suit]int{
		card.Spade:   0,
		card.Heart:   0,
		card.Diamond: 0,
		card.Club:    0,
	}
}

// MarkPlayed 标记一张牌已打出
func (st *SuitTracker) MarkPlayed(c card.Card) {
	if st.seen[c] {
		return
	}
	st.seen[c] = true
	st.played[c.Suit]++
}

// Remaining 某花色还剩多少张未见
func (st *SuitTracker) Remaining(s card.Suit) int {
	return cardsPerSuit - st.played[s]
}

// WasPlayed 某张牌是否已打出
func (st *SuitTracker) WasPlayed(c card.Card) bool {
	return st.seen[c]
}

// HighestOut 某花色未见的最大牌，整门打完时返回 false
func (st *SuitTracker) HighestOut(s card.Suit) (card.Card, bool) {
	for r := card.RankA; r >= card.Rank2; r-- {
		c := card.Card{Suit: s, Rank: r}
		if !st.seen[c] {
			return c, true
		}
	}
	return card.Card{}, false
}
