package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/tarneeb/internal/game/card"
)

func TestSuitTracker_InitialState(t *testing.T) {
	st := NewSuitTracker()

	for _, s := range []card.Suit{card.Spade, card.Heart, card.Diamond, card.Club} {
		assert.Equal(t, 13, st.Remaining(s), "full suit should remain at start")
	}
}

func TestSuitTracker_MarkPlayed(t *testing.T) {
	st := NewSuitTracker()

	st.MarkPlayed(card.Card{Suit: card.Spade, Rank: card.RankA})
	st.MarkPlayed(card.Card{Suit: card.Spade, Rank: card.RankK})
	st.MarkPlayed(card.Card{Suit: card.Heart, Rank: card.Rank2})

	assert.Equal(t, 11, st.Remaining(card.Spade))
	assert.Equal(t, 12, st.Remaining(card.Heart))
	assert.Equal(t, 13, st.Remaining(card.Diamond))
	assert.True(t, st.WasPlayed(card.Card{Suit: card.Spade, Rank: card.RankA}))
	assert.False(t, st.WasPlayed(card.Card{Suit: card.Club, Rank: card.RankA}))
}

func TestSuitTracker_MarkPlayed_Idempotent(t *testing.T) {
	st := NewSuitTracker()

	c := card.Card{Suit: card.Diamond, Rank: card.RankQ}
	st.MarkPlayed(c)
	st.MarkPlayed(c)
	st.MarkPlayed(c)

	assert.Equal(t, 12, st.Remaining(card.Diamond), "repeated marks must count once")
}

func TestSuitTracker_HighestOut(t *testing.T) {
	st := NewSuitTracker()

	// A 还没出，最大未见牌是 A
	c, ok := st.HighestOut(card.Spade)
	assert.True(t, ok)
	assert.Equal(t, card.RankA, c.Rank)

	// A、K 出掉后最大未见牌是 Q
	st.MarkPlayed(card.Card{Suit: card.Spade, Rank: card.RankA})
	st.MarkPlayed(card.Card{Suit: card.Spade, Rank: card.RankK})

	c, ok = st.HighestOut(card.Spade)
	assert.True(t, ok)
	assert.Equal(t, card.RankQ, c.Rank)
}

func TestSuitTracker_HighestOut_SuitExhausted(t *testing.T) {
	st := NewSuitTracker()

	for r := card.Rank2; r <= card.RankA; r++ {
		st.MarkPlayed(card.Card{Suit: card.Club, Rank: r})
	}

	assert.Equal(t, 0, st.Remaining(card.Club))
	_, ok := st.HighestOut(card.Club)
	assert.False(t, ok)
}

func TestSuitTracker_Reset(t *testing.T) {
	st := NewSuitTracker()
	st.MarkPlayed(card.Card{Suit: card.Heart, Rank: card.Rank9})

	st.Reset()

	assert.Equal(t, 13, st.Remaining(card.Heart))
	assert.False(t, st.WasPlayed(card.Card{Suit: card.Heart, Rank: card.Rank9}))
}
