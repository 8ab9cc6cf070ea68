package protocol

import (
	"github.com/palemoky/tarneeb/internal/game/card"
)

// CardToInfo 将 card.Card 转换为线路表示
func CardToInfo(c card.Card) CardInfo {
	return CardInfo{
		Suit: c.Suit.Code(),
		Rank: c.Rank.String(),
	}
}

// CardsToInfos 批量转换
func CardsToInfos(cards []card.Card) []CardInfo {
	infos := make([]CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = CardToInfo(c)
	}
	return infos
}

// InfoToCard 将线路表示转换回 card.Card
func InfoToCard(info CardInfo) (card.Card, error) {
	suit, err := card.SuitFromCode(info.Suit)
	if err != nil {
		return card.Card{}, err
	}
	rank, err := card.RankFromName(info.Rank)
	if err != nil {
		return card.Card{}, err
	}
	return card.Card{Suit: suit, Rank: rank}, nil
}
