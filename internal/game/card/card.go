package card

import (
	"fmt"
	"math/rand/v2"
)

// Suit 定义花色
type Suit int

// Rank 定义点数
type Rank int

// CardColor 定义牌的颜色
type CardColor int

const (
	Black CardColor = iota
	Red
)

const (
	Spade   Suit = iota // 黑桃
	Heart               // 红心
	Diamond             // 方块
	Club                // 梅花
)

// NoSuit 表示尚未确定的花色（将牌未选定、新一墩未首攻）
const NoSuit Suit = -1

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Spade:   "♠",
	Heart:   "♥",
	Diamond: "♦",
	Club:    "♣",
}

// suitCodes 花色的线路编码
var suitCodes = map[Suit]string{
	Spade:   "S",
	Heart:   "H",
	Diamond: "D",
	Club:    "C",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return ""
}

// Code 返回花色的单字母编码（用于协议传输）
func (s Suit) Code() string {
	if code, ok := suitCodes[s]; ok {
		return code
	}
	return ""
}

// Color 返回花色对应的颜色
func (s Suit) Color() CardColor {
	if s == Heart || s == Diamond {
		return Red
	}
	return Black
}

// SuitFromCode 根据编码查找花色
func SuitFromCode(code string) (Suit, error) {
	for s, c := range suitCodes {
		if c == code {
			return s, nil
		}
	}
	return NoSuit, fmt.Errorf("无法识别的花色: %q", code)
}

// 点数从 2 到 A 递增，值域 0-12，仅用于比较大小
const (
	Rank2 Rank = iota
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ // Jack
	RankQ // Queen
	RankK // King
	RankA // Ace
)

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	Rank2:  "2",
	Rank3:  "3",
	Rank4:  "4",
	Rank5:  "5",
	Rank6:  "6",
	Rank7:  "7",
	Rank8:  "8",
	Rank9:  "9",
	Rank10: "10",
	RankJ:  "J",
	RankQ:  "Q",
	RankK:  "K",
	RankA:  "A",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "?"
}

// RankValue 返回点数的比较值（0-12），仅用于排序，不参与序列化
func RankValue(r Rank) int {
	return int(r)
}

// RankFromName 根据牌面值字符串查找 Rank
func RankFromName(name string) (Rank, error) {
	for r, n := range rankNames {
		if n == name {
			return r, nil
		}
	}
	return -1, fmt.Errorf("无法识别的点数: %q", name)
}

// Card 定义一张牌
type Card struct {
	Suit Suit
	Rank Rank
}

func (c Card) String() string {
	return c.Suit.String() + c.Rank.String()
}

// Deck 定义一副牌
type Deck []Card

// DeckSize 一副牌的张数
const DeckSize = 52

// NewDeck 创建固定顺序的一副 52 张牌（洗牌由 Shuffle 单独完成）
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for s := Spade; s <= Club; s++ {
		for r := Rank2; r <= RankA; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle 使用传入的随机源原地洗牌（Fisher-Yates，从末尾开始）
// 随机源由调用方注入，便于测试中复现同一副牌
func (d Deck) Shuffle(rng *rand.Rand) {
	for i := len(d) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Beats 判断 a 是否能吃掉 b（b 为 nil 时 a 直接获胜，用于墩内逐张比较的起始状态）
//
// 比较规则：
//  1. 将牌吃掉任何非将牌
//  2. 两张将牌比点数
//  3. 两张首攻花色的牌比点数
//  4. 首攻花色吃掉垫牌
//  5. 两张垫牌比点数（决定墩的归属时到不了这一分支，因为首攻牌始终在候选之中，
//     保留它只为比较器本身的完备性）
func Beats(a Card, b *Card, trump, lead Suit) bool {
	if b == nil {
		return true
	}

	if a.Suit == trump {
		if b.Suit != trump {
			return true
		}
		return a.Rank > b.Rank
	}

	if b.Suit == trump {
		return false
	}

	if a.Suit == lead {
		if b.Suit != lead {
			return true
		}
		return a.Rank > b.Rank
	}

	if b.Suit == lead {
		return false
	}

	return a.Rank > b.Rank
}
