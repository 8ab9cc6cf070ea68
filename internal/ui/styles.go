package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/tarneeb/internal/game/card"
)

// Icon constants
const (
	DealerIcon  = "👑"
	OfflineIcon = "📴"
	TrumpIcon   = "🃏"
)

// Lipgloss Styles
var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	blackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	turnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	team1Style  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	team2Style  = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	selectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("228")).Bold(true)
)

// renderCard 渲染单张牌，红花色用红底白字
func renderCard(c card.Card) string {
	text := " " + c.Suit.String() + c.Rank.String() + " "
	if c.Suit.Color() == card.Red {
		return redStyle.Render(text)
	}
	return blackStyle.Render(text)
}

// teamStyle 按队伍取配色
func teamStyle(team int) lipgloss.Style {
	if team == 1 {
		return team1Style
	}
	return team2Style
}
