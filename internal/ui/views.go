package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/tarneeb/internal/protocol"
)

func (m *OnlineModel) View() string {
	var body string

	switch m.phase {
	case PhaseConnecting:
		body = m.connectingView()
	case PhaseLobby:
		body = m.lobbyView()
	case PhaseWaiting:
		body = m.waitingView()
	case PhaseLeaderboard:
		body = m.leaderboardView()
	case PhaseStats:
		body = m.statsView()
	default:
		body = m.tableView()
	}

	var extras []string
	if m.reconnectMessage != "" {
		extras = append(extras, m.reconnectMessage)
	}
	if m.notice != "" {
		extras = append(extras, m.notice)
	}
	if m.error != "" {
		extras = append(extras, errorStyle.Render(m.error))
	}
	if len(extras) > 0 {
		body += "\n" + strings.Join(extras, "\n")
	}

	return docStyle.Render(body)
}

func (m *OnlineModel) connectingView() string {
	if m.error != "" {
		return errorStyle.Render(m.error)
	}
	return "🔌 正在连接服务器..."
}

func (m *OnlineModel) lobbyView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle("🂡 塔尼布"))
	sb.WriteString("\n\n")

	if m.playerName != "" {
		sb.WriteString(fmt.Sprintf("欢迎, %s!", m.playerName))
		if m.latency > 0 {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  (%dms)", m.latency)))
		}
		sb.WriteString("\n\n")
	}

	menu := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		"请选择:",
		"",
		"  1. 创建房间",
		"  4. 排行榜",
		"  5. 我的战绩",
		"",
		"  或直接输入房间号加入",
	))
	sb.WriteString(menu)
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())

	return sb.String()
}

func (m *OnlineModel) waitingView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle(fmt.Sprintf("房间 %s", m.state.RoomCode)))
	sb.WriteString("\n\n")

	for seat := 0; seat < 4; seat++ {
		p := m.state.PlayerAt(seat)
		if p == nil {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  座位 %d: （空）", seat+1)))
			sb.WriteString("\n")
			continue
		}
		line := fmt.Sprintf("  座位 %d: %s %s", seat+1, renderAvatar(p.Avatar), p.Name)
		if p.ID == m.playerID {
			line += " (我)"
		}
		if !p.Connected {
			line += " " + OfflineIcon
		}
		sb.WriteString(teamStyle(p.Team).Render(line))
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  [%d 队]", p.Team)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("同队坐对家：1/3 为一队，2/4 为一队\n"))
	sb.WriteString(dimStyle.Render("[1-4] 换座位  [s] 开始游戏  [q] 离开房间"))

	return sb.String()
}

// tableView 牌桌视图：发牌/叫牌/选将/出牌/结算共用
func (m *OnlineModel) tableView() string {
	var sb strings.Builder

	sb.WriteString(m.renderHeader())
	sb.WriteString("\n\n")
	sb.WriteString(m.renderSeats())
	sb.WriteString("\n")
	sb.WriteString(m.renderTrick())
	sb.WriteString("\n")
	sb.WriteString(m.renderHand())
	sb.WriteString("\n")

	switch m.phase {
	case PhaseDealing:
		sb.WriteString(dimStyle.Render("正在发牌..."))
	case PhaseBidding:
		sb.WriteString(m.renderBiddingPrompt())
	case PhaseTrumpSelect:
		sb.WriteString(m.renderTrumpPrompt())
	case PhasePlaying:
		if m.state.MyTurn() {
			sb.WriteString(turnStyle.Render("轮到你出牌  [←/→] 选牌  [回车] 出牌"))
		} else {
			sb.WriteString(dimStyle.Render(m.turnHint()))
		}
	case PhaseGameOver:
		sb.WriteString(m.renderOutcome())
	}

	return sb.String()
}

func (m *OnlineModel) renderHeader() string {
	parts := []string{fmt.Sprintf("房间 %s", m.state.RoomCode)}

	if m.state.HighestBid.Seat >= 0 {
		bidder := m.state.PlayerAt(m.state.HighestBid.Seat)
		name := "?"
		if bidder != nil {
			name = bidder.Name
		}
		parts = append(parts, fmt.Sprintf("叫牌 %d (%s)", m.state.HighestBid.Amount, name))
	}
	if m.state.TrumpSuit >= 0 {
		parts = append(parts, fmt.Sprintf("%s 将牌 %s", TrumpIcon, m.state.TrumpSuit.String()))
	}
	if m.state.TricksWon != nil {
		parts = append(parts, fmt.Sprintf("墩数 %d:%d", m.state.TricksWon[1], m.state.TricksWon[2]))
	}
	parts = append(parts, fmt.Sprintf("跑分 %d (%d 队)", m.state.RunnerScore, m.state.RunnerTeam))

	return titleStyle(strings.Join(parts, "  │  "))
}

// renderSeats 按座位顺序列出四名玩家和状态标记
func (m *OnlineModel) renderSeats() string {
	var lines []string
	for seat := 0; seat < 4; seat++ {
		p := m.state.PlayerAt(seat)
		if p == nil {
			continue
		}

		var marks []string
		if seat == m.state.DealerIndex {
			marks = append(marks, DealerIcon)
		}
		if !p.Connected {
			marks = append(marks, OfflineIcon)
		}
		if m.isActiveSeat(seat) {
			marks = append(marks, "◀")
		}

		line := fmt.Sprintf("%s %s  手牌 %d  %s",
			renderAvatar(p.Avatar), truncateName(p.Name, 12), p.HandCount, strings.Join(marks, " "))
		if p.ID == m.playerID {
			line = "▸ " + line
		} else {
			line = "  " + line
		}
		lines = append(lines, teamStyle(p.Team).Render(line))
	}
	return strings.Join(lines, "\n")
}

// renderTrick 当前墩的出牌
func (m *OnlineModel) renderTrick() string {
	if len(m.state.Trick) == 0 {
		return dimStyle.Render("（本墩尚无人出牌）")
	}

	var parts []string
	for _, tp := range m.state.Trick {
		name := "?"
		if p := m.state.PlayerAt(tp.Seat); p != nil {
			name = truncateName(p.Name, 8)
		}
		if c, err := protocol.InfoToCard(tp.Card); err == nil {
			parts = append(parts, fmt.Sprintf("%s %s", name, renderCard(c)))
		}
	}
	return boxStyle.Render(strings.Join(parts, "   "))
}

// renderHand 自己的手牌，出牌阶段带光标
func (m *OnlineModel) renderHand() string {
	if len(m.state.Hand) == 0 {
		return ""
	}

	var parts []string
	for i, c := range m.state.Hand {
		rendered := renderCard(c)
		if m.phase == PhasePlaying && i == m.cursor {
			rendered = selectStyle.Render(" " + c.Suit.String() + c.Rank.String() + " ")
		}
		parts = append(parts, rendered)
	}
	return "手牌: " + strings.Join(parts, " ")
}

func (m *OnlineModel) renderBiddingPrompt() string {
	if !m.state.MyTurn() {
		return dimStyle.Render(m.turnHint())
	}
	return turnStyle.Render(fmt.Sprintf("轮到你叫牌: %d  [↑/↓] 调整 (7-13)  [回车] 叫牌  [p] 过牌", m.bidAmount))
}

func (m *OnlineModel) renderTrumpPrompt() string {
	if !m.state.MyTurn() {
		return dimStyle.Render("等待叫牌获胜者选将牌...")
	}
	return turnStyle.Render("你赢得叫牌！选择将牌: [s] ♠  [h] ♥  [d] ♦  [c] ♣")
}

func (m *OnlineModel) renderOutcome() string {
	o := m.state.Outcome
	if o == nil {
		return ""
	}

	var sb strings.Builder
	if o.Success {
		sb.WriteString(fmt.Sprintf("🏆 %d 队叫牌 %d 成功！拿下 %d 墩\n", o.BiddingTeam, o.BidAmount, o.TricksWon))
	} else {
		sb.WriteString(fmt.Sprintf("💥 %d 队叫牌 %d 失败，只拿到 %d 墩\n", o.BiddingTeam, o.BidAmount, o.TricksWon))
	}
	sb.WriteString(fmt.Sprintf("跑分: %d (%d 队)\n\n", o.RunnerScore, o.RunnerTeam))
	sb.WriteString(dimStyle.Render("[n] 下一轮  [r] 重新开局  [q] 回大厅"))

	return boxStyle.Render(sb.String())
}

func (m *OnlineModel) leaderboardView() string {
	var sb strings.Builder
	sb.WriteString("🏆 排行榜 TOP 10\n")
	sb.WriteString(strings.Repeat("─", 50) + "\n")
	sb.WriteString(fmt.Sprintf("%-4s %-12s %8s %6s %8s\n", "排名", "玩家", "积分", "胜场", "胜率"))
	sb.WriteString(strings.Repeat("─", 50) + "\n")

	for _, e := range m.leaderboard {
		rankIcon := ""
		switch e.Rank {
		case 1:
			rankIcon = "🥇"
		case 2:
			rankIcon = "🥈"
		case 3:
			rankIcon = "🥉"
		default:
			rankIcon = fmt.Sprintf("%2d.", e.Rank)
		}
		sb.WriteString(fmt.Sprintf("%-4s %-12s %8d %6d %7.1f%%\n",
			rankIcon, truncateName(e.PlayerName, 10), e.Score, e.Wins, e.WinRate))
	}
	sb.WriteString(fmt.Sprintf("\n共 %d 名玩家上榜", m.leaderboardTotal))
	sb.WriteString("\n\n" + dimStyle.Render("[q] 返回大厅"))

	return boxStyle.Render(sb.String())
}

func (m *OnlineModel) statsView() string {
	s := m.myStats
	var sb strings.Builder
	sb.WriteString("📊 我的战绩\n")
	sb.WriteString(strings.Repeat("─", 40) + "\n")
	sb.WriteString(fmt.Sprintf("积分: %d\n", s.Score))
	sb.WriteString(fmt.Sprintf("总轮数: %d  胜: %d  负: %d  胜率: %.1f%%\n",
		s.TotalRounds, s.Wins, s.Losses, winRate(s.Wins, s.TotalRounds)))
	sb.WriteString(fmt.Sprintf("叫牌方: %d 胜 / %d 轮 (%.1f%%)\n",
		s.BidWins, s.BidRounds, winRate(s.BidWins, s.BidRounds)))
	sb.WriteString("\n" + dimStyle.Render("[q] 返回大厅"))

	return boxStyle.Render(sb.String())
}

// turnHint 轮到谁的提示
func (m *OnlineModel) turnHint() string {
	seat := m.state.CurrentTurnIndex
	if m.phase == PhaseBidding {
		seat = m.state.CurrentBidderIndex
	}
	if p := m.state.PlayerAt(seat); p != nil {
		return fmt.Sprintf("等待 %s 行动...", p.Name)
	}
	return "等待其他玩家..."
}

// isActiveSeat 该座位是否正在行动
func (m *OnlineModel) isActiveSeat(seat int) bool {
	if m.phase == PhaseBidding {
		return m.state.CurrentBidderIndex == seat
	}
	return m.state.CurrentTurnIndex == seat
}
