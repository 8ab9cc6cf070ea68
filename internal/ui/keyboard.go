package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/tarneeb/internal/game/card"
	"github.com/palemoky/tarneeb/internal/sound"
)

// handleKeyPress 处理按键，返回是否已处理
func (m *OnlineModel) handleKeyPress(msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.client.Close()
		return true, tea.Quit
	}

	switch m.phase {
	case PhaseConnecting:
		if msg.Type == tea.KeyEsc {
			return true, tea.Quit
		}

	case PhaseLobby:
		return m.handleLobbyKeys(msg)

	case PhaseWaiting:
		return m.handleWaitingKeys(msg)

	case PhaseBidding:
		return m.handleBiddingKeys(msg)

	case PhaseTrumpSelect:
		return m.handleTrumpKeys(msg)

	case PhasePlaying:
		return m.handlePlayingKeys(msg)

	case PhaseGameOver:
		return m.handleGameOverKeys(msg)

	case PhaseLeaderboard, PhaseStats:
		switch msg.String() {
		case "esc", "q":
			m.phase = PhaseLobby
			m.input.Focus()
			return true, nil
		}
	}

	return false, nil
}

// handleLobbyKeys 大厅：1 创建房间，4 排行榜，5 战绩，其他输入视为房间号
func (m *OnlineModel) handleLobbyKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.client.Close()
		return true, tea.Quit

	case tea.KeyEnter:
		value := strings.ToUpper(strings.TrimSpace(m.input.Value()))
		m.input.SetValue("")

		switch value {
		case "":
			return true, nil
		case "1":
			_ = m.client.CreateRoom()
		case "4":
			_ = m.client.GetLeaderboard(0, 10)
		case "5":
			_ = m.client.GetStats()
		default:
			_ = m.client.JoinRoom(value)
		}
		return true, nil
	}

	return false, nil
}

// handleWaitingKeys 等待阶段：s 开始，1-4 换座位，q 离开
func (m *OnlineModel) handleWaitingKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "s":
		_ = m.client.StartGame()
		return true, nil
	case "1", "2", "3", "4":
		seat := int(msg.String()[0] - '1')
		_ = m.client.SwitchSeat(seat)
		return true, nil
	case "q", "esc":
		m.leaveRoom()
		return true, nil
	}
	return false, nil
}

// handleBiddingKeys 叫牌阶段：↑/↓ 调整额度，回车叫牌，p 过牌
func (m *OnlineModel) handleBiddingKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !m.state.MyTurn() {
		return false, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.bidAmount < 13 {
			m.bidAmount++
		}
		return true, nil
	case "down", "j":
		if m.bidAmount > m.minBid() {
			m.bidAmount--
		}
		return true, nil
	case "enter":
		_ = m.client.Bid(m.bidAmount)
		m.soundManager.Play(sound.SoundBid)
		return true, nil
	case "p":
		_ = m.client.Pass()
		return true, nil
	}
	return false, nil
}

// handleTrumpKeys 选将牌：s/h/d/c 对应四门花色
func (m *OnlineModel) handleTrumpKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !m.state.MyTurn() {
		return false, nil
	}

	suits := map[string]card.Suit{
		"s": card.Spade,
		"h": card.Heart,
		"d": card.Diamond,
		"c": card.Club,
	}
	if suit, ok := suits[msg.String()]; ok {
		_ = m.client.SelectTrump(suit)
		return true, nil
	}
	return false, nil
}

// handlePlayingKeys 出牌阶段：←/→ 移动光标，回车出牌
func (m *OnlineModel) handlePlayingKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil
	case "right", "l":
		if m.cursor < len(m.state.Hand)-1 {
			m.cursor++
		}
		return true, nil
	case "enter", " ":
		if m.state.MyTurn() && m.cursor < len(m.state.Hand) {
			_ = m.client.PlayCard(m.state.Hand[m.cursor])
			m.soundManager.Play(sound.SoundPlay)
		}
		return true, nil
	}
	return false, nil
}

// handleGameOverKeys 结算阶段：n 下一轮，r 重新开局，q 回大厅
func (m *OnlineModel) handleGameOverKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "n":
		_ = m.client.NextRound()
		return true, nil
	case "r":
		_ = m.client.RestartGame()
		return true, nil
	case "q", "esc":
		m.leaveRoom()
		return true, nil
	}
	return false, nil
}

// leaveRoom 离开房间回到大厅
func (m *OnlineModel) leaveRoom() {
	_ = m.client.LeaveRoom()
	m.state.Reset()
	m.phase = PhaseLobby
	m.input.Focus()
}
