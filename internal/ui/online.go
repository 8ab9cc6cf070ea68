package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/tarneeb/internal/client"
	"github.com/palemoky/tarneeb/internal/protocol"
	"github.com/palemoky/tarneeb/internal/sound"
)

// 游戏阶段
type GamePhase int

const (
	PhaseConnecting GamePhase = iota
	PhaseLobby
	PhaseWaiting
	PhaseDealing
	PhaseBidding
	PhaseTrumpSelect
	PhasePlaying
	PhaseGameOver
	PhaseLeaderboard
	PhaseStats
)

// ServerMessage 服务器消息（用于 tea.Msg）
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg 连接成功消息
type ConnectedMsg struct{}

// ConnectionErrorMsg 连接错误消息
type ConnectionErrorMsg struct {
	Err error
}

// ReconnectSuccessMsg 重连成功消息
type ReconnectSuccessMsg struct{}

// ClearReconnectMsg 清除重连提示
type ClearReconnectMsg struct{}

// ClearErrorMsg 清除错误提示
type ClearErrorMsg struct{}

// ClearNoticeMsg 清除通知
type ClearNoticeMsg struct{}

// OnlineModel 联网模式的 model
type OnlineModel struct {
	client *client.Client
	state  *client.GameState
	phase  GamePhase
	error  string
	notice string

	// 玩家信息
	playerID   string
	playerName string

	// 网络状态
	latency int64

	// 重连状态
	reconnectMessage string
	reconnectChan    chan tea.Msg

	// 牌桌光标和叫牌额度
	cursor    int
	bidAmount int

	// 排行榜/战绩
	leaderboard      []protocol.LeaderboardEntryPayload
	leaderboardTotal int
	myStats          protocol.PlayerStatsPayload

	// Audio
	soundManager *sound.SoundManager

	// UI 组件
	input  textinput.Model
	width  int
	height int
}

// NewOnlineModel 创建联网模式 model
func NewOnlineModel(serverURL string) *OnlineModel {
	ti := textinput.New()
	ti.Placeholder = "输入选项或房间号..."
	ti.CharLimit = 10
	ti.Width = 24
	ti.Focus()

	c := client.NewClient(serverURL)
	reconnectChan := make(chan tea.Msg, 10)

	m := &OnlineModel{
		client:        c,
		state:         client.NewGameState(),
		phase:         PhaseConnecting,
		input:         ti,
		reconnectChan: reconnectChan,
		soundManager:  sound.NewSoundManager(),
	}

	// 重连成功回调 - 通过 channel 发送消息到 Bubble Tea
	c.OnReconnect = func() {
		select {
		case reconnectChan <- ReconnectSuccessMsg{}:
		default:
		}
	}

	return m
}

func (m *OnlineModel) Init() tea.Cmd {
	go func() {
		_ = m.soundManager.Init()
	}()

	return tea.Batch(
		m.connectToServer(),
		textinput.Blink,
		m.listenForReconnect(),
	)
}

// connectToServer 连接服务器
func (m *OnlineModel) connectToServer() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

// listenForMessages 监听服务器消息
func (m *OnlineModel) listenForMessages() tea.Cmd {
	return func() tea.Msg {
		msg, err := m.client.Receive()
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

// listenForReconnect 监听重连消息
func (m *OnlineModel) listenForReconnect() tea.Cmd {
	return func() tea.Msg {
		return <-m.reconnectChan
	}
}

func (m *OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		handled, cmd := m.handleKeyPress(msg)
		if handled {
			return m, cmd
		}

	case ConnectedMsg:
		m.phase = PhaseLobby
		m.playerID = m.client.PlayerID
		m.playerName = m.client.PlayerName
		m.client.StartHeartbeat()
		cmds = append(cmds, m.listenForMessages())

	case ConnectionErrorMsg:
		m.error = fmt.Sprintf("无法连接到服务器: %v\n\n按 ESC 退出", msg.Err)
		m.phase = PhaseConnecting

	case ReconnectSuccessMsg:
		m.reconnectMessage = "✅ 重连成功！"
		cmds = append(cmds,
			tea.Tick(3*time.Second, func(time.Time) tea.Msg { return ClearReconnectMsg{} }),
			m.listenForReconnect(),
		)
		// 重连后 receive channel 被重置，需要重新监听
		if m.client.IsConnected() {
			cmds = append(cmds, m.listenForMessages())
		}

	case ClearReconnectMsg:
		m.reconnectMessage = ""

	case ClearErrorMsg:
		m.error = ""

	case ClearNoticeMsg:
		m.notice = ""

	case ServerMessage:
		if cmd := m.handleServerMessage(msg.Msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.client.IsConnected() {
			cmds = append(cmds, m.listenForMessages())
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleServerMessage 处理服务器消息
func (m *OnlineModel) handleServerMessage(msg *protocol.Message) tea.Cmd {
	m.state.ApplyMessage(msg)
	m.latency = m.client.GetLatency()

	switch msg.Type {
	case protocol.MsgError:
		payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			return nil
		}
		m.error = payload.Message
		return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return ClearErrorMsg{} })

	case protocol.MsgRoomCreated, protocol.MsgRoomJoined:
		m.phase = PhaseWaiting
		m.input.SetValue("")
		m.input.Blur()

	case protocol.MsgReconnected:
		payload, err := protocol.ParsePayload[protocol.ReconnectedPayload](msg)
		if err == nil {
			m.playerID = payload.PlayerID
			m.playerName = payload.PlayerName
			if payload.RoomCode == "" {
				m.phase = PhaseLobby
				m.input.Focus()
			}
		}

	case protocol.MsgGameState:
		m.syncPhase()

	case protocol.MsgGameStarting:
		m.soundManager.Play(sound.SoundDeal)

	case protocol.MsgTrickCollected:
		m.soundManager.Play(sound.SoundTrick)

	case protocol.MsgPlayerOffline:
		if payload, err := protocol.ParsePayload[protocol.PlayerOfflinePayload](msg); err == nil {
			m.notice = fmt.Sprintf("📴 %s 掉线了", payload.PlayerName)
			return tea.Tick(5*time.Second, func(time.Time) tea.Msg { return ClearNoticeMsg{} })
		}

	case protocol.MsgPlayerOnline:
		if payload, err := protocol.ParsePayload[protocol.PlayerOnlinePayload](msg); err == nil {
			m.notice = fmt.Sprintf("🔄 %s 回来了", payload.PlayerName)
			return tea.Tick(5*time.Second, func(time.Time) tea.Msg { return ClearNoticeMsg{} })
		}

	case protocol.MsgStatsResult:
		if payload, err := protocol.ParsePayload[protocol.PlayerStatsPayload](msg); err == nil {
			m.myStats = *payload
			m.phase = PhaseStats
		}

	case protocol.MsgLeaderboardResult:
		if payload, err := protocol.ParsePayload[protocol.LeaderboardPayload](msg); err == nil {
			m.leaderboard = payload.Entries
			m.leaderboardTotal = payload.Total
			m.phase = PhaseLeaderboard
		}
	}

	return nil
}

// syncPhase 把服务器下发的阶段映射到 UI 阶段
func (m *OnlineModel) syncPhase() {
	prev := m.phase

	switch m.state.Phase {
	case "WAITING":
		m.phase = PhaseWaiting
	case "DEALER_SELECT", "DEALING_1", "DEALING_2":
		m.phase = PhaseDealing
	case "BIDDING":
		m.phase = PhaseBidding
	case "TRUMP_SELECT":
		m.phase = PhaseTrumpSelect
	case "PLAYING":
		m.phase = PhasePlaying
	case "GAME_OVER":
		m.phase = PhaseGameOver
		if prev != PhaseGameOver && m.state.Outcome != nil {
			if m.state.Outcome.WinningTeam == m.state.MyTeam() {
				m.soundManager.Play(sound.SoundWin)
			} else {
				m.soundManager.Play(sound.SoundLose)
			}
		}
	}

	// 进入叫牌阶段时给出默认叫牌额度
	if m.phase == PhaseBidding && prev != PhaseBidding {
		m.bidAmount = m.minBid()
	}
	if m.bidAmount < m.minBid() {
		m.bidAmount = m.minBid()
	}

	// 手牌变化后收紧光标
	if m.cursor >= len(m.state.Hand) {
		m.cursor = max(0, len(m.state.Hand)-1)
	}
}

// minBid 当前允许的最低叫牌
func (m *OnlineModel) minBid() int {
	bid := m.state.HighestBid.Amount + 1
	if bid < 7 {
		bid = 7
	}
	return bid
}
