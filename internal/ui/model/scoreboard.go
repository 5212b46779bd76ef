// Package model 计分板的 bubbletea 模型
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
	"github.com/palemoky/mahjong-scoreboard/internal/ui/common"
	"github.com/palemoky/mahjong-scoreboard/internal/ui/view"
)

// Conn 计分板所需的连接能力，由 transport.Client 实现
type Conn interface {
	Connect(ctx context.Context) error
	Subscribe(sessionID string) error
	Receive(ctx context.Context) (*protocol.Message, error)
	Latency() int64
	Close()
}

// ConnState 连接状态
type ConnState int

const (
	StateConnecting ConnState = iota
	StateLive
	StateDeleted
	StateDisconnected
)

// --- tea 消息 ---

// ConnectedMsg 连接成功
type ConnectedMsg struct{}

// ConnectionErrorMsg 连接失败或断开
type ConnectionErrorMsg struct{ Err error }

// ServerMessage 服务器推送
type ServerMessage struct{ Msg *protocol.Message }

// ScoreboardModel 订阅单个对局并实时显示分数
type ScoreboardModel struct {
	conn      Conn
	sessionID string

	state   ConnState
	session *protocol.SessionResponse
	table   table.Model
	err     string

	width  int
	height int
}

// NewScoreboardModel 创建计分板模型
func NewScoreboardModel(conn Conn, sessionID string) *ScoreboardModel {
	return &ScoreboardModel{
		conn:      conn,
		sessionID: sessionID,
		state:     StateConnecting,
	}
}

func (m *ScoreboardModel) Init() tea.Cmd {
	return m.connect()
}

func (m *ScoreboardModel) connect() tea.Cmd {
	return func() tea.Msg {
		if err := m.conn.Connect(context.Background()); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		if err := m.conn.Subscribe(m.sessionID); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

func (m *ScoreboardModel) listen() tea.Cmd {
	return func() tea.Msg {
		msg, err := m.conn.Receive(context.Background())
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

func (m *ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.conn.Close()
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case ConnectedMsg:
		m.state = StateLive
		m.err = ""
		return m, m.listen()

	case ConnectionErrorMsg:
		m.state = StateDisconnected
		if msg.Err != nil {
			m.err = msg.Err.Error()
		}
		return m, nil

	case ServerMessage:
		m.handleServerMessage(msg.Msg)
		if m.state == StateDisconnected {
			return m, nil
		}
		return m, m.listen()
	}
	return m, nil
}

func (m *ScoreboardModel) handleServerMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgSubscribed, protocol.MsgSessionUpdate:
		payload, err := protocol.ParsePayload[protocol.SessionUpdatePayload](msg)
		if err != nil || payload.Session.ID != m.sessionID {
			return
		}
		m.setSession(&payload.Session)

	case protocol.MsgSessionDeleted:
		payload, err := protocol.ParsePayload[protocol.SessionDeletedPayload](msg)
		if err == nil && payload.SessionID == m.sessionID {
			m.state = StateDeleted
		}

	case protocol.MsgServerShutdown:
		m.state = StateDisconnected
		m.err = "服务器正在关闭"

	case protocol.MsgError:
		if payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg); err == nil {
			m.err = payload.Message
		}
	}
}

func (m *ScoreboardModel) setSession(s *protocol.SessionResponse) {
	m.session = s
	m.err = ""
	if len(m.table.Columns()) == 0 {
		m.table = view.NewStandingsTable(s)
		return
	}
	m.table.SetRows(view.StandingsRows(s))
}

// --- 访问器 ---

func (m *ScoreboardModel) State() ConnState                   { return m.state }
func (m *ScoreboardModel) Session() *protocol.SessionResponse { return m.session }
func (m *ScoreboardModel) Err() string                        { return m.err }

func (m *ScoreboardModel) View() string {
	var sb strings.Builder
	sb.WriteString(common.TitleStyle("🀄 立直麻将计分板"))
	sb.WriteString("\n\n")

	switch {
	case m.session != nil:
		sb.WriteString(view.SessionView(m.session, m.table.View()))
	case m.state == StateConnecting:
		sb.WriteString("正在连接服务器...")
	default:
		sb.WriteString(fmt.Sprintf("等待对局 %s", m.sessionID))
	}
	sb.WriteString("\n")

	switch m.state {
	case StateDeleted:
		sb.WriteString(common.ErrorStyle.Render("对局已被删除"))
		sb.WriteString("\n")
	case StateDisconnected:
		sb.WriteString(common.ErrorStyle.Render(common.OfflineIcon + " 连接已断开"))
		sb.WriteString("\n")
	}
	if m.err != "" {
		sb.WriteString(common.ErrorStyle.Render(m.err))
		sb.WriteString("\n")
	}

	status := "q 退出"
	if m.state == StateLive {
		status = fmt.Sprintf("延迟 %dms · %s", m.conn.Latency(), status)
	}
	sb.WriteString(common.PromptStyle.Render(status))
	return common.DocStyle.Render(sb.String())
}
