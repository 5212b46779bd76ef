package model

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
)

type fakeConn struct {
	connectErr error
	subscribed []string
	inbox      chan *protocol.Message
	closed     bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbox: make(chan *protocol.Message, 8)}
}

func (f *fakeConn) Connect(context.Context) error { return f.connectErr }

func (f *fakeConn) Subscribe(id string) error {
	f.subscribed = append(f.subscribed, id)
	return nil
}

func (f *fakeConn) Receive(ctx context.Context) (*protocol.Message, error) {
	select {
	case msg := <-f.inbox:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeConn) Latency() int64 { return 12 }
func (f *fakeConn) Close()         { f.closed = true }

func snapshot(id string, scores ...int) protocol.SessionUpdatePayload {
	names := []string{"Alice", "Bob", "Carol", "Dave"}
	winds := []string{"East", "South", "West", "North"}
	s := protocol.SessionResponse{ID: id, KyokuName: "East 1", Status: "in_progress"}
	for i, name := range names {
		s.Players = append(s.Players, protocol.PlayerResponse{
			ID: name, Name: name, Score: scores[i], SeatWind: winds[i],
		})
	}
	return protocol.SessionUpdatePayload{Session: s}
}

func TestInit_ConnectsAndSubscribes(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	m := NewScoreboardModel(conn, "s1")

	msg := m.Init()()
	assert.IsType(t, ConnectedMsg{}, msg)
	assert.Equal(t, []string{"s1"}, conn.subscribed)

	_, cmd := m.Update(msg)
	assert.NotNil(t, cmd)
	assert.Equal(t, StateLive, m.State())
}

func TestInit_ConnectFailure(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	conn.connectErr = errors.New("dial refused")
	m := NewScoreboardModel(conn, "s1")

	msg := m.Init()()
	_, cmd := m.Update(msg)
	assert.Nil(t, cmd)
	assert.Equal(t, StateDisconnected, m.State())
	assert.Equal(t, "dial refused", m.Err())
	assert.Contains(t, m.View(), "连接已断开")
}

func TestUpdate_SessionSnapshots(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	m := NewScoreboardModel(conn, "s1")
	m.Update(ConnectedMsg{})

	m.Update(ServerMessage{Msg: protocol.MustNewMessage(protocol.MsgSubscribed, snapshot("s1", 25000, 25000, 25000, 25000))})
	require.NotNil(t, m.Session())
	assert.Equal(t, 25000, m.Session().Players[0].Score)

	_, cmd := m.Update(ServerMessage{Msg: protocol.MustNewMessage(protocol.MsgSessionUpdate, snapshot("s1", 33000, 17000, 25000, 25000))})
	assert.NotNil(t, cmd)
	assert.Equal(t, 33000, m.Session().Players[0].Score)

	view := m.View()
	assert.Contains(t, view, "Alice")
	assert.Contains(t, view, "33000")
	assert.Contains(t, view, "延迟 12ms")
}

func TestUpdate_IgnoresOtherSessions(t *testing.T) {
	t.Parallel()

	m := NewScoreboardModel(newFakeConn(), "s1")
	m.Update(ServerMessage{Msg: protocol.MustNewMessage(protocol.MsgSessionUpdate, snapshot("other", 1, 2, 3, 4))})
	assert.Nil(t, m.Session())
}

func TestUpdate_SessionDeleted(t *testing.T) {
	t.Parallel()

	m := NewScoreboardModel(newFakeConn(), "s1")
	m.Update(ConnectedMsg{})
	m.Update(ServerMessage{Msg: protocol.MustNewMessage(protocol.MsgSessionDeleted, protocol.SessionDeletedPayload{SessionID: "s1"})})

	assert.Equal(t, StateDeleted, m.State())
	assert.Contains(t, m.View(), "对局已被删除")
}

func TestUpdate_ServerShutdown(t *testing.T) {
	t.Parallel()

	m := NewScoreboardModel(newFakeConn(), "s1")
	m.Update(ConnectedMsg{})
	_, cmd := m.Update(ServerMessage{Msg: protocol.MustNewMessage(protocol.MsgServerShutdown, nil)})

	assert.Nil(t, cmd)
	assert.Equal(t, StateDisconnected, m.State())
	assert.Equal(t, "服务器正在关闭", m.Err())
}

func TestUpdate_ErrorMessage(t *testing.T) {
	t.Parallel()

	m := NewScoreboardModel(newFakeConn(), "s1")
	m.Update(ConnectedMsg{})
	m.Update(ServerMessage{Msg: protocol.NewErrorMessageWithText(protocol.ErrCodeNotFound, "session not found")})

	assert.Equal(t, "session not found", m.Err())
	assert.Equal(t, StateLive, m.State())
}

func TestUpdate_Quit(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	m := NewScoreboardModel(conn, "s1")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, conn.closed)
}

func TestListen_ReceivesNextMessage(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	m := NewScoreboardModel(conn, "s1")
	conn.inbox <- protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{})

	_, cmd := m.Update(ConnectedMsg{})
	require.NotNil(t, cmd)
	msg, ok := cmd().(ServerMessage)
	require.True(t, ok)
	assert.Equal(t, protocol.MsgPong, msg.Msg.Type)
}
