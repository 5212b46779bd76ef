//go:build !production

package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/palemoky/mahjong-scoreboard/internal/types"
)

// MockServer 实现 types.ServerInterface 的 mock
type MockServer struct {
	mock.Mock
}

func (m *MockServer) IsShuttingDown() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockServer) GetOnlineCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockServer) Subscribe(client types.ClientInterface, sessionID string) {
	m.Called(client, sessionID)
}

func (m *MockServer) Unsubscribe(client types.ClientInterface, sessionID string) {
	m.Called(client, sessionID)
}

func (m *MockServer) PublishDeleted(sessionID string) {
	m.Called(sessionID)
}
