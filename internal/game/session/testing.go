//go:build !production

package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/mahjong-scoreboard/internal/storage"
)

// MockStore 快照存储 mock
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveSession(ctx context.Context, data *storage.SessionData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockStore) LoadSession(ctx context.Context, id string) (*storage.SessionData, error) {
	args := m.Called(ctx, id)
	data, _ := args.Get(0).(*storage.SessionData)
	return data, args.Error(1)
}

func (m *MockStore) DeleteSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) ListSessionIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

// MockRecorder 排行榜记录 mock
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordSession(ctx context.Context, data *storage.SessionData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}
