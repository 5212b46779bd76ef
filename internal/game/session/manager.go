package session

import (
	"context"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/palemoky/mahjong-scoreboard/internal/apperrors"
	"github.com/palemoky/mahjong-scoreboard/internal/game/rules"
	"github.com/palemoky/mahjong-scoreboard/internal/logger"
	"github.com/palemoky/mahjong-scoreboard/internal/storage"
)

// Store 对局快照存储
type Store interface {
	SaveSession(ctx context.Context, data *storage.SessionData) error
	LoadSession(ctx context.Context, id string) (*storage.SessionData, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessionIDs(ctx context.Context) ([]string, error)
}

// Recorder 记录已结束对局（排行榜）
type Recorder interface {
	RecordSession(ctx context.Context, data *storage.SessionData) error
}

// Listener 对局变更回调，参数为快照副本。
// 回调在对局锁内执行，不得阻塞，也不得再操作同一对局
type Listener func(s *Session)

// entry 单个对局及其互斥锁
type entry struct {
	mu      sync.Mutex
	session *Session
	deleted bool
}

// Manager 对局管理器：按对局加锁，不同对局互不阻塞
type Manager struct {
	store    Store
	recorder Recorder

	sessions map[string]*entry
	mu       sync.RWMutex
	restores singleflight.Group

	listeners   []Listener
	listenersMu sync.RWMutex
}

// NewManager 创建对局管理器，store 与 recorder 可为 nil（仅内存）
func NewManager(store Store, recorder Recorder) *Manager {
	return &Manager{
		store:    store,
		recorder: recorder,
		sessions: make(map[string]*entry),
	}
}

// Subscribe 注册变更回调
func (m *Manager) Subscribe(fn Listener) {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// CreateSession 创建对局
func (m *Manager) CreateSession(ctx context.Context, names []string, startingScore int, r *rules.Rules) (*Session, error) {
	s, err := New(names, startingScore, r)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithSession(ctx, s.ID)
	e := &entry{session: s}
	m.mu.Lock()
	m.sessions[s.ID] = e
	m.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	snapshot := s.Clone()
	m.persist(ctx, s.ToData())

	logger.Info(ctx).Strs("players", names).Msg("🀄 对局已创建")
	m.notify(snapshot)
	return snapshot, nil
}

// GetSession 获取对局快照
func (m *Manager) GetSession(ctx context.Context, id string) (*Session, error) {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return nil, apperrors.ErrSessionNotFound
	}
	return e.session.Clone(), nil
}

// ListSessions 所有对局，按创建时间倒序
func (m *Manager) ListSessions() []*Session {
	return m.filter(func(*Session) bool { return true })
}

// SessionsByPlayerName 包含该玩家名的对局（不区分大小写）
func (m *Manager) SessionsByPlayerName(name string) []*Session {
	return m.filter(func(s *Session) bool { return s.HasPlayerNamed(name) })
}

// SessionByAllPlayers 四名玩家完全相同（顺序不限）的最近一场对局
func (m *Manager) SessionByAllPlayers(names []string) (*Session, bool) {
	want := normalizeNames(names)
	if len(want) != SeatCount {
		return nil, false
	}
	matches := m.filter(func(s *Session) bool {
		got := make([]string, 0, SeatCount)
		for _, p := range s.Players {
			got = append(got, p.Name)
		}
		return slices.Equal(normalizeNames(got), want)
	})
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// ActiveSessionByPlayerName 该玩家最近一场进行中的对局
func (m *Manager) ActiveSessionByPlayerName(name string) (*Session, bool) {
	matches := m.filter(func(s *Session) bool {
		return !s.IsCompleted() && s.HasPlayerNamed(name)
	})
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// DeleteSession 删除对局
func (m *Manager) DeleteSession(ctx context.Context, id string) error {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return apperrors.ErrSessionNotFound
	}
	e.deleted = true
	ctx = logger.WithSession(ctx, id)

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.DeleteSession(ctx, id); err != nil {
			logger.Warn(ctx).Err(err).Msg("删除对局快照失败")
		}
	}
	logger.Info(ctx).Msg("🗑️ 对局已删除")
	return nil
}

// RecordWin 记录和牌
func (m *Manager) RecordWin(ctx context.Context, id string, winners []WinEntry, loserID string) ([]HandResult, *Session, error) {
	var results []HandResult
	snapshot, err := m.mutate(ctx, id, func(s *Session) error {
		var err error
		results, err = s.RecordWin(winners, loserID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return results, snapshot, nil
}

// RecordDraw 记录流局
func (m *Manager) RecordDraw(ctx context.Context, id string, drawType DrawType, readyIDs []string) (*DrawResult, *Session, error) {
	var result *DrawResult
	snapshot, err := m.mutate(ctx, id, func(s *Session) error {
		var err error
		result, err = s.RecordDraw(drawType, readyIDs)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return result, snapshot, nil
}

// DeclareRiichi 立直宣言
func (m *Manager) DeclareRiichi(ctx context.Context, id, playerID string) (*Session, error) {
	return m.mutate(ctx, id, func(s *Session) error {
		return s.DeclareRiichi(playerID)
	})
}

// EndSession 手动结束对局
func (m *Manager) EndSession(ctx context.Context, id string) (*Session, error) {
	return m.mutate(ctx, id, func(s *Session) error {
		return s.End()
	})
}

// Restore 启动时从存储加载所有对局，返回加载数量
func (m *Manager) Restore(ctx context.Context) (int, error) {
	if m.store == nil {
		return 0, nil
	}
	ids, err := m.store.ListSessionIDs(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, id := range ids {
		if _, err := m.lookup(ctx, id); err != nil {
			logger.Warn(logger.WithSession(ctx, id)).Err(err).Msg("恢复对局失败")
			continue
		}
		restored++
	}
	logger.Info(ctx).Int("count", restored).Msg("♻️ 已从存储恢复对局")
	return restored, nil
}

// Count 返回对局总数与进行中的数量
func (m *Manager) Count() (total, active int) {
	for _, s := range m.ListSessions() {
		total++
		if !s.IsCompleted() {
			active++
		}
	}
	return total, active
}

// mutate 在对局锁内执行变更，成功后保存快照、记录排行榜并通知订阅者。
// 通知同样在锁内完成，同一对局的推送顺序与变更顺序一致
func (m *Manager) mutate(ctx context.Context, id string, fn func(s *Session) error) (*Session, error) {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithSession(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return nil, apperrors.ErrSessionNotFound
	}
	wasCompleted := e.session.IsCompleted()
	if err := fn(e.session); err != nil {
		return nil, err
	}
	snapshot := e.session.Clone()
	data := e.session.ToData()
	m.persist(ctx, data)

	if !wasCompleted && snapshot.IsCompleted() {
		logger.Info(ctx).Str("winner", snapshot.WinnerID).Msg("🏁 对局结束")
		if m.recorder != nil {
			if err := m.recorder.RecordSession(ctx, data); err != nil {
				logger.Error(ctx).Err(err).Msg("记录排行榜失败")
			}
		}
	}

	m.notify(snapshot)
	return snapshot, nil
}

// lookup 先查内存，未命中时从存储恢复，同一 ID 的并发恢复只执行一次
func (m *Manager) lookup(ctx context.Context, id string) (*entry, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return e, nil
	}
	if m.store == nil || id == "" {
		return nil, apperrors.ErrSessionNotFound
	}

	v, err, _ := m.restores.Do(id, func() (any, error) {
		m.mu.RLock()
		cached, ok := m.sessions[id]
		m.mu.RUnlock()
		if ok {
			return cached, nil
		}

		data, err := m.store.LoadSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if data == nil {
			return nil, apperrors.ErrSessionNotFound
		}
		s, err := FromData(data)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if existing, ok := m.sessions[id]; ok {
			return existing, nil
		}
		restored := &entry{session: s}
		m.sessions[id] = restored
		return restored, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry), nil
}

func (m *Manager) persist(ctx context.Context, data *storage.SessionData) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveSession(ctx, data); err != nil {
		logger.Error(ctx).Err(err).Msg("保存对局快照失败")
	}
}

func (m *Manager) notify(s *Session) {
	m.listenersMu.RLock()
	listeners := slices.Clone(m.listeners)
	m.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(s.Clone())
	}
}

// filter 在各对局锁内筛选并返回副本，按创建时间倒序
func (m *Manager) filter(match func(s *Session) bool) []*Session {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	out := make([]*Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.deleted && match(e.session) {
			out = append(out, e.session.Clone())
		}
		e.mu.Unlock()
	}

	slices.SortFunc(out, func(a, b *Session) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}
