package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/mahjong-scoreboard/internal/config"
	"github.com/palemoky/mahjong-scoreboard/internal/game/session"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
	"github.com/palemoky/mahjong-scoreboard/internal/storage"
	"github.com/palemoky/mahjong-scoreboard/internal/testutil"
)

var testNames = []string{"Alice", "Bob", "Carol", "Dave"}

type testEnv struct {
	handler     *Handler
	router      http.Handler
	manager     *session.Manager
	server      *testutil.MockServer
	leaderboard *testutil.MockLeaderboard
}

func newTestEnv(t *testing.T, withLeaderboard bool) *testEnv {
	t.Helper()

	env := &testEnv{
		manager: session.NewManager(nil, nil),
		server:  new(testutil.MockServer),
	}
	deps := HandlerDeps{
		Server:  env.server,
		Manager: env.manager,
		Game:    config.Default().Game,
	}
	if withLeaderboard {
		env.leaderboard = new(testutil.MockLeaderboard)
		deps.Leaderboard = env.leaderboard
	}
	env.handler = NewHandler(deps)

	r := chi.NewRouter()
	r.Route("/api", env.handler.Mount)
	env.router = r
	return env
}

// do 发送请求并解析 JSON 响应体
func (e *testEnv) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (e *testEnv) create(t *testing.T, req protocol.CreateSessionRequest) protocol.SessionResponse {
	t.Helper()
	if req.PlayerNames == nil {
		req.PlayerNames = testNames
	}
	var resp protocol.SessionResponse
	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/api/games", req, &resp))
	return resp
}

func TestHandler_CreateSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)

	resp := env.create(t, protocol.CreateSessionRequest{})
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.Players, 4)
	for i, p := range resp.Players {
		assert.Equal(t, testNames[i], p.Name)
		assert.Equal(t, 25000, p.Score)
	}
	assert.Equal(t, "East", resp.RoundWind)
	assert.Equal(t, 1, resp.RoundNumber)
	assert.Equal(t, "in_progress", resp.Status)
	assert.Equal(t, []int{30, 10, -10, -30}, resp.Rules.Uma)
	assert.Equal(t, "hanchan", resp.Rules.Length)
}

func TestHandler_CreateSession_Overrides(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)

	yes := true
	resp := env.create(t, protocol.CreateSessionRequest{
		StartingScore: 30000,
		Uma:           []int{20, 10, -10, -20},
		Length:        "tonpuu",
		Kiriage:       &yes,
	})
	assert.Equal(t, 30000, resp.Players[0].Score)
	assert.Equal(t, []int{20, 10, -10, -20}, resp.Rules.Uma)
	assert.Equal(t, "tonpuu", resp.Rules.Length)
	assert.True(t, resp.Rules.Kiriage)
}

func TestHandler_CreateSession_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body any
		kind string
	}{
		{"three players", protocol.CreateSessionRequest{PlayerNames: []string{"a", "b", "c"}}, "invalid_request"},
		{"blank name", protocol.CreateSessionRequest{PlayerNames: []string{"a", "b", " ", "d"}}, "invalid_request"},
		{"malformed json", `{"player_names": [`, "invalid_request"},
		{"unknown length", protocol.CreateSessionRequest{PlayerNames: testNames, Length: "marathon"}, "invalid_request"},
		{"wrong uma length", protocol.CreateSessionRequest{PlayerNames: testNames, Uma: []int{20, -20}}, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, false)

			var resp protocol.ErrorPayload
			code := env.do(t, http.MethodPost, "/api/games", tt.body, &resp)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.Equal(t, protocol.ErrCodeInvalidRequest, resp.Code)
		})
	}
}

func TestHandler_GetAndList(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	created := env.create(t, protocol.CreateSessionRequest{})

	var got protocol.SessionResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/games/"+created.ID, nil, &got))
	assert.Equal(t, created.ID, got.ID)

	var list []protocol.SessionSummaryResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/games", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Len(t, list[0].Players, 4)

	var errResp protocol.ErrorPayload
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/games/missing", nil, &errResp))
	assert.Equal(t, protocol.ErrCodeNotFound, errResp.Code)
}

func TestHandler_RecordWin(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	s := env.create(t, protocol.CreateSessionRequest{})
	alice, bob := s.Players[0].ID, s.Players[1].ID

	// 亲家 3 番 30 符荣和：5800
	var resp protocol.RoundConclusionResponse
	code := env.do(t, http.MethodPost, "/api/games/"+s.ID+"/round", map[string]any{
		"winners":  []map[string]any{{"winner_id": alice, "han": 3, "yaku": []string{"riichi", "tanyao", "dora"}}},
		"loser_id": bob,
	}, &resp)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 30, resp.Results[0].Fu)
	assert.Equal(t, 5800, resp.Results[0].PointsWon)
	assert.False(t, resp.Results[0].IsTsumo)
	assert.Equal(t, "in_progress", resp.SessionStatus)

	var after protocol.SessionResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/games/"+s.ID, nil, &after))
	assert.Equal(t, 30800, after.Players[0].Score)
	assert.Equal(t, 19200, after.Players[1].Score)
	assert.Equal(t, 1, after.Honba)
	assert.Equal(t, 0, after.DealerIndex)

	var history protocol.HistoryResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/games/"+s.ID+"/history", nil, &history))
	require.Len(t, history.Rounds, 2)
	require.Len(t, history.Rounds[0].HandResults, 1)
	assert.Equal(t, alice, history.Rounds[0].HandResults[0].WinnerID)
}

func TestHandler_RecordWin_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   func(s protocol.SessionResponse) any
		status int
		code   int
	}{
		{
			name: "unknown yaku",
			body: func(s protocol.SessionResponse) any {
				return `{"winners":[{"winner_id":"` + s.Players[0].ID + `","han":1,"yaku":["moonshot"]}]}`
			},
			status: http.StatusBadRequest,
			code:   protocol.ErrCodeInvalidRequest,
		},
		{
			name: "no winners",
			body: func(protocol.SessionResponse) any {
				return protocol.RecordWinRequest{}
			},
			status: http.StatusBadRequest,
			code:   protocol.ErrCodeInvalidRequest,
		},
		{
			name: "winner is loser",
			body: func(s protocol.SessionResponse) any {
				return map[string]any{
					"winners":  []map[string]any{{"winner_id": s.Players[0].ID, "han": 1, "yaku": []string{"riichi"}}},
					"loser_id": s.Players[0].ID,
				}
			},
			status: http.StatusBadRequest,
			code:   protocol.ErrCodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, false)
			s := env.create(t, protocol.CreateSessionRequest{})

			var resp protocol.ErrorPayload
			assert.Equal(t, tt.status, env.do(t, http.MethodPost, "/api/games/"+s.ID+"/round", tt.body(s), &resp))
			assert.Equal(t, tt.code, resp.Code)

			var after protocol.SessionResponse
			require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/games/"+s.ID, nil, &after))
			assert.Equal(t, s.Players, after.Players)
		})
	}
}

func TestHandler_RecordDraw(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	s := env.create(t, protocol.CreateSessionRequest{})

	var resp protocol.DrawConclusionResponse
	code := env.do(t, http.MethodPost, "/api/games/"+s.ID+"/draw", protocol.RecordDrawRequest{
		DrawType:        "Exhaustive",
		TenpaiPlayerIDs: []string{s.Players[0].ID},
	}, &resp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "exhaustive", resp.DrawType)
	assert.Equal(t, []string{s.Players[0].ID}, resp.TenpaiPlayerIDs)
	assert.Equal(t, 1, resp.Honba)
	assert.Equal(t, "in_progress", resp.SessionStatus)

	var after protocol.SessionResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/games/"+s.ID, nil, &after))
	assert.Equal(t, []int{28000, 24000, 24000, 24000}, []int{
		after.Players[0].Score, after.Players[1].Score, after.Players[2].Score, after.Players[3].Score,
	})
}

func TestHandler_RecordDraw_Errors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)

	no := false
	s := env.create(t, protocol.CreateSessionRequest{AbortiveDraws: &no})

	var resp protocol.ErrorPayload
	assert.Equal(t, http.StatusUnprocessableEntity, env.do(t, http.MethodPost, "/api/games/"+s.ID+"/draw",
		protocol.RecordDrawRequest{DrawType: "four_wind"}, &resp))
	assert.Equal(t, protocol.ErrCodeRuleViolation, resp.Code)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/games/"+s.ID+"/draw",
		protocol.RecordDrawRequest{DrawType: "meteor"}, &resp))

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/games/"+s.ID+"/draw",
		protocol.RecordDrawRequest{DrawType: "exhaustive", TenpaiPlayerIDs: []string{"ghost"}}, &resp))
}

func TestHandler_RiichiAndEnd(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	s := env.create(t, protocol.CreateSessionRequest{})

	var after protocol.SessionResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/games/"+s.ID+"/riichi",
		protocol.DeclareRiichiRequest{PlayerID: s.Players[2].ID}, &after))
	assert.Equal(t, 24000, after.Players[2].Score)
	assert.Equal(t, 1, after.Pot)

	var errResp protocol.ErrorPayload
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/games/"+s.ID+"/riichi",
		protocol.DeclareRiichiRequest{PlayerID: "ghost"}, &errResp))

	var ended protocol.SessionResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/games/"+s.ID+"/end", nil, &ended))
	assert.Equal(t, "completed", ended.Status)
	require.Len(t, ended.Ranking, 4)
	assert.NotEmpty(t, ended.WinnerID)

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/games/"+s.ID+"/end", nil, &errResp))
	assert.Equal(t, protocol.ErrCodeAlreadyEnded, errResp.Code)

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/games/"+s.ID+"/riichi",
		protocol.DeclareRiichiRequest{PlayerID: s.Players[0].ID}, &errResp))
}

func TestHandler_DeleteSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	s := env.create(t, protocol.CreateSessionRequest{})

	env.server.On("PublishDeleted", s.ID).Return().Once()

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/games/"+s.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/games/"+s.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/games/"+s.ID, nil, nil))
	env.server.AssertExpectations(t)
}

func TestHandler_Queries(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	first := env.create(t, protocol.CreateSessionRequest{})
	other := env.create(t, protocol.CreateSessionRequest{PlayerNames: []string{"Alice", "Erin", "Frank", "Grace"}})
	_ = env.do(t, http.MethodPost, "/api/games/"+other.ID+"/end", nil, nil)

	var list []protocol.SessionSummaryResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/games/player/alice", nil, &list))
	assert.Len(t, list, 2)

	var active protocol.SessionResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/games/active/ALICE", nil, &active))
	assert.Equal(t, first.ID, active.ID)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/games/active/Erin", nil, nil))

	var found protocol.SessionResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/games/search?players=dave,carol,bob,alice", nil, &found))
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/games/search?players=dave,carol", nil, nil))
}

func TestHandler_Yaku(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)

	var list []protocol.YakuResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/yaku", nil, &list))
	require.NotEmpty(t, list)

	byName := make(map[string]protocol.YakuResponse, len(list))
	for _, y := range list {
		byName[y.Name] = y
	}
	assert.Equal(t, 1, byName["riichi"].HanValue)
	assert.True(t, byName["kokushi_musou"].Yakuman)
}

func TestHandler_Leaderboard(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, false)
		assert.Equal(t, http.StatusServiceUnavailable, env.do(t, http.MethodGet, "/api/leaderboard", nil, nil))
		assert.Equal(t, http.StatusServiceUnavailable, env.do(t, http.MethodGet, "/api/leaderboard/alice", nil, nil))
	})

	t.Run("limit clamped", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, true)
		entries := []storage.LeaderboardEntry{{Rank: 1, PlayerName: "Alice", TotalScore: 56, TotalGames: 1, FirstPlaces: 1, AveragePlace: 1}}
		env.leaderboard.On("GetLeaderboard", mock.Anything, 10).Return(entries, nil).Once()

		var resp []protocol.LeaderboardEntry
		require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/leaderboard?limit=500", nil, &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "Alice", resp[0].PlayerName)
		env.leaderboard.AssertExpectations(t)
	})

	t.Run("backend error", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, true)
		env.leaderboard.On("GetLeaderboard", mock.Anything, 5).Return(nil, errors.New("redis down"))

		var resp protocol.ErrorPayload
		assert.Equal(t, http.StatusInternalServerError, env.do(t, http.MethodGet, "/api/leaderboard?limit=5", nil, &resp))
		assert.Equal(t, protocol.ErrCodeUnknown, resp.Code)
		assert.NotContains(t, resp.Message, "redis")
	})
}

func TestHandler_PlayerStats(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true)

	stats := &storage.PlayerStats{PlayerName: "Alice", TotalGames: 2, Placements: [4]int{1, 1, 0, 0}, TotalScore: 70}
	env.leaderboard.On("GetPlayerStats", mock.Anything, "Alice").Return(stats, nil)
	env.leaderboard.On("GetPlayerRank", mock.Anything, "Alice").Return(int64(1), nil)
	env.leaderboard.On("GetPlayerStats", mock.Anything, "Nobody").Return(nil, nil)

	var resp protocol.PlayerStatsResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/leaderboard/Alice", nil, &resp))
	assert.Equal(t, int64(1), resp.Rank)
	assert.InDelta(t, 1.5, resp.AveragePlace, 1e-9)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/leaderboard/Nobody", nil, nil))
	env.leaderboard.AssertExpectations(t)
}

func TestHandler_Handle_Ping(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	client := &testutil.SimpleClient{ID: "c1"}

	env.handler.Handle(client, protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: 42}))

	last := client.Last()
	require.NotNil(t, last)
	assert.Equal(t, protocol.MsgPong, last.Type)
	pong, err := protocol.ParsePayload[protocol.PongPayload](last)
	require.NoError(t, err)
	assert.Equal(t, int64(42), pong.ClientTimestamp)
	assert.Positive(t, pong.ServerTimestamp)
}

func TestHandler_Handle_Subscribe(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	s, err := env.manager.CreateSession(context.Background(), testNames, 25000, nil)
	require.NoError(t, err)

	client := &testutil.SimpleClient{ID: "c1"}
	env.server.On("Subscribe", client, s.ID).Return().Once()
	env.server.On("Unsubscribe", client, s.ID).Return().Once()

	env.handler.Handle(client, protocol.MustNewMessage(protocol.MsgSubscribe, protocol.SubscribePayload{SessionID: s.ID}))
	last := client.Last()
	require.NotNil(t, last)
	assert.Equal(t, protocol.MsgSubscribed, last.Type)
	payload, err := protocol.ParsePayload[protocol.SessionUpdatePayload](last)
	require.NoError(t, err)
	assert.Equal(t, s.ID, payload.Session.ID)

	env.handler.Handle(client, protocol.MustNewMessage(protocol.MsgUnsubscribe, protocol.SubscribePayload{SessionID: s.ID}))
	assert.Equal(t, protocol.MsgUnsubscribed, client.Last().Type)

	env.server.AssertExpectations(t)
}

func TestHandler_Handle_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  *protocol.Message
		code int
	}{
		{"unknown type", &protocol.Message{Type: "shout"}, protocol.ErrCodeInvalidMsg},
		{"subscribe without id", protocol.MustNewMessage(protocol.MsgSubscribe, protocol.SubscribePayload{}), protocol.ErrCodeInvalidMsg},
		{"subscribe unknown session", protocol.MustNewMessage(protocol.MsgSubscribe, protocol.SubscribePayload{SessionID: "nope"}), protocol.ErrCodeNotFound},
		{"bad payload", &protocol.Message{Type: protocol.MsgPing, Payload: json.RawMessage(`"x"`)}, protocol.ErrCodeInvalidMsg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, false)
			client := new(testutil.MockClient)
			client.On("GetID").Return("c1").Maybe()
			client.On("SendMessage", mock.MatchedBy(func(msg *protocol.Message) bool {
				if msg.Type != protocol.MsgError {
					return false
				}
				p, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
				return err == nil && p.Code == tt.code
			})).Return().Once()

			env.handler.Handle(client, tt.msg)
			client.AssertExpectations(t)
			env.server.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything)
		})
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}
