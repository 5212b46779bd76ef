package protocol

import (
	"github.com/palemoky/mahjong-scoreboard/internal/game/yaku"
)

// --- WebSocket 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// SubscribePayload 订阅/取消订阅对局
type SubscribePayload struct {
	SessionID string `json:"session_id"`
}

// --- WebSocket 服务端推送 Payloads ---

// ConnectedPayload 连接成功
type ConnectedPayload struct {
	ClientID string `json:"client_id"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// SessionUpdatePayload 对局快照推送，用于 subscribed 与 session_update
type SessionUpdatePayload struct {
	Session SessionResponse `json:"session"`
}

// SessionDeletedPayload 对局删除通知
type SessionDeletedPayload struct {
	SessionID string `json:"session_id"`
}

// ErrorPayload 错误信息，REST 与 WebSocket 共用
type ErrorPayload struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// --- REST 请求 ---

// CreateSessionRequest 创建对局。未提供的规则项使用默认值
type CreateSessionRequest struct {
	PlayerNames   []string `json:"player_names"`
	StartingScore int      `json:"starting_score,omitempty"` // 默认 25000
	TargetScore   int      `json:"target_score,omitempty"`   // 默认 30000
	Uma           []int    `json:"uma,omitempty"`
	Length        string   `json:"length,omitempty"` // hanchan / tonpuu

	Kiriage          *bool `json:"kiriage,omitempty"`
	Atamahane        *bool `json:"atamahane,omitempty"`
	KazoeYakuman     *bool `json:"kazoe_yakuman,omitempty"`
	DoubleYakuman    *bool `json:"double_yakuman,omitempty"`
	CompositeYakuman *bool `json:"composite_yakuman,omitempty"`
	Bankruptcy       *bool `json:"bankruptcy,omitempty"`
	AbortiveDraws    *bool `json:"abortive_draws,omitempty"`
	Pao              *bool `json:"pao,omitempty"`
}

// WinnerRequest 单个和牌申报
type WinnerRequest struct {
	WinnerID    string      `json:"winner_id"`
	Han         int         `json:"han"`
	Fu          *int        `json:"fu,omitempty"` // 默认 30
	Yaku        []yaku.Yaku `json:"yaku"`
	PaoPlayerID string      `json:"pao_player_id,omitempty"`
}

// RecordWinRequest 记录和牌，loser_id 为空表示自摸
type RecordWinRequest struct {
	Winners []WinnerRequest `json:"winners"`
	LoserID string          `json:"loser_id,omitempty"`
}

// RecordDrawRequest 记录流局
type RecordDrawRequest struct {
	DrawType        string   `json:"draw_type"`
	TenpaiPlayerIDs []string `json:"tenpai_player_ids"`
}

// DeclareRiichiRequest 立直宣言
type DeclareRiichiRequest struct {
	PlayerID string `json:"player_id"`
}

// --- REST 响应 ---

// PlayerResponse 玩家信息
type PlayerResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Score        int    `json:"score"`
	SeatWind     string `json:"seat_wind"`
	RiichiSticks int    `json:"riichi_sticks"`
	RonWins      int    `json:"ron_wins"`
	TsumoWins    int    `json:"tsumo_wins"`
	DealIns      int    `json:"deal_ins"`
	RiichiCount  int    `json:"riichi_count"`
}

// RulesResponse 对局规则
type RulesResponse struct {
	Kiriage          bool   `json:"kiriage"`
	Atamahane        bool   `json:"atamahane"`
	KazoeYakuman     bool   `json:"kazoe_yakuman"`
	DoubleYakuman    bool   `json:"double_yakuman"`
	CompositeYakuman bool   `json:"composite_yakuman"`
	Bankruptcy       bool   `json:"bankruptcy"`
	AbortiveDraws    bool   `json:"abortive_draws"`
	Pao              bool   `json:"pao"`
	TargetScore      int    `json:"target_score"`
	Uma              []int  `json:"uma"`
	Length           string `json:"length"`
}

// RankingEntry 终局排名
type RankingEntry struct {
	Place         int            `json:"place"`
	Player        PlayerResponse `json:"player"`
	RawScore      int            `json:"raw_score"`
	AdjustedScore int            `json:"adjusted_score"`
	FinalScore    int            `json:"final_score"`
}

// SessionResponse 对局详情
type SessionResponse struct {
	ID          string           `json:"id"`
	Players     []PlayerResponse `json:"players"`
	RoundNumber int              `json:"round_number"`
	RoundWind   string           `json:"round_wind"`
	DealerIndex int              `json:"dealer_index"`
	Kyoku       int              `json:"kyoku"`
	KyokuName   string           `json:"kyoku_name"`
	Honba       int              `json:"honba"`
	Pot         int              `json:"pot"`
	Status      string           `json:"status"`
	Rules       RulesResponse    `json:"rules"`
	Ranking     []RankingEntry   `json:"ranking,omitempty"`
	WinnerID    string           `json:"winner_id,omitempty"`
	CreatedAt   int64            `json:"created_at"`
	CompletedAt int64            `json:"completed_at,omitempty"`
}

// PlayerSummary 列表中的玩家摘要
type PlayerSummary struct {
	Name        string `json:"name"`
	Score       int    `json:"score"`
	RonWins     int    `json:"ron_wins"`
	TsumoWins   int    `json:"tsumo_wins"`
	DealIns     int    `json:"deal_ins"`
	RiichiCount int    `json:"riichi_count"`
}

// SessionSummaryResponse 对局列表项
type SessionSummaryResponse struct {
	ID          string          `json:"id"`
	Players     []PlayerSummary `json:"players"`
	Status      string          `json:"status"`
	CreatedAt   int64           `json:"created_at"`
	CompletedAt int64           `json:"completed_at,omitempty"`
}

// HandResultResponse 和牌结果
type HandResultResponse struct {
	ID           string      `json:"id"`
	WinnerID     string      `json:"winner_id"`
	LoserID      string      `json:"loser_id,omitempty"`
	Han          int         `json:"han"`
	Fu           int         `json:"fu"`
	PointsWon    int         `json:"points_won"`
	HonbaBonus   int         `json:"honba_bonus"`
	Yaku         []yaku.Yaku `json:"yaku"`
	IsTsumo      bool        `json:"is_tsumo"`
	CollectedPot bool        `json:"collected_pot"`
	PotPoints    int         `json:"pot_points"`
	PaoPlayerID  string      `json:"pao_player_id,omitempty"`
}

// RoundConclusionResponse 和牌结算响应
type RoundConclusionResponse struct {
	Results       []HandResultResponse `json:"results"`
	SessionStatus string               `json:"session_status"`
}

// DrawConclusionResponse 流局响应
type DrawConclusionResponse struct {
	ID              string   `json:"id"`
	DrawType        string   `json:"draw_type"`
	TenpaiPlayerIDs []string `json:"tenpai_player_ids"`
	Honba           int      `json:"honba"`
	SessionStatus   string   `json:"session_status,omitempty"`
}

// RoundResponse 一局的记录
type RoundResponse struct {
	RoundNumber int                     `json:"round_number"`
	RoundWind   string                  `json:"round_wind"`
	DealerIndex int                     `json:"dealer_index"`
	Kyoku       int                     `json:"kyoku"`
	KyokuName   string                  `json:"kyoku_name"`
	Honba       int                     `json:"honba"`
	HandResults []HandResultResponse    `json:"hand_results"`
	DrawResult  *DrawConclusionResponse `json:"draw_result,omitempty"`
}

// HistoryResponse 对局历史
type HistoryResponse struct {
	SessionID string          `json:"session_id"`
	Rounds    []RoundResponse `json:"rounds"`
}

// YakuResponse 役种目录项
type YakuResponse struct {
	Name        string `json:"name"`
	HanValue    int    `json:"han_value"`
	Description string `json:"description"`
	Yakuman     bool   `json:"yakuman"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	PlayerName   string  `json:"player_name"`
	TotalScore   int     `json:"total_score"`
	TotalGames   int     `json:"total_games"`
	FirstPlaces  int     `json:"first_places"`
	AveragePlace float64 `json:"average_place"`
}

// PlayerStatsResponse 玩家统计
type PlayerStatsResponse struct {
	PlayerName   string  `json:"player_name"`
	Rank         int64   `json:"rank"` // 未上榜为 -1
	TotalGames   int     `json:"total_games"`
	Placements   [4]int  `json:"placements"`
	AveragePlace float64 `json:"average_place"`
	TotalScore   int     `json:"total_score"`
	RonWins      int     `json:"ron_wins"`
	TsumoWins    int     `json:"tsumo_wins"`
	DealIns      int     `json:"deal_ins"`
	RiichiCount  int     `json:"riichi_count"`
	BestScore    int     `json:"best_score"`
}

// HealthResponse 健康检查
type HealthResponse struct {
	Status         string `json:"status"`
	Redis          string `json:"redis"`
	Sessions       int    `json:"sessions"`
	ActiveSessions int    `json:"active_sessions"`
	Clients        int    `json:"clients"`
}
