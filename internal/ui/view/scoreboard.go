// Package view 计分板渲染函数
package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
	"github.com/palemoky/mahjong-scoreboard/internal/ui/common"
)

const nameWidth = 12

// StandingsColumns 分数表列
func StandingsColumns() []table.Column {
	return []table.Column{
		{Title: "风", Width: 6},
		{Title: "玩家", Width: nameWidth + 3},
		{Title: "点数", Width: 7},
		{Title: "立直棒", Width: 6},
		{Title: "荣和", Width: 4},
		{Title: "自摸", Width: 4},
		{Title: "放铳", Width: 4},
		{Title: "立直", Width: 4},
	}
}

// StandingsRows 按座位顺序生成分数表行，庄家与立直中的玩家带标记
func StandingsRows(s *protocol.SessionResponse) []table.Row {
	rows := make([]table.Row, len(s.Players))
	for i, p := range s.Players {
		name := common.TruncateName(p.Name, nameWidth)
		if i == s.DealerIndex && s.Status != "completed" {
			name = common.DealerIcon + " " + name
		} else if p.RiichiSticks > 0 {
			name = common.RiichiIcon + " " + name
		}
		rows[i] = table.Row{
			p.SeatWind,
			name,
			strconv.Itoa(p.Score),
			strconv.Itoa(p.RiichiSticks),
			strconv.Itoa(p.RonWins),
			strconv.Itoa(p.TsumoWins),
			strconv.Itoa(p.DealIns),
			strconv.Itoa(p.RiichiCount),
		}
	}
	return rows
}

// NewStandingsTable 创建不可聚焦的分数表
func NewStandingsTable(s *protocol.SessionResponse) table.Model {
	t := table.New(
		table.WithColumns(StandingsColumns()),
		table.WithHeight(len(s.Players)+1),
		table.WithFocused(false),
	)
	t.SetRows(StandingsRows(s))

	styles := table.DefaultStyles()
	styles.Header = common.HeaderStyle
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)
	return t
}

// Header 当前局信息，终局后显示结束
func Header(s *protocol.SessionResponse) string {
	if s.Status == "completed" {
		return "对局已结束"
	}
	return common.RoundHeader(s.KyokuName, s.Honba, s.Pot)
}

// RankingView 终局排名
func RankingView(s *protocol.SessionResponse) string {
	if len(s.Ranking) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(common.TitleStyle("终局排名"))
	sb.WriteString("\n")
	for _, e := range s.Ranking {
		marker := "  "
		if e.Player.ID == s.WinnerID {
			marker = common.WinnerIcon
		}
		final := common.SignedInt(e.FinalScore)
		if e.FinalScore >= 0 {
			final = common.PositiveStyle.Render(final)
		} else {
			final = common.NegativeStyle.Render(final)
		}
		fmt.Fprintf(&sb, "%s %d. %-*s %6d  %s\n",
			marker, e.Place, nameWidth, common.TruncateName(e.Player.Name, nameWidth), e.RawScore, final)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// SessionView 完整计分板
func SessionView(s *protocol.SessionResponse, standings string) string {
	parts := []string{
		common.SubtitleStyle(Header(s)),
		common.BoxStyle.Render(standings),
	}
	if ranking := RankingView(s); ranking != "" {
		parts = append(parts, common.BoxStyle.Render(ranking))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
