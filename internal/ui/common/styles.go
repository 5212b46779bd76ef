// Package common 终端界面共用的样式与格式化函数
package common

import (
	"github.com/charmbracelet/lipgloss"
)

// Icon constants
const (
	DealerIcon  = "🀄"
	RiichiIcon  = "🎴"
	WinnerIcon  = "👑"
	OfflineIcon = "⚠️"
)

// Lipgloss Styles
var (
	DocStyle      = lipgloss.NewStyle().Margin(1, 2)
	TitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	SubtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render
	BoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	PromptStyle   = lipgloss.NewStyle().MarginTop(1).Foreground(lipgloss.Color("240"))
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	PositiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	NegativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	HeaderStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
)
