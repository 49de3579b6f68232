// Package common provides shared styles and utilities for the UI.
package common

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Icon constants
const (
	DealerIcon = "🂠"
	VulnIcon   = "⚠"
	TrophyIcon = "🏆"
)

// Lipgloss Styles
var (
	DocStyle      = lipgloss.NewStyle().Margin(1, 2)
	RedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Bold(true)
	BlackStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	GrayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	TitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	BoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	PromptStyle   = lipgloss.NewStyle().MarginTop(1)
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	InfoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ButtonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("238")).Padding(0, 1)
	SelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
	VulnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Bold(true)
)

// ColorSuits paints heart and diamond symbols red and the black suits white.
func ColorSuits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '♥', '♦':
			sb.WriteString(RedStyle.Render(string(r)))
		case '♠', '♣':
			sb.WriteString(BlackStyle.Render(string(r)))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
