// Package view provides UI rendering functions.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/history"
	"github.com/palemoky/bridge-scorer/internal/mode"
	"github.com/palemoky/bridge-scorer/internal/ui/common"
	"github.com/palemoky/bridge-scorer/internal/ui/model"
)

// historyPageSize is the number of entries shown per history page.
const historyPageSize = 12

// CreateViewRenderer creates a view renderer function that can be injected into ScorerModel.
func CreateViewRenderer() func(model.Model, model.Phase) string {
	return func(m model.Model, phase model.Phase) string {
		switch phase {
		case model.PhaseResume:
			return ResumeView(m)
		case model.PhaseModeSelect:
			return ModeSelectView(m)
		case model.PhasePlaying:
			return PlayingView(m)
		case model.PhaseHistory:
			return HistoryView(m)
		case model.PhaseHelp:
			return HelpView(m)
		default:
			return "Unknown phase"
		}
	}
}

func center(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// ResumeView offers to continue a saved session.
func ResumeView(m model.Model) string {
	snap, ok := m.App().PendingResume()
	if !ok {
		return "No saved session"
	}

	var body strings.Builder
	modeName := "-"
	if tag, err := mode.ParseTag(snap.ModeTag()); err == nil {
		modeName = tag.Title()
	}
	fmt.Fprintf(&body, "Mode:   %s\n", modeName)
	fmt.Fprintf(&body, "Deal:   %d\n", snap.DealNumber)
	fmt.Fprintf(&body, "Played: %d deals\n", len(snap.History))
	fmt.Fprintf(&body, "Score:  NS %d  EW %d\n", snap.Scores[deal.NS], snap.Scores[deal.EW])
	if snap.SavedAt != nil {
		fmt.Fprintf(&body, "Saved:  %s", snap.SavedAt.Local().Format("2006-01-02 15:04"))
	}

	var sb strings.Builder
	sb.WriteString(center(m.Width(), common.TitleStyle("♠ 发现未完成的牌局")))
	sb.WriteString("\n\n")
	sb.WriteString(center(m.Width(), common.BoxStyle.Render(body.String())))
	sb.WriteString("\n\n")
	sb.WriteString(center(m.Width(), "Y 继续  ·  N 开新局  ·  ESC 退出"))
	return sb.String()
}

// ModeSelectView lists the scoring variants.
func ModeSelectView(m model.Model) string {
	var list strings.Builder
	for i, tag := range mode.Tags() {
		line := fmt.Sprintf("%d. %s", i+1, tag.Title())
		if i == m.ModeCursor() {
			list.WriteString(common.SelectedStyle.Render("▶ " + line))
		} else {
			list.WriteString("  " + line)
		}
		if i < len(mode.Tags())-1 {
			list.WriteString("\n")
		}
	}

	var sb strings.Builder
	sb.WriteString(center(m.Width(), common.TitleStyle("选择计分方式")))
	sb.WriteString("\n\n")
	sb.WriteString(center(m.Width(), common.BoxStyle.Render(list.String())))
	sb.WriteString("\n\n")
	sb.WriteString(center(m.Width(), "↑/↓ 选择 · ENTER 确认 · ESC 返回"))
	return sb.String()
}

// PlayingView renders the score sheet and the button prompt.
func PlayingView(m model.Model) string {
	s := m.App().Strategy()
	if s == nil {
		return "No active mode"
	}
	d := s.UpdateDisplay()

	var sb strings.Builder
	sb.WriteString(center(m.Width(), common.TitleStyle("♠♥ "+d.Title+" ♦♣")))
	sb.WriteString("\n\n")
	sb.WriteString(center(m.Width(), RenderDealHeader(d)))
	sb.WriteString("\n\n")
	sb.WriteString(center(m.Width(), RenderScores(d.Scores)))
	sb.WriteString("\n")

	if len(d.Lines) > 0 {
		sb.WriteString("\n")
		for _, line := range d.Lines {
			sb.WriteString(center(m.Width(), common.GrayStyle.Render(line)))
			sb.WriteString("\n")
		}
	}

	if d.LastResult != "" {
		sb.WriteString("\n")
		sb.WriteString(center(m.Width(), common.InfoStyle.Render(common.ColorSuits(d.LastResult))))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	prompt := d.Prompt
	if d.Pending != "" {
		prompt = common.ColorSuits(d.Pending) + "  ·  " + prompt
	}
	sb.WriteString(center(m.Width(), prompt))
	sb.WriteString("\n")
	sb.WriteString(center(m.Width(), RenderButtons(s.ActiveButtons())))
	sb.WriteString("\n")

	if n := m.Notification(); n != nil {
		style := common.InfoStyle
		if n.Type == model.NotifyError {
			style = common.ErrorStyle
		}
		sb.WriteString(center(m.Width(), style.Render(n.Message)))
		sb.WriteString("\n")
	}

	sb.WriteString(common.PromptStyle.Render(center(m.Width(), m.Input().View())))
	sb.WriteString("\n")
	sb.WriteString(center(m.Width(), common.GrayStyle.Render("ESC 回退 · F1 帮助 · F2 记录 · F3 模式 · Ctrl+C 退出")))
	return sb.String()
}

// RenderDealHeader shows deal number, dealer and vulnerability.
func RenderDealHeader(d mode.Display) string {
	vuln := string(d.Vulnerability)
	if d.Vulnerability != deal.VulnNone {
		vuln = common.VulnStyle.Render(common.VulnIcon + " " + vuln)
	}
	return fmt.Sprintf("Deal %d  ·  %s Dealer %s  ·  Vulnerable %s",
		d.DealNumber, common.DealerIcon, d.Dealer.Name(), vuln)
}

// RenderScores renders both totals side by side; the leader gets a trophy.
func RenderScores(scores map[deal.Partnership]int) string {
	cells := make([]string, 0, 2)
	leader := ""
	switch {
	case scores[deal.NS] > scores[deal.EW]:
		leader = string(deal.NS)
	case scores[deal.EW] > scores[deal.NS]:
		leader = string(deal.EW)
	}
	for _, p := range deal.Partnerships() {
		label := string(p)
		if label == leader {
			label += " " + common.TrophyIcon
		}
		cells = append(cells, common.BoxStyle.Width(14).Align(lipgloss.Center).
			Render(fmt.Sprintf("%s\n%d", label, scores[p])))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// RenderButtons renders the active buttons, wrapping long lists.
func RenderButtons(buttons []string) string {
	const perRow = 11
	var rows []string
	for i := 0; i < len(buttons); i += perRow {
		end := min(i+perRow, len(buttons))
		row := make([]string, 0, end-i)
		for _, b := range buttons[i:end] {
			row = append(row, common.ButtonStyle.Render(b))
		}
		rows = append(rows, strings.Join(row, " "))
	}
	return strings.Join(rows, "\n")
}

// HistoryView lists recorded deals with the summary underneath.
func HistoryView(m model.Model) string {
	st := m.App().State()
	entries := st.History()

	var sb strings.Builder
	sb.WriteString(center(m.Width(), common.TitleStyle("📜 牌局记录")))
	sb.WriteString("\n\n")

	if len(entries) == 0 {
		sb.WriteString(center(m.Width(), "No deals recorded yet"))
	} else {
		sb.WriteString(center(m.Width(), common.BoxStyle.Render(RenderHistory(entries, m.HistoryScroll()))))
	}
	sb.WriteString("\n\n")
	sb.WriteString(center(m.Width(), RenderSummary(st.Summary())))
	sb.WriteString("\n\n")
	sb.WriteString(center(m.Width(), "↑/↓ 滚动 · ESC 返回"))
	return sb.String()
}

// RenderHistory renders one page of entries starting at offset.
func RenderHistory(entries []history.Entry, offset int) string {
	offset = max(0, min(offset, len(entries)-1))
	end := min(offset+historyPageSize, len(entries))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-5s %-6s %-5s %-16s %7s\n", "Deal", "Dealer", "Vul", "Contract", "Score"))
	for _, e := range entries[offset:end] {
		contract := "passed out"
		if !e.PassedOut() {
			contract = e.Contract.String()
			if e.Tricks == 0 {
				contract += " ="
			} else {
				contract += fmt.Sprintf(" %+d", e.Tricks)
			}
		}
		points := ""
		if winner, ok := e.Winner(); ok {
			points = fmt.Sprintf("%s %d", winner, abs(e.Score))
		}
		sb.WriteString(fmt.Sprintf("%-5d %-6s %-5s %-16s %7s",
			e.DealNumber, e.Dealer, e.Vulnerability, contract, points))
		if e.Note != "" {
			sb.WriteString("  " + e.Note)
		}
		sb.WriteString("\n")
	}
	if end < len(entries) {
		sb.WriteString(fmt.Sprintf("… %d more", len(entries)-end))
	}
	return common.ColorSuits(strings.TrimRight(sb.String(), "\n"))
}

// RenderSummary renders the session statistics.
func RenderSummary(s history.Summary) string {
	return fmt.Sprintf("Deals %d · Made %d · Failed %d · Passed out %d\n"+
		"Doubled %d · Redoubled %d · Slams %d · Grand slams %d\n"+
		"Wins NS %d / EW %d",
		s.TotalDeals, s.Made, s.Failed, s.PassedOut,
		s.Doubled, s.Redoubled, s.Slams, s.GrandSlams,
		s.Wins[deal.NS], s.Wins[deal.EW])
}

// HelpView renders the help of the active mode.
func HelpView(m model.Model) string {
	s := m.App().Strategy()
	if s == nil {
		return "No active mode"
	}
	h := s.HelpContent()

	var body strings.Builder
	body.WriteString(lipgloss.NewStyle().Width(60).Render(h.Content))
	body.WriteString("\n\n【按钮】\n")
	body.WriteString(strings.Join(h.Buttons, "  "))
	body.WriteString("\n\n【合约录入】\n")
	body.WriteString("Level 1-7 → strain C D H S NT → declarer N E S W\n")
	body.WriteString("→ X / XX → MADE or DOWN → = +1 … / -1 …\n")
	body.WriteString("\n【命令】\n")
	body.WriteString(":new  :mode  :history  :deal N  :adjust NS|EW POINTS  :export FILE  :import FILE  :quit")

	var sb strings.Builder
	sb.WriteString(center(m.Width(), common.TitleStyle("📖 "+h.Title)))
	sb.WriteString("\n\n")
	sb.WriteString(center(m.Width(), common.BoxStyle.Render(body.String())))
	sb.WriteString("\n\n")
	sb.WriteString(center(m.Width(), "按 ESC 返回"))
	return sb.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
