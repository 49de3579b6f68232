// Package input handles keyboard input processing.
package input

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/bridge-scorer/internal/logger"
	"github.com/palemoky/bridge-scorer/internal/mode"
	"github.com/palemoky/bridge-scorer/internal/ui/model"
)

// HandleKeyPress handles keyboard input and returns whether it was handled.
func HandleKeyPress(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return true, tea.Quit
	}

	switch m.Phase() {
	case model.PhaseResume:
		return handleResumeKey(m, msg)
	case model.PhaseModeSelect:
		return handleModeSelectKey(m, msg)
	case model.PhaseHistory:
		return handleHistoryKey(m, msg)
	case model.PhaseHelp:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter, tea.KeyF1:
			m.EnterPlaying()
		}
		return true, nil
	case model.PhasePlaying:
		return handlePlayingKey(m, msg)
	}
	return false, nil
}

func handleResumeKey(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return true, tea.Quit
	case msg.Type == tea.KeyEnter || strings.EqualFold(msg.String(), "y"):
		if err := m.App().Resume(); err != nil {
			logger.LogError("resume failed: %v", err)
			if err := m.App().Discard(context.Background()); err != nil {
				return true, m.SetNotification(model.NotifyError, err.Error())
			}
			m.EnterPlaying()
			return true, m.SetNotification(model.NotifyError, "⚠️ 存档无法恢复，已开新局")
		}
		m.EnterPlaying()
		return true, m.SetNotification(model.NotifyInfo, "✅ 已恢复上次牌局")
	case strings.EqualFold(msg.String(), "n"):
		if err := m.App().Discard(context.Background()); err != nil {
			return true, m.SetNotification(model.NotifyError, err.Error())
		}
		m.EnterPlaying()
		return true, nil
	}
	return true, nil
}

func handleModeSelectKey(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	tags := mode.Tags()
	switch msg.Type {
	case tea.KeyUp:
		m.SetModeCursor((m.ModeCursor() + len(tags) - 1) % len(tags))
	case tea.KeyDown:
		m.SetModeCursor((m.ModeCursor() + 1) % len(tags))
	case tea.KeyEsc:
		if m.App().Strategy() != nil {
			m.EnterPlaying()
		}
	case tea.KeyRunes:
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(tags) {
			m.SetModeCursor(n - 1)
			return true, switchMode(m, tags[n-1])
		}
	case tea.KeyEnter:
		return true, switchMode(m, tags[m.ModeCursor()])
	}
	return true, nil
}

func switchMode(m model.Model, tag mode.Tag) tea.Cmd {
	if err := m.App().SwitchMode(tag); err != nil {
		return m.SetNotification(model.NotifyError, err.Error())
	}
	m.EnterPlaying()
	return m.SetNotification(model.NotifyInfo, "模式: "+tag.Title())
}

func handleHistoryKey(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.SetHistoryScroll(max(0, m.HistoryScroll()-1))
	case tea.KeyDown:
		last := len(m.App().State().History()) - 1
		m.SetHistoryScroll(min(max(0, last), m.HistoryScroll()+1))
	case tea.KeyEsc, tea.KeyEnter, tea.KeyF2:
		m.EnterPlaying()
	}
	return true, nil
}

func handlePlayingKey(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyF1:
		m.SetPhase(model.PhaseHelp)
		return true, nil
	case tea.KeyF2:
		openHistory(m)
		return true, nil
	case tea.KeyF3:
		openModeSelect(m)
		return true, nil
	case tea.KeyEsc:
		if m.Input().Value() != "" {
			m.Input().Reset()
			return true, nil
		}
		if s := m.App().Strategy(); s != nil && s.CanGoBack() {
			s.HandleBack()
		}
		return true, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.Input().Value())
		m.Input().Reset()
		if value == "" {
			return true, nil
		}
		if strings.HasPrefix(value, ":") {
			return true, runCommand(m, value[1:])
		}
		return true, pressButtons(m, value)
	}
	return false, nil
}

// pressButtons applies one or more buttons separated by spaces or commas,
// stopping at the first rejected one.
func pressButtons(m model.Model, line string) tea.Cmd {
	s := m.App().Strategy()
	if s == nil {
		return nil
	}
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' })
	for _, f := range fields {
		if err := s.HandleAction(f); err != nil {
			return m.SetNotification(model.NotifyError, fmt.Sprintf("⚠️ %s: %v", f, err))
		}
	}
	return nil
}

// runCommand executes a ":" command.
func runCommand(m model.Model, line string) tea.Cmd {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	arg := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	a := m.App()
	switch strings.ToLower(fields[0]) {
	case "q", "quit":
		return tea.Quit
	case "help":
		m.SetPhase(model.PhaseHelp)
	case "history":
		openHistory(m)
	case "mode":
		if arg != "" {
			tag, err := mode.ParseTag(arg)
			if err != nil {
				return m.SetNotification(model.NotifyError, err.Error())
			}
			return switchMode(m, tag)
		}
		openModeSelect(m)
	case "new":
		if err := a.NewGame(); err != nil {
			return m.SetNotification(model.NotifyError, err.Error())
		}
		return m.SetNotification(model.NotifyInfo, "🆕 新的一局")
	case "deal":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return m.SetNotification(model.NotifyError, fmt.Sprintf("⚠️ 无效的牌号: %q", arg))
		}
		if err := a.State().SetDealNumber(n); err != nil {
			return m.SetNotification(model.NotifyError, err.Error())
		}
	case "adjust":
		if len(fields) != 3 {
			return m.SetNotification(model.NotifyError, "⚠️ 用法: :adjust NS|EW POINTS")
		}
		if err := a.AdjustScore(fields[1], fields[2]); err != nil {
			return m.SetNotification(model.NotifyError, err.Error())
		}
		return m.SetNotification(model.NotifyInfo, fmt.Sprintf("✏️ %s %s", strings.ToUpper(fields[1]), fields[2]))
	case "export":
		if arg == "" {
			return m.SetNotification(model.NotifyError, "⚠️ 用法: :export FILE")
		}
		if err := a.Export(arg); err != nil {
			return m.SetNotification(model.NotifyError, err.Error())
		}
		return m.SetNotification(model.NotifyInfo, "💾 已导出到 "+arg)
	case "import":
		if arg == "" {
			return m.SetNotification(model.NotifyError, "⚠️ 用法: :import FILE")
		}
		if err := a.Import(arg); err != nil {
			return m.SetNotification(model.NotifyError, err.Error())
		}
		return m.SetNotification(model.NotifyInfo, "📂 已导入 "+arg)
	default:
		return m.SetNotification(model.NotifyError, fmt.Sprintf("⚠️ 未知命令: %s", fields[0]))
	}
	return nil
}

func openHistory(m model.Model) {
	m.SetHistoryScroll(max(0, len(m.App().State().History())-12))
	m.SetPhase(model.PhaseHistory)
}

func openModeSelect(m model.Model) {
	if s := m.App().Strategy(); s != nil {
		for i, tag := range mode.Tags() {
			if tag == s.Tag() {
				m.SetModeCursor(i)
			}
		}
	}
	m.SetPhase(model.PhaseModeSelect)
}
