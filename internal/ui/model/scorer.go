package model

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/bridge-scorer/internal/app"
	"github.com/palemoky/bridge-scorer/internal/game/state"
	"github.com/palemoky/bridge-scorer/internal/logger"
	"github.com/palemoky/bridge-scorer/internal/sound"
	"github.com/palemoky/bridge-scorer/internal/ui/common"
)

// notificationTTL is how long a temporary notification stays.
const notificationTTL = 3 * time.Second

// Player is the sound output used by the model.
type Player interface {
	Init() error
	Play(sound.Cue)
}

// ScorerModel is the bubbletea model of the scorer.
type ScorerModel struct {
	app    *app.App
	player Player
	phase  Phase

	notification  *Notification
	modeCursor    int
	historyScroll int

	input  *textinput.Model
	width  int
	height int

	// View renderer (injected to break circular import)
	viewRenderer func(Model, Phase) string

	// Key handler (injected to break circular import)
	keyHandler func(Model, tea.KeyMsg) (bool, tea.Cmd)
}

// NewScorerModel creates the model. When the app holds a saved session the
// model opens on the resume prompt. player may be nil.
func NewScorerModel(a *app.App, player Player) *ScorerModel {
	ti := textinput.New()
	ti.Placeholder = "按钮 (如 4, S, N, MADE, =) 或 :help"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()

	m := &ScorerModel{
		app:    a,
		player: player,
		phase:  PhasePlaying,
		input:  &ti,
	}
	if _, ok := a.PendingResume(); ok {
		m.phase = PhaseResume
	}

	a.State().Subscribe(state.KindHistoryChanged, m.onHistoryChanged)
	return m
}

// onHistoryChanged plays a cue for every recorded or undone deal.
func (m *ScorerModel) onHistoryChanged(ev state.Event) {
	hc, ok := ev.(state.HistoryChanged)
	if !ok {
		return
	}
	switch {
	case hc.Action == state.HistoryRemoved:
		m.PlaySound(sound.CueUndo)
	case hc.Entry.PassedOut():
		m.PlaySound(sound.CuePass)
	default:
		m.PlaySound(sound.CueDeal)
	}
}

func (m *ScorerModel) Init() tea.Cmd {
	if m.player != nil {
		go func() {
			if err := m.player.Init(); err != nil {
				logger.LogWarn("sound disabled: %v", err)
			}
		}()
	}
	return textinput.Blink
}

// --- Model interface implementation ---

func (m *ScorerModel) Phase() Phase            { return m.phase }
func (m *ScorerModel) SetPhase(phase Phase)    { m.phase = phase }
func (m *ScorerModel) App() *app.App           { return m.app }
func (m *ScorerModel) Input() *textinput.Model { return m.input }
func (m *ScorerModel) ModeCursor() int         { return m.modeCursor }
func (m *ScorerModel) SetModeCursor(i int)     { m.modeCursor = i }
func (m *ScorerModel) HistoryScroll() int      { return m.historyScroll }
func (m *ScorerModel) SetHistoryScroll(i int)  { m.historyScroll = i }
func (m *ScorerModel) Width() int              { return m.width }
func (m *ScorerModel) Height() int             { return m.height }

func (m *ScorerModel) EnterPlaying() {
	m.phase = PhasePlaying
	m.input.Reset()
	m.input.Focus()
}

// SetNotification shows message and returns the command that clears it.
func (m *ScorerModel) SetNotification(notifyType NotificationType, message string) tea.Cmd {
	m.notification = &Notification{Message: message, Type: notifyType}
	if notifyType == NotifyError {
		m.PlaySound(sound.CueError)
	}
	return tea.Tick(notificationTTL, func(time.Time) tea.Msg {
		return ClearNotificationMsg{}
	})
}

func (m *ScorerModel) ClearNotification()          { m.notification = nil }
func (m *ScorerModel) Notification() *Notification { return m.notification }

func (m *ScorerModel) PlaySound(c sound.Cue) {
	if m.player != nil {
		m.player.Play(c)
	}
}

// Update handles tea messages.
func (m *ScorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ClearNotificationMsg:
		m.ClearNotification()

	case tea.KeyMsg:
		// Handle keyboard input via injected handler
		if m.keyHandler != nil {
			handled, keyCmd := m.keyHandler(m, msg)
			if keyCmd != nil {
				cmds = append(cmds, keyCmd)
			}
			if handled {
				return m, tea.Batch(cmds...)
			}
		}
	}

	if m.phase == PhasePlaying {
		newInput, cmd := m.input.Update(msg)
		*m.input = newInput
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the model.
func (m *ScorerModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	content := "View renderer not initialized"
	if m.viewRenderer != nil {
		content = m.viewRenderer(m, m.phase)
	}
	return common.DocStyle.Render(content)
}

// SetViewRenderer sets the view rendering function.
func (m *ScorerModel) SetViewRenderer(fn func(Model, Phase) string) {
	m.viewRenderer = fn
}

// SetKeyHandler sets the keyboard event handler function.
func (m *ScorerModel) SetKeyHandler(fn func(Model, tea.KeyMsg) (bool, tea.Cmd)) {
	m.keyHandler = fn
}
