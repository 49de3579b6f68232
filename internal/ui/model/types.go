// Package model defines the core types and interfaces for the UI.
package model

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/bridge-scorer/internal/app"
	"github.com/palemoky/bridge-scorer/internal/sound"
)

// Phase is the screen currently shown.
type Phase int

const (
	PhaseResume Phase = iota
	PhaseModeSelect
	PhasePlaying
	PhaseHistory
	PhaseHelp
)

// NotificationType represents types of notifications.
type NotificationType int

const (
	NotifyError NotificationType = iota // 错误信息（临时）
	NotifyInfo                          // 普通提示（临时）
)

// Notification is a one-line message under the score sheet.
type Notification struct {
	Message string
	Type    NotificationType
}

// --- Tea Messages ---

// ClearNotificationMsg clears the notification.
type ClearNotificationMsg struct{}

// --- Model Interface ---

// Model is the interface of ScorerModel used by the view and input packages.
type Model interface {
	// Phase management
	Phase() Phase
	SetPhase(Phase)

	// Session
	App() *app.App
	EnterPlaying()

	// UI components
	Input() *textinput.Model
	ModeCursor() int
	SetModeCursor(int)
	HistoryScroll() int
	SetHistoryScroll(int)

	// Notification management
	SetNotification(notifyType NotificationType, message string) tea.Cmd
	ClearNotification()
	Notification() *Notification

	// Sound
	PlaySound(sound.Cue)

	// Dimensions
	Width() int
	Height() int
}
