// Package ui assembles the terminal scorer from the model, view and input
// packages.
package ui

import (
	"github.com/palemoky/bridge-scorer/internal/app"
	"github.com/palemoky/bridge-scorer/internal/ui/input"
	"github.com/palemoky/bridge-scorer/internal/ui/model"
	"github.com/palemoky/bridge-scorer/internal/ui/view"
)

// NewScorer returns the bubbletea model for a started app. player may be nil.
func NewScorer(a *app.App, player model.Player) *model.ScorerModel {
	m := model.NewScorerModel(a, player)
	m.SetViewRenderer(view.CreateViewRenderer())
	m.SetKeyHandler(input.HandleKeyPress)
	return m
}
