// Package tui runs games in a terminal with Bubble Tea, locally or over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/roomwalk/internal/core"
)

// TickMsg advances the game by one Step.
type TickMsg time.Time

func tickCmd(rate int) tea.Cmd {
	if rate <= 0 {
		rate = core.DefaultTickRate
	}
	return tea.Tick(time.Second/time.Duration(rate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
