package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/roomwalk/internal/core"
)

type actionBinding struct {
	action core.Action
	key.Binding
}

type menuBinding struct {
	action MenuAction
	key.Binding
}

// KeyMapper turns key messages into game and menu actions. The first
// matching binding wins.
type KeyMapper struct {
	game []actionBinding
	menu []menuBinding
}

func bind(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

// NewKeyMapper returns the arrow, WASD and vim style bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{
		game: []actionBinding{
			{core.ActionQuit, bind("quit", "q", "ctrl+c")},
			{core.ActionUp, bind("up", "up", "w")},
			{core.ActionDown, bind("down", "down", "s")},
			{core.ActionLeft, bind("left", "left", "a")},
			{core.ActionRight, bind("right", "right", "d")},
			{core.ActionUse, bind("use", " ")},
			{core.ActionConfirm, bind("confirm", "enter")},
			{core.ActionBack, bind("menu", "b")},
			{core.ActionPause, bind("pause", "p", "esc")},
			{core.ActionRestart, bind("restart", "r")},
		},
		menu: []menuBinding{
			{MenuActionQuit, bind("quit", "q", "ctrl+c")},
			{MenuActionUp, bind("up", "up", "k", "w")},
			{MenuActionDown, bind("down", "down", "j", "s")},
			{MenuActionSelect, bind("play", "enter", " ")},
			{MenuActionBack, bind("back", "esc", "b")},
			{MenuActionScoreboard, bind("scores", "tab")},
		},
	}
}

// MapKey returns the game action of msg and whether it asks to quit.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (core.Action, bool) {
	for _, b := range km.game {
		if key.Matches(msg, b.Binding) {
			return b.action, b.action == core.ActionQuit
		}
	}
	return core.ActionNone, false
}

// MapKeyToFrame records the action of msg in frame and reports a quit.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, quit := km.MapKey(msg)
	if action != core.ActionNone && !quit {
		frame.Set(action)
	}
	return quit
}

// MenuAction is what a key means on the picker.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction returns the picker action of msg.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	for _, b := range km.menu {
		if key.Matches(msg, b.Binding) {
			return b.action
		}
	}
	return MenuActionNone
}
