package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/registry"
	"github.com/vovakirdan/roomwalk/internal/storage"
)

// SessionModel is the whole program of one SSH client. It switches between
// the game picker and a running game inside a single Bubble Tea program,
// since a remote session cannot start a new one per screen.
type SessionModel struct {
	store  *storage.Store
	config core.RuntimeConfig
	player string

	menu MenuModel
	game *GameModel // nil while the picker shows

	quitting bool
}

// NewSessionModel opens on the picker.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, player string) SessionModel {
	m := SessionModel{store: store, config: cfg, player: player}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) newMenu() MenuModel {
	menu := NewMenuModel(m.store, m.config)
	menu.player = m.player
	return menu
}

// Init implements tea.Model.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update implements tea.Model.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW, m.config.ScreenH = size.Width, size.Height
	}
	if m.game != nil {
		return m.updateGame(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	// The picker ends its own program on Tab. Remote players have no
	// scoreboard screen, so the picker just stays up.
	case m.menu.WantsScoreboard():
		m.menu = m.newMenu()
		return m, nil

	case m.menu.Selected() != nil:
		g, err := registry.Create(m.menu.Selected().GameID)
		if err != nil {
			m.menu = m.newMenu()
			return m, nil
		}
		m.config = m.menu.Config()
		gm := NewGameModel(g, m.store, m.config)
		m.game = &gm
		return m, gm.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	gm := next.(GameModel)
	m.game = &gm

	switch {
	case gm.BackToMenu():
		m.game = nil
		m.menu = m.newMenu()
		return m, m.menu.Init()
	case gm.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// View implements tea.Model.
func (m SessionModel) View() string {
	switch {
	case m.quitting:
		return ""
	case m.game != nil:
		return m.game.View()
	}
	return m.menu.View()
}

// GameModel is a Model that can hand control back to the session picker.
type GameModel struct {
	Model
	backToMenu bool
}

// NewGameModel wraps NewModel.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) GameModel {
	return GameModel{Model: NewModel(game, store, cfg)}
}

// Update leaves for the picker on Back while the round is over or paused.
// Every other message goes to the wrapped Model.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		action, _ := m.keys.MapKey(km)
		if action == core.ActionBack && (m.last.GameOver || m.last.Paused) {
			registry.Release(m.game)
			m.backToMenu = true
			return m, nil
		}
	}

	next, cmd := m.Model.Update(msg)
	m.Model = next.(Model)
	return m, cmd
}

// IsQuitting reports whether the player pressed a quit key.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the player left for the picker.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
