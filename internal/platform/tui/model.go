package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/registry"
	"github.com/vovakirdan/roomwalk/internal/storage"
)

// flashSeconds is how long a status line stays on screen.
const flashSeconds = 2

// Model drives one game: keys fill an InputFrame, every tick steps the game
// once and View draws its screen.
type Model struct {
	game   registry.Game
	screen *core.Screen
	store  *storage.Store
	config core.RuntimeConfig
	keys   *KeyMapper

	frame    core.InputFrame
	last     core.GameState
	recorded bool // score of the current game over already stored

	flash     string
	flashLeft int
	quitting  bool
}

// NewModel wraps game for Bubble Tea. A zero seed is replaced with one taken
// from the clock.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	cfg.TickRate = cfg.TicksPerSecond()

	return Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:  store,
		config: cfg,
		keys:   NewKeyMapper(),
		frame:  core.NewInputFrame(),
	}
}

// Init resets the game and starts ticking.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			m.screenshot()
			return m, nil
		}
		if m.keys.MapKeyToFrame(msg, &m.frame) {
			m.quitting = true
			registry.Release(m.game)
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case TickMsg:
		m.tick()
		return m, tickCmd(m.config.TickRate)
	}
	return m, nil
}

// resize keeps the round going for games that can follow the terminal.
// Others start over at the new size unless the round is already over.
func (m *Model) resize(w, h int) {
	m.config.ScreenW, m.config.ScreenH = w, h
	m.screen.Resize(w, h)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(w, h)
	} else if !m.last.GameOver {
		m.game.Reset(m.config)
	}
}

func (m *Model) tick() {
	m.last = m.game.Step(m.frame).State
	m.frame.Clear()

	if m.flashLeft > 0 {
		m.flashLeft--
	}

	// Games restart themselves, so a running round re-arms the score save.
	if !m.last.GameOver {
		m.recorded = false
		return
	}
	if m.recorded || m.last.Score <= 0 {
		return
	}
	m.recorded = true
	if m.store == nil {
		return
	}
	if _, err := m.store.SaveScore(m.game.ID(), m.last.Score); err != nil {
		m.setFlash("score not saved: " + err.Error())
	}
}

func (m *Model) setFlash(text string) {
	m.flash = text
	m.flashLeft = flashSeconds * m.config.TickRate
}

// screenshot writes the current frame as plain text under
// ~/.arcade/screenshots.
func (m *Model) screenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.setFlash("screenshot failed: " + err.Error())
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.setFlash("screenshot failed: " + err.Error())
		return
	}
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.setFlash("screenshot failed: " + err.Error())
		return
	}
	m.setFlash("saved " + path)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	// A game that skips Clear would otherwise keep the faded status line.
	m.screen.Clear()
	m.game.Render(m.screen)
	if m.flashLeft > 0 && m.screen.Height() > 0 {
		m.screen.DrawTextColored(0, m.screen.Height()-1, m.flash, core.ColorSand)
	}
	return RenderScreen(m.screen)
}

// Run plays game in the alternate screen until the player quits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	_, err := tea.NewProgram(NewModel(game, store, cfg), tea.WithAltScreen()).Run()
	registry.Release(game)
	return err
}
