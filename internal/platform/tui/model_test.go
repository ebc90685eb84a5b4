package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/storage"
)

// scriptGame ends with a score once it sees a Use action and starts a new
// round on Restart.
type scriptGame struct {
	resets  int
	resized [2]int
	closed  bool
	moves   []core.Action
	over    bool
	score   int
}

func (g *scriptGame) ID() string                { return "script" }
func (g *scriptGame) Title() string             { return "Script" }
func (g *scriptGame) Reset(core.RuntimeConfig)  { g.resets++; g.over = false }
func (g *scriptGame) Render(dst *core.Screen)   { dst.DrawText(0, 0, "script") }
func (g *scriptGame) Resize(w, h int)           { g.resized = [2]int{w, h} }
func (g *scriptGame) Close()                    { g.closed = true }
func (g *scriptGame) State() core.GameState     { return core.GameState{Score: g.score, GameOver: g.over} }
func (g *scriptGame) Step(in core.InputFrame) core.StepResult {
	switch {
	case in.Has(core.ActionRestart) && g.over:
		g.over = false
	case in.Has(core.ActionUse):
		g.over = true
		g.score += 10
	case in.Move() != core.ActionNone:
		g.moves = append(g.moves, in.Move())
	}
	return core.StepResult{State: g.State()}
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func TestModelOneMovePerTick(t *testing.T) {
	g := &scriptGame{}
	m := NewModel(g, nil, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 10})
	m.Init()

	m = step(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = step(t, m, runeKey('d'))
	m = step(t, m, TickMsg{})
	m = step(t, m, TickMsg{})

	if len(g.moves) != 1 || g.moves[0] != core.ActionLeft {
		t.Errorf("moves = %v, expected one left", g.moves)
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	g := &scriptGame{}
	m := NewModel(g, nil, core.RuntimeConfig{ScreenW: 40, ScreenH: 10})
	m.Init()

	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if g.resets != 1 {
		t.Errorf("resize reset the game %d times", g.resets-1)
	}
	if g.resized != [2]int{100, 30} {
		t.Errorf("resized = %v", g.resized)
	}
	if m.screen.Width() != 100 || m.screen.Height() != 30 {
		t.Errorf("screen %dx%d", m.screen.Width(), m.screen.Height())
	}
}

func TestModelSavesScoreOncePerRound(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	g := &scriptGame{}
	m := NewModel(g, store, core.RuntimeConfig{ScreenW: 40, ScreenH: 10})
	m.Init()

	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = step(t, m, TickMsg{})
	m = step(t, m, TickMsg{})
	m = step(t, m, runeKey('r'))
	m = step(t, m, TickMsg{})
	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	step(t, m, TickMsg{})

	scores, err := store.AllScores("script")
	if err != nil {
		t.Fatalf("AllScores: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("saved %d scores, expected 2", len(scores))
	}
	if best, _ := store.HighScore("script"); best != 20 {
		t.Errorf("best = %d", best)
	}
}

func TestModelQuitReleasesGame(t *testing.T) {
	g := &scriptGame{}
	m := NewModel(g, nil, core.RuntimeConfig{ScreenW: 40, ScreenH: 10})
	m.Init()

	m = step(t, m, runeKey('q'))
	if !m.quitting || !g.closed {
		t.Errorf("quitting=%v closed=%v", m.quitting, g.closed)
	}
	if m.View() != "" {
		t.Error("view should be empty after quit")
	}
}

func TestGameModelBackToMenu(t *testing.T) {
	g := &scriptGame{}
	gm := NewGameModel(g, nil, core.RuntimeConfig{ScreenW: 40, ScreenH: 10})
	gm.Init()

	next, _ := gm.Update(runeKey('b'))
	gm = next.(GameModel)
	if gm.BackToMenu() {
		t.Fatal("back during play should be ignored")
	}

	next, _ = gm.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	gm = next.(GameModel)
	next, _ = gm.Update(TickMsg{})
	gm = next.(GameModel)
	next, _ = gm.Update(runeKey('b'))
	gm = next.(GameModel)
	if !gm.BackToMenu() || !g.closed {
		t.Errorf("back=%v closed=%v", gm.BackToMenu(), g.closed)
	}
}

func TestModelFlashesFailedSave(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store.Close()

	g := &scriptGame{}
	m := NewModel(g, store, core.RuntimeConfig{ScreenW: 60, ScreenH: 5, TickRate: 10})
	m.Init()

	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = step(t, m, TickMsg{})
	if !strings.Contains(m.View(), "score not saved") {
		t.Errorf("view lacks the failure line:\n%s", m.View())
	}

	for range 2 * 10 {
		m = step(t, m, TickMsg{})
	}
	if strings.Contains(m.View(), "score not saved") {
		t.Error("failure line should fade")
	}
}
