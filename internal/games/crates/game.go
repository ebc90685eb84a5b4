package crates

import (
	"fmt"

	"github.com/vovakirdan/roomwalk/internal/config"
	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/registry"
	"github.com/vovakirdan/roomwalk/internal/telemetry"
)

const (
	hudHeight = 2
	cellWidth = 2
)

var configPath string

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// Game implements the crate pushing puzzle.
type Game struct {
	cfg        config.CratesConfig
	rec        *telemetry.Recorder
	puzzle     *Puzzle
	levelIndex int
	levelErr   error

	tick     uint64
	moves    int
	pushes   int
	solved   int
	tps      int
	clearFor int // ticks left on the level cleared banner

	levelCleared bool
	won          bool
	paused       bool

	screenW  int
	screenH  int
	tooSmall bool
}

// New creates a crates game.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register("crates", func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "crates"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Crates"
}

// Description is the one-line pitch shown by the menu.
func (g *Game) Description() string {
	return "Push every crate onto a goal, level by level."
}

// Reset starts over from the configured level.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	cc, err := config.LoadCrates(configPath)
	if err != nil {
		cc = config.DefaultCratesConfig()
	}
	g.cfg = cc
	g.rec = telemetry.NewRecorder("crates", telemetry.Default())
	g.tps = cfg.TicksPerSecond()
	g.tick = 0
	g.moves = 0
	g.pushes = 0
	g.solved = 0
	g.won = false
	g.paused = false
	g.levelIndex = core.Clamp(cc.StartLevel, 0, LevelCount()-1)
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.loadLevel()
	g.emit(telemetry.KindStart, "")
}

// loadLevel (re)builds the current level from its layout.
func (g *Game) loadLevel() {
	g.levelCleared = false
	g.clearFor = 0
	g.puzzle, g.levelErr = ParsePuzzle(GetLevel(g.levelIndex).Layout)
	g.Resize(g.screenW, g.screenH)
}

// Resize follows a terminal resize without touching the puzzle.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	if g.puzzle == nil {
		g.tooSmall = false
		return
	}
	g.tooSmall = w < g.puzzle.W*cellWidth || h < g.puzzle.H+hudHeight+2
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	// Handle restart
	if input.Has(core.ActionRestart) && g.won {
		g.emit(telemetry.KindRestart, "game")
		g.Reset(core.RuntimeConfig{
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tps,
		})
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if input.Has(core.ActionPause) && !g.won {
		g.paused = !g.paused
	}

	if g.won || g.paused || g.tooSmall || g.puzzle == nil {
		return core.StepResult{State: g.State()}
	}

	if g.levelCleared {
		g.clearFor--
		if g.clearFor <= 0 {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	// Space rebuilds a stuck level; the moves spent stay on the clock.
	if input.Has(core.ActionUse) {
		g.emit(telemetry.KindRestart, "level")
		g.loadLevel()
		return core.StepResult{State: g.State()}
	}

	if d, ok := core.DirForAction(input.Move()); ok {
		g.move(d)
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) move(d core.Dir) {
	res := g.puzzle.Move(d)
	if !res.Moved {
		return
	}
	g.moves++
	if res.Pushed {
		g.pushes++
		g.emit(telemetry.KindPush, d.String())
	} else {
		g.emit(telemetry.KindMove, d.String())
	}

	if g.puzzle.Solved() {
		g.solved++
		g.levelCleared = true
		g.clearFor = g.tps * 3 / 2
		g.emit(telemetry.KindLevel, GetLevel(g.levelIndex).Name)
	}
}

func (g *Game) advanceLevel() {
	g.levelIndex++
	if g.levelIndex >= LevelCount() {
		g.levelIndex = LevelCount() - 1
		g.levelCleared = false
		g.won = true
		g.emit(telemetry.KindWin, fmt.Sprintf("%d moves", g.moves))
		return
	}
	g.loadLevel()
}

// Score is the points for solved levels minus the move penalty, never
// below zero.
func (g *Game) Score() int {
	return max(0, g.solved*g.cfg.LevelPoints-g.moves*g.cfg.MovePenalty)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.Score(),
		GameOver: g.won,
		Paused:   g.paused,
	}
}

func (g *Game) emit(kind telemetry.Kind, detail string) {
	e := telemetry.Event{Kind: kind, Detail: detail, Room: fmt.Sprintf("level %d", g.levelIndex+1)}
	if g.puzzle != nil {
		e.X, e.Y = g.puzzle.Worker.X, g.puzzle.Worker.Y
	}
	g.rec.Emit(e)
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	level := GetLevel(g.levelIndex)
	hud := fmt.Sprintf(" Crates — Level %d/%d %s  Moves: %d  Score: %d",
		g.levelIndex+1, LevelCount(), level.Name, g.moves, g.Score())
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─')

	if g.puzzle == nil {
		dst.Overlay("Broken level", g.levelErr.Error())
		return
	}
	if g.tooSmall {
		dst.Overlay("Window too small", "Resize to continue")
		return
	}

	p := g.puzzle
	ox := (g.screenW - p.W*cellWidth) / 2
	oy := hudHeight
	for y := range p.H {
		for x := range p.W {
			left, right := g.tileAt(core.Pt(x, y))
			sx := ox + x*cellWidth
			dst.SetCell(sx, oy+y, left)
			dst.SetCell(sx+1, oy+y, right)
		}
	}
	dst.DrawText(ox, oy+p.H+1, fmt.Sprintf("Stored %d/%d   Space resets the level", p.Stored(), p.Goals.Size()))

	switch {
	case g.won:
		dst.Overlay("All crates stored!", fmt.Sprintf("Final Score: %d", g.Score()))
	case g.levelCleared:
		dst.Overlay(fmt.Sprintf("Level %d cleared!", g.levelIndex+1), level.Name)
	case g.paused:
		dst.Overlay("Paused", "Press P to continue")
	}
}

// tileAt returns the two screen cells of one puzzle tile.
func (g *Game) tileAt(q core.Point) (core.Cell, core.Cell) {
	p := g.puzzle
	if p.Wall(q) {
		c := core.Cell{Rune: ' ', Bg: core.ColorDarkGray}
		return c, c
	}

	floor := core.ColorGreen
	if g.cfg.WearAfter > 0 && p.Visits(q) >= g.cfg.WearAfter {
		floor = core.ColorMaroon
	}

	switch {
	case q == p.Worker:
		c := core.Cell{Rune: '█', Fg: core.ColorRed, Bg: floor}
		return c, c
	case p.Crates.Has(q):
		fg := core.ColorBlack
		if p.Goals.Has(q) {
			fg = core.ColorYellow
		}
		return core.Cell{Rune: '[', Fg: fg, Bg: core.ColorBrown}, core.Cell{Rune: ']', Fg: fg, Bg: core.ColorBrown}
	case p.Goals.Has(q):
		return core.Cell{Rune: '·', Fg: core.ColorYellow, Bg: floor}, core.Cell{Rune: ' ', Bg: floor}
	}
	c := core.Cell{Rune: ' ', Bg: floor}
	return c, c
}
