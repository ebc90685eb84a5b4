// Package reef is a minesweeper-like sailing game: every cell the ship visits
// tells how many reefs surround it, and the treasure hides somewhere in the
// sea. Touching a reef sinks the ship.
package reef

import (
	"fmt"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/roomwalk/internal/config"
	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/registry"
	"github.com/vovakirdan/roomwalk/internal/telemetry"
)

// Status lines.
const (
	MsgSail  = "Find the treasure. Mind the reefs."
	MsgSunk  = "Your Ship Has Sunk"
	MsgFound = "You Found the Treasure!"
)

const (
	hudHeight = 2
	cellWidth = 2
)

// Package-level settings, applied on the next Reset.
var (
	configPath       string
	difficultyPreset string
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset (easy, normal, hard).
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// Game implements the reef exploration.
type Game struct {
	cfg    config.ReefConfig
	rng    *rand.Rand
	rec    *telemetry.Recorder
	board  *Board
	genErr error

	ship     core.Point
	visited  mapset.Set[core.Point]
	revealed mapset.Set[core.Point]
	tick     uint64
	moves    int

	sunk   bool
	found  bool
	paused bool

	screenW  int
	screenH  int
	tooSmall bool
}

// New creates a reef game.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register("reef", func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "reef"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Reef Explorer"
}

// Description is the one-line pitch shown by the menu.
func (g *Game) Description() string {
	return "Chart the reef by its counts and find the treasure without sinking."
}

// Reset rolls a new sea.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	rc, err := config.LoadReef(configPath)
	if err != nil {
		rc = config.DefaultReefConfig()
	}
	if preset := config.ParsePreset(difficultyPreset); preset != "" {
		config.ApplyReefPreset(&rc, preset)
	}
	g.cfg = rc
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.rec = telemetry.NewRecorder("reef", telemetry.Default())
	g.tick = 0

	bc := rc.Board
	board, err := Generate(g.rng, Options{
		W:         bc.Width,
		H:         bc.Height,
		ReefOneIn: bc.ReefOneIn,
		Start:     core.Pt(bc.Start.X, bc.Start.Y),
		MaxTries:  bc.MaxTries,
	})
	g.genErr = err
	g.board = nil
	if err == nil {
		g.launch(board)
	}
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// launch puts the ship on the start cell of b.
func (g *Game) launch(b *Board) {
	g.board = b
	g.ship = b.Start
	g.visited = mapset.New[core.Point]()
	g.revealed = mapset.New[core.Point]()
	g.moves = 0
	g.sunk = false
	g.found = false
	g.paused = false
	g.visit(b.Start)
	g.emit(telemetry.KindStart, "")
}

// Resize follows a terminal resize without rolling a new sea.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < g.cfg.Board.Width*cellWidth || h < g.cfg.Board.Height+hudHeight+2
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	over := g.sunk || g.found
	if over && (input.Has(core.ActionRestart) || input.Has(core.ActionUse)) {
		g.emit(telemetry.KindRestart, "")
		g.Reset(core.RuntimeConfig{
			Seed:    g.rng.Int63(),
			ScreenW: g.screenW,
			ScreenH: g.screenH,
		})
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if input.Has(core.ActionPause) && !over {
		g.paused = !g.paused
	}

	if g.board == nil || over || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if d, ok := core.DirForAction(input.Move()); ok {
		g.sail(d)
	}

	return core.StepResult{State: g.State()}
}

// sail moves the ship one cell. The board edge stops it.
func (g *Game) sail(d core.Dir) {
	next := g.ship.Step(d)
	if !g.board.In(next) {
		return
	}
	g.ship = next
	g.moves++
	g.emit(telemetry.KindMove, d.String())

	switch {
	case g.board.Reef(next):
		g.sunk = true
		g.emit(telemetry.KindLose, "sunk")
	case next == g.board.Treasure:
		g.found = true
		g.visited.Put(next)
		g.emit(telemetry.KindWin, "treasure")
	default:
		g.visit(next)
	}
}

// visit marks p as sailed through and reveals its count. Calm water with no
// reefs around also reveals its neighbours, spreading across the calm patch.
func (g *Game) visit(p core.Point) {
	g.visited.Put(p)
	queue := []core.Point{p}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		if g.revealed.Has(q) {
			continue
		}
		g.revealed.Put(q)
		if g.board.Count(q) != 0 {
			continue
		}
		for _, n := range g.board.Neighbours(q) {
			if !g.board.Reef(n) && n != g.board.Treasure && !g.revealed.Has(n) {
				queue = append(queue, n)
			}
		}
	}
}

// Score is zero unless the treasure was found; then it adds a bonus for
// every cell left unexplored.
func (g *Game) Score() int {
	if !g.found || g.board == nil {
		return 0
	}
	unvisited := g.board.W*g.board.H - g.visited.Size()
	return g.cfg.Scoring.Treasure + g.cfg.Scoring.UnvisitedBonus*unvisited
}

// Status returns the status line.
func (g *Game) Status() string {
	switch {
	case g.genErr != nil:
		return g.genErr.Error()
	case g.sunk:
		return MsgSunk
	case g.found:
		return MsgFound
	default:
		return MsgSail
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.Score(),
		GameOver: g.sunk || g.found,
		Paused:   g.paused,
	}
}

func (g *Game) emit(kind telemetry.Kind, detail string) {
	g.rec.Emit(telemetry.Event{
		Kind:   kind,
		X:      g.ship.X,
		Y:      g.ship.Y,
		Detail: detail,
	})
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	hud := fmt.Sprintf(" Reef Explorer — Moves: %d  Charted: %d", g.moves, g.revealedCount())
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─')

	if g.board == nil {
		dst.Overlay("No sea to sail", g.Status())
		return
	}
	if g.tooSmall {
		dst.Overlay("Window too small", "Resize to continue")
		return
	}

	ox := (g.screenW - g.board.W*cellWidth) / 2
	oy := hudHeight
	over := g.sunk || g.found
	for y := range g.board.H {
		for x := range g.board.W {
			c := g.cellAt(core.Pt(x, y), over)
			sx := ox + x*cellWidth
			dst.SetCell(sx, oy+y, c)
			c.Rune = ' '
			dst.SetCell(sx+1, oy+y, c)
		}
	}
	dst.DrawText(ox, oy+g.board.H+1, g.Status())

	switch {
	case g.found:
		dst.Overlay(MsgFound, fmt.Sprintf("Score %d. Press R to sail again", g.Score()))
	case g.sunk:
		dst.Overlay(MsgSunk, "Press R to sail again")
	case g.paused:
		dst.Overlay("Paused", "Press P to continue")
	}
}

// cellAt returns the look of one sea cell. Reefs and the treasure show only
// once the voyage is over.
func (g *Game) cellAt(p core.Point, over bool) core.Cell {
	c := core.Cell{Rune: ' ', Bg: core.ColorSea}
	switch {
	case p == g.ship && g.sunk:
		return core.Cell{Rune: '×', Fg: core.ColorBrightRed, Bg: core.ColorRust}
	case p == g.ship:
		c.Rune, c.Fg = '▲', core.ColorWhite
		if g.found {
			c.Bg = core.ColorYellow
		}
		return c
	case over && g.board.Reef(p):
		return core.Cell{Rune: '▒', Fg: core.ColorRust, Bg: core.ColorSea}
	case over && p == g.board.Treasure:
		return core.Cell{Rune: '◆', Fg: core.ColorYellow, Bg: core.ColorSea}
	case g.revealed.Has(p):
		if n := g.board.Count(p); n > 0 {
			c.Rune, c.Fg = rune('0'+n), countColor(n)
		} else {
			c.Bg = core.ColorBlue
		}
	}
	return c
}

func countColor(n int) core.Color {
	switch n {
	case 1:
		return core.ColorBrightCyan
	case 2:
		return core.ColorBrightYellow
	case 3:
		return core.ColorOrange
	default:
		return core.ColorBrightRed
	}
}

func (g *Game) revealedCount() int {
	if g.board == nil {
		return 0
	}
	return g.revealed.Size()
}
