// Package pyramid is the room maze escape: walk the collapsing pyramid, pick
// up teammates and artifacts, and reach the exit before the countdown ends.
package pyramid

import (
	"io/fs"
	"os"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/roomwalk/internal/config"
	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/registry"
	"github.com/vovakirdan/roomwalk/internal/rooms"
	"github.com/vovakirdan/roomwalk/internal/session"
	"github.com/vovakirdan/roomwalk/internal/telemetry"
	"github.com/vovakirdan/roomwalk/internal/world"
)

const (
	hudHeight    = 2
	cellWidth    = 2  // terminal columns per room cell
	restartDelay = 30 // ticks an ended game ignores Space, so a held key does not retry at once
	fadeSeconds  = 1
)

// Package-level settings, applied on the next Reset.
var (
	configPath       string
	difficultyPreset string
	mazeDir          string
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset (easy, normal, hard).
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// SetMazeDir overrides the directory the room bitmaps are read from.
func SetMazeDir(dir string) {
	mazeDir = dir
}

// Game implements the pyramid escape.
type Game struct {
	cfg      config.PyramidConfig
	sess     *session.Session
	loader   *rooms.Loader
	setupErr error

	tps         int
	tick        uint64
	secondTicks int
	endTicks    int
	paused      bool

	screenW  int
	screenH  int
	tooSmall bool

	fade      *gween.Tween
	fadeLevel float32
}

// New creates a pyramid game. Rooms start loading on Reset.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register("pyramid", func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "pyramid"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Pyramid Escape"
}

// Description is the one-line pitch shown by the menu.
func (g *Game) Description() string {
	return "Lead the team out of a collapsing pyramid before time runs out."
}

// LoadConfig resolves the pyramid config the same way Reset does.
// A broken config file falls back to the defaults.
func LoadConfig() config.PyramidConfig {
	cfg, err := config.LoadPyramid(configPath)
	if err != nil {
		cfg = config.DefaultPyramidConfig()
	}
	if preset := config.ParsePreset(difficultyPreset); preset != "" {
		config.ApplyPyramidPreset(&cfg, preset)
	}
	if mazeDir != "" {
		cfg.Maze.Dir = mazeDir
	}
	return cfg
}

// SessionConfig converts the YAML config into session settings.
func SessionConfig(cfg config.PyramidConfig) session.Config {
	m := cfg.Maze
	sc := session.Config{
		Game:            "pyramid",
		MazeW:           m.Width,
		MazeH:           m.Height,
		RoomW:           m.RoomWidth,
		RoomH:           m.RoomHeight,
		StartRoom:       world.RoomCoord{X: m.StartRoom.X, Y: m.StartRoom.Y},
		StartPos:        core.Pt(m.StartPos.X, m.StartPos.Y),
		Seconds:         cfg.Timer.Seconds,
		MessageEvery:    cfg.Timer.MessageEvery,
		StartMessage:    cfg.Timer.StartMessage,
		PointsPerItem:   cfg.Scoring.PerCollectible,
		PointsPerSecond: cfg.Scoring.PerSecond,
	}
	if sc.StartMessage == "" {
		sc.StartMessage = session.MsgStart
	}
	return sc
}

// RoomLayout converts the YAML maze description into a loader layout.
func RoomLayout(m config.MazeConfig) rooms.Layout {
	return rooms.Layout{
		W:     m.Width,
		H:     m.Height,
		RoomW: m.RoomWidth,
		RoomH: m.RoomHeight,
		Files: m.Rooms,
	}
}

// RoomFS returns the filesystem holding the room bitmaps.
func RoomFS(m config.MazeConfig) fs.FS {
	if m.Dir == "" {
		return rooms.DefaultFS()
	}
	return os.DirFS(m.Dir)
}

// Reset initializes the game and starts loading every room.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.Close()

	g.tps = cfg.TicksPerSecond()
	g.tick = 0
	g.secondTicks = 0
	g.endTicks = 0
	g.paused = false
	g.fade = nil
	g.fadeLevel = 0
	g.sess = nil
	g.loader = nil

	g.cfg = LoadConfig()
	g.setupErr = g.start()
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

func (g *Game) start() error {
	loader, err := rooms.NewLoader(RoomFS(g.cfg.Maze), RoomLayout(g.cfg.Maze))
	if err != nil {
		return err
	}
	sess, err := session.New(SessionConfig(g.cfg), loader, telemetry.Default())
	if err != nil {
		loader.Close()
		return err
	}
	g.loader = loader
	g.sess = sess
	sess.Start()
	return nil
}

// Close stops the background room loader.
func (g *Game) Close() {
	if g.loader != nil {
		g.loader.Close()
	}
}

// Resize follows a terminal resize without restarting the play-through.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < g.cfg.Maze.RoomWidth*cellWidth || h < g.cfg.Maze.RoomHeight+hudHeight+2
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++
	if g.sess == nil {
		return core.StepResult{State: g.State()}
	}

	for _, r := range g.loader.Poll() {
		g.sess.RoomLoaded(r)
	}

	if g.sess.State().Over() {
		g.endTicks++
		g.advanceClock()
		if g.fade != nil {
			level, done := g.fade.Update(1 / float32(g.tps))
			if done {
				level = 1
			}
			g.fadeLevel = level
		}
		if g.endTicks >= restartDelay && (input.Has(core.ActionUse) || input.Has(core.ActionRestart)) {
			g.restart()
		}
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if input.Has(core.ActionPause) && g.sess.State() == session.Playing {
		g.paused = !g.paused
	}

	if g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	// The clock runs first so time running out beats a move on the same tick.
	if !g.sess.State().Over() {
		g.advanceClock()
	}

	if g.sess.State() == session.Playing {
		if input.Has(core.ActionUse) {
			g.sess.Surrender()
		} else if d, ok := core.DirForAction(input.Move()); ok {
			g.sess.Move(d)
		}
	}

	if g.sess.State().Over() {
		g.ended()
	}

	return core.StepResult{State: g.State()}
}

// advanceClock ticks the session once per second of game time.
func (g *Game) advanceClock() {
	g.secondTicks++
	if g.secondTicks >= g.tps {
		g.secondTicks = 0
		g.sess.Tick()
	}
}

func (g *Game) ended() {
	g.endTicks = 0
	g.paused = false
	if g.sess.State() == session.Lost {
		g.fade = gween.New(0, 1, fadeSeconds, ease.OutQuad)
		g.fadeLevel = 0
	}
}

func (g *Game) restart() {
	g.sess.Restart()
	g.secondTicks = 0
	g.endTicks = 0
	g.paused = false
	g.fade = nil
	g.fadeLevel = 0
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.sess == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.sess.Score(),
		GameOver: g.sess.State().Over(),
		Paused:   g.paused,
	}
}

// Session exposes the running session, mainly for tests.
func (g *Game) Session() *session.Session {
	return g.sess
}
