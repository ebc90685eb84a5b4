package pyramid

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/bmp"

	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/rooms"
	"github.com/vovakirdan/roomwalk/internal/session"
	"github.com/vovakirdan/roomwalk/internal/telemetry"
	"github.com/vovakirdan/roomwalk/internal/world"
)

// isolate keeps user and local config files out of the test and restores the
// package-level settings afterwards.
func isolate(t *testing.T) *telemetry.Memory {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	mem := &telemetry.Memory{}
	telemetry.SetDefault(mem)
	t.Cleanup(func() {
		telemetry.SetDefault(nil)
		SetConfigPath("")
		SetDifficultyPreset("")
		SetMazeDir("")
	})
	return mem
}

// writeMaze writes a two-room corridor and a config pointing at it.
// The player starts at (1,1) of the left room; the exit is at (3,1) of the
// right room, one teammate and one artifact lie on the way.
func writeMaze(t *testing.T, seconds int) {
	t.Helper()
	dir := t.TempDir()

	layouts := map[string][]string{
		"left.bmp": {
			"#####",
			"#.p..",
			"#####",
		},
		"right.bmp": {
			"#####",
			"..tE#",
			"#####",
		},
	}
	for name, rows := range layouts {
		room, err := world.ParseRoom(rows)
		if err != nil {
			t.Fatalf("ParseRoom(%s): %v", name, err)
		}
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if err := bmp.Encode(f, rooms.DefaultPalette.Image(room)); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}

	cfg := fmt.Sprintf(`maze:
  dir: %q
  width: 2
  height: 1
  room_width: 5
  room_height: 3
  start_room: { x: 0, y: 0 }
  start_pos: { x: 1, y: 1 }
  rooms:
    - [left.bmp, right.bmp]
timer:
  seconds: %d
  message_every: 5
scoring:
  per_collectible: 50
  per_second: 1
`, dir, seconds)
	path := filepath.Join(dir, "pyramid.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)
}

func newGame(t *testing.T, w, h int) *Game {
	t.Helper()
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: w, ScreenH: h, TickRate: 10})
	t.Cleanup(g.Close)
	return g
}

// waitFor drains finished rooms until cond holds, without advancing the clock.
func waitFor(t *testing.T, g *Game, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out, state %s status %q", g.Snapshot().State, g.Snapshot().Status)
		}
		g.loaderSettle()
	}
}

// loaderSettle gives the room goroutines a moment, then drains them.
func (g *Game) loaderSettle() {
	time.Sleep(time.Millisecond)
	for _, r := range g.loader.Poll() {
		g.sess.RoomLoaded(r)
	}
}

func waitPlaying(t *testing.T, g *Game) {
	t.Helper()
	waitFor(t, g, func() bool {
		return g.sess.State() == session.Playing && g.sess.World().Maze.Complete()
	})
}

func press(g *Game, a core.Action) {
	in := core.NewInputFrame()
	in.Set(a)
	g.Step(in)
}

func idle(g *Game, n int) {
	in := core.NewInputFrame()
	for range n {
		g.Step(in)
	}
}

func TestStartsInMainHall(t *testing.T) {
	isolate(t)
	g := newGame(t, 80, 24)
	waitPlaying(t, g)

	snap := g.Snapshot()
	if snap.Room != (world.RoomCoord{X: 1, Y: 1}) || snap.Pos != core.Pt(8, 8) {
		t.Errorf("start = %v %v, expected (1,1) (8,8)", snap.Room, snap.Pos)
	}
	if snap.State != StatePlaying {
		t.Errorf("state = %s", snap.State)
	}
	if !strings.HasPrefix(snap.Status, "2:00     ") {
		t.Errorf("status = %q", snap.Status)
	}
}

func TestDifficultyScalesCountdown(t *testing.T) {
	isolate(t)
	SetDifficultyPreset("hard")
	g := newGame(t, 80, 24)
	if got := g.Session().Remaining(); got != 80 {
		t.Errorf("hard countdown = %d, expected 80", got)
	}
}

func TestClockTicksOncePerSecond(t *testing.T) {
	isolate(t)
	writeMaze(t, 30)
	g := newGame(t, 80, 24)
	waitPlaying(t, g)

	idle(g, 9)
	if got := g.Snapshot().Remaining; got != 30 {
		t.Fatalf("after 9 ticks remaining = %d, expected 30", got)
	}
	idle(g, 1)
	if got := g.Snapshot().Remaining; got != 29 {
		t.Errorf("after 10 ticks remaining = %d, expected 29", got)
	}
}

func TestWalkToExit(t *testing.T) {
	mem := isolate(t)
	writeMaze(t, 30)
	g := newGame(t, 80, 24)
	waitPlaying(t, g)

	for range 7 {
		press(g, core.ActionRight)
	}

	snap := g.Snapshot()
	if snap.State != StateWon {
		t.Fatalf("state = %s at %v %v", snap.State, snap.Room, snap.Pos)
	}
	if snap.Collected.People() != 1 || snap.Collected.Treasure() != 1 {
		t.Errorf("collected = %v", snap.Collected)
	}
	if snap.Ending != session.EndingBalanced {
		t.Errorf("ending = %v", snap.Ending)
	}
	if snap.Status != "1 saved and 1 found." {
		t.Errorf("status = %q", snap.Status)
	}
	// 2 collectibles at 50 plus 30 seconds left
	if snap.Score != 130 || !g.State().GameOver {
		t.Errorf("score = %d, game over = %v", snap.Score, g.State().GameOver)
	}

	kinds := mem.Kinds()
	if kinds[len(kinds)-1] != telemetry.KindWin {
		t.Errorf("last event = %s, expected win", kinds[len(kinds)-1])
	}
}

func TestSurrenderFadeAndRetry(t *testing.T) {
	isolate(t)
	writeMaze(t, 30)
	g := newGame(t, 80, 24)
	waitPlaying(t, g)

	press(g, core.ActionRight)
	press(g, core.ActionUse)
	snap := g.Snapshot()
	if snap.State != StateLost || snap.Status != session.MsgSurrender {
		t.Fatalf("after surrender: %s %q", snap.State, snap.Status)
	}
	if snap.Score != 0 {
		t.Errorf("lost score = %d", snap.Score)
	}

	// A held Space does not retry straight away
	press(g, core.ActionUse)
	if g.Snapshot().State != StateLost {
		t.Fatal("retried during the restart delay")
	}

	idle(g, restartDelay)
	if g.fadeLevel != 1 {
		t.Errorf("fade level = %v after the fade time", g.fadeLevel)
	}
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "The pyramid collapsed") {
		t.Error("loss picture missing after the fade")
	}

	press(g, core.ActionUse)
	waitPlaying(t, g)
	snap = g.Snapshot()
	if snap.Pos != core.Pt(1, 1) || snap.Remaining != 30 || snap.Collected.Total() != 0 {
		t.Errorf("after retry: %+v", snap)
	}
	if snap.Totals.People() != 1 || snap.Totals.Treasure() != 1 {
		t.Errorf("totals after retry = %v", snap.Totals)
	}
}

func TestTimeRunsOut(t *testing.T) {
	isolate(t)
	writeMaze(t, 2)
	g := newGame(t, 80, 24)
	waitPlaying(t, g)

	idle(g, 20)
	snap := g.Snapshot()
	if snap.State != StateLost || snap.Status != session.MsgTimeUp {
		t.Errorf("state %s status %q", snap.State, snap.Status)
	}
}

func TestPauseStopsClockAndMoves(t *testing.T) {
	isolate(t)
	writeMaze(t, 30)
	g := newGame(t, 80, 24)
	waitPlaying(t, g)

	press(g, core.ActionPause)
	idle(g, 50)
	press(g, core.ActionRight)
	snap := g.Snapshot()
	if snap.State != StatePaused || snap.Remaining != 30 || snap.Pos != core.Pt(1, 1) {
		t.Errorf("paused game changed: %+v", snap)
	}
	press(g, core.ActionPause)
	if g.Snapshot().State != StatePlaying {
		t.Error("unpause failed")
	}
}

func TestRenderRoom(t *testing.T) {
	isolate(t)
	writeMaze(t, 30)
	g := newGame(t, 40, 12)
	waitPlaying(t, g)

	screen := core.NewScreen(40, 12)
	g.Render(screen)

	if !strings.Contains(screen.Row(0), "Teammates 0/1") {
		t.Errorf("HUD = %q", screen.Row(0))
	}

	// room (10 cols) + gap + minimap (6 cols) centered in 40
	ox := (40 - 18) / 2
	player := screen.GetCell(ox+1*cellWidth, hudHeight+1)
	if player.Rune != '█' || player.Fg != core.ColorRed {
		t.Errorf("player cell = %+v", player)
	}
	wall := screen.GetCell(ox, hudHeight)
	if wall.Bg != core.ColorMaroon {
		t.Errorf("wall cell = %+v", wall)
	}
	person := screen.GetCell(ox+2*cellWidth, hudHeight+1)
	if person.Rune != '☺' || person.Fg != core.ColorCyan {
		t.Errorf("person cell = %+v", person)
	}
	if !strings.Contains(screen.Row(hudHeight), "[@]") {
		t.Errorf("minimap row = %q", screen.Row(hudHeight))
	}
	if !strings.Contains(screen.Row(hudHeight+4), "0:30") {
		t.Errorf("status row = %q", screen.Row(hudHeight+4))
	}
}

func TestResizeKeepsProgress(t *testing.T) {
	isolate(t)
	writeMaze(t, 30)
	g := newGame(t, 80, 24)
	waitPlaying(t, g)
	press(g, core.ActionRight)

	g.Resize(6, 4)
	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("state = %s, expected paused_small_window", g.Snapshot().State)
	}
	screen := core.NewScreen(30, 9)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("too-small overlay missing")
	}

	g.Resize(80, 24)
	snap := g.Snapshot()
	if snap.State != StatePlaying || snap.Pos != core.Pt(2, 1) || snap.Collected.People() != 1 {
		t.Errorf("progress lost on resize: %+v", snap)
	}
}

func TestBrokenMazeDirReportsError(t *testing.T) {
	isolate(t)
	SetMazeDir(t.TempDir())
	g := newGame(t, 80, 24)
	waitFor(t, g, func() bool { return g.sess.LoadErr() != nil })

	idle(g, 1)
	if g.Snapshot().State != StateFailed {
		t.Errorf("state = %s", g.Snapshot().State)
	}
	if !strings.HasPrefix(g.Snapshot().Status, "Could not load the maze") {
		t.Errorf("status = %q", g.Snapshot().Status)
	}
	press(g, core.ActionRight)
	if g.State().GameOver {
		t.Error("a failed load must not count as a finished game")
	}
}

func TestExitOnLastTickStillLoses(t *testing.T) {
	isolate(t)
	writeMaze(t, 1)
	g := newGame(t, 80, 24)
	waitPlaying(t, g)

	for range 6 {
		press(g, core.ActionRight)
	}
	idle(g, 3)
	if got := g.Snapshot(); got.State != StatePlaying || got.Remaining != 1 {
		t.Fatalf("before the last tick: %s, %d left", got.State, got.Remaining)
	}

	// The step onto the exit lands on the tick that empties the clock
	press(g, core.ActionRight)
	snap := g.Snapshot()
	if snap.State != StateLost || snap.Status != session.MsgTimeUp {
		t.Errorf("state %s status %q, expected time up", snap.State, snap.Status)
	}
}
