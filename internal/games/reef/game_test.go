package reef

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/telemetry"
)

// smallSea has two reefs in the bottom right with the treasure between them.
var smallSea = []string{
	".....",
	".S...",
	".....",
	"...#.",
	"...T#",
}

func isolate(t *testing.T) *telemetry.Memory {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	mem := &telemetry.Memory{}
	telemetry.SetDefault(mem)
	t.Cleanup(func() {
		telemetry.SetDefault(nil)
		SetConfigPath("")
		SetDifficultyPreset("")
	})
	return mem
}

func newGame(t *testing.T, seed int64) *Game {
	t.Helper()
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: seed})
	return g
}

// onBoard starts a game on a hand-drawn sea.
func onBoard(t *testing.T, rows []string) *Game {
	t.Helper()
	b, err := ParseBoard(rows)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	g := newGame(t, 1)
	g.launch(b)
	return g
}

func press(g *Game, a core.Action) {
	in := core.NewInputFrame()
	in.Set(a)
	g.Step(in)
}

func TestCount(t *testing.T) {
	b, err := ParseBoard([]string{
		"#.#",
		".S.",
		"##.",
	})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		p    core.Point
		want int
	}{
		{core.Pt(1, 1), 4},
		{core.Pt(0, 0), 0},
		{core.Pt(1, 0), 2},
		{core.Pt(2, 2), 1},
		{core.Pt(2, 1), 2},
	}
	for _, tt := range tests {
		if got := b.Count(tt.p); got != tt.want {
			t.Errorf("Count(%v) = %d, expected %d", tt.p, got, tt.want)
		}
	}
}

func TestParseBoardErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"empty", nil},
		{"ragged", []string{"S..", ".."}},
		{"unknown glyph", []string{"S.x"}},
		{"no start", []string{"..."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBoard(tt.rows); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestReachable(t *testing.T) {
	b, err := ParseBoard([]string{
		"S.#..",
		"..#..",
		"###..",
	})
	if err != nil {
		t.Fatal(err)
	}
	reach := b.Reachable(b.Start)
	if reach.Size() != 4 {
		t.Errorf("reachable = %d cells, expected 4", reach.Size())
	}
	if reach.Has(core.Pt(3, 0)) {
		t.Error("reached water behind the reef wall")
	}
	if b.Reachable(core.Pt(2, 0)).Size() != 0 {
		t.Error("a reef reaches nothing")
	}
}

func TestGeneratedBoardRules(t *testing.T) {
	opt := Options{W: 15, H: 15, ReefOneIn: 4, Start: core.Pt(7, 1), MaxTries: 100}
	for seed := int64(1); seed <= 50; seed++ {
		b, err := Generate(rand.New(rand.NewSource(seed)), opt)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if b.Reef(opt.Start) {
			t.Fatalf("seed %d: reef on the start", seed)
		}
		for _, q := range b.Neighbours(opt.Start) {
			if b.Reef(q) {
				t.Fatalf("seed %d: reef next to the start at %v", seed, q)
			}
		}
		if !b.Reachable(opt.Start).Has(b.Treasure) {
			t.Fatalf("seed %d: treasure %v unreachable\n%s", seed, b.Treasure, b)
		}
		if !b.treasureSpot(b.Treasure) {
			t.Fatalf("seed %d: treasure %v touches calm water\n%s", seed, b.Treasure, b)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	opt := Options{W: 15, H: 15, ReefOneIn: 4, Start: core.Pt(7, 1), MaxTries: 100}
	a, err := Generate(rand.New(rand.NewSource(99)), opt)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(rand.New(rand.NewSource(99)), opt)
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("same seed gave different seas:\n%s\n\n%s", a, b)
	}
}

func TestGenerateGivesUp(t *testing.T) {
	// Every cell but the start pocket is reef: no cell can hide the treasure.
	opt := Options{W: 15, H: 15, ReefOneIn: 1, Start: core.Pt(7, 1), MaxTries: 3}
	if _, err := Generate(rand.New(rand.NewSource(1)), opt); !errors.Is(err, ErrNoBoard) {
		t.Errorf("err = %v, expected ErrNoBoard", err)
	}
	if _, err := Generate(rand.New(rand.NewSource(1)), Options{W: 5, H: 5, ReefOneIn: 4, Start: core.Pt(9, 9)}); err == nil {
		t.Error("start outside the board should fail")
	}
}

func TestCalmWaterSpreads(t *testing.T) {
	isolate(t)
	g := onBoard(t, smallSea)

	snap := g.Snapshot()
	// everything but the two reefs, the treasure and (4,3)
	if snap.Revealed != 21 {
		t.Errorf("revealed = %d, expected 21", snap.Revealed)
	}
	if g.revealed.Has(g.board.Treasure) {
		t.Error("calm water revealed the treasure")
	}
	if snap.Visited != 1 {
		t.Errorf("visited = %d, expected only the start", snap.Visited)
	}
}

func TestFindTreasure(t *testing.T) {
	mem := isolate(t)
	g := onBoard(t, smallSea)

	for _, a := range []core.Action{core.ActionDown, core.ActionDown, core.ActionDown, core.ActionRight, core.ActionRight} {
		press(g, a)
	}
	snap := g.Snapshot()
	if snap.State != StateFound {
		t.Fatalf("state = %s at %v", snap.State, snap.Ship)
	}
	// 100 for the treasure plus one per cell never sailed through
	if snap.Score != 100+25-6 {
		t.Errorf("score = %d, expected %d", snap.Score, 100+25-6)
	}
	if g.Status() != MsgFound || !g.State().GameOver {
		t.Errorf("status %q over %v", g.Status(), g.State().GameOver)
	}
	kinds := mem.Kinds()
	if kinds[len(kinds)-1] != telemetry.KindWin {
		t.Errorf("last event = %s", kinds[len(kinds)-1])
	}

	// Moves are ignored once the voyage is over
	press(g, core.ActionLeft)
	if g.Snapshot().Ship != snap.Ship {
		t.Error("ship moved after the game ended")
	}
}

func TestHitReef(t *testing.T) {
	isolate(t)
	g := onBoard(t, smallSea)

	for _, a := range []core.Action{core.ActionRight, core.ActionRight, core.ActionDown, core.ActionDown} {
		press(g, a)
	}
	snap := g.Snapshot()
	if snap.State != StateSunk || snap.Score != 0 {
		t.Fatalf("state %s score %d", snap.State, snap.Score)
	}
	if g.Status() != MsgSunk {
		t.Errorf("status = %q", g.Status())
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), MsgSunk) {
		t.Error("sunk overlay missing")
	}

	press(g, core.ActionRestart)
	if g.Snapshot().State != StateSailing {
		t.Errorf("after restart state = %s", g.Snapshot().State)
	}
}

func TestBoardEdgeStopsShip(t *testing.T) {
	isolate(t)
	g := onBoard(t, smallSea)

	press(g, core.ActionUp)
	press(g, core.ActionUp)
	snap := g.Snapshot()
	if snap.Ship != core.Pt(1, 0) || snap.Moves != 1 {
		t.Errorf("ship %v moves %d, expected (1,0) and 1", snap.Ship, snap.Moves)
	}
}

func TestDeterminism(t *testing.T) {
	isolate(t)
	g1 := newGame(t, 4242)
	g2 := newGame(t, 4242)

	inputs := []core.Action{core.ActionDown, core.ActionLeft, core.ActionDown, core.ActionRight, core.ActionDown}
	for _, a := range inputs {
		press(g1, a)
		press(g2, a)
	}
	s1, s2 := g1.Snapshot(), g2.Snapshot()
	if s1 != s2 {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
}

func TestRenderRevealsCounts(t *testing.T) {
	isolate(t)
	g := onBoard(t, smallSea)

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	ox := (80 - 5*cellWidth) / 2
	ship := screen.GetCell(ox+1*cellWidth, hudHeight+1)
	if ship.Rune != '▲' {
		t.Errorf("ship cell = %+v", ship)
	}
	// (2,2) touches the reef at (3,3)
	one := screen.GetCell(ox+2*cellWidth, hudHeight+2)
	if one.Rune != '1' {
		t.Errorf("count cell = %+v", one)
	}
	// reefs stay hidden while sailing
	reef := screen.GetCell(ox+3*cellWidth, hudHeight+3)
	if reef.Rune != ' ' || reef.Bg != core.ColorSea {
		t.Errorf("hidden reef = %+v", reef)
	}
	if !strings.Contains(screen.Row(0), "Reef Explorer") {
		t.Errorf("HUD = %q", screen.Row(0))
	}
}

func TestHardPresetCrowdsTheSea(t *testing.T) {
	isolate(t)
	SetDifficultyPreset("hard")
	g := newGame(t, 1)
	if g.cfg.Board.ReefOneIn != 3 {
		t.Errorf("reef chance = 1/%d, expected 1/3", g.cfg.Board.ReefOneIn)
	}
}
