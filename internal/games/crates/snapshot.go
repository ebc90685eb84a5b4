package crates

import "github.com/vovakirdan/roomwalk/internal/core"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateLevelCleared GameStateType = "level_cleared"
	StateWin          GameStateType = "win"
	StatePaused       GameStateType = "paused"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the game state for determinism testing and replay.
type Snapshot struct {
	Tick   uint64
	Level  int // 1-indexed for display
	Worker core.Point
	Moves  int
	Pushes int
	Solved int
	Stored int
	Score  int
	State  GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.won:
		state = StateWin
	case g.levelCleared:
		state = StateLevelCleared
	case g.tooSmall:
		state = StatePausedSmall
	case g.paused:
		state = StatePaused
	}

	s := Snapshot{
		Tick:   g.tick,
		Level:  g.levelIndex + 1,
		Moves:  g.moves,
		Pushes: g.pushes,
		Solved: g.solved,
		Score:  g.Score(),
		State:  state,
	}
	if g.puzzle != nil {
		s.Worker = g.puzzle.Worker
		s.Stored = g.puzzle.Stored()
	}
	return s
}
