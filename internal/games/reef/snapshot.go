package reef

import "github.com/vovakirdan/roomwalk/internal/core"

// GameStateType represents the current game state.
type GameStateType string

const (
	StateSailing     GameStateType = "sailing"
	StateSunk        GameStateType = "sunk"
	StateFound       GameStateType = "found"
	StatePaused      GameStateType = "paused"
	StateNoBoard     GameStateType = "no_board"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the game state for determinism testing and replay.
type Snapshot struct {
	Tick     uint64
	Ship     core.Point
	Treasure core.Point
	Board    string
	Moves    int
	Visited  int
	Revealed int
	Score    int
	State    GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.board == nil {
		return Snapshot{Tick: g.tick, State: StateNoBoard}
	}

	state := StateSailing
	switch {
	case g.sunk:
		state = StateSunk
	case g.found:
		state = StateFound
	case g.tooSmall:
		state = StatePausedSmall
	case g.paused:
		state = StatePaused
	}

	return Snapshot{
		Tick:     g.tick,
		Ship:     g.ship,
		Treasure: g.board.Treasure,
		Board:    g.board.String(),
		Moves:    g.moves,
		Visited:  g.visited.Size(),
		Revealed: g.revealed.Size(),
		Score:    g.Score(),
		State:    state,
	}
}
