package pyramid

import (
	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/session"
	"github.com/vovakirdan/roomwalk/internal/world"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StateLoading     GameStateType = "loading"
	StateFailed      GameStateType = "failed"
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateWon         GameStateType = "won"
	StateLost        GameStateType = "lost"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	State     GameStateType
	Room      world.RoomCoord
	Pos       core.Point
	Collected world.Counters
	Totals    world.Counters
	Remaining int
	Status    string
	Ending    session.Ending
	Score     int
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.sess == nil {
		return Snapshot{Tick: g.tick, State: StateFailed}
	}
	s := g.sess.Snapshot()
	return Snapshot{
		Tick:      g.tick,
		State:     g.stateType(),
		Room:      s.Room,
		Pos:       s.Pos,
		Collected: s.Collected,
		Totals:    s.Totals,
		Remaining: s.Remaining,
		Status:    s.Status,
		Ending:    s.Ending,
		Score:     g.sess.Score(),
	}
}

func (g *Game) stateType() GameStateType {
	switch g.sess.State() {
	case session.Won:
		return StateWon
	case session.Lost:
		return StateLost
	case session.NotStarted:
		if g.sess.LoadErr() != nil {
			return StateFailed
		}
		return StateLoading
	}
	switch {
	case g.tooSmall:
		return StatePausedSmall
	case g.paused:
		return StatePaused
	}
	return StatePlaying
}
