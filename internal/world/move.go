package world

import "github.com/vovakirdan/roomwalk/internal/core"

// Player is the authoritative player state.
type Player struct {
	Pos      core.Point // local position inside Room
	Room     RoomCoord
	Counters Counters
	GameOver bool
}

// Effect is the side effect triggered by entering a cell.
type Effect int

const (
	EffectNone     Effect = iota
	EffectCollect         // collectible picked up, cell is now Ground
	EffectCollapse        // one-step floor is now Wall under the player
	EffectExit            // exit reached
)

func (e Effect) String() string {
	switch e {
	case EffectCollect:
		return "collect"
	case EffectCollapse:
		return "collapse"
	case EffectExit:
		return "exit"
	default:
		return "none"
	}
}

// Blocked explains why a move was rejected.
type Blocked int

const (
	BlockedNone     Blocked = iota
	BlockedWall             // target cell is a wall
	BlockedMazeEdge         // step would leave the maze
	BlockedUnloaded         // neighbouring room is not loaded yet
)

func (b Blocked) String() string {
	switch b {
	case BlockedWall:
		return "wall"
	case BlockedMazeEdge:
		return "maze edge"
	case BlockedUnloaded:
		return "unloaded"
	default:
		return "none"
	}
}

// MoveResult describes the outcome of World.Move.
// Room and Pos always hold the player's position after the call.
type MoveResult struct {
	Moved       bool
	RoomChanged bool
	Room        RoomCoord
	Pos         core.Point
	Effect      Effect
	Item        Item // valid when Effect == EffectCollect
	ReachedExit bool
	Blocked     Blocked
}

// World is a maze plus the player walking through it.
type World struct {
	Maze   *Maze
	Player Player
}

// New places a player at pos inside room start.
func New(m *Maze, start RoomCoord, pos core.Point) *World {
	return &World{
		Maze:   m,
		Player: Player{Pos: pos, Room: start},
	}
}

// CurrentRoom returns the room the player stands in, or nil if it is not loaded.
func (w *World) CurrentRoom() *Room {
	return w.Maze.Room(w.Player.Room)
}

// Move steps the player one cell in direction d.
//
// A step past the room edge enters the neighbouring room on the opposite
// edge at the same transverse coordinate. The outer maze edge, unloaded rooms
// and wall cells reject the move and leave the player untouched. Game over is
// not checked here.
func (w *World) Move(d core.Dir) MoveResult {
	p := &w.Player
	res := MoveResult{Room: p.Room, Pos: p.Pos}

	room := w.Maze.Room(p.Room)
	if room == nil {
		res.Blocked = BlockedUnloaded
		return res
	}

	target := p.Pos.Step(d)
	rc := p.Room
	if !room.In(target) {
		rc = rc.Step(d)
		if !w.Maze.Contains(rc) {
			res.Blocked = BlockedMazeEdge
			return res
		}
		room = w.Maze.Room(rc)
		if room == nil {
			res.Blocked = BlockedUnloaded
			return res
		}
		target = wrap(target, room)
	}

	cell := room.At(target)
	if !cell.Walkable() {
		res.Blocked = BlockedWall
		return res
	}

	res.Moved = true
	res.RoomChanged = rc != p.Room
	p.Room, p.Pos = rc, target
	res.Room, res.Pos = rc, target

	switch cell {
	case Person, Treasure:
		it, _ := cell.Item()
		p.Counters[it]++
		room.Set(target, Ground)
		res.Effect = EffectCollect
		res.Item = it
	case OneStep:
		room.Set(target, Wall)
		res.Effect = EffectCollapse
	case Exit:
		res.Effect = EffectExit
		res.ReachedExit = true
	}
	return res
}

// wrap moves an out-of-room point onto the opposite edge of r.
func wrap(p core.Point, r *Room) core.Point {
	switch {
	case p.X < 0:
		p.X = r.W - 1
	case p.X >= r.W:
		p.X = 0
	case p.Y < 0:
		p.Y = r.H - 1
	case p.Y >= r.H:
		p.Y = 0
	}
	return p
}
