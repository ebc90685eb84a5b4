package world

import (
	"fmt"

	"github.com/vovakirdan/roomwalk/internal/core"
)

// RoomCoord addresses a room inside the maze.
type RoomCoord struct {
	X, Y int
}

// Step returns the neighbouring room coordinate in direction d.
func (rc RoomCoord) Step(d core.Dir) RoomCoord {
	delta := d.Delta()
	return RoomCoord{X: rc.X + delta.X, Y: rc.Y + delta.Y}
}

func (rc RoomCoord) String() string {
	return fmt.Sprintf("(%d,%d)", rc.X, rc.Y)
}

// Maze is a W×H grid of rooms, all sized RoomW×RoomH.
// Rooms may be missing until they are loaded.
type Maze struct {
	W, H         int
	RoomW, RoomH int
	rooms        []*Room
}

// NewMaze creates an empty maze with no rooms loaded.
func NewMaze(w, h, roomW, roomH int) *Maze {
	return &Maze{
		W:     w,
		H:     h,
		RoomW: roomW,
		RoomH: roomH,
		rooms: make([]*Room, w*h),
	}
}

// Contains reports whether rc lies inside the maze.
func (m *Maze) Contains(rc RoomCoord) bool {
	return rc.X >= 0 && rc.X < m.W && rc.Y >= 0 && rc.Y < m.H
}

// Room returns the loaded room at rc, or nil.
func (m *Maze) Room(rc RoomCoord) *Room {
	if !m.Contains(rc) {
		return nil
	}
	return m.rooms[rc.Y*m.W+rc.X]
}

// Loaded reports whether the room at rc is available.
func (m *Maze) Loaded(rc RoomCoord) bool {
	return m.Room(rc) != nil
}

// Put installs a room at rc. The room must match the maze's room size.
func (m *Maze) Put(rc RoomCoord, r *Room) error {
	if !m.Contains(rc) {
		return fmt.Errorf("world: room %v outside %dx%d maze", rc, m.W, m.H)
	}
	if r == nil {
		return fmt.Errorf("world: nil room at %v", rc)
	}
	if r.W != m.RoomW || r.H != m.RoomH {
		return fmt.Errorf("world: room %v is %dx%d, want %dx%d", rc, r.W, r.H, m.RoomW, m.RoomH)
	}
	m.rooms[rc.Y*m.W+rc.X] = r
	return nil
}

// Clear unloads every room.
func (m *Maze) Clear() {
	for i := range m.rooms {
		m.rooms[i] = nil
	}
}

// Coords lists every room coordinate in row-major order.
func (m *Maze) Coords() []RoomCoord {
	out := make([]RoomCoord, 0, m.W*m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			out = append(out, RoomCoord{X: x, Y: y})
		}
	}
	return out
}

// LoadedCount returns the number of loaded rooms.
func (m *Maze) LoadedCount() int {
	n := 0
	for _, r := range m.rooms {
		if r != nil {
			n++
		}
	}
	return n
}

// Complete reports whether every room is loaded.
func (m *Maze) Complete() bool {
	return m.LoadedCount() == len(m.rooms)
}
