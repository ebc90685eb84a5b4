package rooms

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/vovakirdan/roomwalk/internal/world"
)

//go:embed levels/*.bmp
var levels embed.FS

// DefaultFS returns the embedded pyramid rooms.
func DefaultFS() fs.FS {
	sub, err := fs.Sub(levels, "levels")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	return sub
}

// Layout names the file of every room in a maze.
type Layout struct {
	W, H         int
	RoomW, RoomH int
	Files        [][]string // indexed [y][x]
}

// DefaultLayout is the embedded three-by-two pyramid; the main hall is b2.
func DefaultLayout() Layout {
	return Layout{
		W: 3, H: 2,
		RoomW: 16, RoomH: 16,
		Files: [][]string{
			{"a1.bmp", "a2.bmp", "a3.bmp"},
			{"b1.bmp", "b2.bmp", "b3.bmp"},
		},
	}
}

// Validate checks that every room has a file name.
func (l Layout) Validate() error {
	if l.W <= 0 || l.H <= 0 || l.RoomW <= 0 || l.RoomH <= 0 {
		return fmt.Errorf("rooms: invalid layout %dx%d of %dx%d rooms", l.W, l.H, l.RoomW, l.RoomH)
	}
	if len(l.Files) != l.H {
		return fmt.Errorf("rooms: layout has %d rows, want %d", len(l.Files), l.H)
	}
	for y, row := range l.Files {
		if len(row) != l.W {
			return fmt.Errorf("rooms: layout row %d has %d rooms, want %d", y, len(row), l.W)
		}
		for x, f := range row {
			if f == "" {
				return fmt.Errorf("rooms: no file for room (%d,%d)", x, y)
			}
		}
	}
	return nil
}

// File returns the file name of the room at rc.
func (l Layout) File(rc world.RoomCoord) (string, bool) {
	if rc.Y < 0 || rc.Y >= len(l.Files) || rc.X < 0 || rc.X >= len(l.Files[rc.Y]) {
		return "", false
	}
	return l.Files[rc.Y][rc.X], true
}

// Coords lists every room coordinate in row-major order.
func (l Layout) Coords() []world.RoomCoord {
	out := make([]world.RoomCoord, 0, l.W*l.H)
	for y := 0; y < l.H; y++ {
		for x := 0; x < l.W; x++ {
			out = append(out, world.RoomCoord{X: x, Y: y})
		}
	}
	return out
}
