package world

import (
	"fmt"

	"github.com/vovakirdan/roomwalk/internal/core"
)

// Room is a fixed-size grid of cells addressed by local (x, y).
type Room struct {
	W, H  int
	cells []Cell
}

// NewRoom creates a w×h room filled with the given cell.
func NewRoom(w, h int, fill Cell) *Room {
	r := &Room{W: w, H: h, cells: make([]Cell, w*h)}
	for i := range r.cells {
		r.cells[i] = fill
	}
	return r
}

// RoomFromCells builds a room from a row-major cell slice.
func RoomFromCells(w, h int, cells []Cell) (*Room, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("world: invalid room size %dx%d", w, h)
	}
	if len(cells) != w*h {
		return nil, fmt.Errorf("world: room %dx%d needs %d cells, got %d", w, h, w*h, len(cells))
	}
	r := &Room{W: w, H: h, cells: make([]Cell, len(cells))}
	copy(r.cells, cells)
	return r, nil
}

// glyphs maps the text form used by ParseRoom.
var glyphs = map[rune]Cell{
	'#': Wall,
	'.': Ground,
	'p': Person,
	't': Treasure,
	'E': Exit,
	'o': OneStep,
}

// ParseRoom builds a room from text rows, one rune per cell:
// '#' wall, '.' ground, 'p' person, 't' treasure, 'E' exit, 'o' one-step.
func ParseRoom(rows []string) (*Room, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("world: empty room")
	}
	w := len([]rune(rows[0]))
	cells := make([]Cell, 0, w*len(rows))
	for y, row := range rows {
		rs := []rune(row)
		if len(rs) != w {
			return nil, fmt.Errorf("world: row %d has width %d, want %d", y, len(rs), w)
		}
		for x, g := range rs {
			c, ok := glyphs[g]
			if !ok {
				return nil, fmt.Errorf("world: unknown glyph %q at (%d,%d)", g, x, y)
			}
			cells = append(cells, c)
		}
	}
	return RoomFromCells(w, len(rows), cells)
}

// In reports whether p lies inside the room.
func (r *Room) In(p core.Point) bool {
	return p.X >= 0 && p.X < r.W && p.Y >= 0 && p.Y < r.H
}

// At returns the cell at p. Positions outside the room read as Wall.
func (r *Room) At(p core.Point) Cell {
	if !r.In(p) {
		return Wall
	}
	return r.cells[p.Y*r.W+p.X]
}

// Set replaces the cell at p. Out-of-bounds positions are ignored.
func (r *Room) Set(p core.Point, c Cell) {
	if !r.In(p) {
		return
	}
	r.cells[p.Y*r.W+p.X] = c
}

// Clone returns an independent copy of the room.
func (r *Room) Clone() *Room {
	c := &Room{W: r.W, H: r.H, cells: make([]Cell, len(r.cells))}
	copy(c.cells, r.cells)
	return c
}

// Count returns how many cells of kind c the room holds.
func (r *Room) Count(c Cell) int {
	n := 0
	for _, v := range r.cells {
		if v == c {
			n++
		}
	}
	return n
}

// Collectibles returns the collectible counts still lying in the room.
func (r *Room) Collectibles() Counters {
	var c Counters
	for _, v := range r.cells {
		if it, ok := v.Item(); ok {
			c[it]++
		}
	}
	return c
}

// String renders the room in ParseRoom's text form.
func (r *Room) String() string {
	inv := make(map[Cell]rune, len(glyphs))
	for g, c := range glyphs {
		inv[c] = g
	}
	buf := make([]rune, 0, (r.W+1)*r.H)
	for y := 0; y < r.H; y++ {
		if y > 0 {
			buf = append(buf, '\n')
		}
		for x := 0; x < r.W; x++ {
			buf = append(buf, inv[r.cells[y*r.W+x]])
		}
	}
	return string(buf)
}
