package reef

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/roomwalk/internal/core"
)

// ErrNoBoard is returned when no playable sea could be generated.
var ErrNoBoard = errors.New("reef: no playable board")

// neighbours are the eight surrounding offsets.
var neighbours = [8]core.Point{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// Board is the sea: reefs, the start and the hidden treasure.
type Board struct {
	W, H     int
	Start    core.Point
	Treasure core.Point
	reefs    []bool
}

// NewBoard creates open water. The treasure is unset (-1,-1).
func NewBoard(w, h int, start core.Point) *Board {
	return &Board{
		W:        w,
		H:        h,
		Start:    start,
		Treasure: core.Pt(-1, -1),
		reefs:    make([]bool, w*h),
	}
}

// ParseBoard builds a board from rows of '.' water, '#' reef, 'S' start and
// 'T' treasure.
func ParseBoard(rows []string) (*Board, error) {
	if len(rows) == 0 {
		return nil, errors.New("reef: empty board")
	}
	w := len(rows[0])
	b := NewBoard(w, len(rows), core.Pt(-1, -1))
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("reef: row %d has width %d, want %d", y, len(row), w)
		}
		for x, ch := range row {
			p := core.Pt(x, y)
			switch ch {
			case '.':
			case '#':
				b.SetReef(p, true)
			case 'S':
				b.Start = p
			case 'T':
				b.Treasure = p
			default:
				return nil, fmt.Errorf("reef: unknown glyph %q at (%d,%d)", ch, x, y)
			}
		}
	}
	if !b.In(b.Start) {
		return nil, errors.New("reef: board has no start")
	}
	return b, nil
}

// In reports whether p lies on the board.
func (b *Board) In(p core.Point) bool {
	return p.X >= 0 && p.X < b.W && p.Y >= 0 && p.Y < b.H
}

// Reef reports whether p is a reef. Off-board cells are not.
func (b *Board) Reef(p core.Point) bool {
	return b.In(p) && b.reefs[p.Y*b.W+p.X]
}

// SetReef places or clears a reef.
func (b *Board) SetReef(p core.Point, reef bool) {
	if b.In(p) {
		b.reefs[p.Y*b.W+p.X] = reef
	}
}

// Count returns how many of the eight neighbours of p are reefs.
func (b *Board) Count(p core.Point) int {
	n := 0
	for _, d := range neighbours {
		if b.Reef(p.Add(d)) {
			n++
		}
	}
	return n
}

// Neighbours returns the on-board cells around p.
func (b *Board) Neighbours(p core.Point) []core.Point {
	out := make([]core.Point, 0, len(neighbours))
	for _, d := range neighbours {
		if q := p.Add(d); b.In(q) {
			out = append(out, q)
		}
	}
	return out
}

// Reachable returns every water cell a ship can sail to from a cell using the four
// compass moves.
func (b *Board) Reachable(from core.Point) mapset.Set[core.Point] {
	seen := mapset.New[core.Point]()
	if !b.In(from) || b.Reef(from) {
		return seen
	}
	queue := []core.Point{from}
	seen.Put(from)
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range core.Dirs {
			q := p.Step(d)
			if !b.In(q) || b.Reef(q) || seen.Has(q) {
				continue
			}
			seen.Put(q)
			queue = append(queue, q)
		}
	}
	return seen
}

// treasureSpot reports whether p may hide the treasure: open water next to at
// least one reef, and not touching any zero-count water, so revealing calm
// water never uncovers it.
func (b *Board) treasureSpot(p core.Point) bool {
	if b.Reef(p) || p == b.Start || b.Count(p) == 0 {
		return false
	}
	for _, q := range b.Neighbours(p) {
		if !b.Reef(q) && b.Count(q) == 0 {
			return false
		}
	}
	return true
}

// Options controls board generation.
type Options struct {
	W, H      int
	ReefOneIn int // each cell is a reef with chance 1/ReefOneIn
	Start     core.Point
	MaxTries  int
}

// Generate lays out random reefs, keeps the water around the start clear and
// hides the treasure on a cell the ship can reach. Boards without such a cell
// are thrown away and rolled again.
func Generate(rng *rand.Rand, opt Options) (*Board, error) {
	if opt.W <= 0 || opt.H <= 0 {
		return nil, fmt.Errorf("reef: invalid board size %dx%d", opt.W, opt.H)
	}
	if opt.ReefOneIn <= 0 {
		return nil, fmt.Errorf("reef: invalid reef chance 1/%d", opt.ReefOneIn)
	}
	b := NewBoard(opt.W, opt.H, opt.Start)
	if !b.In(opt.Start) {
		return nil, fmt.Errorf("reef: start %v outside %dx%d board", opt.Start, opt.W, opt.H)
	}

	for range max(opt.MaxTries, 1) {
		for y := range opt.H {
			for x := range opt.W {
				b.SetReef(core.Pt(x, y), rng.Intn(opt.ReefOneIn) == 0)
			}
		}
		b.SetReef(opt.Start, false)
		for _, q := range b.Neighbours(opt.Start) {
			b.SetReef(q, false)
		}

		reach := b.Reachable(opt.Start)
		var spots []core.Point
		for y := range opt.H {
			for x := range opt.W {
				if p := core.Pt(x, y); reach.Has(p) && b.treasureSpot(p) {
					spots = append(spots, p)
				}
			}
		}
		if len(spots) > 0 {
			b.Treasure = spots[rng.Intn(len(spots))]
			return b, nil
		}
	}
	return nil, ErrNoBoard
}

// String renders the board in ParseBoard notation.
func (b *Board) String() string {
	var sb strings.Builder
	for y := range b.H {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := range b.W {
			p := core.Pt(x, y)
			switch {
			case p == b.Start:
				sb.WriteByte('S')
			case p == b.Treasure:
				sb.WriteByte('T')
			case b.Reef(p):
				sb.WriteByte('#')
			default:
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
