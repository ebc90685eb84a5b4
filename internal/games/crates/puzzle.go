package crates

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/roomwalk/internal/core"
)

// Puzzle is the live state of one level.
type Puzzle struct {
	W, H   int
	Worker core.Point
	Goals  mapset.Set[core.Point]
	Crates mapset.Set[core.Point]
	walls  []bool
	visits []int
}

// ParsePuzzle builds a puzzle from a level layout. Rows may be ragged; missing
// cells are walls.
func ParsePuzzle(rows []string) (*Puzzle, error) {
	if len(rows) == 0 {
		return nil, errors.New("crates: empty layout")
	}
	w := 0
	for _, row := range rows {
		w = max(w, len(row))
	}
	p := &Puzzle{
		W:      w,
		H:      len(rows),
		Worker: core.Pt(-1, -1),
		Goals:  mapset.New[core.Point](),
		Crates: mapset.New[core.Point](),
		walls:  make([]bool, w*len(rows)),
		visits: make([]int, w*len(rows)),
	}
	for i := range p.walls {
		p.walls[i] = true
	}

	workers := 0
	for y, row := range rows {
		for x, ch := range row {
			q := core.Pt(x, y)
			if ch != '#' {
				p.walls[y*w+x] = false
			}
			switch ch {
			case '#', ' ':
			case '.':
				p.Goals.Put(q)
			case '$':
				p.Crates.Put(q)
			case '*':
				p.Goals.Put(q)
				p.Crates.Put(q)
			case '@':
				p.Worker = q
				workers++
			case '+':
				p.Goals.Put(q)
				p.Worker = q
				workers++
			default:
				return nil, fmt.Errorf("crates: unknown glyph %q at (%d,%d)", ch, x, y)
			}
		}
	}

	switch {
	case workers != 1:
		return nil, fmt.Errorf("crates: layout has %d workers, want 1", workers)
	case p.Goals.Size() == 0:
		return nil, errors.New("crates: layout has no goals")
	case p.Crates.Size() < p.Goals.Size():
		return nil, fmt.Errorf("crates: %d crates for %d goals", p.Crates.Size(), p.Goals.Size())
	}
	p.visit(p.Worker)
	return p, nil
}

// In reports whether q lies inside the layout.
func (p *Puzzle) In(q core.Point) bool {
	return q.X >= 0 && q.X < p.W && q.Y >= 0 && q.Y < p.H
}

// Wall reports whether q is a wall. Cells outside the layout are walls.
func (p *Puzzle) Wall(q core.Point) bool {
	return !p.In(q) || p.walls[q.Y*p.W+q.X]
}

// Visits returns how many times the worker stood on q.
func (p *Puzzle) Visits(q core.Point) int {
	if !p.In(q) {
		return 0
	}
	return p.visits[q.Y*p.W+q.X]
}

func (p *Puzzle) visit(q core.Point) {
	if p.In(q) {
		p.visits[q.Y*p.W+q.X]++
	}
}

// free reports whether a crate may be pushed onto q.
func (p *Puzzle) free(q core.Point) bool {
	return !p.Wall(q) && !p.Crates.Has(q)
}

// MoveResult describes one attempted step.
type MoveResult struct {
	Moved  bool
	Pushed bool
}

// Move steps the worker, pushing a single crate ahead when the cell behind
// it is free.
func (p *Puzzle) Move(d core.Dir) MoveResult {
	next := p.Worker.Step(d)
	if p.Wall(next) {
		return MoveResult{}
	}
	pushed := false
	if p.Crates.Has(next) {
		beyond := next.Step(d)
		if !p.free(beyond) {
			return MoveResult{}
		}
		p.Crates.Remove(next)
		p.Crates.Put(beyond)
		pushed = true
	}
	p.Worker = next
	p.visit(next)
	return MoveResult{Moved: true, Pushed: pushed}
}

// Solved reports whether every goal holds a crate.
func (p *Puzzle) Solved() bool {
	solved := true
	p.Goals.Each(func(g core.Point) {
		if !p.Crates.Has(g) {
			solved = false
		}
	})
	return solved
}

// Stored returns how many goals hold a crate.
func (p *Puzzle) Stored() int {
	n := 0
	p.Goals.Each(func(g core.Point) {
		if p.Crates.Has(g) {
			n++
		}
	})
	return n
}
