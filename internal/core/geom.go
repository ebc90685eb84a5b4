// Package core holds what games and the platform share: grid geometry, the
// character screen, input frames and runtime settings. It imports nothing
// from the terminal layer so games stay testable without one.
package core

// Point is a grid coordinate. Y grows downwards.
type Point struct {
	X, Y int
}

// Pt builds a Point.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add offsets p by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Step returns the neighbour of p in direction d.
func (p Point) Step(d Dir) Point {
	delta := d.Delta()
	return Point{X: p.X + delta.X, Y: p.Y + delta.Y}
}

// Dir is a grid direction.
type Dir uint8

const (
	DirUp Dir = iota
	DirDown
	DirLeft
	DirRight
)

// Dirs is every direction, in declaration order.
var Dirs = [4]Dir{DirUp, DirDown, DirLeft, DirRight}

var dirInfo = [4]struct {
	delta    Point
	opposite Dir
	name     string
}{
	DirUp:    {Point{0, -1}, DirDown, "up"},
	DirDown:  {Point{0, 1}, DirUp, "down"},
	DirLeft:  {Point{-1, 0}, DirRight, "left"},
	DirRight: {Point{1, 0}, DirLeft, "right"},
}

// Delta is the unit offset of d. Invalid directions do not move.
func (d Dir) Delta() Point {
	if int(d) >= len(dirInfo) {
		return Point{}
	}
	return dirInfo[d].delta
}

// Opposite returns the reverse direction.
func (d Dir) Opposite() Dir {
	if int(d) >= len(dirInfo) {
		return d
	}
	return dirInfo[d].opposite
}

func (d Dir) String() string {
	if int(d) >= len(dirInfo) {
		return "unknown"
	}
	return dirInfo[d].name
}

// DirForAction maps a move action to its direction.
func DirForAction(a Action) (Dir, bool) {
	switch a {
	case ActionUp:
		return DirUp, true
	case ActionDown:
		return DirDown, true
	case ActionLeft:
		return DirLeft, true
	case ActionRight:
		return DirRight, true
	}
	return 0, false
}

// Rect is a cell rectangle with its top-left corner at X, Y.
type Rect struct {
	X, Y, W, H int
}

// Right is the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.W }

// Bottom is the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
