package core

import (
	"strings"
	"unicode/utf8"
)

// Cell is one character of the screen with its colors.
type Cell struct {
	Rune rune
	Fg   Color
	Bg   Color
}

var blank = Cell{Rune: ' '}

// Screen is the character grid games draw into. The platform turns it into
// terminal output. Writes outside the grid are dropped and reads outside it
// return a blank cell.
type Screen struct {
	w, h  int
	cells []Cell // row-major
}

// NewScreen returns a blank w by h screen.
func NewScreen(w, h int) *Screen {
	s := &Screen{}
	s.Resize(w, h)
	return s
}

func (s *Screen) Width() int  { return s.w }
func (s *Screen) Height() int { return s.h }

// Resize changes the size and keeps the overlapping top-left content.
func (s *Screen) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if s.cells != nil && w == s.w && h == s.h {
		return
	}
	cells := make([]Cell, w*h)
	for i := range cells {
		cells[i] = blank
	}
	for y := range min(h, s.h) {
		copy(cells[y*w:y*w+min(w, s.w)], s.cells[y*s.w:])
	}
	s.w, s.h, s.cells = w, h, cells
}

// Clear blanks every cell.
func (s *Screen) Clear() {
	s.Fill(' ')
}

// Fill sets every cell to r with default colors.
func (s *Screen) Fill(r rune) {
	for i := range s.cells {
		s.cells[i] = Cell{Rune: r}
	}
}

func (s *Screen) index(x, y int) (int, bool) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return 0, false
	}
	return y*s.w + x, true
}

// Set replaces the rune at x, y and keeps its colors.
func (s *Screen) Set(x, y int, r rune) {
	if i, ok := s.index(x, y); ok {
		s.cells[i].Rune = r
	}
}

// SetCell replaces the cell at x, y.
func (s *Screen) SetCell(x, y int, c Cell) {
	if i, ok := s.index(x, y); ok {
		s.cells[i] = c
	}
}

// SetColored writes r in fg on the default background.
func (s *Screen) SetColored(x, y int, r rune, fg Color) {
	s.SetCell(x, y, Cell{Rune: r, Fg: fg})
}

func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

func (s *Screen) GetCell(x, y int) Cell {
	if i, ok := s.index(x, y); ok {
		return s.cells[i]
	}
	return blank
}

// DrawText writes text from x, y rightwards, one cell per rune.
func (s *Screen) DrawText(x, y int, text string) {
	for _, r := range text {
		s.Set(x, y, r)
		x++
	}
}

// DrawTextColored is DrawText in fg.
func (s *Screen) DrawTextColored(x, y int, text string, fg Color) {
	for _, r := range text {
		s.SetColored(x, y, r, fg)
		x++
	}
}

// DrawTextCentered centers text on row y.
func (s *Screen) DrawTextCentered(y int, text string) {
	s.DrawText((s.w-utf8.RuneCountInString(text))/2, y, text)
}

// DrawRect fills r with c.
func (s *Screen) DrawRect(r Rect, c Cell) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.SetCell(x, y, c)
		}
	}
}

// DrawBox frames r with single box-drawing lines.
func (s *Screen) DrawBox(r Rect) {
	right, bottom := r.Right()-1, r.Bottom()-1
	s.DrawHLine(r.X+1, r.Y, r.W-2, '─')
	s.DrawHLine(r.X+1, bottom, r.W-2, '─')
	for y := r.Y + 1; y < bottom; y++ {
		s.Set(r.X, y, '│')
		s.Set(right, y, '│')
	}
	s.Set(r.X, r.Y, '┌')
	s.Set(right, r.Y, '┐')
	s.Set(r.X, bottom, '└')
	s.Set(right, bottom, '┘')
}

// DrawHLine writes n copies of r from x, y rightwards.
func (s *Screen) DrawHLine(x, y, n int, r rune) {
	for i := range max(n, 0) {
		s.Set(x+i, y, r)
	}
}

// Overlay draws a centered box with two lines of text over whatever is
// on screen.
func (s *Screen) Overlay(line1, line2 string) {
	width := max(utf8.RuneCountInString(line1), utf8.RuneCountInString(line2)) + 4
	box := Rect{X: (s.w - width) / 2, Y: (s.h - 5) / 2, W: width, H: 5}

	s.DrawRect(box, blank)
	s.DrawBox(box)
	s.DrawTextCentered(box.Y+1, line1)
	s.DrawTextCentered(box.Y+3, line2)
}

// String returns the runes without colors, rows joined by newlines.
func (s *Screen) String() string {
	var b strings.Builder
	b.Grow((s.w + 1) * s.h)
	for y := range s.h {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.Row(y))
	}
	return b.String()
}

// Row returns row y as text. Rows outside the screen are all spaces.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.h {
		return strings.Repeat(" ", s.w)
	}
	var b strings.Builder
	for _, c := range s.cells[y*s.w : (y+1)*s.w] {
		b.WriteRune(c.Rune)
	}
	return b.String()
}
