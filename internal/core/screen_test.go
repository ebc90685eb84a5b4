package core

import (
	"strings"
	"testing"
)

func TestScreenBounds(t *testing.T) {
	s := NewScreen(6, 3)
	if s.Width() != 6 || s.Height() != 3 {
		t.Fatalf("size %dx%d", s.Width(), s.Height())
	}
	if s.String() != "      \n      \n      " {
		t.Errorf("new screen not blank: %q", s.String())
	}

	s.Set(5, 2, 'X')
	for _, p := range []Point{{-1, 0}, {6, 0}, {0, -1}, {0, 3}} {
		s.Set(p.X, p.Y, '!')
		if s.Get(p.X, p.Y) != ' ' {
			t.Errorf("Get(%v) outside should be blank", p)
		}
	}
	if s.Get(5, 2) != 'X' || strings.Contains(s.String(), "!") {
		t.Errorf("screen = %q", s.String())
	}
}

func TestScreenTextAndColors(t *testing.T) {
	s := NewScreen(10, 2)
	s.SetCell(1, 0, Cell{Rune: '.', Fg: ColorYellow, Bg: ColorMaroon})
	s.Set(1, 0, '@')
	if c := s.GetCell(1, 0); c != (Cell{Rune: '@', Fg: ColorYellow, Bg: ColorMaroon}) {
		t.Errorf("Set should keep colors, got %+v", c)
	}

	s.DrawText(7, 1, "é→ok")
	if s.Row(1) != "       é→o" {
		t.Errorf("row 1 = %q", s.Row(1))
	}

	s.DrawTextColored(0, 1, "ab", ColorCyan)
	if c := s.GetCell(1, 1); c.Rune != 'b' || c.Fg != ColorCyan || c.Bg != ColorDefault {
		t.Errorf("DrawTextColored = %+v", c)
	}

	s.Clear()
	if s.GetCell(1, 0) != blank {
		t.Error("Clear should drop colors")
	}
}

func TestScreenShapes(t *testing.T) {
	s := NewScreen(7, 5)
	s.Fill('.')
	s.DrawBox(Rect{X: 1, Y: 1, W: 5, H: 3})
	s.DrawRect(Rect{X: 2, Y: 2, W: 3, H: 1}, Cell{Rune: '#'})

	want := strings.Join([]string{
		".......",
		".┌───┐.",
		".│###│.",
		".└───┘.",
		".......",
	}, "\n")
	if s.String() != want {
		t.Errorf("got\n%s\nwant\n%s", s.String(), want)
	}
}

func TestScreenOverlay(t *testing.T) {
	s := NewScreen(30, 9)
	s.Fill('.')
	s.Overlay("GAME OVER", "R to retry")

	out := s.String()
	if !strings.Contains(out, "GAME OVER") || !strings.Contains(out, "R to retry") {
		t.Errorf("overlay text missing:\n%s", out)
	}
	if s.Get(8, 2) != '┌' || s.Get(21, 6) != '┘' || s.Get(0, 0) != '.' {
		t.Errorf("overlay misplaced:\n%s", out)
	}
}

func TestScreenResizeKeepsCorner(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "Hello")
	s.DrawText(0, 5, "World")

	s.Resize(4, 3)
	if s.String() != "Hell\n    \n    " {
		t.Errorf("shrunk = %q", s.String())
	}

	s.Resize(8, 6)
	if s.Row(0) != "Hell    " || s.Row(5) != "        " {
		t.Errorf("grown rows %q %q", s.Row(0), s.Row(5))
	}
	if s.Row(-1) != "        " {
		t.Error("rows outside should be spaces")
	}

	s.Resize(-3, 2)
	if s.Width() != 0 || s.String() != "\n" {
		t.Errorf("negative width gave %dx%d", s.Width(), s.Height())
	}
}
