package pyramid

import (
	"fmt"

	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/session"
	"github.com/vovakirdan/roomwalk/internal/world"
)

// cellLook is how one room cell is drawn: a glyph over a background.
type cellLook struct {
	glyph rune
	fg    core.Color
	bg    core.Color
}

var looks = map[world.Cell]cellLook{
	world.Wall:     {' ', core.ColorDefault, core.ColorMaroon},
	world.Ground:   {' ', core.ColorDefault, core.ColorSalmon},
	world.Exit:     {' ', core.ColorDefault, core.ColorPink},
	world.OneStep:  {'░', core.ColorMaroon, core.ColorRust},
	world.Person:   {'☺', core.ColorCyan, core.ColorSalmon},
	world.Treasure: {'◆', core.ColorYellow, core.ColorSalmon},
}

var endingTitles = map[session.Ending]string{
	session.EndingPeople:   "Your team walks out into the sunlight",
	session.EndingTreasure: "The artifacts are safe",
	session.EndingBalanced: "You escaped the pyramid",
	session.EndingLost:     "The pyramid collapsed",
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.sess == nil {
		g.renderHUD(dst)
		if g.setupErr != nil {
			dst.Overlay("Cannot start the pyramid", g.setupErr.Error())
		}
		return
	}

	g.renderHUD(dst)

	if g.tooSmall {
		dst.Overlay("Window too small", "Resize to continue")
		return
	}

	roomW := g.cfg.Maze.RoomWidth * cellWidth
	mapW := g.sess.Config().MazeW * 3
	totalW := roomW
	showMap := g.screenW >= roomW+2+mapW
	if showMap {
		totalW += 2 + mapW
	}
	ox := (g.screenW - totalW) / 2
	oy := hudHeight

	g.renderRoom(dst, ox, oy)
	if showMap {
		g.renderMinimap(dst, ox+roomW+2, oy)
	}
	dst.DrawText(ox, oy+g.cfg.Maze.RoomHeight+1, g.sess.Status())

	switch g.sess.State() {
	case session.NotStarted:
		if g.sess.LoadErr() != nil {
			dst.Overlay("Cannot load the pyramid", "Press Q to quit")
			return
		}
		snap := g.sess.Snapshot()
		dst.Overlay("Loading rooms", fmt.Sprintf("%d/%d", snap.Loaded, snap.Rooms))
	case session.Won:
		dst.Overlay(endingTitles[g.sess.Ending()], fmt.Sprintf("Score %d. Space to play again", g.sess.Score()))
	case session.Lost:
		if g.fadeLevel >= 1 {
			dst.Overlay(endingTitles[session.EndingLost], "Space to retry")
		}
	case session.Playing:
		if g.paused {
			dst.Overlay("Paused", "Press P to continue")
		}
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := " Pyramid Escape"
	if g.sess != nil && g.sess.State() != session.NotStarted {
		snap := g.sess.Snapshot()
		hud = fmt.Sprintf(" Pyramid Escape — Teammates %d/%d  Artifacts %d/%d  Room %s",
			snap.Collected.People(), snap.Totals.People(),
			snap.Collected.Treasure(), snap.Totals.Treasure(),
			snap.Room)
	}
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

// renderRoom draws the player's current room, fading it out after a loss.
func (g *Game) renderRoom(dst *core.Screen, ox, oy int) {
	w := g.sess.World()
	room := w.CurrentRoom()
	if room == nil {
		return
	}

	for y := 0; y < room.H; y++ {
		for x := 0; x < room.W; x++ {
			look := looks[room.At(core.Pt(x, y))]
			if w.Player.Pos == core.Pt(x, y) {
				look.glyph, look.fg = '█', core.ColorRed
			}
			if g.faded(x, y) {
				look = cellLook{' ', core.ColorDefault, core.ColorBlack}
			}
			sx := ox + x*cellWidth
			dst.SetCell(sx, oy+y, core.Cell{Rune: look.glyph, Fg: look.fg, Bg: look.bg})
			second := ' '
			if look.glyph == '█' {
				second = '█'
			}
			dst.SetCell(sx+1, oy+y, core.Cell{Rune: second, Fg: look.fg, Bg: look.bg})
		}
	}
}

// faded reports whether the cell is already dark in the loss fade.
// Cells go dark in a fixed dither order as the fade level rises.
func (g *Game) faded(x, y int) bool {
	if g.fade == nil {
		return false
	}
	threshold := (float32((x*7+y*13)%16) + 0.5) / 16
	return threshold < g.fadeLevel
}

// renderMinimap draws one bracket per room: the player, loaded rooms and
// rooms still loading.
func (g *Game) renderMinimap(dst *core.Screen, ox, oy int) {
	w := g.sess.World()
	m := w.Maze
	for _, rc := range m.Coords() {
		x := ox + rc.X*3
		y := oy + rc.Y
		switch {
		case rc == w.Player.Room:
			dst.DrawTextColored(x, y, "[@]", core.ColorRed)
		case m.Loaded(rc):
			dst.DrawTextColored(x, y, "[ ]", core.ColorSand)
		default:
			dst.DrawTextColored(x, y, "[?]", core.ColorDarkGray)
		}
	}
}
