// Package rooms turns room bitmaps into world.Room values.
//
// Each pixel of a room image is one cell; its exact RGB value selects the cell
// kind through a Palette. Rooms are loaded asynchronously by a Loader and
// handed to the session as session.Result values.
package rooms

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/world"
)

// Decode errors, wrapped with the file name and position.
var (
	ErrFormat = errors.New("unsupported image format")
	ErrSize   = errors.New("wrong room size")
	ErrColor  = errors.New("unmapped color")
)

// RGB is a 24-bit color.
type RGB uint32

// RGBOf converts any color to RGB, dropping alpha.
func RGBOf(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB((r>>8)<<16 | (g>>8)<<8 | b>>8)
}

func (c RGB) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

// Palette maps pixel colors to cell kinds.
type Palette map[RGB]world.Cell

// DefaultPalette is the color table used by the room bitmaps.
var DefaultPalette = Palette{
	0x000000: world.Wall,
	0x00ff00: world.Ground,
	0x00ffff: world.Person,
	0xffff00: world.Treasure,
	0xff0000: world.Exit,
	0x0000ff: world.OneStep,
}

// Cell looks up the cell kind for c.
func (p Palette) Cell(c color.Color) (world.Cell, bool) {
	cell, ok := p[RGBOf(c)]
	return cell, ok
}

// Color returns the color that encodes cell, used when writing rooms back.
func (p Palette) Color(cell world.Cell) (RGB, bool) {
	for rgb, c := range p {
		if c == cell {
			return rgb, true
		}
	}
	return 0, false
}

// Decode reads a .bmp or .png room of exactly w×h pixels using DefaultPalette.
func Decode(name string, r io.Reader, w, h int) (*world.Room, error) {
	return DefaultPalette.Decode(name, r, w, h)
}

// Decode reads a .bmp or .png room of exactly w×h pixels.
func (p Palette) Decode(name string, r io.Reader, w, h int) (*world.Room, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".bmp":
		img, err = bmp.Decode(r)
	case ".png":
		img, err = png.Decode(r)
	default:
		return nil, fmt.Errorf("rooms: %s: %w", name, ErrFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("rooms: %s: %w", name, err)
	}
	return p.FromImage(name, img, w, h)
}

// FromImage converts a decoded image into a room.
func (p Palette) FromImage(name string, img image.Image, w, h int) (*world.Room, error) {
	b := img.Bounds()
	if b.Dx() != w || b.Dy() != h {
		return nil, fmt.Errorf("rooms: %s: image is %dx%d, want %dx%d: %w", name, b.Dx(), b.Dy(), w, h, ErrSize)
	}
	cells := make([]world.Cell, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := img.At(b.Min.X+x, b.Min.Y+y)
			c, ok := p.Cell(px)
			if !ok {
				return nil, fmt.Errorf("rooms: %s: %v at (%d,%d): %w", name, RGBOf(px), x, y, ErrColor)
			}
			cells = append(cells, c)
		}
	}
	return world.RoomFromCells(w, h, cells)
}

// Image renders a room back into an image using the palette.
func (p Palette) Image(room *world.Room) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, room.W, room.H))
	for y := 0; y < room.H; y++ {
		for x := 0; x < room.W; x++ {
			rgb, _ := p.Color(room.At(core.Pt(x, y)))
			img.Set(x, y, color.RGBA{
				R: uint8(rgb >> 16),
				G: uint8(rgb >> 8),
				B: uint8(rgb),
				A: 0xff,
			})
		}
	}
	return img
}
