package core

// Color is a palette entry for a screen cell.
// The platform maps each entry to an ANSI 256-color code.
type Color uint8

// Palette used by the games.
const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorGray
	ColorDarkGray
	ColorOrange
	ColorBrightRed
	ColorBrightYellow
	ColorBrightCyan
	ColorMaroon // pyramid walls
	ColorRust   // collapsing floor
	ColorSalmon // pyramid floor
	ColorPink   // pyramid exit
	ColorSea    // reef water
	ColorSand   // HUD bars
	ColorBrown  // crates
)
