// Package crates is a crate pushing puzzle. Floor tiles remember how often the
// worker stepped on them and wear down after enough visits.
package crates

// Level is one built-in puzzle. Layout glyphs: '#' wall, ' ' floor, '.' goal,
// '$' crate, '*' crate on a goal, '@' worker, '+' worker on a goal.
type Level struct {
	ID     int
	Name   string
	Layout []string
}

// Levels are played in order.
var Levels = []Level{
	{ID: 1, Name: "Warm-up", Layout: []string{
		"#########",
		"#       #",
		"# $   . #",
		"#   @   #",
		"#       #",
		"#########",
	}},
	{ID: 2, Name: "Two Crates", Layout: []string{
		"#######",
		"#     #",
		"# $.$ #",
		"#  @ .#",
		"#     #",
		"#######",
	}},
	{ID: 3, Name: "Storeroom", Layout: []string{
		"########",
		"#  .   #",
		"# $$ . #",
		"#  @#  #",
		"#. $   #",
		"########",
	}},
	{ID: 4, Name: "The Bend", Layout: []string{
		"  ####  ",
		"###  ## ",
		"#  $  # ",
		"# #.# ##",
		"# $. @ #",
		"##   # #",
		" ###   #",
		"   #####",
	}},
}

// LevelCount returns the number of levels.
func LevelCount() int {
	return len(Levels)
}

// GetLevel returns the level at the given index (0-based).
// Returns nil if index is out of range.
func GetLevel(index int) *Level {
	if index < 0 || index >= len(Levels) {
		return nil
	}
	return &Levels[index]
}
