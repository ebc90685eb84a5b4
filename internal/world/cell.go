// Package world implements the room grid a player walks through.
//
// A World is a Maze of equally sized Rooms plus the Player standing in one of
// them. World.Move resolves a single directional step: it rejects walls and the
// outer maze edge, wraps the player onto the opposite edge of a neighbouring
// room, and applies the one-time side effects of the entered cell.
//
// The package holds no timers, goroutines or I/O. Everything that happens
// over time (countdown, room loading, narration) lives in the session package.
package world

// Cell is the terrain kind of one room position.
type Cell uint8

const (
	Wall Cell = iota
	Ground
	Person   // collectible teammate
	Treasure // collectible artifact
	Exit
	OneStep // floor that collapses into a wall once stepped on
)

// String returns the lowercase cell name.
func (c Cell) String() string {
	switch c {
	case Wall:
		return "wall"
	case Ground:
		return "ground"
	case Person:
		return "person"
	case Treasure:
		return "treasure"
	case Exit:
		return "exit"
	case OneStep:
		return "onestep"
	default:
		return "unknown"
	}
}

// Walkable reports whether the player may enter the cell.
func (c Cell) Walkable() bool {
	return c != Wall
}

// Item returns the collectible kind held by the cell.
func (c Cell) Item() (Item, bool) {
	switch c {
	case Person:
		return ItemPerson, true
	case Treasure:
		return ItemTreasure, true
	default:
		return 0, false
	}
}

// Item is a kind of collectible.
type Item int

const (
	ItemPerson Item = iota
	ItemTreasure

	numItems
)

// String returns the lowercase item name.
func (i Item) String() string {
	switch i {
	case ItemPerson:
		return "person"
	case ItemTreasure:
		return "treasure"
	default:
		return "unknown"
	}
}

// Cell returns the cell kind that holds the item.
func (i Item) Cell() Cell {
	if i == ItemTreasure {
		return Treasure
	}
	return Person
}

// Counters tallies collectibles by kind, indexed by Item.
type Counters [numItems]int

// People returns the person count.
func (c Counters) People() int { return c[ItemPerson] }

// Treasure returns the treasure count.
func (c Counters) Treasure() int { return c[ItemTreasure] }

// Total returns the sum over all kinds.
func (c Counters) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}
