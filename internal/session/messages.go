package session

import (
	"fmt"

	"github.com/vovakirdan/roomwalk/internal/world"
)

// Status lines.
const (
	MsgStart       = "The pyramid is collapsing"
	MsgPerson      = "I've found one of my teammates"
	MsgTreasure    = "I've found an ancient artifact"
	MsgTimeUp      = "I wasn't able to escape. (Space to retry)"
	MsgSurrender   = "It's over. I accept my fate. (Space to retry)"
	MsgLoading     = "Loading..."
	MsgRightChoice = "I made the right choice"
)

// collectMessage returns the status line shown after picking up it.
func collectMessage(it world.Item) string {
	if it == world.ItemTreasure {
		return MsgTreasure
	}
	return MsgPerson
}

// Narration returns the ending lines for a won session, shown one at a time.
// got holds what the player collected and total what the maze held.
func Narration(got, total world.Counters) []string {
	lines := []string{fmt.Sprintf("%d saved and %d found.", got.People(), got.Treasure())}
	switch {
	case total.People() > 0 && got.People() == total.People():
		lines = append(lines, "I managed to rescue everyone.", "They're eternally grateful for my help")
	case total.Treasure() > 0 && got.Treasure() == total.Treasure():
		lines = append(lines, "I found all the artifacts", "I couldn't let them be lost")
	case got.Total() == 0:
		lines = append(lines, "I saved what was important")
	default:
		lines = append(lines, "I did everything I could")
	}
	return append(lines, MsgRightChoice)
}

// Ending selects the end picture.
type Ending int

const (
	EndingNone     Ending = iota // session still running
	EndingPeople                 // more people than treasure
	EndingTreasure               // more treasure than people
	EndingBalanced               // equal amounts
	EndingLost
)

func (e Ending) String() string {
	switch e {
	case EndingPeople:
		return "people"
	case EndingTreasure:
		return "treasure"
	case EndingBalanced:
		return "balanced"
	case EndingLost:
		return "lost"
	default:
		return "none"
	}
}

// EndingFor picks the win picture for the collected counts.
func EndingFor(got world.Counters) Ending {
	switch {
	case got.People() > got.Treasure():
		return EndingPeople
	case got.People() < got.Treasure():
		return EndingTreasure
	default:
		return EndingBalanced
	}
}

// FormatClock renders seconds as M:SS.
func FormatClock(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}
