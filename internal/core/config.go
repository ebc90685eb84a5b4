package core

// DefaultTickRate is used when a RuntimeConfig leaves TickRate at zero.
const DefaultTickRate = 60

// RuntimeConfig is what the platform hands a game on Reset.
type RuntimeConfig struct {
	ScreenW, ScreenH int   // terminal size in cells
	TickRate         int   // Step calls per second
	Seed             int64 // zero lets the platform pick one from the clock
}

// TicksPerSecond returns TickRate or DefaultTickRate.
func (c RuntimeConfig) TicksPerSecond() int {
	if c.TickRate > 0 {
		return c.TickRate
	}
	return DefaultTickRate
}

// GameState is the part of a game the platform cares about: the score to
// store and whether the round is over or paused.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool
}

// StepResult is what Step reports after one tick.
type StepResult struct {
	State GameState
}
