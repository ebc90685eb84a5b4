package config

import (
	_ "embed"
)

//go:embed defaults/pyramid.yaml
var defaultPyramidYAML []byte

//go:embed defaults/reef.yaml
var defaultReefYAML []byte

//go:embed defaults/crates.yaml
var defaultCratesYAML []byte

// DefaultPyramidConfig returns the default pyramid configuration,
// matching the embedded three-by-two maze.
func DefaultPyramidConfig() PyramidConfig {
	return PyramidConfig{
		Maze: MazeConfig{
			Width:      3,
			Height:     2,
			RoomWidth:  16,
			RoomHeight: 16,
			StartRoom:  Coord{X: 1, Y: 1},
			StartPos:   Coord{X: 8, Y: 8},
			Rooms: [][]string{
				{"a1.bmp", "a2.bmp", "a3.bmp"},
				{"b1.bmp", "b2.bmp", "b3.bmp"},
			},
		},
		Timer: TimerConfig{
			Seconds:      120,
			MessageEvery: 5,
			StartMessage: "The pyramid is collapsing",
		},
		Scoring: PyramidScoring{
			PerCollectible: 50,
			PerSecond:      1,
		},
	}
}

// DefaultReefConfig returns the default reef configuration.
func DefaultReefConfig() ReefConfig {
	return ReefConfig{
		Board: ReefBoard{
			Width:     15,
			Height:    15,
			ReefOneIn: 4,
			Start:     Coord{X: 7, Y: 1},
			MaxTries:  100,
		},
		Scoring: ReefScoring{
			Treasure:       100,
			UnvisitedBonus: 1,
		},
	}
}

// DefaultCratesConfig returns the default crates configuration.
func DefaultCratesConfig() CratesConfig {
	return CratesConfig{
		WearAfter:   5,
		LevelPoints: 100,
		MovePenalty: 1,
		StartLevel:  0,
	}
}
