// Package config provides YAML-based game configuration loading and
// difficulty presets for the arcade platform.
package config

// PyramidConfig contains all configuration for the pyramid maze game.
type PyramidConfig struct {
	Maze    MazeConfig     `yaml:"maze"`
	Timer   TimerConfig    `yaml:"timer"`
	Scoring PyramidScoring `yaml:"scoring"`
}

// MazeConfig describes the room grid and where the room bitmaps live.
type MazeConfig struct {
	Dir        string     `yaml:"dir"` // empty = embedded rooms
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	RoomWidth  int        `yaml:"room_width"`
	RoomHeight int        `yaml:"room_height"`
	StartRoom  Coord      `yaml:"start_room"`
	StartPos   Coord      `yaml:"start_pos"`
	Rooms      [][]string `yaml:"rooms"` // file names indexed [y][x]
}

// Coord is an x/y pair in YAML.
type Coord struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// TimerConfig defines the countdown and the status message cadence.
type TimerConfig struct {
	Seconds      int    `yaml:"seconds"`
	MessageEvery int    `yaml:"message_every"` // seconds between ending lines
	StartMessage string `yaml:"start_message"`
}

// PyramidScoring defines points awarded on escape.
type PyramidScoring struct {
	PerCollectible int `yaml:"per_collectible"`
	PerSecond      int `yaml:"per_second"` // bonus per second left
}

// ReefConfig contains all configuration for the reef exploration game.
type ReefConfig struct {
	Board   ReefBoard   `yaml:"board"`
	Scoring ReefScoring `yaml:"scoring"`
}

// ReefBoard defines the sea and its hazards.
type ReefBoard struct {
	Width     int   `yaml:"width"`
	Height    int   `yaml:"height"`
	ReefOneIn int   `yaml:"reef_one_in"` // each cell is a reef with chance 1/N
	Start     Coord `yaml:"start"`
	MaxTries  int   `yaml:"max_tries"` // board regenerations before giving up
}

// ReefScoring defines points awarded for finding the treasure.
type ReefScoring struct {
	Treasure       int `yaml:"treasure"`
	UnvisitedBonus int `yaml:"unvisited_bonus"` // per cell never sailed through
}

// CratesConfig contains all configuration for the crate pushing puzzle.
type CratesConfig struct {
	WearAfter   int `yaml:"wear_after"` // visits before a floor tile looks worn
	LevelPoints int `yaml:"level_points"`
	MovePenalty int `yaml:"move_penalty"`
	StartLevel  int `yaml:"start_level"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset converts a CLI flag value to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// ApplyPyramidPreset scales the countdown.
func ApplyPyramidPreset(cfg *PyramidConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Timer.Seconds = cfg.Timer.Seconds * 3 / 2
	case DifficultyHard:
		cfg.Timer.Seconds = cfg.Timer.Seconds * 2 / 3
	}
}

// ApplyReefPreset changes how crowded the sea is.
func ApplyReefPreset(cfg *ReefConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Board.ReefOneIn = 6
	case DifficultyNormal:
		cfg.Board.ReefOneIn = 4
	case DifficultyHard:
		cfg.Board.ReefOneIn = 3
	}
}
