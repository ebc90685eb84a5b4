// arcade hosts the roomwalk games in the terminal.
//
// Usage:
//
//	arcade list              - List available games
//	arcade play <game>       - Play a game
//	arcade menu              - Start menu to pick games interactively
//	arcade serve             - Start SSH server for remote play
//	arcade scores <game>     - Show high scores for a game
//	arcade check             - Decode and validate the pyramid rooms
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.arcade/scores.db)
//	--difficulty <preset> - easy, normal or hard
//	--maze-dir <dir>      - Read pyramid rooms from a directory
//	--event-log <path>    - Append game events to a log file
package main

import (
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/roomwalk/internal/games/crates"
	_ "github.com/vovakirdan/roomwalk/internal/games/pyramid"
	_ "github.com/vovakirdan/roomwalk/internal/games/reef"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagDifficulty string
	flagMazeDir    string
	flagEventLog   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "arcade",
	SilenceUsage: true,
	Short: "Roomwalk - room mazes and grid puzzles in your terminal",
	Long: `Roomwalk is a terminal arcade of grid games: escape a collapsing pyramid
room by room, chart a reef without sinking, and push crates onto their goals.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores
  check    - Validate a pyramid maze

Examples:
  arcade list
  arcade play pyramid
  arcade play reef --difficulty hard
  arcade menu
  arcade serve --ssh :2222 --spectate :8080
  arcade check --maze-dir ./my-maze`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagMazeDir, "maze-dir", "", "Directory with pyramid room bitmaps")
	rootCmd.PersistentFlags().StringVar(&flagEventLog, "event-log", "", "Append game events to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(checkCmd)
}
