package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomwalk/internal/platform/tui"
	"github.com/vovakirdan/roomwalk/internal/registry"
)

var flagConfig string

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play one game",
	Long: `Start the named game right away.

Controls:
  Arrows/WASD - Move
  Space       - Pyramid: give up or play again. Crates: reset the level
  P/Esc       - Pause
  R           - Restart (after the game ends)
  Ctrl+S      - Save a screenshot to ~/.arcade/screenshots
  Q/Ctrl+C    - Quit

Difficulty presets (--difficulty):
  easy   - More time, fewer reefs
  normal - The defaults
  hard   - Less time, more reefs

Examples:
  arcade play pyramid
  arcade play pyramid --maze-dir ./my-maze
  arcade play reef --difficulty hard --seed 42
  arcade play crates --config ./my-crates.yaml`,
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var ids []string
		for _, g := range registry.List() {
			ids = append(ids, g.ID)
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "YAML settings for this game")
}

func runPlay(_ *cobra.Command, args []string) error {
	id := args[0]
	if !registry.Exists(id) {
		return fmt.Errorf("unknown game %q, see 'arcade list'", id)
	}

	configureGames(id, flagConfig)
	game, err := registry.Create(id)
	if err != nil {
		return err
	}

	env, err := startEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	return tui.Run(game, env.store, terminalConfig())
}
