package main

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomwalk/internal/platform/tui"
	"github.com/vovakirdan/roomwalk/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick games from a menu",
	Long: `Show the game picker. Finished games return to it.

Controls:
  Up/Down/j/k  - Move the cursor
  Enter/Space  - Play the highlighted game
  Tab          - High scores
  Q            - Quit

Examples:
  arcade menu
  arcade menu --fps 30 --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	env, err := startEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	configureGames("", "")
	cfg := terminalConfig()

	for {
		res, err := tui.RunMenu(env.store, cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		switch {
		case res.Quit:
			return nil

		case res.WantsScoreboard:
			back, err := tui.RunScoreboard(env.store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}

		default:
			game, err := registry.Create(res.GameID)
			if err != nil {
				log.Error("cannot start game", "game", res.GameID, "error", err)
				continue
			}
			// A fixed --seed replays the same round every time.
			if flagSeed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}
			if err := tui.Run(game, env.store, cfg); err != nil {
				return err
			}
		}
	}
}
