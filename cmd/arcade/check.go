package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomwalk/internal/config"
	"github.com/vovakirdan/roomwalk/internal/games/pyramid"
	"github.com/vovakirdan/roomwalk/internal/rooms"
	"github.com/vovakirdan/roomwalk/internal/world"
)

var flagCheckConfig string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Decode and validate every room of a pyramid maze",
	Long: `Decode every room bitmap of the pyramid maze and report what it holds.

The check fails when a bitmap is missing or has the wrong size, a pixel
color is not part of the palette, the start position is inside a wall, or
the maze has no exit.

Examples:
  arcade check
  arcade check --maze-dir ./my-maze
  arcade check --config ./my-pyramid.yaml`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&flagCheckConfig, "config", "", "Path to custom pyramid config YAML")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	configureGames("pyramid", flagCheckConfig)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := checkMaze(ctx, cmd.OutOrStdout(), pyramid.LoadConfig()); err != nil {
		return fmt.Errorf("maze check failed: %w", err)
	}
	return nil
}

// checkMaze loads every room of the configured maze, prints one line per
// room and the totals, and returns every problem found.
func checkMaze(ctx context.Context, out io.Writer, cfg config.PyramidConfig) error {
	sc := pyramid.SessionConfig(cfg)
	if err := sc.Validate(); err != nil {
		return err
	}

	loader, err := rooms.NewLoader(pyramid.RoomFS(cfg.Maze), pyramid.RoomLayout(cfg.Maze))
	if err != nil {
		return err
	}
	defer loader.Close()

	loaded, loadErr := loader.LoadAll(ctx)
	layout := loader.Layout()

	var totals world.Counters
	exits := 0
	fmt.Fprintf(out, "Maze %dx%d, rooms of %dx%d\n\n", layout.W, layout.H, layout.RoomW, layout.RoomH)
	fmt.Fprintf(out, "  %-6s  %-12s  %-6s  %-9s  %-5s  %s\n", "Room", "File", "People", "Artifacts", "Exits", "Collapsing")
	for _, rc := range layout.Coords() {
		name, _ := layout.File(rc)
		room, ok := loaded[rc]
		if !ok {
			fmt.Fprintf(out, "  %-6s  %-12s  unreadable\n", rc, name)
			continue
		}
		c := room.Collectibles()
		for i := range totals {
			totals[i] += c[i]
		}
		n := room.Count(world.Exit)
		exits += n
		fmt.Fprintf(out, "  %-6s  %-12s  %-6d  %-9d  %-5d  %d\n",
			rc, name, c.People(), c.Treasure(), n, room.Count(world.OneStep))
	}
	fmt.Fprintf(out, "\nTotal: %d people, %d artifacts, %d exits\n", totals.People(), totals.Treasure(), exits)

	errs := []error{loadErr}
	if start, ok := loaded[sc.StartRoom]; ok && !start.At(sc.StartPos).Walkable() {
		errs = append(errs, fmt.Errorf("start position %v in room %v is a wall", sc.StartPos, sc.StartRoom))
	}
	if loadErr == nil && exits == 0 {
		errs = append(errs, errors.New("maze has no exit"))
	}
	return errors.Join(errs...)
}
