package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomwalk/internal/registry"
	"github.com/vovakirdan/roomwalk/internal/storage"
	"github.com/vovakirdan/roomwalk/internal/telemetry"
)

const dateLayout = "2006-01-02 15:04"

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Show the best rounds of one game with its win and loss counts, or a
summary of every game played so far.

Examples:
  arcade scores
  arcade scores pyramid
  arcade scores crates --limit 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
}

func runScores(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && !registry.Exists(args[0]) {
		return fmt.Errorf("unknown game %q, see 'arcade list'", args[0])
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		return printSummary(cmd.OutOrStdout(), store)
	}
	return printScores(cmd.OutOrStdout(), store, args[0], flagScoresLimit)
}

func gameTitle(id string) string {
	for _, g := range registry.List() {
		if g.ID == id {
			return g.Title
		}
	}
	return id
}

func printScores(out io.Writer, store *storage.Store, gameID string, limit int) error {
	scores, err := store.TopScores(gameID, limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "High scores of %s\n\n", gameTitle(gameID))
	if len(scores) == 0 {
		fmt.Fprintf(out, "Nothing yet. 'arcade play %s' sets the first one.\n", gameID)
		return nil
	}

	t := newTable("#", "Score", "Date")
	for i, e := range scores {
		t.Row(strconv.Itoa(i+1), strconv.Itoa(e.Score), e.CreatedAt.Local().Format(dateLayout))
	}
	fmt.Fprintln(out, t.Render())

	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Fprintf(out, "Rounds %d, best %d, average %.1f\n", stats.GamesCount, stats.HighScore, stats.AvgScore)
	}
	if counts, err := store.EventCounts(gameID); err == nil && len(counts) > 0 {
		fmt.Fprintf(out, "Won %d, lost %d, restarted %d\n",
			counts[telemetry.KindWin], counts[telemetry.KindLose], counts[telemetry.KindRestart])
	}
	return nil
}

func printSummary(out io.Writer, store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	t := newTable("Game", "Rounds", "Best", "Average", "Last played")
	for _, id := range ids {
		s := all[id]
		t.Row(id, strconv.Itoa(s.GamesCount), strconv.Itoa(s.HighScore),
			fmt.Sprintf("%.1f", s.AvgScore), s.LastPlayed.Local().Format(dateLayout))
	}
	fmt.Fprintln(out, t.Render())
	return nil
}
