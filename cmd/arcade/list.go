package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomwalk/internal/registry"
	"github.com/vovakirdan/roomwalk/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered games",
	Long:  `Shows every registered game with its pitch and, when the scores database opens, how often it was played.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		if store != nil {
			defer store.Close()
		}
		printGames(cmd.OutOrStdout(), registry.List(), store)
	},
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("216")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// newTable is the rounded brown table shared by the listing commands.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("94"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func printGames(out io.Writer, games []registry.GameInfo, store *storage.Store) {
	if len(games) == 0 {
		fmt.Fprintln(out, "No games registered.")
		return
	}

	var stats map[string]*storage.GameStats
	if store != nil {
		stats, _ = store.GetAllGamesStats()
	}

	t := newTable("ID", "Title", "Rounds", "Best", "About")
	for _, g := range games {
		rounds, best := "-", "-"
		if s, ok := stats[g.ID]; ok && s.GamesCount > 0 {
			rounds = strconv.Itoa(s.GamesCount)
			best = strconv.Itoa(s.HighScore)
		}
		t.Row(g.ID, g.Title, rounds, best, g.Description)
	}

	fmt.Fprintln(out, t.Render())
	fmt.Fprintln(out, "Run 'arcade play <id>' to start one.")
}
