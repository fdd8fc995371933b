package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/milk9111/platformer/scores"
)

var (
	flagScoresLevel string
	flagScoresLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show recorded runs",
	Long: `Display the best runs, most gems first and fastest among equals.

Examples:
  platformer scores
  platformer scores --level level-1 --limit 5`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresLevel, "level", "", "Only show runs of this level")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := scores.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	runs, err := store.TopRuns(cmd.Context(), flagScoresLevel, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieve runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-10s  %-5s  %-9s  %s\n", "Rank", "Level", "Gems", "Time", "Date")
	fmt.Fprintf(out, "  %-4s  %-10s  %-5s  %-9s  %s\n", "----", "-----", "----", "----", "----")
	for i, r := range runs {
		fmt.Fprintf(out, "  %-4d  %-10s  %-5d  %-9s  %s\n",
			i+1, r.Level, r.Gems, r.Duration.Round(10*time.Millisecond), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
