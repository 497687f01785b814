// ABOUTME: CLI command for listing recorded workout sessions.
// ABOUTME: Shows newest sessions first with calorie and fat-loss totals.
package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nexusfit/internal/models"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"sessions"},
	Short:   "List recorded workout sessions",
	Long: `List recorded workout sessions, newest first.

Each line shows: ID  DATE  DAY  EXERCISES  KCAL  FAT

EXAMPLES:

  nexusfit history          # Last 20 sessions
  nexusfit history -n 100   # Last 100 sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		printHistory(cmd.OutOrStdout(), st.History(), historyLimit)
		return nil
	},
}

func printHistory(w io.Writer, history []models.WorkoutSession, limit int) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No workouts recorded yet.")
		return
	}

	summary := models.SummarizeHistory(history)
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}

	faint := color.New(color.Faint)
	for _, s := range history {
		fmt.Fprintf(w, "%s %s %s %s %s %s\n",
			faint.Sprint(truncate(s.ID, 8)),
			faint.Sprint(s.StartedAt().Local().Format("2006-01-02 15:04")),
			padRight(s.DayName, 10),
			padRight(fmt.Sprintf("%d ex", s.CompletedExercises), 6),
			padRight(fmt.Sprintf("%.0f kcal", s.TotalKcal), 10),
			fmt.Sprintf("%.1fg", s.TotalFatLostGrams))
	}
	fmt.Fprintln(w)
	color.New(color.Bold).Fprintf(w, "%d sessions, %.0f kcal, %.1fg fat\n",
		summary.Sessions, summary.TotalKcal, summary.TotalFatGrams)
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max number of sessions")
	rootCmd.AddCommand(historyCmd)
}
