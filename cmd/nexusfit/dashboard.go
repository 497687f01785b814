// ABOUTME: CLI command for the calorie and progress dashboard.
// ABOUTME: Prints energy targets, body metrics, and the last seven days of training.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nexusfit/internal/energy"
)

var dashboardJSON bool

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show calorie targets and progress",
	Long: `Show calorie targets, body metrics, and training progress.

BMR uses the Mifflin-St Jeor equation; TDEE multiplies it by your activity
level. The daily target subtracts 500 kcal for weight loss and adds 500 for
mass gain.

EXAMPLES:

  nexusfit dashboard
  nexusfit dashboard --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := st.Snapshot()
		dash := energy.NewDashboard(snap.Profile, snap.History, time.Now())
		if dashboardJSON {
			data, err := json.MarshalIndent(dash, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode dashboard: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		printDashboard(cmd.OutOrStdout(), dash)
		return nil
	},
}

func printDashboard(w io.Writer, d energy.Dashboard) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Fprintf(w, "Hi, %s\n\n", d.Name)

	fmt.Fprintf(w, "%s %.0f kcal\n", padRight("Daily target", 16), d.DailyKcal)
	fmt.Fprintf(w, "%s %.0f kcal\n", padRight("BMR", 16), d.BMR)
	fmt.Fprintf(w, "%s %.0f kcal\n", padRight("TDEE", 16), d.TDEE)
	fmt.Fprintf(w, "%s %.1f\n", padRight("BMI", 16), d.BMI)
	fmt.Fprintf(w, "%s %.1f kg\n", padRight("Ideal weight", 16), d.IdealWeight)
	fmt.Fprintf(w, "%s %.1f kg (%.1f kg to go)\n", padRight("Target weight", 16), d.TargetWeight, d.WeightDelta)
	fmt.Fprintf(w, "%s %.1f h/week\n", padRight("Training time", 16), d.WeeklyTrainingHours)
	fmt.Fprintln(w)

	bold.Fprintln(w, "Last 7 days")
	for _, day := range d.LastSevenDays {
		bar := strings.Repeat("#", min(int(day.Kcal/50), 40))
		fmt.Fprintf(w, "  %s %s %s\n", day.Date, padRight(fmt.Sprintf("%.0f", day.Kcal), 6), bar)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%d sessions, %.0f kcal burned, %.1fg fat\n",
		d.History.Sessions, d.History.TotalKcal, d.History.TotalFatGrams)
	if d.LastWorkout != nil {
		faint.Fprintf(w, "Last workout: %s on %s\n", d.LastWorkout.DayName,
			d.LastWorkout.StartedAt().Local().Format("2006-01-02"))
	}
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(dashboardCmd)
}
